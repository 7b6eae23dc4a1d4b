package l2res

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/pkg/errors"
	"go-hep.org/x/hep/hbook"

	jetmet "github.com/hatakeyamak/JetMET"
)

// Var is an asymmetry variable: "A" (pT balance) or "B" (MPF).
type Var string

const (
	VarA Var = "A"
	VarB Var = "B"
)

var Vars = []Var{VarA, VarB}

func (v Var) Label() string {
	if v == VarA {
		return "Bal."
	}
	return "MPF"
}

// Value returns the asymmetry of d.
func (v Var) Value(d *Dijet) float64 {
	if v == VarA {
		return d.A
	}
	return d.B
}

// BinKey addresses one asymmetry distribution.
type BinKey struct {
	Var    Var
	Sample string
	Sign   Sign
	Eta    int
	Pt     int
}

func (k BinKey) String() string {
	return fmt.Sprintf("%s_%s_%s_%d_%d", k.Var, k.Sample, k.Sign, k.Eta, k.Pt)
}

func (k BinKey) Less(o BinKey) bool {
	if k.Var != o.Var {
		return k.Var < o.Var
	}
	if k.Sample != o.Sample {
		return k.Sample < o.Sample
	}
	if k.Sign != o.Sign {
		return k.Sign < o.Sign
	}
	if k.Eta != o.Eta {
		return k.Eta < o.Eta
	}
	return k.Pt < o.Pt
}

// PtVar picks the pT used for binning.
type PtVar string

const (
	PtAve PtVar = "ave"
	PtTag PtVar = "tag"
)

func (p PtVar) Value(d *Dijet) float64 {
	if p == PtTag {
		return d.TagJet().Pt
	}
	return d.PtAvg
}

func (p PtVar) Label() string {
	if p == PtTag {
		return "pT,tag"
	}
	return "pT,avg"
}

// Table holds the asymmetry distribution of every bin. Bins never filled
// are absent.
type Table struct {
	Binning Binning
	hists   map[BinKey]*hbook.H1D
}

func NewTable(b Binning) *Table {
	return &Table{Binning: b, hists: make(map[BinKey]*hbook.H1D)}
}

// H1D returns the distribution of key, or nil.
func (t *Table) H1D(key BinKey) *hbook.H1D {
	return t.hists[key]
}

// Set replaces the distribution of key.
func (t *Table) Set(key BinKey, h *hbook.H1D) {
	t.hists[key] = h
}

func (t *Table) Len() int { return len(t.hists) }

// Keys returns the filled keys in order.
func (t *Table) Keys() []BinKey {
	keys := make([]BinKey, 0, len(t.hists))
	for k := range t.hists {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return keys
}

func (t *Table) fill(key BinKey, x, w float64) {
	h, ok := t.hists[key]
	if !ok {
		h = hbook.NewH1D(SymBins, SymLow, SymHigh)
		t.hists[key] = h
	}
	h.Fill(x, w)
}

// Fill books d in the signed and absolute bins of both variables. Values
// outside the asymmetry axis are not booked. It reports whether d fell
// inside the eta and pT binning.
func (t *Table) Fill(sample string, d *Dijet, ptVar PtVar, w float64) bool {
	sign, etaBin, ok := t.Binning.EtaBin(d.ProbeJet().Eta)
	if !ok {
		return false
	}
	ptBin := t.Binning.PtBin(ptVar.Value(d))
	if ptBin < 0 {
		return false
	}
	for _, v := range Vars {
		x := v.Value(d)
		if x < SymLow || x >= SymHigh {
			continue
		}
		t.fill(BinKey{v, sample, sign, etaBin, ptBin}, x, w)
		t.fill(BinKey{v, sample, AbsEta, etaBin, ptBin}, x, w)
	}
	return true
}

// Sample is a named set of skim files. Scale multiplies the event weight.
type Sample struct {
	Name  string   `yaml:"name"`
	Files []string `yaml:"files"`
	Scale float64  `yaml:"scale,omitempty"`
}

func (s Sample) weight(d *Dijet) float64 {
	if s.Scale == 0 {
		return d.Weight
	}
	return d.Weight * s.Scale
}

// FillStats counts the events of one sample.
type FillStats struct {
	Read, Invalid, Selected, Filled int
}

// FillSample reads the skims of s and books every selected event.
func (t *Table) FillSample(ctx context.Context, r SkimReader, s Sample, sel Selection, ptVar PtVar, logger *slog.Logger) (FillStats, error) {
	var stats FillStats
	logger.Info("filling", "sample", s.Name, "files", len(s.Files), "selection", sel.String())
	err := r.ReadSkims(ctx, s.Files, logger, func(d *Dijet) error {
		stats.Read++
		if stats.Read%100000 == 0 {
			logger.Info("at event", "sample", s.Name, "n", stats.Read)
		}
		if !d.Valid() {
			stats.Invalid++
			logger.Log(ctx, jetmet.LevelTrace, "bad tag/probe index", "tag", d.Tag, "probe", d.Probe, "nJet", len(d.Jets))
			return nil
		}
		if !sel.Pass(d) {
			return nil
		}
		stats.Selected++
		if t.Fill(s.Name, d, ptVar, s.weight(d)) {
			stats.Filled++
		}
		return nil
	})
	if err != nil {
		return stats, errors.Wrapf(err, "fill %s", s.Name)
	}
	logger.Info("filled", "sample", s.Name, "read", stats.Read, "selected", stats.Selected, "filled", stats.Filled, "invalid", stats.Invalid)
	return stats, nil
}
