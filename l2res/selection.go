package l2res

import (
	"fmt"
	"math"
	"strings"
)

// Cut is a named event predicate. Expr is the equivalent selection string
// on the skim branches, kept for logging and bookkeeping.
type Cut struct {
	Name string
	Expr string
	Pass func(*Dijet) bool
}

type Selection []Cut

func (s Selection) Pass(d *Dijet) bool {
	for _, c := range s {
		if !c.Pass(d) {
			return false
		}
	}
	return true
}

// Names returns the cut names in order.
func (s Selection) Names() []string {
	names := make([]string, len(s))
	for i, c := range s {
		names[i] = c.Name
	}
	return names
}

func (s Selection) String() string {
	exprs := make([]string, len(s))
	for i, c := range s {
		exprs[i] = c.Expr
	}
	return strings.Join(exprs, "&&")
}

// SelectionOptions configure NewSelection.
type SelectionOptions struct {
	Alpha        float64
	PhEF         float64
	Cleaned      bool
	METOverSumET bool
	// JER is the branch postfix of the JER variation.
	JER string
}

// AlphaName is the name of the alpha cut, e.g. "a30" for 0.3.
func AlphaName(alpha float64) string {
	return fmt.Sprintf("a%d", int(100*alpha))
}

var cosBackToBack = math.Cos(2.7)

// NewSelection builds the dijet event selection.
func NewSelection(opts SelectionOptions) Selection {
	jer := opts.JER
	sel := Selection{
		{
			Name: "tgb",
			Expr: fmt.Sprintf("abs(Jet_eta[tag_jet_index%s])<1.3", jer),
			Pass: func(d *Dijet) bool { return math.Abs(d.TagJet().Eta) < 1.3 },
		},
		{
			Name: "btb",
			Expr: fmt.Sprintf("cos(Jet_phi[tag_jet_index%s] - Jet_phi[probe_jet_index%s]) < cos(2.7)", jer, jer),
			Pass: func(d *Dijet) bool {
				return math.Cos(d.TagJet().Phi-d.ProbeJet().Phi) < cosBackToBack
			},
		},
		{
			Name: AlphaName(opts.Alpha),
			Expr: fmt.Sprintf("alpha%s<%f", jer, opts.Alpha),
			Pass: func(d *Dijet) bool { return d.Alpha < opts.Alpha },
		},
		{
			Name: "failIdVeto",
			Expr: "Sum$(JetFailId_pt*(JetFailId_pt>30))<30",
			Pass: func(d *Dijet) bool {
				sum := 0.0
				for _, pt := range d.FailIDPt {
					if pt > 30 {
						sum += pt
					}
				}
				return sum < 30
			},
		},
	}

	if opts.Cleaned {
		sel = append(sel, Cut{
			Name: "jet_cleaning",
			Expr: HotJetExpr + "&&" + SpikeCleaningExpr("Jet_eta[probe_jet_index"+jer+"]", "Jet_phi[probe_jet_index"+jer+"]"),
			Pass: func(d *Dijet) bool {
				probe := d.ProbeJet()
				return HotJetSum(d.Jets) < 20 && !InSpike(probe.Eta, probe.Phi)
			},
		})
	}
	if opts.PhEF > 0 {
		sel = append(sel, Cut{
			Name: "phEFprobe",
			Expr: fmt.Sprintf("abs(Jet_phEF[probe_jet_index%s])<%f", jer, opts.PhEF),
			Pass: func(d *Dijet) bool { return math.Abs(d.ProbeJet().PhEF) < opts.PhEF },
		})
	}
	if opts.METOverSumET {
		sel = append(sel, Cut{
			Name: "MOSET",
			Expr: "met_chsPt/chsSumPt<0.2",
			Pass: func(d *Dijet) bool { return d.METChsPt/d.ChsSumPt < 0.2 },
		})
	}
	return sel
}

// SpikeRect is an (eta, phi) region of the calorimeter with known spikes.
// Bounds are exclusive.
type SpikeRect struct {
	EtaLo, EtaHi, PhiLo, PhiHi float64
}

func (r SpikeRect) Contains(eta, phi float64) bool {
	return eta > r.EtaLo && eta < r.EtaHi && phi > r.PhiLo && phi < r.PhiHi
}

var SpikeRects = []SpikeRect{
	{-2.650, -2.500, -1.35, -1.05},
	{-2.964, -2.650, -1.10, -0.80},
	{-2.964, -2.650, -0.25, 0.1},
	{-2.964, -2.650, -3.14159, -2.8},
	{-2.964, -2.650, 2.9, 3.14159},
	{2.650, 2.964, -2., -1.6},
	{2.650, 3.139, 0, 0.25},
}

// InSpike reports whether (eta, phi) falls in any of SpikeRects.
func InSpike(eta, phi float64) bool {
	for _, r := range SpikeRects {
		if r.Contains(eta, phi) {
			return true
		}
	}
	return false
}

// SpikeCleaningExpr is the selection string vetoing SpikeRects for the
// given eta and phi expressions.
func SpikeCleaningExpr(eta, phi string) string {
	terms := make([]string, len(SpikeRects))
	for i, r := range SpikeRects {
		terms[i] = fmt.Sprintf("%s>%4.3f&&%s<%4.3f&&%s>%4.3f&&%s<%4.3f",
			eta, r.EtaLo, eta, r.EtaHi, phi, r.PhiLo, phi, r.PhiHi)
	}
	return "(!(" + strings.Join(terms, "||") + "))"
}

const HotJetExpr = "Sum$(Jet_pt*Jet_isHot)<20"

// HotJetSum is the scalar pT sum of jets in hot calorimeter cells.
func HotJetSum(jets []SkimJet) float64 {
	sum := 0.0
	for _, j := range jets {
		if j.IsHot {
			sum += j.Pt
		}
	}
	return sum
}
