package match

import (
	"context"
	"log/slog"
	"math"

	"github.com/pkg/errors"
	"go-hep.org/x/hep/hbook"

	"github.com/hatakeyamak/JetMET/event"
)

// EtaBand is a half-open signed pseudorapidity range [Lo, Hi).
type EtaBand struct {
	Lo, Hi float64
}

func (b EtaBand) Contains(eta float64) bool {
	return b.Lo <= eta && eta < b.Hi
}

var DefaultBands = []EtaBand{{0, 1.1}, {1.3, 3}, {3, 5}}

// PtEdges are the log-spaced reference pT bin edges, 10^(x/10) for x in
// [11, 35].
func PtEdges() []float64 {
	edges := make([]float64, 0, 25)
	for x := 11; x <= 35; x++ {
		edges = append(edges, math.Pow(10, float64(x)/10))
	}
	return edges
}

type Options struct {
	PtThreshold float64
	// Plan1Ref takes the updated jet, not the reference jet, as the
	// coordinate of the fill.
	Plan1Ref bool
	Bands    []EtaBand
}

func DefaultOptions() Options {
	return Options{PtThreshold: 10, Bands: DefaultBands}
}

// Responses holds the profiles of the pT ratio and the MET correlations.
type Responses struct {
	Options

	EtaPhi *ProfileGrid
	Eta    *Profile1D
	Phi    []*Profile1D
	Pt     []*Profile1D

	MET     *hbook.H2D
	METWide *hbook.H2D

	Events, Pairs, Filled int
}

func NewResponses(opts Options) *Responses {
	if opts.Bands == nil {
		opts.Bands = DefaultBands
	}
	r := &Responses{
		Options: opts,
		EtaPhi:  NewProfileGrid(26, -5.2, 5.2, 20, -math.Pi, math.Pi),
		Eta:     NewProfile1D(26, -5.2, 5.2),
		MET:     hbook.NewH2D(100, 0, 100, 100, 0, 100),
		METWide: hbook.NewH2D(500, 0, 500, 500, 0, 500),
	}
	edges := PtEdges()
	for range opts.Bands {
		r.Phi = append(r.Phi, NewProfile1D(36, -math.Pi, math.Pi))
		r.Pt = append(r.Pt, NewProfile1DFromEdges(edges))
	}
	return r
}

// Band returns the index of the first band containing eta, or -1.
func (r *Responses) Band(eta float64) int {
	for i, b := range r.Bands {
		if b.Contains(eta) {
			return i
		}
	}
	return -1
}

// FillPair fills the profiles with one matched pair. It reports whether the
// pair passed the pT and ID gates.
func (r *Responses) FillPair(p Pair) bool {
	r.Pairs++
	refJet := p.Ref
	if r.Plan1Ref {
		refJet = p.Update
	}
	if refJet.Pt <= r.PtThreshold || !p.Update.ID || !p.Ref.ID {
		return false
	}

	ratio := p.Ratio()
	r.EtaPhi.Fill(refJet.Eta, refJet.Phi, ratio, 1)
	r.Eta.Fill(refJet.Eta, ratio, 1)
	if i := r.Band(refJet.Eta); i >= 0 {
		r.Phi[i].Fill(refJet.Phi, ratio, 1)
		r.Pt[i].Fill(refJet.Pt, ratio, 1)
	}
	r.Filled++
	return true
}

// FillEvent matches the jets of an aligned event pair and fills all
// accepted pairs.
func (r *Responses) FillEvent(update, ref *event.Event) {
	r.Events++
	r.MET.Fill(ref.MET.Pt, update.MET.Pt, 1)
	r.METWide.Fill(ref.MET.Pt, update.MET.Pt, 1)
	for _, p := range MatchJets(update.Jets, ref.Jets) {
		r.FillPair(p)
	}
}

// Run aligns update and ref and fills a new Responses from every common
// event.
func Run(ctx context.Context, update, ref event.Stream, opts Options, maxEvents int, logger *slog.Logger) (*Responses, error) {
	idxUpdate, err := BuildIndex(ctx, update, maxEvents, logger)
	if err != nil {
		return nil, err
	}
	idxRef, err := BuildIndex(ctx, ref, maxEvents, logger)
	if err != nil {
		return nil, err
	}
	pairs := Align(idxUpdate, idxRef)
	logger.Info("aligned streams",
		update.Name(), idxUpdate.Len(),
		ref.Name(), idxRef.Len(),
		"common", len(pairs),
		"duplicates", idxUpdate.Duplicates+idxRef.Duplicates,
	)

	r := NewResponses(opts)
	for i, pp := range pairs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if i%100 == 0 {
			logger.Info("at event", "n", i, "of", len(pairs))
		}

		eu, err := update.At(pp.A)
		if err != nil {
			return nil, errors.Wrapf(err, "%s event at %d", update.Name(), pp.A)
		}
		er, err := ref.At(pp.B)
		if err != nil {
			return nil, errors.Wrapf(err, "%s event at %d", ref.Name(), pp.B)
		}
		r.FillEvent(eu, er)
	}
	logger.Info("filled responses", "events", r.Events, "pairs", r.Pairs, "filled", r.Filled)
	return r, nil
}
