package l2res

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/pkg/errors"
	"go-hep.org/x/hep/hbook"

	jetmet "github.com/hatakeyamak/JetMET"
)

// MaxRelError is the largest accepted relative response uncertainty.
const MaxRelError = 0.1

type Response struct {
	Value, Error float64
}

// ToResponse converts a mean asymmetry m with uncertainty sigma into a
// relative response (1+m)/(1-m). m must not be 1.
func ToResponse(m, sigma float64) Response {
	return Response{
		Value: (1 + m) / (1 - m),
		Error: 2 * sigma / ((1 - m) * (1 - m)),
	}
}

// Accept reports whether the relative uncertainty is below MaxRelError.
// NaN responses are never accepted.
func (r Response) Accept() bool {
	return r.Error/r.Value < MaxRelError
}

// Mode selects how the mean asymmetry of a bin is estimated.
type Mode string

const (
	ModeMean Mode = "mean"
	ModeFit  Mode = "fit"
)

func (m Mode) Description() string {
	if m == ModeFit {
		return "using Gaussian fit"
	}
	return "using mean of histogram"
}

// MeanAsymmetry is the histogram mean and its error, using the biased
// variance over the effective entries. A single entry has a zero error.
// Empty histograms give NaN.
func MeanAsymmetry(h *hbook.H1D) (float64, float64) {
	sumw := h.SumW()
	if sumw <= 0 {
		return math.NaN(), math.NaN()
	}
	mean := h.SumWX() / sumw
	variance := math.Max(h.SumWX2()/sumw-mean*mean, 0)
	neff := sumw * sumw / h.SumW2()
	return mean, math.Sqrt(variance / neff)
}

// Results is the table of accepted responses.
type Results struct {
	Mode      Mode
	Binning   Binning
	Responses map[BinKey]Response
}

func NewResults(mode Mode, b Binning) *Results {
	return &Results{Mode: mode, Binning: b, Responses: make(map[BinKey]Response)}
}

// Get returns the response of key. ok is false for rejected or empty bins.
func (r *Results) Get(key BinKey) (resp Response, ok bool) {
	resp, ok = r.Responses[key]
	return resp, ok
}

func (r *Results) Keys() []BinKey {
	keys := make([]BinKey, 0, len(r.Responses))
	for k := range r.Responses {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return keys
}

// Samples returns the sample names present in r.
func (r *Results) Samples() []string {
	seen := make(map[string]bool)
	var names []string
	for k := range r.Responses {
		if !seen[k.Sample] {
			seen[k.Sample] = true
			names = append(names, k.Sample)
		}
	}
	sort.Strings(names)
	return names
}

// Extract computes the response of every bin of t. With ModeFit, bins whose
// fit fails are skipped like bins failing the quality gate.
func Extract(ctx context.Context, t *Table, mode Mode, fitter *Fitter, logger *slog.Logger) (*Results, error) {
	res := NewResults(mode, t.Binning)
	rejected, failed := 0, 0
	for _, key := range t.Keys() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		h := t.H1D(key)
		var m, sigma float64
		if mode == ModeFit {
			fit, err := fitter.Fit(key, h, t.Binning)
			switch {
			case errors.Is(err, ErrFitFailed):
				failed++
				logger.Debug("fit failed", "bin", key, "err", err)
				continue
			case err != nil:
				return nil, errors.Wrapf(err, "fit %s", key)
			}
			m, sigma = fit.Mean, fit.MeanErr
		} else {
			m, sigma = MeanAsymmetry(h)
		}

		resp := ToResponse(m, sigma)
		if !resp.Accept() {
			rejected++
			logger.Log(ctx, jetmet.LevelTrace, "rejected bin", "bin", key, "response", resp.Value, "error", resp.Error)
			continue
		}
		res.Responses[key] = resp
	}
	logger.Info("extracted responses", "mode", string(mode), "accepted", len(res.Responses), "rejected", rejected, "fitFailed", failed)
	return res, nil
}

// fitName names the fit plot of key.
func fitName(key BinKey, b Binning) string {
	eta := b.EtaBins()[key.Eta]
	pt := b.PtBins()[key.Pt]
	return fmt.Sprintf("fitresult_%s_%s_%d_%d_pt_%d_%d_%s",
		key.Var, key.Sign, int(1000*eta.Lo), int(1000*eta.Hi), int(pt.Lo), int(pt.Hi), key.Sample)
}
