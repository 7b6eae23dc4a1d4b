package l2res

import (
	"context"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go-hep.org/x/hep/hbook"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestToResponse(t *testing.T) {
	r := ToResponse(0.1, 0.005)
	assert.InDelta(t, 1.2222, r.Value, 1e-4)
	assert.InDelta(t, 0.01235, r.Error, 1e-5)
	assert.InDelta(t, 0.0101, r.Error/r.Value, 1e-4)
	assert.True(t, r.Accept())
}

func TestToResponseInverse(t *testing.T) {
	for _, resp := range []float64{0.5, 0.9, 1, 1.05, 1.3, 2} {
		m := (resp - 1) / (resp + 1)
		assert.InDelta(t, resp, ToResponse(m, 0).Value, 1e-12)
	}
}

func TestAccept(t *testing.T) {
	assert.True(t, Response{1, 0.099}.Accept())
	assert.False(t, Response{1, 0.1}.Accept())
	assert.False(t, Response{1, 0.2}.Accept())
	assert.False(t, Response{math.NaN(), 0.01}.Accept())
	assert.False(t, ToResponse(math.NaN(), math.NaN()).Accept())
}

func TestMeanAsymmetry(t *testing.T) {
	h := hbook.NewH1D(SymBins, SymLow, SymHigh)
	m, sigma := MeanAsymmetry(h)
	assert.True(t, math.IsNaN(m))
	assert.True(t, math.IsNaN(sigma))

	h.Fill(0.1, 1)
	m, sigma = MeanAsymmetry(h)
	assert.InDelta(t, 0.1, m, 1e-12)
	assert.Equal(t, 0.0, sigma)
	assert.True(t, ToResponse(m, sigma).Accept())

	h = hbook.NewH1D(SymBins, SymLow, SymHigh)
	h.Fill(0, 1)
	h.Fill(0.2, 1)
	m, sigma = MeanAsymmetry(h)
	assert.InDelta(t, 0.1, m, 1e-12)
	assert.InDelta(t, 0.0707, sigma, 1e-4)

	// Weights enter through the effective entries.
	h = hbook.NewH1D(SymBins, SymLow, SymHigh)
	h.Fill(0, 2)
	h.Fill(0.2, 2)
	m, sigma = MeanAsymmetry(h)
	assert.InDelta(t, 0.1, m, 1e-12)
	assert.InDelta(t, 0.0707, sigma, 1e-4)
}

func TestExtractSingleEntry(t *testing.T) {
	b, err := NewBinning(nil)
	require.NoError(t, err)
	tab := NewTable(b)

	key := BinKey{VarA, "mc", PosEta, 3, 2}
	tab.fill(key, 0.1, 1)

	res, err := Extract(context.Background(), tab, ModeMean, nil, discard)
	require.NoError(t, err)
	resp, ok := res.Get(key)
	require.True(t, ok)
	assert.InDelta(t, 1.1/0.9, resp.Value, 1e-12)
	assert.Equal(t, 0.0, resp.Error)
}

func TestExtractMean(t *testing.T) {
	b, err := NewBinning(nil)
	require.NoError(t, err)
	tab := NewTable(b)

	// Narrow distribution around 0.1: accepted.
	good := BinKey{VarA, "mc", PosEta, 3, 2}
	for _, x := range []float64{0.09, 0.1, 0.11, 0.1} {
		tab.fill(good, x, 1)
	}
	// One entry per side far apart: rejected.
	wide := BinKey{VarA, "mc", PosEta, 3, 3}
	tab.fill(wide, -1, 1)
	tab.fill(wide, 1, 1)

	res, err := Extract(context.Background(), tab, ModeMean, nil, discard)
	require.NoError(t, err)
	require.Len(t, res.Responses, 1)

	resp, ok := res.Get(good)
	require.True(t, ok)
	m, sigma := MeanAsymmetry(tab.H1D(good))
	assert.InDelta(t, 0.1, m, 1e-12)
	assert.Equal(t, ToResponse(m, sigma), resp)

	_, ok = res.Get(wide)
	assert.False(t, ok, "rejected bins are absent")
	assert.Equal(t, []string{"mc"}, res.Samples())
}

func gaussHist(norm, mean, sigma float64) *hbook.H1D {
	h := hbook.NewH1D(SymBins, SymLow, SymHigh)
	width := (SymHigh - SymLow) / SymBins
	for i := 0; i < SymBins; i++ {
		x := SymLow + (float64(i)+0.5)*width
		w := math.Round(norm * math.Exp(-0.5*math.Pow((x-mean)/sigma, 2)))
		for j := 0; j < int(w); j++ {
			h.Fill(x, 1)
		}
	}
	return h
}

func TestGaussianFit(t *testing.T) {
	h := gaussHist(400, 0.05, 0.1)
	res, err := GaussianFit(h)
	require.NoError(t, err)

	assert.InDelta(t, 0.05, res.Mean, 5e-3)
	assert.InDelta(t, 0.1, res.Sigma, 1e-2)
	assert.InDelta(t, 400, res.Norm, 20)
	assert.Greater(t, res.MeanErr, 0.0)
	assert.Less(t, res.MeanErr, 0.01)
	assert.Greater(t, res.NDF, 0)
}

func TestGaussianFitFails(t *testing.T) {
	h := hbook.NewH1D(SymBins, SymLow, SymHigh)
	_, err := GaussianFit(h)
	assert.ErrorIs(t, err, ErrFitFailed)

	h.Fill(0.1, 1)
	h.Fill(0.1, 1)
	_, err = GaussianFit(h)
	assert.ErrorIs(t, err, ErrFitFailed)

	// Two populated bins only.
	h.Fill(0.2, 1)
	_, err = GaussianFit(h)
	assert.ErrorIs(t, err, ErrFitFailed)
}

func TestExtractFit(t *testing.T) {
	b, err := NewBinning(nil)
	require.NoError(t, err)
	tab := NewTable(b)

	key := BinKey{VarB, "data", NegEta, 0, 0}
	tab.Set(key, gaussHist(400, 0.05, 0.1))
	empty := BinKey{VarB, "data", NegEta, 0, 1}
	tab.fill(empty, 0.1, 1)

	dir := t.TempDir()
	res, err := Extract(context.Background(), tab, ModeFit, &Fitter{PlotDir: dir}, discard)
	require.NoError(t, err)

	resp, ok := res.Get(key)
	require.True(t, ok)
	assert.InDelta(t, 1.05/0.95, resp.Value, 0.015)
	_, ok = res.Get(empty)
	assert.False(t, ok)
	assert.FileExists(t, dir+"/fitresult_B_neg_eta_0_261_pt_51_73_data.png")
}
