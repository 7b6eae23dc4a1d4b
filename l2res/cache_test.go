package l2res

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestTableCache(t *testing.T) {
	b, err := NewBinning(nil)
	require.NoError(t, err)
	tab := NewTable(b)
	for i, x := range []float64{0.1, 0.12, 0.08, -0.3} {
		d := dijet()
		d.A, d.B = x, -x
		d.Jets[1].Eta = []float64{2, -2, 0.1, 4}[i]
		tab.Fill("QCD_Pt", d, PtAve, 0.5)
	}

	path := filepath.Join(t.TempDir(), "sub", RawCacheName)
	require.NoError(t, SaveTable(tab, path))
	assert.True(t, Exists(path))

	loaded, err := LoadTable(path, b)
	require.NoError(t, err)
	require.Equal(t, tab.Keys(), loaded.Keys())
	for _, key := range tab.Keys() {
		want, got := tab.H1D(key), loaded.H1D(key)
		assert.Equal(t, want.Len(), got.Len(), key.String())
		assert.InDelta(t, want.SumW(), got.SumW(), 1e-9, key.String())
		for i := range want.Binning.Bins {
			assert.InDelta(t, want.Binning.Bins[i].SumW(), got.Binning.Bins[i].SumW(), 1e-9)
		}
	}
}

func TestResultCache(t *testing.T) {
	b, err := NewBinning([]float64{50, 100, 200})
	require.NoError(t, err)
	res := NewResults(ModeMean, b)
	res.Responses[BinKey{VarA, "mc", PosEta, 2, 0}] = Response{1.02, 0.01}
	res.Responses[BinKey{VarA, "mc", NegEta, 2, 1}] = Response{0.98, 0.02}
	res.Responses[BinKey{VarB, "data", AbsEta, 0, 0}] = Response{1.1, 0.05}

	path := filepath.Join(t.TempDir(), ResultCacheName(ModeMean))
	assert.Equal(t, "response_mean_results.yaml", filepath.Base(path))
	require.NoError(t, SaveResults(res, path))

	loaded, err := LoadResults(path)
	require.NoError(t, err)
	assert.Equal(t, res.Mode, loaded.Mode)
	assert.Equal(t, res.Binning, loaded.Binning)
	assert.Equal(t, res.Responses, loaded.Responses)

	// Deterministic output.
	first, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, SaveResults(loaded, path))
	second, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))

	var rf resultFile
	require.NoError(t, yaml.Unmarshal(first, &rf))
	assert.Len(t, rf.Responses, 3)
	assert.Equal(t, Var("A"), rf.Responses[0].Var)
	assert.Equal(t, "neg_eta", rf.Responses[0].Sign)
	assert.Equal(t, [2]float64{0.522, 0.783}, rf.Responses[0].EtaRange)
	assert.Equal(t, [2]float64{100, 200}, rf.Responses[0].PtRange)

	// Eta curves come from the signed bins only.
	require.Len(t, rf.EtaCurves, 2)
	assert.Equal(t, [][3]float64{{-0.6525, 0.98, 0.02}}, roundPoints(rf.EtaCurves[1].Points))
}

func roundPoints(pts [][3]float64) [][3]float64 {
	out := make([][3]float64, len(pts))
	for i, p := range pts {
		for j := range p {
			out[i][j] = math.Round(p[j]*1e6) / 1e6
		}
	}
	return out
}

func TestLoadResultsErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadResults(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("mode: mean\nresponses: []\n"), 0644))
	_, err = LoadResults(bad)
	assert.Error(t, err, "no binning")

	outOfRange := filepath.Join(dir, "range.yaml")
	require.NoError(t, os.WriteFile(outOfRange, []byte(`mode: fit
abs_eta_thresholds: [0, 1]
pt_thresholds: [50, 100]
responses:
  - {var: A, sample: mc, sign: pos_eta, eta: 1, pt: 0, response: 1, error: 0.01}
`), 0644))
	_, err = LoadResults(outOfRange)
	assert.Error(t, err)
}

func TestExtractContextCancelled(t *testing.T) {
	b, err := NewBinning(nil)
	require.NoError(t, err)
	tab := NewTable(b)
	tab.Fill("mc", dijet(), PtAve, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Extract(ctx, tab, ModeMean, nil, discard)
	assert.ErrorIs(t, err, context.Canceled)
}
