package l2res

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dijet returns a back-to-back event passing the default selection.
func dijet() *Dijet {
	return &Dijet{
		A: 0.05, B: 0.02, Alpha: 0.1, PtAvg: 100,
		Tag: 0, Probe: 1, Weight: 1,
		Jets: []SkimJet{
			{Pt: 105, Eta: 0.5, Phi: 0},
			{Pt: 95, Eta: 2.0, Phi: math.Pi},
		},
		METChsPt: 10, ChsSumPt: 500,
		Triggers: map[string]bool{},
	}
}

func TestInSpike(t *testing.T) {
	for _, tc := range []struct {
		eta, phi float64
		want     bool
	}{
		{-2.6, -1.2, true},
		{0, 0, false},
		// Between the first two rectangles.
		{-2.7, -1.2, false},
		{2.7, 0.1, true},
		{3.0, 0.1, true},
		{2.7, -1.8, true},
		{-2.8, 3.0, true},
		{-2.8, -3.0, true},
		{-2.8, 0, true},
		{-2.650, -1.2, false},
		{2.650, 0.1, false},
		{2.7, 0, false},
		{2.7, 0.25, false},
		{3.2, 0.1, false},
	} {
		assert.Equal(t, tc.want, InSpike(tc.eta, tc.phi), "(%v, %v)", tc.eta, tc.phi)
	}
}

func TestSpikeCleaningExpr(t *testing.T) {
	expr := SpikeCleaningExpr("Jet_eta[probe_jet_index]", "Jet_phi[probe_jet_index]")
	assert.True(t, strings.HasPrefix(expr,
		"(!(Jet_eta[probe_jet_index]>-2.650&&Jet_eta[probe_jet_index]<-2.500&&Jet_phi[probe_jet_index]>-1.350&&Jet_phi[probe_jet_index]<-1.050||"), expr)
	assert.True(t, strings.HasSuffix(expr,
		"Jet_eta[probe_jet_index]>2.650&&Jet_eta[probe_jet_index]<3.139&&Jet_phi[probe_jet_index]>0.000&&Jet_phi[probe_jet_index]<0.250))"), expr)
	assert.Equal(t, len(SpikeRects)-1, strings.Count(expr, "||"))
}

func TestNewSelection(t *testing.T) {
	sel := NewSelection(SelectionOptions{Alpha: 0.3, Cleaned: true})
	assert.Equal(t, []string{"tgb", "btb", "a30", "failIdVeto", "jet_cleaning"}, sel.Names())
	assert.True(t, strings.Contains(sel.String(), "alpha<0.300000"))
	assert.True(t, sel.Pass(dijet()))

	all := NewSelection(SelectionOptions{Alpha: 0.2, PhEF: 0.5, Cleaned: true, METOverSumET: true, JER: "_jer_up"})
	assert.Equal(t, []string{"tgb", "btb", "a20", "failIdVeto", "jet_cleaning", "phEFprobe", "MOSET"}, all.Names())
	assert.True(t, strings.Contains(all.String(), "abs(Jet_eta[tag_jet_index_jer_up])<1.3"))
	assert.True(t, strings.Contains(all.String(), "alpha_jer_up<0.200000"))
	assert.True(t, all.Pass(dijet()))
}

func TestSelectionCuts(t *testing.T) {
	sel := NewSelection(SelectionOptions{Alpha: 0.3, PhEF: 0.5, Cleaned: true, METOverSumET: true})

	for _, tc := range []struct {
		name   string
		modify func(d *Dijet)
	}{
		{"forward tag", func(d *Dijet) { d.Jets[0].Eta = 1.4 }},
		{"not back to back", func(d *Dijet) { d.Jets[1].Phi = 2.0 }},
		{"alpha", func(d *Dijet) { d.Alpha = 0.3 }},
		{"failed id jets", func(d *Dijet) { d.FailIDPt = []float64{31} }},
		{"hot jet", func(d *Dijet) { d.Jets[1].IsHot = true }},
		{"spike", func(d *Dijet) { d.Jets[1].Eta, d.Jets[1].Phi = -2.6, -1.2 }},
		{"photon fraction", func(d *Dijet) { d.Jets[1].PhEF = 0.6 }},
		{"met over sum et", func(d *Dijet) { d.METChsPt = 100 }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			d := dijet()
			require.True(t, sel.Pass(d))
			tc.modify(d)
			assert.False(t, sel.Pass(d))
		})
	}

	d := dijet()
	d.FailIDPt = []float64{29, 25}
	assert.True(t, sel.Pass(d), "failed id jets below 30 GeV are ignored")

	d = dijet()
	d.Jets = append(d.Jets, SkimJet{Pt: 19, IsHot: true})
	assert.True(t, sel.Pass(d))
}

func TestAlphaName(t *testing.T) {
	assert.Equal(t, "a30", AlphaName(0.3))
	assert.Equal(t, "a15", AlphaName(0.15))
	assert.Equal(t, "a100", AlphaName(1))
}

func TestTriggerSuites(t *testing.T) {
	_, err := LookupTriggers("Mu50")
	assert.ErrorIs(t, err, ErrUnknownTriggers)

	incl, err := LookupTriggers("DiPFJetAve")
	require.NoError(t, err)
	assert.Len(t, incl.Branches(), 9)
	assert.True(t, strings.HasPrefix(incl.Expr(""), "(HLT_DiPFJetAve40||HLT_DiPFJetAve60||"))

	d := dijet()
	assert.False(t, incl.Pass(d))
	d.Triggers["HLT_DiPFJetAve500"] = true
	assert.True(t, incl.Pass(d), "inclusive suites ignore pT")

	excl, err := LookupTriggers("exclDiPFJetAve")
	require.NoError(t, err)
	assert.False(t, excl.Pass(d), "pT 100 is outside the 500 window")

	d = dijet()
	d.Triggers["HLT_DiPFJetAve80"] = true
	assert.True(t, excl.Pass(d))
	d.PtAvg = 95
	assert.True(t, excl.Pass(d))
	d.PtAvg = 94.9
	assert.False(t, excl.Pass(d))

	d = dijet()
	d.PtAvg = 3000
	d.Triggers["HLT_DiPFJetAve500"] = true
	assert.True(t, excl.Pass(d), "the last window is open")

	expr := excl.Expr("_jer")
	assert.True(t, strings.Contains(expr, "HLT_DiPFJetAve80&&pt_avg_jer>=95&&pt_avg_jer<163"), expr)
	assert.True(t, strings.HasSuffix(expr, "HLT_DiPFJetAve500&&pt_avg_jer>=566)"), expr)

	for _, name := range TriggerSuiteNames() {
		s := TriggerSuites[name]
		assert.Equal(t, name, s.Name)
		assert.NotEmpty(t, s.Triggers)
	}
}
