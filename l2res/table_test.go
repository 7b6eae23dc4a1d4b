package l2res

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableFill(t *testing.T) {
	b, err := NewBinning(nil)
	require.NoError(t, err)
	tab := NewTable(b)

	pos := dijet()
	neg := dijet()
	neg.Jets[1].Eta = -2.0
	neg.A = -0.1

	require.True(t, tab.Fill("mc", pos, PtAve, 2))
	require.True(t, tab.Fill("mc", neg, PtAve, 1))

	// Both hemispheres end up in the absolute bin.
	abs := tab.H1D(BinKey{VarA, "mc", AbsEta, 8, 2})
	require.NotNil(t, abs)
	assert.EqualValues(t, 2, abs.Entries())
	assert.InDelta(t, 3, abs.SumW(), 1e-12)
	assert.InDelta(t, (2*0.05-0.1)/3, abs.XMean(), 1e-12)

	assert.EqualValues(t, 1, tab.H1D(BinKey{VarA, "mc", PosEta, 8, 2}).Entries())
	assert.EqualValues(t, 1, tab.H1D(BinKey{VarB, "mc", NegEta, 8, 2}).Entries())
	assert.Nil(t, tab.H1D(BinKey{VarA, "data", PosEta, 8, 2}))
	assert.Equal(t, 6, tab.Len())

	keys := tab.Keys()
	require.Len(t, keys, 6)
	for i := 1; i < len(keys); i++ {
		assert.True(t, keys[i-1].Less(keys[i]))
	}
	assert.Equal(t, VarA, keys[0].Var)
	assert.Equal(t, NegEta, keys[0].Sign)
}

func TestTableFillOutOfRange(t *testing.T) {
	b, err := NewBinning(nil)
	require.NoError(t, err)
	tab := NewTable(b)

	d := dijet()
	d.PtAvg = 40
	assert.False(t, tab.Fill("mc", d, PtAve, 1))
	assert.True(t, tab.Fill("mc", d, PtTag, 1), "tag jet pT is 105")

	d = dijet()
	d.Jets[1].Eta = 5.5
	assert.False(t, tab.Fill("mc", d, PtAve, 1))

	// Asymmetries outside the axis are not booked.
	tab = NewTable(b)
	d = dijet()
	d.A = 1.5
	assert.True(t, tab.Fill("mc", d, PtAve, 1))
	assert.Nil(t, tab.H1D(BinKey{VarA, "mc", PosEta, 8, 2}))
	assert.NotNil(t, tab.H1D(BinKey{VarB, "mc", PosEta, 8, 2}))
}

func TestBinKeyString(t *testing.T) {
	key := BinKey{VarB, "JetHT_Run2016", NegEta, 3, 7}
	assert.Equal(t, "B_JetHT_Run2016_neg_eta_3_7", key.String())

	parsed, err := parseHistName(histName(key))
	require.NoError(t, err)
	assert.Equal(t, key, parsed)

	for _, name := range []string{"A_mc_pos_eta_1_2", "h_A_mc_eta_1_2", "h_A_mc_pos_eta_x_2", "h_A_mc_up_eta_1_2"} {
		_, err := parseHistName(name)
		assert.Error(t, err, name)
	}
}
