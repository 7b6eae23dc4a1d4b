package jetmet

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloatArrayFlags(t *testing.T) {
	f := &FloatArrayFlags{Array: []float64{1, 2}}
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Var(f, "pt", "")

	require.NoError(t, fs.Parse([]string{"--pt", "51,73", "--pt=95"}))
	assert.Equal(t, []float64{51, 73, 95}, f.Array)
	assert.Equal(t, "[51 73 95]", f.String())

	assert.Error(t, f.Set("1,x"))
}

func TestFloatArrayFlagsDefault(t *testing.T) {
	f := &FloatArrayFlags{Array: []float64{1, 2}}
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Var(f, "pt", "")

	require.NoError(t, fs.Parse(nil))
	assert.Equal(t, []float64{1, 2}, f.Array)
}

func TestChoice(t *testing.T) {
	c := NewChoice("Run2016", "Run2016", "Run2016H")
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Var(c, "era", "")

	require.NoError(t, fs.Parse([]string{"--era", "Run2016H"}))
	assert.Equal(t, "Run2016H", c.String())

	err := c.Set("Run2017")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Run2016, Run2016H")
	assert.Equal(t, "Run2016H", c.Value)
}
