package l2res

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hatakeyamak/JetMET/event"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "l2res.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `plot_directory: /tmp/www
mc:
  name: QCD_Pt
  files: [qcd_1.root, qcd_2.root]
data:
  Run2016:
    files: [jetht.root]
  Run2016H:
    name: JetHT_H
    files: [jetht_h.root]
    scale: 2
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/www", cfg.PlotDirectory)
	assert.Equal(t, "Events", cfg.Tree)
	assert.Equal(t, 35.9, cfg.Lumi)
	assert.Equal(t, []string{"qcd_1.root", "qcd_2.root"}, cfg.MC.Files)

	s, err := cfg.DataSample("Run2016")
	require.NoError(t, err)
	assert.Equal(t, "JetHT_Run2016", s.Name)

	s, err = cfg.DataSample("Run2016H")
	require.NoError(t, err)
	assert.Equal(t, "JetHT_H", s.Name)
	assert.Equal(t, 2.0, s.Scale)

	_, err = cfg.DataSample("Run2016BCD")
	assert.ErrorIs(t, err, ErrUnknownEra)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "mc: [1, 2"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "mc:\n  files: [a.root]\n"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "mc:\n  name: QCD\n"))
	assert.ErrorIs(t, err, event.ErrNoFiles)
}

func TestPlotDir(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, "www/JEC/L2res_v11_03FebV6_cleaned/DiPFJetAve/Run2016/a30", opts.PlotDir("www"))

	opts.JER = "jer"
	opts.PtBinningVar = PtTag
	opts.PhEF = 0.5
	opts.Small = true
	assert.Equal(t, "www/JEC/L2res_v11_03FebV6_jer_tagJetPtBin_phEF50_cleaned_small/DiPFJetAve/Run2016/a30", opts.PlotDir("www"))

	opts = DefaultOptions()
	opts.Cleaned = false
	opts.METOverSumET = true
	opts.Alpha = 0.2
	opts.Triggers = "PFJet"
	opts.Era = "Run2016H"
	assert.Equal(t, "www/JEC/L2res_v11_03FebV6_metOverSumET/PFJet/Run2016H/a20", opts.PlotDir("www"))
}

func TestOptionsValidate(t *testing.T) {
	require.NoError(t, DefaultOptions().Validate())

	for name, mod := range map[string]func(*Options){
		"era":      func(o *Options) { o.Era = "Run2018" },
		"triggers": func(o *Options) { o.Triggers = "SingleMu" },
		"jer":      func(o *Options) { o.JER = "jes" },
		"ptVar":    func(o *Options) { o.PtBinningVar = "probe" },
		"alpha":    func(o *Options) { o.Alpha = 0 },
	} {
		opts := DefaultOptions()
		mod(&opts)
		assert.Error(t, opts.Validate(), name)
	}
}

func TestOptionsMode(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, ModeMean, opts.Mode())
	assert.Equal(t, "", opts.JERPostfix())
	opts.UseFit = true
	opts.JER = "jer_up"
	assert.Equal(t, ModeFit, opts.Mode())
	assert.Equal(t, "_jer_up", opts.JERPostfix())
	assert.Contains(t, opts.Selection().String(), "alpha_jer_up")
}
