package l2res

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/hatakeyamak/JetMET/event"
)

var (
	Eras          = []string{"Run2016", "Run2016BCD", "Run2016EFearly", "Run2016FlateG", "Run2016H"}
	JERVariations = []string{"", "jer", "jer_up", "jer_down"}
	PtBinningVars = []string{string(PtAve), string(PtTag)}
)

// Config lists the skims of the simulation and of each data era.
type Config struct {
	PlotDirectory string            `yaml:"plot_directory"`
	Tree          string            `yaml:"tree"`
	Lumi          float64           `yaml:"lumi"`
	MC            Sample            `yaml:"mc"`
	Data          map[string]Sample `yaml:"data"`
}

func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	cfg := &Config{Tree: "Events", Lumi: 35.9}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, errors.Wrapf(err, "decode config %s", path)
	}
	if cfg.MC.Name == "" {
		return nil, errors.Errorf("config %s: mc sample has no name", path)
	}
	if len(cfg.MC.Files) == 0 {
		return nil, errors.Wrapf(event.ErrNoFiles, "config %s: mc sample %s", path, cfg.MC.Name)
	}
	return cfg, nil
}

// DataSample returns the data sample of era.
func (c *Config) DataSample(era string) (Sample, error) {
	s, ok := c.Data[era]
	if !ok {
		eras := make([]string, 0, len(c.Data))
		for e := range c.Data {
			eras = append(eras, e)
		}
		sort.Strings(eras)
		return Sample{}, errors.Wrapf(ErrUnknownEra, "%q (configured: %s)", era, strings.Join(eras, ", "))
	}
	if s.Name == "" {
		s.Name = "JetHT_" + era
	}
	if len(s.Files) == 0 {
		return Sample{}, errors.Wrapf(event.ErrNoFiles, "data sample %s", s.Name)
	}
	return s, nil
}

// Options are the analysis switches.
type Options struct {
	Era               string
	Triggers          string
	PtBinningVar      PtVar
	PhEF              float64
	Alpha             float64
	Small             bool
	Cleaned           bool
	JER               string
	MakeResponsePlots bool
	Overwrite         bool
	UseFit            bool
	METOverSumET      bool
	PlotDirectory     string
	PtThresholds      []float64
}

func DefaultOptions() Options {
	return Options{
		Era:           "Run2016",
		Triggers:      "DiPFJetAve",
		PtBinningVar:  PtAve,
		PhEF:          -1,
		Alpha:         0.3,
		Cleaned:       true,
		PlotDirectory: "JEC/L2res_v11_03FebV6",
	}
}

// JERPostfix is the branch postfix of the JER variation.
func (o Options) JERPostfix() string {
	if o.JER == "" {
		return ""
	}
	return "_" + o.JER
}

func (o Options) Mode() Mode {
	if o.UseFit {
		return ModeFit
	}
	return ModeMean
}

func (o Options) Selection() Selection {
	return NewSelection(SelectionOptions{
		Alpha:        o.Alpha,
		PhEF:         o.PhEF,
		Cleaned:      o.Cleaned,
		METOverSumET: o.METOverSumET,
		JER:          o.JERPostfix(),
	})
}

// PlotDir is the output directory under userDir. Every switch changing
// the result is part of the path.
func (o Options) PlotDir(userDir string) string {
	sub := o.PlotDirectory + o.JERPostfix()
	if o.PtBinningVar == PtTag {
		sub += "_tagJetPtBin"
	}
	if o.PhEF > 0 {
		sub += fmt.Sprintf("_phEF%d", int(100*o.PhEF))
	}
	if o.Cleaned {
		sub += "_cleaned"
	}
	if o.METOverSumET {
		sub += "_metOverSumET"
	}
	if o.Small {
		sub += "_small"
	}
	return filepath.Join(userDir, sub, o.Triggers, o.Era, AlphaName(o.Alpha))
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Validate checks the choice-valued options.
func (o Options) Validate() error {
	if !contains(Eras, o.Era) {
		return errors.Wrapf(ErrUnknownEra, "%q", o.Era)
	}
	if _, err := LookupTriggers(o.Triggers); err != nil {
		return err
	}
	if !contains(JERVariations, o.JER) {
		return errors.Errorf("unknown JER variation %q", o.JER)
	}
	if !contains(PtBinningVars, string(o.PtBinningVar)) {
		return errors.Errorf("unknown pT binning variable %q", o.PtBinningVar)
	}
	if !(o.Alpha > 0) {
		return errors.Errorf("alpha must be positive, got %v", o.Alpha)
	}
	return nil
}
