package l2res

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go-hep.org/x/hep/groot"
	"go-hep.org/x/hep/groot/rhist"
	"go-hep.org/x/hep/hbook/rootcnv"
	"gopkg.in/yaml.v3"
)

// RawCacheName is the file holding the filled Table.
const RawCacheName = "results.root"

// ResultCacheName is the file holding the responses of mode.
func ResultCacheName(mode Mode) string {
	return "response_" + string(mode) + "_results.yaml"
}

// Exists reports whether path names an existing file.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func histName(key BinKey) string {
	return "h_" + key.String()
}

// parseHistName inverts histName. Sample names may contain underscores,
// the other fields may not.
func parseHistName(name string) (BinKey, error) {
	fields := strings.Split(name, "_")
	n := len(fields)
	if n < 7 || fields[0] != "h" {
		return BinKey{}, errors.Errorf("bad histogram name %q", name)
	}
	eta, err := strconv.Atoi(fields[n-2])
	if err != nil {
		return BinKey{}, errors.Wrapf(err, "histogram %q", name)
	}
	pt, err := strconv.Atoi(fields[n-1])
	if err != nil {
		return BinKey{}, errors.Wrapf(err, "histogram %q", name)
	}
	sign, err := ParseSign(fields[n-4] + "_" + fields[n-3])
	if err != nil {
		return BinKey{}, errors.Wrapf(err, "histogram %q", name)
	}
	return BinKey{
		Var:    Var(fields[1]),
		Sample: strings.Join(fields[2:n-4], "_"),
		Sign:   sign,
		Eta:    eta,
		Pt:     pt,
	}, nil
}

// SaveTable writes every distribution of t as a TH1D.
func SaveTable(t *Table, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, "create %s", filepath.Dir(path))
	}
	f, err := groot.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}

	for _, key := range t.Keys() {
		h := t.H1D(key)
		h.Annotation()["name"] = histName(key)
		h.Annotation()["title"] = histName(key)
		if err := f.Put(histName(key), rhist.NewH1DFrom(h)); err != nil {
			f.Close()
			return errors.Wrapf(err, "write %s to %s", key, path)
		}
	}
	return errors.Wrapf(f.Close(), "close %s", path)
}

// LoadTable reads a Table written by SaveTable.
func LoadTable(path string, b Binning) (*Table, error) {
	f, err := groot.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	t := NewTable(b)
	for _, k := range f.Keys() {
		key, err := parseHistName(k.Name())
		if err != nil {
			return nil, errors.Wrap(err, path)
		}
		obj, err := f.Get(k.Name())
		if err != nil {
			return nil, errors.Wrapf(err, "%s: get %s", path, k.Name())
		}
		h, ok := obj.(rhist.H1)
		if !ok {
			return nil, errors.Errorf("%s: %s is a %T, not a 1D histogram", path, k.Name(), obj)
		}
		t.Set(key, rootcnv.H1D(h))
	}
	return t, nil
}

type resultFile struct {
	Mode      Mode            `yaml:"mode"`
	AbsEta    []float64       `yaml:"abs_eta_thresholds,flow"`
	Pt        []float64       `yaml:"pt_thresholds,flow"`
	Responses []responseEntry `yaml:"responses"`
	PtCurves  []curveEntry    `yaml:"pt_curves,omitempty"`
	EtaCurves []curveEntry    `yaml:"eta_curves,omitempty"`
}

type responseEntry struct {
	Var      Var        `yaml:"var"`
	Sample   string     `yaml:"sample"`
	Sign     string     `yaml:"sign"`
	Eta      int        `yaml:"eta"`
	Pt       int        `yaml:"pt"`
	EtaRange [2]float64 `yaml:"eta_range,flow"`
	PtRange  [2]float64 `yaml:"pt_range,flow"`
	Response float64    `yaml:"response"`
	Error    float64    `yaml:"error"`
}

type curveEntry struct {
	Var    Var          `yaml:"var"`
	Sample string       `yaml:"sample"`
	Sign   string       `yaml:"sign,omitempty"`
	Range  [2]float64   `yaml:"range,flow"`
	Points [][3]float64 `yaml:"points"`
}

// Point3 is (x, response, error).
type Point3 = [3]float64

// SaveResults writes r with its curves as YAML. Entries are sorted so the
// output depends only on the content.
func SaveResults(r *Results, path string) error {
	rf := resultFile{Mode: r.Mode, AbsEta: r.Binning.AbsEta, Pt: r.Binning.Pt}
	etaBins, ptBins := r.Binning.EtaBins(), r.Binning.PtBins()
	for _, key := range r.Keys() {
		resp := r.Responses[key]
		rf.Responses = append(rf.Responses, responseEntry{
			Var:      key.Var,
			Sample:   key.Sample,
			Sign:     key.Sign.String(),
			Eta:      key.Eta,
			Pt:       key.Pt,
			EtaRange: [2]float64{etaBins[key.Eta].Lo, etaBins[key.Eta].Hi},
			PtRange:  [2]float64{ptBins[key.Pt].Lo, ptBins[key.Pt].Hi},
			Response: resp.Value,
			Error:    resp.Error,
		})
	}

	for _, v := range Vars {
		for _, sample := range r.Samples() {
			for _, sign := range Signs {
				for i, eta := range etaBins {
					pts := r.PtCurve(v, sample, sign, i)
					if len(pts) == 0 {
						continue
					}
					c := curveEntry{Var: v, Sample: sample, Sign: sign.String(), Range: [2]float64{eta.Lo, eta.Hi}}
					for _, p := range pts {
						c.Points = append(c.Points, Point3{p.X, p.Y, p.YErr})
					}
					rf.PtCurves = append(rf.PtCurves, c)
				}
			}
			for i, pt := range ptBins {
				pts := r.EtaCurve(v, sample, i)
				if len(pts) == 0 {
					continue
				}
				c := curveEntry{Var: v, Sample: sample, Range: [2]float64{pt.Lo, pt.Hi}}
				for _, p := range pts {
					c.Points = append(c.Points, Point3{p.X, p.Y, p.YErr})
				}
				rf.EtaCurves = append(rf.EtaCurves, c)
			}
		}
	}

	raw, err := yaml.Marshal(&rf)
	if err != nil {
		return errors.Wrap(err, "encode results")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, "create %s", filepath.Dir(path))
	}
	return errors.Wrapf(os.WriteFile(path, raw, 0644), "write %s", path)
}

// LoadResults reads the responses written by SaveResults. Curves are
// rebuilt from the responses.
func LoadResults(path string) (*Results, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	var rf resultFile
	if err := yaml.Unmarshal(raw, &rf); err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}

	b := Binning{AbsEta: rf.AbsEta, Pt: rf.Pt}
	if len(b.AbsEta) < 2 || len(b.Pt) < 2 {
		return nil, errors.Errorf("%s: missing binning", path)
	}
	r := NewResults(rf.Mode, b)
	for _, e := range rf.Responses {
		sign, err := ParseSign(e.Sign)
		if err != nil {
			return nil, errors.Wrap(err, path)
		}
		if e.Eta < 0 || e.Eta >= len(b.AbsEta)-1 || e.Pt < 0 || e.Pt >= len(b.Pt)-1 {
			return nil, errors.Errorf("%s: bin (%d, %d) out of range", path, e.Eta, e.Pt)
		}
		r.Responses[BinKey{e.Var, e.Sample, sign, e.Eta, e.Pt}] = Response{e.Response, e.Error}
	}
	return r, nil
}
