package l2res

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"
	"go-hep.org/x/hep/groot"
	"go-hep.org/x/hep/groot/rtree"

	jetmet "github.com/hatakeyamak/JetMET"
	"github.com/hatakeyamak/JetMET/event"
)

type SkimJet struct {
	Pt, Eta, Phi, PhEF float64
	IsHot              bool
}

// Dijet is one event of an L2res skim. The scalar fields hold the JER
// variation selected when the skim was read.
type Dijet struct {
	A, B, Alpha, PtAvg float64
	Tag, Probe         int
	Weight             float64

	Jets     []SkimJet
	FailIDPt []float64

	METChsPt, ChsSumPt float64

	Triggers map[string]bool
}

func (d *Dijet) TagJet() SkimJet   { return d.Jets[d.Tag] }
func (d *Dijet) ProbeJet() SkimJet { return d.Jets[d.Probe] }

// Valid reports whether the tag and probe indices address a jet.
func (d *Dijet) Valid() bool {
	n := len(d.Jets)
	return d.Tag >= 0 && d.Tag < n && d.Probe >= 0 && d.Probe < n
}

// DeltaPhi is the azimuthal separation of tag and probe jets.
func (d *Dijet) DeltaPhi() float64 {
	return jetmet.DeltaPhi(d.TagJet().Phi, d.ProbeJet().Phi)
}

// SkimEvent mirrors the branches common to all JER variations.
type SkimEvent struct {
	Weight      float32   `groot:"weight"`
	NJet        int32     `groot:"nJet"`
	JetPt       []float32 `groot:"Jet_pt[nJet]"`
	JetEta      []float32 `groot:"Jet_eta[nJet]"`
	JetPhi      []float32 `groot:"Jet_phi[nJet]"`
	JetPhEF     []float32 `groot:"Jet_phEF[nJet]"`
	JetIsHot    []int32   `groot:"Jet_isHot[nJet]"`
	NJetFailID  int32     `groot:"nJetFailId"`
	JetFailIDPt []float32 `groot:"JetFailId_pt[nJetFailId]"`
	METChsPt    float32   `groot:"met_chsPt"`
	ChsSumPt    float32   `groot:"chsSumPt"`
}

// SkimVariation holds the branches that exist once per JER variation.
type SkimVariation struct {
	A, B, Alpha, PtAvg float32
	Tag, Probe         int32
}

// Vars returns the read variables of the variation named by postfix,
// e.g. "alpha_jer_up" for "_jer_up".
func (v *SkimVariation) Vars(postfix string) []rtree.ReadVar {
	return []rtree.ReadVar{
		{Name: "A" + postfix, Value: &v.A},
		{Name: "B" + postfix, Value: &v.B},
		{Name: "alpha" + postfix, Value: &v.Alpha},
		{Name: "pt_avg" + postfix, Value: &v.PtAvg},
		{Name: "tag_jet_index" + postfix, Value: &v.Tag},
		{Name: "probe_jet_index" + postfix, Value: &v.Probe},
	}
}

// SkimReader reads dijet skims from ROOT files.
type SkimReader struct {
	Tree string
	// JER is the branch postfix of the JER variation, empty for nominal.
	JER      string
	Triggers []string
}

// Read calls fn for every event of filename. The Dijet passed to fn is
// reused between calls.
func (r SkimReader) Read(ctx context.Context, filename string, fn func(*Dijet) error) error {
	f, err := groot.Open(filename)
	if err != nil {
		return errors.Wrapf(err, "open %s", filename)
	}
	defer f.Close()

	treeName := r.Tree
	if treeName == "" {
		treeName = "Events"
	}
	tree, err := event.GetTree(f, treeName)
	if err != nil {
		return errors.Wrap(err, filename)
	}

	var (
		skim SkimEvent
		vari SkimVariation
		d    = Dijet{Triggers: make(map[string]bool, len(r.Triggers))}
	)
	rvars := rtree.ReadVarsFromStruct(&skim)
	rvars = append(rvars, vari.Vars(r.JER)...)
	bits := make([]bool, len(r.Triggers))
	for i, name := range r.Triggers {
		rvars = append(rvars, rtree.ReadVar{Name: name, Value: &bits[i]})
	}

	reader, err := rtree.NewReader(tree, rvars)
	if err != nil {
		return errors.Wrapf(err, "%s: reader", filename)
	}
	defer reader.Close()

	err = reader.Read(func(rctx rtree.RCtx) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		skim.fill(&d)
		vari.fill(&d)
		for i, name := range r.Triggers {
			d.Triggers[name] = bits[i]
		}
		return fn(&d)
	})
	return errors.Wrapf(err, "read %s", filename)
}

func (s *SkimEvent) fill(d *Dijet) {
	d.Weight = float64(s.Weight)
	d.Jets = d.Jets[:0]
	for i := 0; i < int(s.NJet); i++ {
		d.Jets = append(d.Jets, SkimJet{
			Pt:    float64(s.JetPt[i]),
			Eta:   float64(s.JetEta[i]),
			Phi:   float64(s.JetPhi[i]),
			PhEF:  float64(s.JetPhEF[i]),
			IsHot: s.JetIsHot[i] != 0,
		})
	}
	d.FailIDPt = d.FailIDPt[:0]
	for _, pt := range s.JetFailIDPt[:s.NJetFailID] {
		d.FailIDPt = append(d.FailIDPt, float64(pt))
	}
	d.METChsPt = float64(s.METChsPt)
	d.ChsSumPt = float64(s.ChsSumPt)
}

func (v *SkimVariation) fill(d *Dijet) {
	d.A = float64(v.A)
	d.B = float64(v.B)
	d.Alpha = float64(v.Alpha)
	d.PtAvg = float64(v.PtAvg)
	d.Tag = int(v.Tag)
	d.Probe = int(v.Probe)
}

// ReadSkims reads files in order, logging progress per file.
func (r SkimReader) ReadSkims(ctx context.Context, files []string, logger *slog.Logger, fn func(*Dijet) error) error {
	for i, filename := range files {
		logger.Debug("reading skim", "file", filename, "n", i+1, "of", len(files))
		if err := r.Read(ctx, filename, fn); err != nil {
			return err
		}
	}
	return nil
}
