package event

import (
	"github.com/pkg/errors"
	"go-hep.org/x/hep/groot"
	"go-hep.org/x/hep/groot/riofs"
	_ "go-hep.org/x/hep/groot/riofs/plugin/xrootd"
	"go-hep.org/x/hep/groot/rtree"
)

// RootEvent is the flat ntuple layout of the ROOT event files.
type RootEvent struct {
	Run      uint32    `groot:"run"`
	Lumi     uint32    `groot:"lumi"`
	Evt      uint64    `groot:"evt"`
	NJet     int32     `groot:"nJet"`
	JetPt    []float32 `groot:"Jet_pt[nJet]"`
	JetEta   []float32 `groot:"Jet_eta[nJet]"`
	JetPhi   []float32 `groot:"Jet_phi[nJet]"`
	JetID    []int32   `groot:"Jet_jetId[nJet]"`
	METPt    float32   `groot:"met_pt"`
	METPhi   float32   `groot:"met_phi"`
	METSumEt float32   `groot:"met_sumEt"`
}

type rootKey struct {
	Run  uint32 `groot:"run"`
	Lumi uint32 `groot:"lumi"`
	Evt  uint64 `groot:"evt"`
}

// RootReader reads events from a TTree. Jets pass the identification when
// bit 0 (loose) of Jet_jetId is set.
type RootReader struct {
	Tree string
}

func (r RootReader) ReadKeys(filename string) ([]Key, error) {
	var (
		keys []Key
		k    rootKey
	)
	err := r.read(filename, rtree.ReadVarsFromStruct(&k), func() {
		keys = append(keys, Key{Run: k.Run, Lumi: k.Lumi, Event: k.Evt})
	})
	return keys, err
}

func (r RootReader) ReadEvents(filename string) ([]Event, error) {
	var (
		events []Event
		e      RootEvent
	)
	err := r.read(filename, rtree.ReadVarsFromStruct(&e), func() {
		events = append(events, e.Event())
	})
	return events, err
}

func (r RootReader) read(filename string, rvars []rtree.ReadVar, fn func()) error {
	f, err := groot.Open(filename)
	if err != nil {
		return errors.Wrapf(err, "open %s", filename)
	}
	defer f.Close()

	t, err := GetTree(f, r.Tree)
	if err != nil {
		return err
	}

	reader, err := rtree.NewReader(t, rvars)
	if err != nil {
		return errors.Wrapf(err, "%s: reader", filename)
	}
	defer reader.Close()

	return reader.Read(func(rtree.RCtx) error {
		fn()
		return nil
	})
}

// GetTree returns the tree called name in f.
func GetTree(f *riofs.File, name string) (rtree.Tree, error) {
	obj, err := f.Get(name)
	if err != nil {
		return nil, errors.Wrapf(err, "get tree %s", name)
	}
	t, ok := obj.(rtree.Tree)
	if !ok {
		return nil, errors.Errorf("object %s is a %T, not a tree", name, obj)
	}
	return t, nil
}

// Event copies the current entry out of the reader buffers.
func (e *RootEvent) Event() Event {
	evt := Event{
		Key: Key{Run: e.Run, Lumi: e.Lumi, Event: e.Evt},
		MET: MET{Pt: float64(e.METPt), Phi: float64(e.METPhi), SumEt: float64(e.METSumEt)},
	}
	n := int(e.NJet)
	if len(e.JetPt) < n {
		n = len(e.JetPt)
	}
	evt.Jets = make([]Jet, n)
	for i := 0; i < n; i++ {
		evt.Jets[i] = Jet{
			Pt:  float64(e.JetPt[i]),
			Eta: float64(e.JetEta[i]),
			Phi: float64(e.JetPhi[i]),
			ID:  i < len(e.JetID) && e.JetID[i]&1 != 0,
		}
	}
	return evt
}
