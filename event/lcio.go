package event

import (
	"github.com/pkg/errors"
	"go-hep.org/x/hep/lcio"

	jetmet "github.com/hatakeyamak/JetMET"
)

// LCIOReader reads jets from a reconstructed-particle collection. A jet
// passes the identification when its goodness of PID is positive.
type LCIOReader struct {
	Jets string
	MET  string
}

func (r LCIOReader) ReadKeys(filename string) ([]Key, error) {
	var keys []Key
	err := r.read(filename, func(evt *lcio.Event) {
		keys = append(keys, lcioKey(evt))
	})
	return keys, err
}

func (r LCIOReader) ReadEvents(filename string) ([]Event, error) {
	var events []Event
	err := r.read(filename, func(evt *lcio.Event) {
		e := Event{Key: lcioKey(evt)}
		if coll, ok := evt.Get(r.Jets).(*lcio.RecParticleContainer); ok {
			e.Jets = JetsFromRecParticles(coll.Parts)
		}
		if coll, ok := evt.Get(r.MET).(*lcio.RecParticleContainer); ok && len(coll.Parts) > 0 {
			met := coll.Parts[0]
			pt, _, phi := jetmet.PtEtaPhi(float64(met.P[0]), float64(met.P[1]), 0)
			e.MET = MET{Pt: pt, Phi: phi, SumEt: float64(met.Energy)}
		}
		events = append(events, e)
	})
	return events, err
}

func (r LCIOReader) read(filename string, fn func(evt *lcio.Event)) error {
	reader, err := lcio.Open(filename)
	if err != nil {
		return errors.Wrapf(err, "open %s", filename)
	}
	defer reader.Close()

	for reader.Next() {
		evt := reader.Event()
		fn(&evt)
	}
	if err := reader.Err(); err != nil {
		return errors.Wrapf(err, "read %s", filename)
	}
	return nil
}

func lcioKey(evt *lcio.Event) Key {
	return Key{Run: uint32(evt.RunNumber), Event: uint64(evt.EventNumber)}
}

func JetsFromRecParticles(parts []lcio.RecParticle) []Jet {
	jets := make([]Jet, 0, len(parts))
	for _, p := range parts {
		pt, eta, phi := jetmet.PtEtaPhi(float64(p.P[0]), float64(p.P[1]), float64(p.P[2]))
		jets = append(jets, Jet{Pt: pt, Eta: eta, Phi: phi, ID: p.GoodnessOfPID > 0})
	}
	return jets
}
