package event

import (
	"io"

	"github.com/pkg/errors"
	"github.com/proio-org/go-proio"
	"github.com/proio-org/go-proio-pb/model/eic"

	jetmet "github.com/hatakeyamak/JetMET"
)

// ProioReader reads jets stored as eic.Particle entries. proio events carry
// no event number, so the ordinal of the event inside its file is used; a
// reprocessing keeps that order file by file.
//
// Jets additionally tagged IDTag pass the identification. With an empty
// IDTag every jet passes.
type ProioReader struct {
	JetTag string
	METTag string
	IDTag  string
}

func (r ProioReader) ReadKeys(filename string) ([]Key, error) {
	var keys []Key
	err := r.read(filename, func(n uint64, _ *proio.Event) {
		keys = append(keys, Key{Event: n})
	})
	return keys, err
}

func (r ProioReader) ReadEvents(filename string) ([]Event, error) {
	var events []Event
	err := r.read(filename, func(n uint64, event *proio.Event) {
		e := Event{Key: Key{Event: n}}
		passID := make(map[uint64]bool)
		for _, id := range event.TaggedEntries(r.IDTag) {
			passID[id] = true
		}
		for _, id := range event.TaggedEntries(r.JetTag) {
			part, ok := event.GetEntry(id).(*eic.Particle)
			if !ok {
				continue
			}
			jet := JetFromParticle(part)
			jet.ID = r.IDTag == "" || passID[id]
			e.Jets = append(e.Jets, jet)
		}
		for _, id := range event.TaggedEntries(r.METTag) {
			part, ok := event.GetEntry(id).(*eic.Particle)
			if !ok {
				continue
			}
			pt, _, phi := jetmet.PtEtaPhi(float64(part.GetP().GetX()), float64(part.GetP().GetY()), 0)
			e.MET = MET{Pt: pt, Phi: phi}
			break
		}
		events = append(events, e)
	})
	return events, err
}

func (r ProioReader) read(filename string, fn func(n uint64, event *proio.Event)) error {
	reader, err := proio.Open(filename)
	if err != nil {
		return errors.Wrapf(err, "open %s", filename)
	}
	defer reader.Close()

	for n := uint64(0); ; n++ {
		event, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrapf(err, "%s: event %d", filename, n)
		}
		fn(n, event)
	}
}

// JetFromParticle converts the momentum of part. The identification is
// left unset.
func JetFromParticle(part *eic.Particle) Jet {
	p := part.GetP()
	pt, eta, phi := jetmet.PtEtaPhi(float64(p.GetX()), float64(p.GetY()), float64(p.GetZ()))
	return Jet{Pt: pt, Eta: eta, Phi: phi}
}
