package match

import (
	jetmet "github.com/hatakeyamak/JetMET"
	"github.com/hatakeyamak/JetMET/event"
)

// MaxDeltaR2 is the squared matching cone, (0.2)^2.
const MaxDeltaR2 = 0.2 * 0.2

func AngularDistance2(a, b event.Jet) float64 {
	return jetmet.DeltaR2(a.Eta, a.Phi, b.Eta, b.Phi)
}

// Pair is a jet of the updated reconstruction matched to a jet of the
// reference reconstruction.
type Pair struct {
	Update, Ref event.Jet
	DeltaR2     float64
}

// Ratio is pT(update)/pT(ref).
func (p Pair) Ratio() float64 {
	return p.Update.Pt / p.Ref.Pt
}

// MatchJets pairs the jets by position in their collections and keeps the
// pairs closer than MaxDeltaR2. This is not an optimal assignment: when the
// two collections are ordered differently true matches are lost and wrong
// ones can pass the cone.
func MatchJets(update, ref []event.Jet) []Pair {
	n := len(update)
	if len(ref) < n {
		n = len(ref)
	}

	var pairs []Pair
	for i := 0; i < n; i++ {
		dr2 := AngularDistance2(update[i], ref[i])
		if dr2 < MaxDeltaR2 {
			pairs = append(pairs, Pair{Update: update[i], Ref: ref[i], DeltaR2: dr2})
		}
	}
	return pairs
}
