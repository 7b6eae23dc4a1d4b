package jetmet

import "math"

// DeltaPhi returns phi2-phi1 wrapped into (-pi, pi].
func DeltaPhi(phi1, phi2 float64) float64 {
	dphi := phi2 - phi1
	if dphi > math.Pi {
		dphi -= 2 * math.Pi
	}
	if dphi <= -math.Pi {
		dphi += 2 * math.Pi
	}
	return dphi
}

// DeltaR2 is the squared distance in the eta-phi plane.
func DeltaR2(eta1, phi1, eta2, phi2 float64) float64 {
	deta := eta1 - eta2
	dphi := DeltaPhi(phi1, phi2)
	return deta*deta + dphi*dphi
}

func PtEtaPhi(px, py, pz float64) (pt, eta, phi float64) {
	pt = math.Hypot(px, py)
	phi = math.Atan2(py, px)
	p := math.Sqrt(pt*pt + pz*pz)
	if p == 0 {
		return 0, 0, 0
	}
	eta = math.Atanh(pz / p)
	return pt, eta, phi
}
