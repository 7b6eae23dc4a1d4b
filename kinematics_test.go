package jetmet

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeltaPhi(t *testing.T) {
	for _, tc := range []struct {
		phi1, phi2, want float64
	}{
		{0, 1, 1},
		{1, 0, -1},
		{3, -3, 2*math.Pi - 6},
		{-3, 3, 6 - 2*math.Pi},
		{0, math.Pi, math.Pi},
		{math.Pi, 0, math.Pi},
	} {
		assert.InDelta(t, tc.want, DeltaPhi(tc.phi1, tc.phi2), 1e-12, "%v -> %v", tc.phi1, tc.phi2)
	}
}

func TestDeltaR2(t *testing.T) {
	assert.InDelta(t, 0.25, DeltaR2(1, 0, 1.3, 0.4), 1e-12)
	assert.Equal(t, DeltaR2(1, 3, -0.5, -3), DeltaR2(-0.5, -3, 1, 3))
	assert.InDelta(t, math.Pow(2*math.Pi-6, 2), DeltaR2(0, 3, 0, -3), 1e-12)
}

func TestPtEtaPhi(t *testing.T) {
	pt, eta, phi := PtEtaPhi(3, 4, 0)
	assert.InDelta(t, 5, pt, 1e-12)
	assert.InDelta(t, 0, eta, 1e-12)
	assert.InDelta(t, math.Atan2(4, 3), phi, 1e-12)

	_, eta, _ = PtEtaPhi(1, 0, math.Sinh(2))
	assert.InDelta(t, 2, eta, 1e-12)

	pt, eta, phi = PtEtaPhi(0, 0, 0)
	assert.Zero(t, pt)
	assert.Zero(t, eta)
	assert.Zero(t, phi)
}
