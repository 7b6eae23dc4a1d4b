package event

import (
	"math"
	"testing"

	"github.com/proio-org/go-proio-pb/model/eic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go-hep.org/x/hep/lcio"
)

func TestJetsFromRecParticles(t *testing.T) {
	jets := JetsFromRecParticles([]lcio.RecParticle{
		{P: [3]float32{30, 40, 0}, GoodnessOfPID: 1},
		{P: [3]float32{0, -10, 10}},
	})
	require.Len(t, jets, 2)

	assert.InDelta(t, 50, jets[0].Pt, 1e-9)
	assert.InDelta(t, 0, jets[0].Eta, 1e-9)
	assert.InDelta(t, math.Atan2(40, 30), jets[0].Phi, 1e-9)
	assert.True(t, jets[0].ID)

	assert.InDelta(t, 10, jets[1].Pt, 1e-9)
	assert.InDelta(t, math.Asinh(1), jets[1].Eta, 1e-9)
	assert.InDelta(t, -math.Pi/2, jets[1].Phi, 1e-9)
	assert.False(t, jets[1].ID)
}

func f32(v float32) *float32 { return &v }

func TestJetFromParticle(t *testing.T) {
	jet := JetFromParticle(&eic.Particle{
		P: &eic.XYZF{X: f32(0), Y: f32(20), Z: f32(0)},
	})
	assert.InDelta(t, 20, jet.Pt, 1e-6)
	assert.InDelta(t, math.Pi/2, jet.Phi, 1e-6)
	assert.InDelta(t, 0, jet.Eta, 1e-6)
	assert.False(t, jet.ID)

	jet = JetFromParticle(&eic.Particle{P: &eic.XYZF{X: f32(3), Y: f32(0), Z: f32(4)}})
	assert.InDelta(t, 3, jet.Pt, 1e-6)
	assert.InDelta(t, math.Atanh(0.8), jet.Eta, 1e-6)
}
