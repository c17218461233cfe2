package metrics

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/callumhay/mpm-go/internal/mpm"
)

// MomentumNorm tracks the magnitude of the population's total linear
// momentum in the last observed frame.
type MomentumNorm struct {
	value float64
}

func NewMomentumNorm() *MomentumNorm {
	return &MomentumNorm{}
}

func (m *MomentumNorm) Name() string { return "momentum_norm" }

func (m *MomentumNorm) Observe(particles []mpm.Particle, t float64) {
	total := mgl64.Vec3{}
	for _, p := range particles {
		total = total.Add(p.Vel.Mul(p.Mass))
	}
	m.value = total.Len()
}

func (m *MomentumNorm) Value() float64 { return m.value }

func (m *MomentumNorm) Reset() { m.value = 0 }
