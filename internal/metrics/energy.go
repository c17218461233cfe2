package metrics

import "github.com/callumhay/mpm-go/internal/mpm"

// KineticEnergy tracks the total kinetic energy of the last observed
// frame.
type KineticEnergy struct {
	value float64
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{}
}

func (k *KineticEnergy) Name() string { return "kinetic_energy" }

func (k *KineticEnergy) Observe(particles []mpm.Particle, t float64) {
	total := 0.0
	for _, p := range particles {
		total += 0.5 * p.Mass * p.Vel.Dot(p.Vel)
	}
	k.value = total
}

func (k *KineticEnergy) Value() float64 { return k.value }

func (k *KineticEnergy) Reset() { k.value = 0 }
