// Package metrics observes particle populations between simulation steps.
package metrics

import (
	"github.com/callumhay/mpm-go/internal/mpm"
)

// Metric samples the particle population once per recorded frame.
type Metric interface {
	Name() string
	Observe(particles []mpm.Particle, t float64)
	Value() float64
	Reset()
}
