package metrics

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/callumhay/mpm-go/internal/mpm"
)

// Containment counts frames in which every particle sits inside the
// grid's physical bounding box. Value is the contained fraction of all
// observed frames.
type Containment struct {
	lo, hi     mgl64.Vec3
	violations int
	samples    int
}

func NewContainment(lo, hi mgl64.Vec3) *Containment {
	return &Containment{lo: lo, hi: hi}
}

func (c *Containment) Name() string { return "containment" }

func (c *Containment) Observe(particles []mpm.Particle, t float64) {
	c.samples++
	for _, p := range particles {
		for axis := 0; axis < 3; axis++ {
			if p.Pos[axis] < c.lo[axis] || p.Pos[axis] > c.hi[axis] {
				c.violations++
				return
			}
		}
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}
