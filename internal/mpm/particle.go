package mpm

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Particle is a Lagrangian material point. B is the local affine velocity
// matrix carried between steps by the APIC transfer scheme. Mass is fixed
// at seeding time; every other field is rewritten each step. Active is
// reserved for future spawn/despawn support and is never toggled here.
type Particle struct {
	Active bool
	Mass   float64
	Pos    mgl64.Vec3
	Vel    mgl64.Vec3
	B      mgl64.Mat3
}

// AddParticles seeds a lattice of particles over the box [min, max]:
// floor(extent/spacing) points per axis, each placed at its lattice cell
// center min + (i+0.5)*spacing. A zero z extent seeds a single flat layer
// at z = min.Z. All particles share the given mass and start at rest.
//
// Call before the first Step. Panics on a non-positive spacing or mass,
// min exceeding max, a non-positive x or y extent, a negative z extent,
// or a spacing wider than any non-degenerate axis.
func (s *Simulation) AddParticles(min, max mgl64.Vec3, spacing, mass float64) {
	if spacing <= 0 {
		panic(fmt.Sprintf("mpm: particle spacing must be positive, got %g", spacing))
	}
	if mass <= 0 {
		panic(fmt.Sprintf("mpm: particle mass must be positive, got %g", mass))
	}
	extent := max.Sub(min)
	if extent[0] < 0 || extent[1] < 0 || extent[2] < 0 {
		panic(fmt.Sprintf("mpm: seeding box min %v exceeds max %v", min, max))
	}
	if extent[0] <= 0 || extent[1] <= 0 {
		panic("mpm: seeding box must have positive extent on x and y")
	}
	if spacing > extent[0] || spacing > extent[1] || (extent[2] > 0 && spacing > extent[2]) {
		panic(fmt.Sprintf("mpm: spacing %g exceeds seeding box extent %v", spacing, extent))
	}

	nx := int(extent[0] / spacing)
	ny := int(extent[1] / spacing)
	nz := 1
	flat := extent[2] == 0
	if !flat {
		nz = int(extent[2] / spacing)
	}

	for z := 0; z < nz; z++ {
		pz := min[2]
		if !flat {
			pz = min[2] + (float64(z)+0.5)*spacing
		}
		for y := 0; y < ny; y++ {
			for x := 0; x < nx; x++ {
				s.particles = append(s.particles, Particle{
					Active: true,
					Mass:   mass,
					Pos: mgl64.Vec3{
						min[0] + (float64(x)+0.5)*spacing,
						min[1] + (float64(y)+0.5)*spacing,
						pz,
					},
				})
			}
		}
	}
}
