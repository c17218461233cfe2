package mpm

import "github.com/go-gl/mathgl/mgl64"

// DefaultBoundaryLayer is the thickness, in cells, of the no-flow layer
// applied during the grid update. Two cells keeps the quadratic kernel's
// support from reaching through the domain wall.
const DefaultBoundaryLayer = 2

// defaultGravity is standard gravity along -y.
var defaultGravity = mgl64.Vec3{0, -9.8, 0}

// Simulation owns a particle population and its background grid and
// advances them one explicit time step at a time. Gravity and
// BoundaryLayer may be adjusted between steps.
type Simulation struct {
	grid      *Grid
	particles []Particle

	// Gravity is the uniform body acceleration applied in the grid update.
	Gravity mgl64.Vec3
	// BoundaryLayer is the no-flow layer thickness in cells, per axis.
	// The z axis is exempt on a 2D grid.
	BoundaryLayer int

	time  float64
	steps int
}

// New builds a simulation over a grid of dims cells per axis centered on
// the world origin: the grid's minimum corner sits at -(dims/2)*cellSize
// per axis, with zero z offset when dims.Z is 1. Panics propagate from
// NewGrid on non-positive arguments.
func New(cellSize float64, dims CellIndex) *Simulation {
	origin := mgl64.Vec3{
		-float64(dims.X) / 2 * cellSize,
		-float64(dims.Y) / 2 * cellSize,
		-float64(dims.Z) / 2 * cellSize,
	}
	if dims.Z == 1 {
		origin[2] = 0
	}
	return &Simulation{
		grid:          NewGrid(dims, cellSize, origin),
		Gravity:       defaultGravity,
		BoundaryLayer: DefaultBoundaryLayer,
	}
}

// Grid exposes the background grid for between-step inspection.
func (s *Simulation) Grid() *Grid { return s.grid }

// Particles exposes the particle population. Seeding order fixes each
// particle's index for the simulation's lifetime; callers may read the
// slice between steps but must not mutate it.
func (s *Simulation) Particles() []Particle { return s.particles }

// Time returns the accumulated simulated time.
func (s *Simulation) Time() float64 { return s.time }

// StepCount returns the number of completed steps.
func (s *Simulation) StepCount() int { return s.steps }

// Step advances the simulation by dt: reset the grid, scatter particle
// mass and momentum onto it (P2G), integrate grid velocities, and gather
// back into the particles (G2P). A non-positive dt is a silent no-op.
// All four phases complete before Step returns; no partial state is
// observable.
func (s *Simulation) Step(dt float64) {
	if dt <= 0 {
		return
	}
	s.grid.ResetCells()
	s.particlesToGrid()
	s.updateGrid(dt)
	s.gridToParticles(dt)
	s.time += dt
	s.steps++
}

// neighborZRange bounds the kernel neighborhood's z offsets: the single
// zero layer in 2D, -1..1 in 3D. P2G and G2P share the resulting
// iteration order (z outer, y middle, x inner) so transfers stay
// deterministic.
func (g *Grid) neighborZRange() (int, int) {
	if g.is2D {
		return 0, 0
	}
	return -1, 1
}

// particlesToGrid scatters mass and APIC momentum into the 9/27-cell
// neighborhood of every particle. Neighbors outside the grid absorb
// nothing: mass and momentum are not conserved for particles whose
// kernel support crosses the boundary.
func (s *Simulation) particlesToGrid() {
	g := s.grid
	dinv := g.DQuadraticInv()
	zlo, zhi := g.neighborZRange()

	for i := range s.particles {
		p := &s.particles[i]
		apic := p.B.Mul3(dinv)
		base := g.PositionToIndex(p.Pos)

		for dz := zlo; dz <= zhi; dz++ {
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					delta := CellIndex{dx, dy, dz}
					idx := base.Add(delta)
					if !g.IsValidIndex(idx) {
						continue
					}
					w := g.Weight(p.Pos, delta)
					cell := g.CellAt(idx)
					cell.Mass += w * p.Mass

					// PIC transfer plus the affine correction evaluated
					// at the neighbor's center.
					toCenter := g.IndexToPosition(idx).Sub(p.Pos)
					mv := p.Vel.Add(apic.Mul3x1(toCenter)).Mul(w * p.Mass)
					cell.Momentum = cell.Momentum.Add(mv)
				}
			}
		}
	}
}

// updateGrid turns accumulated momentum into velocity, integrates
// external forces and gravity, and enforces the no-flow boundary layer.
// Cells that gathered no mass are cleared and skipped.
func (s *Simulation) updateGrid(dt float64) {
	g := s.grid
	n := s.BoundaryLayer

	for z := 0; z < g.size.Z; z++ {
		for y := 0; y < g.size.Y; y++ {
			for x := 0; x < g.size.X; x++ {
				cell := &g.cells[g.flatIndex(CellIndex{x, y, z})]
				if cell.Mass <= 0 {
					cell.Reset()
					continue
				}
				cell.Vel = cell.Momentum.Mul(1 / cell.Mass)
				accel := cell.Force.Mul(1 / cell.Mass).Add(s.Gravity)
				cell.Vel = cell.Vel.Add(accel.Mul(dt))

				if x < n || x >= g.size.X-n {
					cell.Vel[0] = 0
				}
				if y < n || y >= g.size.Y-n {
					cell.Vel[1] = 0
				}
				if !g.is2D && (z < n || z >= g.size.Z-n) {
					cell.Vel[2] = 0
				}
			}
		}
	}
}

// gridToParticles rebuilds every particle's velocity and affine matrix
// from the updated grid, then advects and clamps it into the grid's
// physical bounding box.
func (s *Simulation) gridToParticles(dt float64) {
	g := s.grid
	lo, hi := g.MinCorner(), g.MaxCorner()
	zlo, zhi := g.neighborZRange()

	for i := range s.particles {
		p := &s.particles[i]
		p.Vel = mgl64.Vec3{}
		p.B = mgl64.Mat3{}
		base := g.PositionToIndex(p.Pos)

		for dz := zlo; dz <= zhi; dz++ {
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					delta := CellIndex{dx, dy, dz}
					idx := base.Add(delta)
					if !g.IsValidIndex(idx) {
						continue
					}
					w := g.Weight(p.Pos, delta)
					cv := g.CellAt(idx).Vel
					p.Vel = p.Vel.Add(cv.Mul(w))

					toCenter := g.IndexToPosition(idx).Sub(p.Pos)
					p.B = p.B.Add(cv.OuterProd3(toCenter).Mul(w))
				}
			}
		}

		p.Pos = clampVec(p.Pos.Add(p.Vel.Mul(dt)), lo, hi)
	}
}
