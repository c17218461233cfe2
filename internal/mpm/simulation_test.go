package mpm_test

import (
	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/callumhay/mpm-go/internal/mpm"
)

// newBlock2D seeds a 64-particle block well inside a [-8,8]² 2D grid.
func newBlock2D() *mpm.Simulation {
	s := mpm.New(0.5, mpm.CellIndex{32, 32, 1})
	s.AddParticles(mgl64.Vec3{-1, -1, 0}, mgl64.Vec3{1, 1, 0}, 0.25, 1)
	return s
}

func snapshotParticles(s *mpm.Simulation) []mpm.Particle {
	out := make([]mpm.Particle, len(s.Particles()))
	copy(out, s.Particles())
	return out
}

func snapshotCells(s *mpm.Simulation) []mpm.Cell {
	out := make([]mpm.Cell, s.Grid().NumCells())
	copy(out, s.Grid().Cells())
	return out
}

var _ = Describe("Simulation", func() {
	Describe("construction", func() {
		It("centers the grid on the origin", func() {
			s := mpm.New(0.5, mpm.CellIndex{8, 8, 1})
			Expect(s.Grid().MinCorner()).To(Equal(mgl64.Vec3{-2, -2, 0}))
			Expect(s.Grid().MaxCorner()).To(Equal(mgl64.Vec3{2, 2, 0.5}))
			Expect(s.Grid().Is2D()).To(BeTrue())
		})

		It("offsets the z origin for a 3D grid", func() {
			s := mpm.New(0.5, mpm.CellIndex{8, 8, 8})
			Expect(s.Grid().MinCorner()).To(Equal(mgl64.Vec3{-2, -2, -2}))
			Expect(s.Grid().Is2D()).To(BeFalse())
		})
	})

	Describe("Step with non-positive dt", func() {
		It("leaves all state bit-identical", func() {
			s := newBlock2D()
			s.Step(0.01) // populate grid and particle state

			particles := snapshotParticles(s)
			cells := snapshotCells(s)
			elapsed := s.Time()

			s.Step(0)
			s.Step(-0.5)

			Expect(s.Particles()).To(Equal(particles))
			Expect(s.Grid().Cells()).To(Equal(cells))
			Expect(s.Time()).To(Equal(elapsed))
			Expect(s.StepCount()).To(Equal(1))
		})
	})

	Describe("P2G mass transfer", func() {
		It("conserves total mass for interior particles", func() {
			s := newBlock2D()
			s.Step(0.01)

			gridMass := 0.0
			for _, c := range s.Grid().Cells() {
				gridMass += c.Mass
			}
			Expect(gridMass).To(BeNumerically("~", 64.0, 1e-9))
		})
	})

	Describe("determinism", func() {
		It("produces identical trajectories for identically seeded twins", func() {
			a := newBlock2D()
			b := newBlock2D()
			for i := 0; i < 50; i++ {
				a.Step(0.01)
				b.Step(0.01)
			}
			Expect(a.Particles()).To(Equal(b.Particles()))
		})
	})

	Describe("boundary containment", func() {
		It("keeps every particle inside the grid box", func() {
			s := newBlock2D()
			lo, hi := s.Grid().MinCorner(), s.Grid().MaxCorner()
			for i := 0; i < 400; i++ {
				s.Step(0.02)
			}
			for _, p := range s.Particles() {
				for axis := 0; axis < 3; axis++ {
					Expect(p.Pos[axis]).To(BeNumerically(">=", lo[axis]))
					Expect(p.Pos[axis]).To(BeNumerically("<=", hi[axis]))
				}
			}
		})
	})

	Describe("free fall", func() {
		It("accelerates an interior particle at -9.8 along y only", func() {
			s := mpm.New(0.5, mpm.CellIndex{32, 32, 1})
			s.AddParticles(mgl64.Vec3{0, 3.9, 0}, mgl64.Vec3{0.1, 4, 0}, 0.1, 1)
			Expect(s.Particles()).To(HaveLen(1))

			dt := 0.01
			for i := 0; i < 100; i++ {
				s.Step(dt)
			}

			p := s.Particles()[0]
			Expect(p.Vel.Y()).To(BeNumerically("~", -9.8*s.Time(), 1e-6))
			Expect(p.Vel.X()).To(BeNumerically("~", 0, 1e-9))
			Expect(p.Vel.Z()).To(BeNumerically("~", 0, 1e-12))
		})
	})

	Describe("2D mode", func() {
		It("never develops z velocity", func() {
			s := newBlock2D()
			for i := 0; i < 100; i++ {
				s.Step(0.01)
			}
			for _, p := range s.Particles() {
				Expect(p.Vel.Z()).To(BeZero())
			}
		})
	})

	Describe("particle identity", func() {
		It("keeps indices and masses stable across steps", func() {
			s := newBlock2D()
			before := snapshotParticles(s)
			for i := 0; i < 20; i++ {
				s.Step(0.01)
			}
			ps := s.Particles()
			Expect(ps).To(HaveLen(len(before)))
			for i := range ps {
				Expect(ps[i].Mass).To(Equal(before[i].Mass))
				Expect(ps[i].Active).To(BeTrue())
			}
		})
	})
})
