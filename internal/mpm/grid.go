package mpm

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Cell holds the per-step Eulerian state accumulated at one lattice site.
// Force is an external-force hook for a future stress term; it is always
// zero in this version but still participates in the grid update.
type Cell struct {
	Mass     float64
	Momentum mgl64.Vec3
	Vel      mgl64.Vec3
	Force    mgl64.Vec3
}

// Reset zeroes every field ahead of a new accumulation pass.
func (c *Cell) Reset() {
	*c = Cell{}
}

// Grid is a regular lattice of cells over a bounded region. It owns the
// cell buffer and provides the coordinate/index transforms and the
// quadratic B-spline kernel used for particle/grid transfer. The shape is
// fixed at construction; only cell contents mutate.
type Grid struct {
	size     CellIndex
	cellSize float64
	origin   mgl64.Vec3
	cells    []Cell
	is2D     bool
}

// NewGrid builds a grid of size cells per axis with uniform cell extent
// cellSize, whose minimum (left-bottom-back) corner sits at origin.
// A size.Z of 1 selects degenerate 2D mode. Panics on a non-positive
// cellSize or size component.
func NewGrid(size CellIndex, cellSize float64, origin mgl64.Vec3) *Grid {
	if cellSize <= 0 {
		panic(fmt.Sprintf("mpm: cell size must be positive, got %g", cellSize))
	}
	if size.X <= 0 || size.Y <= 0 || size.Z <= 0 {
		panic(fmt.Sprintf("mpm: grid size must be positive on every axis, got %+v", size))
	}
	return &Grid{
		size:     size,
		cellSize: cellSize,
		origin:   origin,
		cells:    make([]Cell, size.X*size.Y*size.Z),
		is2D:     size.Z == 1,
	}
}

func (g *Grid) Size() CellIndex   { return g.size }
func (g *Grid) CellSize() float64 { return g.cellSize }
func (g *Grid) Is2D() bool        { return g.is2D }
func (g *Grid) NumCells() int     { return len(g.cells) }

// MinCorner returns the minimum corner of the grid's physical bounding box.
func (g *Grid) MinCorner() mgl64.Vec3 { return g.origin }

// MaxCorner returns the maximum corner of the grid's physical bounding box.
func (g *Grid) MaxCorner() mgl64.Vec3 {
	return g.origin.Add(mgl64.Vec3{
		float64(g.size.X) * g.cellSize,
		float64(g.size.Y) * g.cellSize,
		float64(g.size.Z) * g.cellSize,
	})
}

// Cells exposes the flat cell buffer, ordered x + y*size.X + z*size.X*size.Y.
// Callers must treat it as read-only and must not hold it across a Step.
func (g *Grid) Cells() []Cell { return g.cells }

// ResetCells zeroes every cell. Must run before any per-step accumulation.
func (g *Grid) ResetCells() {
	for i := range g.cells {
		g.cells[i].Reset()
	}
}

// flatIndex flattens a lattice index. The formula is a bijection between
// in-range (x,y,z) triples and [0, len(cells)); out-of-range triples are
// caught by IsValidIndex, not here.
func (g *Grid) flatIndex(i CellIndex) int {
	return i.X + i.Y*g.size.X + i.Z*g.size.X*g.size.Y
}

// PositionToIndex maps a world position to the lattice index of the cell
// containing it. The result is not clamped and may be out of range;
// callers must check IsValidIndex before dereferencing.
func (g *Grid) PositionToIndex(pos mgl64.Vec3) CellIndex {
	rel := floorVec(pos.Sub(g.origin).Mul(1 / g.cellSize))
	return CellIndex{int(rel[0]), int(rel[1]), int(rel[2])}
}

// IsValidIndex reports whether the flattened index lands inside the cell
// buffer.
func (g *Grid) IsValidIndex(i CellIndex) bool {
	f := g.flatIndex(i)
	return f >= 0 && f < len(g.cells)
}

// IndexToPosition returns the world-space center of cell i.
func (g *Grid) IndexToPosition(i CellIndex) mgl64.Vec3 {
	return g.origin.Add(mgl64.Vec3{
		(float64(i.X) + 0.5) * g.cellSize,
		(float64(i.Y) + 0.5) * g.cellSize,
		(float64(i.Z) + 0.5) * g.cellSize,
	})
}

// CellAt returns the cell at a valid index. An invalid index is a
// contract violation and panics.
func (g *Grid) CellAt(i CellIndex) *Cell {
	if !g.IsValidIndex(i) {
		panic(fmt.Sprintf("mpm: cell index out of range: %+v", i))
	}
	return &g.cells[g.flatIndex(i)]
}

// Weight returns the kernel weight of the neighbor cell at offset delta
// from pos's base cell, evaluated at pos. Neighbors outside the cell
// buffer weigh exactly zero, which silently truncates the kernel for
// boundary-adjacent positions.
func (g *Grid) Weight(pos mgl64.Vec3, delta CellIndex) float64 {
	idx := g.PositionToIndex(pos).Add(delta)
	if !g.IsValidIndex(idx) {
		return 0
	}
	d := pos.Sub(g.IndexToPosition(idx)).Mul(1 / g.cellSize)
	w := basisN(d[0]) * basisN(d[1])
	if !g.is2D {
		w *= basisN(d[2])
	}
	return w
}

// WeightGradient returns the spatial gradient of Weight at pos for the
// neighbor at offset delta, via the product rule. Invalid neighbors yield
// the zero vector; the z component is zero in 2D.
func (g *Grid) WeightGradient(pos mgl64.Vec3, delta CellIndex) mgl64.Vec3 {
	idx := g.PositionToIndex(pos).Add(delta)
	if !g.IsValidIndex(idx) {
		return mgl64.Vec3{}
	}
	inv := 1 / g.cellSize
	d := pos.Sub(g.IndexToPosition(idx)).Mul(inv)
	nx, ny := basisN(d[0]), basisN(d[1])
	nz := 1.0
	if !g.is2D {
		nz = basisN(d[2])
	}
	grad := mgl64.Vec3{
		basisNDeriv(d[0]) * ny * nz * inv,
		nx * basisNDeriv(d[1]) * nz * inv,
		0,
	}
	if !g.is2D {
		grad[2] = nx * ny * basisNDeriv(d[2]) * inv
	}
	return grad
}

// DQuadratic returns the APIC inertia-like normalization matrix for the
// quadratic kernel: diag(h²/4) on each active axis, zero on z in 2D.
func (g *Grid) DQuadratic() mgl64.Mat3 {
	d := g.cellSize * g.cellSize / 4
	if g.is2D {
		return mgl64.Diag3(mgl64.Vec3{d, d, 0})
	}
	return mgl64.Diag3(mgl64.Vec3{d, d, d})
}

// DQuadraticInv returns the diagonal pseudo-inverse of DQuadratic: the
// reciprocal on active axes and zero on a collapsed z axis. In 3D this is
// the true inverse; in 2D DQuadratic is singular and a general inverse
// does not exist.
func (g *Grid) DQuadraticInv() mgl64.Mat3 {
	d := 4 / (g.cellSize * g.cellSize)
	if g.is2D {
		return mgl64.Diag3(mgl64.Vec3{d, d, 0})
	}
	return mgl64.Diag3(mgl64.Vec3{d, d, d})
}

// basisN is the quadratic B-spline basis, C1-continuous with support
// radius 1.5 cells. Even in x.
func basisN(x float64) float64 {
	x = math.Abs(x)
	switch {
	case x < 0.5:
		return 0.75 - x*x
	case x < 1.5:
		t := 1.5 - x
		return 0.5 * t * t
	default:
		return 0
	}
}

// basisNDeriv is the derivative of basisN on signed input. Odd in x.
func basisNDeriv(x float64) float64 {
	switch ax := math.Abs(x); {
	case ax < 0.5:
		return -2 * x
	case ax < 1.5:
		if x > 0 {
			return x - 1.5
		}
		return x + 1.5
	default:
		return 0
	}
}
