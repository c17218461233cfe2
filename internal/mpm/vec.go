package mpm

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// CellIndex addresses a grid cell by its integer lattice coordinates.
type CellIndex struct {
	X, Y, Z int
}

// Add returns the index offset by o.
func (i CellIndex) Add(o CellIndex) CellIndex {
	return CellIndex{i.X + o.X, i.Y + o.Y, i.Z + o.Z}
}

// minVec returns the componentwise minimum of a and b.
func minVec(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{math.Min(a[0], b[0]), math.Min(a[1], b[1]), math.Min(a[2], b[2])}
}

// maxVec returns the componentwise maximum of a and b.
func maxVec(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{math.Max(a[0], b[0]), math.Max(a[1], b[1]), math.Max(a[2], b[2])}
}

// clampVec clamps v into the box [lo, hi], lower bound first.
func clampVec(v, lo, hi mgl64.Vec3) mgl64.Vec3 {
	return minVec(maxVec(v, lo), hi)
}

// floorVec returns the componentwise floor of v.
func floorVec(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{math.Floor(v[0]), math.Floor(v[1]), math.Floor(v[2])}
}
