// Package mpm implements a hybrid particle/grid physics kernel: the
// Material Point Method with APIC (Affine Particle-In-Cell) momentum
// transfers and quadratic B-spline interpolation.
//
// Material state lives on Lagrangian particles ([Particle]); momentum is
// integrated on a fixed Eulerian lattice ([Grid]). Each call to
// [Simulation.Step] advances one explicit time step in three phases:
//
//   - P2G: scatter particle mass and momentum into grid cells, with an
//     affine correction term reconstructing sub-cell velocity gradients
//   - grid update: divide momentum by mass, apply gravity and the
//     no-flow boundary layer
//   - G2P: gather cell velocities back, rebuild each particle's affine
//     matrix, advect, and clamp into the grid box
//
// A grid whose z dimension is 1 runs in degenerate 2D mode: the kernel,
// its gradient, and the boundary condition all suppress the z axis.
//
// # Thread Safety
//
// Simulation instances are NOT thread-safe. Step blocks until all three
// phases complete; between steps callers may read particle and cell state
// but must not mutate it.
package mpm
