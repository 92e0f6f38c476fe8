// Package phaser reconstructs a complex real-space density from
// magnitude-only Fourier measurements by alternating projections.
//
// This package implements the iterative phasing workflow used in coherent
// diffraction imaging. It supports:
//   - Error-Reduction and Hybrid-Input-Output iterations over N-dimensional grids
//   - A shared Fourier-magnitude projection that leaves unmeasured modes free
//   - Shrink-wrap support refinement from the smoothed density magnitude
//   - Two-phase initial-state preparation with autocorrelation support and
//     random density seeding
//   - Optional per-iteration convergence traces (support size, Fourier and
//     real-space residuals)
//
// All arrays are flat row-major slices over one fixed grid shape. The engine
// keeps its state in FFT-native layout; every public boundary converts
// to or from centered layout exactly once.
package phaser
