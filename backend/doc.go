// Package backend provides the numeric capability layer for phase retrieval.
//
// A Backend bundles the whole-array operations the phasing engine needs:
//   - Forward and inverse N-dimensional FFTs over row-major flat arrays
//   - Elementwise complex algebra (magnitude, phase, polar recombination, select)
//   - Reduction norms and maxima
//   - Uniform random sampling for density seeding
//   - Gaussian smoothing with periodic boundaries for support refinement
//
// The CPU backend is always available. An accelerated backend can be made
// available through Register and is picked up by device resolution ("auto",
// "cpu", "gpu") at engine construction time.
package backend
