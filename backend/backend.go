package backend

// Backend is the operation set the phasing engine is written against.
// All array arguments are flat row-major slices; methods never modify their
// inputs and return freshly allocated results.
type Backend interface {
	Name() string

	// FFTN computes the unnormalized forward discrete Fourier transform of
	// an N-dimensional array. IFFTN is its 1/N-normalized inverse, so
	// IFFTN(FFTN(x)) == x up to rounding.
	FFTN(x []complex128, shape []int) []complex128
	IFFTN(x []complex128, shape []int) []complex128

	Abs(x []complex128) []float64
	Phase(x []complex128) []float64

	// Polar builds mag[i] * exp(i*phase[i]) per entry.
	Polar(mag, phase []float64) []complex128

	Finite(x []float64) []bool

	// Select picks a[i] where mask[i] is true and b[i] elsewhere.
	Select(mask []bool, a, b []complex128) []complex128

	// SubScaled computes a[i] - s*b[i] per entry.
	SubScaled(a, b []complex128, s float64) []complex128

	// Norm2 is the Euclidean norm; Max the largest element.
	Norm2(x []float64) float64
	Max(x []float64) float64

	// Uniform draws n independent samples from U[0,1).
	Uniform(n int) []float64

	// GaussianWrap smooths an N-dimensional array with a Gaussian kernel of
	// the given sigma, truncated at two standard deviations, with
	// wrap-around boundary handling on every axis.
	GaussianWrap(x []float64, shape []int, sigma float64) []float64
}
