package phaser

import (
	"math"

	"golang.org/x/exp/rand"

	"github.com/diffractive/phasego/backend"
)

// DefaultSupportThreshold is the autocorrelation fraction below which a grid
// point is excluded from a derived support.
const DefaultSupportThreshold = 0.01

// InitialState collects the arrays a phasing session starts from. Amplitudes
// are mandatory; support and density are optional seeds. Finalize fills
// whatever is missing and returns the immutable snapshot the engine consumes.
//
// Preparation always runs on the CPU backend; device selection belongs to the
// engine.
type InitialState struct {
	shape      []int
	amplitudes []float64
	support    []bool
	rho        []complex128
	native     bool
	threshold  float64
	src        rand.Source
}

// NewInitialState validates the measured amplitudes against the grid shape
// and stores them in native layout. Unknown Fourier modes are encoded as NaN
// entries. If native is false the input is taken to be in centered layout and
// converted.
func NewInitialState(amplitudes []float64, shape []int, native bool) (*InitialState, error) {
	n := gridSize(shape)
	if n == 0 {
		return nil, ErrEmptyGrid
	}
	if len(amplitudes) != n {
		return nil, &ShapeError{Shape: shape, Got: len(amplitudes)}
	}
	s := &InitialState{
		shape:     append([]int(nil), shape...),
		threshold: DefaultSupportThreshold,
	}
	if native {
		s.amplitudes = append([]float64(nil), amplitudes...)
	} else {
		s.amplitudes = ToNative(amplitudes, s.shape)
	}
	s.native = native
	return s, nil
}

// SetSupport seeds the real-space support, in the same layout the amplitudes
// were given in.
func (s *InitialState) SetSupport(support []bool) error {
	if len(support) != gridSize(s.shape) {
		return &ShapeError{Shape: s.shape, Got: len(support)}
	}
	if s.native {
		s.support = append([]bool(nil), support...)
	} else {
		s.support = ToNative(support, s.shape)
	}
	return nil
}

// SetRho seeds the initial density estimate, in the same layout the
// amplitudes were given in.
func (s *InitialState) SetRho(rho []complex128) error {
	if len(rho) != gridSize(s.shape) {
		return &ShapeError{Shape: s.shape, Got: len(rho)}
	}
	if s.native {
		s.rho = append([]complex128(nil), rho...)
	} else {
		s.rho = ToNative(rho, s.shape)
	}
	return nil
}

// SetSupportThreshold overrides the relative autocorrelation threshold used
// when the support has to be derived.
func (s *InitialState) SetSupportThreshold(t float64) {
	s.threshold = t
}

// SetSource fixes the random source used for density seeding.
func (s *InitialState) SetSource(src rand.Source) {
	s.src = src
}

// Finalize derives any missing array and returns a fully populated snapshot.
// A missing support comes from thresholding the amplitude autocorrelation; a
// missing density from support-confined uniform(0,1) draws. The returned
// snapshot no longer shares memory with the preparer.
func (s *InitialState) Finalize() (*Snapshot, error) {
	var b backend.Backend
	if s.src != nil {
		b = backend.NewCPUWithSource(s.src)
	} else {
		b = backend.NewCPU()
	}

	support := s.support
	if support == nil {
		support = deriveSupport(b, s.amplitudes, s.shape, s.threshold)
	}
	rho := s.rho
	if rho == nil {
		rho = deriveRho(b, support)
	}

	return &Snapshot{
		shape:      append([]int(nil), s.shape...),
		amplitudes: append([]float64(nil), s.amplitudes...),
		support:    append([]bool(nil), support...),
		rho:        append([]complex128(nil), rho...),
	}, nil
}

// deriveSupport thresholds the autocorrelation of the measured intensities:
// unknown modes count as zero, and a point survives only above the given
// fraction of the autocorrelation peak.
func deriveSupport(b backend.Backend, amplitudes []float64, shape []int, threshold float64) []bool {
	intensities := make([]complex128, len(amplitudes))
	for i, a := range amplitudes {
		if !math.IsNaN(a) {
			intensities[i] = complex(a*a, 0)
		}
	}
	autocorr := b.Abs(b.FFTN(intensities, shape))
	peak := b.Max(autocorr)
	support := make([]bool, len(autocorr))
	for i, v := range autocorr {
		support[i] = v > threshold*peak
	}
	return support
}

func deriveRho(b backend.Backend, support []bool) []complex128 {
	draws := b.Uniform(len(support))
	rho := make([]complex128, len(support))
	for i, in := range support {
		if in {
			rho[i] = complex(draws[i], 0)
		}
	}
	return rho
}

// Snapshot is the immutable, fully populated initial state of a session. All
// internal arrays are in native layout; accessors hand out centered copies.
type Snapshot struct {
	shape      []int
	amplitudes []float64
	support    []bool
	rho        []complex128
}

// Shape returns a copy of the grid shape.
func (s *Snapshot) Shape() []int {
	return append([]int(nil), s.shape...)
}

// Amplitudes returns the measured amplitudes in centered layout.
func (s *Snapshot) Amplitudes() []float64 {
	return ToCentered(s.amplitudes, s.shape)
}

// Support returns the support mask in centered layout.
func (s *Snapshot) Support() []bool {
	return ToCentered(s.support, s.shape)
}

// Rho returns the density estimate in centered layout.
func (s *Snapshot) Rho() []complex128 {
	return ToCentered(s.rho, s.shape)
}
