package backend

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// kernel cut at two standard deviations
const gaussTruncate = 2.0

// CPU is the default backend. The zero value is not usable; construct with
// NewCPU or NewCPUWithSource.
type CPU struct {
	uni distuv.Uniform
}

// NewCPU creates a CPU backend with the shared global random source.
func NewCPU() *CPU {
	return &CPU{uni: distuv.Uniform{Min: 0, Max: 1}}
}

// NewCPUWithSource creates a CPU backend drawing its uniform samples from src,
// so seeding stays reproducible.
func NewCPUWithSource(src rand.Source) *CPU {
	return &CPU{uni: distuv.Uniform{Min: 0, Max: 1, Src: src}}
}

func (c *CPU) Name() string { return "cpu" }

// FFTN transforms one axis at a time: every 1-D line along the axis is
// gathered from the flat array, transformed, and scattered back.
func (c *CPU) FFTN(x []complex128, shape []int) []complex128 {
	return transformAxes(x, shape, fft.FFT)
}

func (c *CPU) IFFTN(x []complex128, shape []int) []complex128 {
	return transformAxes(x, shape, fft.IFFT)
}

func transformAxes(x []complex128, shape []int, f func([]complex128) []complex128) []complex128 {
	out := make([]complex128, len(x))
	copy(out, x)
	for axis, n := range shape {
		if n <= 1 {
			continue
		}
		stride := 1
		for i := axis + 1; i < len(shape); i++ {
			stride *= shape[i]
		}
		line := make([]complex128, n)
		for o := 0; o < len(x)/n; o++ {
			base := (o/stride)*stride*n + o%stride
			for k := 0; k < n; k++ {
				line[k] = out[base+k*stride]
			}
			res := f(line)
			for k := 0; k < n; k++ {
				out[base+k*stride] = res[k]
			}
		}
	}
	return out
}

func (c *CPU) Abs(x []complex128) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = cmplx.Abs(v)
	}
	return out
}

func (c *CPU) Phase(x []complex128) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = cmplx.Phase(v)
	}
	return out
}

func (c *CPU) Polar(mag, phase []float64) []complex128 {
	out := make([]complex128, len(mag))
	for i := range mag {
		out[i] = cmplx.Rect(mag[i], phase[i])
	}
	return out
}

func (c *CPU) Finite(x []float64) []bool {
	out := make([]bool, len(x))
	for i, v := range x {
		out[i] = !math.IsNaN(v) && !math.IsInf(v, 0)
	}
	return out
}

func (c *CPU) Select(mask []bool, a, b []complex128) []complex128 {
	out := make([]complex128, len(mask))
	for i, m := range mask {
		if m {
			out[i] = a[i]
		} else {
			out[i] = b[i]
		}
	}
	return out
}

func (c *CPU) SubScaled(a, b []complex128, s float64) []complex128 {
	out := make([]complex128, len(a))
	for i := range a {
		out[i] = a[i] - complex(s, 0)*b[i]
	}
	return out
}

func (c *CPU) Norm2(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return floats.Norm(x, 2)
}

func (c *CPU) Max(x []float64) float64 {
	return floats.Max(x)
}

func (c *CPU) Uniform(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = c.uni.Rand()
	}
	return out
}

// GaussianWrap applies the kernel separably, one axis per pass. A sigma small
// enough to give a zero-radius kernel is the identity.
func (c *CPU) GaussianWrap(x []float64, shape []int, sigma float64) []float64 {
	out := make([]float64, len(x))
	copy(out, x)

	radius := int(gaussTruncate*sigma + 0.5)
	if radius <= 0 {
		return out
	}
	kernel := make([]float64, 2*radius+1)
	for k := -radius; k <= radius; k++ {
		kernel[k+radius] = math.Exp(-float64(k*k) / (2 * sigma * sigma))
	}
	floats.Scale(1/floats.Sum(kernel), kernel)

	tmp := make([]float64, len(x))
	for axis, n := range shape {
		if n <= 1 {
			continue
		}
		stride := 1
		for i := axis + 1; i < len(shape); i++ {
			stride *= shape[i]
		}
		for o := 0; o < len(x)/n; o++ {
			base := (o/stride)*stride*n + o%stride
			for j := 0; j < n; j++ {
				var acc float64
				for k := -radius; k <= radius; k++ {
					idx := ((j+k)%n + n) % n
					acc += kernel[k+radius] * out[base+idx*stride]
				}
				tmp[base+j*stride] = acc
			}
		}
		out, tmp = tmp, out
	}
	return out
}
