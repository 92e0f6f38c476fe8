package main

import (
	"encoding/binary"
	"flag"
	"image"
	"image/color"
	"image/png"
	"math/cmplx"
	"os"

	"github.com/charmbracelet/log"
	"github.com/x448/float16"
	"golang.org/x/exp/rand"

	"github.com/diffractive/phasego/backend"
	"github.com/diffractive/phasego/phaser"
)

func main() {
	size := flag.Int("size", 64, "grid edge length")
	cycles := flag.Int("cycles", 10, "HIO burst / shrink-wrap cycles")
	hio := flag.Int("hio", 20, "HIO steps per cycle")
	er := flag.Int("er", 40, "final ER polish steps")
	beta := flag.Float64("beta", 0.9, "HIO feedback strength")
	cutoff := flag.Float64("cutoff", 0.04, "shrink-wrap cutoff fraction")
	sigma := flag.Float64("sigma", 1, "shrink-wrap smoothing sigma")
	seed := flag.Uint64("seed", 1, "random seed")
	device := flag.String("device", "auto", "execution device: auto, cpu or gpu")
	out := flag.String("out", "reconstruction", "output file prefix")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})

	shape := []int{*size, *size}
	truth := phantom(shape, *seed)

	// magnitude-only measurement of the ground truth
	b := backend.NewCPU()
	amplitudes := b.Abs(b.FFTN(phaser.ToNative(truth, shape), shape))

	state, err := phaser.NewInitialState(amplitudes, shape, true)
	if err != nil {
		logger.Fatal("preparing initial state", "err", err)
	}
	state.SetSource(rand.NewSource(*seed))
	snap, err := state.Finalize()
	if err != nil {
		logger.Fatal("finalizing initial state", "err", err)
	}
	logger.Info("initial state ready", "grid", shape, "support", countTrue(snap.Support()))

	p, err := phaser.New(snap, phaser.Config{Device: *device, Monitor: true})
	if err != nil {
		logger.Fatal("opening backend", "err", err)
	}

	for c := 1; c <= *cycles; c++ {
		p.HIOLoop(*hio, *beta)
		p.ShrinkWrap(*cutoff, *sigma)
		logger.Info("cycle done", "cycle", c,
			"fourier_err", last(p.FourierErrs()),
			"support", countTrue(p.Support()))
	}
	p.ERLoop(*er)

	logger.Info("reconstruction finished",
		"steps", len(p.RealErrs()), "real_err", last(p.RealErrs()))

	mag := magnitudes(p.Rho())
	if err := dumpimage(*out+".png", mag, shape); err != nil {
		logger.Fatal("writing image", "err", err)
	}
	if err := dumpraw(*out+".f16", mag); err != nil {
		logger.Fatal("writing raw dump", "err", err)
	}
	logger.Info("wrote outputs", "png", *out+".png", "raw", *out+".f16")
}

// phantom returns a centered-layout ground truth: uniform random density on a
// disk support, zero elsewhere.
func phantom(shape []int, seed uint64) []complex128 {
	rng := rand.New(rand.NewSource(seed))
	h, w := shape[0], shape[1]
	radius := float64(h) / 6
	out := make([]complex128, h*w)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dy := float64(y - h/2)
			dx := float64(x - w/2)
			if dy*dy+dx*dx <= radius*radius {
				out[y*w+x] = complex(rng.Float64()+0.1, 0)
			}
		}
	}
	return out
}

func magnitudes(rho []complex128) []float64 {
	out := make([]float64, len(rho))
	for i, v := range rho {
		out[i] = cmplx.Abs(v)
	}
	return out
}

func last(trace []float64) float64 {
	if len(trace) == 0 {
		return 0
	}
	return trace[len(trace)-1]
}

func countTrue(mask []bool) int {
	n := 0
	for _, in := range mask {
		if in {
			n++
		}
	}
	return n
}

func dumpimage(name string, buf []float64, shape []int) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}

	h, w := shape[0], shape[1]
	img := image.NewGray(image.Rect(0, 0, w, h))

	var lo, hi = 9999999., -9999999.
	for _, v := range buf {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			val := (buf[y*w+x] - lo) / span
			img.SetGray(x, y, color.Gray{Y: uint8(255 * val)})
		}
	}

	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

func dumpraw(name string, buf []float64) error {
	raw := make([]byte, 2*len(buf))
	for i, v := range buf {
		binary.LittleEndian.PutUint16(raw[2*i:], float16.Fromfloat32(float32(v)).Bits())
	}
	return os.WriteFile(name, raw, 0644)
}
