package phaser

import (
	"github.com/diffractive/phasego/backend"
)

// Config selects the execution backend and toggles convergence monitoring.
type Config struct {
	// Device is "auto" (the default), "cpu" or "gpu".
	Device string
	// Monitor enables the per-iteration traces. It has no effect on the
	// reconstruction itself.
	Monitor bool
}

// Phaser is the iterative phasing engine. It owns its arrays for the whole
// session: amplitudes and their mask are fixed, the support is replaced by
// ShrinkWrap, and the density evolves with every ER or HIO call. Everything
// is kept in native layout; accessors convert back to centered.
//
// A Phaser is not safe for concurrent use.
type Phaser struct {
	b     backend.Backend
	shape []int

	amplitudes []float64
	ampMask    []bool
	nValues    int

	support []bool
	rho     []complex128
	zero    []complex128

	monitor      bool
	supportSizes []int
	fourierErrs  []float64
	realErrs     []float64
}

// New builds an engine from a finalized snapshot. The device selector is
// resolved against the backend registry exactly once; all session arrays
// live on the resolved backend afterwards.
func New(snap *Snapshot, cfg Config) (*Phaser, error) {
	b, err := backend.Open(cfg.Device)
	if err != nil {
		return nil, err
	}

	p := &Phaser{
		b:          b,
		shape:      append([]int(nil), snap.shape...),
		amplitudes: append([]float64(nil), snap.amplitudes...),
		support:    append([]bool(nil), snap.support...),
		rho:        append([]complex128(nil), snap.rho...),
		monitor:    cfg.Monitor,
	}
	p.zero = make([]complex128, len(p.rho))
	p.ampMask = b.Finite(p.amplitudes)
	for _, m := range p.ampMask {
		if m {
			p.nValues++
		}
	}
	return p, nil
}

// ER performs one Error-Reduction step: project onto the Fourier-magnitude
// constraint, then zero the density outside the support.
func (p *Phaser) ER() {
	rhoMod := p.project()
	p.rho = p.b.Select(p.support, rhoMod, p.zero)
}

// HIO performs one Hybrid-Input-Output step with damping beta. Inside the
// support it acts like ER; outside, the density becomes
// prior - beta*projected, which lets the iteration back out of stagnation
// that hard zeroing cannot escape. The operand order is load-bearing.
func (p *Phaser) HIO(beta float64) {
	rhoMod := p.project()
	p.rho = p.b.Select(p.support, rhoMod, p.b.SubScaled(p.rho, rhoMod, beta))
}

// ERLoop runs n ER steps back to back.
func (p *Phaser) ERLoop(n int) {
	for k := 0; k < n; k++ {
		p.ER()
	}
}

// HIOLoop runs n HIO steps back to back with a fixed beta.
func (p *Phaser) HIOLoop(n int, beta float64) {
	for k := 0; k < n; k++ {
		p.HIO(beta)
	}
}

// project applies the Fourier-magnitude constraint: at every measured mode
// the transformed density keeps its phase but takes the measured amplitude;
// unmeasured modes pass through untouched. Monitoring samples are taken
// around the transforms so the traces line up call for call.
func (p *Phaser) project() []complex128 {
	if p.monitor {
		p.monitorSupport()
	}
	rhoHat := p.b.FFTN(p.rho, p.shape)
	if p.monitor {
		p.monitorFourier(rhoHat)
	}
	phases := p.b.Phase(rhoHat)
	rhoHatMod := p.b.Select(p.ampMask, p.b.Polar(p.amplitudes, phases), rhoHat)
	rhoMod := p.b.IFFTN(rhoHatMod, p.shape)
	if p.monitor {
		p.monitorReal(rhoMod)
	}
	return rhoMod
}

// ShrinkWrap replaces the support with the region where the Gaussian-smoothed
// density magnitude reaches cutoff times the unsmoothed peak. Thresholding
// against the unsmoothed peak is intentional and matches established
// reconstructions.
func (p *Phaser) ShrinkWrap(cutoff, sigma float64) {
	rhoAbs := p.b.Abs(p.rho)
	smoothed := p.b.GaussianWrap(rhoAbs, p.shape, sigma)
	peak := p.b.Max(rhoAbs)
	support := make([]bool, len(smoothed))
	for i, v := range smoothed {
		support[i] = v >= cutoff*peak
	}
	p.support = support
}

func (p *Phaser) monitorSupport() {
	size := 0
	for _, in := range p.support {
		if in {
			size++
		}
	}
	p.supportSizes = append(p.supportSizes, size)
}

func (p *Phaser) monitorFourier(rhoHat []complex128) {
	mag := p.b.Abs(rhoHat)
	diffs := make([]float64, 0, p.nValues)
	for i, m := range p.ampMask {
		if m {
			diffs = append(diffs, mag[i]-p.amplitudes[i])
		}
	}
	dist := 0.0
	if p.nValues > 0 {
		dist = p.b.Norm2(diffs) / float64(p.nValues)
	}
	p.fourierErrs = append(p.fourierErrs, dist)
}

func (p *Phaser) monitorReal(rhoMod []complex128) {
	mag := p.b.Abs(rhoMod)
	outside := make([]float64, 0, len(mag))
	for i, in := range p.support {
		if !in {
			outside = append(outside, mag[i])
		}
	}
	p.realErrs = append(p.realErrs, p.b.Norm2(outside))
}

// Support returns the current support mask in centered layout.
func (p *Phaser) Support() []bool {
	return ToCentered(p.support, p.shape)
}

// Rho returns the current density estimate in centered layout.
func (p *Phaser) Rho() []complex128 {
	return ToCentered(p.rho, p.shape)
}

// SupportSizes returns the support-size trace, one entry per ER/HIO call
// while monitoring was enabled.
func (p *Phaser) SupportSizes() []int {
	return append([]int(nil), p.supportSizes...)
}

// FourierErrs returns the Fourier-residual trace: per call, the norm of the
// amplitude mismatch over measured modes, normalized by the measured count.
func (p *Phaser) FourierErrs() []float64 {
	return append([]float64(nil), p.fourierErrs...)
}

// RealErrs returns the real-residual trace: per call, the magnitude norm of
// the projected density outside the support in effect during that call.
func (p *Phaser) RealErrs() []float64 {
	return append([]float64(nil), p.realErrs...)
}
