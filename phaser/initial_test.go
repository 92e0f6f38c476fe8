package phaser

import (
	"errors"
	"math"
	"testing"

	"golang.org/x/exp/rand"
)

func TestNewInitialStateValidatesShape(t *testing.T) {
	if _, err := NewInitialState(make([]float64, 10), []int{4, 4}, true); err == nil {
		t.Fatal("expected a shape error for a short amplitude array")
	} else {
		var se *ShapeError
		if !errors.As(err, &se) {
			t.Fatalf("got %T, want *ShapeError", err)
		}
	}

	if _, err := NewInitialState(nil, nil, true); !errors.Is(err, ErrEmptyGrid) {
		t.Fatalf("got %v, want ErrEmptyGrid", err)
	}
}

func TestSetSupportValidatesBeforeStoring(t *testing.T) {
	s, err := NewInitialState(make([]float64, 16), []int{4, 4}, true)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SetSupport(make([]bool, 3)); err == nil {
		t.Fatal("expected a shape error for a short support array")
	}
	if err := s.SetRho(make([]complex128, 17)); err == nil {
		t.Fatal("expected a shape error for a long density array")
	}

	// the failed setters must not have left anything behind
	snap, err := s.Finalize()
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Support()) != 16 || len(snap.Rho()) != 16 {
		t.Fatal("snapshot arrays have the wrong size")
	}
}

func TestDerivedSupportFromFlatAmplitudes(t *testing.T) {
	// constant amplitudes: the intensity autocorrelation is a single spike
	// at the origin, so the derived support is exactly one point, which the
	// centered accessor reports at the grid center.
	amps := make([]float64, 16)
	for i := range amps {
		amps[i] = 1
	}
	s, err := NewInitialState(amps, []int{4, 4}, true)
	if err != nil {
		t.Fatal(err)
	}
	snap, err := s.Finalize()
	if err != nil {
		t.Fatal(err)
	}

	support := snap.Support()
	center := 2*4 + 2
	for i, in := range support {
		if in != (i == center) {
			t.Errorf("centered support at %d = %v, want %v", i, in, i == center)
		}
	}
}

func TestDerivedSupportAllUnknownAmplitudes(t *testing.T) {
	amps := make([]float64, 16)
	for i := range amps {
		amps[i] = math.NaN()
	}
	s, err := NewInitialState(amps, []int{4, 4}, true)
	if err != nil {
		t.Fatal(err)
	}
	snap, err := s.Finalize()
	if err != nil {
		t.Fatal(err)
	}

	for i, in := range snap.Support() {
		if in {
			t.Errorf("point %d in support despite zero autocorrelation", i)
		}
	}
	for i, v := range snap.Rho() {
		if v != 0 {
			t.Errorf("density %d = %v, want 0 with an empty support", i, v)
		}
	}
}

func TestDerivedRhoConfinedToSupport(t *testing.T) {
	amps := make([]float64, 16)
	for i := range amps {
		amps[i] = float64(i%3) + 0.5
	}
	s, err := NewInitialState(amps, []int{4, 4}, true)
	if err != nil {
		t.Fatal(err)
	}
	support := make([]bool, 16)
	support[1] = true
	support[5] = true
	if err := s.SetSupport(support); err != nil {
		t.Fatal(err)
	}
	s.SetSource(rand.NewSource(11))

	snap, err := s.Finalize()
	if err != nil {
		t.Fatal(err)
	}

	// compare in native layout: shift the centered accessor output back
	rho := ToNative(snap.Rho(), []int{4, 4})
	for i, v := range rho {
		if !support[i] && v != 0 {
			t.Errorf("density %d = %v outside the support", i, v)
		}
		if support[i] && (real(v) < 0 || real(v) >= 1 || imag(v) != 0) {
			t.Errorf("density %d = %v, want a real U[0,1) draw", i, v)
		}
	}
}

func TestSeededRhoIsReproducible(t *testing.T) {
	build := func() []complex128 {
		amps := make([]float64, 16)
		for i := range amps {
			amps[i] = 1
		}
		s, err := NewInitialState(amps, []int{4, 4}, true)
		if err != nil {
			t.Fatal(err)
		}
		s.SetSource(rand.NewSource(42))
		snap, err := s.Finalize()
		if err != nil {
			t.Fatal(err)
		}
		return snap.Rho()
	}

	a, b := build(), build()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("density %d differs between equally seeded sessions", i)
		}
	}
}

func TestSnapshotAccessorsReturnCopies(t *testing.T) {
	amps := make([]float64, 16)
	for i := range amps {
		amps[i] = 1
	}
	s, err := NewInitialState(amps, []int{4, 4}, true)
	if err != nil {
		t.Fatal(err)
	}
	snap, err := s.Finalize()
	if err != nil {
		t.Fatal(err)
	}

	got := snap.Amplitudes()
	got[0] = -1
	if snap.Amplitudes()[0] == -1 {
		t.Error("mutating an accessor result leaked into the snapshot")
	}
	sup := snap.Support()
	sup[0] = !sup[0]
	if snap.Support()[0] == sup[0] {
		t.Error("mutating a support copy leaked into the snapshot")
	}
}

func TestCenteredInputsAreConverted(t *testing.T) {
	// a centered amplitude array must land in native layout internally:
	// round-tripping through the centered accessor is the identity
	amps := make([]float64, 16)
	for i := range amps {
		amps[i] = float64(i)
	}
	s, err := NewInitialState(amps, []int{4, 4}, false)
	if err != nil {
		t.Fatal(err)
	}
	snap, err := s.Finalize()
	if err != nil {
		t.Fatal(err)
	}

	got := snap.Amplitudes()
	for i := range amps {
		if got[i] != amps[i] {
			t.Fatalf("entry %d: got %v, want %v", i, got[i], amps[i])
		}
	}
}
