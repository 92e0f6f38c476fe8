package backend

import (
	"errors"
	"testing"
)

type namedCPU struct {
	*CPU
	name string
}

func (n *namedCPU) Name() string { return n.name }

func TestOpenUnknownDevice(t *testing.T) {
	if _, err := Open("tpu"); !errors.Is(err, ErrUnknownDevice) {
		t.Fatalf("got %v, want ErrUnknownDevice", err)
	}
}

func TestOpenGPUWithoutProvider(t *testing.T) {
	Register(nil)
	if _, err := Open(DeviceGPU); !errors.Is(err, ErrDeviceUnavailable) {
		t.Fatalf("got %v, want ErrDeviceUnavailable", err)
	}
}

func TestOpenResolvesRegisteredProvider(t *testing.T) {
	Register(func() (Backend, error) {
		return &namedCPU{CPU: NewCPU(), name: "accel"}, nil
	})
	t.Cleanup(func() { Register(nil) })

	if !Accelerated() {
		t.Fatal("Accelerated() should report the registered provider")
	}

	b, err := Open(DeviceGPU)
	if err != nil {
		t.Fatalf("Open(gpu): %v", err)
	}
	if b.Name() != "accel" {
		t.Errorf("Open(gpu) resolved %q, want the registered provider", b.Name())
	}

	// auto prefers the accelerated backend when one is present
	b, err = Open(DeviceAuto)
	if err != nil {
		t.Fatalf("Open(auto): %v", err)
	}
	if b.Name() != "accel" {
		t.Errorf("Open(auto) resolved %q, want the registered provider", b.Name())
	}
}

func TestOpenAutoFallsBackToCPU(t *testing.T) {
	Register(nil)

	for _, device := range []string{"", DeviceAuto, DeviceCPU} {
		b, err := Open(device)
		if err != nil {
			t.Fatalf("Open(%q): %v", device, err)
		}
		if b.Name() != "cpu" {
			t.Errorf("Open(%q) resolved %q, want cpu", device, b.Name())
		}
	}
}
