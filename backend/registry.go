package backend

import (
	"errors"
	"fmt"
	"sync"
)

// Device selectors accepted by Open.
const (
	DeviceAuto = "auto"
	DeviceCPU  = "cpu"
	DeviceGPU  = "gpu"
)

var ErrUnknownDevice = errors.New("unknown device")
var ErrDeviceUnavailable = errors.New("no accelerated backend available")

// OpenFunc produces a ready accelerated backend.
type OpenFunc func() (Backend, error)

var registry struct {
	mu    sync.RWMutex
	accel OpenFunc
}

// Register installs an accelerated backend provider, consulted by Open for
// the "gpu" and "auto" selectors. Passing nil removes a previously installed
// provider. At most one provider is active at a time, mirroring the single
// accelerator slot of a session.
func Register(open OpenFunc) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.accel = open
}

// Accelerated reports whether an accelerated backend provider is installed.
func Accelerated() bool {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	return registry.accel != nil
}

// Open resolves a device selector to a backend. The empty string means
// "auto". Resolution happens once per session, at engine construction.
func Open(device string) (Backend, error) {
	registry.mu.RLock()
	accel := registry.accel
	registry.mu.RUnlock()

	switch device {
	case "", DeviceAuto:
		if accel != nil {
			return accel()
		}
		return NewCPU(), nil
	case DeviceCPU:
		return NewCPU(), nil
	case DeviceGPU:
		if accel == nil {
			return nil, ErrDeviceUnavailable
		}
		return accel()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDevice, device)
	}
}
