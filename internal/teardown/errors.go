package teardown

import (
	"errors"
	"fmt"

	"recroute/internal/graph"
)

var (
	// ErrRequiredDeviceNotFound reports a required device with no matching links.
	ErrRequiredDeviceNotFound = errors.New("required device not found")
	// ErrDuplicateSlot reports two different ports competing for one slot.
	ErrDuplicateSlot = errors.New("duplicate slot assignment")
	// ErrTeardownFailed reports a disconnect the server refused.
	ErrTeardownFailed = errors.New("teardown failed")
)

// DeviceError names the required device that produced no captures.
type DeviceError struct {
	Device string
	Side   graph.Direction
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("required device %q not found on %s side", e.Device, e.Side)
}

func (e *DeviceError) Unwrap() error {
	return ErrRequiredDeviceNotFound
}
