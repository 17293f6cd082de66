package v4l2

import (
	"errors"
	"fmt"
)

var (
	// ErrDeviceOpen is returned when a device path cannot be opened or queried.
	ErrDeviceOpen = errors.New("cannot open video device")

	// ErrDeviceNotCapable is returned when a device lacks the capability for
	// the requested buffer type.
	ErrDeviceNotCapable = errors.New("device does not support buffer type")

	// ErrUnknownCapability is returned by capability name lookups for bits
	// outside the canonical table.
	ErrUnknownCapability = errors.New("unknown capability")

	// ErrUnsupportedBufferType is returned for buffer types outside the ten
	// defined by V4L2.
	ErrUnsupportedBufferType = errors.New("unsupported buffer type")

	// ErrInvalidFormat is returned when a format has no frame sizes.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrUnsupportedPlatform is returned by the default backend outside Linux.
	ErrUnsupportedPlatform = errors.New("v4l2 is only available on linux")

	// ErrDeviceClosed is returned by live queries on a closed device.
	ErrDeviceClosed = errors.New("device is closed")

	// ErrUnknownControl is returned for control names that do not parse and
	// for controls the device does not expose.
	ErrUnknownControl = errors.New("unknown control")

	// ErrControlValue is returned when a value is outside a control's range
	// or the control cannot be written.
	ErrControlValue = errors.New("invalid control value")
)

// DeviceError records the device and operation that failed.
type DeviceError struct {
	Path string
	Op   string
	Err  error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *DeviceError) Unwrap() error {
	return e.Err
}

// deviceErr wraps err and tags it with kind so that errors.Is matches both.
func deviceErr(path, op string, kind, err error) error {
	if err == nil {
		return &DeviceError{Path: path, Op: op, Err: kind}
	}
	return &DeviceError{Path: path, Op: op, Err: fmt.Errorf("%w: %w", kind, err)}
}
