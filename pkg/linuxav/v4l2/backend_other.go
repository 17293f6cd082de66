//go:build !linux

package v4l2

type unsupportedBackend struct{}

// DefaultBackend returns a backend that fails with ErrUnsupportedPlatform.
func DefaultBackend() Backend {
	return unsupportedBackend{}
}

func (unsupportedBackend) Open(string) (Handle, error) {
	return nil, ErrUnsupportedPlatform
}

// FindDevices is not available outside Linux.
func FindDevices() ([]DeviceInfo, error) {
	return nil, ErrUnsupportedPlatform
}
