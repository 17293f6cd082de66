package devices

import "fmt"

// RegistryError is a registry failure with a stable code for API clients.
type RegistryError struct {
	Code    string
	Message string
	Cause   error
}

func (e *RegistryError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *RegistryError) Unwrap() error {
	return e.Cause
}

// Error codes.
const (
	ErrCodeDeviceNotFound     = "DEVICE_NOT_FOUND"
	ErrCodeEnumerationFailed  = "ENUMERATION_FAILED"
	ErrCodeProbeFailed        = "PROBE_FAILED"
	ErrCodeHotplugUnavailable = "HOTPLUG_UNAVAILABLE"
)

func newRegistryError(code, message string, cause error) *RegistryError {
	return &RegistryError{Code: code, Message: message, Cause: cause}
}

// IsNotFound reports whether err is a DEVICE_NOT_FOUND registry error.
func IsNotFound(err error) bool {
	re, ok := err.(*RegistryError)
	return ok && re.Code == ErrCodeDeviceNotFound
}
