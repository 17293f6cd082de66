//go:build linux

package v4l2

import (
	"errors"
	"unsafe"

	"golang.org/x/sys/unix"
)

// ioctl issues req on fd, retrying when a signal interrupts the call.
func ioctl(fd int, req uint, arg unsafe.Pointer) error {
	for {
		_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), uintptr(req), uintptr(arg))
		if errno == 0 {
			return nil
		}
		if errors.Is(errno, unix.EINTR) {
			continue
		}
		return errno
	}
}

// open opens a device node without blocking on dequeue.
func open(path string) (int, error) {
	return unix.Open(path, unix.O_RDWR|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
}

func close(fd int) error {
	return unix.Close(fd)
}

// isCharDevice reports whether fd refers to a character device.
func isCharDevice(fd int) (bool, error) {
	var st unix.Stat_t
	if err := unix.Fstat(fd, &st); err != nil {
		return false, err
	}
	return st.Mode&unix.S_IFMT == unix.S_IFCHR, nil
}

// endOfEnum reports whether an enumeration ioctl ran past its last index.
func endOfEnum(err error) bool {
	return errors.Is(err, unix.EINVAL)
}

// notSupported reports whether the driver does not implement an ioctl.
func notSupported(err error) bool {
	return errors.Is(err, unix.ENOTTY)
}
