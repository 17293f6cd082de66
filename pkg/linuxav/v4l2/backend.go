package v4l2

import "fmt"

// Backend opens device nodes. The default backend talks to the kernel with
// ioctls; tests substitute their own.
type Backend interface {
	Open(path string) (Handle, error)
}

// Handle is an open device node. Enumeration calls return an empty list, not
// an error, when the driver does not implement the query.
type Handle interface {
	Info() (RawInfo, error)
	Formats() ([]FormatRecord, error)
	FrameSizes(fourcc FourCC) ([]FrameSize, error)
	FrameIntervals(fourcc FourCC, width, height uint32) ([]FrameInterval, error)
	StreamParm(t BufType) (StreamParm, error)
	SetStreamParm(p StreamParm) (StreamParm, error)
	Controls() ([]ControlInfo, error)
	Control(id ControlID) (int32, error)
	SetControl(id ControlID, value int32) (int32, error)
	Format(t BufType) (PixFormat, error)
	SetFormat(t BufType, f PixFormat) (PixFormat, error)
	Close() error
}

// RawInfo is the result of VIDIOC_QUERYCAP.
type RawInfo struct {
	Driver       string
	Card         string
	BusInfo      string
	Version      uint32
	Capabilities uint32
	DeviceCaps   uint32
}

// Effective returns the capabilities of this device node: device_caps when
// the driver fills it, otherwise the physical device capabilities.
func (i RawInfo) Effective() CapabilitySet {
	if Capability(i.Capabilities)&CapDeviceCaps != 0 {
		return CapabilitySet(i.DeviceCaps)
	}
	return CapabilitySet(i.Capabilities)
}

// KernelVersion formats the version field as major.minor.patch.
func (i RawInfo) KernelVersion() string {
	return fmt.Sprintf("%d.%d.%d", i.Version>>16, (i.Version>>8)&0xff, i.Version&0xff)
}
