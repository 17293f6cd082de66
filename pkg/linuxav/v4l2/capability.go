package v4l2

import (
	"fmt"
	"strings"
)

// Capability is a single V4L2_CAP_* bit, or a mask of them.
type Capability uint32

// Capability flags (linux/videodev2.h).
const (
	CapVideoCapture       Capability = 0x00000001
	CapVideoOutput        Capability = 0x00000002
	CapVideoOverlay       Capability = 0x00000004
	CapVBICapture         Capability = 0x00000010
	CapVBIOutput          Capability = 0x00000020
	CapSlicedVBICapture   Capability = 0x00000040
	CapSlicedVBIOutput    Capability = 0x00000080
	CapRDSCapture         Capability = 0x00000100
	CapVideoOutputOverlay Capability = 0x00000200
	CapHWFreqSeek         Capability = 0x00000400
	CapRDSOutput          Capability = 0x00000800
	CapVideoCaptureMPlane Capability = 0x00001000
	CapVideoOutputMPlane  Capability = 0x00002000
	CapTuner              Capability = 0x00010000
	CapAudio              Capability = 0x00020000
	CapRadio              Capability = 0x00040000
	CapModulator          Capability = 0x00080000
	CapReadWrite          Capability = 0x01000000
	CapAsyncIO            Capability = 0x02000000
	CapStreaming          Capability = 0x04000000

	// CapDeviceCaps means the device_caps field of VIDIOC_QUERYCAP is valid.
	CapDeviceCaps Capability = 0x80000000
)

type capabilityName struct {
	cap  Capability
	name string
}

// capabilityNames is ordered; String renders in this order.
var capabilityNames = []capabilityName{
	{CapVideoCapture, "video capture"},
	{CapVideoOutput, "video output"},
	{CapVideoOverlay, "video overlay"},
	{CapVBICapture, "vbi capture"},
	{CapVBIOutput, "vbi output"},
	{CapSlicedVBICapture, "sliced_vbi_capture"},
	{CapSlicedVBIOutput, "sliced_vbi_output"},
	{CapRDSCapture, "rds capture"},
	{CapVideoOutputOverlay, "video_output_overlay"},
	{CapHWFreqSeek, "hw_freq_seek"},
	{CapRDSOutput, "rds output"},
	{CapVideoCaptureMPlane, "video_capture_mplane"},
	{CapVideoOutputMPlane, "video_output_mplane"},
	{CapTuner, "tuner"},
	{CapAudio, "audio"},
	{CapRadio, "radio"},
	{CapModulator, "modulator"},
	{CapReadWrite, "readwrite"},
	{CapAsyncIO, "asyncio"},
	{CapStreaming, "streaming"},
}

// knownCapabilities is the OR of every named flag.
var knownCapabilities = func() Capability {
	var mask Capability
	for _, c := range capabilityNames {
		mask |= c.cap
	}
	return mask
}()

// Name returns the canonical name of a single capability bit.
func (c Capability) Name() (string, error) {
	for _, n := range capabilityNames {
		if n.cap == c {
			return n.name, nil
		}
	}
	return "", fmt.Errorf("%w: 0x%08x", ErrUnknownCapability, uint32(c))
}

// Capabilities returns the full table of named flags in rendering order.
func Capabilities() []Capability {
	caps := make([]Capability, len(capabilityNames))
	for i, n := range capabilityNames {
		caps[i] = n.cap
	}
	return caps
}

// CapabilitySet wraps the capability mask reported by VIDIOC_QUERYCAP.
type CapabilitySet uint32

// Compatible reports whether any bit of required is present. A partial match
// counts: a capture|output request is satisfied by a capture-only device.
func (s CapabilitySet) Compatible(required Capability) bool {
	return uint32(s)&uint32(required) != 0
}

// Has reports whether every bit of required is present.
func (s CapabilitySet) Has(required Capability) bool {
	return uint32(s)&uint32(required) == uint32(required)
}

// Names returns the names of the set bits in table order. It fails with
// ErrUnknownCapability when the mask carries a bit outside the table.
func (s CapabilitySet) Names() ([]string, error) {
	if unknown := s.Unknown(); unknown != 0 {
		return nil, fmt.Errorf("%w: 0x%08x", ErrUnknownCapability, uint32(unknown))
	}
	return s.Known(), nil
}

// Unknown returns the set bits that have no canonical name.
func (s CapabilitySet) Unknown() Capability {
	return Capability(s) &^ knownCapabilities
}

// Known returns the names of the recognised bits in table order, ignoring
// bits without a canonical name. The result is never nil.
func (s CapabilitySet) Known() []string {
	names := []string{}
	for _, n := range capabilityNames {
		if s.Compatible(n.cap) {
			names = append(names, n.name)
		}
	}
	return names
}

// String joins the names of the recognised bits with ", ". Unnamed bits such
// as CapDeviceCaps or V4L2_CAP_EXT_PIX_FORMAT are left out.
func (s CapabilitySet) String() string {
	return strings.Join(s.Known(), ", ")
}
