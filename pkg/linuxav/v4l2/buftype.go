package v4l2

import "fmt"

// BufType is the role of a stream (V4L2 enum v4l2_buf_type).
type BufType uint32

// Buffer types.
const (
	BufTypeVideoCapture       BufType = 1
	BufTypeVideoOutput        BufType = 2
	BufTypeVideoOverlay       BufType = 3
	BufTypeVBICapture         BufType = 4
	BufTypeVBIOutput          BufType = 5
	BufTypeSlicedVBICapture   BufType = 6
	BufTypeSlicedVBIOutput    BufType = 7
	BufTypeVideoOutputOverlay BufType = 8
	BufTypeVideoCaptureMPlane BufType = 9
	BufTypeVideoOutputMPlane  BufType = 10
)

type bufTypeInfo struct {
	name   string
	key    string
	cap    Capability
	output bool
}

var bufTypes = map[BufType]bufTypeInfo{
	BufTypeVideoCapture:       {"video capture", "capture", CapVideoCapture, false},
	BufTypeVideoOutput:        {"video output", "output", CapVideoOutput, true},
	BufTypeVideoOverlay:       {"video overlay", "overlay", CapVideoOverlay, false},
	BufTypeVBICapture:         {"vbi capture", "vbi-capture", CapVBICapture, false},
	BufTypeVBIOutput:          {"vbi output", "vbi-output", CapVBIOutput, true},
	BufTypeSlicedVBICapture:   {"sliced vbi capture", "sliced-vbi-capture", CapSlicedVBICapture, false},
	BufTypeSlicedVBIOutput:    {"sliced vbi output", "sliced-vbi-output", CapSlicedVBIOutput, true},
	BufTypeVideoOutputOverlay: {"video output overlay", "output-overlay", CapVideoOutputOverlay, true},
	BufTypeVideoCaptureMPlane: {"video capture mplane", "capture-mplane", CapVideoCaptureMPlane, false},
	BufTypeVideoOutputMPlane:  {"video output mplane", "output-mplane", CapVideoOutputMPlane, true},
}

// BufTypes returns every known buffer type in numeric order.
func BufTypes() []BufType {
	types := make([]BufType, 0, len(bufTypes))
	for t := BufTypeVideoCapture; t <= BufTypeVideoOutputMPlane; t++ {
		types = append(types, t)
	}
	return types
}

// Name returns the canonical name, e.g. "video capture".
func (t BufType) Name() (string, error) {
	info, ok := bufTypes[t]
	if !ok {
		return "", fmt.Errorf("%w: %d", ErrUnsupportedBufferType, uint32(t))
	}
	return info.name, nil
}

// Key returns the short command-line spelling, e.g. "capture-mplane".
func (t BufType) Key() string {
	return bufTypes[t].key
}

// Capability returns the capability bit a device must advertise to serve
// streams of this type, or zero for unknown types.
func (t BufType) Capability() Capability {
	return bufTypes[t].cap
}

// IsOutput reports whether the application produces buffers for this type.
func (t BufType) IsOutput() bool {
	return bufTypes[t].output
}

// Valid reports whether t is one of the known buffer types.
func (t BufType) Valid() bool {
	_, ok := bufTypes[t]
	return ok
}

func (t BufType) String() string {
	name, err := t.Name()
	if err != nil {
		return fmt.Sprintf("buffer type %d", uint32(t))
	}
	return name
}

// ParseBufType accepts either the short key ("capture") or the canonical
// name ("video capture").
func ParseBufType(s string) (BufType, error) {
	for t, info := range bufTypes {
		if s == info.key || s == info.name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedBufferType, s)
}
