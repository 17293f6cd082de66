package v4l2

import (
	"fmt"
	"strconv"
	"strings"
)

// FrameSizeKind is the reporting mode of a frame size (v4l2_frmsizetypes).
type FrameSizeKind uint32

// Frame size kinds.
const (
	FrameSizeDiscrete   FrameSizeKind = 1
	FrameSizeContinuous FrameSizeKind = 2
	FrameSizeStepwise   FrameSizeKind = 3
)

func (k FrameSizeKind) String() string {
	switch k {
	case FrameSizeDiscrete:
		return "discrete"
	case FrameSizeContinuous:
		return "continuous"
	case FrameSizeStepwise:
		return "stepwise"
	default:
		return fmt.Sprintf("frame size kind %d", uint32(k))
	}
}

// Resolution is a width and height in pixels.
type Resolution struct {
	Width  uint32
	Height uint32
}

func (r Resolution) String() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// ParseResolution parses WIDTHxHEIGHT; the separator may be x or X.
func ParseResolution(s string) (Resolution, error) {
	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return Resolution{}, fmt.Errorf("size %q is not WIDTHxHEIGHT", s)
	}
	width, err := strconv.ParseUint(w, 10, 32)
	if err != nil {
		return Resolution{}, fmt.Errorf("invalid width in %q: %w", s, err)
	}
	height, err := strconv.ParseUint(h, 10, 32)
	if err != nil {
		return Resolution{}, fmt.Errorf("invalid height in %q: %w", s, err)
	}
	return Resolution{Width: uint32(width), Height: uint32(height)}, nil
}

// FrameSize is one frame size advertised for a pixel format. Its kind is
// fixed by the constructor that built it.
type FrameSize struct {
	kind FrameSizeKind
	min  Resolution
	max  Resolution
	step Resolution
}

// DiscreteFrameSize builds a single fixed size.
func DiscreteFrameSize(width, height uint32) FrameSize {
	r := Resolution{Width: width, Height: height}
	return FrameSize{kind: FrameSizeDiscrete, min: r, max: r}
}

// StepwiseFrameSize builds a grid of sizes from min to max in steps.
func StepwiseFrameSize(minWidth, minHeight, maxWidth, maxHeight, stepWidth, stepHeight uint32) FrameSize {
	return FrameSize{
		kind: FrameSizeStepwise,
		min:  Resolution{Width: minWidth, Height: minHeight},
		max:  Resolution{Width: maxWidth, Height: maxHeight},
		step: Resolution{Width: stepWidth, Height: stepHeight},
	}
}

// ContinuousFrameSize builds a range where every size from min to max is
// allowed. The step is always 1x1.
func ContinuousFrameSize(minWidth, minHeight, maxWidth, maxHeight uint32) FrameSize {
	return FrameSize{
		kind: FrameSizeContinuous,
		min:  Resolution{Width: minWidth, Height: minHeight},
		max:  Resolution{Width: maxWidth, Height: maxHeight},
		step: Resolution{Width: 1, Height: 1},
	}
}

// Kind returns the reporting mode.
func (f FrameSize) Kind() FrameSizeKind { return f.kind }

// Min returns the smallest size. For discrete sizes it is the size itself.
func (f FrameSize) Min() Resolution { return f.min }

// Max returns the largest size. For discrete sizes it is the size itself.
func (f FrameSize) Max() Resolution { return f.max }

// Step returns the grid increment; zero for discrete sizes.
func (f FrameSize) Step() Resolution { return f.step }

// Contains reports whether width x height is a legal size.
func (f FrameSize) Contains(width, height uint32) bool {
	if f.kind == FrameSizeDiscrete {
		return width == f.min.Width && height == f.min.Height
	}
	return onGrid(width, f.min.Width, f.max.Width, f.step.Width) &&
		onGrid(height, f.min.Height, f.max.Height, f.step.Height)
}

func onGrid(v, lo, hi, step uint32) bool {
	if v < lo || v > hi {
		return false
	}
	if step <= 1 {
		return true
	}
	return (v-lo)%step == 0
}

func (f FrameSize) String() string {
	switch f.kind {
	case FrameSizeDiscrete:
		return f.min.String()
	case FrameSizeStepwise:
		return fmt.Sprintf("%s - %s [%s]", f.min, f.max, f.step)
	default:
		return fmt.Sprintf("%s - %s", f.min, f.max)
	}
}

// commonResolutions are offered for stepwise and continuous ranges.
var commonResolutions = []Resolution{
	{320, 240},  // QVGA
	{640, 480},  // VGA
	{800, 600},  // SVGA
	{1024, 768}, // XGA
	{1280, 720}, // HD
	{1280, 960},
	{1280, 1024}, // SXGA
	{1920, 1080}, // Full HD
	{1920, 1200}, // WUXGA
	{2560, 1440}, // QHD
	{3840, 2160}, // 4K UHD
	{4096, 2160}, // 4K DCI
}

// FrameSizes is the set of frame sizes a device supports for one format.
type FrameSizes struct {
	fourcc FourCC
	sizes  []FrameSize
}

// NewFrameSizes groups the sizes reported for fourcc. When the first size is
// discrete every entry is kept; otherwise the device describes a single range
// and only the first entry is used. An empty list fails with ErrInvalidFormat.
func NewFrameSizes(fourcc FourCC, sizes []FrameSize) (*FrameSizes, error) {
	if len(sizes) == 0 {
		return nil, fmt.Errorf("%w: %s reports no frame sizes", ErrInvalidFormat, fourcc)
	}

	fs := &FrameSizes{fourcc: fourcc}
	if sizes[0].kind == FrameSizeDiscrete {
		fs.sizes = append([]FrameSize(nil), sizes...)
	} else {
		fs.sizes = []FrameSize{sizes[0]}
	}
	return fs, nil
}

// FourCC returns the pixel format the sizes belong to.
func (f *FrameSizes) FourCC() FourCC { return f.fourcc }

// Sizes returns a copy of the frame sizes.
func (f *FrameSizes) Sizes() []FrameSize {
	return append([]FrameSize(nil), f.sizes...)
}

// Supports reports whether any frame size admits width x height.
func (f *FrameSizes) Supports(width, height uint32) bool {
	for _, s := range f.sizes {
		if s.Contains(width, height) {
			return true
		}
	}
	return false
}

// Resolutions lists concrete sizes: every discrete size, or the common
// resolutions that fall on a stepwise/continuous grid.
func (f *FrameSizes) Resolutions() []Resolution {
	var out []Resolution
	for _, s := range f.sizes {
		if s.kind == FrameSizeDiscrete {
			out = append(out, s.min)
			continue
		}
		for _, r := range commonResolutions {
			if s.Contains(r.Width, r.Height) {
				out = append(out, r)
			}
		}
	}
	return out
}

func (f *FrameSizes) String() string {
	parts := make([]string, len(f.sizes))
	for i, s := range f.sizes {
		parts[i] = s.String()
	}
	return fmt.Sprintf("%s: [%s]", f.fourcc, strings.Join(parts, ", "))
}
