package v4l2

import "fmt"

// Field is the v4l2_field order of interlaced lines.
type Field uint32

// Field orders.
const (
	FieldAny        Field = 0
	FieldNone       Field = 1
	FieldTop        Field = 2
	FieldBottom     Field = 3
	FieldInterlaced Field = 4
)

// PixFormat is the single-planar image format of a buffer type
// (struct v4l2_pix_format).
type PixFormat struct {
	Width        uint32
	Height       uint32
	FourCC       FourCC
	Field        Field
	BytesPerLine uint32
	SizeImage    uint32
	Colorspace   uint32
}

// Resolution returns the frame dimensions.
func (f PixFormat) Resolution() Resolution {
	return Resolution{Width: f.Width, Height: f.Height}
}

func (f PixFormat) String() string {
	return fmt.Sprintf("%dx%d %s (%d bytes/line, %d bytes/frame)", f.Width, f.Height, f.FourCC, f.BytesPerLine, f.SizeImage)
}

// singlePlanar reports whether t uses struct v4l2_pix_format.
func singlePlanar(t BufType) bool {
	return t == BufTypeVideoCapture || t == BufTypeVideoOutput
}
