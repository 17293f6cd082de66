package v4l2

import "fmt"

// FourCC is a pixel format code packed little-endian into 32 bits.
type FourCC uint32

// Common pixel formats.
const (
	PixFmtYUYV  FourCC = 0x56595559 // 'YUYV'
	PixFmtMJPEG FourCC = 0x47504A4D // 'MJPG'
	PixFmtH264  FourCC = 0x34363248 // 'H264'
	PixFmtHEVC  FourCC = 0x43564548 // 'HEVC'
	PixFmtNV12  FourCC = 0x3231564E // 'NV12'
	PixFmtYV12  FourCC = 0x32315659 // 'YV12'
	PixFmtYU12  FourCC = 0x32315559 // 'YU12'
	PixFmtRGB24 FourCC = 0x33424752 // 'RGB3'
	PixFmtBGR24 FourCC = 0x33524742 // 'BGR3'
)

// NewFourCC builds a code from its four characters.
func NewFourCC(a, b, c, d byte) FourCC {
	return FourCC(uint32(a) | uint32(b)<<8 | uint32(c)<<16 | uint32(d)<<24)
}

// ParseFourCC packs a four byte string such as "YUYV".
func ParseFourCC(s string) (FourCC, error) {
	if len(s) != 4 {
		return 0, fmt.Errorf("fourcc %q: want 4 bytes, got %d", s, len(s))
	}
	return NewFourCC(s[0], s[1], s[2], s[3]), nil
}

// String returns the four raw bytes, least significant first. Codes that are
// not printable come back as-is.
func (f FourCC) String() string {
	b := [4]byte{
		byte(f),
		byte(f >> 8),
		byte(f >> 16),
		byte(f >> 24),
	}
	return string(b[:])
}

// FormatFourCC converts a raw pixel format to its four character string.
func FormatFourCC(format uint32) string {
	return FourCC(format).String()
}
