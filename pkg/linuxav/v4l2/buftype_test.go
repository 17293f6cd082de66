package v4l2

import (
	"errors"
	"testing"
)

func TestBufTypeName(t *testing.T) {
	expected := map[BufType]string{
		BufTypeVideoCapture:       "video capture",
		BufTypeVideoOutput:        "video output",
		BufTypeVideoOverlay:       "video overlay",
		BufTypeVBICapture:         "vbi capture",
		BufTypeVBIOutput:          "vbi output",
		BufTypeSlicedVBICapture:   "sliced vbi capture",
		BufTypeSlicedVBIOutput:    "sliced vbi output",
		BufTypeVideoOutputOverlay: "video output overlay",
		BufTypeVideoCaptureMPlane: "video capture mplane",
		BufTypeVideoOutputMPlane:  "video output mplane",
	}

	types := BufTypes()
	if len(types) != len(expected) {
		t.Fatalf("BufTypes() returned %d types, want %d", len(types), len(expected))
	}

	for _, bt := range types {
		name, err := bt.Name()
		if err != nil {
			t.Errorf("BufType(%d).Name() failed: %v", bt, err)
			continue
		}
		if name != expected[bt] {
			t.Errorf("BufType(%d).Name() = %q, want %q", bt, name, expected[bt])
		}
	}
}

func TestBufTypeUnsupported(t *testing.T) {
	for _, bt := range []BufType{0, 11, 13, 0xffffffff} {
		if _, err := bt.Name(); !errors.Is(err, ErrUnsupportedBufferType) {
			t.Errorf("BufType(%d).Name() error = %v, want ErrUnsupportedBufferType", bt, err)
		}
		if bt.Valid() {
			t.Errorf("BufType(%d).Valid() = true", bt)
		}
		if bt.Capability() != 0 {
			t.Errorf("BufType(%d).Capability() = 0x%08x, want 0", bt, uint32(bt.Capability()))
		}
	}
}

func TestBufTypeCapability(t *testing.T) {
	tests := []struct {
		bt     BufType
		cap    Capability
		output bool
	}{
		{BufTypeVideoCapture, CapVideoCapture, false},
		{BufTypeVideoOutput, CapVideoOutput, true},
		{BufTypeVideoCaptureMPlane, CapVideoCaptureMPlane, false},
		{BufTypeVideoOutputMPlane, CapVideoOutputMPlane, true},
		{BufTypeVideoOutputOverlay, CapVideoOutputOverlay, true},
		{BufTypeSlicedVBICapture, CapSlicedVBICapture, false},
	}

	for _, tt := range tests {
		t.Run(tt.bt.String(), func(t *testing.T) {
			if tt.bt.Capability() != tt.cap {
				t.Errorf("Capability() = 0x%08x, want 0x%08x", uint32(tt.bt.Capability()), uint32(tt.cap))
			}
			if tt.bt.IsOutput() != tt.output {
				t.Errorf("IsOutput() = %v, want %v", tt.bt.IsOutput(), tt.output)
			}
		})
	}
}

func TestParseBufType(t *testing.T) {
	tests := []struct {
		input    string
		expected BufType
		wantErr  bool
	}{
		{"capture", BufTypeVideoCapture, false},
		{"video capture", BufTypeVideoCapture, false},
		{"output-mplane", BufTypeVideoOutputMPlane, false},
		{"vbi-capture", BufTypeVBICapture, false},
		{"webcam", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseBufType(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedBufferType) {
					t.Errorf("ParseBufType(%q) error = %v, want ErrUnsupportedBufferType", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseBufType(%q) failed: %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("ParseBufType(%q) = %d, want %d", tt.input, got, tt.expected)
			}
		})
	}
}
