package v4l2

import (
	"errors"
	"testing"
)

func TestFrameSizeString(t *testing.T) {
	tests := []struct {
		name     string
		size     FrameSize
		expected string
	}{
		{"discrete", DiscreteFrameSize(640, 480), "640x480"},
		{"stepwise", StepwiseFrameSize(16, 16, 1920, 1080, 8, 8), "16x16 - 1920x1080 [8x8]"},
		{"continuous", ContinuousFrameSize(1, 1, 4096, 2160), "1x1 - 4096x2160"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.size.String(); got != tt.expected {
				t.Errorf("String() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestFrameSizeVariants(t *testing.T) {
	d := DiscreteFrameSize(1280, 720)
	if d.Kind() != FrameSizeDiscrete {
		t.Errorf("discrete Kind() = %v", d.Kind())
	}
	if d.Min() != d.Max() {
		t.Errorf("discrete min %v != max %v", d.Min(), d.Max())
	}

	c := ContinuousFrameSize(8, 8, 640, 480)
	if c.Step() != (Resolution{Width: 1, Height: 1}) {
		t.Errorf("continuous Step() = %v, want 1x1", c.Step())
	}
	if !c.Contains(333, 111) {
		t.Error("continuous range should contain any size within bounds")
	}
	if c.Contains(641, 480) {
		t.Error("continuous range should reject sizes above max")
	}
}

func TestFrameSizeContains(t *testing.T) {
	s := StepwiseFrameSize(16, 16, 1920, 1080, 8, 8)
	tests := []struct {
		w, h     uint32
		expected bool
	}{
		{16, 16, true},
		{640, 480, true},
		{1920, 1080, true},
		{641, 480, false},
		{8, 8, false},
		{1928, 1080, false},
	}

	for _, tt := range tests {
		if got := s.Contains(tt.w, tt.h); got != tt.expected {
			t.Errorf("Contains(%d, %d) = %v, want %v", tt.w, tt.h, got, tt.expected)
		}
	}
}

func TestNewFrameSizes(t *testing.T) {
	t.Run("empty list is invalid", func(t *testing.T) {
		_, err := NewFrameSizes(PixFmtYUYV, nil)
		if !errors.Is(err, ErrInvalidFormat) {
			t.Errorf("error = %v, want ErrInvalidFormat", err)
		}
	})

	t.Run("discrete keeps every entry", func(t *testing.T) {
		fs, err := NewFrameSizes(PixFmtYUYV, []FrameSize{
			DiscreteFrameSize(640, 480),
			DiscreteFrameSize(320, 240),
		})
		if err != nil {
			t.Fatalf("NewFrameSizes failed: %v", err)
		}
		if got := fs.String(); got != "YUYV: [640x480, 320x240]" {
			t.Errorf("String() = %q", got)
		}
		if !fs.Supports(320, 240) || fs.Supports(800, 600) {
			t.Error("Supports does not match discrete entries")
		}
	})

	t.Run("stepwise keeps first entry only", func(t *testing.T) {
		fs, err := NewFrameSizes(PixFmtNV12, []FrameSize{
			StepwiseFrameSize(16, 16, 1920, 1080, 8, 8),
			StepwiseFrameSize(32, 32, 64, 64, 2, 2),
		})
		if err != nil {
			t.Fatalf("NewFrameSizes failed: %v", err)
		}
		if len(fs.Sizes()) != 1 {
			t.Fatalf("expected 1 size, got %d", len(fs.Sizes()))
		}
		if fs.FourCC() != PixFmtNV12 {
			t.Errorf("FourCC() = %s", fs.FourCC())
		}
	})

	t.Run("sizes are copied", func(t *testing.T) {
		fs, _ := NewFrameSizes(PixFmtYUYV, []FrameSize{DiscreteFrameSize(640, 480)})
		sizes := fs.Sizes()
		sizes[0] = DiscreteFrameSize(1, 1)
		if fs.Sizes()[0].Min().Width != 640 {
			t.Error("mutating Sizes() result changed the frame sizes")
		}
	})
}

func TestFrameSizesResolutions(t *testing.T) {
	fs, err := NewFrameSizes(PixFmtNV12, []FrameSize{StepwiseFrameSize(16, 16, 1920, 1080, 8, 8)})
	if err != nil {
		t.Fatalf("NewFrameSizes failed: %v", err)
	}

	res := fs.Resolutions()
	if len(res) != 8 {
		t.Fatalf("expected 8 common resolutions within range, got %d: %v", len(res), res)
	}
	for _, r := range res {
		if r.Width > 1920 || r.Height > 1080 {
			t.Errorf("resolution %s exceeds max", r)
		}
	}
}

func TestFrameIntervalString(t *testing.T) {
	d := DiscreteFrameInterval(Fract{1, 30})
	if got := d.String(); got != "1/30 s (30.000 fps)" {
		t.Errorf("discrete String() = %q", got)
	}
	if d.Kind() != FrameSizeDiscrete || d.Min() != d.Max() {
		t.Errorf("unexpected discrete interval %+v", d)
	}

	s := StepwiseFrameInterval(Fract{1, 60}, Fract{1, 1}, Fract{1, 60})
	if got := s.String(); got != "1/60 - 1/1 s [1/60] (1.000 - 60.000 fps)" {
		t.Errorf("stepwise String() = %q", got)
	}

	c := ContinuousFrameInterval(Fract{1, 120}, Fract{1, 5})
	if c.Step() != (Fract{1, 1}) {
		t.Errorf("continuous Step() = %v", c.Step())
	}
}

func TestParseResolution(t *testing.T) {
	tests := []struct {
		in      string
		want    Resolution
		wantErr bool
	}{
		{in: "640x480", want: Resolution{640, 480}},
		{in: "1920X1080", want: Resolution{1920, 1080}},
		{in: "640", wantErr: true},
		{in: "x480", wantErr: true},
		{in: "640x-1", wantErr: true},
		{in: "640x480x2", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseResolution(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseResolution(%q) error = %v", tt.in, err)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseResolution(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
