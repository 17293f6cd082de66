package v4l2

import (
	"errors"
	"testing"
)

func TestStreamParmDefaults(t *testing.T) {
	p := NewCaptureParm(BufTypeVideoCapture)

	capture, ok := p.Capture()
	if !ok {
		t.Fatal("Capture() should succeed for capture parameters")
	}
	if capture.TimePerFrame != (Fract{1, 30}) {
		t.Errorf("TimePerFrame = %s, want 1/30", capture.TimePerFrame)
	}
	if p.HasCustomTiming() {
		t.Error("default parameters should not carry the timeperframe capability")
	}
	if _, ok := p.Output(); ok {
		t.Error("Output() should fail for capture parameters")
	}
}

func TestStreamParmCustomTiming(t *testing.T) {
	p := NewCaptureParm(BufTypeVideoCapture, WithTimePerFrame(Fract{1, 60}), WithMode(ModeHighQuality))

	if !p.HasCustomTiming() {
		t.Error("explicit time per frame should set the timeperframe capability")
	}
	parm := p.Parm()
	if parm.TimePerFrame.FPS() != 60 {
		t.Errorf("FPS = %v, want 60", parm.TimePerFrame.FPS())
	}
	if parm.Mode != ModeHighQuality {
		t.Errorf("Mode = %d, want high quality", parm.Mode)
	}
}

func TestNewStreamParmDirection(t *testing.T) {
	tests := []struct {
		bt     BufType
		output bool
	}{
		{BufTypeVideoCapture, false},
		{BufTypeVideoCaptureMPlane, false},
		{BufTypeVideoOutput, true},
		{BufTypeVBIOutput, true},
	}

	for _, tt := range tests {
		t.Run(tt.bt.String(), func(t *testing.T) {
			p := NewStreamParm(tt.bt, WithBuffers(4))
			if p.IsOutput() != tt.output {
				t.Errorf("IsOutput() = %v, want %v", p.IsOutput(), tt.output)
			}
			if p.Type() != tt.bt {
				t.Errorf("Type() = %v, want %v", p.Type(), tt.bt)
			}
			if p.Parm().Buffers != 4 {
				t.Errorf("Buffers = %d, want 4", p.Parm().Buffers)
			}
		})
	}
}

func TestStreamParmTypeName(t *testing.T) {
	name, err := NewOutputParm(BufTypeVideoOutput).TypeName()
	if err != nil || name != "video output" {
		t.Errorf("TypeName() = %q, %v", name, err)
	}

	if _, err := NewCaptureParm(BufType(99)).TypeName(); !errors.Is(err, ErrUnsupportedBufferType) {
		t.Errorf("TypeName() error = %v, want ErrUnsupportedBufferType", err)
	}
}

func TestFract(t *testing.T) {
	f := Fract{Numerator: 1001, Denominator: 30000}
	if fps := f.FPS(); fps < 29.97 || fps > 29.98 {
		t.Errorf("FPS() = %v, want ~29.97", fps)
	}
	if (Fract{}).FPS() != 0 || (Fract{}).Seconds() != 0 {
		t.Error("zero fraction should report zero")
	}
	if f.String() != "1001/30000" {
		t.Errorf("String() = %q", f.String())
	}
}
