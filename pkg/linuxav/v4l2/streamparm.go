package v4l2

import "fmt"

// Fract is a rational number, used for time per frame.
type Fract struct {
	Numerator   uint32
	Denominator uint32
}

// DefaultTimePerFrame returns 1/30 s, the interval used when none is given.
func DefaultTimePerFrame() Fract {
	return Fract{Numerator: 1, Denominator: 30}
}

// FPS returns the frame rate for a time-per-frame value.
func (f Fract) FPS() float64 {
	if f.Numerator == 0 {
		return 0
	}
	return float64(f.Denominator) / float64(f.Numerator)
}

// Seconds returns the interval in seconds.
func (f Fract) Seconds() float64 {
	if f.Denominator == 0 {
		return 0
	}
	return float64(f.Numerator) / float64(f.Denominator)
}

func (f Fract) String() string {
	return fmt.Sprintf("%d/%d", f.Numerator, f.Denominator)
}

// StreamCapability is a V4L2_CAP_* flag of struct v4l2_captureparm/outputparm.
type StreamCapability uint32

// ParmCapTimePerFrame means the driver honours a custom time per frame.
const ParmCapTimePerFrame StreamCapability = 0x1000

// StreamMode is the capturemode/outputmode field.
type StreamMode uint32

// Stream modes.
const (
	ModeDefault     StreamMode = 0
	ModeHighQuality StreamMode = 0x0001
)

// Parm is the mode specific parameter block. Buffers is readbuffers for
// capture streams and writebuffers for output streams.
type Parm struct {
	Capability   StreamCapability
	Mode         StreamMode
	TimePerFrame Fract
	ExtendedMode uint32
	Buffers      uint32
}

// ParmOption configures a Parm.
type ParmOption func(*Parm)

// WithTimePerFrame sets a custom interval and marks it with
// ParmCapTimePerFrame.
func WithTimePerFrame(tpf Fract) ParmOption {
	return func(p *Parm) {
		p.TimePerFrame = tpf
		p.Capability |= ParmCapTimePerFrame
	}
}

// WithFrameRate sets the time per frame to 1/fps.
func WithFrameRate(fps uint32) ParmOption {
	return WithTimePerFrame(Fract{Numerator: 1, Denominator: fps})
}

// WithMode sets the capture or output mode.
func WithMode(m StreamMode) ParmOption {
	return func(p *Parm) { p.Mode = m }
}

// WithExtendedMode sets the driver specific extended mode.
func WithExtendedMode(mode uint32) ParmOption {
	return func(p *Parm) { p.ExtendedMode = mode }
}

// WithBuffers sets the read/write buffer count hint.
func WithBuffers(n uint32) ParmOption {
	return func(p *Parm) { p.Buffers = n }
}

func newParm(opts []ParmOption) Parm {
	p := Parm{TimePerFrame: DefaultTimePerFrame()}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// StreamParm binds a buffer type to its capture or output parameters.
type StreamParm struct {
	typ    BufType
	output bool
	parm   Parm
}

// NewCaptureParm builds capture parameters for t.
func NewCaptureParm(t BufType, opts ...ParmOption) StreamParm {
	return StreamParm{typ: t, parm: newParm(opts)}
}

// NewOutputParm builds output parameters for t.
func NewOutputParm(t BufType, opts ...ParmOption) StreamParm {
	return StreamParm{typ: t, output: true, parm: newParm(opts)}
}

// NewStreamParm picks capture or output parameters from the direction of t.
func NewStreamParm(t BufType, opts ...ParmOption) StreamParm {
	if t.IsOutput() {
		return NewOutputParm(t, opts...)
	}
	return NewCaptureParm(t, opts...)
}

// Type returns the buffer type.
func (s StreamParm) Type() BufType { return s.typ }

// TypeName returns the canonical buffer type name, failing with
// ErrUnsupportedBufferType for unknown types.
func (s StreamParm) TypeName() (string, error) { return s.typ.Name() }

// IsOutput reports whether the block holds output parameters.
func (s StreamParm) IsOutput() bool { return s.output }

// Capture returns the capture block; ok is false for output parameters.
func (s StreamParm) Capture() (p Parm, ok bool) {
	if s.output {
		return Parm{}, false
	}
	return s.parm, true
}

// Output returns the output block; ok is false for capture parameters.
func (s StreamParm) Output() (p Parm, ok bool) {
	if !s.output {
		return Parm{}, false
	}
	return s.parm, true
}

// Parm returns the parameter block regardless of direction.
func (s StreamParm) Parm() Parm { return s.parm }

// HasCustomTiming reports whether the time per frame was set explicitly.
func (s StreamParm) HasCustomTiming() bool {
	return s.parm.Capability&ParmCapTimePerFrame != 0
}

func (s StreamParm) String() string {
	mode := "capture"
	if s.output {
		mode = "output"
	}
	return fmt.Sprintf("%s %s: %s s/frame (%.2f fps), buffers %d",
		s.typ, mode, s.parm.TimePerFrame, s.parm.TimePerFrame.FPS(), s.parm.Buffers)
}
