package v4l2

import "fmt"

// FrameInterval is one frame interval advertised for a format and size. Like
// FrameSize, its kind is fixed by the constructor.
type FrameInterval struct {
	kind FrameSizeKind
	min  Fract
	max  Fract
	step Fract
}

// DiscreteFrameInterval builds a single fixed interval.
func DiscreteFrameInterval(interval Fract) FrameInterval {
	return FrameInterval{kind: FrameSizeDiscrete, min: interval, max: interval}
}

// StepwiseFrameInterval builds a range of intervals in steps.
func StepwiseFrameInterval(minInterval, maxInterval, step Fract) FrameInterval {
	return FrameInterval{kind: FrameSizeStepwise, min: minInterval, max: maxInterval, step: step}
}

// ContinuousFrameInterval builds a range where any interval is allowed.
func ContinuousFrameInterval(minInterval, maxInterval Fract) FrameInterval {
	return FrameInterval{kind: FrameSizeContinuous, min: minInterval, max: maxInterval, step: Fract{1, 1}}
}

// Kind returns the reporting mode.
func (f FrameInterval) Kind() FrameSizeKind { return f.kind }

// Min returns the shortest interval, i.e. the highest frame rate.
func (f FrameInterval) Min() Fract { return f.min }

// Max returns the longest interval.
func (f FrameInterval) Max() Fract { return f.max }

// Step returns the increment of a stepwise range.
func (f FrameInterval) Step() Fract { return f.step }

func (f FrameInterval) String() string {
	switch f.kind {
	case FrameSizeDiscrete:
		return fmt.Sprintf("%s s (%.3f fps)", f.min, f.min.FPS())
	case FrameSizeStepwise:
		return fmt.Sprintf("%s - %s s [%s] (%.3f - %.3f fps)", f.min, f.max, f.step, f.max.FPS(), f.min.FPS())
	default:
		return fmt.Sprintf("%s - %s s (%.3f - %.3f fps)", f.min, f.max, f.max.FPS(), f.min.FPS())
	}
}
