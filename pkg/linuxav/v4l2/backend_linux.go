//go:build linux

package v4l2

import (
	"fmt"
	"os"
	"unsafe"
)

// enumerableTypes are the buffer types VIDIOC_ENUM_FMT accepts.
var enumerableTypes = []BufType{
	BufTypeVideoCapture,
	BufTypeVideoCaptureMPlane,
	BufTypeVideoOutput,
	BufTypeVideoOutputMPlane,
	BufTypeVideoOverlay,
}

type kernelBackend struct{}

// DefaultBackend returns the ioctl backend.
func DefaultBackend() Backend {
	return kernelBackend{}
}

func (kernelBackend) Open(path string) (Handle, error) {
	fd, err := open(path)
	if err != nil {
		return nil, &os.PathError{Op: "open", Path: path, Err: err}
	}

	isChar, err := isCharDevice(fd)
	if err != nil {
		close(fd)
		return nil, &os.PathError{Op: "stat", Path: path, Err: err}
	}
	if !isChar {
		close(fd)
		return nil, fmt.Errorf("%s is not a character device", path)
	}

	return &kernelHandle{fd: fd, path: path}, nil
}

type kernelHandle struct {
	fd   int
	path string
}

func (h *kernelHandle) Info() (RawInfo, error) {
	c := v4l2Capability{}
	if err := ioctl(h.fd, vidiocQuerycap, unsafe.Pointer(&c)); err != nil {
		return RawInfo{}, fmt.Errorf("VIDIOC_QUERYCAP: %w", err)
	}
	return RawInfo{
		Driver:       cstr(c.driver[:]),
		Card:         cstr(c.card[:]),
		BusInfo:      cstr(c.busInfo[:]),
		Version:      c.version,
		Capabilities: c.capabilities,
		DeviceCaps:   c.deviceCaps,
	}, nil
}

func (h *kernelHandle) Formats() ([]FormatRecord, error) {
	info, err := h.Info()
	if err != nil {
		return nil, err
	}
	caps := info.Effective()

	var records []FormatRecord
	for _, bt := range enumerableTypes {
		if !caps.Compatible(bt.Capability()) {
			continue
		}
		for i := uint32(0); ; i++ {
			desc := v4l2Fmtdesc{index: i, typ: uint32(bt)}
			if ioctlErr := ioctl(h.fd, vidiocEnumFmt, unsafe.Pointer(&desc)); ioctlErr != nil {
				if endOfEnum(ioctlErr) || notSupported(ioctlErr) {
					break
				}
				return nil, fmt.Errorf("VIDIOC_ENUM_FMT %s index %d: %w", bt, i, ioctlErr)
			}
			records = append(records, FormatRecord{
				Type:        desc.typ,
				PixelFormat: desc.pixelformat,
				Description: cstr(desc.description[:]),
				Flags:       FormatFlags(desc.flags),
			})
		}
	}
	return records, nil
}

func (h *kernelHandle) FrameSizes(fourcc FourCC) ([]FrameSize, error) {
	var sizes []FrameSize
	for i := uint32(0); ; i++ {
		e := v4l2Frmsizeenum{index: i, pixelFormat: uint32(fourcc)}
		if err := ioctl(h.fd, vidiocEnumFramesizes, unsafe.Pointer(&e)); err != nil {
			if endOfEnum(err) || notSupported(err) {
				return sizes, nil
			}
			return nil, fmt.Errorf("VIDIOC_ENUM_FRAMESIZES %s index %d: %w", fourcc, i, err)
		}

		switch FrameSizeKind(e.typ) {
		case FrameSizeDiscrete:
			d := e.discrete()
			sizes = append(sizes, DiscreteFrameSize(d.width, d.height))
		case FrameSizeStepwise:
			s := e.stepwise()
			return append(sizes, StepwiseFrameSize(s.minWidth, s.minHeight, s.maxWidth, s.maxHeight, s.stepWidth, s.stepHeight)), nil
		case FrameSizeContinuous:
			s := e.stepwise()
			return append(sizes, ContinuousFrameSize(s.minWidth, s.minHeight, s.maxWidth, s.maxHeight)), nil
		default:
			return nil, fmt.Errorf("%w: %s has unknown frame size type %d", ErrInvalidFormat, fourcc, e.typ)
		}
	}
}

func (h *kernelHandle) FrameIntervals(fourcc FourCC, width, height uint32) ([]FrameInterval, error) {
	var intervals []FrameInterval
	for i := uint32(0); ; i++ {
		e := v4l2Frmivalenum{index: i, pixelFormat: uint32(fourcc), width: width, height: height}
		if err := ioctl(h.fd, vidiocEnumFrameintervals, unsafe.Pointer(&e)); err != nil {
			if endOfEnum(err) || notSupported(err) {
				return intervals, nil
			}
			return nil, fmt.Errorf("VIDIOC_ENUM_FRAMEINTERVALS %s %dx%d index %d: %w", fourcc, width, height, i, err)
		}

		switch FrameSizeKind(e.typ) {
		case FrameSizeDiscrete:
			intervals = append(intervals, DiscreteFrameInterval(fract(*e.discrete())))
		case FrameSizeStepwise:
			s := e.stepwise()
			return append(intervals, StepwiseFrameInterval(fract(s.min), fract(s.max), fract(s.step))), nil
		case FrameSizeContinuous:
			s := e.stepwise()
			return append(intervals, ContinuousFrameInterval(fract(s.min), fract(s.max))), nil
		default:
			return nil, fmt.Errorf("%w: %s has unknown frame interval type %d", ErrInvalidFormat, fourcc, e.typ)
		}
	}
}

func (h *kernelHandle) StreamParm(t BufType) (StreamParm, error) {
	if _, err := t.Name(); err != nil {
		return StreamParm{}, err
	}
	sp := v4l2Streamparm{typ: uint32(t)}
	if err := ioctl(h.fd, vidiocGParm, unsafe.Pointer(&sp)); err != nil {
		return StreamParm{}, fmt.Errorf("VIDIOC_G_PARM %s: %w", t, err)
	}
	return streamParmFromKernel(&sp), nil
}

func (h *kernelHandle) SetStreamParm(p StreamParm) (StreamParm, error) {
	if _, err := p.TypeName(); err != nil {
		return StreamParm{}, err
	}

	sp := v4l2Streamparm{typ: uint32(p.Type())}
	parm := p.Parm()
	tpf := v4l2Fract{numerator: parm.TimePerFrame.Numerator, denominator: parm.TimePerFrame.Denominator}
	if p.IsOutput() {
		*sp.output() = v4l2Outputparm{
			capability:   uint32(parm.Capability),
			outputmode:   uint32(parm.Mode),
			timeperframe: tpf,
			extendedmode: parm.ExtendedMode,
			writebuffers: parm.Buffers,
		}
	} else {
		*sp.capture() = v4l2Captureparm{
			capability:   uint32(parm.Capability),
			capturemode:  uint32(parm.Mode),
			timeperframe: tpf,
			extendedmode: parm.ExtendedMode,
			readbuffers:  parm.Buffers,
		}
	}

	if err := ioctl(h.fd, vidiocSParm, unsafe.Pointer(&sp)); err != nil {
		return StreamParm{}, fmt.Errorf("VIDIOC_S_PARM %s: %w", p.Type(), err)
	}
	return streamParmFromKernel(&sp), nil
}

// Controls walks VIDIOC_QUERYCTRL with V4L2_CTRL_FLAG_NEXT_CTRL. Class
// headers and disabled controls are skipped.
func (h *kernelHandle) Controls() ([]ControlInfo, error) {
	var controls []ControlInfo
	id := uint32(ctrlFlagNextCtrl)
	for {
		q := v4l2Queryctrl{id: id}
		if err := ioctl(h.fd, vidiocQueryctrl, unsafe.Pointer(&q)); err != nil {
			if endOfEnum(err) || notSupported(err) {
				return controls, nil
			}
			return nil, fmt.Errorf("VIDIOC_QUERYCTRL 0x%08x: %w", id&^ctrlFlagNextCtrl, err)
		}
		id = q.id | ctrlFlagNextCtrl

		info := ControlInfo{
			ID:      ControlID(q.id),
			Type:    ControlType(q.typ),
			Name:    cstr(q.name[:]),
			Min:     q.minimum,
			Max:     q.maximum,
			Step:    q.step,
			Default: q.defaultValue,
			Flags:   ControlFlags(q.flags),
		}
		if info.Type == ControlTypeClass || info.Flags&ControlFlagDisabled != 0 {
			continue
		}
		controls = append(controls, info)
	}
}

func (h *kernelHandle) Control(id ControlID) (int32, error) {
	c := v4l2Control{id: uint32(id)}
	if err := ioctl(h.fd, vidiocGCtrl, unsafe.Pointer(&c)); err != nil {
		return 0, fmt.Errorf("VIDIOC_G_CTRL %s: %w", id, err)
	}
	return c.value, nil
}

// SetControl returns the value the driver wrote back, which may differ
// from the request.
func (h *kernelHandle) SetControl(id ControlID, value int32) (int32, error) {
	c := v4l2Control{id: uint32(id), value: value}
	if err := ioctl(h.fd, vidiocSCtrl, unsafe.Pointer(&c)); err != nil {
		return 0, fmt.Errorf("VIDIOC_S_CTRL %s=%d: %w", id, value, err)
	}
	return c.value, nil
}

func (h *kernelHandle) Format(t BufType) (PixFormat, error) {
	if !singlePlanar(t) {
		return PixFormat{}, fmt.Errorf("%w: %s has no single-planar format", ErrUnsupportedBufferType, t)
	}
	f := v4l2Format{typ: uint32(t)}
	if err := ioctl(h.fd, vidiocGFmt, unsafe.Pointer(&f)); err != nil {
		return PixFormat{}, fmt.Errorf("VIDIOC_G_FMT %s: %w", t, err)
	}
	return pixFormat(f.pix()), nil
}

func (h *kernelHandle) SetFormat(t BufType, pf PixFormat) (PixFormat, error) {
	if !singlePlanar(t) {
		return PixFormat{}, fmt.Errorf("%w: %s has no single-planar format", ErrUnsupportedBufferType, t)
	}
	f := v4l2Format{typ: uint32(t)}
	*f.pix() = v4l2PixFormat{
		width:        pf.Width,
		height:       pf.Height,
		pixelformat:  uint32(pf.FourCC),
		field:        uint32(pf.Field),
		bytesperline: pf.BytesPerLine,
		sizeimage:    pf.SizeImage,
		colorspace:   pf.Colorspace,
	}
	if err := ioctl(h.fd, vidiocSFmt, unsafe.Pointer(&f)); err != nil {
		return PixFormat{}, fmt.Errorf("VIDIOC_S_FMT %s %s: %w", t, pf.Resolution(), err)
	}
	return pixFormat(f.pix()), nil
}

func (h *kernelHandle) Close() error {
	return close(h.fd)
}

func pixFormat(p *v4l2PixFormat) PixFormat {
	return PixFormat{
		Width:        p.width,
		Height:       p.height,
		FourCC:       FourCC(p.pixelformat),
		Field:        Field(p.field),
		BytesPerLine: p.bytesperline,
		SizeImage:    p.sizeimage,
		Colorspace:   p.colorspace,
	}
}

// streamParmFromKernel keeps the driver's capability bits as reported.
func streamParmFromKernel(sp *v4l2Streamparm) StreamParm {
	t := BufType(sp.typ)
	if t.IsOutput() {
		o := sp.output()
		return StreamParm{typ: t, output: true, parm: Parm{
			Capability:   StreamCapability(o.capability),
			Mode:         StreamMode(o.outputmode),
			TimePerFrame: fract(o.timeperframe),
			ExtendedMode: o.extendedmode,
			Buffers:      o.writebuffers,
		}}
	}
	c := sp.capture()
	return StreamParm{typ: t, parm: Parm{
		Capability:   StreamCapability(c.capability),
		Mode:         StreamMode(c.capturemode),
		TimePerFrame: fract(c.timeperframe),
		ExtendedMode: c.extendedmode,
		Buffers:      c.readbuffers,
	}}
}

func fract(f v4l2Fract) Fract {
	return Fract{Numerator: f.numerator, Denominator: f.denominator}
}
