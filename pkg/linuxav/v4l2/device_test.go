package v4l2

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"
)

type fakeHandle struct {
	info       RawInfo
	infoErr    error
	formats    []FormatRecord
	formatsErr error
	sizes      map[FourCC][]FrameSize
	intervals  []FrameInterval
	parm       StreamParm
	controls   []ControlInfo
	values     map[ControlID]int32
	format     PixFormat
	closed     int
	sizeCalls  []FourCC
}

func (h *fakeHandle) Info() (RawInfo, error) { return h.info, h.infoErr }

func (h *fakeHandle) Formats() ([]FormatRecord, error) { return h.formats, h.formatsErr }

func (h *fakeHandle) FrameSizes(fourcc FourCC) ([]FrameSize, error) {
	h.sizeCalls = append(h.sizeCalls, fourcc)
	return h.sizes[fourcc], nil
}

func (h *fakeHandle) FrameIntervals(FourCC, uint32, uint32) ([]FrameInterval, error) {
	return h.intervals, nil
}

func (h *fakeHandle) StreamParm(BufType) (StreamParm, error) { return h.parm, nil }

func (h *fakeHandle) SetStreamParm(p StreamParm) (StreamParm, error) {
	h.parm = p
	return p, nil
}

func (h *fakeHandle) Controls() ([]ControlInfo, error) { return h.controls, nil }

func (h *fakeHandle) Control(id ControlID) (int32, error) {
	v, ok := h.values[id]
	if !ok {
		return 0, errors.New("invalid argument")
	}
	return v, nil
}

func (h *fakeHandle) SetControl(id ControlID, value int32) (int32, error) {
	if h.values == nil {
		h.values = map[ControlID]int32{}
	}
	h.values[id] = value
	return value, nil
}

func (h *fakeHandle) Format(BufType) (PixFormat, error) { return h.format, nil }

// SetFormat snaps to 640x480 unless the request is 320x240, like a driver
// with two discrete sizes.
func (h *fakeHandle) SetFormat(_ BufType, f PixFormat) (PixFormat, error) {
	if f.Width != 320 || f.Height != 240 {
		f.Width, f.Height = 640, 480
	}
	f.Field = FieldNone
	f.BytesPerLine = f.Width * 2
	f.SizeImage = f.BytesPerLine * f.Height
	h.format = f
	return f, nil
}

func (h *fakeHandle) Close() error {
	h.closed++
	return nil
}

type fakeBackend map[string]*fakeHandle

func (b fakeBackend) Open(path string) (Handle, error) {
	h, ok := b[path]
	if !ok {
		return nil, &os.PathError{Op: "open", Path: path, Err: os.ErrNotExist}
	}
	return h, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func webcam() *fakeHandle {
	return &fakeHandle{
		info: RawInfo{
			Driver:       "uvcvideo",
			Card:         "HD Webcam",
			BusInfo:      "usb-0000:00:14.0-1",
			Version:      0x060800,
			Capabilities: uint32(CapVideoCapture | CapStreaming | CapDeviceCaps),
			DeviceCaps:   uint32(CapVideoCapture | CapStreaming),
		},
		formats: []FormatRecord{
			{Type: 1, PixelFormat: uint32(PixFmtYUYV), Description: "YUYV 4:2:2"},
			{Type: 1, PixelFormat: uint32(PixFmtMJPEG), Description: "Motion-JPEG", Flags: FmtFlagCompressed},
		},
		sizes: map[FourCC][]FrameSize{
			PixFmtYUYV:  {DiscreteFrameSize(640, 480), DiscreteFrameSize(320, 240)},
			PixFmtMJPEG: {DiscreteFrameSize(1920, 1080)},
		},
		intervals: []FrameInterval{DiscreteFrameInterval(Fract{1, 30})},
		parm:      NewCaptureParm(BufTypeVideoCapture),
		controls: []ControlInfo{
			{ID: CtrlBrightness, Type: ControlTypeInteger, Name: "Brightness", Min: -64, Max: 64, Step: 1},
			{ID: CtrlAutoWhiteBalance, Type: ControlTypeBoolean, Name: "White Balance, Automatic", Max: 1, Step: 1, Default: 1},
			{ID: CtrlWhiteBalanceTemperature, Type: ControlTypeInteger, Name: "White Balance Temperature", Min: 2800, Max: 6500, Step: 10, Default: 4600, Flags: ControlFlagInactive},
			{ID: CtrlExposureAuto, Type: ControlTypeMenu, Name: "Auto Exposure", Max: 3, Step: 1, Default: ExposureAperturePriority},
			{ID: CtrlExposureAbsolute, Type: ControlTypeInteger, Name: "Exposure Time, Absolute", Min: 3, Max: 2047, Step: 1, Default: 250},
			{ID: CtrlFocusAuto, Type: ControlTypeBoolean, Name: "Focus, Automatic Continuous", Max: 1, Step: 1},
			{ID: CtrlGain, Type: ControlTypeInteger, Name: "Gain", Max: 255, Step: 1, Flags: ControlFlagReadOnly},
		},
		values: map[ControlID]int32{
			CtrlBrightness:              0,
			CtrlAutoWhiteBalance:        1,
			CtrlWhiteBalanceTemperature: 4600,
			CtrlExposureAuto:            ExposureAperturePriority,
			CtrlExposureAbsolute:        250,
			CtrlFocusAuto:               0,
			CtrlGain:                    32,
		},
		format: PixFormat{Width: 640, Height: 480, FourCC: PixFmtYUYV, Field: FieldNone, BytesPerLine: 1280, SizeImage: 614400, Colorspace: 8},
	}
}

func openFake(t *testing.T, h *fakeHandle, bt BufType) (*VideoDevice, error) {
	t.Helper()
	return Open("/dev/video0", bt, WithBackend(fakeBackend{"/dev/video0": h}), WithLogger(quietLogger()))
}

func TestOpenCaptureDevice(t *testing.T) {
	h := webcam()
	dev, err := openFake(t, h, BufTypeVideoCapture)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer dev.Close()

	if dev.Driver() != "uvcvideo" || dev.Card() != "HD Webcam" {
		t.Errorf("unexpected identity %q / %q", dev.Driver(), dev.Card())
	}
	if dev.KernelVersion() != "6.8.0" {
		t.Errorf("KernelVersion() = %q, want 6.8.0", dev.KernelVersion())
	}
	if !dev.IsCaptureDevice() {
		t.Error("expected capture device")
	}
	if dev.Formats().Len() != 2 {
		t.Errorf("catalog has %d formats, want 2", dev.Formats().Len())
	}
	if !dev.IsSupportedFormat(Format{BufTypeVideoCapture, PixFmtYUYV, "YUYV 4:2:2"}) {
		t.Error("YUYV should be supported")
	}

	fs, ok := dev.FrameSizes(PixFmtYUYV)
	if !ok {
		t.Fatal("missing YUYV frame sizes")
	}
	if len(fs.Sizes()) != 2 {
		t.Errorf("YUYV has %d sizes, want 2", len(fs.Sizes()))
	}
	if h.closed != 0 {
		t.Error("handle closed during successful open")
	}
}

func TestOpenNotCapable(t *testing.T) {
	h := webcam()
	h.info.Capabilities = uint32(CapVideoOutput)
	h.info.DeviceCaps = 0

	dev, err := openFake(t, h, BufTypeVideoCapture)
	if dev != nil {
		t.Error("expected nil device")
	}
	if !errors.Is(err, ErrDeviceNotCapable) {
		t.Fatalf("error = %v, want ErrDeviceNotCapable", err)
	}
	if !IsNotCapable(err) {
		t.Error("IsNotCapable should match")
	}
	if !strings.Contains(err.Error(), "/dev/video0") {
		t.Errorf("error %q should name the device", err)
	}
	if h.closed != 1 {
		t.Errorf("handle closed %d times, want 1", h.closed)
	}
	if len(h.sizeCalls) != 0 {
		t.Error("frame sizes queried on an incapable device")
	}
}

func TestOpenUsesDeviceCaps(t *testing.T) {
	h := webcam()
	// Physical device can output, this node cannot.
	h.info.Capabilities = uint32(CapVideoCapture | CapVideoOutput | CapDeviceCaps)
	h.info.DeviceCaps = uint32(CapVideoCapture)

	if _, err := openFake(t, h, BufTypeVideoOutput); !errors.Is(err, ErrDeviceNotCapable) {
		t.Errorf("error = %v, want ErrDeviceNotCapable", err)
	}
}

func TestOpenSkipsFormatsWithoutFrameSizes(t *testing.T) {
	h := webcam()
	h.formats = append(h.formats, FormatRecord{Type: 1, PixelFormat: uint32(PixFmtNV12), Description: "Y/CbCr 4:2:0"})

	dev, err := openFake(t, h, BufTypeVideoCapture)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if !dev.Formats().Contains(Format{BufTypeVideoCapture, PixFmtNV12, "Y/CbCr 4:2:0"}) {
		t.Error("NV12 should remain in the catalog")
	}
	if _, ok := dev.FrameSizes(PixFmtNV12); ok {
		t.Error("NV12 should have no frame size entry")
	}
	codes := dev.FrameSizeFormats()
	if len(codes) != 2 || codes[0] != PixFmtMJPEG || codes[1] != PixFmtYUYV {
		t.Errorf("FrameSizeFormats() = %v", codes)
	}
}

func TestOpenQueriesEachFourCCOnce(t *testing.T) {
	h := webcam()
	h.info.DeviceCaps |= uint32(CapVideoCaptureMPlane)
	h.formats = append(h.formats, FormatRecord{Type: 9, PixelFormat: uint32(PixFmtYUYV), Description: "YUYV 4:2:2"})

	if _, err := openFake(t, h, BufTypeVideoCapture); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if len(h.sizeCalls) != 2 {
		t.Errorf("frame sizes queried %d times, want 2", len(h.sizeCalls))
	}
}

func TestOpenErrors(t *testing.T) {
	t.Run("missing path", func(t *testing.T) {
		_, err := Open("/dev/video9", BufTypeVideoCapture,
			WithBackend(fakeBackend{}), WithLogger(quietLogger()))
		if !errors.Is(err, ErrDeviceOpen) {
			t.Errorf("error = %v, want ErrDeviceOpen", err)
		}
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("error = %v, want to wrap os.ErrNotExist", err)
		}
		var devErr *DeviceError
		if !errors.As(err, &devErr) || devErr.Path != "/dev/video9" {
			t.Errorf("expected DeviceError for /dev/video9, got %v", err)
		}
	})

	t.Run("unknown buffer type", func(t *testing.T) {
		h := webcam()
		_, err := openFake(t, h, BufType(0))
		if !errors.Is(err, ErrUnsupportedBufferType) {
			t.Errorf("error = %v, want ErrUnsupportedBufferType", err)
		}
	})

	t.Run("capability query fails", func(t *testing.T) {
		h := webcam()
		h.infoErr = errors.New("inappropriate ioctl")
		_, err := openFake(t, h, BufTypeVideoCapture)
		if !errors.Is(err, ErrDeviceOpen) {
			t.Errorf("error = %v, want ErrDeviceOpen", err)
		}
		if h.closed != 1 {
			t.Errorf("handle closed %d times, want 1", h.closed)
		}
	})

	t.Run("format enumeration fails", func(t *testing.T) {
		h := webcam()
		h.formatsErr = errors.New("device removed")
		if _, err := openFake(t, h, BufTypeVideoCapture); err == nil {
			t.Error("expected error")
		}
		if h.closed != 1 {
			t.Errorf("handle closed %d times, want 1", h.closed)
		}
	})
}

func TestVideoDeviceString(t *testing.T) {
	dev, err := openFake(t, webcam(), BufTypeVideoCapture)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	want := "/dev/video0 uvcvideo\n" +
		"  caps: video capture, streaming\n" +
		"  video capture format: MJPG, YUYV\n" +
		"  framesizes: MJPG: [1920x1080], YUYV: [640x480, 320x240]"
	if got := dev.String(); got != want {
		t.Errorf("String() =\n%s\nwant\n%s", got, want)
	}
}

func TestVideoDeviceLiveQueries(t *testing.T) {
	h := webcam()
	dev, err := openFake(t, h, BufTypeVideoCapture)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	intervals, err := dev.FrameIntervals(PixFmtYUYV, 640, 480)
	if err != nil || len(intervals) != 1 {
		t.Fatalf("FrameIntervals() = %v, %v", intervals, err)
	}

	fps, err := dev.SetFrameRate(15)
	if err != nil {
		t.Fatalf("SetFrameRate failed: %v", err)
	}
	if fps != 15 {
		t.Errorf("SetFrameRate applied %v fps, want 15", fps)
	}
	if !h.parm.HasCustomTiming() {
		t.Error("SetFrameRate should request custom timing")
	}

	if _, err := dev.SetFrameRate(0); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("SetFrameRate(0) error = %v, want ErrInvalidFormat", err)
	}

	if _, err := dev.SetStreamParm(NewOutputParm(BufTypeVideoOutput)); !errors.Is(err, ErrDeviceNotCapable) {
		t.Errorf("SetStreamParm(output) error = %v, want ErrDeviceNotCapable", err)
	}

	if err := dev.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := dev.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
	if h.closed != 1 {
		t.Errorf("handle closed %d times, want 1", h.closed)
	}

	if _, err := dev.StreamParm(BufTypeVideoCapture); !errors.Is(err, ErrDeviceClosed) {
		t.Errorf("StreamParm after Close error = %v, want ErrDeviceClosed", err)
	}
	if dev.Formats().Len() != 2 {
		t.Error("catalog should stay readable after Close")
	}
}
