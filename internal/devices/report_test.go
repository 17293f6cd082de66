package devices

import (
	"slices"
	"testing"
	"time"

	"github.com/smazurov/videodev/pkg/linuxav/v4l2"
)

func TestNewReport(t *testing.T) {
	dev, err := v4l2.OpenCapture("/dev/video0",
		v4l2.WithBackend(fakeBackend{"/dev/video0": webcam()}),
		v4l2.WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("OpenCapture() error = %v", err)
	}
	defer dev.Close()

	probedAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	r := NewReport(dev, "usb-cam", probedAt)

	if r.Path != "/dev/video0" || r.DeviceID != "usb-cam" || r.Card != "HD Webcam" || r.Driver != "uvcvideo" {
		t.Errorf("identity = %+v", r)
	}
	if r.KernelVersion != "6.8.0" {
		t.Errorf("KernelVersion = %q, want 6.8.0", r.KernelVersion)
	}
	if r.BufferType != "video capture" {
		t.Errorf("BufferType = %q", r.BufferType)
	}
	if !slices.Equal(r.Capabilities, []string{"video capture", "streaming"}) {
		t.Errorf("Capabilities = %v", r.Capabilities)
	}
	if !r.ProbedAt.Equal(probedAt) || !r.OK() {
		t.Errorf("ProbedAt = %v, OK = %v", r.ProbedAt, r.OK())
	}

	if len(r.Formats) != 2 {
		t.Fatalf("len(Formats) = %d, want 2", len(r.Formats))
	}
	formats := map[string]FormatReport{}
	for _, f := range r.Formats {
		formats[f.FourCC] = f
	}

	yuyv := formats["YUYV"]
	if yuyv.Compressed || !slices.Equal(yuyv.FrameSizes, []string{"640x480"}) || !slices.Equal(yuyv.Resolutions, []string{"640x480"}) {
		t.Errorf("YUYV = %+v", yuyv)
	}

	mjpg := formats["MJPG"]
	if !mjpg.Compressed {
		t.Error("MJPG should be compressed")
	}
	if !slices.Equal(mjpg.FrameSizes, []string{"16x16 - 1920x1080 [8x8]"}) {
		t.Errorf("MJPG FrameSizes = %v", mjpg.FrameSizes)
	}
	if !slices.Contains(mjpg.Resolutions, "1280x720") {
		t.Errorf("MJPG Resolutions = %v, want 1280x720 among them", mjpg.Resolutions)
	}
}

func TestFailedReport(t *testing.T) {
	info := v4l2.DeviceInfo{
		DevicePath: "/dev/video1",
		DeviceID:   "usb-cam-meta",
		DeviceName: "HD Webcam",
		Driver:     "uvcvideo",
		Caps:       v4l2.CapabilitySet(v4l2.CapStreaming | v4l2.CapDeviceCaps | 0x00200000),
	}
	notCapable := &v4l2.DeviceError{Path: info.DevicePath, Op: "open", Err: v4l2.ErrDeviceNotCapable}

	r := failedReport(info, v4l2.BufTypeVideoCapture, notCapable, time.Now())
	if r.OK() {
		t.Error("failed report should not be OK")
	}
	if !r.NotCapable {
		t.Error("NotCapable = false, want true")
	}
	if r.Card != "HD Webcam" || r.DeviceID != "usb-cam-meta" {
		t.Errorf("identity = %+v", r)
	}
	if !slices.Equal(r.Capabilities, []string{"streaming"}) {
		t.Errorf("Capabilities = %v", r.Capabilities)
	}

	r = failedReport(info, v4l2.BufTypeVideoCapture, errBoom, time.Now())
	if r.NotCapable || r.Error != "boom" {
		t.Errorf("generic failure = %+v", r)
	}
}
