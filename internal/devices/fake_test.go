package devices

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/smazurov/videodev/internal/events"
	"github.com/smazurov/videodev/pkg/linuxav/hotplug"
	"github.com/smazurov/videodev/pkg/linuxav/v4l2"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeHandle struct {
	info    v4l2.RawInfo
	formats []v4l2.FormatRecord
	sizes   map[v4l2.FourCC][]v4l2.FrameSize
}

func (h *fakeHandle) Info() (v4l2.RawInfo, error)           { return h.info, nil }
func (h *fakeHandle) Formats() ([]v4l2.FormatRecord, error) { return h.formats, nil }
func (h *fakeHandle) FrameSizes(fourcc v4l2.FourCC) ([]v4l2.FrameSize, error) {
	return h.sizes[fourcc], nil
}
func (h *fakeHandle) FrameIntervals(v4l2.FourCC, uint32, uint32) ([]v4l2.FrameInterval, error) {
	return nil, nil
}
func (h *fakeHandle) StreamParm(t v4l2.BufType) (v4l2.StreamParm, error) {
	return v4l2.NewStreamParm(t), nil
}
func (h *fakeHandle) SetStreamParm(p v4l2.StreamParm) (v4l2.StreamParm, error) { return p, nil }
func (h *fakeHandle) Close() error                                             { return nil }
func (h *fakeHandle) Controls() ([]v4l2.ControlInfo, error)                    { return nil, nil }
func (h *fakeHandle) Control(v4l2.ControlID) (int32, error)                    { return 0, nil }
func (h *fakeHandle) SetControl(_ v4l2.ControlID, v int32) (int32, error)      { return v, nil }
func (h *fakeHandle) Format(v4l2.BufType) (v4l2.PixFormat, error)              { return v4l2.PixFormat{}, nil }
func (h *fakeHandle) SetFormat(_ v4l2.BufType, f v4l2.PixFormat) (v4l2.PixFormat, error) {
	return f, nil
}

type fakeBackend map[string]*fakeHandle

func (b fakeBackend) Open(path string) (v4l2.Handle, error) {
	h, ok := b[path]
	if !ok {
		return nil, &os.PathError{Op: "open", Path: path, Err: os.ErrNotExist}
	}
	return h, nil
}

func webcam() *fakeHandle {
	return &fakeHandle{
		info: v4l2.RawInfo{
			Driver:       "uvcvideo",
			Card:         "HD Webcam",
			BusInfo:      "usb-0000:00:14.0-1",
			Version:      0x060800,
			Capabilities: uint32(v4l2.CapVideoCapture | v4l2.CapStreaming),
		},
		formats: []v4l2.FormatRecord{
			{Type: 1, PixelFormat: uint32(v4l2.PixFmtYUYV), Description: "YUYV 4:2:2"},
			{Type: 1, PixelFormat: uint32(v4l2.PixFmtMJPEG), Description: "Motion-JPEG", Flags: v4l2.FmtFlagCompressed},
		},
		sizes: map[v4l2.FourCC][]v4l2.FrameSize{
			v4l2.PixFmtYUYV:  {v4l2.DiscreteFrameSize(640, 480)},
			v4l2.PixFmtMJPEG: {v4l2.StepwiseFrameSize(16, 16, 1920, 1080, 8, 8)},
		},
	}
}

func outputNode() *fakeHandle {
	return &fakeHandle{
		info: v4l2.RawInfo{
			Driver:       "v4l2loopback",
			Card:         "Dummy video device",
			Capabilities: uint32(v4l2.CapVideoOutput | v4l2.CapStreaming),
		},
	}
}

// fakeFinder returns a configurable device list.
type fakeFinder struct {
	mu      sync.Mutex
	devices []v4l2.DeviceInfo
	err     error
}

func (f *fakeFinder) set(paths ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.devices = nil
	for i, p := range paths {
		f.devices = append(f.devices, v4l2.DeviceInfo{
			DevicePath: p,
			DeviceID:   fmt.Sprintf("usb-cam-%d", i),
			DeviceName: "cam",
		})
	}
}

func (f *fakeFinder) FindDevices() ([]v4l2.DeviceInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]v4l2.DeviceInfo(nil), f.devices...), f.err
}

func newTestRegistry(finder Finder, backend fakeBackend, bus *events.Bus) *Registry {
	return NewRegistry(
		WithFinder(finder),
		WithProber(Opener{Options: []v4l2.OpenOption{v4l2.WithBackend(backend), v4l2.WithLogger(quietLogger())}}),
		WithBus(bus),
		WithLogger(quietLogger()),
		WithSettleDelay(0),
	)
}

// fakeMonitor replays a fixed list of events, then waits for cancellation.
type fakeMonitor struct {
	events []hotplug.Event
	err    error
}

func (m *fakeMonitor) Run(ctx context.Context, out chan<- hotplug.Event) error {
	defer close(out)
	for _, e := range m.events {
		select {
		case out <- e:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if m.err != nil {
		return m.err
	}
	<-ctx.Done()
	return ctx.Err()
}

var errBoom = errors.New("boom")
