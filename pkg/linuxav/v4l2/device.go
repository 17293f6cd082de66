package v4l2

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
)

// VideoDevice is an opened V4L2 device together with everything it reported
// at open time: identity, capabilities, formats and frame sizes. That data is
// never modified after Open returns.
type VideoDevice struct {
	path     string
	bufType  BufType
	driver   string
	card     string
	busInfo  string
	version  uint32
	caps     CapabilitySet
	formats  *FormatCatalog
	sizes    map[FourCC]*FrameSizes
	handle   Handle
	logger   *slog.Logger
	isClosed bool
}

type openConfig struct {
	backend Backend
	logger  *slog.Logger
}

// OpenOption configures Open.
type OpenOption func(*openConfig)

// WithBackend replaces the kernel backend.
func WithBackend(b Backend) OpenOption {
	return func(c *openConfig) { c.backend = b }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) OpenOption {
	return func(c *openConfig) { c.logger = l }
}

// Open opens path, checks that it can serve streams of type t and queries its
// formats and frame sizes. Either every query succeeds and a ready device is
// returned, or the handle is closed again and an error is returned.
//
// A device that lacks the capability for t fails with ErrDeviceNotCapable.
// Formats for which the driver reports no frame sizes stay in the format
// catalog but are left out of the frame size map.
func Open(path string, t BufType, opts ...OpenOption) (*VideoDevice, error) {
	cfg := openConfig{
		backend: DefaultBackend(),
		logger:  slog.With("component", "linuxav"),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if _, err := t.Name(); err != nil {
		return nil, &DeviceError{Path: path, Op: "open", Err: err}
	}

	h, err := cfg.backend.Open(path)
	if err != nil {
		return nil, deviceErr(path, "open", ErrDeviceOpen, err)
	}

	dev, err := query(path, t, h, cfg.logger)
	if err != nil {
		if closeErr := h.Close(); closeErr != nil {
			cfg.logger.Debug("failed to close video device", "path", path, "error", closeErr)
		}
		return nil, err
	}
	return dev, nil
}

// OpenCapture opens path as a video capture device.
func OpenCapture(path string, opts ...OpenOption) (*VideoDevice, error) {
	return Open(path, BufTypeVideoCapture, opts...)
}

func query(path string, t BufType, h Handle, logger *slog.Logger) (*VideoDevice, error) {
	info, err := h.Info()
	if err != nil {
		return nil, deviceErr(path, "query capabilities", ErrDeviceOpen, err)
	}

	caps := info.Effective()
	if !caps.Compatible(t.Capability()) {
		return nil, deviceErr(path, "open", ErrDeviceNotCapable,
			fmt.Errorf("%s is not a %s capable device", path, t))
	}

	records, err := h.Formats()
	if err != nil {
		return nil, &DeviceError{Path: path, Op: "enumerate formats", Err: err}
	}
	catalog, err := NewFormatCatalog(records)
	if err != nil {
		return nil, &DeviceError{Path: path, Op: "enumerate formats", Err: err}
	}

	sizes := make(map[FourCC]*FrameSizes)
	for _, bt := range catalog.Types() {
		for _, f := range catalog.ByType(bt) {
			if _, done := sizes[f.FourCC]; done {
				continue
			}
			list, sizeErr := h.FrameSizes(f.FourCC)
			if sizeErr != nil {
				return nil, &DeviceError{Path: path, Op: "enumerate frame sizes " + f.FourCC.String(), Err: sizeErr}
			}
			if len(list) == 0 {
				logger.Debug("format reports no frame sizes", "path", path, "fourcc", f.FourCC.String())
				continue
			}
			fs, fsErr := NewFrameSizes(f.FourCC, list)
			if fsErr != nil {
				return nil, &DeviceError{Path: path, Op: "enumerate frame sizes " + f.FourCC.String(), Err: fsErr}
			}
			sizes[f.FourCC] = fs
		}
	}

	logger.Debug("opened video device",
		"path", path,
		"driver", info.Driver,
		"card", info.Card,
		"formats", catalog.Len(),
		"framesizes", len(sizes))

	return &VideoDevice{
		path:    path,
		bufType: t,
		driver:  info.Driver,
		card:    info.Card,
		busInfo: info.BusInfo,
		version: info.Version,
		caps:    caps,
		formats: catalog,
		sizes:   sizes,
		handle:  h,
		logger:  logger,
	}, nil
}

// Path returns the device node path.
func (d *VideoDevice) Path() string { return d.path }

// BufType returns the buffer type the device was opened for.
func (d *VideoDevice) BufType() BufType { return d.bufType }

// Driver returns the driver name, e.g. "uvcvideo".
func (d *VideoDevice) Driver() string { return d.driver }

// Card returns the device name.
func (d *VideoDevice) Card() string { return d.card }

// BusInfo returns the bus location, e.g. "usb-0000:00:14.0-1".
func (d *VideoDevice) BusInfo() string { return d.busInfo }

// KernelVersion returns the driver's kernel version as major.minor.patch.
func (d *VideoDevice) KernelVersion() string {
	return RawInfo{Version: d.version}.KernelVersion()
}

// Capabilities returns the effective capabilities of the node.
func (d *VideoDevice) Capabilities() CapabilitySet { return d.caps }

// Formats returns the format catalog.
func (d *VideoDevice) Formats() *FormatCatalog { return d.formats }

// FrameSizes returns the frame sizes for fourcc.
func (d *VideoDevice) FrameSizes(fourcc FourCC) (*FrameSizes, bool) {
	fs, ok := d.sizes[fourcc]
	return fs, ok
}

// FrameSizeFormats returns the fourccs that have frame sizes, sorted.
func (d *VideoDevice) FrameSizeFormats() []FourCC {
	codes := make([]FourCC, 0, len(d.sizes))
	for code := range d.sizes {
		codes = append(codes, code)
	}
	slices.SortFunc(codes, func(a, b FourCC) int { return strings.Compare(a.String(), b.String()) })
	return codes
}

// IsCaptureDevice reports whether the node can capture video.
func (d *VideoDevice) IsCaptureDevice() bool {
	return d.caps.Compatible(CapVideoCapture)
}

// IsSupportedFormat reports whether f is in the format catalog.
func (d *VideoDevice) IsSupportedFormat(f Format) bool {
	return d.formats.Contains(f)
}

// FrameIntervals queries the intervals supported for fourcc at the given size.
func (d *VideoDevice) FrameIntervals(fourcc FourCC, width, height uint32) ([]FrameInterval, error) {
	if d.isClosed {
		return nil, &DeviceError{Path: d.path, Op: "enumerate frame intervals", Err: ErrDeviceClosed}
	}
	intervals, err := d.handle.FrameIntervals(fourcc, width, height)
	if err != nil {
		return nil, &DeviceError{Path: d.path, Op: "enumerate frame intervals", Err: err}
	}
	return intervals, nil
}

// StreamParm reads the current streaming parameters for t.
func (d *VideoDevice) StreamParm(t BufType) (StreamParm, error) {
	if d.isClosed {
		return StreamParm{}, &DeviceError{Path: d.path, Op: "get stream parameters", Err: ErrDeviceClosed}
	}
	p, err := d.handle.StreamParm(t)
	if err != nil {
		return StreamParm{}, &DeviceError{Path: d.path, Op: "get stream parameters", Err: err}
	}
	return p, nil
}

// SetStreamParm applies p and returns the parameters the driver settled on.
func (d *VideoDevice) SetStreamParm(p StreamParm) (StreamParm, error) {
	if d.isClosed {
		return StreamParm{}, &DeviceError{Path: d.path, Op: "set stream parameters", Err: ErrDeviceClosed}
	}
	if !d.caps.Compatible(p.Type().Capability()) {
		return StreamParm{}, deviceErr(d.path, "set stream parameters", ErrDeviceNotCapable,
			fmt.Errorf("%s is not a %s capable device", d.path, p.Type()))
	}
	applied, err := d.handle.SetStreamParm(p)
	if err != nil {
		return StreamParm{}, &DeviceError{Path: d.path, Op: "set stream parameters", Err: err}
	}
	d.logger.Debug("stream parameters applied",
		"path", d.path,
		"type", p.Type().String(),
		"time_per_frame", applied.Parm().TimePerFrame.String())
	return applied, nil
}

// SetFrameRate requests fps frames per second on the device's buffer type
// and returns the rate the driver applied. opts can add a mode, extended
// mode or buffer count to the same request.
func (d *VideoDevice) SetFrameRate(fps uint32, opts ...ParmOption) (float64, error) {
	if fps == 0 {
		return 0, fmt.Errorf("%w: frame rate must be positive", ErrInvalidFormat)
	}
	opts = append([]ParmOption{WithFrameRate(fps)}, opts...)
	applied, err := d.SetStreamParm(NewStreamParm(d.bufType, opts...))
	if err != nil {
		return 0, err
	}
	return applied.Parm().TimePerFrame.FPS(), nil
}

// Close releases the device handle. The data gathered at open time stays
// readable; live queries fail with ErrDeviceClosed.
func (d *VideoDevice) Close() error {
	if d.isClosed {
		return nil
	}
	d.isClosed = true
	if err := d.handle.Close(); err != nil {
		return &DeviceError{Path: d.path, Op: "close", Err: err}
	}
	return nil
}

// String renders a multi-line summary for diagnostics.
func (d *VideoDevice) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", d.path, d.driver)
	fmt.Fprintf(&b, "  caps: %s\n", d.caps)
	for _, line := range strings.Split(d.formats.String(), "\n") {
		if line != "" {
			fmt.Fprintf(&b, "  %s\n", line)
		}
	}
	parts := make([]string, 0, len(d.sizes))
	for _, code := range d.FrameSizeFormats() {
		parts = append(parts, d.sizes[code].String())
	}
	fmt.Fprintf(&b, "  framesizes: %s", strings.Join(parts, ", "))
	return b.String()
}

// IsNotCapable reports whether err means the device lacks a capability.
func IsNotCapable(err error) bool {
	return errors.Is(err, ErrDeviceNotCapable)
}
