package devices

import (
	"time"

	"github.com/smazurov/videodev/pkg/linuxav/v4l2"
)

// Report is a serialisable snapshot of what a device reported when it was
// last probed.
type Report struct {
	Path          string         `json:"path" example:"/dev/video0" doc:"Device node"`
	DeviceID      string         `json:"device_id,omitempty" example:"usb-046d_HD_Webcam_C615-video-index0" doc:"Stable device identifier"`
	Card          string         `json:"card,omitempty" example:"HD Webcam C615" doc:"Device name reported by the driver"`
	Driver        string         `json:"driver,omitempty" example:"uvcvideo" doc:"Driver name"`
	BusInfo       string         `json:"bus_info,omitempty" example:"usb-0000:00:14.0-1" doc:"Bus location"`
	KernelVersion string         `json:"kernel_version,omitempty" example:"6.8.0" doc:"Driver kernel version"`
	BufferType    string         `json:"buffer_type" example:"video capture" doc:"Buffer type the device was probed for"`
	Capabilities  []string       `json:"capabilities" doc:"Effective capability names"`
	Formats       []FormatReport `json:"formats" doc:"Format catalog"`
	ProbedAt      time.Time      `json:"probed_at" doc:"Time of the last probe"`
	Error         string         `json:"error,omitempty" doc:"Last probe error"`
	NotCapable    bool           `json:"not_capable,omitempty" doc:"True when the device lacks the requested buffer type"`
}

// FormatReport is one catalog entry with its frame sizes.
type FormatReport struct {
	BufferType  string   `json:"buffer_type" example:"video capture" doc:"Buffer type"`
	FourCC      string   `json:"fourcc" example:"YUYV" doc:"Pixel format code"`
	Description string   `json:"description" example:"YUYV 4:2:2" doc:"Driver description"`
	Compressed  bool     `json:"compressed,omitempty" doc:"Compressed format"`
	Emulated    bool     `json:"emulated,omitempty" doc:"Format emulated in software"`
	FrameSizes  []string `json:"frame_sizes,omitempty" example:"[\"640x480\",\"1280x720\"]" doc:"Frame sizes, discrete or as a range"`
	Resolutions []string `json:"resolutions,omitempty" doc:"Concrete resolutions, including common sizes within a range"`
}

// OK reports whether the last probe succeeded.
func (r Report) OK() bool {
	return r.Error == ""
}

// NewReport snapshots an open device.
func NewReport(dev *v4l2.VideoDevice, deviceID string, probedAt time.Time) Report {
	r := Report{
		Path:          dev.Path(),
		DeviceID:      deviceID,
		Card:          dev.Card(),
		Driver:        dev.Driver(),
		BusInfo:       dev.BusInfo(),
		KernelVersion: dev.KernelVersion(),
		BufferType:    dev.BufType().String(),
		Capabilities:  dev.Capabilities().Known(),
		ProbedAt:      probedAt,
	}

	catalog := dev.Formats()
	for _, bt := range catalog.Types() {
		for _, f := range catalog.ByType(bt) {
			flags := catalog.Flags(f)
			fr := FormatReport{
				BufferType:  bt.String(),
				FourCC:      f.FourCC.String(),
				Description: f.Description,
				Compressed:  flags&v4l2.FmtFlagCompressed != 0,
				Emulated:    flags&v4l2.FmtFlagEmulated != 0,
			}
			if sizes, ok := dev.FrameSizes(f.FourCC); ok {
				for _, s := range sizes.Sizes() {
					fr.FrameSizes = append(fr.FrameSizes, s.String())
				}
				for _, res := range sizes.Resolutions() {
					fr.Resolutions = append(fr.Resolutions, res.String())
				}
			}
			r.Formats = append(r.Formats, fr)
		}
	}
	return r
}

// failedReport records a device that could not be probed.
func failedReport(info v4l2.DeviceInfo, bt v4l2.BufType, err error, probedAt time.Time) Report {
	return Report{
		Path:         info.DevicePath,
		DeviceID:     info.DeviceID,
		Card:         info.DeviceName,
		Driver:       info.Driver,
		BusInfo:      info.BusInfo,
		BufferType:   bt.String(),
		Capabilities: info.Caps.Known(),
		ProbedAt:     probedAt,
		Error:        err.Error(),
		NotCapable:   v4l2.IsNotCapable(err),
	}
}
