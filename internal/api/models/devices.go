package models

import (
	"github.com/smazurov/videodev/internal/devices"
)

// DeviceNameInput selects a device by node name, path, or stable identifier.
type DeviceNameInput struct {
	Name string `path:"name" example:"video0" doc:"Node name (video0), or stable device identifier"`
}

// DeviceListData lists every known device.
type DeviceListData struct {
	Devices []devices.Report `json:"devices" doc:"Known video devices, sorted by path"`
	Count   int              `json:"count" example:"2" doc:"Number of devices"`
	Failed  int              `json:"failed" example:"0" doc:"Devices whose last probe failed"`
}

type DeviceListResponse struct {
	Body DeviceListData
}

// NewDeviceListData summarises reports.
func NewDeviceListData(reports []devices.Report) DeviceListData {
	failed := 0
	for _, r := range reports {
		if !r.OK() {
			failed++
		}
	}
	return DeviceListData{Devices: reports, Count: len(reports), Failed: failed}
}

type DeviceResponse struct {
	Body devices.Report
}

// IntervalsInput selects a format and frame size on a device.
type IntervalsInput struct {
	DeviceNameInput
	FourCC string `query:"fourcc" required:"true" minLength:"1" maxLength:"4" example:"YUYV" doc:"Pixel format code"`
	Size   string `query:"size" required:"true" pattern:"^[0-9]+[xX][0-9]+$" example:"1280x720" doc:"Frame size as WIDTHxHEIGHT"`
}

// FrameInterval is one enumerated frame interval.
type FrameInterval struct {
	Kind        string  `json:"kind" example:"discrete" enum:"discrete,continuous,stepwise" doc:"Interval kind"`
	Min         string  `json:"min" example:"1/30" doc:"Shortest frame interval"`
	Max         string  `json:"max" example:"1/30" doc:"Longest frame interval"`
	Step        string  `json:"step,omitempty" example:"1/1" doc:"Step for stepwise intervals"`
	MaxFPS      float64 `json:"max_fps" example:"30" doc:"Highest frame rate"`
	MinFPS      float64 `json:"min_fps" example:"30" doc:"Lowest frame rate"`
	Description string  `json:"description" example:"1/30 s (30.000 fps)" doc:"Human readable interval"`
}

type IntervalsData struct {
	Device    string          `json:"device" example:"/dev/video0" doc:"Device node"`
	FourCC    string          `json:"fourcc" example:"YUYV" doc:"Pixel format code"`
	Size      string          `json:"size" example:"1280x720" doc:"Frame size"`
	Intervals []FrameInterval `json:"intervals" doc:"Supported frame intervals"`
}

type IntervalsResponse struct {
	Body IntervalsData
}

// BufferType describes one V4L2 buffer type.
type BufferType struct {
	Value      uint32 `json:"value" example:"1" doc:"Numeric buffer type"`
	Name       string `json:"name" example:"video capture" doc:"Canonical name"`
	Capability string `json:"capability" example:"video capture" doc:"Capability required to use it"`
	Output     bool   `json:"output" doc:"True for output (application to device) types"`
}

type BufferTypesResponse struct {
	Body struct {
		BufferTypes []BufferType `json:"buffer_types" doc:"The ten V4L2 buffer types"`
	}
}

// Capability describes one capability bit.
type Capability struct {
	Mask string `json:"mask" example:"0x00000001" doc:"Capability bit"`
	Name string `json:"name" example:"video capture" doc:"Canonical name"`
}

type CapabilitiesResponse struct {
	Body struct {
		Capabilities []Capability `json:"capabilities" doc:"Canonical capability table"`
	}
}
