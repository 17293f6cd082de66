package models

// Control describes one device control and its current value.
type Control struct {
	ID      string `json:"id" example:"white_balance_automatic" doc:"Control key, or hex id for controls without one"`
	Name    string `json:"name" example:"White Balance, Automatic" doc:"Name reported by the driver"`
	Type    string `json:"type" example:"bool" doc:"Control type"`
	Min     int32  `json:"min" example:"0"`
	Max     int32  `json:"max" example:"1"`
	Step    int32  `json:"step" example:"1"`
	Default int32  `json:"default" example:"1"`
	Value   *int32 `json:"value,omitempty" example:"1" doc:"Current value, absent for write-only controls"`
	Flags   string `json:"flags,omitempty" example:"inactive" doc:"Comma separated control flags"`
}

type ControlsData struct {
	Device   string    `json:"device" example:"/dev/video0" doc:"Device node"`
	Controls []Control `json:"controls" doc:"Controls in driver order"`
}

type ControlsResponse struct {
	Body ControlsData
}

// SetControlInput writes one control.
type SetControlInput struct {
	DeviceNameInput
	Control string `path:"control" example:"exposure_time_absolute" doc:"Control key or numeric id"`
	Body    struct {
		Value int32 `json:"value" example:"250" doc:"Requested value"`
	}
}

type ControlValueData struct {
	Device string `json:"device" example:"/dev/video0" doc:"Device node"`
	ID     string `json:"id" example:"exposure_time_absolute" doc:"Control key"`
	Value  int32  `json:"value" example:"250" doc:"Value the driver kept"`
}

type ControlValueResponse struct {
	Body ControlValueData
}

// PixFormat is the current image format of a device.
type PixFormat struct {
	Device       string `json:"device" example:"/dev/video0" doc:"Device node"`
	Width        uint32 `json:"width" example:"1280"`
	Height       uint32 `json:"height" example:"720"`
	FourCC       string `json:"fourcc" example:"YUYV" doc:"Pixel format code"`
	BytesPerLine uint32 `json:"bytes_per_line" example:"2560"`
	SizeImage    uint32 `json:"size_image" example:"1843200" doc:"Bytes per frame"`
}

type FormatResponse struct {
	Body PixFormat
}

// SetFormatInput requests a frame size and pixel format.
type SetFormatInput struct {
	DeviceNameInput
	Body struct {
		Size   string `json:"size" pattern:"^[0-9]+[xX][0-9]+$" example:"1280x720" doc:"Frame size as WIDTHxHEIGHT"`
		FourCC string `json:"fourcc,omitempty" maxLength:"4" example:"MJPG" doc:"Pixel format code, defaults to the current one"`
	}
}
