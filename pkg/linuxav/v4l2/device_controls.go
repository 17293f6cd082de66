package v4l2

import "fmt"

// Controls lists the controls the device exposes, in driver order.
func (d *VideoDevice) Controls() ([]ControlInfo, error) {
	if d.isClosed {
		return nil, &DeviceError{Path: d.path, Op: "query controls", Err: ErrDeviceClosed}
	}
	controls, err := d.handle.Controls()
	if err != nil {
		return nil, &DeviceError{Path: d.path, Op: "query controls", Err: err}
	}
	return controls, nil
}

// LookupControl returns the description of id, failing with
// ErrUnknownControl when the device does not expose it.
func (d *VideoDevice) LookupControl(id ControlID) (ControlInfo, error) {
	controls, err := d.Controls()
	if err != nil {
		return ControlInfo{}, err
	}
	if info, ok := findControl(controls, id); ok {
		return info, nil
	}
	return ControlInfo{}, deviceErr(d.path, "query controls", ErrUnknownControl, fmt.Errorf("%s", id))
}

// Control reads the current value of id.
func (d *VideoDevice) Control(id ControlID) (int32, error) {
	if d.isClosed {
		return 0, &DeviceError{Path: d.path, Op: "get control", Err: ErrDeviceClosed}
	}
	v, err := d.handle.Control(id)
	if err != nil {
		return 0, &DeviceError{Path: d.path, Op: "get control", Err: err}
	}
	return v, nil
}

// SetControl writes value to id and returns the value the driver kept.
// Controls the driver describes are checked for writability and range
// first; drivers that cannot enumerate controls get the request as is.
func (d *VideoDevice) SetControl(id ControlID, value int32) (int32, error) {
	if d.isClosed {
		return 0, &DeviceError{Path: d.path, Op: "set control", Err: ErrDeviceClosed}
	}

	controls, err := d.handle.Controls()
	if err == nil && len(controls) > 0 {
		info, ok := findControl(controls, id)
		switch {
		case !ok:
			return 0, deviceErr(d.path, "set control", ErrUnknownControl, fmt.Errorf("%s", id))
		case !info.Writable():
			return 0, deviceErr(d.path, "set control", ErrControlValue, fmt.Errorf("%s is not writable", info.Name))
		case !info.InRange(value):
			return 0, deviceErr(d.path, "set control", ErrControlValue,
				fmt.Errorf("%s=%d outside [%d, %d] step %d", info.Name, value, info.Min, info.Max, info.Step))
		}
	}

	applied, err := d.handle.SetControl(id, value)
	if err != nil {
		return 0, &DeviceError{Path: d.path, Op: "set control", Err: err}
	}
	d.logger.Debug("control set", "path", d.path, "control", id.String(), "requested", value, "applied", applied)
	return applied, nil
}

func findControl(controls []ControlInfo, id ControlID) (ControlInfo, bool) {
	for _, c := range controls {
		if c.ID == id {
			return c, true
		}
	}
	return ControlInfo{}, false
}

// AutoWhiteBalance reports whether automatic white balance is on.
func (d *VideoDevice) AutoWhiteBalance() (bool, error) {
	v, err := d.Control(CtrlAutoWhiteBalance)
	return v != 0, err
}

// SetAutoWhiteBalance switches automatic white balance.
func (d *VideoDevice) SetAutoWhiteBalance(on bool) (bool, error) {
	v, err := d.SetControl(CtrlAutoWhiteBalance, boolValue(on))
	return v != 0, err
}

// WhiteBalanceTemperature returns the manual white balance in Kelvin.
func (d *VideoDevice) WhiteBalanceTemperature() (int32, error) {
	return d.Control(CtrlWhiteBalanceTemperature)
}

// SetWhiteBalanceTemperature sets the manual white balance in Kelvin.
// Drivers ignore or reject it while automatic white balance is on.
func (d *VideoDevice) SetWhiteBalanceTemperature(kelvin int32) (int32, error) {
	return d.SetControl(CtrlWhiteBalanceTemperature, kelvin)
}

// ExposureMode returns one of ExposureAuto, ExposureManual,
// ExposureShutterPriority or ExposureAperturePriority.
func (d *VideoDevice) ExposureMode() (int32, error) {
	return d.Control(CtrlExposureAuto)
}

// SetExposureMode selects the exposure mode.
func (d *VideoDevice) SetExposureMode(mode int32) (int32, error) {
	return d.SetControl(CtrlExposureAuto, mode)
}

// ExposureAbsolute returns the exposure time in units of 100 µs.
func (d *VideoDevice) ExposureAbsolute() (int32, error) {
	return d.Control(CtrlExposureAbsolute)
}

// SetExposureAbsolute sets the exposure time in units of 100 µs.
func (d *VideoDevice) SetExposureAbsolute(v int32) (int32, error) {
	return d.SetControl(CtrlExposureAbsolute, v)
}

// AutoFocus reports whether continuous automatic focus is on.
func (d *VideoDevice) AutoFocus() (bool, error) {
	v, err := d.Control(CtrlFocusAuto)
	return v != 0, err
}

// SetAutoFocus switches continuous automatic focus.
func (d *VideoDevice) SetAutoFocus(on bool) (bool, error) {
	v, err := d.SetControl(CtrlFocusAuto, boolValue(on))
	return v != 0, err
}

func boolValue(on bool) int32 {
	if on {
		return 1
	}
	return 0
}

// Format reads the current image format of the device's buffer type.
func (d *VideoDevice) Format() (PixFormat, error) {
	if d.isClosed {
		return PixFormat{}, &DeviceError{Path: d.path, Op: "get format", Err: ErrDeviceClosed}
	}
	f, err := d.handle.Format(d.bufType)
	if err != nil {
		return PixFormat{}, &DeviceError{Path: d.path, Op: "get format", Err: err}
	}
	return f, nil
}

// SetFormat requests width x height in fourcc and returns the format the
// driver chose, which may use a different size. The rest of the current
// format is kept; field order and line stride are left to the driver.
func (d *VideoDevice) SetFormat(width, height uint32, fourcc FourCC) (PixFormat, error) {
	if d.isClosed {
		return PixFormat{}, &DeviceError{Path: d.path, Op: "set format", Err: ErrDeviceClosed}
	}
	if !d.offers(fourcc) {
		return PixFormat{}, deviceErr(d.path, "set format", ErrInvalidFormat,
			fmt.Errorf("%s is not offered for %s", fourcc, d.bufType))
	}

	current, err := d.handle.Format(d.bufType)
	if err != nil {
		return PixFormat{}, &DeviceError{Path: d.path, Op: "get format", Err: err}
	}
	current.Width = width
	current.Height = height
	current.FourCC = fourcc
	current.Field = FieldAny
	current.BytesPerLine = 0
	current.SizeImage = 0

	applied, err := d.handle.SetFormat(d.bufType, current)
	if err != nil {
		return PixFormat{}, &DeviceError{Path: d.path, Op: "set format", Err: err}
	}
	d.logger.Debug("format set", "path", d.path, "requested", Resolution{width, height}.String(), "applied", applied.String())
	return applied, nil
}

func (d *VideoDevice) offers(fourcc FourCC) bool {
	for _, f := range d.formats.ByType(d.bufType) {
		if f.FourCC == fourcc {
			return true
		}
	}
	return false
}
