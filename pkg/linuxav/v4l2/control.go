package v4l2

import (
	"fmt"
	"strconv"
	"strings"
)

// ControlID is a V4L2_CID_* control identifier.
type ControlID uint32

// User class (V4L2_CID_BASE) and camera class controls.
const (
	CtrlBrightness              ControlID = 0x00980900
	CtrlContrast                ControlID = 0x00980901
	CtrlSaturation              ControlID = 0x00980902
	CtrlHue                     ControlID = 0x00980903
	CtrlAutoWhiteBalance        ControlID = 0x0098090c
	CtrlGain                    ControlID = 0x00980913
	CtrlPowerLineFrequency      ControlID = 0x00980918
	CtrlWhiteBalanceTemperature ControlID = 0x0098091a
	CtrlSharpness               ControlID = 0x0098091b
	CtrlBacklightCompensation   ControlID = 0x0098091c
	CtrlExposureAuto            ControlID = 0x009a0901
	CtrlExposureAbsolute        ControlID = 0x009a0902
	CtrlFocusAbsolute           ControlID = 0x009a090a
	CtrlFocusAuto               ControlID = 0x009a090c
)

// Values of CtrlExposureAuto (enum v4l2_exposure_auto_type).
const (
	ExposureAuto             int32 = 0
	ExposureManual           int32 = 1
	ExposureShutterPriority  int32 = 2
	ExposureAperturePriority int32 = 3
)

// Keys follow the names v4l2-ctl prints.
var controlKeys = []struct {
	id  ControlID
	key string
}{
	{CtrlBrightness, "brightness"},
	{CtrlContrast, "contrast"},
	{CtrlSaturation, "saturation"},
	{CtrlHue, "hue"},
	{CtrlAutoWhiteBalance, "white_balance_automatic"},
	{CtrlGain, "gain"},
	{CtrlPowerLineFrequency, "power_line_frequency"},
	{CtrlWhiteBalanceTemperature, "white_balance_temperature"},
	{CtrlSharpness, "sharpness"},
	{CtrlBacklightCompensation, "backlight_compensation"},
	{CtrlExposureAuto, "auto_exposure"},
	{CtrlExposureAbsolute, "exposure_time_absolute"},
	{CtrlFocusAbsolute, "focus_absolute"},
	{CtrlFocusAuto, "focus_automatic_continuous"},
}

// Key returns the short name of a well-known control, or "" for others.
func (c ControlID) Key() string {
	for _, k := range controlKeys {
		if k.id == c {
			return k.key
		}
	}
	return ""
}

func (c ControlID) String() string {
	if key := c.Key(); key != "" {
		return key
	}
	return fmt.Sprintf("0x%08x", uint32(c))
}

// ParseControlID accepts a control key ("brightness"), or a numeric id in
// hex ("0x00980900") or decimal.
func ParseControlID(s string) (ControlID, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for _, k := range controlKeys {
		if k.key == key {
			return k.id, nil
		}
	}
	n, err := strconv.ParseUint(key, 0, 32)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("%w: %q", ErrUnknownControl, s)
	}
	return ControlID(n), nil
}

// ControlType is the v4l2_ctrl_type of a control.
type ControlType uint32

// Control types.
const (
	ControlTypeInteger     ControlType = 1
	ControlTypeBoolean     ControlType = 2
	ControlTypeMenu        ControlType = 3
	ControlTypeButton      ControlType = 4
	ControlTypeInteger64   ControlType = 5
	ControlTypeClass       ControlType = 6
	ControlTypeString      ControlType = 7
	ControlTypeBitmask     ControlType = 8
	ControlTypeIntegerMenu ControlType = 9
)

func (t ControlType) String() string {
	switch t {
	case ControlTypeInteger:
		return "int"
	case ControlTypeBoolean:
		return "bool"
	case ControlTypeMenu:
		return "menu"
	case ControlTypeButton:
		return "button"
	case ControlTypeInteger64:
		return "int64"
	case ControlTypeClass:
		return "class"
	case ControlTypeString:
		return "string"
	case ControlTypeBitmask:
		return "bitmask"
	case ControlTypeIntegerMenu:
		return "intmenu"
	default:
		return fmt.Sprintf("type(%d)", uint32(t))
	}
}

// ControlFlags are the V4L2_CTRL_FLAG_* bits of a control.
type ControlFlags uint32

// Control flags.
const (
	ControlFlagDisabled  ControlFlags = 0x0001
	ControlFlagGrabbed   ControlFlags = 0x0002
	ControlFlagReadOnly  ControlFlags = 0x0004
	ControlFlagInactive  ControlFlags = 0x0010
	ControlFlagWriteOnly ControlFlags = 0x0040
)

var controlFlagNames = []struct {
	flag ControlFlags
	name string
}{
	{ControlFlagDisabled, "disabled"},
	{ControlFlagGrabbed, "grabbed"},
	{ControlFlagReadOnly, "read-only"},
	{ControlFlagInactive, "inactive"},
	{ControlFlagWriteOnly, "write-only"},
}

// String joins the names of the known flags with commas.
func (f ControlFlags) String() string {
	var names []string
	for _, n := range controlFlagNames {
		if f&n.flag != 0 {
			names = append(names, n.name)
		}
	}
	return strings.Join(names, ",")
}

// ControlInfo describes a control as VIDIOC_QUERYCTRL reports it.
type ControlInfo struct {
	ID      ControlID
	Type    ControlType
	Name    string
	Min     int32
	Max     int32
	Step    int32
	Default int32
	Flags   ControlFlags
}

// Readable reports whether VIDIOC_G_CTRL can return a value for the control.
func (c ControlInfo) Readable() bool {
	return c.Flags&ControlFlagWriteOnly == 0 && c.Type != ControlTypeButton && c.Type != ControlTypeClass
}

// Writable reports whether the control currently accepts VIDIOC_S_CTRL.
func (c ControlInfo) Writable() bool {
	return c.Flags&(ControlFlagReadOnly|ControlFlagGrabbed|ControlFlagDisabled) == 0
}

// InRange reports whether v lies within [Min, Max] on the control's step.
func (c ControlInfo) InRange(v int32) bool {
	if v < c.Min || v > c.Max {
		return false
	}
	if c.Step > 1 {
		return (int64(v)-int64(c.Min))%int64(c.Step) == 0
	}
	return true
}

func (c ControlInfo) String() string {
	return fmt.Sprintf("%s (%s) min=%d max=%d step=%d default=%d", c.Name, c.Type, c.Min, c.Max, c.Step, c.Default)
}
