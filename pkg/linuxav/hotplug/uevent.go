// Package hotplug watches kernel uevents for video device nodes appearing
// and disappearing, without cgo or libudev.
package hotplug

import (
	"bytes"
	"encoding/binary"
	"strconv"
	"strings"
	"sync"
)

// Action is the uevent ACTION value.
type Action string

// Uevent actions.
const (
	ActionAdd    Action = "add"
	ActionRemove Action = "remove"
	ActionChange Action = "change"
	ActionMove   Action = "move"
	ActionBind   Action = "bind"
	ActionUnbind Action = "unbind"
)

// Subsystems of interest.
const (
	SubsystemVideo4Linux = "video4linux"
	SubsystemUSB         = "usb"
)

// Event is a parsed kernel uevent.
type Event struct {
	Action    Action
	KObj      string // /devices/pci0000:00/.../video4linux/video0
	Subsystem string
	DevType   string
	DevName   string // video0, relative to /dev
	SysPath   string // DEVPATH, relative to /sys
	Seqnum    uint64
	Env       map[string]string
}

// DeviceNode returns the /dev path of the event's device node, or "" when the
// event carries no DEVNAME.
func (e Event) DeviceNode() string {
	if e.DevName == "" {
		return ""
	}
	if strings.HasPrefix(e.DevName, "/") {
		return e.DevName
	}
	return "/dev/" + e.DevName
}

// IsVideoNode reports whether the event concerns a /dev/videoN node.
func (e Event) IsVideoNode() bool {
	return e.Subsystem == SubsystemVideo4Linux && strings.HasPrefix(e.DevName, "video")
}

// libudev frames start with this prefix followed by a binary header.
var libudevPrefix = []byte("libudev\x00")

// Offset of properties_off in the libudev monitor header:
// prefix[8], magic u32, header_size u32, properties_off u32, properties_len u32.
const (
	libudevPropsOffset = 16
	libudevPropsLen    = 20
)

// ParseUEvent parses a kernel uevent ("ACTION@KOBJ\0KEY=VALUE\0...") or a
// libudev monitor frame. It returns nil for anything it cannot interpret.
func ParseUEvent(data []byte) *Event {
	if len(data) == 0 {
		return nil
	}
	if bytes.HasPrefix(data, libudevPrefix) {
		return parseLibudev(data)
	}

	parts := bytes.Split(data, []byte{0})
	header := string(parts[0])
	at := strings.IndexByte(header, '@')
	if at < 1 {
		return nil
	}

	e := &Event{
		Action: Action(header[:at]),
		KObj:   header[at+1:],
		Env:    make(map[string]string),
	}
	e.parseProperties(parts[1:])
	return e
}

func parseLibudev(data []byte) *Event {
	if len(data) < libudevPropsLen+4 {
		return nil
	}
	off := binary.NativeEndian.Uint32(data[libudevPropsOffset:])
	size := binary.NativeEndian.Uint32(data[libudevPropsLen:])
	if uint64(off)+uint64(size) > uint64(len(data)) || size == 0 {
		return nil
	}

	e := &Event{Env: make(map[string]string)}
	e.parseProperties(bytes.Split(data[off:off+size], []byte{0}))
	e.Action = Action(e.Env["ACTION"])
	e.KObj = e.SysPath
	if e.Action == "" {
		return nil
	}
	return e
}

func (e *Event) parseProperties(parts [][]byte) {
	for _, part := range parts {
		key, value, ok := strings.Cut(string(part), "=")
		if !ok || key == "" {
			continue
		}
		e.Env[key] = value

		switch key {
		case "SUBSYSTEM":
			e.Subsystem = value
		case "DEVTYPE":
			e.DevType = value
		case "DEVNAME":
			e.DevName = value
		case "DEVPATH":
			e.SysPath = value
		case "SEQNUM":
			e.Seqnum, _ = strconv.ParseUint(value, 10, 64)
		}
	}
}

// subsystemFilter is a concurrency-safe set of accepted subsystems. An empty
// filter accepts everything.
type subsystemFilter struct {
	mu  sync.RWMutex
	set map[string]struct{}
}

func (f *subsystemFilter) add(subsystem string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.set == nil {
		f.set = make(map[string]struct{})
	}
	f.set[subsystem] = struct{}{}
}

func (f *subsystemFilter) matches(e *Event) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if len(f.set) == 0 {
		return true
	}
	_, ok := f.set[e.Subsystem]
	return ok
}
