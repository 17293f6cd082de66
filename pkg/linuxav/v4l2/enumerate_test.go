package v4l2

import "testing"

func TestDeviceByID(t *testing.T) {
	devices := []DeviceInfo{
		{DevicePath: "/dev/video0", DeviceID: "usb-Logitech_C920-video-index0"},
		{DevicePath: "/dev/video2", DeviceID: "platform-vivid.0-video-index0"},
		{DevicePath: "/dev/video4"},
	}

	tests := []struct {
		id       string
		wantPath string
		wantOK   bool
	}{
		{id: "usb-Logitech_C920-video-index0", wantPath: "/dev/video0", wantOK: true},
		{id: "platform-vivid.0-video-index0", wantPath: "/dev/video2", wantOK: true},
		{id: "usb-Missing-video-index0"},
		{id: ""},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got, ok := DeviceByID(devices, tt.id)
			if ok != tt.wantOK || got.DevicePath != tt.wantPath {
				t.Errorf("DeviceByID(%q) = %q, %v; want %q, %v", tt.id, got.DevicePath, ok, tt.wantPath, tt.wantOK)
			}
		})
	}
}

func TestSyntheticID(t *testing.T) {
	tests := []struct {
		busInfo string
		index   int
		want    string
	}{
		{"usb-0000:00:14.0-1", 0, "usb-0000:00:14.0-1-video-index0"},
		{"platform:vivid-000", 1, "platform-platform:vivid-000-video-index1"},
	}
	for _, tt := range tests {
		if got := syntheticID(tt.busInfo, tt.index); got != tt.want {
			t.Errorf("syntheticID(%q, %d) = %q, want %q", tt.busInfo, tt.index, got, tt.want)
		}
	}
}
