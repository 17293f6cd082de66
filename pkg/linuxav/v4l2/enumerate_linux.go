//go:build linux

package v4l2

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

const (
	sysfsVideoDir = "/sys/class/video4linux"
	byIDDir       = "/dev/v4l/by-id"
)

// FindDevices lists every V4L2 video node that answers VIDIOC_QUERYCAP,
// sorted by path. Nodes that cannot be opened are skipped.
func FindDevices() ([]DeviceInfo, error) {
	entries, err := os.ReadDir(sysfsVideoDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []DeviceInfo{}, nil
		}
		return nil, fmt.Errorf("failed to read video4linux directory: %w", err)
	}

	logger := slog.With("component", "linuxav")
	backend := DefaultBackend()
	devices := []DeviceInfo{}

	for _, entry := range entries {
		if !strings.HasPrefix(entry.Name(), "video") {
			continue
		}

		devicePath := "/dev/" + entry.Name()

		h, openErr := backend.Open(devicePath)
		if openErr != nil {
			logger.Debug("failed to open video device", "path", devicePath, "error", openErr)
			continue
		}
		info, infoErr := h.Info()
		_ = h.Close()
		if infoErr != nil {
			logger.Debug("failed to query device capabilities", "path", devicePath, "error", infoErr)
			continue
		}

		index := readSysfsInt(filepath.Join(sysfsVideoDir, entry.Name(), "index"))
		stableID := findStableID(entry.Name(), index)
		if stableID == "" {
			stableID = syntheticID(info.BusInfo, index)
		}

		devices = append(devices, DeviceInfo{
			DevicePath: devicePath,
			DeviceName: info.Card,
			DeviceID:   stableID,
			Driver:     info.Driver,
			BusInfo:    info.BusInfo,
			Caps:       info.Effective(),
		})
	}

	sort.Slice(devices, func(i, j int) bool { return devices[i].DevicePath < devices[j].DevicePath })
	return devices, nil
}

// findStableID looks for a /dev/v4l/by-id symlink pointing at deviceName.
func findStableID(deviceName string, index int) string {
	entries, err := os.ReadDir(byIDDir)
	if err != nil {
		return ""
	}

	expectedSuffix := fmt.Sprintf("-video-index%d", index)

	for _, entry := range entries {
		if entry.Type()&os.ModeSymlink == 0 {
			continue
		}

		target, err := os.Readlink(filepath.Join(byIDDir, entry.Name()))
		if err != nil {
			continue
		}

		if filepath.Base(target) == deviceName && strings.HasSuffix(entry.Name(), expectedSuffix) {
			return entry.Name()
		}
	}

	return ""
}

// readSysfsInt reads an integer value from a sysfs file, or 0.
func readSysfsInt(path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0
	}
	val, _ := strconv.Atoi(strings.TrimSpace(string(data)))
	return val
}
