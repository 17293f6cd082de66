package devices

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// devRoot is the directory device nodes and v4l symlinks live under.
var devRoot = "/dev"

// ResolveDevicePath turns a device reference into a node path. It accepts a
// path under /dev, a bare node name ("video0"), or a stable identifier from
// /dev/v4l/by-id or /dev/v4l/by-path.
func ResolveDevicePath(ref string) (string, error) {
	switch {
	case ref == "":
		return "", newRegistryError(ErrCodeDeviceNotFound, "empty device reference", nil)
	case strings.HasPrefix(ref, devRoot+"/"):
		return ref, nil
	case strings.HasPrefix(ref, "video") && !strings.Contains(ref, "/"):
		return filepath.Join(devRoot, ref), nil
	}

	for _, dir := range []string{"v4l/by-id", "v4l/by-path"} {
		link := filepath.Join(devRoot, dir, ref)
		if _, err := os.Stat(link); err == nil {
			if target, err := filepath.EvalSymlinks(link); err == nil {
				return target, nil
			}
			return link, nil
		}
	}

	return "", newRegistryError(ErrCodeDeviceNotFound,
		fmt.Sprintf("no device node or stable link for %q", ref), nil)
}
