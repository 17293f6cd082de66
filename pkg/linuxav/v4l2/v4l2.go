// Package v4l2 provides pure Go bindings to the Video4Linux2 (V4L2) API for
// device discovery, capability checks and format queries.
//
// This package does not use cgo, enabling simple cross-compilation for
// different Linux architectures (amd64, arm64, arm). The value types
// (FourCC, CapabilitySet, FormatCatalog, FrameSizes, StreamParm) build on
// every platform; only the kernel backend is Linux specific.
//
// # Opening a Device
//
// Open queries a node once and keeps the results:
//
//	dev, err := v4l2.OpenCapture("/dev/video0")
//	if errors.Is(err, v4l2.ErrDeviceNotCapable) {
//	    // not a capture node
//	}
//	defer dev.Close()
//	fmt.Println(dev.Capabilities())
//	for _, code := range dev.FrameSizeFormats() {
//	    sizes, _ := dev.FrameSizes(code)
//	    fmt.Println(sizes)
//	}
//
// # Device Enumeration
//
// Use FindDevices to discover the video nodes on the system:
//
//	devices, err := v4l2.FindDevices()
//	for _, dev := range devices {
//	    fmt.Printf("%s: %s\n", dev.DevicePath, dev.DeviceName)
//	}
//
// # Testing
//
// The Backend and Handle interfaces stand in for the kernel. Pass a fake with
// WithBackend to exercise Open without hardware.
package v4l2
