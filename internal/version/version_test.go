package version

import (
	"runtime"
	"testing"
)

func TestGet(t *testing.T) {
	old := Version
	Version = "1.2.3"
	t.Cleanup(func() { Version = old })

	info := Get()
	if info.Version != "1.2.3" {
		t.Errorf("Version = %q, want ldflags value", info.Version)
	}
	if info.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %q", info.GoVersion)
	}
	if info.Platform != runtime.GOOS+"/"+runtime.GOARCH {
		t.Errorf("Platform = %q", info.Platform)
	}
	if String() != "1.2.3" {
		t.Errorf("String() = %q", String())
	}
}
