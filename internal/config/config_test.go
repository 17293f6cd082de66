package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/spf13/cobra"
)

type testOptions struct {
	Config string

	Port     string   `toml:"server.port" env:"SERVER_PORT"`
	Hotplug  bool     `toml:"devices.hotplug" env:"DEVICES_HOTPLUG"`
	Workers  int      `toml:"devices.workers" env:"DEVICES_WORKERS"`
	Timeout  uint32   `toml:"devices.timeout_ms" env:"DEVICES_TIMEOUT_MS"`
	Paths    []string `toml:"devices.paths" env:"DEVICES_PATHS"`
	LogLevel string   `toml:"logging.level" env:"LOG_LEVEL"`
	BufType  string   `toml:"devices.buffer_type" name:"type"`
}

const sampleTOML = `
[server]
port = ":9000"

[devices]
hotplug = true
workers = 4
timeout_ms = 250
paths = ["/dev/video0", "/dev/video2"]
buffer_type = "capture-mplane"

[logging]
level = "debug"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigFromTOML(t *testing.T) {
	opts := &testOptions{Config: writeConfig(t, sampleTOML)}
	if err := LoadConfig(opts, nil); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if opts.Port != ":9000" {
		t.Errorf("Port = %q", opts.Port)
	}
	if !opts.Hotplug {
		t.Error("Hotplug should be true")
	}
	if opts.Workers != 4 || opts.Timeout != 250 {
		t.Errorf("Workers = %d, Timeout = %d", opts.Workers, opts.Timeout)
	}
	if !reflect.DeepEqual(opts.Paths, []string{"/dev/video0", "/dev/video2"}) {
		t.Errorf("Paths = %v", opts.Paths)
	}
	if opts.BufType != "capture-mplane" {
		t.Errorf("BufType = %q", opts.BufType)
	}
}

func TestLoadConfigEnvOverridesTOML(t *testing.T) {
	t.Setenv("VIDEODEV_SERVER_PORT", ":7000")
	t.Setenv("VIDEODEV_DEVICES_HOTPLUG", "false")
	t.Setenv("VIDEODEV_DEVICES_PATHS", " /dev/video4 , ,/dev/video5")

	opts := &testOptions{Config: writeConfig(t, sampleTOML)}
	if err := LoadConfig(opts, nil); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if opts.Port != ":7000" {
		t.Errorf("Port = %q, want env value", opts.Port)
	}
	if opts.Hotplug {
		t.Error("Hotplug should be overridden to false")
	}
	if !reflect.DeepEqual(opts.Paths, []string{"/dev/video4", "/dev/video5"}) {
		t.Errorf("Paths = %v", opts.Paths)
	}
	if opts.Workers != 4 {
		t.Errorf("Workers = %d, want TOML value", opts.Workers)
	}
}

func TestLoadConfigFlagsWin(t *testing.T) {
	t.Setenv("VIDEODEV_LOG_LEVEL", "error")

	opts := &testOptions{Config: writeConfig(t, sampleTOML)}
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().StringVar(&opts.Port, "port", ":8090", "")
	cmd.Flags().StringVar(&opts.LogLevel, "log-level", "info", "")
	cmd.Flags().StringVar(&opts.BufType, "type", "capture", "")
	if err := cmd.Flags().Parse([]string{"--port", ":1234", "--log-level", "warn", "--type", "output"}); err != nil {
		t.Fatal(err)
	}

	if err := LoadConfig(opts, cmd); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	tests := []struct {
		field string
		got   string
		want  string
	}{
		{"Port", opts.Port, ":1234"},
		{"LogLevel", opts.LogLevel, "warn"},
		{"BufType", opts.BufType, "output"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %q, want %q", tt.field, tt.got, tt.want)
		}
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		toml string
		env  map[string]string
	}{
		{"invalid syntax", "[server\nport = 1", nil},
		{"wrong type", "[server]\nport = 8090\n", nil},
		{"negative unsigned", "[devices]\ntimeout_ms = -1\n", nil},
		{"bad env int", "", map[string]string{"VIDEODEV_DEVICES_WORKERS": "many"}},
		{"bad env bool", "", map[string]string{"VIDEODEV_DEVICES_HOTPLUG": "perhaps"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			opts := &testOptions{Config: writeConfig(t, tt.toml)}
			if err := LoadConfig(opts, nil); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	opts := &testOptions{Config: filepath.Join(t.TempDir(), "missing.toml"), Port: ":8090"}
	if err := LoadConfig(opts, nil); err != nil {
		t.Fatalf("missing file should not fail: %v", err)
	}
	if opts.Port != ":8090" {
		t.Errorf("Port = %q, want default kept", opts.Port)
	}
}

func TestLoadConfigRejectsNonPointer(t *testing.T) {
	if err := LoadConfig(testOptions{}, nil); err == nil {
		t.Error("expected error for non-pointer")
	}
}

func TestGetNestedValue(t *testing.T) {
	data := map[string]any{
		"level1": map[string]any{
			"level2": map[string]any{"value": "nested_value"},
			"simple": "simple_value",
		},
		"root": "root_value",
	}

	tests := []struct {
		path     string
		expected any
	}{
		{"root", "root_value"},
		{"level1.simple", "simple_value"},
		{"level1.level2.value", "nested_value"},
		{"nonexistent", nil},
		{"root.child", nil},
		{"level1.nonexistent", nil},
	}

	for _, tt := range tests {
		if got := getNestedValue(data, tt.path); got != tt.expected {
			t.Errorf("getNestedValue(%q) = %v, want %v", tt.path, got, tt.expected)
		}
	}
}

func TestFieldNameToFlag(t *testing.T) {
	tests := map[string]string{
		"Port":           "port",
		"LogLevel":       "log-level",
		"DevicesHotplug": "devices-hotplug",
		"APIPrefix":      "api-prefix",
	}
	for in, want := range tests {
		if got := fieldNameToFlag(in); got != want {
			t.Errorf("fieldNameToFlag(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestReadLoggingConfig(t *testing.T) {
	path := writeConfig(t, `
[logging]
level = "warn"
format = "json"
journal = true
hotplug = "error"

[logging.modules]
v4l2 = "debug"
devices = "info"
`)

	cfg, err := ReadLoggingConfig(path)
	if err != nil {
		t.Fatalf("ReadLoggingConfig failed: %v", err)
	}
	if cfg.Level != "warn" || cfg.Format != "json" || !cfg.Journal {
		t.Errorf("unexpected config %+v", cfg)
	}

	want := map[string]string{"v4l2": "debug", "devices": "info", "hotplug": "error"}
	if !reflect.DeepEqual(cfg.Modules, want) {
		t.Errorf("Modules = %v, want %v", cfg.Modules, want)
	}
}

func TestReadLoggingConfigInvalidLevel(t *testing.T) {
	path := writeConfig(t, "[logging]\nlevel = \"loud\"\n")
	if _, err := ReadLoggingConfig(path); err == nil {
		t.Error("expected error for invalid level")
	}
}

func TestLoadLoggingConfigDefaults(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"empty path", ""},
		{"missing file", filepath.Join(t.TempDir(), "none.toml")},
		{"broken file", writeConfig(t, "[logging\n")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := LoadLoggingConfig(tt.path)
			if cfg.Level != "info" || cfg.Format != "text" {
				t.Errorf("expected defaults, got %+v", cfg)
			}
		})
	}
}
