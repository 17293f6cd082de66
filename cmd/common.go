// Package cmd holds the videodev subcommands that run without the API server.
package cmd

import (
	"io"
	"os"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/smazurov/videodev/internal/config"
	"github.com/smazurov/videodev/internal/devices"
	"github.com/smazurov/videodev/internal/logging"
	"github.com/smazurov/videodev/pkg/linuxav/v4l2"
)

// Test hooks.
var (
	openOptions []v4l2.OpenOption
	finder      devices.Finder
)

// cliOptions are shared by every subcommand.
type cliOptions struct {
	Config     string `name:"config"`
	LogLevel   string `name:"log-level" toml:"logging.level" env:"LOG_LEVEL"`
	BufferType string `name:"type" toml:"devices.buffer_type" env:"DEVICES_BUFFER_TYPE"`
	JSON       bool   `name:"json"`
}

func addCommonFlags(cmd *cobra.Command, opts *cliOptions) {
	f := cmd.Flags()
	f.StringVarP(&opts.Config, "config", "c", "config.toml", "Path to configuration file")
	f.StringVar(&opts.LogLevel, "log-level", "warn", "Logging level (debug, info, warn, error)")
	f.StringVarP(&opts.BufferType, "type", "t", "capture", "Buffer type to open devices for")
	f.BoolVar(&opts.JSON, "json", false, "Print JSON instead of text")
}

// setup loads the configuration, starts stderr logging, and parses the
// buffer type. Module levels from the [logging] table of the config file
// apply on top of --log-level.
func setup(cmd *cobra.Command, opts *cliOptions) (v4l2.BufType, error) {
	if err := config.LoadConfig(opts, cmd); err != nil {
		return 0, err
	}

	logCfg := config.LoadLoggingConfig(opts.Config)
	logCfg.Level = opts.LogLevel
	logCfg.Format = "text"
	logCfg.Journal = false
	logging.SetOutput(cmd.ErrOrStderr())
	logging.Initialize(logCfg)

	return v4l2.ParseBufType(opts.BufferType)
}

func deviceOpenOptions() []v4l2.OpenOption {
	opts := []v4l2.OpenOption{v4l2.WithLogger(logging.GetLogger("v4l2"))}
	return append(opts, openOptions...)
}

func newRegistry(bt v4l2.BufType, extra ...devices.Option) *devices.Registry {
	opts := []devices.Option{
		devices.WithBufType(bt),
		devices.WithProber(devices.Opener{Options: deviceOpenOptions()}),
	}
	if finder != nil {
		opts = append(opts, devices.WithFinder(finder))
	}
	return devices.NewRegistry(append(opts, extra...)...)
}

// resolvePath accepts a path, node name, or stable identifier.
func resolvePath(ref string) (string, error) {
	if _, err := os.Stat(ref); err == nil {
		return ref, nil
	}
	return devices.ResolveDevicePath(ref)
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}
