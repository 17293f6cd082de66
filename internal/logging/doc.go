// Package logging provides slog loggers with per-module levels.
//
// Initialize once at startup, then ask for a logger per module:
//
//	logging.Initialize(logging.Config{
//		Level:   "info",
//		Format:  "text",
//		Journal: true,
//		Modules: map[string]string{"v4l2": "debug"},
//	})
//	logger := logging.GetLogger("devices")
//
// Loggers handed out before Initialize are kept and follow later level
// changes; SetLevels adjusts levels at runtime, for example after the
// configuration file is edited.
//
// Records go to stdout (text or json), to the systemd journal when Journal
// is set and journald is reachable, and to an in-memory history that the
// HTTP API serves. Journal entries carry SYSLOG_IDENTIFIER=videodev:
//
//	journalctl -t videodev MODULE=devices
//
// Module names in use: v4l2, devices, hotplug, api, config, cli.
package logging
