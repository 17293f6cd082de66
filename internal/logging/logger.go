package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

const defaultHistorySize = 500

// Config is the [logging] section of the configuration file.
type Config struct {
	Level   string            `toml:"level" env:"LOG_LEVEL"`
	Format  string            `toml:"format" env:"LOG_FORMAT"`
	Journal bool              `toml:"journal" env:"LOG_JOURNAL"`
	Modules map[string]string `toml:"modules"`
}

var (
	mutex         sync.RWMutex
	current       Config
	isInitialized bool
	rootLevel               = &slog.LevelVar{}
	loggers                 = make(map[string]*slog.Logger)
	levels                  = make(map[string]*slog.LevelVar)
	history                 = NewHistory(defaultHistorySize)
	output        io.Writer = os.Stdout
)

// Initialize installs the handler chain described by config and applies its
// levels to every module logger, including ones handed out earlier.
func Initialize(config Config) {
	mutex.Lock()
	defer mutex.Unlock()

	current = config
	isInitialized = true

	rootLevel.Set(levelOr(config.Level, slog.LevelInfo))
	for module, lv := range levels {
		lv.Set(moduleLevel(config, module))
		loggers[module] = slog.New(newHandler(config, lv)).With("module", module)
	}

	slog.SetDefault(slog.New(newHandler(config, rootLevel)))
}

// SetLevels changes the global and per-module levels without rebuilding
// handlers. Loggers already in use pick up the new levels immediately.
func SetLevels(level string, modules map[string]string) {
	mutex.Lock()
	defer mutex.Unlock()

	current.Level = level
	current.Modules = modules

	rootLevel.Set(levelOr(level, slog.LevelInfo))
	for module, lv := range levels {
		lv.Set(moduleLevel(current, module))
	}
}

// GetLogger returns the logger for module, creating it on first use.
func GetLogger(module string) *slog.Logger {
	mutex.RLock()
	logger, ok := loggers[module]
	mutex.RUnlock()
	if ok {
		return logger
	}

	mutex.Lock()
	defer mutex.Unlock()

	if logger, ok := loggers[module]; ok {
		return logger
	}

	lv := &slog.LevelVar{}
	cfg := current
	if !isInitialized {
		cfg = Config{Format: "text"}
	}
	lv.Set(moduleLevel(cfg, module))

	logger = slog.New(newHandler(cfg, lv)).With("module", module)
	loggers[module] = logger
	levels[module] = lv
	return logger
}

// SetOutput redirects console output for loggers built after the call.
// Call it before Initialize.
func SetOutput(w io.Writer) {
	mutex.Lock()
	defer mutex.Unlock()
	output = w
}

// Recent returns up to n of the most recent log entries, oldest first.
func Recent(n int) []LogEntry {
	return history.Recent(n)
}

func moduleLevel(cfg Config, module string) slog.Level {
	level := levelOr(cfg.Level, slog.LevelInfo)
	if override, ok := cfg.Modules[module]; ok {
		level = levelOr(override, level)
	}
	return level
}

// newHandler fans out to stdout, the systemd journal when enabled and
// reachable, and the in-memory history.
func newHandler(cfg Config, level slog.Leveler) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}

	var console slog.Handler
	if cfg.Format == "json" {
		console = slog.NewJSONHandler(output, opts)
	} else {
		console = slog.NewTextHandler(output, opts)
	}

	handlers := []slog.Handler{console}
	if cfg.Journal && IsJournalAvailable() {
		handlers = append(handlers, NewJournalHandler(level))
	}
	handlers = append(handlers, newHistoryHandler(history, level))

	return NewMultiHandler(handlers...)
}

func levelOr(s string, fallback slog.Level) slog.Level {
	if l, ok := parseLevel(s); ok {
		return l
	}
	return fallback
}

// parseLevel converts a level name to slog.Level.
func parseLevel(level string) (slog.Level, bool) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return 0, false
	}
}

// ValidLevel reports whether s names a log level.
func ValidLevel(s string) bool {
	_, ok := parseLevel(s)
	return ok
}
