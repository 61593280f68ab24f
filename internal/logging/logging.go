// Package logging builds the application logger. Logs go to a rotated file
// because the terminal UI owns stdout.
package logging

import (
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/aurumfx/lbadmin/internal/config"
)

// FileName is the active log file inside the log directory.
const FileName = "lbadmin.log"

// Dir returns the directory log files are written to.
func Dir() string {
	return filepath.Join(config.ConfigDir(), "logs")
}

// New returns a logger writing to a rotated file under dir.
func New(cfg *config.Config, dir string) zerolog.Logger {
	file := &lumberjack.Logger{
		Filename:   filepath.Join(dir, FileName),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
	return NewWithWriter(cfg, file)
}

// NewWithWriter returns a logger writing to w, formatted per cfg.LogFormat.
func NewWithWriter(cfg *config.Config, w io.Writer) zerolog.Logger {
	out := w
	if cfg.LogFormat == "console" || cfg.LogFormat == "pretty" {
		out = zerolog.ConsoleWriter{
			Out:        w,
			NoColor:    true,
			TimeFormat: time.RFC3339,
		}
	}

	return zerolog.New(out).
		Level(ParseLevel(cfg.LogLevel)).
		With().
		Timestamp().
		Str("app", "lbadmin").
		Logger()
}

// ParseLevel converts a level name to a zerolog.Level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}
