// Package logging builds the slog logger shared by the commands.
package logging

import (
	"log/slog"
	"os"
)

// New returns a text logger when out is a terminal and a JSON logger
// otherwise. verbose enables debug output.
func New(verbose bool, out *os.File) (*slog.Logger, *slog.LevelVar) {
	level := &slog.LevelVar{}
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if IsTerminal(out) {
		handler = slog.NewTextHandler(out, opts)
	} else {
		handler = slog.NewJSONHandler(out, opts)
	}

	return slog.New(handler), level
}

// Setup installs the logger as the process default.
func Setup(verbose bool, out *os.File) {
	logger, level := New(verbose, out)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(level.Level())
}

// IsTerminal reports whether f is a character device.
func IsTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
