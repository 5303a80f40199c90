// Package logging builds the leveled stderr logger used across commands.
package logging

import (
	"io"

	"github.com/charmbracelet/log"
)

// Options holds configuration for the logger.
type Options struct {
	Debug           bool
	ReportTimestamp bool
	Prefix          string
}

// DefaultOptions returns default options: warnings only, no timestamps.
func DefaultOptions() Options {
	return Options{
		Prefix: "todoclist",
	}
}

// New creates a logger writing to w.
// Debug messages are only emitted when opts.Debug is set.
func New(w io.Writer, opts Options) *log.Logger {
	level := log.WarnLevel
	if opts.Debug {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Formatter:       log.TextFormatter,
		ReportTimestamp: opts.ReportTimestamp,
		Prefix:          opts.Prefix,
	})
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
