// Package logging builds the component loggers used across zinc.
//
// Loggers write to stderr without timestamps. The level comes from
// ZINC_LOG_LEVEL (debug, info, warn, error) and defaults to warn so an
// embedded editor stays quiet inside a host program.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// EnvLevel names the environment variable holding the log level.
const EnvLevel = "ZINC_LOG_LEVEL"

// New returns a logger writing to stderr prefixed with component.
func New(component string) *log.Logger {
	return NewWithWriter(os.Stderr, component)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, component string) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		Prefix:          component,
		ReportTimestamp: false,
		Level:           Level(),
	})
	return l
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	l := log.New(io.Discard)
	l.SetLevel(log.FatalLevel + 1)
	return l
}

// OrDiscard returns l, or a discard logger when l is nil.
func OrDiscard(l *log.Logger) *log.Logger {
	if l == nil {
		return Discard()
	}
	return l
}

// Level parses ZINC_LOG_LEVEL. Unknown or empty values yield warn.
func Level() log.Level {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(EnvLevel)))
	if raw == "" {
		return log.WarnLevel
	}
	lvl, err := log.ParseLevel(raw)
	if err != nil {
		return log.WarnLevel
	}
	return lvl
}
