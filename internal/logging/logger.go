// Package logging wraps github.com/rs/zerolog behind the same small
// surface the teacher's internal/logger package exposed, so callers never
// see the zerolog API directly.
package logging

import (
	"io"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

// Options describes logger configuration supplied at creation time.
type Options struct {
	Level         string
	HumanReadable bool
	Writer        io.Writer
	Layer         string
	Component     string
}

// Logger is a thin, structured wrapper around a configured zerolog.Logger.
type Logger struct {
	base zerolog.Logger
}

// New creates a configured Logger from Options. An empty Level means info;
// an unrecognised Level is returned as an error.
func New(opts Options) (*Logger, error) {
	writer := opts.Writer
	if writer == nil {
		writer = os.Stdout
	}
	if opts.HumanReadable {
		writer = zerolog.ConsoleWriter{Out: writer, NoColor: false}
	}

	level := zerolog.InfoLevel
	if opts.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return nil, err
		}
		level = parsed
	}

	ctx := zerolog.New(writer).Level(level).With().Timestamp()
	if opts.Layer != "" {
		ctx = ctx.Str("layer", opts.Layer)
	}
	if opts.Component != "" {
		ctx = ctx.Str("component", opts.Component)
	}

	return &Logger{base: ctx.Logger()}, nil
}

// WithFields returns a derived logger that always writes the supplied
// fields, in sorted key order for deterministic output.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	if l == nil || len(fields) == 0 {
		return l
	}
	ctx := l.base.With()
	for _, k := range sortedKeys(fields) {
		ctx = ctx.Interface(k, fields[k])
	}
	return &Logger{base: ctx.Logger()}
}

// Info writes an informational log entry.
func (l *Logger) Info(msg string) {
	if l == nil {
		return
	}
	l.base.Info().Msg(strings.TrimSpace(msg))
}

// Debug writes a debug-level log entry if enabled.
func (l *Logger) Debug(msg string) {
	if l == nil {
		return
	}
	l.base.Debug().Msg(strings.TrimSpace(msg))
}

// Warn writes a warning-level log entry.
func (l *Logger) Warn(msg string) {
	if l == nil {
		return
	}
	l.base.Warn().Msg(strings.TrimSpace(msg))
}

// Error writes an error-level log entry including the supplied error.
func (l *Logger) Error(err error, msg string) {
	if l == nil {
		return
	}
	event := l.base.Error()
	if err != nil {
		event = event.Err(err)
	}
	event.Msg(strings.TrimSpace(msg))
}

func sortedKeys(fields map[string]any) []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
