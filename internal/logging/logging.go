// Package logging builds the JSON logger shared by one curfew invocation.
// Every line carries the invocation's correlation id; the handle is passed
// into components explicitly, never held in package state.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// New returns a JSON slog logger writing to stderr with the correlation id
// attached to every record. Stdout stays reserved for the response envelope.
func New(level slog.Level, correlationID string) *slog.Logger {
	return NewWithWriter(os.Stderr, level, correlationID)
}

// NewWithWriter is New with an explicit sink, for tests.
func NewWithWriter(w io.Writer, level slog.Level, correlationID string) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With("correlation_id", correlationID)
}
