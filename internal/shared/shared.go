// package shared holds the cross-cutting pieces every layer leans on:
// structured logging, TOML config, the sqlite handle and its embedded
// migrations, sentinel errors, and id generation.
package shared

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// NewLogger builds the app's [log.Logger] on the given writer, stderr when
// nil. Timestamps and caller reporting are always on.
func NewLogger(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	return log.NewWithOptions(w, log.Options{ReportTimestamp: true, ReportCaller: true})
}

// WithLogger derives a child logger carrying the given key-value pairs on
// every entry. Services and stores tag themselves with it at construction.
func WithLogger(l *log.Logger, kv ...any) *log.Logger {
	return l.With(kv...)
}

// SetLogLevel adjusts the minimum [log.Level] the logger emits.
func SetLogLevel(l *log.Logger, ll log.Level) {
	l.SetLevel(ll)
}

// GenerateID returns a fresh v4 uuid string. Cache batches use it as
// their surrogate key.
func GenerateID() string {
	return uuid.New().String()
}
