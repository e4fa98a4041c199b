// Package logging provides the package-level *slog.Logger used for debug
// output across the editor and batch pipeline.
package logging

import (
	"log/slog"
	"sync/atomic"
)

// logger holds the process-wide logger. Defaults to nil, which makes
// Logger() return a discard logger.
var logger atomic.Pointer[slog.Logger]

// SetLogger configures the package-level logger for debug output. Pass nil
// to disable logging again.
//
// Safe for concurrent use.
func SetLogger(sl *slog.Logger) {
	if sl == nil {
		logger.Store(slog.New(slog.DiscardHandler))
	} else {
		logger.Store(sl)
	}
}

// Logger returns the package-level logger, or a discard logger when none has
// been set.
//
// Safe for concurrent use.
func Logger() *slog.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return slog.New(slog.DiscardHandler)
}
