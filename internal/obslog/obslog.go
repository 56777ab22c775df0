// Package obslog provides the package-level structured logger shared by
// pool, url, lpath and the markup parser.
//
// The original C sources call log_error/log_debug at essentially every
// allocation and resolution failure (see path.c, target.cpp). This package
// gives the Go port the same always-available logging point, defaulting to
// a no-op so library consumers don't get log spam unless they opt in.
package obslog

import "go.uber.org/zap"

var logger = zap.NewNop().Sugar()

// SetLogger installs the logger used by the rest of the module. Passing nil
// restores the no-op default. Not safe to call concurrently with logging
// calls from other goroutines — call it once at process startup, before
// any Context is created (mirrors the spec's "initialized once... strictly
// read-only afterward" rule for process-wide state).
func SetLogger(l *zap.SugaredLogger) {
	if l == nil {
		logger = zap.NewNop().Sugar()
		return
	}
	logger = l
}

// L returns the active logger.
func L() *zap.SugaredLogger {
	return logger
}
