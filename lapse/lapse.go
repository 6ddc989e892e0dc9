// Package lapse provides fixed-overhead interval timing.
//
// Timings are organized in slots owned by a [Registry]. Each slot has a name
// and preallocated storage for a fixed number of begin/end samples, so that
// recording a sample never allocates. Slot 0 is reserved: [Registry.Init]
// fills it with samples that time a single clock read, giving the baseline
// overhead of the instrumentation itself.
//
//	 Registry (capacity 100)
//	  ├ 0 CLCK   100 samples
//	  ├ 1 WORK     5 samples
//	  ├ 2 2        0 samples
//	  └ ...
//
// Statistics (min, max, avg, total) are expressed in seconds and can be
// presented as TSV rows or as a table.
package lapse

import (
	"os"

	"golang.org/x/exp/slog"
)

const (
	// DefaultMaxSlots is the number of slots of a registry unless
	// [WithMaxSlots] is used.
	DefaultMaxSlots = 6

	// DefaultMaxNameLen is the maximum length in bytes of a slot name unless
	// [WithMaxNameLen] is used. Longer names are truncated.
	DefaultMaxNameLen = 15

	// CalibrationSlot is the slot used to measure clock-read overhead.
	CalibrationSlot = 0

	// CalibrationName is the name given to [CalibrationSlot].
	CalibrationName = "CLCK"
)

func init() {
	logLevel = new(slog.LevelVar)
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(h)
}

var (
	logger   *slog.Logger
	logLevel *slog.LevelVar
)

// SetLogger sets the logger used by lapse.
// [SetLogLevel] will not be enforced if a custom logger is used.
func SetLogger(newlogger *slog.Logger) {
	logger = newlogger
}

// SetLogLevel sets the level for lapse messages unless [SetLogger] has been called.
// The default log level is the zero value of [slog.LevelVar].
func SetLogLevel(level slog.Level) {
	logLevel.Set(level)
}
