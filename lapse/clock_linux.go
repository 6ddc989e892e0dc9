//go:build linux

package lapse

import (
	"golang.org/x/exp/slog"
	"golang.org/x/sys/unix"
)

// monotonic reads CLOCK_MONOTONIC, falling back to the runtime clock if the
// system call fails.
func monotonic() (int64, int64) {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
		logger.Error("clock_gettime failed, using runtime clock",
			slog.String("error", err.Error()))
		return runtimeMonotonic()
	}
	return int64(ts.Sec), int64(ts.Nsec)
}
