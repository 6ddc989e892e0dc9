package lapse

import "time"

// epoch is an arbitrary t0 carrying a monotonic reading.
var epoch = time.Now()

// runtimeMonotonic uses the monotonic reading embedded in time.Time.
func runtimeMonotonic() (int64, int64) {
	d := time.Since(epoch)
	return int64(d / time.Second), int64(d % time.Second)
}
