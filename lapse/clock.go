package lapse

// Clock returns the current time of a monotonic source as seconds and
// nanoseconds since an arbitrary start point. It must never decrease and must
// not follow wall-clock adjustments.
type Clock func() (sec int64, nsec int64)

// Monotonic is the default [Clock] of the running platform.
var Monotonic Clock = monotonic

// # Timestamp
//
// A single clock reading.
type Timestamp struct {
	Sec  int64
	Nsec int64
}

func (c Clock) read() Timestamp {
	sec, nsec := c()
	return Timestamp{Sec: sec, Nsec: nsec}
}

// Seconds returns ts as seconds with a fractional nanosecond part.
func (ts Timestamp) Seconds() float64 {
	return float64(ts.Sec) + float64(ts.Nsec)/1e9
}
