//go:build !linux

package lapse

func monotonic() (int64, int64) {
	return runtimeMonotonic()
}
