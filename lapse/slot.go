package lapse

import (
	"fmt"
	"strconv"
	"sync"
	"unicode/utf8"
)

// slot holds the preallocated samples of one timer.
// begins[k] and ends[k] form sample k; only the first count samples are
// complete.
type slot struct {
	mu    sync.Mutex // used only by registries built with locking
	name  string
	named bool

	begins []Timestamp
	ends   []Timestamp
	count  int
}

func (s *slot) allocate(id, capacity int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrAllocation, r)
		}
	}()

	s.name = strconv.Itoa(id)
	s.named = false
	s.count = 0
	s.begins = make([]Timestamp, capacity)
	s.ends = make([]Timestamp, capacity)

	return nil
}

func (s *slot) full() bool {
	return s.count == len(s.begins)
}

// durations calls f with the duration in seconds of each complete sample.
func (s *slot) durations(f func(d float64)) {
	for k := 0; k < s.count; k++ {
		f(s.ends[k].Seconds() - s.begins[k].Seconds())
	}
}

func (s *slot) release() {
	s.begins = nil
	s.ends = nil
}

// truncate shortens name to at most n bytes without splitting a rune.
func truncate(name string, n int) string {
	if len(name) <= n {
		return name
	}
	for n > 0 && !utf8.RuneStart(name[n]) {
		n--
	}
	return name[:n]
}
