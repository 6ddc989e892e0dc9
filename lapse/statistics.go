package lapse

import (
	"bytes"
	"fmt"
)

// # Stats
//
// Statistics of the complete samples of a slot. Durations are in seconds.
type Stats struct {
	Count int
	Min   float64
	Max   float64
	Avg   float64
	Total float64
}

func (st Stats) String() string {
	var b bytes.Buffer

	b.WriteString("[statistics]\n")
	b.WriteString(fmt.Sprintf("nsamples: %d\n", st.Count))
	b.WriteString(fmt.Sprintf("min: %e\n", st.Min))
	b.WriteString(fmt.Sprintf("max: %e\n", st.Max))
	b.WriteString(fmt.Sprintf("avg: %e\n", st.Avg))
	b.WriteString(fmt.Sprintf("total: %e\n", st.Total))

	return b.String()
}

// stats folds over the samples of s. The caller holds the locks.
func (s *slot) stats() (Stats, error) {
	if s.count == 0 {
		return Stats{}, ErrNoSamples
	}

	st := Stats{Count: s.count}
	first := true
	s.durations(func(d float64) {
		st.Total += d
		if first || d < st.Min {
			st.Min = d
		}
		if first || d > st.Max {
			st.Max = d
		}
		first = false
	})
	st.Avg = st.Total / float64(st.Count)

	return st, nil
}

// Stats returns the statistics of slot id, computed in a single pass.
// It fails with [ErrNoSamples] if the slot holds no complete sample.
func (r *Registry) Stats(id int) (Stats, error) {
	if r.locking {
		r.mu.RLock()
		defer r.mu.RUnlock()
	}

	s, err := r.slot(id)
	if err != nil {
		return Stats{}, slotError("stats", id, err)
	}

	if r.locking {
		s.mu.Lock()
		defer s.mu.Unlock()
	}

	st, err := s.stats()
	if err != nil {
		return Stats{}, slotError("stats", id, err)
	}
	return st, nil
}

// Total returns the sum of the durations of slot id.
func (r *Registry) Total(id int) (float64, error) {
	st, err := r.Stats(id)
	return st.Total, err
}

// Avg returns the mean duration of slot id, that is Total / Count.
func (r *Registry) Avg(id int) (float64, error) {
	st, err := r.Stats(id)
	return st.Avg, err
}

// Min returns the shortest duration of slot id.
func (r *Registry) Min(id int) (float64, error) {
	st, err := r.Stats(id)
	return st.Min, err
}

// Max returns the longest duration of slot id.
func (r *Registry) Max(id int) (float64, error) {
	st, err := r.Stats(id)
	return st.Max, err
}

// Overhead returns the mean duration of the calibration slot: the cost of
// one clock read plus the bookkeeping of [Registry.Begin] and [Registry.End].
// It can be subtracted from the durations of other slots.
func (r *Registry) Overhead() (float64, error) {
	return r.Avg(CalibrationSlot)
}
