package lapse

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/exp/slog"
)

type state int

const (
	uninitialized state = iota
	initialized
	tornDown
)

func (s state) String() string {
	switch s {
	case uninitialized:
		return "uninitialized"
	case initialized:
		return "initialized"
	case tornDown:
		return "torn down"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// # Registry
//
// Represents a fixed set of timer slots sharing the same sample capacity.
// A registry goes through three states: it is created uninitialized,
// [Registry.Init] allocates its storage and calibrates slot 0, and
// [Registry.Teardown] reports and releases it. A torn down registry cannot be
// initialized again.
//
// A Registry is not safe for concurrent use unless it was generated by a
// builder with [RegistryBuilder.AddLocking].
// Its zero value is an uninitialized registry with the default
// configuration of [NewRegistryBuilder].
type Registry struct {
	mu    sync.RWMutex // used only when locking is set
	state state

	capacity int
	cursor   int
	slots    []slot

	maxSlots   int
	maxNameLen int
	clock      Clock
	out        io.Writer
	format     Format
	locking    bool
	unnamed    bool
}

// Init allocates room for capacity samples in every slot, names
// [CalibrationSlot] [CalibrationName] and fills it with capacity samples,
// each timing a single clock read.
func (r *Registry) Init(capacity int) error {
	if err := r.allocate(capacity); err != nil {
		return err
	}

	for k := 0; k < capacity; k++ {
		if err := r.Begin(CalibrationSlot); err != nil {
			return err
		}
		r.clock()
		if err := r.End(CalibrationSlot); err != nil {
			return err
		}
	}

	if logger.Enabled(context.Background(), slog.LevelDebug) {
		overhead, _ := r.Overhead()
		logger.Debug("registry initialized",
			slog.Int("capacity", capacity),
			slog.Int("slots", r.MaxSlots()),
			slog.Float64("overhead", overhead))
	}

	return nil
}

func (r *Registry) allocate(capacity int) error {
	if r.locking {
		r.mu.Lock()
		defer r.mu.Unlock()
	}

	switch r.state {
	case initialized:
		return ErrAlreadyInitialized
	case tornDown:
		return ErrAlreadyTornDown
	}

	if capacity <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}

	r.defaults()

	slots := make([]slot, r.maxSlots)
	for i := range slots {
		if err := slots[i].allocate(i, capacity); err != nil {
			logger.Error("sample storage allocation failed",
				slog.Int("capacity", capacity),
				slog.Int("slot", i),
				slog.String("error", err.Error()))
			return err
		}
	}

	// the calibration slot is named before any other caller can see r
	calib := &slots[CalibrationSlot]
	calib.name = truncate(CalibrationName, r.maxNameLen)
	calib.named = true

	r.slots = slots
	r.capacity = capacity
	r.cursor = CalibrationSlot + 1
	r.state = initialized

	return nil
}

// defaults fills the configuration of a zero value registry.
func (r *Registry) defaults() {
	if r.maxSlots < 1 {
		r.maxSlots = DefaultMaxSlots
	}
	if r.maxNameLen < 1 {
		r.maxNameLen = DefaultMaxNameLen
	}
	if r.clock == nil {
		r.clock = Monotonic
	}
	if r.out == nil {
		r.out = os.Stdout
	}
}

// NameSlot names the next unused slot label, truncated to the maximum name
// length, and returns its id. Ids are handed out sequentially; the first one
// is [CalibrationSlot], which [Registry.Init] names itself.
func (r *Registry) NameSlot(label string) (int, error) {
	if r.locking {
		r.mu.Lock()
		defer r.mu.Unlock()
	}

	if err := r.usable(); err != nil {
		return -1, slotError("name", r.cursor, err)
	}

	if r.cursor >= len(r.slots) {
		logger.Error("cannot name slot, all slots are named",
			slog.String("label", label),
			slog.Int("slots", len(r.slots)))
		return -1, slotError("name", r.cursor, ErrSlotExhausted)
	}

	name := truncate(label, r.maxNameLen)
	if name != label {
		logger.Warn("slot name truncated",
			slog.String("label", label),
			slog.String("name", name))
	}

	id := r.cursor
	s := &r.slots[id]
	s.name = name
	s.named = true
	r.cursor++

	return id, nil
}

// Begin records the current time as the start of the next sample of slot id.
func (r *Registry) Begin(id int) error {
	if r.locking {
		r.mu.RLock()
		defer r.mu.RUnlock()
	}

	s, err := r.slot(id)
	if err != nil {
		return slotError("begin", id, err)
	}

	if r.locking {
		s.mu.Lock()
		defer s.mu.Unlock()
	}

	if s.full() {
		return slotError("begin", id, ErrBufferFull)
	}

	s.begins[s.count] = r.clock.read()
	return nil
}

// End records the current time as the end of the next sample of slot id and
// completes the sample. End does not check that Begin was called for the
// same sample: an unpaired End records a meaningless duration.
func (r *Registry) End(id int) error {
	if r.locking {
		r.mu.RLock()
		defer r.mu.RUnlock()
	}

	s, err := r.slot(id)
	if err != nil {
		return slotError("end", id, err)
	}

	if r.locking {
		s.mu.Lock()
		defer s.mu.Unlock()
	}

	if s.full() {
		return slotError("end", id, ErrBufferFull)
	}

	s.ends[s.count] = r.clock.read()
	s.count++
	return nil
}

// Count returns the number of complete samples of slot id.
func (r *Registry) Count(id int) (int, error) {
	if r.locking {
		r.mu.RLock()
		defer r.mu.RUnlock()
	}

	s, err := r.slot(id)
	if err != nil {
		return 0, slotError("count", id, err)
	}

	if r.locking {
		s.mu.Lock()
		defer s.mu.Unlock()
	}

	return s.count, nil
}

// Name returns the display name of slot id.
func (r *Registry) Name(id int) (string, error) {
	if r.locking {
		r.mu.RLock()
		defer r.mu.RUnlock()
	}

	s, err := r.slot(id)
	if err != nil {
		return "", slotError("name", id, err)
	}

	return s.name, nil
}

// Capacity returns the number of samples each slot can hold, 0 if r is not
// initialized.
func (r *Registry) Capacity() int {
	if r.locking {
		r.mu.RLock()
		defer r.mu.RUnlock()
	}

	return r.capacity
}

// MaxSlots returns the number of slots of r.
func (r *Registry) MaxSlots() int {
	if r.locking {
		r.mu.RLock()
		defer r.mu.RUnlock()
	}

	return r.slotCount()
}

func (r *Registry) slotCount() int {
	if r.maxSlots < 1 {
		return DefaultMaxSlots
	}
	return r.maxSlots
}

// Teardown writes the report of the calibration slot, with a header, and of
// every other slot holding samples, then releases all sample storage.
// Any later operation on r fails with [ErrAlreadyTornDown].
func (r *Registry) Teardown() error {
	rows, err := r.release()
	if err != nil {
		return err
	}

	logger.Debug("registry torn down", slog.Int("reported", len(rows)))

	return r.render(r.out, rows)
}

func (r *Registry) release() ([]row, error) {
	if r.locking {
		r.mu.Lock()
		defer r.mu.Unlock()
	}

	if err := r.usable(); err != nil {
		return nil, err
	}

	rows := r.rows()

	for i := range r.slots {
		r.slots[i].release()
	}
	r.slots = nil
	r.state = tornDown

	return rows, nil
}

// usable reports whether r is in the initialized state.
func (r *Registry) usable() error {
	switch r.state {
	case uninitialized:
		return ErrNotInitialized
	case tornDown:
		return ErrAlreadyTornDown
	}
	return nil
}

// slot returns slot id if it can be used to record samples.
func (r *Registry) slot(id int) (*slot, error) {
	if err := r.usable(); err != nil {
		return nil, err
	}

	if id < 0 || id >= len(r.slots) {
		return nil, fmt.Errorf("%w: valid ids are [0, %d)", ErrInvalidSlot, len(r.slots))
	}

	s := &r.slots[id]
	if !s.named && !r.unnamed {
		return nil, fmt.Errorf("%w: slot was never named", ErrInvalidSlot)
	}

	return s, nil
}

func (r *Registry) String() string {
	if r.locking {
		r.mu.RLock()
		defer r.mu.RUnlock()
	}

	b := bytes.NewBufferString("")

	b.WriteString(fmt.Sprintf("[Registry %s]\n", r.state))
	b.WriteString(fmt.Sprintf("capacity: %d\n", r.capacity))
	b.WriteString(fmt.Sprintf("named: %d/%d\n", r.cursor, r.slotCount()))
	b.WriteString(fmt.Sprintf("locking: %t\n", r.locking))
	b.WriteString("slots:\n")
	for i := range r.slots {
		s := &r.slots[i]
		if r.locking {
			s.mu.Lock()
		}
		count := s.count
		if r.locking {
			s.mu.Unlock()
		}
		b.WriteString(fmt.Sprintf("\t%d %s: %d samples\n", i, s.name, count))
	}

	return b.String()
}
