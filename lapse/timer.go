package lapse

import "fmt"

// # Timer
//
// Represents a running sample of a slot.
// Its zero value has no meaning. A Timer should always be instantiated by
// calling [Registry.StartTimer].
type Timer struct {
	registry *Registry
	slot     int
}

// StartTimer begins a sample of slot id and returns a [Timer] that ends it.
func (r *Registry) StartTimer(id int) (*Timer, error) {
	if err := r.Begin(id); err != nil {
		return nil, err
	}
	return &Timer{registry: r, slot: id}, nil
}

// Stop ends the sample started by [Registry.StartTimer].
// A Timer can be stopped only once; later calls fail with [ErrInvalidSlot]
// and record nothing.
func (t *Timer) Stop() error {
	if t.registry == nil {
		return slotError("stop", t.slot, fmt.Errorf("%w: timer already stopped", ErrInvalidSlot))
	}

	r := t.registry
	t.registry = nil
	return r.End(t.slot)
}

// Time records one sample of slot id timing fn.
// fn is not called if the sample cannot be started.
func (r *Registry) Time(id int, fn func()) error {
	t, err := r.StartTimer(id)
	if err != nil {
		return err
	}
	fn()
	return t.Stop()
}
