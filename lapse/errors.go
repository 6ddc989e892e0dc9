package lapse

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSlot is returned for slot ids out of range or never named.
	ErrInvalidSlot = errors.New("invalid slot")

	// ErrSlotExhausted is returned by [Registry.NameSlot] once every slot is named.
	ErrSlotExhausted = errors.New("all slots are named")

	// ErrBufferFull is returned when a slot already holds capacity samples.
	ErrBufferFull = errors.New("slot buffer is full")

	// ErrNoSamples is returned by statistics of a slot without complete samples.
	ErrNoSamples = errors.New("slot has no samples")

	// ErrAllocation is returned by [Registry.Init] when sample storage cannot be allocated.
	ErrAllocation = errors.New("cannot allocate sample storage")

	// ErrInvalidCapacity is returned by [Registry.Init] for a capacity < 1.
	ErrInvalidCapacity = errors.New("capacity must be > 0")

	// ErrNotInitialized is returned by operations on a registry before [Registry.Init].
	ErrNotInitialized = errors.New("registry not initialized")

	// ErrAlreadyInitialized is returned by a second [Registry.Init].
	ErrAlreadyInitialized = errors.New("registry already initialized")

	// ErrAlreadyTornDown is returned by operations on a registry after [Registry.Teardown].
	ErrAlreadyTornDown = errors.New("registry already torn down")
)

// SlotError records a failed operation on a slot.
type SlotError struct {
	Op   string
	Slot int
	Err  error
}

func (e *SlotError) Error() string {
	return fmt.Sprintf("lapse: %s slot %d: %v", e.Op, e.Slot, e.Err)
}

func (e *SlotError) Unwrap() error { return e.Err }

func slotError(op string, slot int, err error) error {
	return &SlotError{Op: op, Slot: slot, Err: err}
}
