package lapse

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"golang.org/x/exp/slog"
)

// # RegistryBuilder
//
// RegistryBuilder implements a builder pattern to generate new registries.
// Everything set on a builder is fixed for the lifetime of the registries it
// generates.
// Its zero value has no particular meaning and should not be used.
// A RegistryBuilder should always be instantiated using [NewRegistryBuilder].
type RegistryBuilder struct {
	maxSlots   int
	maxNameLen int
	clock      Clock
	out        io.Writer
	format     Format
	locking    bool
	unnamed    bool
}

// NewRegistryBuilder returns a [RegistryBuilder] which will generate
// registries that:
//   - have [DefaultMaxSlots] slots with names of at most [DefaultMaxNameLen] bytes
//   - read the [Monotonic] clock
//   - report TSV rows to [os.Stdout]
//   - are not synchronized
//   - only accept slots allocated with [Registry.NameSlot]
func NewRegistryBuilder() *RegistryBuilder {
	return &RegistryBuilder{
		maxSlots:   DefaultMaxSlots,
		maxNameLen: DefaultMaxNameLen,
		clock:      Monotonic,
		out:        os.Stdout,
		format:     FormatTSV,
		locking:    false,
		unnamed:    false,
	}
}

// NewRegistry generates a new uninitialized registry whose characteristics
// are based on rb's state. [Registry.Init] must be called before use.
func (rb *RegistryBuilder) NewRegistry() *Registry {
	return &Registry{
		maxSlots:   rb.maxSlots,
		maxNameLen: rb.maxNameLen,
		clock:      rb.clock,
		out:        rb.out,
		format:     rb.format,
		locking:    rb.locking,
		unnamed:    rb.unnamed,
	}
}

// New generates a new registry and initializes it with the given capacity.
func (rb *RegistryBuilder) New(capacity int) (*Registry, error) {
	r := rb.NewRegistry()
	if err := r.Init(capacity); err != nil {
		return nil, err
	}
	return r, nil
}

// New is equivalent to:
//
//	NewRegistryBuilder().New(capacity)
func New(capacity int) (*Registry, error) {
	return NewRegistryBuilder().New(capacity)
}

// Copy generates and returns a copy of rb.
func (rb RegistryBuilder) Copy() *RegistryBuilder {
	return &rb
}

// WithMaxSlots modifies and returns rb, setting the number of slots of new
// registries to n. Values < 1 are ignored.
func (rb *RegistryBuilder) WithMaxSlots(n int) *RegistryBuilder {
	if n < 1 {
		logger.Error("number of slots must be > 0, keeping previous value",
			slog.Int("n", n), slog.Int("slots", rb.maxSlots))
		return rb
	}
	rb.maxSlots = n
	return rb
}

// WithMaxNameLen modifies and returns rb, setting the maximum slot name
// length in bytes to n. Values < 1 are ignored.
func (rb *RegistryBuilder) WithMaxNameLen(n int) *RegistryBuilder {
	if n < 1 {
		logger.Error("name length must be > 0, keeping previous value",
			slog.Int("n", n), slog.Int("length", rb.maxNameLen))
		return rb
	}
	rb.maxNameLen = n
	return rb
}

// WithClock modifies and returns rb, making new registries read c.
// A nil c restores [Monotonic].
func (rb *RegistryBuilder) WithClock(c Clock) *RegistryBuilder {
	if c == nil {
		c = Monotonic
	}
	rb.clock = c
	return rb
}

// WithOutput modifies and returns rb, making new registries write their
// reports to w. The registry never closes w.
func (rb *RegistryBuilder) WithOutput(w io.Writer) *RegistryBuilder {
	rb.out = w
	return rb
}

// WithFormat modifies and returns rb, setting the format used by
// [Registry.Print] and [Registry.Teardown].
func (rb *RegistryBuilder) WithFormat(f Format) *RegistryBuilder {
	rb.format = f
	return rb
}

// AddLocking modifies and returns rb, making new registries safe for
// concurrent use. Every operation then acquires a registry lock and a slot
// lock, which adds measurable overhead to each sample.
// Concurrent Begin/End calls on the same slot still share the same sample
// index, so each slot should be timed by one goroutine at a time.
func (rb *RegistryBuilder) AddLocking() *RegistryBuilder {
	rb.locking = true
	return rb
}

// RemoveLocking modifies and returns rb, making new registries
// unsynchronized. This is the default.
func (rb *RegistryBuilder) RemoveLocking() *RegistryBuilder {
	rb.locking = false
	return rb
}

// AddUnnamedSlots modifies and returns rb, allowing new registries to record
// samples on slots that were never allocated by [Registry.NameSlot]. Such
// slots are reported with their numeric default name.
func (rb *RegistryBuilder) AddUnnamedSlots() *RegistryBuilder {
	rb.unnamed = true
	return rb
}

// RemoveUnnamedSlots modifies and returns rb, making new registries reject
// slots not allocated by [Registry.NameSlot] with [ErrInvalidSlot].
func (rb *RegistryBuilder) RemoveUnnamedSlots() *RegistryBuilder {
	rb.unnamed = false
	return rb
}

func (rb RegistryBuilder) String() string {
	b := bytes.NewBufferString("")

	b.WriteString(fmt.Sprintf("slots: %d\n", rb.maxSlots))
	b.WriteString(fmt.Sprintf("name length: %d\n", rb.maxNameLen))
	b.WriteString(fmt.Sprintf("format: %s\n", rb.format))
	b.WriteString(fmt.Sprintf("locking: %t\n", rb.locking))
	b.WriteString(fmt.Sprintf("unnamed slots: %t\n", rb.unnamed))

	return b.String()
}
