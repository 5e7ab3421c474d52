package reactive

import (
	"sync"
	"time"
)

// Behavior models a continuous value: always available while live, pending
// only right after a genuinely new value lands. Delivering an equal value
// is dropped, giving behaviors value-identity semantics.
type Behavior struct {
	Base

	label string

	mu    sync.Mutex
	cell  RVT
	isNew bool
	live  bool
}

// NewBehavior creates a live Behavior seeded with an initial value.
func NewBehavior(label string, initial any) *Behavior {
	return &Behavior{
		label: label,
		cell:  RVT{Value: Of(initial), Time: time.Now()},
		live:  true,
	}
}

func (b *Behavior) Label() string { return b.label }

func (b *Behavior) NextValue() (RVT, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cell, b.live
}

func (b *Behavior) Available() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.live
}

func (b *Behavior) Pending() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.live && b.isNew
}

func (b *Behavior) Completed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return !b.live
}

func (b *Behavior) Consume() (RVT, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.live {
		return RVT{}, false
	}
	b.isNew = false
	return b.cell, true
}

func (b *Behavior) Deliver(rvt RVT) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.live {
		return false, ErrInvalidState
	}
	if rvt.Value.IsCompleted() {
		b.live = false
		return true, nil
	}
	if b.cell.Value.Equal(rvt.Value) {
		return false, nil
	}
	b.cell = rvt
	b.isNew = true
	return true, nil
}
