// Package reactive defines the reactive abstraction: time-varying value
// sources that a link can read from and deliver into.
package reactive

import (
	"errors"
	"sync/atomic"
	"time"
)

// ID is a stable, network-scoped identifier for a reactive. Zero means
// "not yet assigned to any network".
type ID uint64

var (
	// ErrInvalidState is returned when a Behavior is delivered to while not live.
	ErrInvalidState = errors.New("reactive: invalid state")
	// ErrUnsupported is returned by variants that reject Deliver (SeqStream, FnBehavior).
	ErrUnsupported = errors.New("reactive: delivery unsupported")
	// ErrQueueOverflow is returned when an EventStream's bounded queue is full.
	ErrQueueOverflow = errors.New("reactive: queue overflow")
	// ErrCompleted is returned when delivering a non-completion value to a completed reactive.
	ErrCompleted = errors.New("reactive: already completed")
)

// RVT pairs a value with the timestamp it was produced or delivered at.
type RVT struct {
	Value Value
	Time  time.Time
}

// Reactive is the capability set every variant implements. Peek (NextValue),
// consume, and deliver are kept as separate verbs deliberately: the engine
// peeks for evaluation, then decides independently whether to consume.
type Reactive interface {
	// Label is a human-readable name for diagnostics; not used for identity.
	Label() string
	// NextValue peeks at the current value without consuming it.
	NextValue() (RVT, bool)
	// Available reports whether a value is ready to be consumed.
	Available() bool
	// Pending reports whether a value waits that should trigger propagation.
	Pending() bool
	// Completed reports the terminal state.
	Completed() bool
	// Consume reads and advances state, at most meaningfully once per cycle.
	Consume() (RVT, bool)
	// Deliver pushes a value in. The bool return reports whether propagation
	// should run as a result.
	Deliver(rvt RVT) (bool, error)

	// NetworkID returns the id assigned by the network that first observed
	// this reactive, or 0 if none has claimed it yet.
	NetworkID() ID
	// TrySetNetworkID assigns id exactly once (first writer wins); it
	// reports whether this call performed the assignment.
	TrySetNetworkID(id ID) bool
}

// Base is embedded by every concrete variant to supply the network-id
// bookkeeping. The id is written from whichever goroutine owns the network
// at the moment a link referencing this reactive is added, so it is kept
// behind a CAS rather than a plain field.
type Base struct {
	id atomic.Uint64
}

func (b *Base) NetworkID() ID {
	return ID(b.id.Load())
}

func (b *Base) TrySetNetworkID(id ID) bool {
	return b.id.CompareAndSwap(0, uint64(id))
}
