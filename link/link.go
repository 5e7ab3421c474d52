// Package link defines the Link abstraction: a static hyperedge from input reactives to output reactives, and the Result bag
// exchanged with its evaluation function.
package link

import (
	"errors"
	"sync/atomic"

	"github.com/frpnet/core/reactive"
)

var ErrNoInputs = errors.New("link: inputs must be non-empty")

// Fn is the underlying link evaluation function. It receives the peeked
// input values and the (possibly already-completed) output reactives, and
// returns either a nil Result (no propagation; inputs are still consumed,
// since only a non-nil Result can set NoConsume) or a Result carrying output
// values, graph edits, or lifecycle adjustments.
type Fn func(Result) (*Result, error)

// ErrorFn is invoked with the same shape as Fn when the link-fn panics or
// returns an error, and its own returned Result (if any) is merged into
// the cycle in its place.
type ErrorFn func(Result) (*Result, error)

// CompleteFn fires when a specific input reactive completes.
type CompleteFn func(l *Link, completedInput reactive.Reactive) (*Result, error)

// Result is the dynamic, mostly-optional message exchanged with a link-fn.
// Fields are orthogonal; callers set only the ones relevant to their call
// rather than unifying them into a sum type.
type Result struct {
	InputReactives  []reactive.Reactive
	OutputReactives []reactive.Reactive
	InputRVTs       map[reactive.Reactive]reactive.RVT
	OutputRVTs      map[reactive.Reactive]reactive.RVT

	// NoConsume suppresses the default consume of this link's inputs this
	// cycle. All-or-nothing across the link's inputs.
	NoConsume bool

	Err error

	// Add splices new links into the network.
	Add []*Link
	// RemoveBy selects links to drop from the network.
	RemoveBy func(*Link) bool

	// DontComplete / AllowComplete adjust the alive counter of the named
	// reactives: +1 / -1 respectively.
	DontComplete  []reactive.Reactive
	AllowComplete []reactive.Reactive
}

var linkSeq atomic.Uint64

// Link is the record of a fan-in/fan-out evaluation edge. Its inputs and
// outputs are fixed at construction; ErrorFn, CompleteFn, CompleteOnRemove
// and Executor are plain fields that may be set afterwards (engine.OnError
// sets ErrorFn on a link already in a network). Inputs are held strongly (they are typically owned upstream); outputs are held
// weakly so an abandoned derived reactive can be collected, taking its
// producing link's usefulness with it.
type Link struct {
	// seq breaks level ties deterministically by insertion order.
	seq uint64

	Label  string
	Inputs []reactive.Reactive

	weakOutputs []reactive.WeakReactive
	outputLabel []string // parallel to weakOutputs, for diagnostics after collection

	Fn         Fn
	ErrorFn    ErrorFn
	CompleteFn CompleteFn

	// CompleteOnRemove lists reactives this link is keeping alive; removing
	// the link deposits an AllowComplete adjustment for each of them.
	CompleteOnRemove []reactive.Reactive

	Executor Executor
}

// Executor runs a link-fn asynchronously, on its own goroutine or pool,
// with the owning netref bound so the eventual Result can be posted back
// as a follow-up stimulus. netref is opaque here (package link cannot
// depend on package engine); the concrete executor lives in package
// engine and knows how to bind it for the duration of the call.
type Executor interface {
	Run(l *Link, input Result, netref any, onDone func(*Result, error))
}

// New constructs a Link. Inputs must be non-empty.
func New(label string, inputs []reactive.Reactive, outputs []reactive.Reactive, fn Fn) (*Link, error) {
	if len(inputs) == 0 {
		return nil, ErrNoInputs
	}
	l := &Link{
		seq:         linkSeq.Add(1),
		Label:       label,
		Inputs:      inputs,
		weakOutputs: make([]reactive.WeakReactive, len(outputs)),
		outputLabel: make([]string, len(outputs)),
		Fn:          fn,
	}
	for i, o := range outputs {
		l.weakOutputs[i] = reactive.Weaken(o)
		l.outputLabel[i] = o.Label()
	}
	return l, nil
}

// Seq returns the link's insertion sequence number, used for stable
// ordering among links sharing a level.
func (l *Link) Seq() uint64 { return l.seq }

// Outputs resolves the link's weakly-held outputs, dropping any that have
// been collected (no nil entries are returned for them).
func (l *Link) Outputs() []reactive.Reactive {
	out := make([]reactive.Reactive, 0, len(l.weakOutputs))
	for _, w := range l.weakOutputs {
		if r, ok := w.Resolve(); ok {
			out = append(out, r)
		}
	}
	return out
}

// OutputCount is the number of outputs this link was constructed with,
// live or since collected.
func (l *Link) OutputCount() int { return len(l.weakOutputs) }

// Ready reports whether every input has a value available and at least one
// output is not completed.
func (l *Link) Ready() bool {
	for _, in := range l.Inputs {
		if !in.Available() {
			return false
		}
	}
	if len(l.weakOutputs) == 0 {
		return true
	}
	for _, w := range l.weakOutputs {
		r, ok := w.Resolve()
		if ok && !r.Completed() {
			return true
		}
	}
	return false
}

// Dead reports whether the link can never fire again: all outputs are
// completed (or collected, which counts as completed), or any input has
// completed.
func (l *Link) Dead() bool {
	for _, in := range l.Inputs {
		if in.Completed() {
			return true
		}
	}
	if len(l.weakOutputs) == 0 {
		return false
	}
	for _, w := range l.weakOutputs {
		if r, ok := w.Resolve(); ok && !r.Completed() {
			return false
		}
	}
	return true
}

// DefaultFn is the default fan link-fn: with one input it broadcasts that
// value to every output; with many inputs it broadcasts the zipped vector
// of their values.
func DefaultFn(in Result) (*Result, error) {
	outs := in.OutputReactives
	if len(outs) == 0 {
		return nil, nil
	}

	var payload any
	if len(in.InputReactives) == 1 {
		payload = in.InputRVTs[in.InputReactives[0]].Value.Payload()
	} else {
		vec := make([]any, len(in.InputReactives))
		for i, r := range in.InputReactives {
			vec[i] = in.InputRVTs[r].Value.Payload()
		}
		payload = vec
	}

	out := &Result{OutputRVTs: make(map[reactive.Reactive]reactive.RVT, len(outs))}
	for _, o := range outs {
		out.OutputRVTs[o] = reactive.RVT{Value: reactive.Of(payload)}
	}
	return out, nil
}
