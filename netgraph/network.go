// Package netgraph is the graph of links plus the derived indices the
// propagation engine needs: id assignment, topological levels, per-input
// fan-out, and the alive-counter bookkeeping behind auto-completion.
package netgraph

import (
	"sync/atomic"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/frpnet/core/link"
	"github.com/frpnet/core/reactive"
)

// DefaultRebuildThreshold is the default number of removed links that
// accumulate before a full index rebuild.
const DefaultRebuildThreshold = 100

var nextID atomic.Uint64

func allocID() reactive.ID {
	return reactive.ID(nextID.Add(1))
}

// Network is the graph plus its derived indices. It is mutated only by the
// engine's single worker goroutine; nothing here is safe to call
// concurrently from multiple goroutines against the same Network.
type Network struct {
	name string

	links []*link.Link

	// idIndex is a weak-valued reverse index: id -> a way to resolve back
	// to the reactive, without the network itself ever holding a strong
	// reference. Go cannot have literal weak map keys, so the id instead
	// lives on the reactive itself (reactive.Base) and only this reverse
	// index is weak.
	idIndex map[reactive.ID]reactive.WeakReactive

	reactiveLevel map[reactive.ID]int
	linkLevel     map[*link.Link]int

	linksByInput map[reactive.ID]mapset.Set[*link.Link]

	aliveMap map[reactive.ID]int64

	removes           int
	rebuildThreshold  int

	// completed accumulates the ids completed during the cycle currently
	// in progress; the engine resets it at the start of each cycle.
	completed mapset.Set[reactive.ID]
}

// Option configures a Network at construction.
type Option func(*Network)

// WithRebuildThreshold overrides DefaultRebuildThreshold.
func WithRebuildThreshold(n int) Option {
	return func(net *Network) { net.rebuildThreshold = n }
}

// New creates an empty network identified by name (used only for log
// correlation) plus an optional initial link set.
func New(name string, links []*link.Link, opts ...Option) (*Network, error) {
	net := &Network{
		name:             name,
		idIndex:          make(map[reactive.ID]reactive.WeakReactive),
		reactiveLevel:    make(map[reactive.ID]int),
		linkLevel:        make(map[*link.Link]int),
		linksByInput:     make(map[reactive.ID]mapset.Set[*link.Link]),
		aliveMap:         make(map[reactive.ID]int64),
		rebuildThreshold: DefaultRebuildThreshold,
		completed:        mapset.NewSet[reactive.ID](),
	}
	for _, opt := range opts {
		opt(net)
	}
	for _, l := range links {
		if err := net.AddLink(l); err != nil {
			return nil, err
		}
	}
	return net, nil
}

// Name returns the network's log-correlation identifier.
func (net *Network) Name() string { return net.name }

// Links returns the live link set. Callers must not mutate the slice.
func (net *Network) Links() []*link.Link { return net.links }

// idOf returns the reactive's network id, assigning a fresh one on first
// sight and recording it in the weak reverse index.
func (net *Network) idOf(r reactive.Reactive) reactive.ID {
	if id := r.NetworkID(); id != 0 {
		return id
	}
	id := allocID()
	if !r.TrySetNetworkID(id) {
		// Lost a race with a concurrent assigner (shouldn't happen: the
		// network is single-writer), fall back to whatever won.
		return r.NetworkID()
	}
	net.idIndex[id] = reactive.Weaken(r)
	return id
}

// ResolveID looks a reactive back up from its id, or reports false if it
// was never seen or has since been collected.
func (net *Network) ResolveID(id reactive.ID) (reactive.Reactive, bool) {
	w, ok := net.idIndex[id]
	if !ok {
		return nil, false
	}
	return w.Resolve()
}

// LinksForInput returns the links for which r is an input.
func (net *Network) LinksForInput(r reactive.Reactive) mapset.Set[*link.Link] {
	set, ok := net.linksByInput[r.NetworkID()]
	if !ok {
		return mapset.NewSet[*link.Link]()
	}
	return set.Clone()
}

// Level returns the topological level of a reactive, or (0, false) if
// unknown.
func (net *Network) Level(r reactive.Reactive) (int, bool) {
	lvl, ok := net.reactiveLevel[r.NetworkID()]
	return lvl, ok
}

// LinkLevel returns a link's topological level.
func (net *Network) LinkLevel(l *link.Link) int {
	return net.linkLevel[l]
}

// AdjustAlive applies a signed delta to r's alive counter, auto-completing
// r by delivering COMPLETED when the counter reaches zero. It returns
// whether r was completed as a result of this call.
func (net *Network) AdjustAlive(r reactive.Reactive, delta int64) (completedNow bool, err error) {
	id := net.idOf(r)
	cur, ok := net.aliveMap[id]
	if !ok {
		cur = 1
	}
	cur += delta
	net.aliveMap[id] = cur
	if cur > 0 {
		return false, nil
	}
	if _, err := r.Deliver(reactive.RVT{Value: reactive.Completed}); err != nil {
		return false, err
	}
	net.completed.Add(id)
	return true, nil
}

// MarkCompleted records that r completed during the cycle in progress.
func (net *Network) MarkCompleted(r reactive.Reactive) {
	net.completed.Add(net.idOf(r))
}

// CompletedThisCycle returns the set of reactive ids completed so far in
// the cycle in progress.
func (net *Network) CompletedThisCycle() mapset.Set[reactive.ID] {
	return net.completed.Clone()
}

// ResetCycle clears the per-cycle completed-id set. Called by the engine
// at the start of each new stimulus.
func (net *Network) ResetCycle() {
	net.completed = mapset.NewSet[reactive.ID]()
}

// AllTrackedReactives resolves every reactive the network has ever
// assigned an id to and that is still strongly referenced somewhere.
func (net *Network) AllTrackedReactives() []reactive.Reactive {
	out := make([]reactive.Reactive, 0, len(net.idIndex))
	for _, w := range net.idIndex {
		if r, ok := w.Resolve(); ok {
			out = append(out, r)
		}
	}
	return out
}
