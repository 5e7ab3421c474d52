// Package engine drives the propagation network: a single-writer mailbox
// worker (NetRef) that runs the deliver/evaluate/consume/propagate cycle
// to quiescence for each enqueued Stimulus.
package engine

import (
	"fmt"
	"log"
	"sync"

	"github.com/frpnet/core/netgraph"
)

const defaultMailboxSize = 256

// NetRef serializes every mutation of a Network behind a single mailbox:
// submissions from any goroutine are enqueued, and one worker goroutine
// drains them one Stimulus at a time.
type NetRef struct {
	name    string
	errSink func(error)

	mailbox chan *Stimulus
	net     *netgraph.Network

	closeOnce sync.Once
	done      chan struct{}
	stopped   chan struct{}
}

// New starts a NetRef's worker over the given network. errSink defaults to
// log.Printf when nil.
func New(name string, net *netgraph.Network, errSink func(error)) *NetRef {
	if errSink == nil {
		errSink = func(err error) { log.Printf("frpnet[%s]: %v", name, err) }
	}
	nr := &NetRef{
		name:    name,
		errSink: errSink,
		mailbox: make(chan *Stimulus, defaultMailboxSize),
		net:     net,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go nr.run()
	return nr
}

// Name returns the log-correlation name this NetRef was created with.
func (nr *NetRef) Name() string { return nr.name }

func (nr *NetRef) run() {
	defer close(nr.stopped)
	for {
		select {
		case stim, ok := <-nr.mailbox:
			if !ok {
				return
			}
			nr.process(stim)
		case <-nr.done:
			nr.drain()
			return
		}
	}
}

// drain processes whatever is already queued before the worker exits, so
// a Close doesn't silently swallow already-submitted work.
func (nr *NetRef) drain() {
	for {
		select {
		case stim := <-nr.mailbox:
			nr.process(stim)
		default:
			return
		}
	}
}

// Submit enqueues a stimulus. Safe to call from any goroutine, including
// from inside the worker itself (e.g. a link-fn re-injecting a follow-up).
func (nr *NetRef) Submit(stim *Stimulus) {
	select {
	case nr.mailbox <- stim:
	case <-nr.done:
	}
}

// Close stops the worker after draining whatever is already queued, and
// blocks until it has exited.
func (nr *NetRef) Close() {
	nr.closeOnce.Do(func() { close(nr.done) })
	<-nr.stopped
}

func (nr *NetRef) reportError(err error) {
	if err == nil {
		return
	}
	nr.errSink(err)
}

func (nr *NetRef) process(stim *Stimulus) {
	if stim.Reset != nil {
		nr.net = stim.Reset()
		return
	}

	// The whole cycle runs with nr bound as the calling goroutine's implicit
	// netref, so any link-fn, error_fn, or complete_fn invoked synchronously
	// from within it (runSync, fireCompleteFns) can call CurrentNetRef() to
	// enqueue a follow-up without having nr threaded through its signature.
	WithNetRef(nr, func() {
		fp := stim.fingerprint()
		net := nr.net
		net.ResetCycle()

		for r, rvt := range stim.Deliveries {
			if err := nr.deliverOne(r, rvt); err != nil {
				nr.reportError(fmt.Errorf("stimulus %s#%x: %w", stim.Label, fp, err))
			}
		}

		if len(stim.Results) > 0 {
			nr.applyPendingResults(stim.Results)
		}

		if stim.Exec != nil {
			if err := stim.Exec(net); err != nil {
				nr.reportError(fmt.Errorf("stimulus %s#%x exec: %w", stim.Label, fp, err))
			}
		}

		nr.runCycle()
	})
}
