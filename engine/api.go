package engine

import (
	"time"

	"github.com/frpnet/core/link"
	"github.com/frpnet/core/netgraph"
	"github.com/frpnet/core/reactive"
)

// Push enqueues a value delivery to r and returns v, mirroring the
// teacher-idiom convenience of returning the value you just set.
func Push(nr *NetRef, r reactive.Reactive, v any, t ...time.Time) any {
	when := time.Now()
	if len(t) > 0 {
		when = t[0]
	}
	nr.Submit(&Stimulus{
		Label:      "push:" + r.Label(),
		Deliveries: map[reactive.Reactive]reactive.RVT{r: {Value: reactive.Of(v), Time: when}},
	})
	return v
}

// Complete enqueues a COMPLETED delivery to r.
func Complete(nr *NetRef, r reactive.Reactive) {
	nr.Submit(&Stimulus{
		Label:      "complete:" + r.Label(),
		Deliveries: map[reactive.Reactive]reactive.RVT{r: {Value: reactive.Completed, Time: time.Now()}},
	})
}

// AddLinks enqueues a graph edit that splices the given links in.
func AddLinks(nr *NetRef, links ...*link.Link) {
	nr.Submit(&Stimulus{
		Label:   "add-links",
		Results: []*link.Result{{Add: links}},
	})
}

// RemoveLinks enqueues a graph edit that drops every link matched by pred.
func RemoveLinks(nr *NetRef, pred func(*link.Link) bool) {
	nr.Submit(&Stimulus{
		Label:   "remove-links",
		Results: []*link.Result{{RemoveBy: pred}},
	})
}

// OnError attaches errFn to the link whose sole output is r, as an atomic
// exec over the network.
func OnError(nr *NetRef, r reactive.Reactive, errFn link.ErrorFn) {
	nr.Submit(&Stimulus{
		Label: "on-error:" + r.Label(),
		Exec: func(net *netgraph.Network) error {
			for _, l := range net.Links() {
				outs := l.Outputs()
				if len(outs) == 1 && outs[0] == r {
					l.ErrorFn = errFn
					return nil
				}
			}
			return nil
		},
	})
}

// ResetNetwork replaces nr's network with a fresh empty one named after
// nr. The new network uses the default rebuild threshold; a threshold set
// on the old network is not carried over.
func ResetNetwork(nr *NetRef) {
	nr.Submit(&Stimulus{
		Reset: func() *netgraph.Network {
			net, _ := netgraph.New(nr.name, nil)
			return net
		},
	})
}

// Flush blocks until every stimulus submitted before this call has been
// processed to quiescence, by enqueueing a marker Exec behind them and
// waiting on it. Useful for benchmarks and tests that need a synchronous
// checkpoint against an otherwise asynchronous worker.
func Flush(nr *NetRef) {
	done := make(chan struct{})
	nr.Submit(&Stimulus{
		Label: "flush",
		Exec: func(*netgraph.Network) error {
			close(done)
			return nil
		},
	})
	<-done
}
