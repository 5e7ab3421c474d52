package engine

import (
	"github.com/cespare/xxhash/v2"
	"github.com/frpnet/core/link"
	"github.com/frpnet/core/netgraph"
	"github.com/frpnet/core/reactive"
)

// Stimulus is a single unit of work enqueued on a NetRef: any mix of raw
// deliveries, pending Results (typically graph edits from AddLinks/
// RemoveLinks), an atomic Exec over the network, or a full network Reset.
type Stimulus struct {
	// Label is used only for log correlation.
	Label string

	Deliveries map[reactive.Reactive]reactive.RVT
	Results    []*link.Result

	// Exec runs atomically against the current network, e.g. to attach an
	// error handler to an existing link.
	Exec func(*netgraph.Network) error

	// Reset, if set, replaces the network wholesale; nothing else on the
	// stimulus is processed when this is set.
	Reset func() *netgraph.Network
}

// fingerprint gives each stimulus a short, stable id for log correlation.
func (s *Stimulus) fingerprint() uint64 {
	return xxhash.Sum64String(s.Label)
}
