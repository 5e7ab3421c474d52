package netgraph

import (
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/frpnet/core/link"
	"github.com/frpnet/core/reactive"
)

// AddLink registers a link, assigning ids to any reactives seen for the
// first time, computing its level, and walking downstream to preserve the
// invariant level(link) > level(any input) and level(output) > level(link).
func (net *Network) AddLink(l *link.Link) error {
	net.indexLink(l)
	net.links = append(net.links, l)
	return nil
}

func (net *Network) linksByInputSet(id reactive.ID) mapset.Set[*link.Link] {
	set, ok := net.linksByInput[id]
	if !ok {
		set = mapset.NewSet[*link.Link]()
		net.linksByInput[id] = set
	}
	return set
}

// indexLink seeds levels/alive-counters/fan-out for l without appending it
// to net.links, so rebuild can reuse it against the existing link slice.
func (net *Network) indexLink(l *link.Link) {
	for _, in := range l.Inputs {
		id := net.idOf(in)
		if _, ok := net.reactiveLevel[id]; !ok {
			net.reactiveLevel[id] = 1
		}
		if _, ok := net.aliveMap[id]; !ok {
			net.aliveMap[id] = 1
		}
	}

	maxInputLevel := 0
	for _, in := range l.Inputs {
		if lvl := net.reactiveLevel[net.idOf(in)]; lvl > maxInputLevel {
			maxInputLevel = lvl
		}
	}
	linkLevel := maxInputLevel + 1
	if existing, ok := net.linkLevel[l]; !ok || existing < linkLevel {
		net.linkLevel[l] = linkLevel
	}

	for _, in := range l.Inputs {
		net.linksByInputSet(net.idOf(in)).Add(l)
	}

	outs := l.Outputs()
	for _, out := range outs {
		id := net.idOf(out)
		if _, ok := net.aliveMap[id]; !ok {
			net.aliveMap[id] = 1
		}
	}

	net.bumpDownstream(outs, net.linkLevel[l]+1)
}

type frontierNode struct {
	r     reactive.Reactive
	level int
}

// bumpDownstream is a breadth-first walk that alternates between reactives
// (odd levels, starting from the input seed of 1) and links (even levels),
// using a visited set on both to
// guarantee termination even if the caller's static graph
// happens to contain a cycle (undefined layering, but must not hang).
func (net *Network) bumpDownstream(start []reactive.Reactive, startLevel int) {
	visitedReactives := make(map[reactive.ID]bool)
	visitedLinks := make(map[*link.Link]bool)

	queue := make([]frontierNode, 0, len(start))
	for _, r := range start {
		queue = append(queue, frontierNode{r: r, level: startLevel})
	}

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]

		id := net.idOf(node.r)
		if visitedReactives[id] {
			continue
		}
		visitedReactives[id] = true

		if cur := net.reactiveLevel[id]; cur < node.level {
			net.reactiveLevel[id] = node.level
		}
		effectiveLevel := net.reactiveLevel[id]

		for l := range net.linksByInputSet(id).Iter() {
			if visitedLinks[l] {
				continue
			}
			visitedLinks[l] = true

			needed := effectiveLevel + 1
			if net.linkLevel[l] < needed {
				net.linkLevel[l] = needed
			}
			for _, out := range l.Outputs() {
				queue = append(queue, frontierNode{r: out, level: net.linkLevel[l] + 1})
			}
		}
	}
}

// RemoveLinks drops every link matched by pred, trims their inputs' fan-out
// index entries, and returns the removed links so the caller can fold
// their CompleteOnRemove lists into AllowComplete. It rebuilds the derived
// indices once the accumulated removal count crosses the threshold.
func (net *Network) RemoveLinks(pred func(*link.Link) bool) []*link.Link {
	kept := net.links[:0:0]
	var removed []*link.Link
	for _, l := range net.links {
		if pred(l) {
			removed = append(removed, l)
		} else {
			kept = append(kept, l)
		}
	}
	net.links = kept

	for _, l := range removed {
		for _, in := range l.Inputs {
			if set, ok := net.linksByInput[in.NetworkID()]; ok {
				set.Remove(l)
			}
		}
		delete(net.linkLevel, l)
	}

	net.removes += len(removed)
	if net.removes > net.rebuildThreshold {
		net.rebuild()
	}
	return removed
}

// rebuild recomputes level_map, links_map, and link levels from the
// current live link slice, in insertion order, and resets the removes
// counter. alive_map and idIndex are untouched: they track reactive
// lifecycle, not graph shape.
func (net *Network) rebuild() {
	links := net.links
	net.reactiveLevel = make(map[reactive.ID]int)
	net.linkLevel = make(map[*link.Link]int)
	net.linksByInput = make(map[reactive.ID]mapset.Set[*link.Link])

	for _, l := range links {
		net.indexLink(l)
	}
	net.removes = 0
}
