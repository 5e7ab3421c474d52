package netgraph_test

import (
	"testing"

	"github.com/frpnet/core/link"
	"github.com/frpnet/core/netgraph"
	"github.com/frpnet/core/reactive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddLinkLevelInvariant(t *testing.T) {
	net, err := netgraph.New("n", nil)
	require.NoError(t, err)

	b := reactive.NewBehavior("b", 1)
	s := reactive.NewEventStream("s")
	l, err := link.New("l", []reactive.Reactive{b}, []reactive.Reactive{s}, link.DefaultFn)
	require.NoError(t, err)
	require.NoError(t, net.AddLink(l))

	inLevel, ok := net.Level(b)
	require.True(t, ok)
	outLevel, ok := net.Level(s)
	require.True(t, ok)
	linkLevel := net.LinkLevel(l)

	assert.Greater(t, linkLevel, inLevel)
	assert.Greater(t, outLevel, linkLevel)
}

func TestAddLinkChainBumpsDownstream(t *testing.T) {
	net, err := netgraph.New("n", nil)
	require.NoError(t, err)

	a := reactive.NewBehavior("a", 1)
	b := reactive.NewEventStream("b")
	c := reactive.NewEventStream("c")

	l1, err := link.New("l1", []reactive.Reactive{a}, []reactive.Reactive{b}, link.DefaultFn)
	require.NoError(t, err)
	require.NoError(t, net.AddLink(l1))

	l2, err := link.New("l2", []reactive.Reactive{b}, []reactive.Reactive{c}, link.DefaultFn)
	require.NoError(t, err)
	require.NoError(t, net.AddLink(l2))

	// Now add a second, longer path into b that should push b, l2, and c up.
	x := reactive.NewBehavior("x", 1)
	y := reactive.NewEventStream("y")
	lx, err := link.New("lx", []reactive.Reactive{x}, []reactive.Reactive{y}, link.DefaultFn)
	require.NoError(t, err)
	require.NoError(t, net.AddLink(lx))

	ly, err := link.New("ly", []reactive.Reactive{y}, []reactive.Reactive{b}, link.DefaultFn)
	require.NoError(t, err)
	require.NoError(t, net.AddLink(ly))

	bLevel, _ := net.Level(b)
	l2Level := net.LinkLevel(l2)
	cLevel, _ := net.Level(c)
	lyLevel := net.LinkLevel(ly)

	assert.Greater(t, bLevel, lyLevel)
	assert.Greater(t, l2Level, bLevel)
	assert.Greater(t, cLevel, l2Level)
}

func TestRemoveLinksTrimsFanOut(t *testing.T) {
	net, err := netgraph.New("n", nil)
	require.NoError(t, err)

	b := reactive.NewBehavior("b", 1)
	s := reactive.NewEventStream("s")
	l, err := link.New("l", []reactive.Reactive{b}, []reactive.Reactive{s}, link.DefaultFn)
	require.NoError(t, err)
	require.NoError(t, net.AddLink(l))

	removed := net.RemoveLinks(func(x *link.Link) bool { return x == l })
	require.Len(t, removed, 1)
	assert.Empty(t, net.LinksForInput(b).ToSlice())
	assert.Len(t, net.Links(), 0)
}

func TestAdjustAliveAutoCompletes(t *testing.T) {
	net, err := netgraph.New("n", nil)
	require.NoError(t, err)

	b := reactive.NewBehavior("b", 1)
	s := reactive.NewEventStream("s")
	l, err := link.New("l", []reactive.Reactive{b}, []reactive.Reactive{s}, link.DefaultFn)
	require.NoError(t, err)
	require.NoError(t, net.AddLink(l))

	completedNow, err := net.AdjustAlive(s, 1) // now at 2
	require.NoError(t, err)
	assert.False(t, completedNow)

	completedNow, err = net.AdjustAlive(s, -1) // back to 1
	require.NoError(t, err)
	assert.False(t, completedNow)
	assert.False(t, s.Completed())

	completedNow, err = net.AdjustAlive(s, -1) // reaches 0
	require.NoError(t, err)
	assert.True(t, completedNow)
	assert.True(t, s.Completed())
}
