package reactive_test

import (
	"runtime"
	"testing"

	"github.com/frpnet/core/link"
	"github.com/frpnet/core/reactive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeakenResolvesWhileStronglyReferenced(t *testing.T) {
	b := reactive.NewBehavior("b", 1)
	w := reactive.Weaken(b)

	r, ok := w.Resolve()
	require.True(t, ok)
	assert.Same(t, b, r)
	runtime.KeepAlive(b)
}

// makeWeakOnly allocates a Behavior with no strong reference escaping this
// function, so nothing outside keeps it alive once it returns.
func makeWeakOnly() reactive.WeakReactive {
	b := reactive.NewBehavior("gone", 1)
	return reactive.Weaken(b)
}

func TestWeakenResolvesFalseAfterCollection(t *testing.T) {
	w := makeWeakOnly()

	runtime.GC()
	runtime.GC()

	_, ok := w.Resolve()
	assert.False(t, ok, "Resolve must report false once the strong owner is gone")
}

// makeLinkWithCollectibleOutput builds a link whose sole output has no
// strong owner beyond this function's local scope; the returned link holds
// it only weakly, so it becomes collectible once this function returns.
func makeLinkWithCollectibleOutput(in reactive.Reactive) *link.Link {
	out := reactive.NewEventStream("collectible-out")
	l, err := link.New("l", []reactive.Reactive{in}, []reactive.Reactive{out}, link.DefaultFn)
	if err != nil {
		panic(err)
	}
	return l
}

// A link whose sole output is collected must report Dead (and therefore not
// Ready): a weakly-collected output counts as completed for liveness.
func TestLinkDeadAfterOutputCollected(t *testing.T) {
	in := reactive.NewBehavior("in", 1)
	l := makeLinkWithCollectibleOutput(in)

	require.False(t, l.Dead(), "output is still live immediately after construction")
	require.True(t, l.Ready())

	runtime.GC()
	runtime.GC()

	assert.True(t, l.Dead(), "a link whose only output was collected must be dead")
	assert.False(t, l.Ready(), "a dead link must not be ready")
}
