package link_test

import (
	"testing"

	"github.com/frpnet/core/link"
	"github.com/frpnet/core/reactive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsEmptyInputs(t *testing.T) {
	_, err := link.New("l", nil, nil, link.DefaultFn)
	assert.ErrorIs(t, err, link.ErrNoInputs)
}

func TestDefaultFnSingleInputBroadcasts(t *testing.T) {
	b := reactive.NewBehavior("b", 1)
	s := reactive.NewEventStream("s")

	res := link.Result{
		InputReactives:  []reactive.Reactive{b},
		OutputReactives: []reactive.Reactive{s},
		InputRVTs: map[reactive.Reactive]reactive.RVT{
			b: {Value: reactive.Of(5)},
		},
	}
	out, err := link.DefaultFn(res)
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, 5, out.OutputRVTs[s].Value.Payload())
}

func TestDefaultFnMultiInputZips(t *testing.T) {
	a := reactive.NewBehavior("a", 1)
	b := reactive.NewBehavior("b", 2)
	s := reactive.NewEventStream("s")

	res := link.Result{
		InputReactives:  []reactive.Reactive{a, b},
		OutputReactives: []reactive.Reactive{s},
		InputRVTs: map[reactive.Reactive]reactive.RVT{
			a: {Value: reactive.Of(10)},
			b: {Value: reactive.Of(20)},
		},
	}
	out, err := link.DefaultFn(res)
	require.NoError(t, err)
	assert.Equal(t, []any{10, 20}, out.OutputRVTs[s].Value.Payload())
}

func TestLinkReadyAndDead(t *testing.T) {
	b := reactive.NewBehavior("b", 1)
	s := reactive.NewEventStream("s")
	l, err := link.New("l", []reactive.Reactive{b}, []reactive.Reactive{s}, link.DefaultFn)
	require.NoError(t, err)

	assert.True(t, l.Ready())
	assert.False(t, l.Dead())

	_, _ = s.Deliver(reactive.RVT{Value: reactive.Completed})
	assert.True(t, l.Dead())
	assert.False(t, l.Ready())
}

func TestLinkDeadWhenInputCompleted(t *testing.T) {
	b := reactive.NewBehavior("b", 1)
	s := reactive.NewEventStream("s")
	l, err := link.New("l", []reactive.Reactive{b}, []reactive.Reactive{s}, link.DefaultFn)
	require.NoError(t, err)

	_, _ = b.Deliver(reactive.RVT{Value: reactive.Completed})
	assert.True(t, l.Dead())
}
