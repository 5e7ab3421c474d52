package reactive_test

import (
	"testing"

	"github.com/frpnet/core/reactive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventStreamFIFO(t *testing.T) {
	s := reactive.NewEventStream("s")
	assert.False(t, s.Available())

	for _, v := range []int{1, 2, 3} {
		_, err := s.Deliver(reactive.RVT{Value: reactive.Of(v)})
		require.NoError(t, err)
	}

	var got []int
	for s.Available() {
		rvt, ok := s.Consume()
		require.True(t, ok)
		got = append(got, rvt.Value.Payload().(int))
	}
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestEventStreamOverflow(t *testing.T) {
	s := reactive.NewEventStream("s", reactive.WithMaxQueueSize(2))
	_, err := s.Deliver(reactive.RVT{Value: reactive.Of(1)})
	require.NoError(t, err)
	_, err = s.Deliver(reactive.RVT{Value: reactive.Of(2)})
	require.NoError(t, err)
	_, err = s.Deliver(reactive.RVT{Value: reactive.Of(3)})
	assert.ErrorIs(t, err, reactive.ErrQueueOverflow)
}

func TestEventStreamCompletionDrainsBacklogThenTerminal(t *testing.T) {
	s := reactive.NewEventStream("s")
	_, err := s.Deliver(reactive.RVT{Value: reactive.Of(1)})
	require.NoError(t, err)
	_, err = s.Deliver(reactive.RVT{Value: reactive.Completed})
	require.NoError(t, err)

	assert.False(t, s.Completed(), "backlog still pending")
	_, ok := s.Consume()
	require.True(t, ok)
	assert.True(t, s.Completed())

	_, err = s.Deliver(reactive.RVT{Value: reactive.Of(2)})
	assert.ErrorIs(t, err, reactive.ErrCompleted)

	_, err = s.Deliver(reactive.RVT{Value: reactive.Completed})
	assert.NoError(t, err, "repeated COMPLETED is idempotent")
}
