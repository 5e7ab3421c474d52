package reactive_test

import (
	"testing"

	"github.com/frpnet/core/reactive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBehaviorEqualValueSuppressed(t *testing.T) {
	b := reactive.NewBehavior("b", 1)
	assert.True(t, b.Available())
	assert.False(t, b.Pending())

	changed, err := b.Deliver(reactive.RVT{Value: reactive.Of(2)})
	require.NoError(t, err)
	assert.True(t, changed)
	assert.True(t, b.Pending())

	changed, err = b.Deliver(reactive.RVT{Value: reactive.Of(2)})
	require.NoError(t, err)
	assert.False(t, changed, "delivering the same value twice must not cause a second propagation")

	rvt, ok := b.Consume()
	require.True(t, ok)
	assert.Equal(t, 2, rvt.Value.Payload())
	assert.False(t, b.Pending(), "consume clears the new flag")
}

func TestBehaviorCompletion(t *testing.T) {
	b := reactive.NewBehavior("b", 1)
	changed, err := b.Deliver(reactive.RVT{Value: reactive.Completed})
	require.NoError(t, err)
	assert.True(t, changed)
	assert.True(t, b.Completed())

	_, err = b.Deliver(reactive.RVT{Value: reactive.Of(9)})
	assert.ErrorIs(t, err, reactive.ErrInvalidState)
}

func TestBehaviorNetworkIDAssignedOnce(t *testing.T) {
	b := reactive.NewBehavior("b", 1)
	assert.True(t, b.TrySetNetworkID(7))
	assert.False(t, b.TrySetNetworkID(8))
	assert.Equal(t, reactive.ID(7), b.NetworkID())
}
