package reactive_test

import (
	"testing"

	"github.com/frpnet/core/reactive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intSeq(vals ...int) func(yield func(any) bool) {
	return func(yield func(any) bool) {
		for _, v := range vals {
			if !yield(v) {
				return
			}
		}
	}
}

func TestSeqStreamDrainsThenCompletes(t *testing.T) {
	s := reactive.NewSeqStream("s", intSeq(1, 2, 3))

	var got []int
	for s.Available() {
		rvt, ok := s.Consume()
		require.True(t, ok)
		got = append(got, rvt.Value.Payload().(int))
	}
	assert.Equal(t, []int{1, 2, 3}, got)
	assert.True(t, s.Completed())
}

func TestSeqStreamDeliverUnsupported(t *testing.T) {
	s := reactive.NewSeqStream("s", intSeq())
	_, err := s.Deliver(reactive.RVT{Value: reactive.Of(1)})
	assert.ErrorIs(t, err, reactive.ErrUnsupported)
}
