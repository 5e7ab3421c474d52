package scheduler_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/frpnet/core/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnceFires(t *testing.T) {
	var n atomic.Int32
	s := scheduler.New(nil)
	task := s.Once(5*time.Millisecond, func() { n.Add(1) })

	require.Eventually(t, func() bool { return n.Load() == 1 }, time.Second, time.Millisecond)
	assert.False(t, task.Pending())
}

func TestOnceCancelled(t *testing.T) {
	var n atomic.Int32
	s := scheduler.New(nil)
	task := s.Once(30*time.Millisecond, func() { n.Add(1) })
	task.Cancel()

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(0), n.Load())
	assert.False(t, task.Pending())
}

func TestIntervalFiresRepeatedly(t *testing.T) {
	var n atomic.Int32
	s := scheduler.New(nil)
	task := s.Interval(5*time.Millisecond, func() { n.Add(1) })
	defer task.Cancel()

	require.Eventually(t, func() bool { return n.Load() >= 3 }, time.Second, time.Millisecond)
}

func TestCancelAllStopsEverything(t *testing.T) {
	var n atomic.Int32
	s := scheduler.New(nil)
	s.Interval(5*time.Millisecond, func() { n.Add(1) })
	s.Interval(5*time.Millisecond, func() { n.Add(1) })

	require.Eventually(t, func() bool { return n.Load() >= 2 }, time.Second, time.Millisecond)
	s.CancelAll()
	stopped := n.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, n.Load())
}

func TestPanickingTaskIsReportedAndCancelled(t *testing.T) {
	var reported atomic.Int32
	s := scheduler.New(func(err error) { reported.Add(1) })
	task := s.Once(5*time.Millisecond, func() { panic("boom") })

	require.Eventually(t, func() bool { return reported.Load() == 1 }, time.Second, time.Millisecond)
	assert.False(t, task.Pending())
}
