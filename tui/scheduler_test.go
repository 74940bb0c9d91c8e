package tui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runNext(t *testing.T, s *scheduler) {
	t.Helper()
	select {
	case msg := <-s.ch:
		run, ok := msg.(runMsg)
		require.True(t, ok)
		run.fn()
	case <-time.After(time.Second):
		t.Fatal("nothing scheduled")
	}
}

func TestScheduler_PostRunsInOrder(t *testing.T) {
	s := newScheduler()
	var got []int
	s.Post(func() { got = append(got, 1) })
	s.Post(func() { got = append(got, 2) })

	runNext(t, s)
	runNext(t, s)
	assert.Equal(t, []int{1, 2}, got)
}

func TestScheduler_AfterFires(t *testing.T) {
	s := newScheduler()
	fired := false
	s.After(time.Millisecond, func() { fired = true })

	runNext(t, s)
	assert.True(t, fired)
}

func TestScheduler_CancelDropsQueuedTick(t *testing.T) {
	s := newScheduler()
	fired := false
	cancel := s.After(0, func() { fired = true })

	// let the tick reach the queue before cancelling it
	msg := <-s.ch
	cancel()
	msg.(runMsg).fn()
	assert.False(t, fired)
}

func TestWaitForRun(t *testing.T) {
	s := newScheduler()
	s.Post(func() {})
	_, ok := waitForRun(s.ch)().(runMsg)
	assert.True(t, ok)

	close(s.ch)
	assert.Nil(t, waitForRun(s.ch)())
}
