package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// runMsg carries a function to run on the Update goroutine.
type runMsg struct {
	fn func()
}

// scheduler implements trimmer.Scheduler on top of the bubbletea event loop.
// Functions travel through a channel that Update drains one message at a
// time, so all core state is only ever touched from Update.
type scheduler struct {
	ch chan tea.Msg
}

func newScheduler() *scheduler {
	return &scheduler{ch: make(chan tea.Msg, 64)}
}

// Post queues fn. It may block while the queue is full, so it must not be
// called from Update itself.
func (s *scheduler) Post(fn func()) {
	s.ch <- runMsg{fn: fn}
}

// After posts fn once d has elapsed. Cancelling also drops a tick that fired
// but has not run yet; the flag is only read and written on the Update
// goroutine.
func (s *scheduler) After(d time.Duration, fn func()) func() {
	cancelled := false
	t := time.AfterFunc(d, func() {
		s.Post(func() {
			if !cancelled {
				fn()
			}
		})
	})
	return func() {
		cancelled = true
		t.Stop()
	}
}

// waitForRun returns a tea.Cmd that waits for the next scheduled function.
func waitForRun(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}
