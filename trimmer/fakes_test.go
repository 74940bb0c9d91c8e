package trimmer

import (
	"context"
	"sync"
	"testing"
	"time"
)

// fakeScheduler runs After tasks only when fired by the test. Post may be
// called from any goroutine; posted funcs are queued until the test runs them.
type fakeScheduler struct {
	posted chan func()
	timers []*fakeTimer
}

type fakeTimer struct {
	delay     time.Duration
	fn        func()
	cancelled bool
	fired     bool
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{posted: make(chan func(), 16)}
}

func (s *fakeScheduler) Post(fn func()) { s.posted <- fn }

func (s *fakeScheduler) After(d time.Duration, fn func()) func() {
	t := &fakeTimer{delay: d, fn: fn}
	s.timers = append(s.timers, t)
	return func() { t.cancelled = true }
}

// pending returns the armed timers.
func (s *fakeScheduler) pending() []*fakeTimer {
	var out []*fakeTimer
	for _, t := range s.timers {
		if !t.cancelled && !t.fired {
			out = append(out, t)
		}
	}
	return out
}

// fire runs the oldest armed timer and reports whether there was one.
func (s *fakeScheduler) fire() bool {
	p := s.pending()
	if len(p) == 0 {
		return false
	}
	p[0].fired = true
	p[0].fn()
	return true
}

// runPosted waits for one posted func and runs it on the test goroutine.
func (s *fakeScheduler) runPosted(t *testing.T) {
	t.Helper()
	select {
	case fn := <-s.posted:
		fn()
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a posted func")
	}
}

type fakePlayer struct {
	durationMs int64
	positionMs int64
	playing    bool
	loaded     string
	seeks      []int64
	stopped    bool
	pauses     int

	seekErr     error
	durationErr error
}

func newFakePlayer(durationMs int64) *fakePlayer {
	return &fakePlayer{durationMs: durationMs}
}

func (p *fakePlayer) Load(uri string) error {
	p.loaded = uri
	return nil
}

func (p *fakePlayer) Play() error {
	p.playing = true
	return nil
}

func (p *fakePlayer) Pause() error {
	p.playing = false
	p.pauses++
	return nil
}

func (p *fakePlayer) Stop() error {
	p.playing = false
	p.stopped = true
	return nil
}

func (p *fakePlayer) SeekTo(ms int64) error {
	if p.seekErr != nil {
		return p.seekErr
	}
	p.positionMs = ms
	p.seeks = append(p.seeks, ms)
	return nil
}

func (p *fakePlayer) CurrentPositionMs() (int64, error) { return p.positionMs, nil }

func (p *fakePlayer) DurationMs() (int64, error) { return p.durationMs, p.durationErr }

func (p *fakePlayer) IsPlaying() (bool, error) { return p.playing, nil }

func (p *fakePlayer) lastSeek() int64 {
	if len(p.seeks) == 0 {
		return -1
	}
	return p.seeks[len(p.seeks)-1]
}

type selectionEvent struct {
	kind  string
	index Index
	value float64
}

type recordingListener struct {
	selection []selectionEvent
	progress  [][3]int64
	exported  []string
	failures  []string
	errors    []string
}

func (l *recordingListener) OnSelectionCreated(i Index, v float64) {
	l.selection = append(l.selection, selectionEvent{"created", i, v})
}

func (l *recordingListener) OnSelectionChanged(i Index, v float64) {
	l.selection = append(l.selection, selectionEvent{"changed", i, v})
}

func (l *recordingListener) OnDragStart(i Index, v float64) {
	l.selection = append(l.selection, selectionEvent{"start", i, v})
}

func (l *recordingListener) OnDragStop(i Index, v float64) {
	l.selection = append(l.selection, selectionEvent{"stop", i, v})
}

func (l *recordingListener) OnProgress(pos, dur, pct int64) {
	l.progress = append(l.progress, [3]int64{pos, dur, pct})
}

func (l *recordingListener) OnExportSucceeded(uri string) { l.exported = append(l.exported, uri) }

func (l *recordingListener) OnExportFailed(msg string) { l.failures = append(l.failures, msg) }

func (l *recordingListener) OnPlayerError(msg string) { l.errors = append(l.errors, msg) }

func (l *recordingListener) kinds() []string {
	out := make([]string, 0, len(l.selection))
	for _, e := range l.selection {
		out = append(out, e.kind+":"+e.index.String())
	}
	return out
}

// fakeExtractor returns count frames tagged with the requested width.
type fakeExtractor struct {
	mu    sync.Mutex
	calls []extractCall
	err   error
}

type extractCall struct {
	ctx    context.Context
	width  int
	height int
	count  int
}

func (e *fakeExtractor) ExtractFrames(ctx context.Context, _ string, width, height, count int) ([]Frame, error) {
	e.mu.Lock()
	e.calls = append(e.calls, extractCall{ctx: ctx, width: width, height: height, count: count})
	err := e.err
	e.mu.Unlock()
	if err != nil {
		return nil, err
	}
	frames := make([]Frame, 0, count)
	for i := 0; i < count; i++ {
		// every third frame fails to decode and is left out
		if i%3 == 2 {
			continue
		}
		frames = append(frames, Frame{Index: i})
	}
	return frames, nil
}

func (e *fakeExtractor) snapshot() []extractCall {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]extractCall(nil), e.calls...)
}
