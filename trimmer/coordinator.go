package trimmer

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/user/video-trimmer-cli/pkg/timeutil"
)

const (
	// PollInterval is how often the player position is read while playing.
	PollInterval = 10 * time.Millisecond
	// ScrubMax is the upper bound of the scrubber progress range.
	ScrubMax = 1000
	// Unconstrained marks an unset min or max duration.
	Unconstrained int64 = -1
)

var (
	// ErrNoSource is returned when Load is given an empty path.
	ErrNoSource = errors.New("trimmer: no source media")
	// ErrSourceNotFound is returned when the source media does not exist.
	ErrSourceNotFound = errors.New("trimmer: source media not found")
	// ErrSourceIsDir is returned when the source path is a directory.
	ErrSourceIsDir = errors.New("trimmer: source media is a directory")
	// ErrUnknownDuration is returned when the player cannot report a duration.
	ErrUnknownDuration = errors.New("trimmer: player reported no duration")
	// ErrNotPrepared is returned by operations that need loaded metadata.
	ErrNotPrepared = errors.New("trimmer: video not prepared")
)

// Limits bounds the length of the selection in milliseconds. A value <= 0
// (Unconstrained by convention) leaves that side open.
type Limits struct {
	MinMs int64
	MaxMs int64
}

// Window is a selection realised against the video duration.
type Window struct {
	StartMs int64
	EndMs   int64
}

// Span returns EndMs-StartMs.
func (w Window) Span() int64 { return w.EndMs - w.StartMs }

// InitialWindow picks the window selected when a video is first loaded.
// A video longer than the max gets a centred window of exactly max; a video
// no longer than the min gets a centred window of min, clamped to the video;
// anything else is selected whole.
func InitialWindow(durationMs int64, l Limits) Window {
	var w Window
	switch {
	case l.MaxMs > 0 && durationMs >= l.MaxMs:
		w.StartMs = durationMs/2 - l.MaxMs/2
		w.EndMs = durationMs/2 + l.MaxMs/2
	case l.MinMs > 0 && durationMs <= l.MinMs:
		w.StartMs = durationMs/2 - l.MinMs/2
		w.EndMs = durationMs/2 + l.MinMs/2
	default:
		w.EndMs = durationMs
	}
	w.StartMs = max(w.StartMs, 0)
	w.EndMs = min(w.EndMs, durationMs)
	return w
}

// Options configures a Coordinator.
type Options struct {
	Limits Limits
	// ShowInfo controls the visibility of the selection label.
	ShowInfo bool
	Logger   *slog.Logger
}

// Coordinator ties the range selector to the player. It turns selection
// events into seeks, polls the player while it plays, keeps playback inside
// the selected window and feeds positions to progress listeners.
type Coordinator struct {
	player   Player
	selector *RangeSelector
	sched    Scheduler
	strip    *ThumbnailStrip
	exporter *Exporter
	logger   *slog.Logger

	limits   Limits
	showInfo bool

	source     string
	meta       Metadata
	durationMs int64
	startMs    int64
	endMs      int64
	spanMs     int64
	savedPosMs int64

	prepared bool
	// resetOnPlay makes the next play start over from startMs.
	resetOnPlay     bool
	playIconVisible bool
	scrubberVisible bool
	scrubProgress   int
	label           string

	listeners      []ProgressListener
	errorListeners []ErrorListener
	cancelPoll     func()
	failed         error
}

// NewCoordinator wires a coordinator to the player and the selector and
// subscribes it to selection events.
func NewCoordinator(player Player, selector *RangeSelector, sched Scheduler, opts Options) *Coordinator {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	c := &Coordinator{
		player:   player,
		selector: selector,
		sched:    sched,
		logger:   logger,
		limits:   opts.Limits,
		showInfo: opts.ShowInfo,
	}
	// own boundary handling always runs first
	c.listeners = []ProgressListener{c}
	selector.AddListener(c)
	return c
}

// AddProgressListener subscribes l to polled positions.
func (c *Coordinator) AddProgressListener(l ProgressListener) {
	c.listeners = append(c.listeners, l)
}

// AddErrorListener subscribes l to terminal player errors.
func (c *Coordinator) AddErrorListener(l ErrorListener) {
	c.errorListeners = append(c.errorListeners, l)
}

// AttachStrip lets the coordinator feed source and video size to the strip.
func (c *Coordinator) AttachStrip(s *ThumbnailStrip) { c.strip = s }

// AttachExporter sets the exporter used by Save.
func (c *Coordinator) AttachExporter(e *Exporter) { c.exporter = e }

// Load validates src and hands it to the player. Nothing is changed when src
// is unusable.
func (c *Coordinator) Load(src string) error {
	if err := validateSource(src); err != nil {
		return err
	}
	if err := c.player.Load(src); err != nil {
		return fmt.Errorf("load %s: %w", src, err)
	}
	c.source = src
	if c.strip != nil {
		c.strip.SetSource(src)
	}
	c.logger.Info("video loaded", slog.String("source", src))
	return nil
}

func validateSource(src string) error {
	if strings.TrimSpace(src) == "" {
		return ErrNoSource
	}
	if u, err := url.Parse(src); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return nil
	}
	info, err := os.Stat(src)
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrSourceNotFound, src)
	}
	if err != nil {
		return fmt.Errorf("stat %s: %w", src, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s", ErrSourceIsDir, src)
	}
	return nil
}

// HandleMetadataReady records the duration, places the initial window and
// seeks to its start. Only the first call has any effect.
func (c *Coordinator) HandleMetadataReady(meta Metadata) {
	if c.prepared || c.failed != nil {
		return
	}
	duration, err := c.player.DurationMs()
	if err != nil {
		c.HandlePlayerError(err)
		return
	}
	if duration <= 0 {
		duration = meta.DurationMs
	}
	if duration <= 0 {
		c.HandlePlayerError(ErrUnknownDuration)
		return
	}

	c.prepared = true
	c.meta = meta
	c.durationMs = duration
	c.playIconVisible = true

	w := InitialWindow(duration, c.limits)
	c.startMs, c.endMs = w.StartMs, w.EndMs
	c.spanMs = w.Span()

	c.selector.SetSpanLimits(c.spanPercent(c.limits.MinMs), c.maxSpanPercent())
	c.selector.SetThumbValue(Left, c.percentOf(c.startMs))
	c.selector.SetThumbValue(Right, c.percentOf(c.endMs))
	c.seek(c.startMs)
	c.updateLabel()
	c.selector.Settle()

	if c.strip != nil {
		c.strip.SetNaturalSize(meta.Width, meta.Height)
	}
	c.logger.Info("video prepared",
		slog.Int64("duration_ms", duration),
		slog.Int64("start_ms", c.startMs),
		slog.Int64("end_ms", c.endMs),
		slog.Int("width", meta.Width),
		slog.Int("height", meta.Height),
	)
}

func (c *Coordinator) percentOf(ms int64) float64 {
	return float64(ms) * ScaleMax / float64(c.durationMs)
}

func (c *Coordinator) spanPercent(ms int64) float64 {
	if ms <= 0 {
		return 0
	}
	return c.percentOf(ms)
}

func (c *Coordinator) maxSpanPercent() float64 {
	if c.limits.MaxMs <= 0 || c.durationMs < c.limits.MaxMs {
		return ScaleMax
	}
	return c.percentOf(c.limits.MaxMs)
}

// TogglePlayPause pauses a playing video, or plays a paused one. Playing
// after the window end was reached starts over from the window start.
func (c *Coordinator) TogglePlayPause() {
	if !c.prepared || c.failed != nil {
		return
	}
	playing, err := c.player.IsPlaying()
	if err != nil {
		c.HandlePlayerError(err)
		return
	}
	if playing {
		c.playIconVisible = true
		c.stopPolling()
		c.pause()
		return
	}
	c.playIconVisible = false
	if c.resetOnPlay {
		c.resetOnPlay = false
		c.seek(c.startMs)
	}
	c.startPolling()
	if err := c.player.Play(); err != nil {
		c.HandlePlayerError(err)
	}
}

func (c *Coordinator) startPolling() {
	c.stopPolling()
	c.cancelPoll = c.sched.After(0, c.poll)
}

func (c *Coordinator) stopPolling() {
	if c.cancelPoll != nil {
		c.cancelPoll()
		c.cancelPoll = nil
	}
}

func (c *Coordinator) poll() {
	c.cancelPoll = nil
	c.notifyProgress(true)
	if c.failed != nil {
		return
	}
	playing, err := c.player.IsPlaying()
	if err != nil {
		c.HandlePlayerError(err)
		return
	}
	if playing {
		c.cancelPoll = c.sched.After(PollInterval, c.poll)
	}
}

// notifyProgress reads the player position and fans it out. With all unset
// only the coordinator's own handler runs.
func (c *Coordinator) notifyProgress(all bool) {
	if c.durationMs == 0 || c.failed != nil {
		return
	}
	pos, err := c.player.CurrentPositionMs()
	if err != nil {
		c.HandlePlayerError(err)
		return
	}
	percent := pos * 100 / c.durationMs
	if !all {
		c.listeners[0].OnProgress(pos, c.durationMs, percent)
		return
	}
	for _, l := range c.listeners {
		l.OnProgress(pos, c.durationMs, percent)
	}
}

// OnProgress enforces the window end during playback and moves the scrubber.
func (c *Coordinator) OnProgress(positionMs, _, _ int64) {
	c.scrubberVisible = !(positionMs <= c.startMs && positionMs <= c.endMs)
	if positionMs >= c.endMs {
		c.stopPolling()
		c.pause()
		c.playIconVisible = true
		c.resetOnPlay = true
		return
	}
	c.setScrubPosition(positionMs)
}

func (c *Coordinator) setScrubPosition(ms int64) {
	if c.durationMs > 0 {
		c.scrubProgress = int(ScrubMax * ms / c.durationMs)
	}
}

func (c *Coordinator) scrubToMs(progress int) int64 {
	return c.durationMs * int64(progress) / ScrubMax
}

// OnSelectionCreated is part of SelectionListener.
func (c *Coordinator) OnSelectionCreated(Index, float64) {}

// OnDragStart is part of SelectionListener.
func (c *Coordinator) OnDragStart(Index, float64) {}

// OnSelectionChanged moves the window edge. A new start is sought right away
// so the frame under the left thumb is visible while dragging.
func (c *Coordinator) OnSelectionChanged(i Index, value float64) {
	if !c.prepared {
		return
	}
	c.scrubberVisible = false
	ms := int64(float64(c.durationMs) * value / ScaleMax)
	switch i {
	case Left:
		c.startMs = ms
		c.seek(c.startMs)
	case Right:
		c.endMs = ms
	}
	c.updateLabel()
	c.spanMs = c.endMs - c.startMs
}

// OnDragStop pauses playback once a thumb is released.
func (c *Coordinator) OnDragStop(Index, float64) {
	if !c.prepared {
		return
	}
	c.stopPolling()
	c.pause()
	c.playIconVisible = true
}

// ScrubStart is called when the user grabs the scrubber.
func (c *Coordinator) ScrubStart() {
	if !c.prepared {
		return
	}
	c.stopPolling()
	c.pause()
	c.playIconVisible = true
	c.notifyProgress(false)
}

// ScrubChange moves the scrubber. User moves outside the window are pulled
// back to the nearest window edge.
func (c *Coordinator) ScrubChange(progress int, fromUser bool) {
	if !c.prepared {
		return
	}
	c.scrubProgress = min(max(progress, 0), ScrubMax)
	if !fromUser {
		return
	}
	t := c.scrubToMs(c.scrubProgress)
	if t < c.startMs {
		c.setScrubPosition(c.startMs)
	} else if t > c.endMs {
		c.setScrubPosition(c.endMs)
	}
}

// ScrubStop seeks to where the scrubber was released.
func (c *Coordinator) ScrubStop() {
	if !c.prepared {
		return
	}
	c.stopPolling()
	c.pause()
	c.playIconVisible = true
	c.seek(c.scrubToMs(c.scrubProgress))
	c.notifyProgress(false)
}

// Suspend remembers the playback position, e.g. before the host goes away.
func (c *Coordinator) Suspend() {
	if c.failed != nil {
		return
	}
	pos, err := c.player.CurrentPositionMs()
	if err != nil {
		c.HandlePlayerError(err)
		return
	}
	c.savedPosMs = pos
}

// Resume seeks back to the position remembered by Suspend.
func (c *Coordinator) Resume() {
	c.seek(c.savedPosMs)
}

// Cancel stops playback altogether.
func (c *Coordinator) Cancel() {
	c.stopPolling()
	if err := c.player.Stop(); err != nil {
		c.logger.Warn("stop player", slog.Any("error", err))
	}
}

// Close releases the poll task and any background work.
func (c *Coordinator) Close() {
	c.stopPolling()
	if c.strip != nil {
		c.strip.Close()
	}
	if c.exporter != nil {
		c.exporter.Close()
	}
}

// HandlePlayerError ends the session: polling stops and error listeners are
// told once. There is no retry.
func (c *Coordinator) HandlePlayerError(err error) {
	if err == nil || c.failed != nil {
		return
	}
	c.failed = err
	c.stopPolling()
	c.playIconVisible = true
	c.logger.Error("player failed", slog.Any("error", err))
	msg := fmt.Sprintf("Something went wrong reason : %v", err)
	for _, l := range c.errorListeners {
		l.OnPlayerError(msg)
	}
}

// Save exports the current window.
func (c *Coordinator) Save() error {
	if !c.prepared {
		return ErrNotPrepared
	}
	if c.exporter == nil {
		return ErrNoExporter
	}
	return c.exporter.Export(c.source, c.Window(), c.durationMs)
}

func (c *Coordinator) seek(ms int64) {
	if c.failed != nil {
		return
	}
	if err := c.player.SeekTo(ms); err != nil {
		c.HandlePlayerError(err)
		return
	}
	c.logger.Debug("seek", slog.Int64("position_ms", ms))
}

func (c *Coordinator) pause() {
	if c.failed != nil {
		return
	}
	if err := c.player.Pause(); err != nil {
		c.HandlePlayerError(err)
	}
}

func (c *Coordinator) updateLabel() {
	c.label = timeutil.FormatSelection(c.startMs, c.endMs)
}

// Window returns the current selection in milliseconds.
func (c *Coordinator) Window() Window { return Window{StartMs: c.startMs, EndMs: c.endMs} }

// SpanMs returns the length of the selection.
func (c *Coordinator) SpanMs() int64 { return c.spanMs }

// DurationMs returns the video duration, 0 before metadata arrived.
func (c *Coordinator) DurationMs() int64 { return c.durationMs }

// Metadata returns the metadata the coordinator was prepared with.
func (c *Coordinator) Metadata() Metadata { return c.meta }

// Source returns the loaded media path.
func (c *Coordinator) Source() string { return c.source }

// Prepared reports whether metadata has been handled.
func (c *Coordinator) Prepared() bool { return c.prepared }

// Err returns the terminal player error, if any.
func (c *Coordinator) Err() error { return c.failed }

// PlayIconVisible reports whether the play affordance should be shown.
func (c *Coordinator) PlayIconVisible() bool { return c.playIconVisible }

// ScrubberVisible reports whether the scrubber handle should be shown.
func (c *Coordinator) ScrubberVisible() bool { return c.scrubberVisible }

// ScrubProgress returns the scrubber position in [0, ScrubMax].
func (c *Coordinator) ScrubProgress() int { return c.scrubProgress }

// Label returns the selection label and whether it should be shown.
func (c *Coordinator) Label() (string, bool) { return c.label, c.showInfo }

// ResetOnPlay reports whether the next play restarts from the window start.
func (c *Coordinator) ResetOnPlay() bool { return c.resetOnPlay }
