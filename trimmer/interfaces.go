package trimmer

import (
	"context"
	"image"
	"time"
)

// SelectionListener receives range selector events. Dispatch is synchronous
// and in registration order.
type SelectionListener interface {
	OnSelectionCreated(i Index, value float64)
	OnSelectionChanged(i Index, value float64)
	OnDragStart(i Index, value float64)
	OnDragStop(i Index, value float64)
}

// ProgressListener receives playback positions from the poll loop.
// percent is positionMs*100/durationMs truncated to an integer.
type ProgressListener interface {
	OnProgress(positionMs, durationMs, percent int64)
}

// ExportListener receives the outcome of an export.
type ExportListener interface {
	OnExportSucceeded(outputURI string)
	OnExportFailed(message string)
}

// ErrorListener receives terminal player errors for the current session.
type ErrorListener interface {
	OnPlayerError(message string)
}

// Player is the media playback engine.
type Player interface {
	Load(uri string) error
	Play() error
	Pause() error
	Stop() error
	SeekTo(ms int64) error
	CurrentPositionMs() (int64, error)
	DurationMs() (int64, error)
	IsPlaying() (bool, error)
}

// Metadata is delivered by the host once the player knows the video.
type Metadata struct {
	Width      int
	Height     int
	DurationMs int64
}

// Frame is one extracted thumbnail.
type Frame struct {
	Index int
	Image image.Image
}

// Extractor produces evenly spaced frames of a video. A frame that cannot be
// extracted is left out of the result rather than failing the whole pass.
type Extractor interface {
	ExtractFrames(ctx context.Context, uri string, width, height, count int) ([]Frame, error)
}

// TrimRequest describes one transcoder invocation.
type TrimRequest struct {
	Source      string
	StartMs     int64
	EndMs       int64
	Destination string
}

// Transcoder cuts [StartMs, EndMs] out of Source into Destination and returns
// the output location.
type Transcoder interface {
	Trim(ctx context.Context, req TrimRequest) (string, error)
}

// Publisher moves a finished export to its final location.
type Publisher interface {
	Publish(ctx context.Context, path string) (string, error)
}

// Scheduler runs functions on the UI thread.
type Scheduler interface {
	// Post queues fn to run on the UI thread.
	Post(fn func())
	// After runs fn on the UI thread once d has elapsed. The returned func
	// cancels it; cancelling after it ran is a no-op.
	After(d time.Duration, fn func()) (cancel func())
}
