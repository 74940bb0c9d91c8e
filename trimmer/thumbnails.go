package trimmer

import (
	"context"
	"log/slog"
	"math"
)

// MinFrames is the fewest thumbnails laid across the timeline.
const MinFrames = 10

// FrameLayout decides how many frames fill a strip viewWidth wide and how
// wide each slot is. Frames keep the video's aspect ratio at frameHeight; an
// unknown size is treated as square.
func FrameLayout(viewWidth, frameHeight, naturalWidth, naturalHeight int) (count, slotWidth int) {
	if viewWidth <= 0 || frameHeight <= 0 {
		return 0, 0
	}
	frameWidth := frameHeight
	if naturalWidth > 0 && naturalHeight > 0 {
		frameWidth = int(float64(naturalWidth) / float64(naturalHeight) * float64(frameHeight))
	}
	if frameWidth <= 0 {
		frameWidth = 1
	}
	count = int(math.Ceil(float64(viewWidth) / float64(frameWidth)))
	if count < MinFrames {
		count = MinFrames
	}
	slotWidth = viewWidth / count
	if slotWidth < 1 {
		slotWidth = 1
	}
	return count, slotWidth
}

// ThumbnailStrip keeps the frames shown behind the range selector. Every
// width change starts a one-shot extraction in the background; the result
// replaces the frame slice wholesale on the UI thread. Results of superseded
// extractions are dropped.
type ThumbnailStrip struct {
	extractor Extractor
	sched     Scheduler
	logger    *slog.Logger

	source      string
	frameHeight int
	naturalW    int
	naturalH    int
	width       int

	frames    []Frame
	count     int
	slotWidth int

	generation uint64
	cancel     context.CancelFunc
	redraw     func()
}

// NewThumbnailStrip creates a strip whose frames are frameHeight pixels high.
func NewThumbnailStrip(extractor Extractor, sched Scheduler, frameHeight int, logger *slog.Logger) *ThumbnailStrip {
	if logger == nil {
		logger = slog.Default()
	}
	return &ThumbnailStrip{
		extractor:   extractor,
		sched:       sched,
		frameHeight: frameHeight,
		logger:      logger,
	}
}

// OnRedraw sets the hook invoked when new frames arrive.
func (s *ThumbnailStrip) OnRedraw(fn func()) { s.redraw = fn }

// SetSource points the strip at a video.
func (s *ThumbnailStrip) SetSource(uri string) {
	if uri == s.source {
		return
	}
	s.source = uri
	s.refresh()
}

// SetNaturalSize records the video dimensions used for the frame layout.
func (s *ThumbnailStrip) SetNaturalSize(width, height int) {
	if width == s.naturalW && height == s.naturalH {
		return
	}
	s.naturalW, s.naturalH = width, height
	s.refresh()
}

// Resize starts a new extraction when the width actually changed.
func (s *ThumbnailStrip) Resize(width int) {
	if width == s.width {
		return
	}
	s.width = width
	s.refresh()
}

// Frames returns the current snapshot. The slice is never modified after it
// was handed out.
func (s *ThumbnailStrip) Frames() []Frame { return s.frames }

// Layout returns the frame count and slot width of the current snapshot.
func (s *ThumbnailStrip) Layout() (count, slotWidth int) { return s.count, s.slotWidth }

// Close cancels an in-flight extraction.
func (s *ThumbnailStrip) Close() {
	s.generation++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *ThumbnailStrip) refresh() {
	if s.source == "" || s.width <= 0 {
		return
	}
	count, slotWidth := FrameLayout(s.width, s.frameHeight, s.naturalW, s.naturalH)
	if count == 0 {
		return
	}

	s.Close()
	gen := s.generation
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	src, height := s.source, s.frameHeight

	go func() {
		frames, err := s.extractor.ExtractFrames(ctx, src, slotWidth, height, count)
		s.sched.Post(func() {
			if gen != s.generation {
				return
			}
			s.cancel = nil
			cancel()
			if err != nil {
				s.logger.Warn("thumbnail extraction failed", slog.String("source", src), slog.Any("error", err))
				return
			}
			s.frames = frames
			s.count = count
			s.slotWidth = slotWidth
			if s.redraw != nil {
				s.redraw()
			}
		})
	}()
}
