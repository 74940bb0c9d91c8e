package trimmer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"
)

var (
	// ErrNoExporter is returned by Save when no exporter is attached.
	ErrNoExporter = errors.New("trimmer: no exporter configured")
	// ErrInvalidWindow is returned when the selection cannot be exported.
	ErrInvalidWindow = errors.New("trimmer: invalid trim window")
	// ErrExportInProgress is returned when an export is already running.
	ErrExportInProgress = errors.New("trimmer: export already in progress")
	// ErrSpanOutOfLimits is returned for a window shorter or longer than the
	// configured limits allow.
	ErrSpanOutOfLimits = errors.New("trimmer: selection length out of limits")
)

// ExporterConfig configures an Exporter.
type ExporterConfig struct {
	// DestinationDir receives the trimmed files.
	DestinationDir string
	// Publisher, if set, runs after a successful trim.
	Publisher Publisher
	Logger    *slog.Logger
}

// Exporter turns the final selection into a transcoder call. The call runs
// in the background and its outcome is delivered on the UI thread.
type Exporter struct {
	transcoder Transcoder
	publisher  Publisher
	sched      Scheduler
	destDir    string
	logger     *slog.Logger
	listeners  []ExportListener
	running    bool
	last       TrimRequest
	cancel     context.CancelFunc
}

// NewExporter creates an exporter writing into cfg.DestinationDir.
func NewExporter(t Transcoder, sched Scheduler, cfg ExporterConfig) *Exporter {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{
		transcoder: t,
		publisher:  cfg.Publisher,
		sched:      sched,
		destDir:    cfg.DestinationDir,
		logger:     logger,
	}
}

// AddListener subscribes l to export outcomes.
func (e *Exporter) AddListener(l ExportListener) {
	e.listeners = append(e.listeners, l)
}

// Running reports whether an export is in flight.
func (e *Exporter) Running() bool { return e.running }

// LastRequest returns the request of the most recently started export.
func (e *Exporter) LastRequest() TrimRequest { return e.last }

// ValidateWindow checks 0 <= start < end <= duration. A durationMs <= 0 skips
// the upper bound.
func ValidateWindow(w Window, durationMs int64) error {
	if w.StartMs < 0 || w.StartMs >= w.EndMs {
		return fmt.Errorf("%w: start %dms, end %dms", ErrInvalidWindow, w.StartMs, w.EndMs)
	}
	if durationMs > 0 && w.EndMs > durationMs {
		return fmt.Errorf("%w: end %dms is past the %dms duration", ErrInvalidWindow, w.EndMs, durationMs)
	}
	return nil
}

// Check reports whether w respects the limits. A video shorter than MinMs
// may be exported whole.
func (l Limits) Check(w Window, durationMs int64) error {
	span := w.Span()
	if l.MinMs > 0 && span < l.MinMs && span < durationMs {
		return fmt.Errorf("%w: %dms is shorter than %dms", ErrSpanOutOfLimits, span, l.MinMs)
	}
	if l.MaxMs > 0 && span > l.MaxMs {
		return fmt.Errorf("%w: %dms is longer than %dms", ErrSpanOutOfLimits, span, l.MaxMs)
	}
	return nil
}

// Export starts trimming w out of src. It returns once the work is queued;
// the result arrives through the listeners. A failed export is not retried.
func (e *Exporter) Export(src string, w Window, durationMs int64) error {
	if src == "" {
		return ErrNoSource
	}
	if err := ValidateWindow(w, durationMs); err != nil {
		return err
	}
	if e.running {
		return ErrExportInProgress
	}

	req := TrimRequest{
		Source:      src,
		StartMs:     w.StartMs,
		EndMs:       w.EndMs,
		Destination: filepath.Join(e.destDir, uuid.New().String()+".mp4"),
	}
	ctx, cancel := context.WithCancel(context.Background())
	e.running = true
	e.last = req
	e.cancel = cancel
	e.logger.Info("export started",
		slog.String("source", req.Source),
		slog.Int64("start_ms", req.StartMs),
		slog.Int64("end_ms", req.EndMs),
		slog.String("destination", req.Destination),
	)

	go func() {
		defer cancel()
		uri, err := e.transcoder.Trim(ctx, req)
		if err == nil && e.publisher != nil {
			uri, err = e.publisher.Publish(ctx, uri)
		}
		e.sched.Post(func() { e.finish(uri, err) })
	}()
	return nil
}

func (e *Exporter) finish(uri string, err error) {
	e.running = false
	e.cancel = nil
	if err != nil {
		e.logger.Error("export failed", slog.Any("error", err))
		for _, l := range e.listeners {
			l.OnExportFailed(err.Error())
		}
		return
	}
	e.logger.Info("export finished", slog.String("output", uri))
	for _, l := range e.listeners {
		l.OnExportSucceeded(uri)
	}
}

// Close cancels an in-flight export. Its failure is still reported.
func (e *Exporter) Close() {
	if e.cancel != nil {
		e.cancel()
	}
}
