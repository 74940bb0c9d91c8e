package media

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"log/slog"

	"github.com/pkg/errors"
	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/user/video-trimmer-cli/trimmer"
)

// FrameExtractor grabs evenly spaced frames with one ffmpeg call per frame.
// It implements trimmer.Extractor.
type FrameExtractor struct {
	logger *slog.Logger
	probe  func(ctx context.Context, path string) (trimmer.Metadata, error)
}

// NewFrameExtractor creates an extractor that logs skipped frames to logger.
func NewFrameExtractor(logger *slog.Logger) *FrameExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &FrameExtractor{logger: logger, probe: Probe}
}

// FrameTimes returns the timestamps of count frames spread over durationMs.
// Each frame is taken from the middle of its slot.
func FrameTimes(durationMs int64, count int) []int64 {
	if count <= 0 || durationMs <= 0 {
		return nil
	}
	times := make([]int64, count)
	step := durationMs / int64(count)
	for i := range times {
		times[i] = int64(i)*step + step/2
	}
	return times
}

// FrameStream builds the graph that writes one PNG frame at ms, scaled to
// width x height, to stdout.
func FrameStream(uri string, ms int64, width, height int) *ffmpeg.Stream {
	return ffmpeg.Input(uri, ffmpeg.KwArgs{"ss": Seconds(ms)}).
		Output("pipe:", ffmpeg.KwArgs{
			"frames:v": 1,
			"vf":       fmt.Sprintf("scale=%d:%d", width, height),
			"f":        "image2",
			"c:v":      "png",
			"loglevel": "error",
		})
}

// ExtractFrames returns up to count frames, each tagged with its slot index.
// A frame that fails to decode is left out; the pass only fails when the
// video cannot be probed or ctx ends.
func (e *FrameExtractor) ExtractFrames(ctx context.Context, uri string, width, height, count int) ([]trimmer.Frame, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Errorf("invalid frame size %dx%d", width, height)
	}
	meta, err := e.probe(ctx, uri)
	if err != nil {
		return nil, err
	}

	frames := make([]trimmer.Frame, 0, count)
	for i, ms := range FrameTimes(meta.DurationMs, count) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := Run(ctx, FrameStream(uri, ms, width, height), &buf); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			e.logger.Debug("frame skipped", slog.Int("index", i), slog.Any("error", err))
			continue
		}
		img, err := png.Decode(&buf)
		if err != nil {
			e.logger.Debug("frame skipped", slog.Int("index", i), slog.Any("error", err))
			continue
		}
		frames = append(frames, trimmer.Frame{Index: i, Image: img})
	}
	return frames, nil
}
