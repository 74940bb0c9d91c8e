// Package export trims a window out of a video with ffmpeg.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/user/video-trimmer-cli/deps"
	"github.com/user/video-trimmer-cli/pkg/media"
	"github.com/user/video-trimmer-cli/trimmer"
)

const (
	// FrameRate of every exported clip.
	FrameRate = 30
	// VideoCodec is H.265, which keeps short clips small.
	VideoCodec = "libx265"
	// AudioCodec of every exported clip.
	AudioCodec = "aac"
)

// Transcoder re-encodes the selected window into an mp4. It implements
// trimmer.Transcoder.
type Transcoder struct {
	bitrateMbps int
	logger      *slog.Logger
	run         func(ctx context.Context, stream *ffmpeg.Stream) error
}

// NewTranscoder creates a transcoder encoding video at bitrateMbps.
func NewTranscoder(bitrateMbps int, logger *slog.Logger) *Transcoder {
	if bitrateMbps <= 0 {
		bitrateMbps = 2
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Transcoder{
		bitrateMbps: bitrateMbps,
		logger:      logger,
		run: func(ctx context.Context, stream *ffmpeg.Stream) error {
			return media.Run(ctx, stream, nil)
		},
	}
}

// Stream builds the ffmpeg graph for req. Seeking before the input keeps the
// seek fast; -t is the window length so the cut ends at EndMs.
func (t *Transcoder) Stream(req trimmer.TrimRequest) *ffmpeg.Stream {
	bitrate := fmt.Sprintf("%dM", t.bitrateMbps)
	return ffmpeg.Input(req.Source, ffmpeg.KwArgs{"ss": media.Seconds(req.StartMs)}).
		Output(req.Destination, ffmpeg.KwArgs{
			"t":        media.Seconds(req.EndMs - req.StartMs),
			"c:v":      VideoCodec,
			"c:a":      AudioCodec,
			"b:v":      bitrate,
			"maxrate":  bitrate,
			"bufsize":  fmt.Sprintf("%dM", 2*t.bitrateMbps),
			"r":        FrameRate,
			"pix_fmt":  "yuv420p",
			"tag:v":    "hvc1",
			"movflags": "+faststart",
		}).
		OverWriteOutput()
}

// Trim writes req.Destination and returns its path. The ffmpeg process is
// killed when ctx ends.
func (t *Transcoder) Trim(ctx context.Context, req trimmer.TrimRequest) (string, error) {
	if err := deps.CheckFfmpeg(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(req.Destination), 0755); err != nil {
		return "", errors.Wrap(err, "failed to create output directory")
	}

	t.logger.Debug("ffmpeg trim", slog.Any("args", t.Stream(req).GetArgs()))
	if err := t.run(ctx, t.Stream(req)); err != nil {
		// a half-written file is worse than none
		_ = os.Remove(req.Destination)
		return "", err
	}

	info, err := os.Stat(req.Destination)
	if err != nil {
		return "", errors.Wrap(err, "stat output")
	}
	t.logger.Info("clip written",
		slog.String("path", req.Destination),
		slog.Int64("bytes", info.Size()),
	)
	return req.Destination, nil
}
