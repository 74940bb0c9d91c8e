// Package media wraps ffmpeg and ffprobe: video metadata, thumbnail frames
// and a cancellable runner for ffmpeg-go stream graphs.
package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// FFmpegError represents a failed ffmpeg run, including the stderr output.
type FFmpegError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *FFmpegError) Error() string {
	if reason := lastLine(e.Stderr); reason != "" {
		return reason
	}
	return fmt.Sprintf("ffmpeg error: %v", e.Err)
}

func (e *FFmpegError) Unwrap() error {
	return e.Err
}

// lastLine returns the last non-empty line of ffmpeg's stderr, which is
// where it states why it gave up.
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			return l
		}
	}
	return ""
}

// Run executes the graph built with ffmpeg-go. The process is killed when ctx
// ends. stdout may be nil.
func Run(ctx context.Context, stream *ffmpeg.Stream, stdout io.Writer) error {
	args := stream.GetArgs()
	// #nosec G204 - arguments come from the stream graph, not a shell
	cmd := exec.CommandContext(ctx, "ffmpeg", args...)

	var stderr bytes.Buffer
	cmd.Stdout = stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return errors.Wrap(ctx.Err(), "ffmpeg cancelled")
		}
		return &FFmpegError{Args: args, Stderr: stderr.String(), Err: err}
	}
	return nil
}

// Seconds formats milliseconds the way ffmpeg expects a timestamp.
func Seconds(ms int64) string {
	return fmt.Sprintf("%.3f", float64(ms)/1000)
}
