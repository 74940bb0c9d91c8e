package export

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/video-trimmer-cli/pkg/media"
	"github.com/user/video-trimmer-cli/trimmer"
)

var _ trimmer.Transcoder = (*Transcoder)(nil)

func skipIfNoFFmpeg(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not found in PATH, skipping test")
	}
}

func TestTranscoder_StreamArgs(t *testing.T) {
	tr := NewTranscoder(4, nil)
	args := tr.Stream(trimmer.TrimRequest{
		Source:      "/videos/match.mp4",
		StartMs:     5000,
		EndMs:       15000,
		Destination: "/out/clip.mp4",
	}).GetArgs()

	assert.Subset(t, args, []string{
		"-ss", "5.000",
		"-i", "/videos/match.mp4",
		"-t", "10.000",
		"-c:v", "libx265",
		"-c:a", "aac",
		"-b:v", "4M",
		"-r", "30",
		"/out/clip.mp4",
		"-y",
	})
	for i, a := range args {
		if a == "-ss" {
			assert.Less(t, i, indexOf(args, "-i"), "seek must come before the input")
		}
	}
}

func indexOf(args []string, s string) int {
	for i, a := range args {
		if a == s {
			return i
		}
	}
	return -1
}

func TestNewTranscoder_DefaultBitrate(t *testing.T) {
	tr := NewTranscoder(0, nil)
	args := tr.Stream(trimmer.TrimRequest{Source: "a", EndMs: 1000, Destination: "b"}).GetArgs()
	assert.Contains(t, args, "2M")
}

func TestTranscoder_TrimFailureRemovesPartialFile(t *testing.T) {
	skipIfNoFFmpeg(t)
	dir := t.TempDir()
	dest := filepath.Join(dir, "nested", "clip.mp4")

	tr := NewTranscoder(2, nil)
	tr.run = func(context.Context, *ffmpeg.Stream) error {
		require.NoError(t, os.WriteFile(dest, []byte("partial"), 0o644))
		return &media.FFmpegError{Stderr: "Unknown encoder 'libx265'", Err: errors.New("exit status 1")}
	}

	_, err := tr.Trim(context.Background(), trimmer.TrimRequest{Source: "a.mp4", EndMs: 1000, Destination: dest})
	require.Error(t, err)
	assert.Equal(t, "Unknown encoder 'libx265'", err.Error())
	assert.NoFileExists(t, dest)
	assert.DirExists(t, filepath.Dir(dest))
}

func TestTranscoder_TrimSuccess(t *testing.T) {
	skipIfNoFFmpeg(t)
	dest := filepath.Join(t.TempDir(), "clip.mp4")

	tr := NewTranscoder(2, nil)
	tr.run = func(context.Context, *ffmpeg.Stream) error {
		return os.WriteFile(dest, []byte("mp4"), 0o644)
	}

	out, err := tr.Trim(context.Background(), trimmer.TrimRequest{Source: "a.mp4", StartMs: 1000, EndMs: 2000, Destination: dest})
	require.NoError(t, err)
	assert.Equal(t, dest, out)
}
