package mpv

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/user/video-trimmer-cli/trimmer"
)

// metadataPollInterval is how often WaitForMetadata asks mpv for the video size.
const metadataPollInterval = 50 * time.Millisecond

// Player adapts a Client to trimmer.Player. Positions cross the socket in
// seconds and are converted to milliseconds here.
type Player struct {
	client *Client
}

// NewPlayer wraps a connected client.
func NewPlayer(client *Client) *Player {
	return &Player{client: client}
}

// Load opens uri paused.
func (p *Player) Load(uri string) error {
	if err := p.client.SetPause(true); err != nil {
		return err
	}
	return p.client.LoadFile(uri)
}

// Play resumes playback.
func (p *Player) Play() error { return p.client.SetPause(false) }

// Pause pauses playback.
func (p *Player) Pause() error { return p.client.SetPause(true) }

// Stop stops playback.
func (p *Player) Stop() error { return p.client.Stop() }

// SeekTo jumps to ms.
func (p *Player) SeekTo(ms int64) error {
	return p.client.Seek(float64(ms) / 1000)
}

// CurrentPositionMs returns the playback position. Before the first frame is
// decoded mpv has no position, which is reported as 0.
func (p *Player) CurrentPositionMs() (int64, error) {
	sec, err := p.client.GetFloat("time-pos")
	if errors.Is(err, ErrPropertyUnavailable) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return secondsToMs(sec), nil
}

// DurationMs returns the duration, 0 while it is unknown.
func (p *Player) DurationMs() (int64, error) {
	sec, err := p.client.GetFloat("duration")
	if errors.Is(err, ErrPropertyUnavailable) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return secondsToMs(sec), nil
}

// IsPlaying reports whether mpv is unpaused. With --keep-open mpv pauses
// itself at the end of the file.
func (p *Player) IsPlaying() (bool, error) {
	paused, err := p.client.GetBool("pause")
	if err != nil {
		return false, err
	}
	return !paused, nil
}

// WaitForMetadata polls until mpv reports the video size and duration, which
// is the metadata-ready notification of this player. A video rotated by 90 or
// 270 degrees has its natural width and height swapped.
func (p *Player) WaitForMetadata(ctx context.Context) (trimmer.Metadata, error) {
	ticker := time.NewTicker(metadataPollInterval)
	defer ticker.Stop()
	for {
		meta, err := p.metadata()
		if err == nil {
			return meta, nil
		}
		if !errors.Is(err, ErrPropertyUnavailable) {
			return trimmer.Metadata{}, err
		}
		select {
		case <-ctx.Done():
			return trimmer.Metadata{}, fmt.Errorf("waiting for video metadata: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

func (p *Player) metadata() (trimmer.Metadata, error) {
	width, err := p.client.GetFloat("width")
	if err != nil {
		return trimmer.Metadata{}, err
	}
	height, err := p.client.GetFloat("height")
	if err != nil {
		return trimmer.Metadata{}, err
	}
	duration, err := p.client.GetFloat("duration")
	if err != nil {
		return trimmer.Metadata{}, err
	}
	meta := trimmer.Metadata{
		Width:      int(width),
		Height:     int(height),
		DurationMs: secondsToMs(duration),
	}
	// some builds have no rotation on audio-only or still inputs
	if rotate, err := p.client.GetFloat("video-params/rotate"); err == nil {
		if r := int(rotate) % 360; r == 90 || r == 270 {
			meta.Width, meta.Height = meta.Height, meta.Width
		}
	}
	return meta, nil
}

func secondsToMs(sec float64) int64 {
	return int64(math.Round(sec * 1000))
}
