package media

import (
	"context"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/user/video-trimmer-cli/trimmer"
)

// probeTimeout bounds a single ffprobe call.
const probeTimeout = 15 * time.Second

var (
	// ErrNoVideoStream is returned when the file has no video stream.
	ErrNoVideoStream = errors.New("no video stream found")
	// ErrNoDuration is returned when no duration could be determined.
	ErrNoDuration = errors.New("could not determine video duration")
)

type probeOutput struct {
	Streams []probeStream `json:"streams"`
	Format  struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

type probeStream struct {
	CodecType  string `json:"codec_type"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Duration   string `json:"duration"`
	NbFrames   string `json:"nb_frames"`
	RFrameRate string `json:"r_frame_rate"`
	Tags       struct {
		Rotate string `json:"rotate"`
	} `json:"tags"`
	SideDataList []struct {
		Rotation float64 `json:"rotation"`
	} `json:"side_data_list"`
}

// Probe reads the natural size and duration of path with ffprobe.
func Probe(ctx context.Context, path string) (trimmer.Metadata, error) {
	if err := ctx.Err(); err != nil {
		return trimmer.Metadata{}, err
	}
	out, err := ffmpeg.ProbeWithTimeout(path, probeTimeout, ffmpeg.KwArgs{})
	if err != nil {
		return trimmer.Metadata{}, errors.Wrapf(err, "probing %s", path)
	}
	return ParseProbe(out)
}

// ParseProbe turns ffprobe's JSON into Metadata. Duration comes from the
// video stream, then the container, then frame count over frame rate.
// Rotated videos report their displayed size.
func ParseProbe(data string) (trimmer.Metadata, error) {
	var p probeOutput
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return trimmer.Metadata{}, errors.WithStack(err)
	}

	var video *probeStream
	for i := range p.Streams {
		if p.Streams[i].CodecType == "video" {
			video = &p.Streams[i]
			break
		}
	}
	if video == nil {
		return trimmer.Metadata{}, ErrNoVideoStream
	}

	duration := parseSeconds(video.Duration)
	if duration == 0 {
		duration = parseSeconds(p.Format.Duration)
	}
	if duration == 0 {
		frames := parseSeconds(video.NbFrames)
		if rate := parseRate(video.RFrameRate); frames > 0 && rate > 0 {
			duration = frames / rate
		}
	}
	if duration == 0 {
		return trimmer.Metadata{}, ErrNoDuration
	}

	meta := trimmer.Metadata{
		Width:      video.Width,
		Height:     video.Height,
		DurationMs: int64(math.Round(duration * 1000)),
	}
	if quarterTurn(video) {
		meta.Width, meta.Height = meta.Height, meta.Width
	}
	return meta, nil
}

func quarterTurn(s *probeStream) bool {
	rotation := parseSeconds(s.Tags.Rotate)
	for _, sd := range s.SideDataList {
		if sd.Rotation != 0 {
			rotation = sd.Rotation
		}
	}
	r := int(math.Abs(rotation)) % 360
	return r == 90 || r == 270
}

func parseSeconds(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

func parseRate(s string) float64 {
	num, den, ok := strings.Cut(s, "/")
	if !ok {
		return parseSeconds(s)
	}
	n, d := parseSeconds(num), parseSeconds(den)
	if d == 0 {
		return 0
	}
	return n / d
}
