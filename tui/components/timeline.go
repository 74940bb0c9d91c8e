package components

import (
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/user/video-trimmer-cli/trimmer"
	"github.com/user/video-trimmer-cli/tui/styles"
)

// TimelineState is everything the timeline needs to draw one frame.
type TimelineState struct {
	// Width in cells. One cell is one pixel of the selector's space.
	Width int
	// StripRows is the thumbnail strip height in cells. Each cell holds two
	// vertically stacked pixels.
	StripRows int

	Frames    []trimmer.Frame
	SlotWidth int
	Count     int

	Left, Right trimmer.Thumb

	Background    trimmer.Bar
	HasBackground bool
	Progress      trimmer.Bar
	HasProgress   bool

	ScrubberVisible bool
	ScrubProgress   int

	BackgroundColor lipgloss.Color
	FrameColor      lipgloss.Color
}

// TimelineHeight returns the number of lines Timeline renders.
func TimelineHeight(stripRows int) int {
	return stripRows + 3
}

type cellKind int

const (
	cellOutside cellKind = iota
	cellInside
	cellThumb
)

// Timeline renders the thumbnail strip with the range selector on top of it
// and the progress row below:
//
//	  ██━━━━━━━━━━██
//	▀▀██▀▀▀▀▀▀▀▀▀▀██▀▀   strip rows, dimmed outside the window
//	  ██━━━━━━━━━━██
//	    ───━━━●────
func Timeline(s TimelineState) string {
	if s.Width <= 0 || s.StripRows <= 0 {
		return ""
	}

	kinds := s.cellKinds()
	bg := styles.Parse(string(s.BackgroundColor))
	frames := make(map[int]image.Image, len(s.Frames))
	for _, f := range s.Frames {
		frames[f.Index] = f.Image
	}

	frameStyle := lipgloss.NewStyle().Foreground(s.FrameColor)
	thumbStyle := lipgloss.NewStyle().Foreground(s.FrameColor).Background(s.FrameColor)

	edge := func() string {
		var b strings.Builder
		for x := 0; x < s.Width; x++ {
			switch kinds[x] {
			case cellThumb:
				b.WriteString(thumbStyle.Render("█"))
			case cellInside:
				b.WriteString(frameStyle.Render("━"))
			default:
				b.WriteByte(' ')
			}
		}
		return b.String()
	}

	lines := make([]string, 0, TimelineHeight(s.StripRows))
	lines = append(lines, edge())
	for row := 0; row < s.StripRows; row++ {
		var b strings.Builder
		for x := 0; x < s.Width; x++ {
			if kinds[x] == cellThumb {
				b.WriteString(thumbStyle.Render("█"))
				continue
			}
			top := s.pixel(frames, bg, x, 2*row)
			bottom := s.pixel(frames, bg, x, 2*row+1)
			var fg, bg lipgloss.Color
			if kinds[x] == cellOutside {
				fg, bg = styles.Dim(top), styles.Dim(bottom)
			} else {
				fg, bg = styles.Hex(top), styles.Hex(bottom)
			}
			b.WriteString(lipgloss.NewStyle().Foreground(fg).Background(bg).Render("▀"))
		}
		lines = append(lines, b.String())
	}
	lines = append(lines, edge())
	lines = append(lines, s.progressRow())
	return strings.Join(lines, "\n")
}

// cellKinds classifies every column against the thumbs' pixel positions.
func (s TimelineState) cellKinds() []cellKind {
	kinds := make([]cellKind, s.Width)
	leftStart := int(math.Round(s.Left.Pos))
	leftEnd := leftStart + int(math.Round(s.Left.Width))
	rightStart := int(math.Round(s.Right.Pos))
	rightEnd := rightStart + int(math.Round(s.Right.Width))

	for x := range kinds {
		switch {
		case x >= leftStart && x < leftEnd, x >= rightStart && x < rightEnd:
			kinds[x] = cellThumb
		case x >= leftEnd && x < rightStart:
			kinds[x] = cellInside
		}
	}
	return kinds
}

// pixel returns the colour of strip pixel (x, y). Slots without a frame show
// the background colour.
func (s TimelineState) pixel(frames map[int]image.Image, bg color.Color, x, y int) color.Color {
	if s.SlotWidth <= 0 {
		return bg
	}
	slot := x / s.SlotWidth
	img, ok := frames[slot]
	if !ok || img == nil {
		return bg
	}
	b := img.Bounds()
	px, py := b.Min.X+x-slot*s.SlotWidth, b.Min.Y+y
	if px >= b.Max.X || py >= b.Max.Y {
		return bg
	}
	return img.At(px, py)
}

func (s TimelineState) progressRow() string {
	knob := -1
	if s.ScrubberVisible && s.Width > 0 {
		knob = s.ScrubProgress * (s.Width - 1) / trimmer.ScrubMax
	}

	bgStyle := lipgloss.NewStyle().Foreground(styles.Border)
	fillStyle := lipgloss.NewStyle().Foreground(styles.Cyan)
	knobStyle := lipgloss.NewStyle().Foreground(styles.Accent).Bold(true)

	var b strings.Builder
	for x := 0; x < s.Width; x++ {
		switch {
		case x == knob:
			b.WriteString(knobStyle.Render("●"))
		case s.HasProgress && x >= s.Progress.Left && x < s.Progress.Right:
			b.WriteString(fillStyle.Render("━"))
		case s.HasBackground && x >= s.Background.Left && x < s.Background.Right:
			b.WriteString(bgStyle.Render("─"))
		default:
			b.WriteByte(' ')
		}
	}
	return b.String()
}
