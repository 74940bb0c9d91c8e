// Package trimmer implements the interactive core of the video trimmer:
// the dual-thumb range selector, the progress indicator, the thumbnail strip,
// the playback coordinator and the export trigger.
//
// All state in this package is confined to a single logical UI thread. Work
// that must run elsewhere (frame extraction, transcoding) hands its result
// back through a Scheduler.
package trimmer

// Index identifies one of the two thumbs of the range selector.
type Index int

const (
	// NoThumb is the index reported when a touch hits neither thumb.
	NoThumb Index = -1
	// Left is the thumb marking the start of the selection.
	Left Index = 0
	// Right is the thumb marking the end of the selection.
	Right Index = 1
)

// ScaleMax is the upper bound of a thumb value.
const ScaleMax = 100.0

func (i Index) String() string {
	switch i {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "none"
	}
}

// Thumb is a draggable marker for one edge of the selection window.
type Thumb struct {
	// Index is the fixed identity of the thumb.
	Index Index
	// Value is the position as a percentage in [0, 100].
	Value float64
	// Pos is the pixel offset of the marker's left edge.
	Pos float64
	// LastTouchX is the drag anchor of the current gesture.
	LastTouchX float64
	// Width and Height are the extents of the marker.
	Width  float64
	Height float64
}

// newThumbs creates the two thumbs with their fixed identities, spanning the
// whole timeline.
func newThumbs(width, height float64) [2]*Thumb {
	return [2]*Thumb{
		{Index: Left, Width: width, Height: height},
		{Index: Right, Value: ScaleMax, Width: width, Height: height},
	}
}

// Space is the pixel coordinate space of the selector.
type Space struct {
	ViewWidth  float64
	ThumbWidth float64
}

// RangeMin is the smallest pixel position a thumb may take.
func (s Space) RangeMin() float64 { return 0 }

// RangeMax is the largest pixel position a thumb may take.
func (s Space) RangeMax() float64 { return s.ViewWidth - s.ThumbWidth }

// usable is the pixel distance a thumb travels between 0% and 100%.
func (s Space) usable() float64 { return s.RangeMax() - s.ThumbWidth }

// Measured reports whether the space is wide enough to place both thumbs.
func (s Space) Measured() bool { return s.usable() > 0 }

// PercentToPixel converts a percentage to the pixel position of the thumb.
// The thumb's own width is folded in so that the selection edge, not the
// marker's left corner, lines up with the percentage point.
func (s Space) PercentToPixel(i Index, percent float64) float64 {
	px := percent * s.RangeMax() / ScaleMax
	if i == Left {
		return px - percent*s.ThumbWidth/ScaleMax
	}
	return px + (ScaleMax-percent)*s.ThumbWidth/ScaleMax
}

// PixelToPercent is the exact inverse of PercentToPixel for the same index.
func (s Space) PixelToPercent(i Index, pixel float64) float64 {
	usable := s.usable()
	if usable <= 0 {
		if i == Left {
			return 0
		}
		return ScaleMax
	}
	if i == Left {
		return pixel * ScaleMax / usable
	}
	return (pixel - s.ThumbWidth) * ScaleMax / usable
}

// SpanWidth returns the pixel distance Right.Pos-Left.Pos of a window that
// covers spanPercent of the timeline. It does not depend on where the window
// sits.
func (s Space) SpanWidth(spanPercent float64) float64 {
	return s.ThumbWidth + spanPercent*s.usable()/ScaleMax
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > ScaleMax {
		return ScaleMax
	}
	return v
}
