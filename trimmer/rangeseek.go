package trimmer

// RangeSelector is the dual-thumb seek control. It owns both thumbs and turns
// touch gestures into constrained position updates.
//
// Drag state is Idle (current == NoThumb) or Dragging(current).
type RangeSelector struct {
	thumbs    [2]*Thumb
	space     Space
	listeners []SelectionListener
	current   Index
	// minSpan and maxSpan are percentages of the whole timeline.
	minSpan  float64
	maxSpan  float64
	firstRun bool
	redraw   func()
}

// NewRangeSelector creates a selector whose markers are thumbWidth x
// thumbHeight pixels. It stays unmeasured until the first Resize.
func NewRangeSelector(thumbWidth, thumbHeight float64) *RangeSelector {
	return &RangeSelector{
		thumbs:   newThumbs(thumbWidth, thumbHeight),
		space:    Space{ThumbWidth: thumbWidth},
		current:  NoThumb,
		maxSpan:  ScaleMax,
		firstRun: true,
	}
}

// AddListener registers l. Listeners are notified in registration order.
func (r *RangeSelector) AddListener(l SelectionListener) {
	r.listeners = append(r.listeners, l)
}

// OnRedraw sets the hook invoked whenever a thumb moved.
func (r *RangeSelector) OnRedraw(fn func()) {
	r.redraw = fn
}

// Space returns the current coordinate space.
func (r *RangeSelector) Space() Space { return r.space }

// Thumb returns a copy of thumb i.
func (r *RangeSelector) Thumb(i Index) Thumb { return *r.thumbs[i] }

// Value returns the percentage value of thumb i.
func (r *RangeSelector) Value(i Index) float64 { return r.thumbs[i].Value }

// Dragging returns the thumb being dragged, or NoThumb when idle.
func (r *RangeSelector) Dragging() Index { return r.current }

// Resize recomputes the coordinate space for a new view width. Thumb pixel
// positions are re-derived from their percentage values, so a window placed
// before the first measure survives it. The first resize that yields a usable
// space emits selection-created.
func (r *RangeSelector) Resize(viewWidth float64) {
	r.space.ViewWidth = viewWidth
	if !r.space.Measured() {
		return
	}
	for _, th := range r.thumbs {
		th.Pos = r.space.PercentToPixel(th.Index, th.Value)
	}
	if r.firstRun {
		r.firstRun = false
		r.emitCreated(Left, r.thumbs[Left].Value)
	}
	r.invalidate()
}

// SetThumbValue places thumb i at value programmatically. No selection event
// is emitted.
func (r *RangeSelector) SetThumbValue(i Index, value float64) {
	th := r.thumbs[i]
	th.Value = clampPercent(value)
	th.Pos = r.space.PercentToPixel(i, th.Value)
	r.invalidate()
}

// SetSpanLimits constrains the selection span to [minPercent, maxPercent] of
// the timeline. maxPercent <= 0 means unconstrained.
func (r *RangeSelector) SetSpanLimits(minPercent, maxPercent float64) {
	if maxPercent <= 0 || maxPercent > ScaleMax {
		maxPercent = ScaleMax
	}
	r.minSpan = clampPercent(minPercent)
	if r.minSpan > maxPercent {
		r.minSpan = maxPercent
	}
	r.maxSpan = maxPercent
}

// Settle emits drag-stop for both thumbs so listeners pick up the current
// window after programmatic placement.
func (r *RangeSelector) Settle() {
	r.emitDragStop(Left, r.thumbs[Left].Value)
	r.emitDragStop(Right, r.thumbs[Right].Value)
}

// ThumbAt returns the thumb whose hit zone contains x. When both zones
// contain x the later thumb wins.
func (r *RangeSelector) ThumbAt(x float64) Index {
	closest := NoThumb
	for _, th := range r.thumbs {
		if x >= th.Pos && x <= th.Pos+r.space.ThumbWidth {
			closest = th.Index
		}
	}
	return closest
}

// TouchDown starts a drag if x hits a thumb. It reports whether the event
// was consumed.
func (r *RangeSelector) TouchDown(x float64) bool {
	if !r.space.Measured() {
		return false
	}
	r.current = r.ThumbAt(x)
	if r.current == NoThumb {
		return false
	}
	th := r.thumbs[r.current]
	th.LastTouchX = x
	r.emitDragStart(r.current, th.Value)
	return true
}

// TouchMove drags the current thumb to follow x.
func (r *RangeSelector) TouchMove(x float64) bool {
	switch r.current {
	case Left:
		r.moveLeft(x)
	case Right:
		r.moveRight(x)
	default:
		return false
	}
	r.invalidate()
	return true
}

// TouchUp ends the drag and emits drag-stop.
func (r *RangeSelector) TouchUp(float64) bool {
	if r.current == NoThumb {
		return false
	}
	i := r.current
	r.current = NoThumb
	r.emitDragStop(i, r.thumbs[i].Value)
	return true
}

func (r *RangeSelector) minWidth() float64 { return r.space.SpanWidth(r.minSpan) }

func (r *RangeSelector) maxWidth() float64 { return r.space.SpanWidth(r.maxSpan) }

func (r *RangeSelector) moveLeft(x float64) {
	left, right := r.thumbs[Left], r.thumbs[Right]
	dx := x - left.LastTouchX
	newX := left.Pos + dx
	lo := r.space.RangeMin()

	switch {
	case newX+r.minWidth() >= right.Pos:
		left.Pos = max(lo, right.Pos-r.minWidth())
	case newX <= lo:
		if lo < left.Pos {
			r.capRight(lo)
		}
		left.Pos = lo
	default:
		if dx < 0 {
			r.capRight(newX)
		}
		left.Pos = newX
		left.LastTouchX = x
	}
	r.setThumbPos(Left, left.Pos)
}

func (r *RangeSelector) moveRight(x float64) {
	left, right := r.thumbs[Left], r.thumbs[Right]
	dx := x - right.LastTouchX
	newX := right.Pos + dx
	hi := r.space.RangeMax()

	switch {
	case newX <= left.Pos+r.minWidth():
		right.Pos = min(hi, left.Pos+r.minWidth())
	case newX >= hi:
		if hi > right.Pos {
			r.capLeft(hi)
		}
		right.Pos = hi
	default:
		if dx > 0 {
			r.capLeft(newX)
		}
		right.Pos = newX
		right.LastTouchX = x
	}
	r.setThumbPos(Right, right.Pos)
}

// capRight drags the right thumb along when the left thumb moving to newLeft
// would open the window wider than the max span.
func (r *RangeSelector) capRight(newLeft float64) {
	right := r.thumbs[Right]
	if right.Pos-newLeft > r.maxWidth() {
		r.setThumbPos(Right, newLeft+r.maxWidth())
	}
}

// capLeft is capRight for a right thumb moving to newRight.
func (r *RangeSelector) capLeft(newRight float64) {
	left := r.thumbs[Left]
	if newRight-left.Pos > r.maxWidth() {
		r.setThumbPos(Left, newRight-r.maxWidth())
	}
}

func (r *RangeSelector) setThumbPos(i Index, pos float64) {
	th := r.thumbs[i]
	th.Pos = pos
	th.Value = clampPercent(r.space.PixelToPercent(i, pos))
	r.emitChanged(i, th.Value)
}

func (r *RangeSelector) invalidate() {
	if r.redraw != nil {
		r.redraw()
	}
}

func (r *RangeSelector) emitCreated(i Index, v float64) {
	for _, l := range r.listeners {
		l.OnSelectionCreated(i, v)
	}
}

func (r *RangeSelector) emitChanged(i Index, v float64) {
	for _, l := range r.listeners {
		l.OnSelectionChanged(i, v)
	}
}

func (r *RangeSelector) emitDragStart(i Index, v float64) {
	for _, l := range r.listeners {
		l.OnDragStart(i, v)
	}
}

func (r *RangeSelector) emitDragStop(i Index, v float64) {
	for _, l := range r.listeners {
		l.OnDragStop(i, v)
	}
}
