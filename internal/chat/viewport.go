package chat

// NearBottomSlack is how close (in height units) the viewport must be to the
// bottom for a live append to auto-scroll. A reader parked on older messages
// is never yanked down.
const NearBottomSlack = 100

// Viewport models the scroll state of the message list: Top is the scroll
// offset, ContentHeight the total height of all rendered messages, and
// ViewHeight the visible window. All values share one abstract height unit
// supplied by the store's measure function.
type Viewport struct {
	Top           int
	ContentHeight int
	ViewHeight    int
}

// AtTop reports whether the viewport is scrolled to the very top, which
// triggers loading an older history page.
func (v *Viewport) AtTop() bool {
	return v.Top == 0
}

// AtBottom reports whether the viewport is within NearBottomSlack of the
// bottom.
func (v *Viewport) AtBottom() bool {
	return v.ContentHeight-v.Top-v.ViewHeight < NearBottomSlack
}

// ScrollToBottom pins the viewport to the newest content.
func (v *Viewport) ScrollToBottom() {
	v.Top = v.ContentHeight - v.ViewHeight
	if v.Top < 0 {
		v.Top = 0
	}
}

// ScrollTo sets the scroll offset, clamped to the valid range.
func (v *Viewport) ScrollTo(top int) {
	max := v.ContentHeight - v.ViewHeight
	if max < 0 {
		max = 0
	}
	if top > max {
		top = max
	}
	if top < 0 {
		top = 0
	}
	v.Top = top
}

// extendTop grows the content above the current position and shifts the
// offset by the same amount, so the visible content does not move. This is
// the scroll-anchoring rule for history prepends.
func (v *Viewport) extendTop(h int) {
	v.ContentHeight += h
	v.Top += h
}

// extendBottom grows the content below the current position.
func (v *Viewport) extendBottom(h int) {
	v.ContentHeight += h
}

// reset clears all dimensions except the view height.
func (v *Viewport) reset() {
	v.Top = 0
	v.ContentHeight = 0
}
