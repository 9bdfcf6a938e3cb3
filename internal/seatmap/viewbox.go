package seatmap

import "strconv"

// Zoom bounds relative to the document width: w/3 is the tightest zoom-in,
// 2w the widest zoom-out.
const (
	minZoomDiv  = 3.0
	maxZoomMult = 2.0
)

// ZoomStep is the per-click zoom factor.
const ZoomStep = 1.2

// ViewBox is the visible window over the document, in document units.
type ViewBox struct {
	X, Y, W, H float64
}

// String formats the viewBox as an SVG attribute value.
func (v ViewBox) String() string {
	return fnum(v.X) + " " + fnum(v.Y) + " " + fnum(v.W) + " " + fnum(v.H)
}

func fnum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Camera owns the viewBox over a fixed-size document and implements zoom and
// pan. Zoom is always about the current center and the width is clamped to
// [width/3, 2·width]; the height follows to preserve the document's aspect
// ratio. Pan converts pointer deltas from rendered pixels to document units,
// so dragging tracks the pointer at any rendered size.
type Camera struct {
	width, height float64
	vb            ViewBox
}

// NewCamera creates a camera showing the whole document.
func NewCamera(width, height float64) *Camera {
	return &Camera{
		width:  width,
		height: height,
		vb:     ViewBox{W: width, H: height},
	}
}

// ViewBox returns the current window.
func (c *Camera) ViewBox() ViewBox {
	return c.vb
}

// Zoom scales the window about its center by factor (>1 zooms in). The
// resulting width is clamped, with the height derived from it.
func (c *Camera) Zoom(factor float64) {
	if factor <= 0 {
		return
	}
	cx := c.vb.X + c.vb.W/2
	cy := c.vb.Y + c.vb.H/2

	w := c.vb.W / factor
	if min := c.width / minZoomDiv; w < min {
		w = min
	}
	if max := c.width * maxZoomMult; w > max {
		w = max
	}
	h := (w / c.width) * c.height

	c.vb = ViewBox{X: cx - w/2, Y: cy - h/2, W: w, H: h}
}

// ZoomIn zooms one step in.
func (c *Camera) ZoomIn() { c.Zoom(ZoomStep) }

// ZoomOut zooms one step out.
func (c *Camera) ZoomOut() { c.Zoom(1 / ZoomStep) }

// Pan shifts the window opposite to a pointer drag of (dxPx, dyPx) pixels on
// a rendering clientW×clientH pixels large. The same drag moves the content
// by the same document distance whatever the rendered resolution.
func (c *Camera) Pan(dxPx, dyPx, clientW, clientH float64) {
	if clientW <= 0 || clientH <= 0 {
		return
	}
	c.vb.X -= dxPx * (c.vb.W / clientW)
	c.vb.Y -= dyPx * (c.vb.H / clientH)
}

// Reset restores the full-document view.
func (c *Camera) Reset() {
	c.vb = ViewBox{W: c.width, H: c.height}
}
