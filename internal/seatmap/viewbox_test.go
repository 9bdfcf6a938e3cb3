package seatmap

import (
	"math"
	"testing"
)

func almost(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCameraInitialView(t *testing.T) {
	c := NewCamera(1000, 600)
	vb := c.ViewBox()
	if vb.X != 0 || vb.Y != 0 || vb.W != 1000 || vb.H != 600 {
		t.Fatalf("unexpected initial viewBox: %+v", vb)
	}
}

func TestZoomAboutCenter(t *testing.T) {
	c := NewCamera(1000, 600)
	c.Zoom(2)

	vb := c.ViewBox()
	if !almost(vb.W, 500) || !almost(vb.H, 300) {
		t.Fatalf("expected 500x300 window, got %+v", vb)
	}
	// Center preserved at (500, 300).
	if !almost(vb.X+vb.W/2, 500) || !almost(vb.Y+vb.H/2, 300) {
		t.Errorf("zoom moved the center: %+v", vb)
	}
}

func TestZoomInClampedToThirdOfWidth(t *testing.T) {
	c := NewCamera(1000, 600)
	for i := 0; i < 50; i++ {
		c.ZoomIn()
	}
	vb := c.ViewBox()
	if !almost(vb.W, 1000.0/3) {
		t.Fatalf("expected width clamped to %v, got %v", 1000.0/3, vb.W)
	}
	// Aspect ratio follows the document.
	if !almost(vb.H/vb.W, 600.0/1000) {
		t.Errorf("aspect ratio broken: %+v", vb)
	}
}

func TestZoomOutClampedToDoubleWidth(t *testing.T) {
	c := NewCamera(1000, 600)
	for i := 0; i < 50; i++ {
		c.ZoomOut()
	}
	vb := c.ViewBox()
	if !almost(vb.W, 2000) || !almost(vb.H, 1200) {
		t.Fatalf("expected 2000x1200 window, got %+v", vb)
	}
}

func TestZoomIgnoresNonPositiveFactor(t *testing.T) {
	c := NewCamera(1000, 600)
	c.Zoom(0)
	c.Zoom(-2)
	if vb := c.ViewBox(); vb.W != 1000 {
		t.Fatalf("non-positive factor changed the view: %+v", vb)
	}
}

func TestPanIsResolutionIndependent(t *testing.T) {
	// Same document, same drag gesture, two rendered sizes: the document
	// shift must scale with the viewBox-to-client ratio so the content
	// tracks the pointer.
	big := NewCamera(1000, 600)
	small := NewCamera(1000, 600)

	big.Pan(100, 50, 1000, 600)   // rendered 1:1
	small.Pan(100, 50, 500, 300)  // rendered at half size

	if vb := big.ViewBox(); !almost(vb.X, -100) || !almost(vb.Y, -50) {
		t.Fatalf("1:1 pan: %+v", vb)
	}
	if vb := small.ViewBox(); !almost(vb.X, -200) || !almost(vb.Y, -100) {
		t.Fatalf("half-size pan should move twice the document distance: %+v", vb)
	}
}

func TestPanAfterZoom(t *testing.T) {
	c := NewCamera(1000, 600)
	c.Zoom(2) // window is 500 wide
	x0 := c.ViewBox().X

	c.Pan(100, 0, 1000, 600)
	// 100px on a 1000px client showing a 500-unit window = 50 units.
	if vb := c.ViewBox(); !almost(vb.X, x0-50) {
		t.Fatalf("expected x shifted by -50, got %+v", vb)
	}
}

func TestPanIgnoresDegenerateClient(t *testing.T) {
	c := NewCamera(1000, 600)
	c.Pan(100, 100, 0, 0)
	if vb := c.ViewBox(); vb.X != 0 || vb.Y != 0 {
		t.Fatalf("degenerate client size moved the view: %+v", vb)
	}
}

func TestCameraReset(t *testing.T) {
	c := NewCamera(1000, 600)
	c.Zoom(3)
	c.Pan(40, 40, 1000, 600)
	c.Reset()

	vb := c.ViewBox()
	if vb.X != 0 || vb.Y != 0 || vb.W != 1000 || vb.H != 600 {
		t.Fatalf("reset did not restore the full view: %+v", vb)
	}
}

func TestViewBoxString(t *testing.T) {
	vb := ViewBox{X: 0, Y: -12.5, W: 1000, H: 600}
	if got := vb.String(); got != "0 -12.5 1000 600" {
		t.Fatalf("unexpected attribute value %q", got)
	}
}
