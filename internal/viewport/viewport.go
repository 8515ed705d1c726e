// Package viewport maps pointer coordinates to image space under zoom
// and pan, and tracks the pointer interaction state machine.
package viewport

import (
	"mask-painter/pkg/geometry"
)

const (
	// MinZoom and MaxZoom bound the zoom factor; every zoom request is
	// clamped into this range.
	MinZoom = 0.1
	MaxZoom = 10.0

	// WheelZoomStep is the relative zoom change per wheel notch.
	WheelZoomStep = 1.08
)

// Mode is the pointer interaction state. Exactly one mode is active at
// any time; drawing and panning are mutually exclusive.
type Mode int

const (
	ModeIdle Mode = iota
	ModeDrawing
	ModePanning
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "Idle"
	case ModeDrawing:
		return "Drawing"
	case ModePanning:
		return "Panning"
	default:
		return "Unknown"
	}
}

// Button identifies a pointer button.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
	ButtonMiddle
)

// Transform holds the affine map from image space to screen space:
// screen = image*zoom + translate.
type Transform struct {
	zoom      float64
	translate geometry.Point2D

	imageWidth  int
	imageHeight int

	mode      Mode
	panButton Button
}

// New creates a transform over an image of the given size, at zoom 1
// with no translation.
func New(imageWidth, imageHeight int) *Transform {
	return &Transform{
		zoom:        1.0,
		imageWidth:  imageWidth,
		imageHeight: imageHeight,
	}
}

// Zoom returns the current zoom factor.
func (t *Transform) Zoom() float64 {
	return t.zoom
}

// Translate returns the current screen-space translation.
func (t *Transform) Translate() geometry.Point2D {
	return t.translate
}

// Mode returns the current interaction mode.
func (t *Transform) Mode() Mode {
	return t.mode
}

// SetImageSize updates the image dimensions the transform maps.
func (t *Transform) SetImageSize(width, height int) {
	t.imageWidth = width
	t.imageHeight = height
}

// ScreenToImage maps a screen point to image-space coordinates.
func (t *Transform) ScreenToImage(p geometry.Point2D) geometry.Point2D {
	return p.Sub(t.translate).Scale(1 / t.zoom)
}

// ImageToScreen maps an image-space point to screen coordinates.
func (t *Transform) ImageToScreen(p geometry.Point2D) geometry.Point2D {
	return p.Scale(t.zoom).Add(t.translate)
}

// ZoomAtAnchor sets the zoom factor, clamped to [MinZoom, MaxZoom], and
// recomputes the translation so the image point under the screen anchor
// stays under it.
func (t *Transform) ZoomAtAnchor(targetZoom float64, anchor geometry.Point2D) {
	targetZoom = clampZoom(targetZoom)
	t.translate = anchor.Sub(anchor.Sub(t.translate).Scale(targetZoom / t.zoom))
	t.zoom = targetZoom
}

// WheelZoom applies notches worth of relative zoom steps anchored at
// the pointer position. Positive notches zoom in.
func (t *Transform) WheelZoom(notches float64, anchor geometry.Point2D) {
	target := t.zoom
	for ; notches >= 1; notches-- {
		target *= WheelZoomStep
	}
	for ; notches <= -1; notches++ {
		target /= WheelZoomStep
	}
	t.ZoomAtAnchor(target, anchor)
}

// FitToViewport picks the zoom that fits the whole image inside the
// viewport and centers it. Degenerate viewport or image sizes clamp to
// the zoom bounds instead of failing.
func (t *Transform) FitToViewport(size geometry.Size) {
	zoom := MinZoom
	if t.imageWidth > 0 && t.imageHeight > 0 {
		zx := size.Width / float64(t.imageWidth)
		zy := size.Height / float64(t.imageHeight)
		zoom = min(zx, zy)
	}
	t.zoom = clampZoom(zoom)
	t.translate = geometry.Point2D{
		X: (size.Width - float64(t.imageWidth)*t.zoom) / 2,
		Y: (size.Height - float64(t.imageHeight)*t.zoom) / 2,
	}
}

// Pan adds a screen-space delta to the translation. Panning operates in
// screen space, so the delta is not scaled by zoom.
func (t *Transform) Pan(delta geometry.Point2D) {
	t.translate = t.translate.Add(delta)
}

// ButtonDown feeds a button press into the state machine and returns
// the resulting mode. The primary button starts drawing from idle; the
// middle button, or the secondary button while not drawing, starts
// panning.
func (t *Transform) ButtonDown(b Button) Mode {
	switch t.mode {
	case ModeIdle:
		switch b {
		case ButtonPrimary:
			t.mode = ModeDrawing
		case ButtonMiddle, ButtonSecondary:
			t.mode = ModePanning
			t.panButton = b
		}
	}
	return t.mode
}

// ButtonUp feeds a button release into the state machine and returns
// the resulting mode. Only the button that entered a mode can leave it.
func (t *Transform) ButtonUp(b Button) Mode {
	switch t.mode {
	case ModeDrawing:
		if b == ButtonPrimary {
			t.mode = ModeIdle
		}
	case ModePanning:
		if b == t.panButton {
			t.mode = ModeIdle
		}
	}
	return t.mode
}

func clampZoom(z float64) float64 {
	if z < MinZoom {
		return MinZoom
	}
	if z > MaxZoom {
		return MaxZoom
	}
	return z
}
