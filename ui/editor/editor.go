package editor

import (
	"image"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"mask-painter/internal/session"
	"mask-painter/internal/viewport"
	"mask-painter/pkg/geometry"
)

// Editor is the canvas widget hosting a mask editing session. It
// renders the session's composited output under the viewport transform
// over a checkerboard backdrop and feeds pointer, button, and wheel
// events into the session.
type Editor struct {
	widget.BaseWidget

	session  *session.Session
	backdrop *Checkerboard
	raster   *fynecanvas.Raster

	fitOnResize bool
	lastSize    fyne.Size

	onZoomChange func(zoom float64)
}

// New creates an editor widget drawing over the given backdrop.
func New(backdrop *Checkerboard) *Editor {
	e := &Editor{backdrop: backdrop}
	e.raster = fynecanvas.NewRaster(e.draw)
	e.raster.ScaleMode = fynecanvas.ImageScalePixels
	e.ExtendBaseWidget(e)
	return e
}

// SetSession attaches a session to the editor. A nil session leaves
// only the backdrop visible.
func (e *Editor) SetSession(s *session.Session) {
	e.session = s
	if s != nil {
		s.On(session.EventMaskChanged, func(interface{}) {
			e.raster.Refresh()
		})
		s.On(session.EventViewChanged, func(interface{}) {
			e.raster.Refresh()
			if e.onZoomChange != nil {
				e.onZoomChange(s.View().Zoom())
			}
		})
	}
	e.raster.Refresh()
}

// Session returns the attached session, or nil.
func (e *Editor) Session() *session.Session {
	return e.session
}

// OnZoomChange sets a callback invoked whenever the zoom factor changes.
func (e *Editor) OnZoomChange(callback func(zoom float64)) {
	e.onZoomChange = callback
}

// SetFitOnResize enables refitting the image whenever the widget resizes.
func (e *Editor) SetFitOnResize(fit bool) {
	e.fitOnResize = fit
	if fit {
		e.Fit()
	}
}

// Fit fits and centers the image in the current widget size.
func (e *Editor) Fit() {
	if e.session == nil {
		return
	}
	size := e.Size()
	e.session.FitToViewport(geometry.NewSize(float64(size.Width), float64(size.Height)))
}

// ZoomIn zooms one wheel step in, anchored at the widget center.
func (e *Editor) ZoomIn() {
	e.zoomStep(1)
}

// ZoomOut zooms one wheel step out, anchored at the widget center.
func (e *Editor) ZoomOut() {
	e.zoomStep(-1)
}

// ActualSize resets the zoom to 1:1, anchored at the widget center.
func (e *Editor) ActualSize() {
	if e.session == nil {
		return
	}
	e.session.ZoomAtAnchor(1.0, e.center())
}

func (e *Editor) zoomStep(notches float64) {
	if e.session == nil {
		return
	}
	e.session.Wheel(notches, e.center())
}

func (e *Editor) center() geometry.Point2D {
	size := e.Size()
	return geometry.NewPoint2D(float64(size.Width)/2, float64(size.Height)/2)
}

// MouseDown implements desktop.Mouseable.
func (e *Editor) MouseDown(ev *desktop.MouseEvent) {
	if e.session == nil {
		return
	}
	e.session.PointerDown(eventPoint(ev.PointEvent), mapButton(ev.Button))
}

// MouseUp implements desktop.Mouseable.
func (e *Editor) MouseUp(ev *desktop.MouseEvent) {
	if e.session == nil {
		return
	}
	e.session.PointerUp(mapButton(ev.Button))
}

// MouseMoved implements desktop.Hoverable.
func (e *Editor) MouseMoved(ev *desktop.MouseEvent) {
	if e.session == nil {
		return
	}
	e.session.PointerMove(eventPoint(ev.PointEvent))
}

// MouseIn implements desktop.Hoverable.
func (e *Editor) MouseIn(*desktop.MouseEvent) {}

// MouseOut implements desktop.Hoverable.
func (e *Editor) MouseOut() {}

// Scrolled implements fyne.Scrollable: the wheel zooms, anchored at the
// pointer.
func (e *Editor) Scrolled(ev *fyne.ScrollEvent) {
	if e.session == nil {
		return
	}
	anchor := eventPoint(ev.PointEvent)
	if ev.Scrolled.DY > 0 {
		e.session.Wheel(1, anchor)
	} else if ev.Scrolled.DY < 0 {
		e.session.Wheel(-1, anchor)
	}
}

func eventPoint(ev fyne.PointEvent) geometry.Point2D {
	return geometry.NewPoint2D(float64(ev.Position.X), float64(ev.Position.Y))
}

func mapButton(b desktop.MouseButton) viewport.Button {
	switch b {
	case desktop.MouseButtonSecondary:
		return viewport.ButtonSecondary
	case desktop.MouseButtonTertiary:
		return viewport.ButtonMiddle
	default:
		return viewport.ButtonPrimary
	}
}

// draw is the raster drawing function. While a stroke is live it
// composites the preview overlay over the preview base; otherwise the
// full-resolution composite is sampled directly.
func (e *Editor) draw(w, h int) image.Image {
	output := image.NewRGBA(image.Rect(0, 0, w, h))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			output.SetRGBA(x, y, e.backdrop.At(x, y))
		}
	}

	if e.session == nil || e.session.Closed() {
		return output
	}

	view := e.session.View()
	comp := e.session.Compositor()
	working := e.session.WorkingImage()
	live := comp.Live()
	scale := comp.PreviewScale()

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			pt := view.ScreenToImage(geometry.NewPoint2D(float64(x), float64(y)))
			if pt.X < 0 || pt.Y < 0 {
				continue
			}
			ix, iy := int(pt.X), int(pt.Y)
			if ix >= working.Width() || iy >= working.Height() {
				continue
			}

			if live {
				px, py := int(pt.X*scale), int(pt.Y*scale)
				c := comp.PreviewBase().RGBAAt(px, py)
				o := comp.Overlay().RGBAAt(px, py)
				switch {
				case o.A == 255:
					c.R, c.G, c.B = o.R, o.G, o.B
				case o.A > 0:
					wgt := float64(o.A) / 255.0
					c.R = uint8(float64(o.R)*wgt + float64(c.R)*(1-wgt))
					c.G = uint8(float64(o.G)*wgt + float64(c.G)*(1-wgt))
					c.B = uint8(float64(o.B)*wgt + float64(c.B)*(1-wgt))
				}
				c.A = 255
				output.SetRGBA(x, y, c)
			} else {
				c := comp.Display().RGBAAt(ix, iy)
				c.A = 255
				output.SetRGBA(x, y, c)
			}
		}
	}

	return output
}

// CreateRenderer implements fyne.Widget.
func (e *Editor) CreateRenderer() fyne.WidgetRenderer {
	return &editorRenderer{editor: e}
}

type editorRenderer struct {
	editor *Editor
}

func (r *editorRenderer) Layout(size fyne.Size) {
	r.editor.raster.Resize(size)
	if size != r.editor.lastSize && size.Width > 0 && size.Height > 0 {
		r.editor.lastSize = size
		if r.editor.fitOnResize {
			r.editor.Fit()
		}
	}
}

func (r *editorRenderer) MinSize() fyne.Size {
	return fyne.NewSize(100, 100)
}

func (r *editorRenderer) Refresh() {
	r.editor.raster.Refresh()
}

func (r *editorRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.editor.raster}
}

func (r *editorRenderer) Destroy() {}
