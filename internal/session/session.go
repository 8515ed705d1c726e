// Package session owns one mask editing session: the working image,
// the authoritative mask layer, undo history, the viewport transform,
// and the stroke orchestration that ties them to pointer events.
//
// A session is single-threaded by contract: all mutation happens on the
// goroutine delivering input events, and callers must serialize access.
// No two sessions may share a source image.
package session

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"math"

	xdraw "golang.org/x/image/draw"

	"mask-painter/internal/brush"
	"mask-painter/internal/buffer"
	"mask-painter/internal/compositor"
	"mask-painter/internal/damage"
	"mask-painter/internal/history"
	"mask-painter/internal/viewport"
	"mask-painter/pkg/geometry"
)

const (
	// MaxWorkingDim bounds the larger dimension of the working image.
	// Sources above this are downscaled for editing and the mask is
	// scaled back up on commit.
	MaxWorkingDim = 1000

	// DefaultBrushSize is the brush diameter used when the caller
	// supplies none.
	DefaultBrushSize = 20
)

// EventType identifies session events.
type EventType int

const (
	EventMaskChanged EventType = iota
	EventStrokeEnded
	EventViewChanged
	EventCommitted
)

// Listener is called when an event occurs.
type Listener func(data interface{})

// strokeState tracks the in-progress stroke between pointer-down and
// pointer-up.
type strokeState struct {
	points []geometry.PointInt
	last   geometry.PointInt
	damage damage.Tracker
}

// Session is an open mask editing session.
type Session struct {
	source       *buffer.Buffer // original-resolution copy of the input
	working      *buffer.Buffer // resolution-bounded editing copy
	workingScale float64        // working size / original size

	mask *buffer.Buffer // authoritative mask, same size as working
	comp *compositor.Compositor
	undo *history.Stack
	view *viewport.Transform

	stroke  *strokeState
	lastPan geometry.Point2D

	brushColor color.RGBA
	brushSize  int
	erasing    bool

	closed    bool
	listeners map[EventType][]Listener
}

// Open starts an editing session over src. priorMask, when non-nil and
// matching src's dimensions, seeds the mask layer; a mismatched mask is
// discarded and the session starts empty. brushColor's alpha is forced
// to fully opaque.
func Open(src image.Image, priorMask image.Image, brushColor color.RGBA, brushSize int) (*Session, error) {
	if src == nil {
		return nil, fmt.Errorf("session: no source image")
	}
	bounds := src.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, fmt.Errorf("session: source image is empty (%dx%d)", bounds.Dx(), bounds.Dy())
	}

	source := buffer.FromImage(src)
	working, scale := makeWorkingImage(source)

	mask := buffer.New(working.Width(), working.Height())
	if priorMask != nil {
		pb := priorMask.Bounds()
		if pb.Dx() == source.Width() && pb.Dy() == source.Height() {
			dst := mask.RGBA()
			xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), priorMask, pb, xdraw.Src, nil)
		} else {
			log.Printf("session: prior mask %dx%d does not match image %dx%d, starting empty",
				pb.Dx(), pb.Dy(), source.Width(), source.Height())
		}
	}

	if brushSize <= 0 {
		brushSize = DefaultBrushSize
	}
	if brushColor == (color.RGBA{}) {
		brushColor = color.RGBA{R: 255}
	}
	brushColor.A = 255

	return &Session{
		source:       source,
		working:      working,
		workingScale: scale,
		mask:         mask,
		comp:         compositor.New(working, mask, compositor.DefaultPreviewScale),
		undo:         history.NewStack(history.DefaultDepth),
		view:         viewport.New(working.Width(), working.Height()),
		brushColor:   brushColor,
		brushSize:    brushSize,
		listeners:    make(map[EventType][]Listener),
	}, nil
}

// makeWorkingImage downscales source so its larger dimension does not
// exceed MaxWorkingDim, returning the working buffer and the applied
// scale.
func makeWorkingImage(source *buffer.Buffer) (*buffer.Buffer, float64) {
	longest := max(source.Width(), source.Height())
	if longest <= MaxWorkingDim {
		return source.Clone(), 1.0
	}
	scale := float64(MaxWorkingDim) / float64(longest)
	w := int(math.Round(float64(source.Width()) * scale))
	h := int(math.Round(float64(source.Height()) * scale))
	working := buffer.New(w, h)
	dst := working.RGBA()
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), source.RGBA(), source.Bounds(), xdraw.Src, nil)
	return working, scale
}

// On registers an event listener for the specified event type.
func (s *Session) On(event EventType, listener Listener) {
	s.listeners[event] = append(s.listeners[event], listener)
}

func (s *Session) emit(event EventType, data interface{}) {
	for _, listener := range s.listeners[event] {
		listener(data)
	}
}

// PointerDown feeds a button press at a screen position into the
// session. A primary press starts a stroke: the mask is snapshotted,
// the compositor enters live mode, and the first stamp lands in both
// resolutions.
func (s *Session) PointerDown(screen geometry.Point2D, b viewport.Button) {
	if s.closed {
		return
	}
	switch s.view.ButtonDown(b) {
	case viewport.ModeDrawing:
		if s.stroke != nil {
			return
		}
		pt := s.view.ScreenToImage(screen).Round()
		s.undo.Push(s.mask)
		s.stroke = &strokeState{points: []geometry.PointInt{pt}, last: pt}
		s.comp.EnterLiveMode()
		s.stroke.damage.Accumulate(brush.Stamp(s.mask, pt, s.radius(), s.brushColor, s.erasing))
		s.comp.DrawLive(pt, s.radius(), s.brushColor, s.erasing)
		s.emit(EventMaskChanged, nil)
	case viewport.ModePanning:
		s.lastPan = screen
	}
}

// PointerMove feeds pointer motion into the session. While drawing it
// strokes from the last recorded point into both resolutions; while
// panning it translates the viewport.
func (s *Session) PointerMove(screen geometry.Point2D) {
	if s.closed {
		return
	}
	switch s.view.Mode() {
	case viewport.ModeDrawing:
		if s.stroke == nil {
			return
		}
		pt := s.view.ScreenToImage(screen).Round()
		s.stroke.damage.Accumulate(
			brush.StrokeSegment(s.mask, s.stroke.last, pt, s.radius(), s.brushColor, s.erasing))
		s.comp.DrawLiveSegment(s.stroke.last, pt, s.radius(), s.brushColor, s.erasing)
		s.stroke.points = append(s.stroke.points, pt)
		s.stroke.last = pt
		s.emit(EventMaskChanged, nil)
	case viewport.ModePanning:
		s.view.Pan(screen.Sub(s.lastPan))
		s.lastPan = screen
		s.emit(EventViewChanged, nil)
	}
}

// PointerUp feeds a button release into the session. Releasing the
// drawing button ends the stroke: the compositor leaves live mode and
// recomposites the damaged region at full resolution once.
func (s *Session) PointerUp(b viewport.Button) {
	if s.closed {
		return
	}
	was := s.view.Mode()
	now := s.view.ButtonUp(b)
	if was == viewport.ModeDrawing && now == viewport.ModeIdle && s.stroke != nil {
		s.comp.ExitLiveMode(s.stroke.damage.FlushClamped(s.mask.Rect()))
		s.stroke = nil
		s.emit(EventStrokeEnded, nil)
		s.emit(EventMaskChanged, nil)
	}
}

// Wheel applies anchored wheel zoom, one relative step per notch.
func (s *Session) Wheel(notches float64, anchor geometry.Point2D) {
	if s.closed {
		return
	}
	s.view.WheelZoom(notches, anchor)
	s.emit(EventViewChanged, nil)
}

// ZoomAtAnchor zooms to the target factor keeping the image point under
// anchor fixed.
func (s *Session) ZoomAtAnchor(target float64, anchor geometry.Point2D) {
	if s.closed {
		return
	}
	s.view.ZoomAtAnchor(target, anchor)
	s.emit(EventViewChanged, nil)
}

// FitToViewport fits and centers the working image in a viewport.
func (s *Session) FitToViewport(size geometry.Size) {
	if s.closed {
		return
	}
	s.view.FitToViewport(size)
	s.emit(EventViewChanged, nil)
}

// Undo restores the most recent snapshot, returning false when the
// history is empty (a no-op, not an error).
func (s *Session) Undo() bool {
	if s.closed {
		return false
	}
	snap, ok := s.undo.Pop()
	if !ok {
		return false
	}
	s.mask.CopyFrom(snap)
	s.comp.CompositeAll()
	s.emit(EventMaskChanged, nil)
	return true
}

// Reset clears the mask to fully transparent, pushing an undo snapshot
// first.
func (s *Session) Reset() {
	if s.closed {
		return
	}
	s.undo.Push(s.mask)
	s.mask.Clear()
	s.comp.CompositeAll()
	s.emit(EventMaskChanged, nil)
}

// Commit closes the session and returns the mask at the source image's
// original resolution, upscaled with nearest-neighbor resampling when
// the working image was downscaled.
func (s *Session) Commit() *buffer.Buffer {
	if s.closed {
		return nil
	}
	var out *buffer.Buffer
	if s.workingScale == 1.0 {
		out = s.mask.Clone()
	} else {
		out = buffer.New(s.source.Width(), s.source.Height())
		dst := out.RGBA()
		xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), s.mask.RGBA(), s.mask.Bounds(), xdraw.Src, nil)
	}
	s.emit(EventCommitted, out)
	s.close()
	return out
}

// Cancel closes the session, discarding the mask, preview buffers, and
// undo history without producing output.
func (s *Session) Cancel() {
	if s.closed {
		return
	}
	s.close()
}

func (s *Session) close() {
	s.closed = true
	s.undo.Clear()
	s.stroke = nil
	s.working = nil
	s.mask = nil
	s.comp = nil
}

// Closed reports whether the session has been committed or cancelled.
func (s *Session) Closed() bool {
	return s.closed
}

// Image returns the original-resolution input image.
func (s *Session) Image() *buffer.Buffer {
	return s.source
}

// WorkingImage returns the resolution-bounded editing copy.
func (s *Session) WorkingImage() *buffer.Buffer {
	return s.working
}

// Mask returns the current full-resolution mask layer. Hosts can feed
// a committed mask back into Open to re-enter a session.
func (s *Session) Mask() *buffer.Buffer {
	return s.mask
}

// WorkingScale returns the ratio of working size to original size.
func (s *Session) WorkingScale() float64 {
	return s.workingScale
}

// View returns the viewport transform.
func (s *Session) View() *viewport.Transform {
	return s.view
}

// Compositor returns the display compositor.
func (s *Session) Compositor() *compositor.Compositor {
	return s.comp
}

// BrushSize returns the brush diameter in pixels.
func (s *Session) BrushSize() int {
	return s.brushSize
}

// SetBrushSize sets the brush diameter in pixels.
func (s *Session) SetBrushSize(size int) {
	if size > 0 {
		s.brushSize = size
	}
}

// BrushColor returns the paint color.
func (s *Session) BrushColor() color.RGBA {
	return s.brushColor
}

// SetBrushColor sets the paint color; alpha is forced to fully opaque.
func (s *Session) SetBrushColor(c color.RGBA) {
	c.A = 255
	s.brushColor = c
}

// Erasing reports whether the brush erases instead of painting.
func (s *Session) Erasing() bool {
	return s.erasing
}

// SetErasing switches between painting and erasing.
func (s *Session) SetErasing(erase bool) {
	s.erasing = erase
}

func (s *Session) radius() int {
	return brush.Radius(s.brushSize)
}
