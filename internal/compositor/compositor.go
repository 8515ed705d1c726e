// Package compositor keeps a reduced-resolution preview in sync with
// the authoritative full-resolution mask and produces the composited
// display image.
//
// The dual-resolution pair is a performance trade-off: recomputing the
// image/mask blend at full resolution for every pointer move dominates
// the cost of a stroke on large images. While a stroke is live the
// compositor draws into the preview pair instead and defers the
// full-resolution blend until the stroke ends.
package compositor

import (
	"image/color"
	"math"

	xdraw "golang.org/x/image/draw"

	"mask-painter/internal/brush"
	"mask-painter/internal/buffer"
	"mask-painter/pkg/geometry"
)

// DefaultPreviewScale is the ratio of preview to working resolution.
const DefaultPreviewScale = 0.5

// Compositor owns the composited display buffer and the preview pair
// for a working image and its mask. A nil working image makes every
// operation a no-op.
type Compositor struct {
	img  *buffer.Buffer // working image, immutable for the session
	mask *buffer.Buffer // authoritative full-resolution mask

	previewScale float64
	previewImg   *buffer.Buffer // static reduced-resolution image
	previewMask  *buffer.Buffer // reduced-resolution mask, synced on demand
	overlay      *buffer.Buffer // mask pixels for display-layer compositing

	display *buffer.Buffer // full-resolution composite
	live    bool
}

// New creates a compositor over the working image and mask. Scales
// outside (0, 1] fall back to DefaultPreviewScale.
func New(img, mask *buffer.Buffer, previewScale float64) *Compositor {
	if previewScale <= 0 || previewScale > 1 {
		previewScale = DefaultPreviewScale
	}
	c := &Compositor{
		img:          img,
		mask:         mask,
		previewScale: previewScale,
	}
	if img != nil {
		c.display = buffer.New(img.Width(), img.Height())
		c.CompositeAll()
	}
	return c
}

// Live reports whether a stroke is being previewed at reduced resolution.
func (c *Compositor) Live() bool {
	return c.live
}

// PreviewScale returns the preview resolution ratio.
func (c *Compositor) PreviewScale() float64 {
	return c.previewScale
}

// Display returns the full-resolution composited image.
func (c *Compositor) Display() *buffer.Buffer {
	return c.display
}

// PreviewBase returns the reduced-resolution working image. Valid only
// while live.
func (c *Compositor) PreviewBase() *buffer.Buffer {
	return c.previewImg
}

// Overlay returns the reduced-resolution mask overlay the display layer
// composites over PreviewBase. Valid only while live.
func (c *Compositor) Overlay() *buffer.Buffer {
	return c.overlay
}

// EnterLiveMode downsamples the current mask into the preview mask and
// prepares the preview base. Called once per stroke start.
func (c *Compositor) EnterLiveMode() {
	if c.img == nil {
		return
	}
	c.ensurePreview()
	c.SyncPreview()
	c.overlay.CopyFrom(c.previewMask)
	c.live = true
}

// ExitLiveMode leaves preview drawing and recomposites the damaged
// region of the full-resolution display once.
func (c *Compositor) ExitLiveMode(damaged geometry.RectInt) {
	if c.img == nil {
		return
	}
	c.live = false
	c.Composite(damaged)
}

// DrawLive stamps into the preview mask at a point given in working
// image coordinates and mirrors the touched pixels into the overlay.
func (c *Compositor) DrawLive(p geometry.PointInt, radius int, col color.RGBA, erase bool) geometry.RectInt {
	if c.img == nil || !c.live {
		return geometry.RectInt{}
	}
	r := brush.Stamp(c.previewMask, c.previewPoint(p), c.previewRadius(radius), col, erase)
	c.mirrorOverlay(r)
	return r
}

// DrawLiveSegment strokes a line segment into the preview mask, both
// endpoints in working image coordinates.
func (c *Compositor) DrawLiveSegment(p0, p1 geometry.PointInt, radius int, col color.RGBA, erase bool) geometry.RectInt {
	if c.img == nil || !c.live {
		return geometry.RectInt{}
	}
	r := brush.StrokeSegment(c.previewMask, c.previewPoint(p0), c.previewPoint(p1),
		c.previewRadius(radius), col, erase)
	c.mirrorOverlay(r)
	return r
}

// SyncPreview downsamples the full-resolution mask into the preview
// mask using nearest-neighbor sampling. This is the explicit sync
// operation between the two buffer roles.
func (c *Compositor) SyncPreview() {
	if c.img == nil {
		return
	}
	c.ensurePreview()
	dst := c.previewMask.RGBA()
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), c.mask.RGBA(), c.mask.Bounds(), xdraw.Src, nil)
}

// Composite blends the working image and mask over rect into the
// display buffer: mask alpha 255 takes the mask color, alpha 0 takes
// the image, and anything in between is a weighted blend. The partial
// path only matters for masks authored elsewhere with soft edges; the
// paint and erase operations here write alpha 0 or 255. Display alpha
// is always fully opaque.
func (c *Compositor) Composite(rect geometry.RectInt) {
	if c.img == nil {
		return
	}
	rect = rect.Intersect(c.img.Rect())
	for y := rect.Y; y < rect.Y+rect.Height; y++ {
		for x := rect.X; x < rect.X+rect.Width; x++ {
			m := c.mask.RGBAAt(x, y)
			switch {
			case m.A == 255:
				c.display.SetRGBA(x, y, color.RGBA{R: m.R, G: m.G, B: m.B, A: 255})
			case m.A == 0:
				p := c.img.RGBAAt(x, y)
				c.display.SetRGBA(x, y, color.RGBA{R: p.R, G: p.G, B: p.B, A: 255})
			default:
				p := c.img.RGBAAt(x, y)
				w := float64(m.A) / 255.0
				c.display.SetRGBA(x, y, color.RGBA{
					R: uint8(float64(m.R)*w + float64(p.R)*(1-w)),
					G: uint8(float64(m.G)*w + float64(p.G)*(1-w)),
					B: uint8(float64(m.B)*w + float64(p.B)*(1-w)),
					A: 255,
				})
			}
		}
	}
}

// CompositeAll recomposites the entire display buffer.
func (c *Compositor) CompositeAll() {
	if c.img == nil {
		return
	}
	c.Composite(c.img.Rect())
}

// previewSize returns the preview dimensions for the current working
// image, never smaller than one pixel.
func (c *Compositor) previewSize() (int, int) {
	w := int(math.Round(float64(c.img.Width()) * c.previewScale))
	h := int(math.Round(float64(c.img.Height()) * c.previewScale))
	return max(w, 1), max(h, 1)
}

// ensurePreview rebuilds the preview pair when it is missing or its
// dimensions no longer match the working image. Size mismatches force a
// rebuild rather than an error.
func (c *Compositor) ensurePreview() {
	w, h := c.previewSize()
	if c.previewImg != nil && c.previewImg.Width() == w && c.previewImg.Height() == h {
		return
	}
	c.previewImg = buffer.New(w, h)
	dst := c.previewImg.RGBA()
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), c.img.RGBA(), c.img.Bounds(), xdraw.Src, nil)
	c.previewMask = buffer.New(w, h)
	c.overlay = buffer.New(w, h)
}

func (c *Compositor) previewPoint(p geometry.PointInt) geometry.PointInt {
	return p.ToFloat().Scale(c.previewScale).Round()
}

func (c *Compositor) previewRadius(radius int) int {
	return int(float64(radius) * c.previewScale)
}

// mirrorOverlay copies the touched preview mask pixels into the
// overlay. The overlay holds mask pixels only, never a blend, so the
// display layer composites it over the preview base itself.
func (c *Compositor) mirrorOverlay(rect geometry.RectInt) {
	rect = rect.Intersect(c.previewMask.Rect())
	for y := rect.Y; y < rect.Y+rect.Height; y++ {
		for x := rect.X; x < rect.X+rect.Width; x++ {
			c.overlay.SetRGBA(x, y, c.previewMask.RGBAAt(x, y))
		}
	}
}
