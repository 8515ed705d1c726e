// Package damage accumulates the bounding rectangle of pixels touched
// since the last flush, bounding recomposite cost to the area a stroke
// actually changed.
package damage

import "mask-painter/pkg/geometry"

// Tracker grows a single rectangle to cover every accumulated region.
// The zero value is an empty tracker ready for use.
type Tracker struct {
	rect geometry.RectInt
}

// Accumulate grows the tracked rectangle to the union of itself and r.
// Empty rectangles are ignored.
func (t *Tracker) Accumulate(r geometry.RectInt) {
	if r.Empty() {
		return
	}
	t.rect = t.rect.Union(r)
}

// Rect returns the current tracked rectangle without clearing it.
func (t *Tracker) Rect() geometry.RectInt {
	return t.rect
}

// Flush returns the tracked rectangle and resets the tracker to empty.
func (t *Tracker) Flush() geometry.RectInt {
	r := t.rect
	t.rect = geometry.RectInt{}
	return r
}

// FlushClamped flushes and clamps the result to bounds. Callers must
// clamp before using the rectangle for buffer access.
func (t *Tracker) FlushClamped(bounds geometry.RectInt) geometry.RectInt {
	return t.Flush().Intersect(bounds)
}
