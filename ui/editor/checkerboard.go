// Package editor provides the interactive mask painting widget.
package editor

import "image/color"

// Checkerboard is the immutable backdrop drawn where the canvas has no
// image pixels. It is constructed explicitly by whoever builds the
// display layer and passed in; there is no shared global tile.
type Checkerboard struct {
	tile  int
	light color.RGBA
	dark  color.RGBA
}

// NewCheckerboard creates a checkerboard with the given tile size and
// colors. Non-positive tile sizes fall back to 8 pixels.
func NewCheckerboard(tile int, light, dark color.RGBA) *Checkerboard {
	if tile <= 0 {
		tile = 8
	}
	return &Checkerboard{tile: tile, light: light, dark: dark}
}

// DefaultCheckerboard returns the standard gray transparency backdrop.
func DefaultCheckerboard() *Checkerboard {
	return NewCheckerboard(8,
		color.RGBA{R: 200, G: 200, B: 200, A: 255},
		color.RGBA{R: 150, G: 150, B: 150, A: 255})
}

// At returns the backdrop color for the screen pixel (x, y).
func (c *Checkerboard) At(x, y int) color.RGBA {
	if x < 0 {
		x = -x + c.tile
	}
	if y < 0 {
		y = -y + c.tile
	}
	if (x/c.tile+y/c.tile)%2 == 0 {
		return c.light
	}
	return c.dark
}
