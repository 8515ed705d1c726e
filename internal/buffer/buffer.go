// Package buffer provides the RGBA pixel buffer underlying the mask
// and preview layers.
package buffer

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"

	"mask-painter/pkg/geometry"
)

// Buffer is a rectangular grid of RGBA pixels backed by a flat byte
// slice, 4 bytes per pixel.
type Buffer struct {
	width  int
	height int
	pix    []uint8
}

// New creates a fully transparent buffer with the given dimensions.
func New(width, height int) *Buffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Buffer{
		width:  width,
		height: height,
		pix:    make([]uint8, width*height*4),
	}
}

// FromImage creates a buffer holding a copy of img's pixels.
func FromImage(img image.Image) *Buffer {
	bounds := img.Bounds()
	b := New(bounds.Dx(), bounds.Dy())
	draw.Draw(b.RGBA(), b.RGBA().Bounds(), img, bounds.Min, draw.Src)
	return b
}

// Width returns the width in pixels.
func (b *Buffer) Width() int {
	return b.width
}

// Height returns the height in pixels.
func (b *Buffer) Height() int {
	return b.height
}

// Pix returns the raw pixel data in RGBA order.
func (b *Buffer) Pix() []uint8 {
	return b.pix
}

// Clone returns a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	c := &Buffer{
		width:  b.width,
		height: b.height,
		pix:    make([]uint8, len(b.pix)),
	}
	copy(c.pix, b.pix)
	return c
}

// CopyFrom overwrites this buffer's pixels with those of src.
// Both buffers must have the same dimensions; otherwise nothing happens.
func (b *Buffer) CopyFrom(src *Buffer) {
	if src == nil || src.width != b.width || src.height != b.height {
		return
	}
	copy(b.pix, src.pix)
}

// Fill sets every pixel to c.
func (b *Buffer) Fill(c color.RGBA) {
	for i := 0; i < len(b.pix); i += 4 {
		b.pix[i+0] = c.R
		b.pix[i+1] = c.G
		b.pix[i+2] = c.B
		b.pix[i+3] = c.A
	}
}

// Clear resets every pixel to fully transparent.
func (b *Buffer) Clear() {
	for i := range b.pix {
		b.pix[i] = 0
	}
}

// SetRGBA sets the pixel at (x, y), ignoring out-of-bounds coordinates.
func (b *Buffer) SetRGBA(x, y int, c color.RGBA) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return
	}
	i := (y*b.width + x) * 4
	b.pix[i+0] = c.R
	b.pix[i+1] = c.G
	b.pix[i+2] = c.B
	b.pix[i+3] = c.A
}

// RGBAAt returns the pixel at (x, y), or the zero color outside bounds.
func (b *Buffer) RGBAAt(x, y int) color.RGBA {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return color.RGBA{}
	}
	i := (y*b.width + x) * 4
	return color.RGBA{R: b.pix[i+0], G: b.pix[i+1], B: b.pix[i+2], A: b.pix[i+3]}
}

// AlphaAt returns the alpha channel at (x, y), or 0 outside bounds.
func (b *Buffer) AlphaAt(x, y int) uint8 {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return 0
	}
	return b.pix[(y*b.width+x)*4+3]
}

// Rect returns the buffer bounds as a RectInt anchored at the origin.
func (b *Buffer) Rect() geometry.RectInt {
	return geometry.RectInt{Width: b.width, Height: b.height}
}

// RGBA returns an *image.RGBA view sharing this buffer's pixels.
// Mutating the returned image mutates the buffer.
func (b *Buffer) RGBA() *image.RGBA {
	return &image.RGBA{
		Pix:    b.pix,
		Stride: b.width * 4,
		Rect:   image.Rect(0, 0, b.width, b.height),
	}
}

// ToRGBA returns an independent *image.RGBA copy of the buffer.
func (b *Buffer) ToRGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.width, b.height))
	copy(img.Pix, b.pix)
	return img
}

// Equal reports whether two buffers have identical dimensions and
// pixel content.
func (b *Buffer) Equal(other *Buffer) bool {
	if other == nil {
		return false
	}
	return b.width == other.width && b.height == other.height &&
		bytes.Equal(b.pix, other.pix)
}

// At implements the image.Image interface.
func (b *Buffer) At(x, y int) color.Color {
	return b.RGBAAt(x, y)
}

// Bounds implements the image.Image interface.
func (b *Buffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.width, b.height)
}

// ColorModel implements the image.Image interface.
func (b *Buffer) ColorModel() color.Model {
	return color.RGBAModel
}
