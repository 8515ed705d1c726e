package compositor

import (
	"image/color"
	"testing"

	"mask-painter/internal/buffer"
	"mask-painter/pkg/geometry"
)

func flatImage(w, h int, c color.RGBA) *buffer.Buffer {
	b := buffer.New(w, h)
	b.Fill(c)
	return b
}

func TestNewNilImageIsNoOp(t *testing.T) {
	c := New(nil, nil, DefaultPreviewScale)
	if c.Display() != nil {
		t.Error("Display() should be nil without a working image")
	}
	c.EnterLiveMode()
	if c.Live() {
		t.Error("EnterLiveMode should not activate without a working image")
	}
	c.SyncPreview()
	c.CompositeAll()
	c.ExitLiveMode(geometry.NewRectInt(0, 0, 10, 10))
	if r := c.DrawLive(geometry.PointInt{X: 1, Y: 1}, 2, color.RGBA{A: 255}, false); !r.Empty() {
		t.Errorf("DrawLive damage = %+v, want empty", r)
	}
}

func TestNewScaleFallback(t *testing.T) {
	img := flatImage(10, 10, color.RGBA{A: 255})
	mask := buffer.New(10, 10)
	for _, bad := range []float64{0, -0.5, 1.5} {
		if got := New(img, mask, bad).PreviewScale(); got != DefaultPreviewScale {
			t.Errorf("PreviewScale() with scale %v = %v, want %v", bad, got, DefaultPreviewScale)
		}
	}
	if got := New(img, mask, 0.25).PreviewScale(); got != 0.25 {
		t.Errorf("PreviewScale() = %v, want 0.25", got)
	}
}

func TestCompositeBlendRule(t *testing.T) {
	img := flatImage(3, 1, color.RGBA{R: 100, G: 100, B: 100, A: 255})
	mask := buffer.New(3, 1)
	mask.SetRGBA(0, 0, color.RGBA{R: 200, A: 255}) // fully masked
	mask.SetRGBA(2, 0, color.RGBA{R: 200, A: 128}) // partial

	c := New(img, mask, DefaultPreviewScale)

	// alpha 255 takes the mask color opaquely
	if got := c.Display().RGBAAt(0, 0); got != (color.RGBA{R: 200, A: 255}) {
		t.Errorf("fully masked pixel = %+v", got)
	}
	// alpha 0 takes the image
	if got := c.Display().RGBAAt(1, 0); got != (color.RGBA{R: 100, G: 100, B: 100, A: 255}) {
		t.Errorf("unmasked pixel = %+v", got)
	}
	// partial alpha blends with weight A/255
	w := 128.0 / 255.0
	want := color.RGBA{
		R: uint8(200*w + 100*(1-w)),
		G: uint8(100 * (1 - w)),
		B: uint8(100 * (1 - w)),
		A: 255,
	}
	if got := c.Display().RGBAAt(2, 0); got != want {
		t.Errorf("partial pixel = %+v, want %+v", got, want)
	}
}

func TestCompositeRegionLeavesOutsideUntouched(t *testing.T) {
	img := flatImage(4, 4, color.RGBA{R: 10, G: 10, B: 10, A: 255})
	mask := buffer.New(4, 4)
	c := New(img, mask, DefaultPreviewScale)

	// Paint the whole mask but recomposite only the left half.
	mask.Fill(color.RGBA{R: 250, A: 255})
	c.Composite(geometry.NewRectInt(0, 0, 2, 4))

	if got := c.Display().RGBAAt(0, 0); got != (color.RGBA{R: 250, A: 255}) {
		t.Errorf("recomposited pixel = %+v", got)
	}
	if got := c.Display().RGBAAt(3, 0); got != (color.RGBA{R: 10, G: 10, B: 10, A: 255}) {
		t.Errorf("untouched pixel = %+v, want the stale composite", got)
	}
}

func TestPreviewDimensions(t *testing.T) {
	img := flatImage(10, 7, color.RGBA{A: 255})
	c := New(img, buffer.New(10, 7), 0.5)
	c.EnterLiveMode()

	if w, h := c.PreviewBase().Width(), c.PreviewBase().Height(); w != 5 || h != 4 {
		t.Errorf("preview base = %dx%d, want 5x4", w, h)
	}
	if w, h := c.Overlay().Width(), c.Overlay().Height(); w != 5 || h != 4 {
		t.Errorf("overlay = %dx%d, want 5x4", w, h)
	}
}

func TestSyncPreviewMirrorsMask(t *testing.T) {
	img := flatImage(8, 8, color.RGBA{A: 255})
	mask := buffer.New(8, 8)
	// Paint the left half of the full-resolution mask.
	for y := 0; y < 8; y++ {
		for x := 0; x < 4; x++ {
			mask.SetRGBA(x, y, color.RGBA{R: 255, A: 255})
		}
	}
	c := New(img, mask, 0.5)
	c.EnterLiveMode()

	pm := c.Overlay()
	if got := pm.AlphaAt(0, 0); got != 255 {
		t.Errorf("preview alpha at (0,0) = %d, want 255", got)
	}
	if got := pm.AlphaAt(3, 0); got != 0 {
		t.Errorf("preview alpha at (3,0) = %d, want 0", got)
	}
}

func TestDrawLiveTouchesPreviewNotMask(t *testing.T) {
	img := flatImage(20, 20, color.RGBA{A: 255})
	mask := buffer.New(20, 20)
	c := New(img, mask, 0.5)
	c.EnterLiveMode()

	r := c.DrawLive(geometry.PointInt{X: 10, Y: 10}, 4, color.RGBA{R: 255, A: 255}, false)
	if r.Empty() {
		t.Fatal("DrawLive returned empty damage")
	}
	// Stamp lands at preview coordinates, half the working point.
	if got := c.Overlay().AlphaAt(5, 5); got != 255 {
		t.Errorf("overlay alpha at preview center = %d, want 255", got)
	}
	// The authoritative mask is untouched while live.
	if got := mask.AlphaAt(10, 10); got != 0 {
		t.Errorf("full-resolution mask alpha = %d, want 0 while live", got)
	}
}

func TestDrawLiveRequiresLiveMode(t *testing.T) {
	img := flatImage(20, 20, color.RGBA{A: 255})
	c := New(img, buffer.New(20, 20), 0.5)
	if r := c.DrawLive(geometry.PointInt{X: 10, Y: 10}, 4, color.RGBA{A: 255}, false); !r.Empty() {
		t.Errorf("DrawLive outside live mode = %+v, want empty", r)
	}
}

func TestExitLiveModeRecomposites(t *testing.T) {
	img := flatImage(10, 10, color.RGBA{R: 50, G: 50, B: 50, A: 255})
	mask := buffer.New(10, 10)
	c := New(img, mask, 0.5)

	c.EnterLiveMode()
	if !c.Live() {
		t.Fatal("EnterLiveMode did not activate")
	}
	// Simulate the stroke landing in the full-resolution mask.
	mask.SetRGBA(4, 4, color.RGBA{R: 255, A: 255})
	c.ExitLiveMode(geometry.NewRectInt(3, 3, 3, 3))

	if c.Live() {
		t.Error("ExitLiveMode did not deactivate")
	}
	if got := c.Display().RGBAAt(4, 4); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("display after exit = %+v, want mask color", got)
	}
}

func TestPreviewNeverSmallerThanOnePixel(t *testing.T) {
	img := flatImage(1, 1, color.RGBA{A: 255})
	c := New(img, buffer.New(1, 1), 0.5)
	c.EnterLiveMode()
	if w, h := c.PreviewBase().Width(), c.PreviewBase().Height(); w < 1 || h < 1 {
		t.Errorf("preview base = %dx%d, want at least 1x1", w, h)
	}
}
