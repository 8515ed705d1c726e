package brush

import (
	"image/color"
	"testing"

	"mask-painter/internal/buffer"
	"mask-painter/pkg/geometry"
)

var red = color.RGBA{R: 255, A: 255}

func TestRadius(t *testing.T) {
	tests := []struct {
		size, want int
	}{
		{20, 10},
		{21, 10}, // odd sizes round down
		{1, 0},
		{0, 0},
		{-5, 0},
	}
	for _, tt := range tests {
		if got := Radius(tt.size); got != tt.want {
			t.Errorf("Radius(%d) = %d, want %d", tt.size, got, tt.want)
		}
	}
}

// A size-20 brush stamped at (100,75) on a 200x150 buffer paints alpha
// 255 exactly within radius 10 and leaves everything else transparent.
func TestStampCircle(t *testing.T) {
	dst := buffer.New(200, 150)
	center := geometry.PointInt{X: 100, Y: 75}
	radius := Radius(20)

	Stamp(dst, center, radius, red, false)

	for y := 0; y < dst.Height(); y++ {
		for x := 0; x < dst.Width(); x++ {
			dx, dy := x-center.X, y-center.Y
			inside := dx*dx+dy*dy <= radius*radius
			a := dst.AlphaAt(x, y)
			if inside && a != 255 {
				t.Fatalf("pixel (%d,%d) inside stamp has alpha %d, want 255", x, y, a)
			}
			if !inside && a != 0 {
				t.Fatalf("pixel (%d,%d) outside stamp has alpha %d, want 0", x, y, a)
			}
		}
	}

	if got := dst.RGBAAt(100, 75); got != red {
		t.Errorf("center pixel = %+v, want %+v", got, red)
	}
}

func TestStampForcesOpaquePaint(t *testing.T) {
	dst := buffer.New(10, 10)
	Stamp(dst, geometry.PointInt{X: 5, Y: 5}, 2, color.RGBA{R: 30, G: 40, B: 50, A: 17}, false)
	if got := dst.RGBAAt(5, 5); got.A != 255 {
		t.Errorf("painted alpha = %d, want 255", got.A)
	}
}

func TestStampErase(t *testing.T) {
	dst := buffer.New(20, 20)
	c := geometry.PointInt{X: 10, Y: 10}

	Stamp(dst, c, 5, red, false)
	Stamp(dst, c, 5, color.RGBA{G: 255, A: 255}, true)

	if !dst.Equal(buffer.New(20, 20)) {
		t.Error("erasing the painted stamp should leave the buffer fully transparent")
	}
}

func TestStampClipping(t *testing.T) {
	tests := []struct {
		name   string
		center geometry.PointInt
		radius int
		want   geometry.RectInt
	}{
		{
			name:   "interior",
			center: geometry.PointInt{X: 5, Y: 5},
			radius: 2,
			want:   geometry.NewRectInt(3, 3, 5, 5),
		},
		{
			name:   "clipped at origin",
			center: geometry.PointInt{X: 0, Y: 0},
			radius: 3,
			want:   geometry.NewRectInt(0, 0, 4, 4),
		},
		{
			name:   "fully outside",
			center: geometry.PointInt{X: -20, Y: -20},
			radius: 3,
			want:   geometry.RectInt{},
		},
		{
			name:   "radius zero paints one pixel",
			center: geometry.PointInt{X: 4, Y: 4},
			radius: 0,
			want:   geometry.NewRectInt(4, 4, 1, 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := buffer.New(10, 10)
			got := Stamp(dst, tt.center, tt.radius, red, false)
			if got != tt.want {
				t.Errorf("Stamp() rect = %+v, want %+v", got, tt.want)
			}
			for y := 0; y < 10; y++ {
				for x := 0; x < 10; x++ {
					if dst.AlphaAt(x, y) != 0 && !got.Contains(x, y) {
						t.Fatalf("pixel (%d,%d) painted outside reported rect %+v", x, y, got)
					}
				}
			}
		})
	}
}

// Every pixel on the line between the endpoints must be painted, no
// matter the segment direction: the Bresenham walk stamps at each step.
func TestStrokeSegmentHasNoGaps(t *testing.T) {
	tests := []struct {
		name   string
		p0, p1 geometry.PointInt
	}{
		{"horizontal", geometry.PointInt{X: 2, Y: 10}, geometry.PointInt{X: 30, Y: 10}},
		{"vertical", geometry.PointInt{X: 10, Y: 2}, geometry.PointInt{X: 10, Y: 30}},
		{"diagonal", geometry.PointInt{X: 2, Y: 2}, geometry.PointInt{X: 30, Y: 30}},
		{"shallow", geometry.PointInt{X: 2, Y: 5}, geometry.PointInt{X: 30, Y: 12}},
		{"steep reversed", geometry.PointInt{X: 12, Y: 30}, geometry.PointInt{X: 5, Y: 2}},
		{"single point", geometry.PointInt{X: 15, Y: 15}, geometry.PointInt{X: 15, Y: 15}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := buffer.New(40, 40)
			StrokeSegment(dst, tt.p0, tt.p1, 1, red, false)

			// Both endpoints and the midpoint must be covered.
			for _, p := range []geometry.PointInt{
				tt.p0,
				tt.p1,
				{X: (tt.p0.X + tt.p1.X) / 2, Y: (tt.p0.Y + tt.p1.Y) / 2},
			} {
				if dst.AlphaAt(p.X, p.Y) != 255 {
					t.Errorf("pixel (%d,%d) on stroke not painted", p.X, p.Y)
				}
			}
		})
	}
}

func TestStrokeSegmentDamageCoversStroke(t *testing.T) {
	dst := buffer.New(50, 50)
	r := StrokeSegment(dst, geometry.PointInt{X: 5, Y: 5}, geometry.PointInt{X: 40, Y: 20}, 3, red, false)

	for y := 0; y < 50; y++ {
		for x := 0; x < 50; x++ {
			if dst.AlphaAt(x, y) != 0 && !r.Contains(x, y) {
				t.Fatalf("painted pixel (%d,%d) outside damage rect %+v", x, y, r)
			}
		}
	}
}
