package geometry

import (
	"math"
	"testing"
)

func TestRectIntUnion(t *testing.T) {
	tests := []struct {
		name string
		a, b RectInt
		want RectInt
	}{
		{
			name: "overlapping",
			a:    NewRectInt(0, 0, 10, 10),
			b:    NewRectInt(5, 5, 10, 10),
			want: NewRectInt(0, 0, 15, 15),
		},
		{
			name: "disjoint",
			a:    NewRectInt(0, 0, 2, 2),
			b:    NewRectInt(10, 10, 2, 2),
			want: NewRectInt(0, 0, 12, 12),
		},
		{
			name: "empty left identity",
			a:    RectInt{},
			b:    NewRectInt(3, 4, 5, 6),
			want: NewRectInt(3, 4, 5, 6),
		},
		{
			name: "empty right identity",
			a:    NewRectInt(3, 4, 5, 6),
			b:    RectInt{},
			want: NewRectInt(3, 4, 5, 6),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Union(tt.b); got != tt.want {
				t.Errorf("Union() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRectIntIntersect(t *testing.T) {
	tests := []struct {
		name string
		a, b RectInt
		want RectInt
	}{
		{
			name: "overlapping",
			a:    NewRectInt(0, 0, 10, 10),
			b:    NewRectInt(5, 5, 10, 10),
			want: NewRectInt(5, 5, 5, 5),
		},
		{
			name: "disjoint is empty",
			a:    NewRectInt(0, 0, 2, 2),
			b:    NewRectInt(10, 10, 2, 2),
			want: RectInt{},
		},
		{
			name: "contained",
			a:    NewRectInt(0, 0, 10, 10),
			b:    NewRectInt(2, 3, 4, 4),
			want: NewRectInt(2, 3, 4, 4),
		},
		{
			name: "touching edges is empty",
			a:    NewRectInt(0, 0, 5, 5),
			b:    NewRectInt(5, 0, 5, 5),
			want: RectInt{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Intersect(tt.b); got != tt.want {
				t.Errorf("Intersect() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRectIntScale(t *testing.T) {
	r := NewRectInt(1, 1, 3, 3)
	got := r.Scale(0.5)
	// Scaled outward: floor(0.5)=0, ceil(4*0.5)=2.
	want := NewRectInt(0, 0, 2, 2)
	if got != want {
		t.Errorf("Scale(0.5) = %+v, want %+v", got, want)
	}

	if got := (RectInt{}).Scale(2); !got.Empty() {
		t.Errorf("scaling an empty rect should stay empty, got %+v", got)
	}
}

func TestRectIntContains(t *testing.T) {
	r := NewRectInt(2, 3, 4, 5)
	if !r.Contains(2, 3) {
		t.Error("top-left corner should be inside")
	}
	if r.Contains(6, 3) {
		t.Error("x == X+Width should be outside")
	}
	if r.Contains(2, 8) {
		t.Error("y == Y+Height should be outside")
	}
}

func TestPoint2DRound(t *testing.T) {
	tests := []struct {
		p    Point2D
		want PointInt
	}{
		{NewPoint2D(1.4, 1.6), PointInt{X: 1, Y: 2}},
		{NewPoint2D(2.5, -2.5), PointInt{X: 3, Y: -2}},
		{NewPoint2D(0, 0), PointInt{}},
	}
	for _, tt := range tests {
		if got := tt.p.Round(); got != tt.want {
			t.Errorf("Round(%+v) = %+v, want %+v", tt.p, got, tt.want)
		}
	}
}

func TestPoint2DDistance(t *testing.T) {
	a := NewPoint2D(0, 0)
	b := NewPoint2D(3, 4)
	if got := a.Distance(b); math.Abs(got-5) > 1e-12 {
		t.Errorf("Distance() = %v, want 5", got)
	}
}
