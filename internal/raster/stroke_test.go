package raster

import (
	"image"
	"image/color"
	"testing"
)

var red = color.NRGBA{255, 0, 0, 255}

func TestStrokeSegmentPaintsCentreLine(t *testing.T) {
	s := newTestSurface(t, 64, 64)
	dirty := s.StrokeSegment(Pt(10, 20), Pt(40, 20), StrokeStyle{Color: red, Width: 4})
	if !image.Pt(25, 20).In(dirty) {
		t.Fatalf("dirty rect %v misses the stroke", dirty)
	}
	if got := s.At(25, 20); got.R != 255 || got.G > 10 || got.A != 255 {
		t.Fatalf("centre pixel = %+v, want red", got)
	}
	if got := s.At(25, 30); got != white {
		t.Fatalf("pixel away from stroke = %+v, want white", got)
	}
}

func TestStrokeSegmentDot(t *testing.T) {
	s := newTestSurface(t, 64, 64)
	s.StrokeSegment(Pt(50, 50), Pt(50, 50), StrokeStyle{Color: red, Width: 6})
	if got := s.At(50, 50); got.G > 10 {
		t.Fatalf("dot centre = %+v, want red", got)
	}
	if got := s.At(58, 50); got != white {
		t.Fatalf("pixel outside dot = %+v, want white", got)
	}
}

func TestStrokeDestinationOutClearsAlpha(t *testing.T) {
	s := newTestSurface(t, 64, 64)
	s.StrokeSegment(Pt(10, 10), Pt(50, 10), StrokeStyle{Width: 12, Composite: CompositeDestinationOut})
	if got := s.At(30, 10); got.A > 5 {
		t.Fatalf("erased pixel alpha = %d, want ~0", got.A)
	}
	if got := s.At(30, 40); got != white {
		t.Fatalf("pixel away from eraser = %+v", got)
	}
}

func TestStrokeClippedOutsideSurface(t *testing.T) {
	s := newTestSurface(t, 16, 16)
	if r := s.StrokeSegment(Pt(100, 100), Pt(120, 120), StrokeStyle{Color: red, Width: 4}); !r.Empty() {
		t.Fatalf("dirty rect = %v, want empty", r)
	}
	s.StrokeSegment(Pt(-10, 8), Pt(30, 8), StrokeStyle{Color: red, Width: 4})
	if got := s.At(0, 8); got.G > 10 {
		t.Fatalf("edge pixel = %+v, want red", got)
	}
}

func TestStrokeQuadFollowsCurve(t *testing.T) {
	s := newTestSurface(t, 64, 64)
	s.StrokeQuad(Pt(10, 10), Pt(30, 10), Pt(30, 30), StrokeStyle{Color: red, Width: 4})
	// Curve midpoint is 0.25*a + 0.5*ctrl + 0.25*b.
	if got := s.At(25, 15); got.G > 10 {
		t.Fatalf("curve midpoint = %+v, want red", got)
	}
	// The control point itself lies off the curve.
	if got := s.At(30, 10); got != white {
		t.Fatalf("control point = %+v, want white", got)
	}
}

func TestBlendOverHalfCoverage(t *testing.T) {
	p := []byte{255, 255, 255, 255}
	blendOver(p, color.NRGBA{0, 0, 0, 255}, 128)
	if p[3] != 255 {
		t.Fatalf("alpha = %d, want 255", p[3])
	}
	if p[0] < 120 || p[0] > 135 {
		t.Fatalf("red = %d, want mid grey", p[0])
	}

	q := []byte{0, 0, 0, 0}
	blendOver(q, red, 255)
	if q[0] != 255 || q[3] != 255 {
		t.Fatalf("opaque over transparent = %v", q)
	}
}
