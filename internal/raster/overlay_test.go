package raster

import (
	"image"
	"image/color"
	"testing"
)

func TestOverlayDashedRectAlternates(t *testing.T) {
	o := NewOverlay(40, 40)
	if !o.Empty() {
		t.Fatal("new overlay should be empty")
	}
	black := color.RGBA{A: 255}
	whiteC := color.RGBA{255, 255, 255, 255}
	o.DashedRect(image.Rect(5, 5, 30, 30), 4, 1, black, whiteC)
	if o.Empty() {
		t.Fatal("overlay should not be empty after drawing")
	}
	if got := o.Image().RGBAAt(5, 5); got != black {
		t.Fatalf("first dash = %+v, want black", got)
	}
	if got := o.Image().RGBAAt(9, 5); got != whiteC {
		t.Fatalf("second dash = %+v, want white", got)
	}
	if got := o.Image().RGBAAt(15, 15); got.A != 0 {
		t.Fatalf("interior = %+v, want transparent", got)
	}

	o.Clear()
	if !o.Empty() || o.Image().RGBAAt(5, 5).A != 0 {
		t.Fatal("Clear did not erase the overlay")
	}
}

func TestOverlayHandles(t *testing.T) {
	o := NewOverlay(40, 40)
	fill := color.RGBA{255, 255, 255, 255}
	border := color.RGBA{0, 0, 255, 255}
	o.Handles([]image.Rectangle{image.Rect(10, 10, 20, 20)}, fill, border)
	if got := o.Image().RGBAAt(15, 15); got != fill {
		t.Fatalf("handle fill = %+v", got)
	}
	if got := o.Image().RGBAAt(10, 15); got != border {
		t.Fatalf("handle border = %+v", got)
	}
}

func TestOverlayShadowOffsetAndBlur(t *testing.T) {
	o := NewOverlay(40, 40)
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	src.SetNRGBA(0, 0, color.NRGBA{A: 255})
	o.Shadow(src, image.Pt(10, 10), ShadowOptions{Radius: 2, Offset: image.Pt(3, 0), Opacity: 1})
	if got := o.Image().RGBAAt(13, 10); got.A == 0 {
		t.Fatal("expected shadow alpha at the offset position")
	}
	if got := o.Image().RGBAAt(14, 10); got.A == 0 {
		t.Fatal("expected blur to spread to the neighbour")
	}
	if got := o.Image().RGBAAt(30, 30); got.A != 0 {
		t.Fatalf("pixel far from shadow = %+v", got)
	}
}

func TestOverlayShadowZeroOpacity(t *testing.T) {
	o := NewOverlay(10, 10)
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	src.SetNRGBA(0, 0, color.NRGBA{A: 255})
	o.Shadow(src, image.Pt(1, 1), ShadowOptions{Radius: 2, Opacity: 0})
	if !o.Empty() {
		t.Fatal("zero opacity shadow should draw nothing")
	}
}

func TestDrawTextMarksPixels(t *testing.T) {
	w, h, err := MeasureText("Merhaba", 20)
	if err != nil {
		t.Fatalf("MeasureText: %v", err)
	}
	if w <= 0 || h <= 0 {
		t.Fatalf("MeasureText = %dx%d", w, h)
	}
	s := newTestSurface(t, 200, 50)
	if err := s.DrawText(5, 5, "Merhaba", red, 20); err != nil {
		t.Fatalf("DrawText: %v", err)
	}
	painted := false
	for y := 5; y < 5+h && !painted; y++ {
		for x := 5; x < 5+w; x++ {
			if s.At(x, y) != white {
				painted = true
				break
			}
		}
	}
	if !painted {
		t.Fatal("no text pixels drawn")
	}
	if got := s.At(150, 45); got != white {
		t.Fatalf("pixel outside text = %+v", got)
	}
}
