package raster

import (
	"image"
	"image/color"
	"image/draw"
)

// Overlay is a transparent buffer, the same size as its page, for ephemeral
// feedback such as selection marquees and the live text box. Its contents
// never reach the surface or the history.
type Overlay struct {
	img   *image.RGBA
	dirty bool
}

// NewOverlay allocates a cleared overlay of the given size.
func NewOverlay(width, height int) *Overlay {
	return &Overlay{img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

// Image exposes the overlay pixels.
func (o *Overlay) Image() *image.RGBA { return o.img }

// Empty reports whether nothing has been drawn since the last Clear.
func (o *Overlay) Empty() bool { return !o.dirty }

// Clear erases the overlay.
func (o *Overlay) Clear() {
	if !o.dirty {
		return
	}
	clear(o.img.Pix)
	o.dirty = false
}

// DashedRect outlines r with alternating dashes of c1 and c2.
func (o *Overlay) DashedRect(r image.Rectangle, dash, thickness int, c1, c2 color.Color) {
	r = r.Canon()
	if dash <= 0 {
		dash = 1
	}
	if thickness <= 0 {
		thickness = 1
	}
	o.dashedLine(r.Min, image.Pt(r.Max.X, r.Min.Y), dash, thickness, c1, c2)
	o.dashedLine(image.Pt(r.Max.X, r.Min.Y), r.Max, dash, thickness, c1, c2)
	o.dashedLine(r.Max, image.Pt(r.Min.X, r.Max.Y), dash, thickness, c1, c2)
	o.dashedLine(image.Pt(r.Min.X, r.Max.Y), r.Min, dash, thickness, c1, c2)
	o.dirty = true
}

// dashedLine draws an axis-aligned dashed line from a to b.
func (o *Overlay) dashedLine(a, b image.Point, dash, thickness int, c1, c2 color.Color) {
	step := image.Pt(sign(b.X-a.X), sign(b.Y-a.Y))
	across := image.Pt(1, 0)
	length := abs(b.Y - a.Y)
	if a.Y == b.Y {
		across = image.Pt(0, 1)
		length = abs(b.X - a.X)
	}
	for i := 0; i <= length; i++ {
		col := c1
		if (i/dash)%2 == 1 {
			col = c2
		}
		p := a.Add(step.Mul(i))
		for t := 0; t < thickness; t++ {
			q := p.Add(across.Mul(t))
			if q.In(o.img.Bounds()) {
				o.img.Set(q.X, q.Y, col)
			}
		}
	}
}

// Rect outlines r with a solid border of the given thickness.
func (o *Overlay) Rect(r image.Rectangle, col color.Color, thickness int) {
	r = r.Canon()
	if thickness <= 0 {
		thickness = 1
	}
	u := image.NewUniform(col)
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+thickness),
		image.Rect(r.Min.X, r.Max.Y-thickness, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+thickness, r.Max.Y),
		image.Rect(r.Max.X-thickness, r.Min.Y, r.Max.X, r.Max.Y),
	}
	for _, e := range edges {
		draw.Draw(o.img, e.Intersect(r), u, image.Point{}, draw.Over)
	}
	o.dirty = true
}

// Handles draws filled squares with a one pixel border, one per rectangle.
func (o *Overlay) Handles(rects []image.Rectangle, fill, border color.Color) {
	for _, h := range rects {
		draw.Draw(o.img, h, image.NewUniform(fill), image.Point{}, draw.Over)
		o.Rect(h, border, 1)
	}
	o.dirty = true
}

// Fill paints r with col over the existing overlay.
func (o *Overlay) Fill(r image.Rectangle, col color.Color) {
	draw.Draw(o.img, r.Canon(), image.NewUniform(col), image.Point{}, draw.Over)
	o.dirty = true
}

// DrawImage draws src with its top-left corner at `at`.
func (o *Overlay) DrawImage(src image.Image, at image.Point) {
	if src == nil {
		return
	}
	b := src.Bounds()
	draw.Draw(o.img, b.Sub(b.Min).Add(at), src, b.Min, draw.Over)
	o.dirty = true
}

// Text draws one line of text with its top-left corner at (x, y).
func (o *Overlay) Text(x, y int, text string, col color.Color, size float64) error {
	o.dirty = true
	return DrawText(o.img, x, y, text, col, size)
}

// DrawTo composites the overlay onto dst with its origin at `at`.
func (o *Overlay) DrawTo(dst draw.Image, at image.Point) {
	if !o.dirty {
		return
	}
	draw.Draw(dst, o.img.Bounds().Add(at), o.img, image.Point{}, draw.Over)
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
