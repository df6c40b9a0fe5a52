package raster

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

// Composite selects how stroke coverage is combined with existing pixels.
type Composite int

const (
	// CompositeOver paints the stroke colour over the surface.
	CompositeOver Composite = iota
	// CompositeDestinationOut removes alpha from the surface under the
	// stroke, leaving transparent pixels behind.
	CompositeDestinationOut
)

// kappa places cubic control points so that four segments approximate a
// circle.
const kappa = 0.5522847498

// Point is a position in surface pixels.
type Point struct{ X, Y float64 }

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Image returns the pixel containing p.
func (p Point) Image() image.Point {
	return image.Pt(int(math.Floor(p.X)), int(math.Floor(p.Y)))
}

func (p Point) add(q Point) Point       { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) sub(q Point) Point       { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) mul(k float64) Point     { return Point{p.X * k, p.Y * k} }
func (p Point) f32() (float32, float32) { return float32(p.X), float32(p.Y) }

// StrokeStyle describes how a freehand segment is painted. Strokes always use
// round caps and joins.
type StrokeStyle struct {
	Color     color.NRGBA
	Width     float64
	Composite Composite
}

// StrokeSegment paints a straight segment from a to b. When a and b coincide
// a round dot of the stroke width is painted. It returns the rectangle that
// may have changed.
func (s *Surface) StrokeSegment(a, b Point, style StrokeStyle) image.Rectangle {
	r := style.Width / 2
	if r < 0.5 {
		r = 0.5
	}
	box := image.Rect(
		int(math.Floor(math.Min(a.X, b.X)-r))-1,
		int(math.Floor(math.Min(a.Y, b.Y)-r))-1,
		int(math.Ceil(math.Max(a.X, b.X)+r))+1,
		int(math.Ceil(math.Max(a.Y, b.Y)+r))+1,
	).Intersect(s.img.Bounds())
	if box.Empty() {
		return image.Rectangle{}
	}
	origin := Point{float64(box.Min.X), float64(box.Min.Y)}
	z := vector.NewRasterizer(box.Dx(), box.Dy())
	z.DrawOp = draw.Src
	capsule(z, a.sub(origin), b.sub(origin), r)
	mask := image.NewAlpha(image.Rect(0, 0, box.Dx(), box.Dy()))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	s.composite(box.Min, mask, style)
	return box
}

// StrokeQuad paints the quadratic curve from a to b with control point ctrl.
// The curve is flattened into short segments.
func (s *Surface) StrokeQuad(a, ctrl, b Point, style StrokeStyle) image.Rectangle {
	length := math.Hypot(ctrl.X-a.X, ctrl.Y-a.Y) + math.Hypot(b.X-ctrl.X, b.Y-ctrl.Y)
	steps := int(math.Ceil(length / 2))
	if steps < 1 {
		steps = 1
	}
	if steps > 64 {
		steps = 64
	}
	var dirty image.Rectangle
	prev := a
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		u := 1 - t
		p := a.mul(u * u).add(ctrl.mul(2 * u * t)).add(b.mul(t * t))
		dirty = dirty.Union(s.StrokeSegment(prev, p, style))
		prev = p
	}
	return dirty
}

// capsule adds the outline of a round-capped segment of radius r to z as a
// single closed path.
func capsule(z *vector.Rasterizer, a, b Point, r float64) {
	d := b.sub(a)
	l := math.Hypot(d.X, d.Y)
	if l < 1e-6 {
		d = Point{1, 0}
	} else {
		d = d.mul(1 / l)
	}
	n := Point{-d.Y, d.X}
	dr, nr, dk, nk := d.mul(r), n.mul(r), d.mul(r*kappa), n.mul(r*kappa)

	moveTo(z, a.add(nr))
	lineTo(z, b.add(nr))
	cubeTo(z, b.add(nr).add(dk), b.add(dr).add(nk), b.add(dr))
	cubeTo(z, b.add(dr).sub(nk), b.sub(nr).add(dk), b.sub(nr))
	lineTo(z, a.sub(nr))
	cubeTo(z, a.sub(nr).sub(dk), a.sub(dr).sub(nk), a.sub(dr))
	cubeTo(z, a.sub(dr).add(nk), a.add(nr).sub(dk), a.add(nr))
	z.ClosePath()
}

func moveTo(z *vector.Rasterizer, p Point) { z.MoveTo(p.f32()) }
func lineTo(z *vector.Rasterizer, p Point) { z.LineTo(p.f32()) }

func cubeTo(z *vector.Rasterizer, c1, c2, p Point) {
	x1, y1 := c1.f32()
	x2, y2 := c2.f32()
	x, y := p.f32()
	z.CubeTo(x1, y1, x2, y2, x, y)
}

// composite applies mask coverage at `at` using the style's composite mode.
func (s *Surface) composite(at image.Point, mask *image.Alpha, style StrokeStyle) {
	mb := mask.Bounds()
	for y := 0; y < mb.Dy(); y++ {
		for x := 0; x < mb.Dx(); x++ {
			cov := mask.Pix[y*mask.Stride+x]
			if cov == 0 {
				continue
			}
			off := s.img.PixOffset(at.X+x, at.Y+y)
			p := s.img.Pix[off : off+4 : off+4]
			if style.Composite == CompositeDestinationOut {
				p[3] = uint8((uint32(p[3])*uint32(255-cov) + 127) / 255)
				continue
			}
			blendOver(p, style.Color, cov)
		}
	}
}

// blendOver composites c with coverage cov over the non-premultiplied pixel p.
func blendOver(p []byte, c color.NRGBA, cov uint8) {
	sa := float64(c.A) / 255 * float64(cov) / 255
	if sa >= 1 {
		p[0], p[1], p[2], p[3] = c.R, c.G, c.B, 255
		return
	}
	da := float64(p[3]) / 255
	keep := da * (1 - sa)
	oa := sa + keep
	if oa <= 0 {
		p[0], p[1], p[2], p[3] = 0, 0, 0, 0
		return
	}
	mix := func(src, dst uint8) uint8 {
		return uint8((float64(src)*sa+float64(dst)*keep)/oa + 0.5)
	}
	p[0], p[1], p[2] = mix(c.R, p[0]), mix(c.G, p[1]), mix(c.B, p[2])
	p[3] = uint8(oa*255 + 0.5)
}
