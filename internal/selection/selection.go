// Package selection holds the geometry of a rectangular cut: its bounds, the
// pixels lifted out of the page and the page as it looked right after the
// cut.
package selection

import (
	"image"
)

const (
	// MinSize is the extent both sides of a dragged rectangle must exceed
	// for it to become a selection.
	MinSize = 5
	// HandleTolerance is the per-axis distance within which a press grabs a
	// resize handle.
	HandleTolerance = 20
	// HandleSize is the drawn size of a resize handle.
	HandleSize = 20
)

// Rect is an anchored rectangle. W and H may be negative while a handle is
// dragged past the opposite edge.
type Rect struct {
	X, Y, W, H int
}

// FromPoints returns the rectangle spanned from anchor a to point b.
func FromPoints(a, b image.Point) Rect {
	return Rect{X: a.X, Y: a.Y, W: b.X - a.X, H: b.Y - a.Y}
}

// Canon returns the rectangle with non-negative extents.
func (r Rect) Canon() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H)
}

// Origin returns the anchored top-left corner.
func (r Rect) Origin() image.Point { return image.Pt(r.X, r.Y) }

// Large reports whether both extents exceed MinSize.
func (r Rect) Large() bool {
	return abs(r.W) > MinSize && abs(r.H) > MinSize
}

// Contains reports whether p lies within the rectangle, edges included.
func (r Rect) Contains(p image.Point) bool {
	c := r.Canon()
	return p.X >= c.Min.X && p.X <= c.Max.X && p.Y >= c.Min.Y && p.Y <= c.Max.Y
}

// Handle names one of the eight resize anchors.
type Handle int

const (
	NW Handle = iota
	N
	NE
	E
	SE
	S
	SW
	W
)

var handleNames = [...]string{"nw", "n", "ne", "e", "se", "s", "sw", "w"}

func (h Handle) String() string {
	if h < NW || h > W {
		return "none"
	}
	return handleNames[h]
}

// Anchors returns the centre of each handle, indexed by Handle.
func (r Rect) Anchors() [8]image.Point {
	cx, cy := r.X+r.W/2, r.Y+r.H/2
	right, bottom := r.X+r.W, r.Y+r.H
	return [8]image.Point{
		NW: {r.X, r.Y},
		N:  {cx, r.Y},
		NE: {right, r.Y},
		E:  {right, cy},
		SE: {right, bottom},
		S:  {cx, bottom},
		SW: {r.X, bottom},
		W:  {r.X, cy},
	}
}

// HandleAt returns the first handle whose anchor is within tol of p on both
// axes.
func (r Rect) HandleAt(p image.Point, tol int) (Handle, bool) {
	for h, a := range r.Anchors() {
		if abs(p.X-a.X) < tol && abs(p.Y-a.Y) < tol {
			return Handle(h), true
		}
	}
	return 0, false
}

// HandleRects returns a size×size square centred on every anchor.
func (r Rect) HandleRects(size int) []image.Rectangle {
	half := size / 2
	out := make([]image.Rectangle, 0, 8)
	for _, a := range r.Anchors() {
		out = append(out, image.Rect(a.X-half, a.Y-half, a.X-half+size, a.Y-half+size))
	}
	return out
}

// Resize moves the edges controlled by h to p. The opposite edges stay put.
// No clamping is applied, so extents may become zero or negative.
func (r Rect) Resize(h Handle, p image.Point) Rect {
	switch h {
	case NW:
		r.W += r.X - p.X
		r.H += r.Y - p.Y
		r.X, r.Y = p.X, p.Y
	case N:
		r.H += r.Y - p.Y
		r.Y = p.Y
	case NE:
		r.W = p.X - r.X
		r.H += r.Y - p.Y
		r.Y = p.Y
	case E:
		r.W = p.X - r.X
	case SE:
		r.W = p.X - r.X
		r.H = p.Y - r.Y
	case S:
		r.H = p.Y - r.Y
	case SW:
		r.W += r.X - p.X
		r.X = p.X
		r.H = p.Y - r.Y
	case W:
		r.W += r.X - p.X
		r.X = p.X
	}
	return r
}

// Selection is a floating cut. Captured keeps its original size however the
// bounds are resized; it is pasted at the bounds' anchored origin.
type Selection struct {
	Bounds     Rect
	Captured   *image.NRGBA
	Background *image.NRGBA
}

// MoveTo places the anchored origin at p.
func (s *Selection) MoveTo(p image.Point) {
	s.Bounds.X, s.Bounds.Y = p.X, p.Y
}

// CapturedSize returns the dimensions of the lifted pixels.
func (s *Selection) CapturedSize() image.Point {
	if s.Captured == nil {
		return image.Point{}
	}
	return s.Captured.Bounds().Size()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
