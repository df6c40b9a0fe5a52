// Package raster owns the pixel buffers of a whiteboard page: the persistent
// Surface and the ephemeral Overlay drawn above it.
//
// Pixels are stored non-premultiplied (image.NRGBA) so that PNG export and
// import round-trip exactly, including the partially transparent edges left
// by the eraser.
package raster

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
)

// ErrSize reports a surface created with a non-positive dimension.
var ErrSize = errors.New("raster: surface dimensions must be positive")

var encoder = png.Encoder{CompressionLevel: png.BestSpeed}

// Surface is the flat pixel buffer of one page.
type Surface struct {
	img *image.NRGBA
	bg  color.NRGBA
}

// NewSurface allocates a width×height surface filled with bg.
func NewSurface(width, height int, bg color.Color) (*Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrSize, width, height)
	}
	s := &Surface{
		img: image.NewNRGBA(image.Rect(0, 0, width, height)),
		bg:  color.NRGBAModel.Convert(bg).(color.NRGBA),
	}
	s.Clear()
	return s, nil
}

// Bounds returns the surface rectangle, always anchored at the origin.
func (s *Surface) Bounds() image.Rectangle { return s.img.Bounds() }

// Background returns the colour used by Clear and FillBackground.
func (s *Surface) Background() color.NRGBA { return s.bg }

// At returns the pixel at (x, y). Points outside the surface are transparent.
func (s *Surface) At(x, y int) color.NRGBA { return s.img.NRGBAAt(x, y) }

// Clear fills the whole surface with the background colour.
func (s *Surface) Clear() {
	s.FillBackground(s.img.Bounds())
}

// FillBackground fills r (clipped to the surface) with the background colour.
func (s *Surface) FillBackground(r image.Rectangle) {
	r = r.Canon().Intersect(s.img.Bounds())
	if r.Empty() {
		return
	}
	row := s.img.PixOffset(r.Min.X, r.Min.Y)
	first := s.img.Pix[row : row+4*r.Dx()]
	for i := 0; i < len(first); i += 4 {
		first[i], first[i+1], first[i+2], first[i+3] = s.bg.R, s.bg.G, s.bg.B, s.bg.A
	}
	for y := r.Min.Y + 1; y < r.Max.Y; y++ {
		off := s.img.PixOffset(r.Min.X, y)
		copy(s.img.Pix[off:off+len(first)], first)
	}
}

// Region copies the pixels under r into a new zero-origin image of r's size.
// Parts of r outside the surface are transparent in the copy.
func (s *Surface) Region(r image.Rectangle) *image.NRGBA {
	r = r.Canon()
	out := image.NewNRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	copyRect(out, image.Point{}.Sub(r.Min), s.img)
	return out
}

// Paste replaces the pixels at `at` with src, clipped to the surface. Alpha
// is copied, not blended, so transparent parts of src punch through.
func (s *Surface) Paste(src *image.NRGBA, at image.Point) {
	if src == nil {
		return
	}
	copyRect(s.img, at.Sub(src.Bounds().Min), src)
}

// Snapshot returns a full copy of the pixels.
func (s *Surface) Snapshot() *image.NRGBA {
	out := image.NewNRGBA(s.img.Bounds())
	copy(out.Pix, s.img.Pix)
	return out
}

// Replace overwrites every pixel with img. When img does not cover the
// surface exactly, the surface is cleared first and img is composited over
// the background at the origin.
func (s *Surface) Replace(img image.Image) {
	if n, ok := img.(*image.NRGBA); ok && n.Bounds() == s.img.Bounds() {
		copy(s.img.Pix, n.Pix)
		return
	}
	s.Clear()
	b := img.Bounds()
	draw.Draw(s.img, b.Sub(b.Min), img, b.Min, draw.Over)
}

// Encode returns the surface as PNG bytes.
func (s *Surface) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := encoder.Encode(&buf, s.img); err != nil {
		return nil, fmt.Errorf("encode surface: %w", err)
	}
	return buf.Bytes(), nil
}

// Restore decodes data and replaces the surface with it. On any decode error
// the surface is left untouched.
func (s *Surface) Restore(data []byte) error {
	img, err := Decode(data)
	if err != nil {
		return err
	}
	s.Replace(img)
	return nil
}

// DrawTo composites the surface onto dst with its origin at `at`.
func (s *Surface) DrawTo(dst draw.Image, at image.Point) {
	draw.Draw(dst, s.img.Bounds().Add(at), s.img, image.Point{}, draw.Over)
}

// Decode parses PNG bytes into a zero-origin NRGBA image.
func Decode(data []byte) (*image.NRGBA, error) {
	if len(data) == 0 {
		return nil, errors.New("decode image: empty data")
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return toNRGBA(img), nil
}

// Encode writes img as PNG bytes.
func Encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := encoder.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), nil
}

func toNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	if n, ok := img.(*image.NRGBA); ok && b.Min == (image.Point{}) {
		return n
	}
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

// copyRect copies src into dst with src's origin translated by delta, row by
// row, clipped to both images.
func copyRect(dst *image.NRGBA, delta image.Point, src *image.NRGBA) {
	r := src.Bounds().Add(delta).Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	n := 4 * r.Dx()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		d := dst.PixOffset(r.Min.X, y)
		s := src.PixOffset(r.Min.X-delta.X, y-delta.Y)
		copy(dst.Pix[d:d+n], src.Pix[s:s+n])
	}
}
