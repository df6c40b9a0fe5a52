package raster

import (
	"image"
	"image/color"
	"image/draw"
)

// ShadowOptions configures the drop shadow drawn under a lifted selection.
type ShadowOptions struct {
	Radius  int
	Offset  image.Point
	Opacity float64
}

// DefaultShadowOptions returns a soft, short shadow suited to a selection
// being dragged across the page.
func DefaultShadowOptions() ShadowOptions {
	return ShadowOptions{
		Radius:  6,
		Offset:  image.Pt(4, 4),
		Opacity: 0.35,
	}
}

// Shadow draws a blurred drop shadow of src's alpha channel onto the overlay,
// as if src were placed with its top-left corner at `at`. The pixels of src
// themselves are not drawn.
func (o *Overlay) Shadow(src *image.NRGBA, at image.Point, opts ShadowOptions) {
	if src == nil || src.Bounds().Empty() || opts.Opacity <= 0 {
		return
	}
	opacity := opts.Opacity
	if opacity > 1 {
		opacity = 1
	}
	radius := max(opts.Radius, 0)

	sb := src.Bounds()
	padded := image.Rect(0, 0, sb.Dx(), sb.Dy()).Inset(-radius)
	mask := image.NewAlpha(padded.Sub(padded.Min))
	for y := 0; y < sb.Dy(); y++ {
		for x := 0; x < sb.Dx(); x++ {
			a := src.Pix[src.PixOffset(sb.Min.X+x, sb.Min.Y+y)+3]
			if a == 0 {
				continue
			}
			mask.Pix[(y+radius)*mask.Stride+x+radius] = a
		}
	}
	blurred := blurAlpha(mask, radius)
	alpha := uint8(opacity*255 + 0.5)
	if alpha == 0 {
		return
	}
	dst := blurred.Bounds().Add(at).Add(padded.Min).Add(opts.Offset)
	draw.DrawMask(o.img, dst, image.NewUniform(color.RGBA{A: alpha}), image.Point{}, blurred, image.Point{}, draw.Over)
	o.dirty = true
}

// blurAlpha applies a separable box blur of the given radius.
func blurAlpha(src *image.Alpha, radius int) *image.Alpha {
	out := image.NewAlpha(src.Bounds())
	if radius <= 0 {
		copy(out.Pix, src.Pix)
		return out
	}
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	tmp := image.NewAlpha(src.Bounds())

	prefix := make([]int, max(w, h)+1)
	for y := 0; y < h; y++ {
		row := y * src.Stride
		for x := 0; x < w; x++ {
			prefix[x+1] = prefix[x] + int(src.Pix[row+x])
		}
		for x := 0; x < w; x++ {
			x0, x1 := max(x-radius, 0), min(x+radius, w-1)
			tmp.Pix[y*tmp.Stride+x] = uint8((prefix[x1+1] - prefix[x0]) / (x1 - x0 + 1))
		}
	}
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			prefix[y+1] = prefix[y] + int(tmp.Pix[y*tmp.Stride+x])
		}
		for y := 0; y < h; y++ {
			y0, y1 := max(y-radius, 0), min(y+radius, h-1)
			out.Pix[y*out.Stride+x] = uint8((prefix[y1+1] - prefix[y0]) / (y1 - y0 + 1))
		}
	}
	return out
}
