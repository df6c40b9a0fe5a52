package ui

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/example/lessonboard/internal/theme"
)

const (
	swatchSize    = 14
	indicatorSize = 10
)

// Draw renders a frame of size dst.Bounds(): the scaled page with its
// overlay and the status bar.
func (c *Controller) Draw(dst *image.RGBA) {
	win := dst.Bounds()
	draw.Draw(dst, win, image.NewUniform(c.theme.Background), image.Point{}, draw.Src)

	if !c.canvas.Empty() {
		page := c.Board().Size()
		if c.scratch == nil || c.scratch.Bounds().Size() != page {
			c.scratch = image.NewNRGBA(image.Rectangle{Max: page})
		}
		clear(c.scratch.Pix)
		c.Board().Render(c.scratch, image.Point{})
		xdraw.NearestNeighbor.Scale(dst, c.canvas.Add(win.Min), c.scratch, c.scratch.Bounds(), xdraw.Over, nil)
	}

	bar := image.Rect(win.Min.X, win.Max.Y-StatusHeight, win.Max.X, win.Max.Y)
	DrawStatus(dst, bar, c.Status(), c.theme)
}

// DrawStatus draws the status bar into r: page and tool on the left, the
// transient message after them, the brush swatch and listening indicator
// on the right.
func DrawStatus(dst draw.Image, r image.Rectangle, st Status, th *theme.Theme) {
	if th == nil {
		th = theme.Default()
	}
	draw.Draw(dst, r, image.NewUniform(th.StatusBar), image.Point{}, draw.Src)

	label := fmt.Sprintf("%s  page %d  %s %gpx", st.Lesson, st.Page, st.Tool, st.BrushSize)
	if st.Message != "" {
		label += "  | " + st.Message
	}
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(th.StatusText),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(r.Min.X+4, r.Min.Y+16),
	}
	d.DrawString(label)

	mid := r.Min.Y + r.Dy()/2
	swatch := image.Rect(r.Max.X-swatchSize-6, mid-swatchSize/2, r.Max.X-6, mid+swatchSize/2)
	draw.Draw(dst, swatch, image.NewUniform(th.StatusText), image.Point{}, draw.Src)
	draw.Draw(dst, swatch.Inset(1), image.NewUniform(st.BrushColor), image.Point{}, draw.Over)

	if st.Listening {
		center := image.Pt(swatch.Min.X-indicatorSize-6, mid)
		fillCircle(dst, center, indicatorSize/2, th.Listening)
	}
}

func fillCircle(dst draw.Image, center image.Point, radius int, c color.Color) {
	for y := -radius; y <= radius; y++ {
		for x := -radius; x <= radius; x++ {
			if x*x+y*y <= radius*radius {
				dst.Set(center.X+x, center.Y+y, c)
			}
		}
	}
}
