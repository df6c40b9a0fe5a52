package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// DefaultFontSize is used when a caller passes a non-positive size.
const DefaultFontSize = 16

var (
	fontOnce sync.Once
	goFont   *opentype.Font
	fontErr  error
	faces    sync.Map // map[float64]font.Face
)

var resolveFace = faceForSize

func faceForSize(size float64) (font.Face, error) {
	if size <= 0 {
		size = DefaultFontSize
	}
	if face, ok := faces.Load(size); ok {
		return face.(font.Face), nil
	}
	fontOnce.Do(func() {
		goFont, fontErr = opentype.Parse(goregular.TTF)
	})
	if fontErr != nil {
		return nil, fmt.Errorf("parse font: %w", fontErr)
	}
	face, err := opentype.NewFace(goFont, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("font face %.1f: %w", size, err)
	}
	actual, _ := faces.LoadOrStore(size, face)
	return actual.(font.Face), nil
}

// MeasureText returns the advance width of text and the ascent+descent height
// of a line at the given size.
func MeasureText(text string, size float64) (width, height int, err error) {
	face, err := faceForSize(size)
	if err != nil {
		return 0, 0, err
	}
	m := face.Metrics()
	width = font.MeasureString(face, text).Ceil()
	height = m.Ascent.Ceil() + m.Descent.Ceil()
	return width, height, nil
}

// DrawText renders one line of text onto dst with its top-left corner at
// (x, y).
func DrawText(dst draw.Image, x, y int, text string, col color.Color, size float64) error {
	return DrawLines(dst, []TextLine{{Text: text, X: x, Y: y}}, col, size)
}

// TextLine is one line of text with the top-left corner of its line box.
type TextLine struct {
	Text string
	X, Y int
}

// DrawLines renders lines at one size. The face is resolved before anything
// is drawn, so on error dst is untouched.
func DrawLines(dst draw.Image, lines []TextLine, col color.Color, size float64) error {
	face, err := resolveFace(size)
	if err != nil {
		return err
	}
	ascent := face.Metrics().Ascent.Ceil()
	src := image.NewUniform(col)
	for _, l := range lines {
		d := &font.Drawer{Dst: dst, Src: src, Face: face, Dot: fixed.P(l.X, l.Y+ascent)}
		d.DrawString(l.Text)
	}
	return nil
}

// DrawText renders one line of text onto the surface.
func (s *Surface) DrawText(x, y int, text string, col color.Color, size float64) error {
	return DrawText(s.img, x, y, text, col, size)
}

// DrawLines renders a block of lines onto the surface, all or nothing.
func (s *Surface) DrawLines(lines []TextLine, col color.Color, size float64) error {
	return DrawLines(s.img, lines, col, size)
}
