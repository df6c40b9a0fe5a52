// Package textbox models the paint-style text box: a rectangle dragged on the
// page that collects typed or dictated text until it is stamped onto the
// surface.
package textbox

import (
	"image"
	"image/color"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// MinWidth and MinHeight are the extents a dragged rectangle must
	// exceed to become a text box.
	MinWidth  = 30
	MinHeight = 20

	// FontScale converts brush size to font size.
	FontScale = 4
	// LineSpacing is the line height as a multiple of the font size.
	LineSpacing = 1.3
)

// Box is an editable text box.
type Box struct {
	X, Y, W, H int
	Text       string
	Color      color.NRGBA
	FontSize   float64
}

// FromDrag builds a box over the rectangle spanned by a and b. It reports
// false when the rectangle is too small.
func FromDrag(a, b image.Point, col color.NRGBA, brushSize float64) (*Box, bool) {
	r := image.Rectangle{Min: a, Max: b}.Canon()
	if r.Dx() <= MinWidth || r.Dy() <= MinHeight {
		return nil, false
	}
	return &Box{
		X: r.Min.X, Y: r.Min.Y, W: r.Dx(), H: r.Dy(),
		Color:    col,
		FontSize: brushSize * FontScale,
	}, true
}

// Rect returns the box bounds.
func (b *Box) Rect() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.W, b.Y+b.H)
}

// Contains reports whether p lies inside the box.
func (b *Box) Contains(p image.Point) bool { return p.In(b.Rect()) }

// LineHeight returns the distance between successive baselines.
func (b *Box) LineHeight() float64 { return b.FontSize * LineSpacing }

// Blank reports whether the text is empty or whitespace only.
func (b *Box) Blank() bool { return strings.TrimSpace(b.Text) == "" }

// AppendTranscript appends a dictated phrase, separated by a single space
// unless the text is empty or already ends in whitespace.
func (b *Box) AppendTranscript(s string) {
	if last, _ := utf8.DecodeLastRuneInString(b.Text); b.Text != "" && !unicode.IsSpace(last) {
		b.Text += " "
	}
	b.Text += s
}

// Insert appends typed text.
func (b *Box) Insert(s string) { b.Text += s }

// Backspace removes the last rune.
func (b *Box) Backspace() {
	if b.Text == "" {
		return
	}
	_, n := utf8.DecodeLastRuneInString(b.Text)
	b.Text = b.Text[:len(b.Text)-n]
}

// Line is one laid-out line of text.
type Line struct {
	Text string
	X, Y int
}

// Layout splits the text on newlines and positions each line. Lines whose
// bottom would fall below the box are dropped.
func (b *Box) Layout() []Line {
	lh := b.LineHeight()
	bottom := float64(b.Y + b.H)
	var out []Line
	for i, text := range strings.Split(b.Text, "\n") {
		y := float64(b.Y) + float64(i)*lh
		if y+lh > bottom {
			continue
		}
		text = strings.TrimRightFunc(text, unicode.IsControl)
		out = append(out, Line{Text: text, X: b.X, Y: int(y + 0.5)})
	}
	return out
}
