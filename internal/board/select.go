package board

import (
	"image"

	"github.com/example/lessonboard/internal/logging"
	"github.com/example/lessonboard/internal/selection"
)

func (b *Board) pressSelect(pt image.Point) {
	if b.sel != nil {
		if h, ok := b.sel.Bounds.HandleAt(pt, selection.HandleTolerance); ok {
			b.handle = h
			b.state = ResizingSelection
			return
		}
		if b.sel.Bounds.Contains(pt) {
			b.dragOffset = pt.Sub(b.sel.Bounds.Origin())
			b.state = DraggingSelection
			return
		}
		b.commitSelection()
	}
	b.anchor, b.cursor = pt, pt
	b.state = Selecting
}

// cut lifts the pixels under r off the page. Rectangles that are too small
// are discarded.
func (b *Board) cut(r selection.Rect) {
	if !r.Large() {
		return
	}
	c := r.Canon().Intersect(b.surface.Bounds())
	if c.Empty() {
		return
	}
	captured := b.surface.Region(c)
	b.surface.FillBackground(c)
	b.sel = &selection.Selection{
		Bounds:     selection.Rect{X: c.Min.X, Y: c.Min.Y, W: c.Dx(), H: c.Dy()},
		Captured:   captured,
		Background: b.surface.Snapshot(),
	}
	b.recomposite()
	logging.Logger().Debug("selection cut", "rect", c)
}

// recomposite redraws the page as the background with the captured pixels
// at the selection origin.
func (b *Board) recomposite() {
	b.surface.Replace(b.sel.Background)
	b.surface.Paste(b.sel.Captured, b.sel.Bounds.Origin())
	b.recorded = false
}

// commitSelection fixes the floating selection into the page and records
// one snapshot.
func (b *Board) commitSelection() {
	if b.sel == nil {
		return
	}
	b.recomposite()
	b.sel = nil
	b.pushLogged()
}
