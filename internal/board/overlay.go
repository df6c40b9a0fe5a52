package board

import (
	"github.com/example/lessonboard/internal/logging"
	"github.com/example/lessonboard/internal/raster"
	"github.com/example/lessonboard/internal/selection"
)

const (
	dashLength    = 5
	dashThickness = 2
)

// redrawOverlay rebuilds the feedback layer from the current state.
func (b *Board) redrawOverlay() {
	o := b.overlay
	o.Clear()
	th := b.theme

	switch b.state {
	case Selecting:
		r := selection.FromPoints(b.anchor, b.cursor).Canon()
		o.DashedRect(r, dashLength, dashThickness, th.MarqueeDark, th.MarqueeLight)
	case DrawingTextBoxBounds:
		r := selection.FromPoints(b.anchor, b.cursor).Canon()
		o.DashedRect(r, dashLength, dashThickness, th.TextBoxBorder, th.MarqueeLight)
	}

	if b.sel != nil {
		if b.state == DraggingSelection || b.state == ResizingSelection {
			o.Shadow(b.sel.Captured, b.sel.Bounds.Origin(), raster.DefaultShadowOptions())
			// The shadow sits under the lifted pixels.
			o.DrawImage(b.sel.Captured, b.sel.Bounds.Origin())
		}
		r := b.sel.Bounds
		o.DashedRect(r.Canon(), dashLength, dashThickness, th.MarqueeDark, th.MarqueeLight)
		o.Handles(r.HandleRects(selection.HandleSize), th.HandleFill, th.HandleBorder)
	}

	if b.box != nil {
		r := b.box.Rect()
		o.Fill(r, th.TextBoxFill)
		o.DashedRect(r, dashLength, dashThickness, th.TextBoxBorder, th.MarqueeLight)
		for _, line := range b.box.Layout() {
			if err := o.Text(line.X, line.Y, line.Text, b.box.Color, b.box.FontSize); err != nil {
				logging.Logger().Warn("text preview failed", "err", err)
				break
			}
		}
	}
}
