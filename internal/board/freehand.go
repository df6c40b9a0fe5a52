package board

import (
	"github.com/example/lessonboard/internal/raster"
)

const (
	eraserScale  = 3
	autoPenScale = 0.8
)

// strokeStyle returns the paint parameters of the active tool.
func (b *Board) strokeStyle() raster.StrokeStyle {
	switch b.tool {
	case Eraser:
		return raster.StrokeStyle{
			Width:     b.brushSize * eraserScale,
			Composite: raster.CompositeDestinationOut,
		}
	case AutoPen:
		return raster.StrokeStyle{Color: b.brushColor, Width: b.brushSize * autoPenScale}
	default:
		return raster.StrokeStyle{Color: b.brushColor, Width: b.brushSize}
	}
}

func (b *Board) beginStroke(p Point) {
	b.state = FreehandDrawing
	b.last, b.mid = p, p
	b.moved = false
}

// strokeTo paints from the previous pointer position to p. The auto-pen
// draws a quadratic through the previous point between successive
// midpoints.
func (b *Board) strokeTo(p Point) {
	style := b.strokeStyle()
	if b.tool == AutoPen {
		mid := raster.Pt((b.last.X+p.X)/2, (b.last.Y+p.Y)/2)
		b.surface.StrokeQuad(b.mid, b.last, mid, style)
		b.mid = mid
	} else {
		b.surface.StrokeSegment(b.last, p, style)
	}
	b.last = p
	b.moved = true
	b.recorded = false
}

// endStroke finishes the stroke and records exactly one snapshot. A stroke
// without movement leaves a dot.
func (b *Board) endStroke() {
	style := b.strokeStyle()
	switch {
	case !b.moved:
		b.surface.StrokeSegment(b.last, b.last, style)
	case b.tool == AutoPen:
		b.surface.StrokeSegment(b.mid, b.last, style)
	}
	b.state = Idle
	b.pushLogged()
}
