package board

import (
	"image"

	"github.com/example/lessonboard/internal/logging"
	"github.com/example/lessonboard/internal/raster"
)

func (b *Board) pressText(pt image.Point) {
	if b.box != nil {
		if b.box.Contains(pt) {
			return
		}
		b.ConfirmText()
	}
	b.anchor, b.cursor = pt, pt
	b.state = DrawingTextBoxBounds
}

// ConfirmText stamps the text box onto the page and records one snapshot.
// Blank text leaves the page and history untouched. Any dictation in
// progress is stopped.
func (b *Board) ConfirmText() {
	if b.box == nil {
		return
	}
	b.stopDictation()
	box := b.box
	b.box = nil
	b.state = Idle
	defer b.redrawOverlay()
	lines := box.Layout()
	if box.Blank() || len(lines) == 0 {
		return
	}
	block := make([]raster.TextLine, len(lines))
	for i, line := range lines {
		block[i] = raster.TextLine{Text: line.Text, X: line.X, Y: line.Y}
	}
	if err := b.surface.DrawLines(block, box.Color, box.FontSize); err != nil {
		logging.Logger().Warn("text render failed", "err", err)
		return
	}
	b.recorded = false
	b.pushLogged()
	logging.Logger().Debug("text committed", "rect", box.Rect(), "lines", len(lines))
}

// CancelText discards the text box without touching the page. Any dictation
// in progress is stopped.
func (b *Board) CancelText() {
	if b.box == nil {
		return
	}
	b.stopDictation()
	b.box = nil
	b.state = Idle
	b.redrawOverlay()
}

// AppendTranscript adds a dictated phrase to the text box being edited. It
// reports false, and changes nothing, when no text box is active.
func (b *Board) AppendTranscript(text string) bool {
	if b.box == nil || b.state != EditingTextBox {
		logging.Logger().Debug("transcript dropped, no active text box", "text", text)
		return false
	}
	b.box.AppendTranscript(text)
	b.redrawOverlay()
	return true
}

func (b *Board) stopDictation() {
	if b.dictation != nil && b.dictation.Listening() {
		b.dictation.Stop()
	}
}
