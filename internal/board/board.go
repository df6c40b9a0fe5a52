// Package board implements one whiteboard page: the tool state machine that
// turns pointer and key input into pixels, the floating selection, the text
// box and the page's undo history.
//
// A Board is driven from a single goroutine. Hosts feed it input through
// Press, Move, Release and Key, route dictation through AppendTranscript and
// ClearCanvas, and use the Handle methods for undo, redo, clear, export and
// load.
package board

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log/slog"

	"github.com/example/lessonboard/internal/history"
	"github.com/example/lessonboard/internal/logging"
	"github.com/example/lessonboard/internal/raster"
	"github.com/example/lessonboard/internal/selection"
	"github.com/example/lessonboard/internal/textbox"
	"github.com/example/lessonboard/internal/theme"
)

// ErrBusy is returned when a tool change is requested while a pointer
// gesture is in progress.
var ErrBusy = errors.New("board: gesture in progress")

// Point is a position in page pixels.
type Point = raster.Point

// DictationSession is the part of a dictation bridge the board controls.
type DictationSession interface {
	Listening() bool
	Stop()
}

// SetLogger routes board diagnostics to l. Passing nil silences them.
func SetLogger(l *slog.Logger) { logging.SetLogger(l) }

// Board is one page.
type Board struct {
	surface *raster.Surface
	overlay *raster.Overlay
	history *history.Stack
	theme   *theme.Theme

	tool       Tool
	brushColor color.NRGBA
	brushSize  float64
	state      State

	// recorded is true while the surface equals the history entry under the
	// cursor.
	recorded bool

	// freehand
	last, mid Point
	moved     bool

	// selecting and text box bounds
	anchor, cursor image.Point

	sel        *selection.Selection
	dragOffset image.Point
	handle     selection.Handle

	box       *textbox.Box
	dictation DictationSession
}

// New creates a page and records its blank state as the first history entry.
func New(opts ...Option) (*Board, error) {
	s := defaults()
	for _, opt := range opts {
		opt(&s)
	}
	surface, err := raster.NewSurface(s.width, s.height, s.background)
	if err != nil {
		return nil, fmt.Errorf("new board: %w", err)
	}
	b := &Board{
		surface:    surface,
		overlay:    raster.NewOverlay(s.width, s.height),
		history:    history.New(s.capacity),
		theme:      s.theme,
		tool:       s.tool,
		brushColor: toNRGBA(s.brushColor),
		brushSize:  s.brushSize,
		dictation:  s.dictation,
	}
	if b.brushSize <= 0 {
		b.brushSize = DefaultBrushSize
	}
	if err := b.push(); err != nil {
		return nil, fmt.Errorf("new board: %w", err)
	}
	return b, nil
}

// Size returns the page dimensions.
func (b *Board) Size() image.Point { return b.surface.Bounds().Size() }

// Tool returns the active tool.
func (b *Board) Tool() Tool { return b.tool }

// State returns the current interaction mode.
func (b *Board) State() State { return b.state }

// BrushColor returns the colour used by new strokes and text boxes.
func (b *Board) BrushColor() color.NRGBA { return b.brushColor }

// BrushSize returns the base stroke width.
func (b *Board) BrushSize() float64 { return b.brushSize }

// Background returns the page background colour.
func (b *Board) Background() color.NRGBA { return b.surface.Background() }

// HistoryPosition returns the history cursor and the number of snapshots.
func (b *Board) HistoryPosition() (cursor, length int) {
	return b.history.Cursor(), b.history.Len()
}

// Selection returns a copy of the floating selection bounds.
func (b *Board) Selection() (selection.Rect, bool) {
	if b.sel == nil {
		return selection.Rect{}, false
	}
	return b.sel.Bounds, true
}

// TextBox returns a copy of the text box being edited.
func (b *Board) TextBox() (textbox.Box, bool) {
	if b.box == nil {
		return textbox.Box{}, false
	}
	return *b.box, true
}

// Listening reports whether the attached dictation session is capturing.
func (b *Board) Listening() bool {
	return b.dictation != nil && b.dictation.Listening()
}

// SetDictation attaches the dictation session stopped on text commit and
// cancel.
func (b *Board) SetDictation(d DictationSession) { b.dictation = d }

// SetTool switches tools. It fails with ErrBusy while a pointer is held.
// Leaving Select commits a floating selection; leaving Text commits the text
// box.
func (b *Board) SetTool(t Tool) error {
	if t < Select || t > Shapes {
		return fmt.Errorf("set tool: invalid tool %d", int(t))
	}
	if b.state.gesture() {
		return ErrBusy
	}
	if t == b.tool {
		return nil
	}
	if b.sel != nil {
		b.commitSelection()
	}
	if b.box != nil {
		b.ConfirmText()
	}
	logging.Logger().Debug("tool changed", "from", b.tool, "to", t)
	b.tool = t
	b.redrawOverlay()
	return nil
}

// SetBrushColor sets the colour of subsequent strokes and text boxes.
func (b *Board) SetBrushColor(c color.Color) { b.brushColor = toNRGBA(c) }

// SetBrushSize sets the base stroke width. Non-positive sizes are ignored.
func (b *Board) SetBrushSize(size float64) {
	if size > 0 {
		b.brushSize = size
	}
}

// SetTheme replaces the overlay colours.
func (b *Board) SetTheme(t *theme.Theme) {
	if t != nil {
		b.theme = t
		b.redrawOverlay()
	}
}

// Press starts a gesture at p.
func (b *Board) Press(p Point) {
	if b.state.gesture() {
		logging.Logger().Debug("press ignored during gesture", "state", b.state)
		return
	}
	pt := p.Image()
	switch b.tool {
	case Select:
		b.pressSelect(pt)
	case Text:
		b.pressText(pt)
	case Pencil, AutoPen, Eraser, Shapes:
		b.beginStroke(p)
	}
	b.redrawOverlay()
}

// Move continues the active gesture.
func (b *Board) Move(p Point) {
	switch b.state {
	case FreehandDrawing:
		b.strokeTo(p)
		return
	case Selecting, DrawingTextBoxBounds:
		b.cursor = p.Image()
	case DraggingSelection:
		b.sel.MoveTo(p.Image().Sub(b.dragOffset))
		b.recomposite()
	case ResizingSelection:
		b.sel.Bounds = b.sel.Bounds.Resize(b.handle, p.Image())
		b.recomposite()
	default:
		return
	}
	b.redrawOverlay()
}

// Release ends the active gesture.
func (b *Board) Release() {
	switch b.state {
	case FreehandDrawing:
		b.endStroke()
	case Selecting:
		b.state = Idle
		b.cut(selection.FromPoints(b.anchor, b.cursor))
	case DraggingSelection, ResizingSelection:
		b.state = Idle
		b.commitSelection()
	case DrawingTextBoxBounds:
		b.state = Idle
		if box, ok := textbox.FromDrag(b.anchor, b.cursor, b.brushColor, b.brushSize); ok {
			b.box = box
			b.state = EditingTextBox
			logging.Logger().Debug("text box created", "rect", box.Rect())
		}
	default:
		return
	}
	b.redrawOverlay()
}

// Key applies a key action. It reports whether the key was consumed.
func (b *Board) Key(k KeyEvent) bool {
	if b.state == EditingTextBox && b.box != nil {
		switch k.Code {
		case KeyRune:
			b.box.Insert(string(k.Rune))
		case KeyEnter:
			b.box.Insert("\n")
		case KeyBackspace:
			b.box.Backspace()
		case KeyConfirm:
			b.ConfirmText()
		case KeyCancel:
			b.CancelText()
		default:
			return false
		}
		b.redrawOverlay()
		return true
	}
	if b.sel != nil && !b.state.gesture() && (k.Code == KeyCancel || k.Code == KeyConfirm) {
		b.commitSelection()
		b.redrawOverlay()
		return true
	}
	return false
}

// Render draws the page and its overlay onto dst at `at`.
func (b *Board) Render(dst draw.Image, at image.Point) {
	b.surface.DrawTo(dst, at)
	b.overlay.DrawTo(dst, at)
}

// push records the surface as a new history entry.
func (b *Board) push() error {
	data, err := b.surface.Encode()
	if err != nil {
		logging.Logger().Warn("snapshot failed", "err", err)
		return err
	}
	b.history.Push(data)
	b.recorded = true
	return nil
}

// pushLogged records a snapshot after a gesture, where no caller can act on
// the error.
func (b *Board) pushLogged() {
	_ = b.push()
}

// checkpoint records the surface if it has changed since the last entry.
func (b *Board) checkpoint() error {
	if b.recorded {
		return nil
	}
	return b.push()
}

// settle finishes whatever is in progress so that the surface can be
// replaced wholesale. The text box survives.
func (b *Board) settle() {
	switch b.state {
	case FreehandDrawing:
		b.endStroke()
	case Selecting, DraggingSelection, ResizingSelection, DrawingTextBoxBounds:
		b.state = Idle
	}
	if b.sel != nil {
		b.commitSelection()
	}
}

func toNRGBA(c color.Color) color.NRGBA {
	if c == nil {
		return color.NRGBA{A: 255}
	}
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}
