package board

import (
	"errors"
	"fmt"

	"github.com/example/lessonboard/internal/history"
	"github.com/example/lessonboard/internal/logging"
	"github.com/example/lessonboard/internal/raster"
	"github.com/example/lessonboard/internal/theme"
)

// Handle is the command surface a host uses on a page. The pixel buffer is
// never exposed; pages move in and out as PNG bytes.
type Handle interface {
	Undo() error
	Redo() error
	Clear() error
	ExportImage() ([]byte, error)
	LoadImage(data []byte) error
}

var _ Handle = (*Board)(nil)

// Undo restores the previous snapshot. At the oldest snapshot it does
// nothing. A snapshot that fails to decode leaves the page and the cursor
// unchanged.
func (b *Board) Undo() error {
	return b.step(b.history.Undo, history.ErrNothingToUndo, "undo")
}

// Redo restores the next snapshot. At the newest snapshot it does nothing.
func (b *Board) Redo() error {
	return b.step(b.history.Redo, history.ErrNothingToRedo, "redo")
}

func (b *Board) step(move func(func([]byte) error) error, none error, name string) error {
	b.settle()
	defer b.redrawOverlay()
	err := move(b.surface.Restore)
	switch {
	case errors.Is(err, none):
		return nil
	case err != nil:
		logging.Logger().Warn(name+" abandoned", "err", err)
		return fmt.Errorf("%s: %w", name, err)
	}
	b.recorded = true
	return nil
}

// Clear fills the page with the background colour. The state before the
// clear stays reachable with Undo.
func (b *Board) Clear() error {
	b.settle()
	defer b.redrawOverlay()
	if err := b.checkpoint(); err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	b.surface.Clear()
	b.recorded = false
	if err := b.push(); err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	return nil
}

// ClearCanvas clears the page on behalf of a voice command. The text box
// being edited is left alone.
func (b *Board) ClearCanvas() error {
	logging.Logger().Info("canvas cleared by voice command")
	return b.Clear()
}

// ChangeTool switches tool and, when col is not empty, brush colour on
// behalf of a voice command.
func (b *Board) ChangeTool(tool, col string) error {
	t, err := ParseTool(tool)
	if err != nil {
		return fmt.Errorf("change tool: %w", err)
	}
	if col != "" {
		c, err := theme.ParseColor(col)
		if err != nil {
			return fmt.Errorf("change tool: %w", err)
		}
		b.SetBrushColor(c)
	}
	if err := b.SetTool(t); err != nil {
		return fmt.Errorf("change tool: %w", err)
	}
	return nil
}

// ExportImage returns the page as PNG bytes. A floating selection is
// included at its current position.
func (b *Board) ExportImage() ([]byte, error) {
	data, err := b.surface.Encode()
	if err != nil {
		return nil, fmt.Errorf("export image: %w", err)
	}
	return data, nil
}

// LoadImage replaces the page with the PNG in data. The state before the
// load stays reachable with Undo. Undecodable data leaves everything
// unchanged.
func (b *Board) LoadImage(data []byte) error {
	img, err := raster.Decode(data)
	if err != nil {
		logging.Logger().Warn("load image abandoned", "err", err)
		return fmt.Errorf("load image: %w", err)
	}
	b.settle()
	defer b.redrawOverlay()
	if err := b.checkpoint(); err != nil {
		return fmt.Errorf("load image: %w", err)
	}
	b.surface.Replace(img)
	b.recorded = false
	if err := b.push(); err != nil {
		return fmt.Errorf("load image: %w", err)
	}
	return nil
}
