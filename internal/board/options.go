package board

import (
	"image/color"

	"github.com/example/lessonboard/internal/history"
	"github.com/example/lessonboard/internal/theme"
)

const (
	DefaultWidth     = 800
	DefaultHeight    = 600
	DefaultBrushSize = 4
)

type settings struct {
	width, height int
	background    color.Color
	brushColor    color.Color
	brushSize     float64
	tool          Tool
	theme         *theme.Theme
	capacity      int
	dictation     DictationSession
}

func defaults() settings {
	return settings{
		width:      DefaultWidth,
		height:     DefaultHeight,
		background: color.White,
		brushColor: color.Black,
		brushSize:  DefaultBrushSize,
		tool:       Pencil,
		theme:      theme.Default(),
		capacity:   history.DefaultCapacity,
	}
}

// Option configures a Board.
type Option func(*settings)

// WithSize sets the page dimensions.
func WithSize(width, height int) Option {
	return func(s *settings) { s.width, s.height = width, height }
}

// WithBackground sets the colour used when clearing and cutting.
func WithBackground(c color.Color) Option { return func(s *settings) { s.background = c } }

// WithBrush sets the initial brush colour and size.
func WithBrush(c color.Color, size float64) Option {
	return func(s *settings) { s.brushColor, s.brushSize = c, size }
}

// WithTool sets the initial tool.
func WithTool(t Tool) Option { return func(s *settings) { s.tool = t } }

// WithTheme sets the overlay colours.
func WithTheme(t *theme.Theme) Option {
	return func(s *settings) {
		if t != nil {
			s.theme = t
		}
	}
}

// WithHistoryCapacity sets the number of snapshots kept for undo.
func WithHistoryCapacity(n int) Option { return func(s *settings) { s.capacity = n } }

// WithDictation attaches a dictation session that is stopped whenever the
// text box is committed or cancelled.
func WithDictation(d DictationSession) Option { return func(s *settings) { s.dictation = d } }
