package theme

import (
	"image/color"
	"strings"
)

// Theme defines the colours used for on-screen feedback. None of them are
// ever written into a page.
type Theme struct {
	Name string

	// Window
	Background color.RGBA // Behind the page when the window is larger
	StatusBar  color.RGBA
	StatusText color.RGBA
	Listening  color.RGBA // Dictation indicator

	// Selection
	MarqueeLight color.RGBA
	MarqueeDark  color.RGBA
	HandleFill   color.RGBA
	HandleBorder color.RGBA
	Shadow       color.RGBA

	// Text box preview
	TextBoxBorder color.RGBA
	TextBoxFill   color.RGBA
}

// Default returns the built-in light theme.
func Default() *Theme {
	return &Theme{
		Name:          "Default",
		Background:    color.RGBA{220, 220, 220, 255},
		StatusBar:     color.RGBA{235, 235, 235, 255},
		StatusText:    color.RGBA{0, 0, 0, 255},
		Listening:     color.RGBA{220, 40, 40, 255},
		MarqueeLight:  color.RGBA{255, 255, 255, 255},
		MarqueeDark:   color.RGBA{0, 0, 0, 255},
		HandleFill:    color.RGBA{255, 255, 255, 255},
		HandleBorder:  color.RGBA{0, 102, 255, 255},
		Shadow:        color.RGBA{0, 0, 0, 90},
		TextBoxBorder: color.RGBA{0, 102, 255, 255},
		TextBoxFill:   color.RGBA{0, 102, 255, 20},
	}
}

// Dark returns the built-in dark theme.
func Dark() *Theme {
	t := Default()
	t.Name = "Dark"
	t.Background = color.RGBA{40, 40, 44, 255}
	t.StatusBar = color.RGBA{28, 28, 30, 255}
	t.StatusText = color.RGBA{230, 230, 230, 255}
	t.HandleFill = color.RGBA{40, 40, 44, 255}
	t.HandleBorder = color.RGBA{120, 170, 255, 255}
	t.TextBoxBorder = color.RGBA{120, 170, 255, 255}
	t.TextBoxFill = color.RGBA{120, 170, 255, 24}
	return t
}

// Builtin returns the theme compiled in under name, matched
// case-insensitively.
func Builtin(name string) (*Theme, bool) {
	switch strings.ToLower(name) {
	case "default", "light":
		return Default(), true
	case "dark":
		return Dark(), true
	}
	return nil, false
}
