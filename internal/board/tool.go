package board

import (
	"fmt"
	"strings"
)

// Tool is the active drawing tool.
type Tool int

const (
	Select Tool = iota
	Pencil
	AutoPen
	Eraser
	Text
	Shapes
)

var toolNames = [...]string{"select", "pencil", "auto-pen", "eraser", "text", "shapes"}

func (t Tool) String() string {
	if t < Select || t > Shapes {
		return fmt.Sprintf("Tool(%d)", int(t))
	}
	return toolNames[t]
}

// Tools returns every tool in declaration order.
func Tools() []Tool {
	return []Tool{Select, Pencil, AutoPen, Eraser, Text, Shapes}
}

// ParseTool maps a tool name to its Tool. Names are matched
// case-insensitively and "autopen" is accepted for "auto-pen".
func ParseTool(name string) (Tool, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "autopen" || n == "auto_pen" {
		n = "auto-pen"
	}
	for i, s := range toolNames {
		if s == n {
			return Tool(i), nil
		}
	}
	return 0, fmt.Errorf("unknown tool %q", name)
}

// freehand reports whether the tool paints strokes.
func (t Tool) freehand() bool {
	switch t {
	case Pencil, AutoPen, Eraser, Shapes:
		return true
	}
	return false
}

// State is the exclusive interaction mode of a Board.
type State int

const (
	Idle State = iota
	FreehandDrawing
	Selecting
	DraggingSelection
	ResizingSelection
	DrawingTextBoxBounds
	EditingTextBox
)

var stateNames = [...]string{
	"idle", "freehand", "selecting", "dragging-selection",
	"resizing-selection", "drawing-text-box", "editing-text-box",
}

func (s State) String() string {
	if s < Idle || s > EditingTextBox {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// gesture reports whether a pointer is held down.
func (s State) gesture() bool {
	return s != Idle && s != EditingTextBox
}

// KeyCode classifies a key action.
type KeyCode int

const (
	KeyRune KeyCode = iota
	KeyEnter
	KeyBackspace
	KeyConfirm
	KeyCancel
)

// KeyEvent is a normalised key action.
type KeyEvent struct {
	Code KeyCode
	Rune rune
}
