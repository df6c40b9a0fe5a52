// Package input turns window device events into board gestures and key
// actions in page coordinates.
package input

import (
	"image"
	"unicode"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/touch"

	"github.com/example/lessonboard/internal/board"
	"github.com/example/lessonboard/internal/logging"
)

// Target receives routed input. *board.Board implements it.
type Target interface {
	Press(board.Point)
	Move(board.Point)
	Release()
	Key(board.KeyEvent) bool
}

// Router maps window events onto a Target. It keeps the pointer state needed
// to pair presses with releases and must be used from one goroutine.
type Router struct {
	target Target
	origin image.Point
	zoom   float64

	pressed bool
	last    board.Point

	contacts map[touch.Sequence]bool
	primary  touch.Sequence
	touching bool
	blocked  bool
}

// NewRouter routes to t with the canvas at the window origin and zoom 1.
func NewRouter(t Target) *Router {
	return &Router{target: t, zoom: 1, contacts: make(map[touch.Sequence]bool)}
}

// SetTarget redirects input, for example after a page switch. A gesture
// still held on the old target is released first.
func (r *Router) SetTarget(t Target) {
	r.Settle()
	r.target = t
}

// Settle ends a press or touch that is still held, releasing it on the
// current target. It reports whether a gesture was ended.
func (r *Router) Settle() bool {
	held := r.pressed || r.touching
	r.pressed = false
	r.touching = false
	if !held || r.target == nil {
		return false
	}
	r.target.Release()
	return true
}

// SetView sets where the canvas is drawn in the window and its scale.
// Non-positive zoom is treated as 1.
func (r *Router) SetView(origin image.Point, zoom float64) {
	if zoom <= 0 {
		zoom = 1
	}
	r.origin = origin
	r.zoom = zoom
}

// ToSurface converts a window position to page coordinates.
func (r *Router) ToSurface(x, y float32) board.Point {
	return board.Point{
		X: (float64(x) - float64(r.origin.X)) / r.zoom,
		Y: (float64(y) - float64(r.origin.Y)) / r.zoom,
	}
}

// Mouse routes left-button gestures. It reports whether the target was
// called.
func (r *Router) Mouse(e mouse.Event) bool {
	if r.target == nil {
		return false
	}
	p := r.ToSurface(e.X, e.Y)
	switch e.Direction {
	case mouse.DirPress:
		if e.Button != mouse.ButtonLeft || r.pressed || r.touching {
			return false
		}
		r.pressed = true
		r.last = p
		r.target.Press(p)
		return true
	case mouse.DirNone:
		if !r.pressed || p == r.last {
			return false
		}
		r.last = p
		r.target.Move(p)
		return true
	case mouse.DirRelease:
		if e.Button != mouse.ButtonLeft || !r.pressed {
			return false
		}
		r.pressed = false
		if p != r.last {
			r.target.Move(p)
		}
		r.target.Release()
		return true
	}
	return false
}

// Touch routes a single contact. When a second contact begins the gesture
// in progress is released and further touches are ignored until every
// contact has ended.
func (r *Router) Touch(e touch.Event) bool {
	if r.target == nil {
		return false
	}
	p := r.ToSurface(e.X, e.Y)
	switch e.Type {
	case touch.TypeBegin:
		r.contacts[e.Sequence] = true
		if len(r.contacts) > 1 {
			if !r.blocked {
				logging.Logger().Debug("multi-touch ignored", "contacts", len(r.contacts))
			}
			r.blocked = true
			if r.touching {
				r.touching = false
				r.target.Release()
				return true
			}
			return false
		}
		if r.blocked || r.pressed {
			return false
		}
		r.touching = true
		r.primary = e.Sequence
		r.last = p
		r.target.Press(p)
		return true
	case touch.TypeMove:
		if !r.touching || e.Sequence != r.primary || p == r.last {
			return false
		}
		r.last = p
		r.target.Move(p)
		return true
	case touch.TypeEnd:
		delete(r.contacts, e.Sequence)
		if len(r.contacts) == 0 {
			r.blocked = false
		}
		if !r.touching || e.Sequence != r.primary {
			return false
		}
		r.touching = false
		if p != r.last {
			r.target.Move(p)
		}
		r.target.Release()
		return true
	}
	return false
}

// Key routes a key press. It reports whether the target consumed it.
func (r *Router) Key(e key.Event) bool {
	if r.target == nil {
		return false
	}
	k, ok := TranslateKey(e)
	if !ok {
		return false
	}
	return r.target.Key(k)
}

// TranslateKey maps a key press or repeat to a board key action.
func TranslateKey(e key.Event) (board.KeyEvent, bool) {
	if e.Direction == key.DirRelease {
		return board.KeyEvent{}, false
	}
	command := e.Modifiers&(key.ModControl|key.ModMeta) != 0
	switch e.Code {
	case key.CodeReturnEnter, key.CodeKeypadEnter:
		if command {
			return board.KeyEvent{Code: board.KeyConfirm}, true
		}
		return board.KeyEvent{Code: board.KeyEnter}, true
	case key.CodeEscape:
		return board.KeyEvent{Code: board.KeyCancel}, true
	case key.CodeDeleteBackspace:
		return board.KeyEvent{Code: board.KeyBackspace}, true
	}
	if command || e.Rune <= 0 || !unicode.IsPrint(e.Rune) {
		return board.KeyEvent{}, false
	}
	return board.KeyEvent{Code: board.KeyRune, Rune: e.Rune}, true
}
