package ui

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/mobile/event/key"
)

// Action names a window command.
type Action string

const (
	ActionUndo      Action = "undo"
	ActionRedo      Action = "redo"
	ActionClear     Action = "clear"
	ActionExport    Action = "export"
	ActionCopy      Action = "copy"
	ActionPaste     Action = "paste"
	ActionCapture   Action = "capture"
	ActionDictation Action = "dictation"
	ActionNextPage  Action = "next-page"
	ActionPrevPage  Action = "prev-page"
	ActionBrushUp   Action = "brush-up"
	ActionBrushDown Action = "brush-down"
	ActionQuit      Action = "quit"

	ActionToolSelect  Action = "tool-select"
	ActionToolPencil  Action = "tool-pencil"
	ActionToolAutoPen Action = "tool-auto-pen"
	ActionToolEraser  Action = "tool-eraser"
	ActionToolText    Action = "tool-text"
	ActionToolShapes  Action = "tool-shapes"
)

// KeyShortcut describes a keyboard combination that triggers an action.
// Either Rune or Code identifies the key.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

func (k KeyShortcut) String() string {
	var parts []string
	for _, m := range []struct {
		mod  key.Modifiers
		name string
	}{{key.ModControl, "Ctrl"}, {key.ModMeta, "Meta"}, {key.ModAlt, "Alt"}, {key.ModShift, "Shift"}} {
		if k.Modifiers&m.mod != 0 {
			parts = append(parts, m.name)
		}
	}
	if k.Rune > 0 {
		parts = append(parts, strings.ToUpper(string(k.Rune)))
	} else {
		parts = append(parts, strings.TrimPrefix(k.Code.String(), "Code"))
	}
	return strings.Join(parts, "+")
}

// Keymap maps shortcuts to actions.
type Keymap map[KeyShortcut]Action

// DefaultKeymap returns the built-in bindings.
func DefaultKeymap() Keymap {
	m := Keymap{}
	register := func(a Action, keys ...KeyShortcut) {
		for _, k := range keys {
			m[k] = a
		}
	}
	// Some drivers report no rune while Control is held, so letter
	// chords are bound by code as well.
	chord := func(r rune, mods key.Modifiers) []KeyShortcut {
		return []KeyShortcut{
			{Rune: r, Modifiers: mods},
			{Code: key.CodeA + key.Code(r-'a'), Modifiers: mods},
		}
	}
	ctrl := func(r rune) []KeyShortcut { return chord(r, key.ModControl) }

	register(ActionUndo, ctrl('z')...)
	register(ActionRedo, append(ctrl('y'), chord('z', key.ModControl|key.ModShift)...)...)
	register(ActionClear, ctrl('l')...)
	register(ActionExport, ctrl('s')...)
	register(ActionCopy, ctrl('c')...)
	register(ActionPaste, ctrl('v')...)
	register(ActionCapture, ctrl('n')...)
	register(ActionDictation, ctrl('d')...)
	register(ActionQuit, ctrl('q')...)
	register(ActionNextPage, KeyShortcut{Code: key.CodePageDown})
	register(ActionPrevPage, KeyShortcut{Code: key.CodePageUp})
	register(ActionBrushUp, KeyShortcut{Rune: '+'}, KeyShortcut{Rune: '+', Modifiers: key.ModShift}, KeyShortcut{Rune: '='})
	register(ActionBrushDown, KeyShortcut{Rune: '-'})

	register(ActionToolSelect, KeyShortcut{Rune: 's'})
	register(ActionToolPencil, KeyShortcut{Rune: 'p'})
	register(ActionToolAutoPen, KeyShortcut{Rune: 'a'})
	register(ActionToolEraser, KeyShortcut{Rune: 'e'})
	register(ActionToolText, KeyShortcut{Rune: 't'})
	register(ActionToolShapes, KeyShortcut{Rune: 'h'})
	return m
}

// Lookup returns the action bound to a key press. The rune is matched
// case-insensitively; keys without a printable rune match on their code.
func (m Keymap) Lookup(e key.Event) (Action, bool) {
	if e.Direction == key.DirRelease {
		return "", false
	}
	if e.Rune > 0 {
		ks := KeyShortcut{Rune: unicode.ToLower(e.Rune), Modifiers: e.Modifiers}
		if a, ok := m[ks]; ok {
			return a, true
		}
	}
	a, ok := m[KeyShortcut{Code: e.Code, Modifiers: e.Modifiers}]
	return a, ok
}

// Bindings groups the shortcuts by action.
func (m Keymap) Bindings() map[Action][]KeyShortcut {
	out := make(map[Action][]KeyShortcut)
	for ks, a := range m {
		out[a] = append(out[a], ks)
	}
	for _, list := range out {
		sort.Slice(list, func(i, j int) bool {
			if list[i].Modifiers != list[j].Modifiers {
				return list[i].Modifiers < list[j].Modifiers
			}
			if list[i].Rune != list[j].Rune {
				return list[i].Rune < list[j].Rune
			}
			return list[i].Code < list[j].Code
		})
	}
	return out
}

// toolActions maps the tool actions to board tool names.
var toolActions = map[Action]string{
	ActionToolSelect:  "select",
	ActionToolPencil:  "pencil",
	ActionToolAutoPen: "auto-pen",
	ActionToolEraser:  "eraser",
	ActionToolText:    "text",
	ActionToolShapes:  "shapes",
}
