package dictation

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

const (
	ActionClearCanvas = "canvas-clear"
	ActionToolChange  = "tool-change"
)

// Command is a voice command payload.
type Command struct {
	Action string
	Tool   string
	Color  string
}

func (c Command) String() string {
	return strings.Join(strings.Fields(strings.Join([]string{c.Action, c.Tool, c.Color}, " ")), " ")
}

// ParseCommand reads the textual form "canvas-clear" or
// "tool-change <tool> [#color]".
func ParseCommand(s string) (Command, error) {
	f := strings.Fields(s)
	if len(f) == 0 {
		return Command{}, fmt.Errorf("empty voice command")
	}
	switch f[0] {
	case ActionClearCanvas:
		if len(f) != 1 {
			return Command{}, fmt.Errorf("%s takes no arguments", ActionClearCanvas)
		}
		return Command{Action: ActionClearCanvas}, nil
	case ActionToolChange:
		if len(f) < 2 || len(f) > 3 {
			return Command{}, fmt.Errorf("%s wants a tool and an optional colour", ActionToolChange)
		}
		c := Command{Action: ActionToolChange, Tool: f[1]}
		if len(f) == 3 {
			c.Color = f[2]
		}
		return c, nil
	}
	return Command{}, fmt.Errorf("unknown voice command %q", f[0])
}

// DefaultPhrases returns the built-in Turkish command phrases.
func DefaultPhrases() map[string]Command {
	red := Command{Action: ActionToolChange, Tool: "pencil", Color: "#FF0000"}
	clearCanvas := Command{Action: ActionClearCanvas}
	return map[string]Command{
		"kırmızı kalem": red,
		"kirmizi kalem": red,
		"mavi kalem":    {Action: ActionToolChange, Tool: "pencil", Color: "#0000FF"},
		"silgi":         {Action: ActionToolChange, Tool: "eraser"},
		"temizle":       clearCanvas,
		"sıfırla":       clearCanvas,
	}
}

// Matcher recognises command phrases in final transcripts. Matching is
// whole-utterance, whitespace-insensitive and uses Turkish case folding so
// that "KIRMIZI KALEM" matches "kırmızı kalem". A Matcher is not safe for
// concurrent use.
type Matcher struct {
	lower   cases.Caser
	phrases map[string]Command
}

// NewMatcher builds a matcher over phrases. A nil map selects
// DefaultPhrases.
func NewMatcher(phrases map[string]Command) *Matcher {
	if phrases == nil {
		phrases = DefaultPhrases()
	}
	m := &Matcher{lower: cases.Lower(language.Turkish), phrases: make(map[string]Command, len(phrases))}
	for p, c := range phrases {
		m.phrases[m.normalize(p)] = c
	}
	return m
}

// Match returns the command for text, if any.
func (m *Matcher) Match(text string) (Command, bool) {
	c, ok := m.phrases[m.normalize(text)]
	return c, ok
}

// Phrases returns the normalised phrases in sorted order.
func (m *Matcher) Phrases() []string {
	out := make([]string, 0, len(m.phrases))
	for p := range m.phrases {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func (m *Matcher) normalize(s string) string {
	s = norm.NFC.String(s)
	return strings.Join(strings.Fields(m.lower.String(s)), " ")
}
