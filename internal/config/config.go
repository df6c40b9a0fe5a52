package config

import (
	"fmt"
	"image/color"
	"sort"
	"strconv"
	"strings"

	"github.com/example/lessonboard/internal/theme"
)

// Defaults.
const (
	DefaultLesson     = "default"
	DefaultWidth      = 800
	DefaultHeight     = 600
	DefaultBrushSize  = 4
	DefaultServerAddr = ":8080"
	DefaultBusName    = "org.lessonboard.Speech"
	DefaultObjectPath = "/org/lessonboard/Speech"
)

// Brush holds the initial pen settings.
type Brush struct {
	Color color.RGBA
	Size  float64
}

// Board holds the page geometry.
type Board struct {
	Width      int
	Height     int
	Background color.RGBA
}

// Dictation holds the speech service settings.
type Dictation struct {
	Enabled    bool
	BusName    string
	ObjectPath string
}

// Server holds the preview server settings.
type Server struct {
	Addr string
}

// Notify holds notification settings.
type Notify struct {
	Export    bool
	Copy      bool
	Dictation bool
}

// Config holds the application configuration.
type Config struct {
	Lesson    string
	Store     string
	Theme     string
	Brush     Brush
	Board     Board
	Dictation Dictation
	Server    Server
	Notify    Notify
	// Voice maps spoken phrases to commands such as "canvas-clear" or
	// "tool-change pencil #FF0000".
	Voice  map[string]string
	Themes map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Lesson: DefaultLesson,
		Brush:  Brush{Color: color.RGBA{A: 0xff}, Size: DefaultBrushSize},
		Board: Board{
			Width:      DefaultWidth,
			Height:     DefaultHeight,
			Background: color.RGBA{0xff, 0xff, 0xff, 0xff},
		},
		Dictation: Dictation{BusName: DefaultBusName, ObjectPath: DefaultObjectPath},
		Server:    Server{Addr: DefaultServerAddr},
		Notify:    Notify{Dictation: true},
		Voice:     make(map[string]string),
		Themes:    make(map[string]*theme.Theme),
	}
}

// Set assigns one key of a section. The root section is "". Theme sections
// are named "theme.<name>".
func (c *Config) Set(section, key, value string) error {
	section = strings.ToLower(section)
	if name, ok := strings.CutPrefix(section, "theme."); ok {
		t, ok := c.Themes[name]
		if !ok {
			t = theme.Default()
			t.Name = name
			c.Themes[name] = t
		}
		return theme.SetField(t, key, value)
	}
	if section == "voice" {
		c.Voice[strings.TrimSpace(key)] = value
		return nil
	}
	k := strings.ToLower(key)
	switch section {
	case "":
		switch k {
		case "lesson":
			c.Lesson = value
		case "store":
			c.Store = value
		case "theme":
			c.Theme = value
		}
	case "brush":
		switch k {
		case "color", "colour":
			return setColor(&c.Brush.Color, key, value)
		case "size":
			f, err := strconv.ParseFloat(value, 64)
			if err != nil || f <= 0 {
				return fmt.Errorf("invalid size %q", value)
			}
			c.Brush.Size = f
		}
	case "board":
		switch k {
		case "width":
			return setDimension(&c.Board.Width, key, value)
		case "height":
			return setDimension(&c.Board.Height, key, value)
		case "background":
			return setColor(&c.Board.Background, key, value)
		}
	case "dictation":
		switch k {
		case "enabled":
			return setBool(&c.Dictation.Enabled, key, value)
		case "bus_name":
			c.Dictation.BusName = value
		case "object_path":
			c.Dictation.ObjectPath = value
		}
	case "server":
		if k == "addr" {
			c.Server.Addr = value
		}
	case "notify":
		switch k {
		case "export":
			return setBool(&c.Notify.Export, key, value)
		case "copy":
			return setBool(&c.Notify.Copy, key, value)
		case "dictation":
			return setBool(&c.Notify.Dictation, key, value)
		}
	}
	return nil
}

func setColor(dst *color.RGBA, key, value string) error {
	c, err := theme.ParseColor(value)
	if err != nil {
		return fmt.Errorf("invalid colour for key %s: %w", key, err)
	}
	*dst = c
	return nil
}

func setBool(dst *bool, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	*dst = b
	return nil
}

func setDimension(dst *int, key, value string) error {
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return fmt.Errorf("invalid %s %q", key, value)
	}
	*dst = n
	return nil
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "lesson = %s\n", c.Lesson)
	if c.Store != "" {
		fmt.Fprintf(&sb, "store = %s\n", c.Store)
	}
	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	sb.WriteString("\n")

	sb.WriteString("[brush]\n")
	fmt.Fprintf(&sb, "color = %s\n", theme.Hex(c.Brush.Color))
	fmt.Fprintf(&sb, "size = %s\n", strconv.FormatFloat(c.Brush.Size, 'g', -1, 64))
	sb.WriteString("\n")

	sb.WriteString("[board]\n")
	fmt.Fprintf(&sb, "width = %d\n", c.Board.Width)
	fmt.Fprintf(&sb, "height = %d\n", c.Board.Height)
	fmt.Fprintf(&sb, "background = %s\n", theme.Hex(c.Board.Background))
	sb.WriteString("\n")

	sb.WriteString("[dictation]\n")
	fmt.Fprintf(&sb, "enabled = %v\n", c.Dictation.Enabled)
	fmt.Fprintf(&sb, "bus_name = %s\n", c.Dictation.BusName)
	fmt.Fprintf(&sb, "object_path = %s\n", c.Dictation.ObjectPath)
	sb.WriteString("\n")

	if len(c.Voice) > 0 {
		sb.WriteString("[voice]\n")
		for _, phrase := range sortedKeys(c.Voice) {
			fmt.Fprintf(&sb, "%s = %s\n", phrase, c.Voice[phrase])
		}
		sb.WriteString("\n")
	}

	sb.WriteString("[server]\n")
	fmt.Fprintf(&sb, "addr = %s\n", c.Server.Addr)
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "export = %v\n", c.Notify.Export)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	fmt.Fprintf(&sb, "dictation = %v\n", c.Notify.Dictation)
	sb.WriteString("\n")

	for _, name := range sortedKeys(c.Themes) {
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		for _, kv := range theme.Fields(c.Themes[name]) {
			fmt.Fprintf(&sb, "%s = %s\n", kv[0], kv[1])
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
