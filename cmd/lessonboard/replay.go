package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/example/lessonboard/internal/board"
	"github.com/example/lessonboard/internal/dictation"
	"github.com/example/lessonboard/internal/theme"
)

// replayCmd runs a drawing script against a headless page.
type replayCmd struct {
	*root
	fs *flag.FlagSet

	script     string
	output     string
	save       bool
	page       int
	width      int
	height     int
	background string
	brushColor string
	brushSize  float64
	tool       string
	stdin      io.Reader
}

func (c *replayCmd) Program() string        { return c.root.subProgram("replay") }
func (c *replayCmd) FlagSet() *flag.FlagSet { return c.fs }

func parseReplayCmd(args []string, r *root) (*replayCmd, error) {
	fs := flag.NewFlagSet("replay", flag.ContinueOnError)
	c := &replayCmd{root: r, fs: fs, stdin: os.Stdin}
	fs.Usage = usageFunc(c)
	addPageFlags(fs, r.config, &c.width, &c.height, &c.background, &c.brushColor, &c.brushSize, &c.tool)
	fs.StringVar(&c.output, "o", "replay.png", "PNG file to write, - for stdout, empty to skip")
	fs.BoolVar(&c.save, "save", false, "also store the result as a page of the lesson")
	fs.IntVar(&c.page, "page", 1, "page number used with -save")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	switch fs.NArg() {
	case 0:
	case 1:
		c.script = fs.Arg(0)
	default:
		return nil, &UsageError{of: c}
	}
	if c.output == "" && !c.save {
		return nil, fmt.Errorf("nothing to do: give -o or -save")
	}
	if c.page < 1 {
		return nil, fmt.Errorf("invalid page %d", c.page)
	}
	return c, nil
}

func (c *replayCmd) Run() error {
	opts, err := boardOptions(c.width, c.height, c.background, c.brushColor, c.brushSize, c.tool, c.activeTheme)
	if err != nil {
		return err
	}
	b, err := board.New(opts...)
	if err != nil {
		return err
	}
	m, err := c.matcher()
	if err != nil {
		return err
	}

	in := c.stdin
	if c.script != "" && c.script != "-" {
		f, err := os.Open(c.script)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}
	if err := runScript(in, b, m); err != nil {
		return err
	}

	data, err := b.ExportImage()
	if err != nil {
		return err
	}
	switch c.output {
	case "":
	case "-":
		if _, err := c.stdout.Write(data); err != nil {
			return err
		}
	default:
		if err := os.WriteFile(c.output, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", c.output, err)
		}
		fmt.Fprintf(os.Stderr, "wrote %s\n", c.output)
	}
	if c.save {
		st, err := c.openStore()
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.SavePage(context.Background(), c.lesson, c.page-1, data); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "saved %s page %d\n", c.lesson, c.page)
	}
	return nil
}

var scriptKeys = map[string]board.KeyCode{
	"enter":     board.KeyEnter,
	"backspace": board.KeyBackspace,
	"confirm":   board.KeyConfirm,
	"cancel":    board.KeyCancel,
	"escape":    board.KeyCancel,
}

// runScript applies a drawing script to b, one command per line. Blank lines
// and lines starting with # are skipped. Transcripts given with "say" go
// through the same voice command matching as live dictation.
func runScript(in io.Reader, b *board.Board, m *dictation.Matcher) error {
	var failure error
	bridge := dictation.NewBridge(nil, b, dictation.WithMatcher(m), dictation.WithReporter(func(err error) { failure = err }))
	defer bridge.Close()

	scanner := bufio.NewScanner(in)
	n := 0
	for scanner.Scan() {
		n++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		rest := strings.TrimSpace(strings.TrimPrefix(line, fields[0]))
		failure = nil
		err := runLine(b, bridge, strings.ToLower(fields[0]), fields[1:], rest)
		if err == nil {
			err = failure
		}
		if err != nil {
			return fmt.Errorf("line %d: %w", n, err)
		}
	}
	return scanner.Err()
}

func runLine(b *board.Board, bridge *dictation.Bridge, cmd string, args []string, rest string) error {
	switch cmd {
	case "tool":
		if len(args) != 1 {
			return fmt.Errorf("tool wants a name")
		}
		t, err := board.ParseTool(args[0])
		if err != nil {
			return err
		}
		return b.SetTool(t)
	case "color":
		c, err := theme.ParseColor(rest)
		if err != nil {
			return err
		}
		b.SetBrushColor(c)
	case "size":
		v, err := floatArgs(args, 1)
		if err != nil {
			return err
		}
		if v[0] <= 0 {
			return fmt.Errorf("size must be positive")
		}
		b.SetBrushSize(v[0])
	case "press", "move":
		v, err := floatArgs(args, 2)
		if err != nil {
			return err
		}
		p := board.Point{X: v[0], Y: v[1]}
		if cmd == "press" {
			b.Press(p)
		} else {
			b.Move(p)
		}
	case "release":
		b.Release()
	case "drag":
		v, err := floatArgs(args, 4)
		if err != nil {
			return err
		}
		b.Press(board.Point{X: v[0], Y: v[1]})
		b.Move(board.Point{X: v[2], Y: v[3]})
		b.Release()
	case "type":
		for _, r := range rest {
			if !b.Key(board.KeyEvent{Code: board.KeyRune, Rune: r}) {
				return fmt.Errorf("no text box is being edited")
			}
		}
	case "key":
		if len(args) != 1 {
			return fmt.Errorf("key wants a name")
		}
		code, ok := scriptKeys[strings.ToLower(args[0])]
		if !ok {
			return fmt.Errorf("unknown key %q", args[0])
		}
		b.Key(board.KeyEvent{Code: code})
	case "say":
		bridge.Handle(dictation.Event{Kind: dictation.Final, Text: rest})
	case "undo":
		return b.Undo()
	case "redo":
		return b.Redo()
	case "clear":
		return b.Clear()
	case "load":
		data, err := os.ReadFile(rest)
		if err != nil {
			return err
		}
		return b.LoadImage(data)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}

func floatArgs(args []string, n int) ([]float64, error) {
	if len(args) != n {
		return nil, fmt.Errorf("want %d numbers, got %d", n, len(args))
	}
	out := make([]float64, n)
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", a)
		}
		out[i] = v
	}
	return out, nil
}
