package main

import (
	"context"
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"
	"os/signal"

	"github.com/example/lessonboard/internal/board"
	"github.com/example/lessonboard/internal/config"
	"github.com/example/lessonboard/internal/dictation"
	"github.com/example/lessonboard/internal/pages"
	"github.com/example/lessonboard/internal/theme"
	"github.com/example/lessonboard/internal/ui"
)

// boardCmd opens the lesson in a window.
type boardCmd struct {
	*root
	fs *flag.FlagSet

	page       int
	width      int
	height     int
	background string
	brushColor string
	brushSize  float64
	tool       string
	exportDir  string
	dictation  bool
	busName    string
	objectPath string
}

func (b *boardCmd) Program() string        { return b.root.subProgram("board") }
func (b *boardCmd) FlagSet() *flag.FlagSet { return b.fs }

func parseBoardCmd(args []string, r *root) (*boardCmd, error) {
	cfg := r.config
	fs := flag.NewFlagSet("board", flag.ContinueOnError)
	b := &boardCmd{root: r, fs: fs}
	fs.Usage = usageFunc(b)
	addPageFlags(fs, cfg, &b.width, &b.height, &b.background, &b.brushColor, &b.brushSize, &b.tool)
	fs.IntVar(&b.page, "page", 1, "page to open first")
	fs.StringVar(&b.exportDir, "export-dir", ".", "directory for Ctrl+S exports")
	fs.BoolVar(&b.dictation, "dictation", cfg.Dictation.Enabled, "connect to the speech service on the session bus")
	fs.StringVar(&b.busName, "bus-name", cfg.Dictation.BusName, "speech service bus name")
	fs.StringVar(&b.objectPath, "object-path", cfg.Dictation.ObjectPath, "speech service object path")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 || b.page < 1 {
		return nil, &UsageError{of: b}
	}
	return b, nil
}

// addPageFlags registers the page geometry and brush flags shared by board
// and replay, with defaults from cfg.
func addPageFlags(fs *flag.FlagSet, cfg *config.Config, width, height *int, background, brushColor *string, brushSize *float64, tool *string) {
	fs.IntVar(width, "width", cfg.Board.Width, "page width in pixels")
	fs.IntVar(height, "height", cfg.Board.Height, "page height in pixels")
	fs.StringVar(background, "background", theme.Hex(cfg.Board.Background), "page background color")
	fs.StringVar(brushColor, "color", theme.Hex(cfg.Brush.Color), "brush color")
	fs.Float64Var(brushSize, "size", cfg.Brush.Size, "brush size in pixels")
	fs.StringVar(tool, "tool", board.Pencil.String(), "initial tool")
}

// boardOptions turns the page flags into board options.
func boardOptions(width, height int, background, brushColor string, brushSize float64, tool string, th *theme.Theme) ([]board.Option, error) {
	bg, err := theme.ParseColor(background)
	if err != nil {
		return nil, fmt.Errorf("background: %w", err)
	}
	var brush color.RGBA
	if brush, err = theme.ParseColor(brushColor); err != nil {
		return nil, fmt.Errorf("color: %w", err)
	}
	t, err := board.ParseTool(tool)
	if err != nil {
		return nil, err
	}
	return []board.Option{
		board.WithSize(width, height),
		board.WithBackground(bg),
		board.WithBrush(brush, brushSize),
		board.WithTool(t),
		board.WithTheme(th),
	}, nil
}

func (b *boardCmd) Run() error {
	opts, err := boardOptions(b.width, b.height, b.background, b.brushColor, b.brushSize, b.tool, b.activeTheme)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	st, err := b.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	book, err := pages.NewBook(ctx, b.lesson, st, func() (*board.Board, error) { return board.New(opts...) })
	if err != nil {
		return err
	}
	if b.page > 1 {
		if _, err := book.Switch(ctx, b.page-1); err != nil {
			return err
		}
	}

	var ctl *ui.Controller
	ctlOpts := []ui.Option{
		ui.WithNotifier(b.notifier),
		ui.WithTheme(b.activeTheme),
		ui.WithExportDir(b.exportDir),
	}
	if b.dictation {
		bridge, closeSpeech, err := b.connectDictation(func(err error) { ctl.ReportDictation(err) })
		if err != nil {
			log.Printf("dictation unavailable: %v", err)
		} else {
			defer closeSpeech()
			bridge.Attach(ctx)
			ctlOpts = append(ctlOpts, ui.WithBridge(bridge))
		}
	}
	ctl = ui.NewController(book, ctlOpts...)
	return ui.Run(ctx, ctl)
}

// connectDictation dials the speech service and builds a bridge for it.
// The returned function closes both.
func (b *boardCmd) connectDictation(report dictation.Reporter) (*dictation.Bridge, func(), error) {
	m, err := b.matcher()
	if err != nil {
		return nil, nil, err
	}
	speech, err := dictation.DialDBus(b.busName, b.objectPath)
	if err != nil {
		return nil, nil, err
	}
	bridge := dictation.NewBridge(speech, nil, dictation.WithMatcher(m), dictation.WithReporter(report))
	return bridge, func() {
		bridge.Close()
		if err := speech.Close(); err != nil {
			log.Printf("close speech service: %v", err)
		}
	}, nil
}
