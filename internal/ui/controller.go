// Package ui hosts a lesson in a shiny window. The Controller holds
// everything the window does apart from talking to the screen, so the
// behaviour behind each shortcut can be driven from tests.
package ui

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/touch"

	"github.com/example/lessonboard/internal/board"
	"github.com/example/lessonboard/internal/capture"
	"github.com/example/lessonboard/internal/clipboard"
	"github.com/example/lessonboard/internal/dictation"
	"github.com/example/lessonboard/internal/input"
	"github.com/example/lessonboard/internal/logging"
	"github.com/example/lessonboard/internal/notify"
	"github.com/example/lessonboard/internal/pages"
	"github.com/example/lessonboard/internal/raster"
	"github.com/example/lessonboard/internal/theme"
)

// StatusHeight is the height of the status bar below the page.
const StatusHeight = 24

const messageDuration = 2 * time.Second

// Controller connects a lesson's pages to window input.
type Controller struct {
	book     *pages.Book
	router   *input.Router
	bridge   *dictation.Bridge
	notifier *notify.Notifier
	keymap   Keymap
	theme    *theme.Theme

	exportDir string
	canvas    image.Rectangle
	zoom      float64
	scratch   *image.NRGBA

	message      string
	messageUntil time.Time
	now          func() time.Time
	quit         bool

	copyPNG  func([]byte) error
	pastePNG func() ([]byte, error)
	capture  func(context.Context) (*image.NRGBA, error)
}

// Option configures a Controller.
type Option func(*Controller)

// WithBridge routes dictation through b.
func WithBridge(b *dictation.Bridge) Option { return func(c *Controller) { c.bridge = b } }

// WithNotifier sets the desktop notifier.
func WithNotifier(n *notify.Notifier) Option { return func(c *Controller) { c.notifier = n } }

// WithKeymap replaces the default shortcuts.
func WithKeymap(m Keymap) Option { return func(c *Controller) { c.keymap = m } }

// WithTheme sets the window colours.
func WithTheme(t *theme.Theme) Option {
	return func(c *Controller) {
		if t != nil {
			c.theme = t
		}
	}
}

// WithExportDir sets where exported pages are written.
func WithExportDir(dir string) Option { return func(c *Controller) { c.exportDir = dir } }

// WithClock sets the clock used for status messages.
func WithClock(now func() time.Time) Option { return func(c *Controller) { c.now = now } }

// WithClipboard replaces the system clipboard.
func WithClipboard(write func([]byte) error, read func() ([]byte, error)) Option {
	return func(c *Controller) { c.copyPNG, c.pastePNG = write, read }
}

// WithCapture replaces the desktop capture.
func WithCapture(fn func(context.Context) (*image.NRGBA, error)) Option {
	return func(c *Controller) { c.capture = fn }
}

// NewController creates a controller for the active page of book.
func NewController(book *pages.Book, opts ...Option) *Controller {
	c := &Controller{
		book:      book,
		keymap:    DefaultKeymap(),
		theme:     theme.Default(),
		exportDir: ".",
		zoom:      1,
		now:       time.Now,
		copyPNG:   clipboard.WritePNG,
		pastePNG:  clipboard.ReadPNG,
		capture: func(ctx context.Context) (*image.NRGBA, error) {
			return capture.Screen(ctx, capture.Options{})
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.router = input.NewRouter(nil)
	c.attach(book.Current())
	return c
}

// Board returns the active page.
func (c *Controller) Board() *board.Board { return c.book.Current() }

// Title returns the window title.
func (c *Controller) Title() string {
	return fmt.Sprintf("Lessonboard - %s (page %d)", c.book.Lesson(), c.book.Index()+1)
}

// Quit reports whether the user asked to close the window.
func (c *Controller) Quit() bool { return c.quit }

// Inbox returns the dictation inbox, or nil without dictation.
func (c *Controller) Inbox() <-chan dictation.Event {
	if c.bridge == nil {
		return nil
	}
	return c.bridge.Inbox()
}

func (c *Controller) attach(b *board.Board) {
	c.router.SetTarget(b)
	if c.bridge != nil {
		c.bridge.SetTarget(b)
		b.SetDictation(c.bridge)
	}
}

// Layout fits the page into a window of the given size, leaving room for
// the status bar, and returns the canvas rectangle.
func (c *Controller) Layout(win image.Point) image.Rectangle {
	page := c.Board().Size()
	area := image.Pt(win.X, win.Y-StatusHeight)
	if area.X <= 0 || area.Y <= 0 || page.X <= 0 || page.Y <= 0 {
		c.canvas, c.zoom = image.Rectangle{}, 1
		c.router.SetView(image.Point{}, 1)
		return c.canvas
	}
	zoom := float64(area.X) / float64(page.X)
	if z := float64(area.Y) / float64(page.Y); z < zoom {
		zoom = z
	}
	size := image.Pt(int(float64(page.X)*zoom), int(float64(page.Y)*zoom))
	origin := image.Pt((area.X-size.X)/2, (area.Y-size.Y)/2)
	c.canvas = image.Rectangle{Min: origin, Max: origin.Add(size)}
	c.zoom = zoom
	c.router.SetView(origin, zoom)
	return c.canvas
}

// Canvas returns the rectangle the page occupies in the window.
func (c *Controller) Canvas() image.Rectangle { return c.canvas }

// Mouse routes a mouse event. It reports whether a repaint is needed.
func (c *Controller) Mouse(e mouse.Event) bool { return c.router.Mouse(e) }

// Touch routes a touch event. It reports whether a repaint is needed.
func (c *Controller) Touch(e touch.Event) bool { return c.router.Touch(e) }

// HandleKey applies a key event. While a text box is being edited the board
// sees the key first; otherwise shortcuts win. It reports whether anything
// happened.
func (c *Controller) HandleKey(ctx context.Context, e key.Event) bool {
	if e.Direction == key.DirRelease {
		return false
	}
	if c.Board().State() == board.EditingTextBox && c.router.Key(e) {
		return true
	}
	if action, ok := c.keymap.Lookup(e); ok {
		if err := c.Do(ctx, action); err != nil {
			c.fail(action, err)
		}
		return true
	}
	return c.router.Key(e)
}

// HandleDictation applies an event drained from the dictation inbox.
func (c *Controller) HandleDictation(ev dictation.Event) {
	if c.bridge != nil {
		c.bridge.Handle(ev)
	}
}

// ReportDictation shows a dictation failure.
func (c *Controller) ReportDictation(err error) {
	if err == nil {
		return
	}
	c.flash("dictation: " + err.Error())
	c.notifier.Dictation(err)
}

// Do runs an action on the active page.
func (c *Controller) Do(ctx context.Context, a Action) error {
	b := c.Board()
	switch a {
	case ActionUndo:
		return b.Undo()
	case ActionRedo:
		return b.Redo()
	case ActionClear:
		return b.Clear()
	case ActionExport:
		return c.export(b)
	case ActionCopy:
		data, err := b.ExportImage()
		if err != nil {
			return err
		}
		if err := c.copyPNG(data); err != nil {
			return err
		}
		c.flash("page copied to clipboard")
		c.notifier.Copy(fmt.Sprintf("page %d", c.book.Index()+1))
		return nil
	case ActionPaste:
		data, err := c.pastePNG()
		if err != nil {
			return err
		}
		return b.LoadImage(data)
	case ActionCapture:
		img, err := c.capture(ctx)
		if err != nil {
			return err
		}
		data, err := raster.Encode(img)
		if err != nil {
			return err
		}
		return b.LoadImage(data)
	case ActionDictation:
		if c.bridge == nil {
			c.flash("dictation is disabled")
			return nil
		}
		c.bridge.Toggle()
		return nil
	case ActionNextPage:
		return c.switchPage(ctx, c.book.Index()+1)
	case ActionPrevPage:
		if c.book.Index() == 0 {
			return nil
		}
		return c.switchPage(ctx, c.book.Index()-1)
	case ActionBrushUp:
		b.SetBrushSize(b.BrushSize() + 1)
		return nil
	case ActionBrushDown:
		if b.BrushSize() > 1 {
			b.SetBrushSize(b.BrushSize() - 1)
		}
		return nil
	case ActionQuit:
		c.quit = true
		return c.book.Flush(ctx)
	}
	if name, ok := toolActions[a]; ok {
		t, err := board.ParseTool(name)
		if err != nil {
			return err
		}
		return b.SetTool(t)
	}
	return fmt.Errorf("unknown action %q", a)
}

func (c *Controller) export(b *board.Board) error {
	data, err := b.ExportImage()
	if err != nil {
		return err
	}
	name := fmt.Sprintf("%s-page-%d.png", c.book.Lesson(), c.book.Index()+1)
	path := filepath.Join(c.exportDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	c.flash("saved " + name)
	var preview image.Image
	if img, err := raster.Decode(data); err == nil {
		preview = img
	}
	c.notifier.Export(path, preview)
	return nil
}

func (c *Controller) switchPage(ctx context.Context, n int) error {
	c.router.Settle()
	b, err := c.book.Switch(ctx, n)
	if err != nil {
		return err
	}
	c.attach(b)
	c.flash(fmt.Sprintf("page %d", n+1))
	return nil
}

// Close saves the active page.
func (c *Controller) Close(ctx context.Context) error {
	if err := c.book.Flush(ctx); err != nil {
		return fmt.Errorf("save page: %w", err)
	}
	return nil
}

func (c *Controller) fail(a Action, err error) {
	logging.Logger().Warn("action failed", "action", a, "err", err)
	if errors.Is(err, board.ErrBusy) {
		c.flash("finish the current stroke first")
		return
	}
	c.flash(fmt.Sprintf("%s: %v", a, err))
}

func (c *Controller) flash(msg string) {
	c.message = msg
	c.messageUntil = c.now().Add(messageDuration)
}

// Status describes what the status bar shows.
type Status struct {
	Lesson     string
	Page       int
	Tool       board.Tool
	BrushSize  float64
	BrushColor color.NRGBA
	Listening  bool
	Message    string
}

// Status returns the current status bar contents.
func (c *Controller) Status() Status {
	b := c.Board()
	st := Status{
		Lesson:     c.book.Lesson(),
		Page:       c.book.Index() + 1,
		Tool:       b.Tool(),
		BrushSize:  b.BrushSize(),
		BrushColor: b.BrushColor(),
		Listening:  b.Listening(),
	}
	if c.message != "" && c.now().Before(c.messageUntil) {
		st.Message = c.message
	}
	return st
}
