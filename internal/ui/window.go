package ui

import (
	"context"
	"fmt"
	"image"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"
	"golang.org/x/mobile/event/touch"

	"github.com/example/lessonboard/internal/dictation"
	"github.com/example/lessonboard/internal/logging"
)

// Run opens the window and processes events until it is closed or the user
// quits. The active page is saved on the way out.
func Run(ctx context.Context, c *Controller) error {
	var runErr error
	driver.Main(func(s screen.Screen) {
		runErr = run(ctx, s, c)
	})
	return runErr
}

func run(ctx context.Context, s screen.Screen, c *Controller) error {
	page := c.Board().Size()
	w, err := s.NewWindow(&screen.NewWindowOptions{
		Width:  page.X,
		Height: page.Y + StatusHeight,
		Title:  c.Title(),
	})
	if err != nil {
		return fmt.Errorf("new window: %w", err)
	}
	defer w.Release()

	done := make(chan struct{})
	defer close(done)
	if inbox := c.Inbox(); inbox != nil {
		go func() {
			for {
				select {
				case ev := <-inbox:
					w.Send(ev)
				case <-done:
					return
				case <-ctx.Done():
					return
				}
			}
		}()
	}
	go func() {
		select {
		case <-ctx.Done():
			w.Send(lifecycle.Event{To: lifecycle.StageDead})
		case <-done:
		}
	}()

	var buf screen.Buffer
	defer func() {
		if buf != nil {
			buf.Release()
		}
	}()
	win := image.Pt(page.X, page.Y+StatusHeight)
	c.Layout(win)

	for {
		switch e := w.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				return c.Close(context.WithoutCancel(ctx))
			}
		case size.Event:
			win = e.Size()
			c.Layout(win)
			w.Send(paint.Event{})
		case paint.Event:
			if win.X <= 0 || win.Y <= 0 {
				continue
			}
			if buf == nil || buf.Size() != win {
				if buf != nil {
					buf.Release()
				}
				if buf, err = s.NewBuffer(win); err != nil {
					return fmt.Errorf("new buffer: %w", err)
				}
			}
			c.Draw(buf.RGBA())
			w.Upload(image.Point{}, buf, buf.Bounds())
			w.Publish()
		case mouse.Event:
			if c.Mouse(e) {
				w.Send(paint.Event{})
			}
		case touch.Event:
			if c.Touch(e) {
				w.Send(paint.Event{})
			}
		case key.Event:
			if c.HandleKey(ctx, e) {
				w.Send(paint.Event{})
			}
			if c.Quit() {
				return nil
			}
		case dictation.Event:
			c.HandleDictation(e)
			w.Send(paint.Event{})
		case error:
			logging.Logger().Warn("window event error", "err", e)
		}
	}
}
