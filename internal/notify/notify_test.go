package notify

import (
	"errors"
	"image"
	"os"
	"strings"
	"testing"

	"github.com/example/lessonboard/internal/platform"
)

type sent struct {
	title, body string
	opts        platform.Options
	iconExisted bool
}

func capture(n *Notifier) *[]sent {
	var out []sent
	n.SetSender(func(title, body string, opts platform.Options) error {
		s := sent{title: title, body: body, opts: opts}
		if opts.IconPath != "" {
			_, err := os.Stat(opts.IconPath)
			s.iconExisted = err == nil
		}
		out = append(out, s)
		return nil
	})
	return &out
}

func TestDisabledByDefault(t *testing.T) {
	n := New(DefaultPreferences())
	got := capture(n)
	n.Copy("page 1")
	n.Dictation(errors.New("no microphone"))
	n.Export("page.png", nil)
	if len(*got) != 0 {
		t.Fatalf("sent %d notifications while disabled", len(*got))
	}
}

func TestEnabledEvents(t *testing.T) {
	n := New(DefaultPreferences())
	got := capture(n)
	n.Enable(EventCopy, true)
	n.Enable(EventDictation, true)
	n.Copy("")
	n.Dictation(errors.New("service gone"))
	n.Dictation(nil)
	if len(*got) != 2 {
		t.Fatalf("sent = %+v", *got)
	}
	if (*got)[0].body != "Copied page to clipboard" || (*got)[0].title != "Lessonboard" {
		t.Errorf("copy = %+v", (*got)[0])
	}
	if (*got)[1].body != "Dictation: service gone" || !(*got)[1].opts.Urgent {
		t.Errorf("dictation = %+v", (*got)[1])
	}
	if (*got)[0].opts.Urgent {
		t.Errorf("copy should not be urgent")
	}
}

func TestExportPreview(t *testing.T) {
	n := New(DefaultPreferences())
	got := capture(n)
	n.Enable(EventExport, true)
	n.Export("page.png", image.NewNRGBA(image.Rect(0, 0, 2, 2)))
	if len(*got) != 1 {
		t.Fatalf("sent = %+v", *got)
	}
	s := (*got)[0]
	if !strings.HasPrefix(s.body, "Saved ") || !strings.HasSuffix(s.body, "page.png") {
		t.Errorf("body = %q", s.body)
	}
	if !s.iconExisted {
		t.Errorf("preview icon missing during send")
	}
	if _, err := os.Stat(s.opts.IconPath); !os.IsNotExist(err) {
		t.Errorf("preview not removed: %v", err)
	}
}

func TestLoadPreferences(t *testing.T) {
	t.Setenv("LESSONBOARD_NOTIFY_TITLE", "Ders")
	t.Setenv("LESSONBOARD_NOTIFY_COPY_TEXT", "Kopyalandı: %s")
	prefs := LoadPreferences()
	if prefs.Title != "Ders" || prefs.Events[EventCopy].Template != "Kopyalandı: %s" {
		t.Fatalf("prefs = %+v", prefs)
	}
	if prefs.Events[EventExport].Template != "Saved %s" {
		t.Fatalf("export template changed: %+v", prefs.Events[EventExport])
	}
}

func TestNilNotifier(t *testing.T) {
	var n *Notifier
	n.Enable(EventCopy, true)
	n.Copy("x")
	n.Dictation(errors.New("x"))
}
