package store

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"
	"time"
)

func openMemory(t *testing.T, opts ...Option) *Store {
	t.Helper()
	s, err := Open(Memory, opts...)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func pagePNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func TestSaveLoad(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)
	data := pagePNG(t, 4, 3, color.White)
	if err := s.SavePage(ctx, "algebra", 0, data); err != nil {
		t.Fatalf("SavePage: %v", err)
	}
	got, err := s.LoadPage(ctx, "algebra", 0)
	if err != nil {
		t.Fatalf("LoadPage: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("loaded bytes differ")
	}
	if _, err := s.LoadPage(ctx, "algebra", 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing page err = %v, want ErrNotFound", err)
	}
	if _, err := s.LoadPage(ctx, "geometry", 0); !errors.Is(err, ErrNotFound) {
		t.Fatalf("other lesson err = %v, want ErrNotFound", err)
	}
}

func TestSaveReplaces(t *testing.T) {
	ctx := context.Background()
	now := time.UnixMilli(1_700_000_000_000)
	s := openMemory(t, WithClock(func() time.Time { return now }))
	if err := s.SavePage(ctx, "l", 2, pagePNG(t, 4, 4, color.White)); err != nil {
		t.Fatalf("SavePage: %v", err)
	}
	now = now.Add(time.Minute)
	second := pagePNG(t, 8, 2, color.Black)
	if err := s.SavePage(ctx, "l", 2, second); err != nil {
		t.Fatalf("SavePage: %v", err)
	}
	pages, err := s.ListPages(ctx, "l")
	if err != nil {
		t.Fatalf("ListPages: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("pages = %+v", pages)
	}
	p := pages[0]
	if p.Index != 2 || p.Width != 8 || p.Height != 2 || p.Size != len(second) || !p.UpdatedAt.Equal(now) {
		t.Fatalf("page = %+v", p)
	}
}

func TestSaveRejects(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)
	tests := []struct {
		name   string
		lesson string
		idx    int
		data   []byte
	}{
		{"empty lesson", "", 0, pagePNG(t, 1, 1, color.White)},
		{"negative index", "l", -1, pagePNG(t, 1, 1, color.White)},
		{"not an image", "l", 0, []byte("hello")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.SavePage(ctx, tt.lesson, tt.idx, tt.data); err == nil {
				t.Fatalf("SavePage succeeded")
			}
		})
	}
}

func TestListAndDelete(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)
	for _, p := range []struct {
		lesson string
		idx    int
	}{{"b", 1}, {"b", 0}, {"a", 3}} {
		if err := s.SavePage(ctx, p.lesson, p.idx, pagePNG(t, 2, 2, color.White)); err != nil {
			t.Fatalf("SavePage: %v", err)
		}
	}
	lessons, err := s.ListLessons(ctx)
	if err != nil {
		t.Fatalf("ListLessons: %v", err)
	}
	if len(lessons) != 2 || lessons[0] != "a" || lessons[1] != "b" {
		t.Fatalf("lessons = %q", lessons)
	}
	pages, err := s.ListPages(ctx, "b")
	if err != nil {
		t.Fatalf("ListPages: %v", err)
	}
	if len(pages) != 2 || pages[0].Index != 0 || pages[1].Index != 1 {
		t.Fatalf("pages = %+v", pages)
	}
	if err := s.DeletePage(ctx, "b", 0); err != nil {
		t.Fatalf("DeletePage: %v", err)
	}
	if err := s.DeletePage(ctx, "b", 0); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete err = %v", err)
	}
	if pages, _ := s.ListPages(ctx, "b"); len(pages) != 1 {
		t.Fatalf("pages after delete = %+v", pages)
	}
	if pages, _ := s.ListPages(ctx, "none"); len(pages) != 0 {
		t.Fatalf("unknown lesson pages = %+v", pages)
	}
}

func TestOpenFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "pages.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	data := pagePNG(t, 3, 3, color.White)
	if err := s.SavePage(ctx, "l", 0, data); err != nil {
		t.Fatalf("SavePage: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	got, err := s.LoadPage(ctx, "l", 0)
	if err != nil || !bytes.Equal(got, data) {
		t.Fatalf("LoadPage after reopen = %d bytes, %v", len(got), err)
	}
}
