package main

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/lessonboard/internal/board"
	"github.com/example/lessonboard/internal/dictation"
	"github.com/example/lessonboard/internal/raster"
)

func pixel(t *testing.T, b *board.Board, x, y int) color.NRGBA {
	t.Helper()
	data, err := b.ExportImage()
	if err != nil {
		t.Fatalf("ExportImage: %v", err)
	}
	img, err := raster.Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return img.NRGBAAt(x, y)
}

func newScriptBoard(t *testing.T) *board.Board {
	t.Helper()
	b, err := board.New(board.WithSize(40, 30), board.WithBrush(color.Black, 4))
	if err != nil {
		t.Fatalf("board.New: %v", err)
	}
	return b
}

func TestRunScriptDrawsAndObeysVoice(t *testing.T) {
	b := newScriptBoard(t)
	white := color.NRGBA{255, 255, 255, 255}
	script := `
# a horizontal line
color #FF0000
size 6
drag 5 15 35 15
`
	if err := runScript(strings.NewReader(script), b, dictation.NewMatcher(nil)); err != nil {
		t.Fatalf("runScript: %v", err)
	}
	if got := pixel(t, b, 20, 15); got.R < 200 || got.G > 60 {
		t.Fatalf("line pixel = %v, want red", got)
	}

	if err := runScript(strings.NewReader("say TEMİZLE\n"), b, dictation.NewMatcher(nil)); err != nil {
		t.Fatalf("runScript: %v", err)
	}
	if got := pixel(t, b, 20, 15); got != white {
		t.Fatalf("after voice clear pixel = %v, want white", got)
	}
	if err := runScript(strings.NewReader("undo\n"), b, nil); err != nil {
		t.Fatalf("runScript: %v", err)
	}
	if got := pixel(t, b, 20, 15); got == white {
		t.Fatalf("undo did not bring the line back")
	}
}

func TestRunScriptText(t *testing.T) {
	b := newScriptBoard(t)
	script := "tool text\ndrag 1 1 39 29\ntype hi there\nkey confirm\n"
	if err := runScript(strings.NewReader(script), b, nil); err != nil {
		t.Fatalf("runScript: %v", err)
	}
	if _, ok := b.TextBox(); ok {
		t.Fatalf("text box still open after confirm")
	}
	if cur, _ := b.HistoryPosition(); cur != 1 {
		t.Fatalf("history cursor = %d, want 1", cur)
	}
}

func TestRunScriptErrors(t *testing.T) {
	tests := []struct {
		script string
		want   string
	}{
		{"fly 1 2\n", `line 1: unknown command "fly"`},
		{"\n\npress 1\n", "line 3: want 2 numbers"},
		{"type hello\n", "no text box"},
		{"tool brush\n", "unknown tool"},
		{"size -2\n", "positive"},
		{"say kırmızı kalem\nsay silgi\n", ""},
	}
	for _, tt := range tests {
		err := runScript(strings.NewReader(tt.script), newScriptBoard(t), dictation.NewMatcher(nil))
		if tt.want == "" {
			if err != nil {
				t.Errorf("%q: unexpected error %v", tt.script, err)
			}
			continue
		}
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%q: error %v, want %q", tt.script, err, tt.want)
		}
	}
}

func TestReplaySaveThenExport(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "pages.db")
	script := filepath.Join(dir, "lesson.txt")
	if err := os.WriteFile(script, []byte("drag 2 2 30 20\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "out.png")

	r, _ := testRoot(t)
	args := []string{"-store", db, "-lesson", "geo", "replay", "-width", "40", "-height", "30", "-o", out, "-save", "-page", "2", script}
	if err := r.Run(args); err != nil {
		t.Fatalf("replay: %v", err)
	}
	written, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("replay output: %v", err)
	}

	r, listing := testRoot(t)
	if err := r.Run([]string{"-store", db, "pages", "geo"}); err != nil {
		t.Fatalf("pages: %v", err)
	}
	if !strings.Contains(listing.String(), "40x30") || !strings.Contains(listing.String(), "2 ") {
		t.Fatalf("pages listing:\n%s", listing.String())
	}

	exported := filepath.Join(dir, "exported")
	r, _ = testRoot(t)
	if err := r.Run([]string{"-store", db, "-lesson", "geo", "export", "-all", "-o", exported}); err != nil {
		t.Fatalf("export: %v", err)
	}
	got, err := os.ReadFile(filepath.Join(exported, "geo-page-2.png"))
	if err != nil {
		t.Fatalf("exported page: %v", err)
	}
	if string(got) != string(written) {
		t.Fatalf("exported page differs from replay output")
	}

	r, _ = testRoot(t)
	if err := r.Run([]string{"-store", db, "-lesson", "geo", "delete", "2"}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	r, _ = testRoot(t)
	if err := r.Run([]string{"-store", db, "-lesson", "geo", "export", "-page", "2"}); err == nil {
		t.Fatalf("export of a deleted page succeeded")
	}
}
