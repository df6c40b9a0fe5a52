package board

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/example/lessonboard/internal/raster"
)

var (
	white = color.NRGBA{255, 255, 255, 255}
	red   = color.NRGBA{255, 0, 0, 255}
)

func newBoard(t *testing.T, opts ...Option) *Board {
	t.Helper()
	b, err := New(opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return b
}

func export(t *testing.T, b *Board) []byte {
	t.Helper()
	data, err := b.ExportImage()
	if err != nil {
		t.Fatalf("ExportImage: %v", err)
	}
	return data
}

func pixels(t *testing.T, b *Board) *image.NRGBA {
	t.Helper()
	img, err := raster.Decode(export(t, b))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return img
}

func stroke(b *Board, pts ...Point) {
	b.Press(pts[0])
	for _, p := range pts[1:] {
		b.Move(p)
	}
	b.Release()
}

func drag(b *Board, from, to Point) {
	b.Press(from)
	b.Move(to)
	b.Release()
}

func isRed(c color.NRGBA) bool { return c.R > 200 && c.G < 60 && c.B < 60 && c.A > 200 }

func TestNewRecordsBlankState(t *testing.T) {
	b := newBoard(t)
	if got := b.Size(); got != image.Pt(DefaultWidth, DefaultHeight) {
		t.Fatalf("size = %v", got)
	}
	if cur, n := b.HistoryPosition(); cur != 0 || n != 1 {
		t.Fatalf("history = %d/%d, want 0/1", cur, n)
	}
	if b.Tool() != Pencil || b.State() != Idle {
		t.Fatalf("tool=%v state=%v", b.Tool(), b.State())
	}
}

func TestNewRejectsBadSize(t *testing.T) {
	if _, err := New(WithSize(0, 10)); !errors.Is(err, raster.ErrSize) {
		t.Fatalf("err = %v, want ErrSize", err)
	}
}

func TestRedStrokeScenario(t *testing.T) {
	b := newBoard(t, WithSize(800, 600), WithBackground(color.White), WithBrush(red, 10))
	blank := pixels(t, b)

	stroke(b, Point{X: 10, Y: 10}, Point{X: 100, Y: 100})
	img := pixels(t, b)
	for _, p := range []image.Point{{20, 20}, {55, 55}, {95, 95}} {
		if c := img.NRGBAAt(p.X, p.Y); !isRed(c) {
			t.Errorf("pixel %v = %+v, want red", p, c)
		}
	}
	for _, p := range []image.Point{{100, 10}, {10, 100}, {700, 500}} {
		if c := img.NRGBAAt(p.X, p.Y); c != white {
			t.Errorf("pixel %v = %+v, want white", p, c)
		}
	}

	if err := b.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if !bytes.Equal(pixels(t, b).Pix, blank.Pix) {
		t.Fatal("undo did not restore the blank page")
	}
}

func TestStrokePushesOneSnapshot(t *testing.T) {
	b := newBoard(t, WithSize(200, 200))
	pts := []Point{{X: 10, Y: 10}}
	for i := 1; i <= 25; i++ {
		pts = append(pts, Point{X: float64(10 + i*5), Y: float64(10 + i*3)})
	}
	stroke(b, pts...)
	if cur, n := b.HistoryPosition(); cur != 1 || n != 2 {
		t.Fatalf("history = %d/%d, want 1/2", cur, n)
	}
}

func TestPressReleaseDrawsDot(t *testing.T) {
	b := newBoard(t, WithSize(100, 100), WithBrush(red, 8))
	b.Press(Point{X: 50, Y: 50})
	b.Release()
	if c := pixels(t, b).NRGBAAt(50, 50); !isRed(c) {
		t.Fatalf("dot pixel = %+v", c)
	}
	if _, n := b.HistoryPosition(); n != 2 {
		t.Fatalf("history length = %d, want 2", n)
	}
}

func TestUndoRedoBitExact(t *testing.T) {
	b := newBoard(t, WithSize(120, 120), WithBrush(red, 6))
	var states [][]byte
	states = append(states, pixels(t, b).Pix)
	tools := []Tool{Pencil, Eraser, AutoPen, Shapes, Eraser}
	for i, tool := range tools {
		if err := b.SetTool(tool); err != nil {
			t.Fatalf("SetTool: %v", err)
		}
		y := float64(10 + i*20)
		stroke(b, Point{X: 5, Y: y}, Point{X: 40, Y: y + 7}, Point{X: 90, Y: y + 3}, Point{X: 110, Y: 60})
		states = append(states, pixels(t, b).Pix)
	}

	for i := len(tools) - 1; i >= 0; i-- {
		if err := b.Undo(); err != nil {
			t.Fatalf("Undo: %v", err)
		}
		if !bytes.Equal(pixels(t, b).Pix, states[i]) {
			t.Fatalf("undo to state %d not bit-exact", i)
		}
	}
	for i := 1; i <= len(tools); i++ {
		if err := b.Redo(); err != nil {
			t.Fatalf("Redo: %v", err)
		}
		if !bytes.Equal(pixels(t, b).Pix, states[i]) {
			t.Fatalf("redo to state %d not bit-exact", i)
		}
	}
	// Extra undo/redo at the ends are no-ops.
	if err := b.Redo(); err != nil {
		t.Fatalf("Redo at end: %v", err)
	}
}

func TestEraserLeavesTransparency(t *testing.T) {
	b := newBoard(t, WithSize(100, 100), WithBrush(red, 4), WithTool(Eraser))
	stroke(b, Point{X: 10, Y: 50}, Point{X: 90, Y: 50})
	if c := pixels(t, b).NRGBAAt(50, 50); c.A > 5 {
		t.Fatalf("erased pixel = %+v, want transparent", c)
	}
}

func TestHistoryCapacity(t *testing.T) {
	b := newBoard(t, WithSize(64, 64))
	for i := 0; i < 35; i++ {
		stroke(b, Point{X: float64(i), Y: 5}, Point{X: float64(i), Y: 50})
	}
	if cur, n := b.HistoryPosition(); cur != 29 || n != 30 {
		t.Fatalf("history = %d/%d, want 29/30", cur, n)
	}
}

func TestNewEditAfterUndoDropsRedo(t *testing.T) {
	b := newBoard(t, WithSize(64, 64))
	stroke(b, Point{X: 5, Y: 5}, Point{X: 50, Y: 5})
	stroke(b, Point{X: 5, Y: 20}, Point{X: 50, Y: 20})
	if err := b.Undo(); err != nil {
		t.Fatal(err)
	}
	stroke(b, Point{X: 5, Y: 40}, Point{X: 50, Y: 40})
	before := export(t, b)
	if err := b.Redo(); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(before, export(t, b)) {
		t.Fatal("redo after a new edit changed the page")
	}
	if cur, n := b.HistoryPosition(); cur != 2 || n != 3 {
		t.Fatalf("history = %d/%d, want 2/3", cur, n)
	}
}

func TestSetToolBusyDuringGesture(t *testing.T) {
	b := newBoard(t, WithSize(64, 64))
	b.Press(Point{X: 5, Y: 5})
	if err := b.SetTool(Eraser); !errors.Is(err, ErrBusy) {
		t.Fatalf("SetTool err = %v, want ErrBusy", err)
	}
	b.Release()
	if err := b.SetTool(Eraser); err != nil {
		t.Fatalf("SetTool: %v", err)
	}
	if err := b.SetTool(Tool(99)); err == nil {
		t.Fatal("expected error for invalid tool")
	}
}

func TestSettersDoNotTouchPage(t *testing.T) {
	b := newBoard(t, WithSize(64, 64))
	before := export(t, b)
	b.SetBrushColor(color.RGBA{0, 0, 255, 255})
	b.SetBrushSize(12)
	b.SetBrushSize(-1)
	if err := b.SetTool(AutoPen); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(before, export(t, b)) {
		t.Fatal("setter changed the page")
	}
	if b.BrushSize() != 12 || b.BrushColor() != (color.NRGBA{0, 0, 255, 255}) {
		t.Fatalf("brush = %v %+v", b.BrushSize(), b.BrushColor())
	}
	if _, n := b.HistoryPosition(); n != 1 {
		t.Fatalf("history length = %d", n)
	}
}

func TestClearIsUndoable(t *testing.T) {
	b := newBoard(t, WithSize(64, 64), WithBrush(red, 6))
	stroke(b, Point{X: 5, Y: 30}, Point{X: 60, Y: 30})
	drawn := export(t, b)

	if err := b.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if c := pixels(t, b).NRGBAAt(30, 30); c != white {
		t.Fatalf("cleared pixel = %+v", c)
	}
	if err := b.Undo(); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(drawn, export(t, b)) {
		t.Fatal("undo after clear did not restore the drawing")
	}
}

func TestLoadImage(t *testing.T) {
	src := newBoard(t, WithSize(64, 64), WithBrush(red, 6))
	stroke(src, Point{X: 5, Y: 5}, Point{X: 60, Y: 60})
	data := export(t, src)

	b := newBoard(t, WithSize(64, 64))
	blank := export(t, b)
	if err := b.LoadImage(data); err != nil {
		t.Fatalf("LoadImage: %v", err)
	}
	if !bytes.Equal(export(t, b), data) {
		t.Fatal("loaded page differs from the exported one")
	}
	if err := b.Undo(); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(export(t, b), blank) {
		t.Fatal("undo after load did not restore the previous page")
	}
}

func TestLoadImageRejectsGarbage(t *testing.T) {
	b := newBoard(t, WithSize(32, 32))
	before := export(t, b)
	if err := b.LoadImage([]byte("definitely not png")); err == nil {
		t.Fatal("expected error")
	}
	if !bytes.Equal(before, export(t, b)) {
		t.Fatal("page changed after failed load")
	}
	if _, n := b.HistoryPosition(); n != 1 {
		t.Fatalf("history length = %d", n)
	}
}

func TestChangeTool(t *testing.T) {
	b := newBoard(t, WithSize(32, 32))
	if err := b.ChangeTool("pencil", "#FF0000"); err != nil {
		t.Fatalf("ChangeTool: %v", err)
	}
	if b.Tool() != Pencil || b.BrushColor() != red {
		t.Fatalf("tool=%v colour=%+v", b.Tool(), b.BrushColor())
	}
	if err := b.ChangeTool("eraser", ""); err != nil || b.Tool() != Eraser {
		t.Fatalf("ChangeTool(eraser) = %v, tool %v", err, b.Tool())
	}
	if err := b.ChangeTool("laser", ""); err == nil {
		t.Fatal("expected error for unknown tool")
	}
	if err := b.ChangeTool("pencil", "mauve-ish"); err == nil {
		t.Fatal("expected error for unknown colour")
	}
}

func TestParseTool(t *testing.T) {
	for _, tool := range Tools() {
		got, err := ParseTool(tool.String())
		if err != nil || got != tool {
			t.Errorf("ParseTool(%q) = %v, %v", tool.String(), got, err)
		}
	}
	if got, err := ParseTool("AutoPen"); err != nil || got != AutoPen {
		t.Errorf("ParseTool(AutoPen) = %v, %v", got, err)
	}
}

func TestRenderComposesOverlay(t *testing.T) {
	b := newBoard(t, WithSize(100, 100), WithTool(Select))
	b.Press(Point{X: 10, Y: 10})
	b.Move(Point{X: 60, Y: 60})
	dst := image.NewRGBA(image.Rect(0, 0, 120, 120))
	b.Render(dst, image.Pt(10, 10))
	if c := dst.RGBAAt(50, 50); c.A == 0 {
		t.Fatal("page not rendered")
	}
	if c := dst.RGBAAt(20, 20); c == (color.RGBA{255, 255, 255, 255}) {
		t.Fatal("marquee corner not rendered")
	}
	b.Release()
}
