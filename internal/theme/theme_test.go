package theme

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
		ok   bool
	}{
		{"#FF0000", color.RGBA{255, 0, 0, 255}, true},
		{"#0000ff80", color.RGBA{0, 0, 255, 128}, true},
		{"red", color.RGBA{255, 0, 0, 255}, true},
		{"  Navy ", color.RGBA{0, 0, 128, 255}, true},
		{"#12345", color.RGBA{}, false},
		{"#GGGGGG", color.RGBA{}, false},
		{"notacolor", color.RGBA{}, false},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("ParseColor(%q) err = %v", tt.in, err)
			continue
		}
		if tt.ok && got != tt.want {
			t.Errorf("ParseColor(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestParseTheme(t *testing.T) {
	input := `
Name: Chalk
# comment
HandleBorder: #112233
marqueedark: white
Unknown: #000000
`
	th, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if th.Name != "Chalk" {
		t.Errorf("Name = %q", th.Name)
	}
	if th.HandleBorder != (color.RGBA{0x11, 0x22, 0x33, 255}) {
		t.Errorf("HandleBorder = %+v", th.HandleBorder)
	}
	if th.MarqueeDark != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("MarqueeDark = %+v", th.MarqueeDark)
	}
	if th.Shadow != Default().Shadow {
		t.Errorf("unset field lost its default: %+v", th.Shadow)
	}
}

func TestParseThemeBadColor(t *testing.T) {
	if _, err := Parse(strings.NewReader("Shadow: #XYZ")); err == nil {
		t.Fatal("expected error for bad colour")
	}
}

func TestLoaderOrder(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "board.theme"), []byte("Name: Board\nStatusBar: #010203\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	l := &Loader{ConfigDir: dir}

	th, err := l.Load("board")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if th.Name != "Board" || th.StatusBar != (color.RGBA{1, 2, 3, 255}) {
		t.Fatalf("loaded theme = %+v", th)
	}

	if th, err := l.Load("dark"); err != nil || th.Name != "Dark" {
		t.Fatalf("Load(dark) = %v, %v", th, err)
	}
	if th, err := l.Load(""); err != nil || th.Name != "Default" {
		t.Fatalf("Load(\"\") = %v, %v", th, err)
	}
	if _, err := l.Load("missing"); err == nil {
		t.Fatal("expected error for missing theme")
	}
}

func TestFieldsRoundTrip(t *testing.T) {
	th := Dark()
	var sb strings.Builder
	sb.WriteString("Name: " + th.Name + "\n")
	for _, f := range Fields(th) {
		sb.WriteString(f[0] + ": " + f[1] + "\n")
	}
	back, err := Parse(strings.NewReader(sb.String()))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if *back != *th {
		t.Fatalf("round trip mismatch:\n%+v\n%+v", back, th)
	}
}
