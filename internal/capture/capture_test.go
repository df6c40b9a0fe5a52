package capture

import (
	"context"
	"errors"
	"image"
	"strings"
	"testing"
)

func stubBackends(t *testing.T, portal, x11 error, wayland bool) *[]string {
	t.Helper()
	prevPortal, prevX11, prevWayland := portalShot, x11Shot, onWayland
	t.Cleanup(func() { portalShot, x11Shot, onWayland = prevPortal, prevX11, prevWayland })
	var calls []string
	portalShot = func(context.Context, Options) (*image.NRGBA, error) {
		calls = append(calls, "portal")
		if portal != nil {
			return nil, portal
		}
		return image.NewNRGBA(image.Rect(0, 0, 10, 10)), nil
	}
	x11Shot = func() (*image.NRGBA, error) {
		calls = append(calls, "x11")
		if x11 != nil {
			return nil, x11
		}
		return image.NewNRGBA(image.Rect(0, 0, 20, 20)), nil
	}
	onWayland = func() bool { return wayland }
	return &calls
}

func TestScreenPrefersPortal(t *testing.T) {
	calls := stubBackends(t, nil, nil, false)
	img, err := Screen(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Screen: %v", err)
	}
	if img.Bounds().Dx() != 10 || strings.Join(*calls, ",") != "portal" {
		t.Fatalf("calls = %v, size %v", *calls, img.Bounds())
	}
}

func TestScreenFallsBackToX11(t *testing.T) {
	calls := stubBackends(t, errors.New("no portal"), nil, false)
	img, err := Screen(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Screen: %v", err)
	}
	if img.Bounds().Dx() != 20 || strings.Join(*calls, ",") != "portal,x11" {
		t.Fatalf("calls = %v, size %v", *calls, img.Bounds())
	}
}

func TestScreenNoFallback(t *testing.T) {
	portalErr := errors.New("no portal")
	tests := []struct {
		name    string
		opts    Options
		wayland bool
	}{
		{"interactive", Options{Interactive: true}, false},
		{"wayland", Options{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := stubBackends(t, portalErr, nil, tt.wayland)
			if _, err := Screen(context.Background(), tt.opts); !errors.Is(err, portalErr) {
				t.Fatalf("err = %v, want portal error", err)
			}
			if len(*calls) != 1 {
				t.Fatalf("calls = %v", *calls)
			}
		})
	}
}

func TestScreenBothFail(t *testing.T) {
	x11Err := errors.New("no display")
	stubBackends(t, errors.New("no portal"), x11Err, false)
	_, err := Screen(context.Background(), Options{})
	if !errors.Is(err, x11Err) || !strings.Contains(err.Error(), "no portal") {
		t.Fatalf("err = %v", err)
	}
}

func TestRegion(t *testing.T) {
	stubBackends(t, nil, nil, false)
	img, err := Region(context.Background(), image.Rect(5, 5, 15, 8), Options{Interactive: true})
	if err != nil {
		t.Fatalf("Region: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 5, 3) {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	if _, err := Region(context.Background(), image.Rect(50, 50, 60, 60), Options{}); err == nil {
		t.Fatalf("region outside screen accepted")
	}
	if _, err := Region(context.Background(), image.Rectangle{}, Options{}); err == nil {
		t.Fatalf("empty region accepted")
	}
}
