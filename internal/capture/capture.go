// Package capture grabs the desktop so that it can be imported into a page.
// On Unix desktops the screenshot portal is tried first and the X11 root
// window is used when the portal is unavailable outside Wayland.
package capture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"

	"github.com/example/lessonboard/internal/logging"
)

// ErrUnsupported is returned on platforms without a capture backend.
var ErrUnsupported = errors.New("capture: not supported on this platform")

// Options configures a screenshot.
type Options struct {
	// Interactive lets the user pick the area through the portal dialog.
	Interactive bool
	// IncludeCursor embeds the pointer in the image.
	IncludeCursor bool
}

var (
	portalShot = portalScreenshot
	x11Shot    = x11Screenshot
	onWayland  = runningOnWayland
)

// Screen captures the desktop.
func Screen(ctx context.Context, opts Options) (*image.NRGBA, error) {
	img, err := portalShot(ctx, opts)
	if err == nil {
		return img, nil
	}
	if opts.Interactive || onWayland() {
		return nil, err
	}
	logging.Logger().Info("portal screenshot failed, using X11", "err", err)
	img, xerr := x11Shot()
	if xerr != nil {
		return nil, fmt.Errorf("capture: portal: %v; x11: %w", err, xerr)
	}
	return img, nil
}

// Region captures the desktop and crops it to rect in screen coordinates.
func Region(ctx context.Context, rect image.Rectangle, opts Options) (*image.NRGBA, error) {
	if rect.Empty() {
		return nil, fmt.Errorf("capture: region is empty")
	}
	opts.Interactive = false
	shot, err := Screen(ctx, opts)
	if err != nil {
		return nil, err
	}
	return cropToRect(shot, rect)
}

func cropToRect(src *image.NRGBA, rect image.Rectangle) (*image.NRGBA, error) {
	rect = rect.Intersect(src.Bounds())
	if rect.Empty() {
		return nil, fmt.Errorf("capture: requested region outside captured image")
	}
	dst := image.NewNRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), src, rect.Min, draw.Src)
	return dst, nil
}
