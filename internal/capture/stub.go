//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package capture

import (
	"context"
	"image"
)

func portalScreenshot(context.Context, Options) (*image.NRGBA, error) { return nil, ErrUnsupported }

func x11Screenshot() (*image.NRGBA, error) { return nil, ErrUnsupported }

func runningOnWayland() bool { return false }
