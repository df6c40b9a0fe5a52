// Package clipboard copies page images to and from the system clipboard as
// PNG data.
package clipboard

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"
)

var (
	errNoDisplay = errors.New("clipboard initialization requires DISPLAY or WAYLAND_DISPLAY")
	// ErrNoImage is returned when the clipboard holds no PNG image.
	ErrNoImage = errors.New("clipboard does not contain image data")
)

// checkPNG rejects data that is not a PNG image.
func checkPNG(data []byte) error {
	if len(data) == 0 {
		return ErrNoImage
	}
	if _, err := png.DecodeConfig(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("clipboard image: %w", err)
	}
	return nil
}
