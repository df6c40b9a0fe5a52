//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package clipboard

import "errors"

var errUnsupported = errors.New("clipboard image operations are not supported on this platform")

// WritePNG is unsupported on this platform.
func WritePNG(data []byte) error {
	if err := checkPNG(data); err != nil {
		return err
	}
	return errUnsupported
}

// ReadPNG is unsupported on this platform.
func ReadPNG() ([]byte, error) { return nil, errUnsupported }
