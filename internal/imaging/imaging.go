// Package imaging validates uploaded portfolio images before they are
// pushed to object storage. It probes format and dimensions from the
// header without decoding full pixel data, so oversized or disguised
// uploads are rejected cheaply.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// MaxDimension is the largest edge accepted for an uploaded image.
// Portfolio screenshots and cover images never legitimately exceed this.
const MaxDimension = 8192

// ErrUnsupportedFormat is returned for uploads that are not a
// JPEG, PNG, GIF, or WebP image.
var ErrUnsupportedFormat = errors.New("imaging: unsupported image format")

// Info describes a probed image.
type Info struct {
	Format      string // "jpeg", "png", "gif", "webp"
	Width       int
	Height      int
	ContentType string // e.g. "image/webp"
}

// Probe inspects the image header and returns its format and dimensions.
// It rejects formats outside the allowed set and images larger than
// MaxDimension on either edge.
func Probe(data []byte) (Info, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Info{}, ErrUnsupportedFormat
	}

	switch format {
	case "jpeg", "png", "gif", "webp":
	default:
		return Info{}, ErrUnsupportedFormat
	}

	if cfg.Width > MaxDimension || cfg.Height > MaxDimension {
		return Info{}, fmt.Errorf("imaging: %dx%d exceeds the %dpx limit", cfg.Width, cfg.Height, MaxDimension)
	}
	if cfg.Width < 1 || cfg.Height < 1 {
		return Info{}, ErrUnsupportedFormat
	}

	return Info{
		Format:      format,
		Width:       cfg.Width,
		Height:      cfg.Height,
		ContentType: "image/" + format,
	}, nil
}
