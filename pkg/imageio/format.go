package imageio

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

// Format names an output image encoding
type Format string

const (
	FormatPPM Format = "ppm"
	FormatPNG Format = "png"
)

// ParseFormat accepts a format name in any case
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimPrefix(name, "."))); f {
	case FormatPPM, FormatPNG:
		return f, nil
	default:
		return "", errors.Errorf("unsupported image format %q", name)
	}
}

// FormatFromPath picks the format from a file or object name extension
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// ContentType returns the MIME type of the format
func (f Format) ContentType() string {
	if f == FormatPNG {
		return "image/png"
	}
	return "image/x-portable-pixmap"
}

// Encode writes fb to w in the given format
func Encode(w io.Writer, fb *renderer.Framebuffer, format Format) error {
	switch format {
	case FormatPPM:
		return EncodePPM(w, fb)
	case FormatPNG:
		return EncodePNG(w, fb)
	default:
		return errors.Errorf("unsupported image format %q", format)
	}
}
