package imageio

import (
	"image/png"
	"io"

	"github.com/pkg/errors"

	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

// EncodePNG writes fb as an 8-bit PNG using the same clamping as EncodePPM
func EncodePNG(w io.Writer, fb *renderer.Framebuffer) error {
	return errors.Wrap(png.Encode(w, fb.ToRGBA()), "encoding png")
}
