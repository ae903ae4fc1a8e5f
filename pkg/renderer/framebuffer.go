package renderer

import (
	"image"
	"image/color"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Framebuffer holds unclamped linear colors in row-major order
type Framebuffer struct {
	Width  int
	Height int
	Pix    []core.Vec3
}

// NewFramebuffer allocates a black framebuffer
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pix:    make([]core.Vec3, width*height),
	}
}

// Set stores the color of pixel (x, y)
func (fb *Framebuffer) Set(x, y int, c core.Vec3) {
	fb.Pix[y*fb.Width+x] = c
}

// At returns the color of pixel (x, y)
func (fb *Framebuffer) At(x, y int) core.Vec3 {
	return fb.Pix[y*fb.Width+x]
}

// ToByte converts a linear channel to 8 bits: values above 1 saturate,
// the scaled value is truncated, and negatives or NaN become 0.
func ToByte(c float64) uint8 {
	if !(c > 0) {
		return 0
	}
	return uint8(math.Min(1, c) * 255)
}

// ToRGBA converts the framebuffer to an opaque 8-bit image. No gamma is applied.
func (fb *Framebuffer) ToRGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			c := fb.At(x, y)
			img.SetRGBA(x, y, color.RGBA{
				R: ToByte(c.X),
				G: ToByte(c.Y),
				B: ToByte(c.Z),
				A: 255,
			})
		}
	}
	return img
}
