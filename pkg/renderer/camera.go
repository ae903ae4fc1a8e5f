package renderer

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// CameraConfig describes the pinhole camera
type CameraConfig struct {
	Width  int     // Image width in pixels
	Height int     // Image height in pixels
	FOV    float64 // Vertical field of view in degrees
}

// Camera is a pinhole at the origin looking down -Z with +Y up
type Camera struct {
	width, height float64
	aspectRatio   float64
	angle         float64 // tan(fov/2)
	origin        core.Vec3
}

// NewCamera creates a camera for the given image size and field of view
func NewCamera(config CameraConfig) *Camera {
	return &Camera{
		width:       float64(config.Width),
		height:      float64(config.Height),
		aspectRatio: float64(config.Width) / float64(config.Height),
		angle:       math.Tan(math.Pi * 0.5 * config.FOV / 180),
		origin:      core.Vec3{},
	}
}

// GetRay returns the primary ray through the center of pixel (x, y), where
// (0, 0) is the top-left pixel. The direction is unit length.
func (c *Camera) GetRay(x, y int) core.Ray {
	xx := (2*((float64(x)+0.5)/c.width) - 1) * c.angle * c.aspectRatio
	yy := (1 - 2*((float64(y)+0.5)/c.height)) * c.angle
	direction := core.NewVec3(xx, yy, -1).Normalize()
	return core.NewRay(c.origin, direction)
}
