package scene

import (
	"github.com/pkg/errors"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
)

// SamplingConfig contains the render settings a scene recommends
type SamplingConfig struct {
	Width    int     // Image width
	Height   int     // Image height
	FOV      float64 // Vertical field of view in degrees
	MaxDepth int     // Maximum reflection/refraction recursion depth
}

// DefaultSamplingConfig returns the reference render settings
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		Width:    600,
		Height:   480,
		FOV:      30,
		MaxDepth: 3,
	}
}

// DefaultBackground is the color returned for rays that miss every sphere
var DefaultBackground = core.Splat(2)

// Scene is an ordered list of spheres. Insertion order is the only order;
// there is no spatial index. A scene is read-only once rendering starts.
type Scene struct {
	Name           string
	Spheres        []*geometry.Sphere
	Background     core.Vec3
	SamplingConfig SamplingConfig
}

// New creates an empty scene with the reference background and settings
func New(name string) *Scene {
	return &Scene{
		Name:           name,
		Spheres:        make([]*geometry.Sphere, 0),
		Background:     DefaultBackground,
		SamplingConfig: DefaultSamplingConfig(),
	}
}

// Add appends spheres to the scene
func (s *Scene) Add(spheres ...*geometry.Sphere) *Scene {
	s.Spheres = append(s.Spheres, spheres...)
	return s
}

// Lights returns the indices of the emitting spheres in insertion order
func (s *Scene) Lights() []int {
	var lights []int
	for i, sphere := range s.Spheres {
		if sphere.IsLight() {
			lights = append(lights, i)
		}
	}
	return lights
}

// GetPrimitiveCount returns the number of spheres in the scene
func (s *Scene) GetPrimitiveCount() int {
	return len(s.Spheres)
}

// Validate checks every sphere and the sampling settings. An empty scene is valid.
func (s *Scene) Validate() error {
	for i, sphere := range s.Spheres {
		if sphere == nil {
			return errors.Errorf("scene %q: sphere %d is nil", s.Name, i)
		}
		if err := sphere.Validate(); err != nil {
			return errors.Wrapf(err, "scene %q: sphere %d", s.Name, i)
		}
	}
	if !s.Background.IsFinite() {
		return errors.Errorf("scene %q: background %v is not finite", s.Name, s.Background)
	}
	cfg := s.SamplingConfig
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return errors.Errorf("scene %q: invalid image size %dx%d", s.Name, cfg.Width, cfg.Height)
	}
	if !(cfg.FOV > 0 && cfg.FOV < 180) {
		return errors.Errorf("scene %q: field of view must be in (0, 180), got %v", s.Name, cfg.FOV)
	}
	if cfg.MaxDepth < 0 {
		return errors.Errorf("scene %q: negative max depth %d", s.Name, cfg.MaxDepth)
	}
	return nil
}
