package integrator

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor returns the unclamped radiance arriving along ray.
	// depth is the number of bounces that produced the ray; primary rays use 0.
	RayColor(ray core.Ray, depth int) core.Vec3
}

// Stats counts the work done by an integrator
type Stats struct {
	PrimaryRays              int64
	ReflectionRays           int64
	RefractionRays           int64
	ShadowRays               int64
	TotalInternalReflections int64
	MaxDepthReached          int
}

// SecondaryRays returns the number of reflection and refraction rays
func (s Stats) SecondaryRays() int64 {
	return s.ReflectionRays + s.RefractionRays
}

// Merge adds other into s
func (s *Stats) Merge(other Stats) {
	s.PrimaryRays += other.PrimaryRays
	s.ReflectionRays += other.ReflectionRays
	s.RefractionRays += other.RefractionRays
	s.ShadowRays += other.ShadowRays
	s.TotalInternalReflections += other.TotalInternalReflections
	s.MaxDepthReached = max(s.MaxDepthReached, other.MaxDepthReached)
}
