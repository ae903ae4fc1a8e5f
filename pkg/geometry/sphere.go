package geometry

import (
	"math"

	"github.com/pkg/errors"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// ErrInvalidSphere is returned by Validate for spheres that cannot be rendered
var ErrInvalidSphere = errors.New("invalid sphere")

// Sphere represents a sphere with its surface properties.
// A sphere with any positive emission channel acts as a light source.
type Sphere struct {
	Center        core.Vec3
	Radius        float64
	SurfaceColor  core.Vec3 // RGB albedo in [0,1]
	Reflectivity  float64   // [0,1]
	Transparency  float64   // [0,1]
	EmissionColor core.Vec3

	radius2 float64
}

// SphereOption configures optional sphere properties
type SphereOption func(*Sphere)

// WithEmission makes the sphere emit the given color
func WithEmission(emission core.Vec3) SphereOption {
	return func(s *Sphere) {
		s.EmissionColor = emission
	}
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, surface core.Vec3, reflectivity, transparency float64, opts ...SphereOption) *Sphere {
	s := &Sphere{
		Center:       center,
		Radius:       radius,
		SurfaceColor: surface,
		Reflectivity: reflectivity,
		Transparency: transparency,
		radius2:      radius * radius,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RadiusSquared returns the cached squared radius
func (s *Sphere) RadiusSquared() float64 {
	if s.radius2 == 0 {
		// Spheres built as struct literals have no cache yet.
		return s.Radius * s.Radius
	}
	return s.radius2
}

// IsLight reports whether the sphere emits light
func (s *Sphere) IsLight() bool {
	e := s.EmissionColor
	return e.X > 0 || e.Y > 0 || e.Z > 0
}

// Validate checks the sphere invariants
func (s *Sphere) Validate() error {
	switch {
	case !(s.Radius > 0) || math.IsInf(s.Radius, 0):
		return errors.Wrapf(ErrInvalidSphere, "radius must be positive and finite, got %v", s.Radius)
	case s.Reflectivity < 0 || s.Reflectivity > 1 || math.IsNaN(s.Reflectivity):
		return errors.Wrapf(ErrInvalidSphere, "reflectivity must be in [0,1], got %v", s.Reflectivity)
	case s.Transparency < 0 || s.Transparency > 1 || math.IsNaN(s.Transparency):
		return errors.Wrapf(ErrInvalidSphere, "transparency must be in [0,1], got %v", s.Transparency)
	case !s.Center.IsFinite():
		return errors.Wrapf(ErrInvalidSphere, "center %v is not finite", s.Center)
	case !s.SurfaceColor.IsFinite() || !s.EmissionColor.IsFinite():
		return errors.Wrap(ErrInvalidSphere, "colors must be finite")
	}
	return nil
}

// Intersect tests a ray given by origin and unit direction against the sphere
// and returns the entry and exit distances t0 <= t1.
//
// A sphere whose center lies behind the origin is reported as a miss, even
// when the origin is inside it.
func (s *Sphere) Intersect(origin, dir core.Vec3) (t0, t1 float64, ok bool) {
	l := s.Center.Subtract(origin)
	tca := l.Dot(dir)
	if tca < 0 {
		return 0, 0, false
	}

	r2 := s.RadiusSquared()
	d2 := l.LengthSquared() - tca*tca
	if d2 > r2 {
		return 0, 0, false
	}

	thc := math.Sqrt(r2 - d2)
	return tca - thc, tca + thc, true
}

// Hit is Intersect for a core.Ray
func (s *Sphere) Hit(ray core.Ray) (t0, t1 float64, ok bool) {
	return s.Intersect(ray.Origin, ray.Direction)
}

// Normal returns the outward unit normal at surface point p
func (s *Sphere) Normal(p core.Vec3) core.Vec3 {
	return p.Subtract(s.Center).Normalize()
}
