package integrator

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

const (
	// DefaultMaxDepth is the recursion limit used when a scene does not set one
	DefaultMaxDepth = 3
	// DefaultBias offsets secondary ray origins off the surface to avoid self-intersection
	DefaultBias = 1e-4
	// DefaultIOR is the index of refraction of every transparent sphere
	DefaultIOR = 1.1
)

// Option configures a Whitted integrator
type Option func(*Whitted)

// WithMaxDepth overrides the scene's recursion limit
func WithMaxDepth(depth int) Option {
	return func(w *Whitted) { w.maxDepth = depth }
}

// WithBias sets the offset applied along the normal to secondary ray origins
func WithBias(bias float64) Option {
	return func(w *Whitted) { w.bias = bias }
}

// WithIOR sets the index of refraction used for every transparent sphere
func WithIOR(ior float64) Option {
	return func(w *Whitted) { w.ior = ior }
}

// Whitted is a recursive ray tracer with Lambert shading, hard shadows,
// mirror reflection and Snell refraction blended by a polynomial Fresnel term.
//
// A Whitted value keeps ray counters and must not be shared between
// goroutines; use Clone to get one per worker.
type Whitted struct {
	spheres    []*geometry.Sphere
	lights     []int
	background core.Vec3
	maxDepth   int
	bias       float64
	ior        float64

	stats Stats
}

// NewWhitted creates an integrator over the scene. The scene must not be
// modified while the integrator is in use.
func NewWhitted(s *scene.Scene, opts ...Option) *Whitted {
	w := &Whitted{
		spheres:    s.Spheres,
		lights:     s.Lights(),
		background: s.Background,
		maxDepth:   s.SamplingConfig.MaxDepth,
		bias:       DefaultBias,
		ior:        DefaultIOR,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Clone returns an integrator over the same scene with zeroed counters
func (w *Whitted) Clone() *Whitted {
	c := *w
	c.stats = Stats{}
	return &c
}

// Stats returns the counters accumulated so far
func (w *Whitted) Stats() Stats {
	return w.stats
}

// Trace is RayColor for a ray given by origin and unit direction
func (w *Whitted) Trace(origin, dir core.Vec3, depth int) core.Vec3 {
	return w.RayColor(core.NewRay(origin, dir), depth)
}

// RayColor returns the radiance seen along ray
func (w *Whitted) RayColor(ray core.Ray, depth int) core.Vec3 {
	if depth == 0 {
		w.stats.PrimaryRays++
	}
	w.stats.MaxDepthReached = max(w.stats.MaxDepthReached, depth)

	hitIdx, tNear := w.ClosestHit(ray)
	if hitIdx < 0 {
		return w.background
	}
	sphere := w.spheres[hitIdx]

	p := ray.At(tNear)
	n := sphere.Normal(p)
	inside := false
	if ray.Direction.Dot(n) > 0 {
		n = n.Negate()
		inside = true
	}

	var color core.Vec3
	if (sphere.Transparency > 0 || sphere.Reflectivity > 0) && depth < w.maxDepth {
		color = w.specularColor(ray, sphere, p, n, inside, depth)
	} else {
		color = w.diffuseColor(hitIdx, p, n)
	}

	return color.Add(sphere.EmissionColor)
}

// ClosestHit returns the index of the nearest sphere along ray and its
// distance, or -1 when nothing is hit. An origin inside a sphere uses the
// exit distance.
func (w *Whitted) ClosestHit(ray core.Ray) (int, float64) {
	hitIdx := -1
	tNear := math.Inf(1)
	for i, s := range w.spheres {
		t0, t1, ok := s.Hit(ray)
		if !ok {
			continue
		}
		if t0 < 0 {
			t0 = t1
		}
		if t0 < tNear {
			tNear = t0
			hitIdx = i
		}
	}
	return hitIdx, tNear
}

func (w *Whitted) specularColor(ray core.Ray, sphere *geometry.Sphere, p, n core.Vec3, inside bool, depth int) core.Vec3 {
	facingRatio := -ray.Direction.Dot(n)
	fresnel := core.Mix(math.Pow(1-facingRatio, 3), 1, 0.1)

	reflDir := reflect(ray.Direction, n)
	w.stats.ReflectionRays++
	reflection := w.RayColor(core.NewRay(p.Add(n.Multiply(w.bias)), reflDir), depth+1)

	var refraction core.Vec3
	if sphere.Transparency > 0 {
		eta := 1 / w.ior
		if inside {
			eta = w.ior
		}
		if refrDir, ok := refract(ray.Direction, n, eta); ok {
			w.stats.RefractionRays++
			refraction = w.RayColor(core.NewRay(p.Subtract(n.Multiply(w.bias)), refrDir), depth+1)
		} else {
			w.stats.TotalInternalReflections++
		}
	}

	return reflection.Multiply(fresnel).
		Add(refraction.Multiply((1 - fresnel) * sphere.Transparency)).
		MultiplyVec(sphere.SurfaceColor)
}

// diffuseColor sums the Lambert contribution of every other visible light.
// The shadow ray leaves along n, which is already flipped when the hit was
// from inside.
func (w *Whitted) diffuseColor(hitIdx int, p, n core.Vec3) core.Vec3 {
	sphere := w.spheres[hitIdx]
	shadowOrigin := p.Add(n.Multiply(w.bias))

	var color core.Vec3
	for _, li := range w.lights {
		if li == hitIdx {
			continue
		}
		light := w.spheres[li]
		lightDir := light.Center.Subtract(p).Normalize()

		w.stats.ShadowRays++
		if w.occluded(shadowOrigin, lightDir, li) {
			continue
		}

		color = color.Add(sphere.SurfaceColor.
			Multiply(max(0, n.Dot(lightDir))).
			MultiplyVec(light.EmissionColor))
	}
	return color
}

// occluded reports whether any sphere other than the light intersects the
// shadow ray. Distance to the light is not considered.
func (w *Whitted) occluded(origin, dir core.Vec3, lightIdx int) bool {
	for j, s := range w.spheres {
		if j == lightIdx {
			continue
		}
		if _, _, ok := s.Intersect(origin, dir); ok {
			return true
		}
	}
	return false
}

// reflect mirrors d about n and renormalizes
func reflect(d, n core.Vec3) core.Vec3 {
	return d.Subtract(n.Multiply(2 * d.Dot(n))).Normalize()
}

// refract bends d through a surface with normal n facing the incoming ray
// and relative index eta. It reports false on total internal reflection.
func refract(d, n core.Vec3, eta float64) (core.Vec3, bool) {
	cosi := -n.Dot(d)
	k := 1 - eta*eta*(1-cosi*cosi)
	if k < 0 {
		return core.Vec3{}, false
	}
	return d.Multiply(eta).Add(n.Multiply(eta*cosi - math.Sqrt(k))).Normalize(), true
}
