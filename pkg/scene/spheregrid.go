package scene

import (
	"math"

	"pgregory.net/rand"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
)

// DefaultGridSeed is the seed used when the sphere grid is requested by name
const DefaultGridSeed = 42

// oklchToRGB converts OKLCH color values to RGB
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToRGB(l, c, h float64) core.Vec3 {
	hRad := h * math.Pi / 180.0

	// OKLCH -> OKLAB
	a := c * math.Cos(hRad)
	b := c * math.Sin(hRad)

	// OKLAB -> LMS
	l_ := l + 0.3963377774*a + 0.2158037573*b
	m_ := l - 0.1055613458*a - 0.0638541728*b
	s_ := l - 0.0894841775*a - 1.2914855480*b

	l_ = l_ * l_ * l_
	m_ = m_ * m_ * m_
	s_ = s_ * s_ * s_

	// LMS -> linear RGB
	r := +4.0767416621*l_ - 3.3077115913*m_ + 0.2309699292*s_
	g := -1.2684380046*l_ + 2.6097574011*m_ - 0.3413193965*s_
	blue := -0.0041960863*l_ - 0.7034186147*m_ + 1.7076147010*s_

	return core.NewVec3(r, g, blue).Clamp(0, 1)
}

// NewSphereGridScene creates a 5x4 grid of spheres with randomly chosen
// diffuse, mirror and glass surfaces, resting on the reference ground and
// lit by two lights. The same seed always produces the same scene.
func NewSphereGridScene(seed uint64) *Scene {
	s := New("spheregrid")
	random := rand.New(seed)

	s.Add(geometry.NewSphere(core.NewVec3(0, -10004, -20), 10000, core.NewVec3(0.20, 0.20, 0.20), 0, 0))

	const (
		cols, rows = 5, 4
		groundY    = -4.0
	)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			radius := 0.6 + 0.4*random.Float64()
			center := core.NewVec3(
				-6+3*float64(col)+0.6*(random.Float64()-0.5),
				groundY+radius,
				-14-4*float64(row),
			)
			color := oklchToRGB(0.75, 0.15, 360*random.Float64())

			var reflectivity, transparency float64
			switch choice := random.Float64(); {
			case choice < 0.5: // diffuse
			case choice < 0.8: // mirror
				reflectivity = 1
			default: // glass
				reflectivity = 1
				transparency = 0.5 + 0.4*random.Float64()
			}

			s.Add(geometry.NewSphere(center, radius, color, reflectivity, transparency))
		}
	}

	s.Add(
		geometry.NewSphere(core.NewVec3(0, 20, -30), 3, core.Vec3{}, 0, 0,
			geometry.WithEmission(core.Splat(3))),
		geometry.NewSphere(core.NewVec3(-12, 14, -8), 1, core.Vec3{}, 0, 0,
			geometry.WithEmission(core.NewVec3(1.2, 1.0, 0.8))),
	)

	return s
}
