package scene

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
)

// NewDefaultScene creates the reference scene: a huge ground sphere, a red
// glass sphere, three mirror spheres and one spherical light.
func NewDefaultScene() *Scene {
	s := New("default")

	// Ground
	s.Add(geometry.NewSphere(core.NewVec3(0, -10004, -20), 10000, core.NewVec3(0.20, 0.20, 0.20), 0, 0))

	s.Add(
		geometry.NewSphere(core.NewVec3(0, 0, -20), 4, core.NewVec3(1.00, 0.32, 0.36), 1, 0.5),
		geometry.NewSphere(core.NewVec3(5, -1, -15), 2, core.NewVec3(0.90, 0.76, 0.46), 1, 0),
		geometry.NewSphere(core.NewVec3(5, 0, -25), 3, core.NewVec3(0.65, 0.77, 0.97), 1, 0),
		geometry.NewSphere(core.NewVec3(-5.5, 0, -15), 3, core.NewVec3(0.90, 0.90, 0.90), 1, 0),
	)

	// Light
	s.Add(geometry.NewSphere(core.NewVec3(0, 20, -30), 3, core.Vec3{}, 0, 0,
		geometry.WithEmission(core.Splat(3))))

	return s
}
