package geometry

import (
	"math"
	"testing"

	"github.com/pkg/errors"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

func unitSphere() *Sphere {
	return NewSphere(core.NewVec3(0, 0, 0), 1.0, core.Splat(0.5), 0, 0)
}

func TestSphere_Intersect_ThroughCenter(t *testing.T) {
	sphere := unitSphere()

	t0, t1, ok := sphere.Intersect(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1))
	if !ok {
		t.Fatal("Expected hit, but got miss")
	}
	if math.Abs(t0-4) > 1e-9 || math.Abs(t1-6) > 1e-9 {
		t.Errorf("Expected t0=4 t1=6, got t0=%f t1=%f", t0, t1)
	}
}

func TestSphere_Intersect(t *testing.T) {
	tests := []struct {
		name      string
		origin    core.Vec3
		direction core.Vec3
		expectHit bool
		expectT0  float64
		expectT1  float64
	}{
		{
			name:      "offset parallel miss",
			origin:    core.NewVec3(2, 0, 0),
			direction: core.NewVec3(0, 1, 0),
			expectHit: false,
		},
		{
			name:      "center behind origin",
			origin:    core.NewVec3(0, 0, 5),
			direction: core.NewVec3(0, 0, 1),
			expectHit: false,
		},
		{
			name:      "perpendicular distance exceeds radius",
			origin:    core.NewVec3(1.5, 0, -5),
			direction: core.NewVec3(0, 0, 1),
			expectHit: false,
		},
		{
			name:      "glancing hit",
			origin:    core.NewVec3(1, 0, 2),
			direction: core.NewVec3(0, 0, -1),
			expectHit: true,
			expectT0:  2,
			expectT1:  2,
		},
		{
			name:      "origin inside sphere, center ahead",
			origin:    core.NewVec3(0, 0, -0.5),
			direction: core.NewVec3(0, 0, 1),
			expectHit: true,
			expectT0:  -0.5,
			expectT1:  1.5,
		},
		{
			// The tca < 0 early out hides the exit point here.
			name:      "origin inside sphere, center behind",
			origin:    core.NewVec3(0, 0, 0.5),
			direction: core.NewVec3(0, 0, 1),
			expectHit: false,
		},
	}

	sphere := unitSphere()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t0, t1, ok := sphere.Intersect(tt.origin, tt.direction)
			if ok != tt.expectHit {
				t.Fatalf("Expected hit=%t, got %t (t0=%f t1=%f)", tt.expectHit, ok, t0, t1)
			}
			if !ok {
				return
			}
			if math.Abs(t0-tt.expectT0) > 1e-9 || math.Abs(t1-tt.expectT1) > 1e-9 {
				t.Errorf("Expected t0=%f t1=%f, got t0=%f t1=%f", tt.expectT0, tt.expectT1, t0, t1)
			}
			if t0 > t1 {
				t.Errorf("Expected t0 <= t1, got %f > %f", t0, t1)
			}
		})
	}
}

func TestSphere_Intersect_KnownDistances(t *testing.T) {
	// Rays aimed straight at the center from several directions and distances
	// must report t0 = distance - radius.
	dirs := []core.Vec3{
		core.NewVec3(1, 0, 0),
		core.NewVec3(0, -1, 0),
		core.NewVec3(1, 1, 1).Normalize(),
		core.NewVec3(-2, 0.5, 3).Normalize(),
	}
	centers := []core.Vec3{
		core.NewVec3(0, 0, 0),
		core.NewVec3(5, -1, -15),
		core.NewVec3(0, -10004, -20),
	}
	radii := []float64{0.5, 3, 10000}

	for _, center := range centers {
		for _, radius := range radii {
			sphere := NewSphere(center, radius, core.Splat(1), 0, 0)
			for _, dir := range dirs {
				distance := radius + 7
				origin := center.Subtract(dir.Multiply(distance))

				t0, t1, ok := sphere.Intersect(origin, dir)
				if !ok {
					t.Fatalf("center %v radius %v dir %v: expected hit", center, radius, dir)
				}
				tol := 1e-9 * distance
				if math.Abs(t0-7) > max(tol, 1e-6) {
					t.Errorf("center %v radius %v dir %v: t0=%f, want 7", center, radius, dir, t0)
				}
				if math.Abs(t1-(7+2*radius)) > max(tol, 1e-6) {
					t.Errorf("center %v radius %v dir %v: t1=%f, want %f", center, radius, dir, t1, 7+2*radius)
				}
			}
		}
	}
}

func TestSphere_Hit_MatchesIntersect(t *testing.T) {
	sphere := unitSphere()
	ray := core.NewRay(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, -1))

	t0, t1, ok := sphere.Hit(ray)
	if !ok || t0 != 1 || t1 != 3 {
		t.Errorf("Expected hit at 1..3, got ok=%t t0=%f t1=%f", ok, t0, t1)
	}
}

func TestSphere_Normal(t *testing.T) {
	sphere := NewSphere(core.NewVec3(1, 1, 1), 2, core.Splat(1), 0, 0)
	n := sphere.Normal(core.NewVec3(1, 3, 1))
	if n != core.NewVec3(0, 1, 0) {
		t.Errorf("Expected normal (0,1,0), got %v", n)
	}
}

func TestSphere_IsLight(t *testing.T) {
	tests := []struct {
		name     string
		emission core.Vec3
		expected bool
	}{
		{"no emission", core.Vec3{}, false},
		{"white", core.Splat(3), true},
		{"blue only", core.NewVec3(0, 0, 1), true},
		{"negative", core.NewVec3(-1, 0, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSphere(core.Vec3{}, 1, core.Vec3{}, 0, 0, WithEmission(tt.emission))
			if got := s.IsLight(); got != tt.expected {
				t.Errorf("IsLight() = %t, want %t", got, tt.expected)
			}
		})
	}
}

func TestSphere_Validate(t *testing.T) {
	tests := []struct {
		name    string
		sphere  *Sphere
		wantErr bool
	}{
		{"valid", unitSphere(), false},
		{"zero radius", NewSphere(core.Vec3{}, 0, core.Splat(1), 0, 0), true},
		{"negative radius", NewSphere(core.Vec3{}, -1, core.Splat(1), 0, 0), true},
		{"reflectivity above one", NewSphere(core.Vec3{}, 1, core.Splat(1), 1.5, 0), true},
		{"negative transparency", NewSphere(core.Vec3{}, 1, core.Splat(1), 0, -0.1), true},
		{"NaN center", NewSphere(core.NewVec3(math.NaN(), 0, 0), 1, core.Splat(1), 0, 0), true},
		{"infinite emission", NewSphere(core.Vec3{}, 1, core.Splat(1), 0, 0, WithEmission(core.Splat(math.Inf(1)))), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sphere.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %t", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidSphere) {
				t.Errorf("Expected ErrInvalidSphere, got %v", err)
			}
		})
	}
}

func TestSphere_RadiusSquared_StructLiteral(t *testing.T) {
	s := &Sphere{Radius: 3}
	if got := s.RadiusSquared(); got != 9 {
		t.Errorf("RadiusSquared() = %f, want 9", got)
	}
}
