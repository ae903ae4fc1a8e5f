package server

import (
	"net/http"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

// InspectResponse represents the JSON response for sphere inspection
type InspectResponse struct {
	Hit          bool       `json:"hit"`
	SphereIndex  int        `json:"sphereIndex"`
	MaterialType string     `json:"materialType,omitempty"`
	Point        [3]float64 `json:"point"`
	Normal       [3]float64 `json:"normal"`
	Distance     float64    `json:"distance"`
	Inside       bool       `json:"inside"`
	Color        [3]float64 `json:"color"` // Unclamped radiance of the pixel
	Properties   Properties `json:"properties"`
}

// Properties lists the material parameters of the inspected sphere
type Properties struct {
	Center       [3]float64 `json:"center"`
	Radius       float64    `json:"radius"`
	Surface      [3]float64 `json:"surface"`
	Reflectivity float64    `json:"reflectivity"`
	Transparency float64    `json:"transparency"`
	Emission     [3]float64 `json:"emission"`
}

func vecArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

// materialType classifies a sphere by which shading branch it takes
func materialType(s *geometry.Sphere) string {
	switch {
	case s.IsLight():
		return "light"
	case s.Transparency > 0:
		return "glass"
	case s.Reflectivity > 0:
		return "mirror"
	default:
		return "diffuse"
	}
}

// handleInspect reports which sphere is visible through a pixel
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	name := query.Get("scene")
	if name == "" {
		name = "default"
	}
	sceneObj, err := s.createScene(name)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	sc := sceneObj.SamplingConfig
	width, err := parseIntParam(query, "width", sc.Width, 1, 2000)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	height, err := parseIntParam(query, "height", sc.Height, 1, 2000)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	x, err := parseIntParam(query, "x", width/2, 0, width-1)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	y, err := parseIntParam(query, "y", height/2, 0, height-1)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	camera := renderer.NewCamera(renderer.CameraConfig{Width: width, Height: height, FOV: sc.FOV})
	ray := camera.GetRay(x, y)
	tracer := integrator.NewWhitted(sceneObj)

	response := InspectResponse{
		SphereIndex: -1,
		Color:       vecArray(tracer.RayColor(ray, 0)),
	}

	idx, t := tracer.ClosestHit(ray)
	if idx >= 0 {
		sphere := sceneObj.Spheres[idx]
		p := ray.At(t)
		n := sphere.Normal(p)
		inside := ray.Direction.Dot(n) > 0
		if inside {
			n = n.Negate()
		}

		response.Hit = true
		response.SphereIndex = idx
		response.MaterialType = materialType(sphere)
		response.Point = vecArray(p)
		response.Normal = vecArray(n)
		response.Distance = t
		response.Inside = inside
		response.Properties = Properties{
			Center:       vecArray(sphere.Center),
			Radius:       sphere.Radius,
			Surface:      vecArray(sphere.SurfaceColor),
			Reflectivity: sphere.Reflectivity,
			Transparency: sphere.Transparency,
			Emission:     vecArray(sphere.EmissionColor),
		}
	}

	s.writeJSON(w, r, http.StatusOK, response)
}
