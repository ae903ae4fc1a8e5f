package scene

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
)

// Format identifies a scene description encoding
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the format from a file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", errors.Errorf("unsupported scene file extension %q", filepath.Ext(path))
}

// Description is the on-disk form of a scene. Zero values fall back to the
// reference settings.
type Description struct {
	Name        string              `yaml:"name,omitempty" json:"name,omitzero"`
	Description string              `yaml:"description,omitempty" json:"description,omitzero"`
	Group       string              `yaml:"group,omitempty" json:"group,omitzero"`
	Background  *[3]float64         `yaml:"background,omitempty" json:"background,omitzero"`
	Width       int                 `yaml:"width,omitempty" json:"width,omitzero"`
	Height      int                 `yaml:"height,omitempty" json:"height,omitzero"`
	FOV         float64             `yaml:"fov,omitempty" json:"fov,omitzero"`
	MaxDepth    *int                `yaml:"maxDepth,omitempty" json:"maxDepth,omitzero"`
	Spheres     []SphereDescription `yaml:"spheres" json:"spheres"`
}

// SphereDescription describes one sphere in a scene file
type SphereDescription struct {
	Center       [3]float64 `yaml:"center,flow" json:"center"`
	Radius       float64    `yaml:"radius" json:"radius"`
	Surface      [3]float64 `yaml:"surface,flow" json:"surface"`
	Reflectivity float64    `yaml:"reflectivity,omitempty" json:"reflectivity,omitzero"`
	Transparency float64    `yaml:"transparency,omitempty" json:"transparency,omitzero"`
	Emission     [3]float64 `yaml:"emission,flow,omitempty" json:"emission,omitzero"`
}

func vec(a [3]float64) core.Vec3 {
	return core.NewVec3(a[0], a[1], a[2])
}

func arr(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

// ToScene builds and validates a scene from the description
func (d *Description) ToScene() (*Scene, error) {
	s := New(d.Name)
	if s.Name == "" {
		s.Name = "custom"
	}
	if d.Background != nil {
		s.Background = vec(*d.Background)
	}
	if d.Width > 0 {
		s.SamplingConfig.Width = d.Width
	}
	if d.Height > 0 {
		s.SamplingConfig.Height = d.Height
	}
	if d.FOV > 0 {
		s.SamplingConfig.FOV = d.FOV
	}
	if d.MaxDepth != nil {
		s.SamplingConfig.MaxDepth = *d.MaxDepth
	}

	for _, sd := range d.Spheres {
		s.Add(geometry.NewSphere(vec(sd.Center), sd.Radius, vec(sd.Surface), sd.Reflectivity, sd.Transparency,
			geometry.WithEmission(vec(sd.Emission))))
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Describe converts a scene back into its file description
func Describe(s *Scene) *Description {
	bg := arr(s.Background)
	depth := s.SamplingConfig.MaxDepth
	d := &Description{
		Name:       s.Name,
		Background: &bg,
		Width:      s.SamplingConfig.Width,
		Height:     s.SamplingConfig.Height,
		FOV:        s.SamplingConfig.FOV,
		MaxDepth:   &depth,
		Spheres:    make([]SphereDescription, 0, len(s.Spheres)),
	}
	for _, sphere := range s.Spheres {
		d.Spheres = append(d.Spheres, SphereDescription{
			Center:       arr(sphere.Center),
			Radius:       sphere.Radius,
			Surface:      arr(sphere.SurfaceColor),
			Reflectivity: sphere.Reflectivity,
			Transparency: sphere.Transparency,
			Emission:     arr(sphere.EmissionColor),
		})
	}
	return d
}

// DecodeDescription reads a scene description without building the scene
func DecodeDescription(r io.Reader, format Format) (*Description, error) {
	var d Description
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&d); err != nil {
			if err == io.EOF {
				return nil, errors.New("empty scene description")
			}
			return nil, errors.Wrap(err, "decode yaml scene")
		}
	case FormatJSON:
		if err := json.UnmarshalRead(r, &d, json.RejectUnknownMembers(true)); err != nil {
			return nil, errors.Wrap(err, "decode json scene")
		}
	default:
		return nil, errors.Errorf("unknown scene format %q", format)
	}
	return &d, nil
}

// Decode reads a scene description and builds the scene
func Decode(r io.Reader, format Format) (*Scene, error) {
	d, err := DecodeDescription(r, format)
	if err != nil {
		return nil, err
	}
	return d.ToScene()
}

// DecodeBytes is Decode over an in-memory document. When format is empty,
// JSON is assumed if the document starts with '{', YAML otherwise.
func DecodeBytes(data []byte, format Format) (*Scene, error) {
	if format == "" {
		format = FormatYAML
		if bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
			format = FormatJSON
		}
	}
	return Decode(bytes.NewReader(data), format)
}

// Encode writes the scene as a description document
func Encode(w io.Writer, s *Scene, format Format) error {
	d := Describe(s)
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(d); err != nil {
			return errors.Wrap(err, "encode yaml scene")
		}
		return errors.Wrap(enc.Close(), "encode yaml scene")
	case FormatJSON:
		return errors.Wrap(json.MarshalWrite(w, d, jsontext.WithIndent("  ")), "encode json scene")
	}
	return errors.Errorf("unknown scene format %q", format)
}

// Load reads a scene file, choosing the format from its extension
func Load(path string) (*Scene, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open scene")
	}
	defer f.Close()

	s, err := Decode(f, format)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	if s.Name == "custom" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}
