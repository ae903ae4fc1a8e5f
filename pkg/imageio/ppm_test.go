package imageio

import (
	"bytes"
	"context"
	"image/color"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

func TestEncodePPM_Bytes(t *testing.T) {
	fb := renderer.NewFramebuffer(2, 2)
	fb.Set(0, 0, core.NewVec3(1, 0, 0))
	fb.Set(1, 0, core.NewVec3(2, 0.5, -1))
	fb.Set(0, 1, core.NewVec3(math.NaN(), math.Inf(1), 0.999))
	fb.Set(1, 1, core.NewVec3(0, 0, 0))

	var buf bytes.Buffer
	if err := EncodePPM(&buf, fb); err != nil {
		t.Fatalf("EncodePPM: %v", err)
	}

	want := append([]byte("P6\n2 2\n255\n"),
		255, 0, 0,
		255, 127, 0,
		0, 255, 254,
		0, 0, 0,
	)
	if diff := cmp.Diff(want, buf.Bytes()); diff != "" {
		t.Errorf("ppm bytes mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodePPM_ReferenceSceneLength(t *testing.T) {
	if testing.Short() {
		t.Skip("full resolution render")
	}

	s := scene.NewDefaultScene()
	fb, _, err := renderer.NewRaytracer(s, renderer.ConfigFromScene(s), nil).Render(context.Background())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	var buf bytes.Buffer
	if err := EncodePPM(&buf, fb); err != nil {
		t.Fatalf("EncodePPM: %v", err)
	}
	if want := 15 + 600*480*3; buf.Len() != want {
		t.Errorf("Expected %d bytes, got %d", want, buf.Len())
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("P6\n600 480\n255\n")) {
		t.Errorf("unexpected header %q", buf.Bytes()[:15])
	}
}

func TestDecodePPM_RoundTrip(t *testing.T) {
	fb := renderer.NewFramebuffer(3, 2)
	for i := range fb.Pix {
		fb.Pix[i] = core.NewVec3(float64(i)/6, 1-float64(i)/6, 0.5)
	}

	var buf bytes.Buffer
	if err := EncodePPM(&buf, fb); err != nil {
		t.Fatalf("EncodePPM: %v", err)
	}
	img, err := DecodePPM(&buf)
	if err != nil {
		t.Fatalf("DecodePPM: %v", err)
	}
	if diff := cmp.Diff(fb.ToRGBA().Pix, img.Pix); diff != "" {
		t.Errorf("decoded pixels differ (-want +got):\n%s", diff)
	}
}

func TestDecodePPM_Comments(t *testing.T) {
	doc := "P6\n# made by hand\n1 1\n255\n\x0a\x14\x1e"
	img, err := DecodePPM(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("DecodePPM: %v", err)
	}
	if got := img.RGBAAt(0, 0); got != (color.RGBA{R: 10, G: 20, B: 30, A: 255}) {
		t.Errorf("pixel = %v", got)
	}
}

func TestDecodePPM_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", ""},
		{"ascii ppm", "P3\n1 1\n255\n0 0 0\n"},
		{"bad width", "P6\nx 1\n255\n"},
		{"sixteen bit", "P6\n1 1\n65535\n"},
		{"short data", "P6\n2 1\n255\n\x00\x00\x00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodePPM(strings.NewReader(tt.doc))
			if !errors.Is(err, ErrInvalidPPM) {
				t.Errorf("Expected ErrInvalidPPM, got %v", err)
			}
		})
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestEncodePPM_WriteFailure(t *testing.T) {
	fb := renderer.NewFramebuffer(4, 4)
	if err := EncodePPM(failingWriter{}, fb); err == nil {
		t.Error("Expected write error")
	}
}
