package imageio

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

func testFramebuffer() *renderer.Framebuffer {
	fb := renderer.NewFramebuffer(3, 2)
	for i := range fb.Pix {
		fb.Pix[i] = core.Splat(float64(i) / 5)
	}
	return fb
}

func TestSink_MemoryBucket(t *testing.T) {
	ctx := context.Background()
	sink, err := OpenSink(ctx, "mem://")
	if err != nil {
		t.Fatalf("OpenSink: %v", err)
	}
	defer sink.Close()

	fb := testFramebuffer()
	if err := sink.WriteImage(ctx, "renders/out.ppm", fb, FormatPPM); err != nil {
		t.Fatalf("WriteImage: %v", err)
	}

	got, err := sink.Bucket().ReadAll(ctx, "renders/out.ppm")
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	var want bytes.Buffer
	if err := EncodePPM(&want, fb); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want.Bytes(), got); diff != "" {
		t.Errorf("stored bytes differ (-want +got):\n%s", diff)
	}

	attrs, err := sink.Bucket().Attributes(ctx, "renders/out.ppm")
	if err != nil {
		t.Fatalf("Attributes: %v", err)
	}
	if attrs.ContentType != FormatPPM.ContentType() {
		t.Errorf("Expected content type %q, got %q", FormatPPM.ContentType(), attrs.ContentType)
	}
}

func TestSink_LocalDirectory(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "output")

	sink, err := OpenSink(ctx, dir)
	if err != nil {
		t.Fatalf("OpenSink: %v", err)
	}
	defer sink.Close()

	if err := sink.WriteImage(ctx, "render.png", testFramebuffer(), FormatPNG); err != nil {
		t.Fatalf("WriteImage: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "render.png")); err != nil {
		t.Errorf("Expected file on disk: %v", err)
	}
}

func TestSink_WriteFailure(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "output")

	sink, err := OpenSink(ctx, dir)
	if err != nil {
		t.Fatalf("OpenSink: %v", err)
	}
	defer sink.Close()

	// Replace the directory with a regular file so no object can be created.
	if err := os.Remove(dir); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dir, []byte("not a directory"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := sink.WriteImage(ctx, "nested/render.ppm", testFramebuffer(), FormatPPM); err == nil {
		t.Error("Expected write failure")
	}
}

func TestOpenSink_BadURL(t *testing.T) {
	if _, err := OpenSink(context.Background(), "nosuchscheme://bucket"); err == nil {
		t.Error("Expected error for unknown scheme")
	}
}
