package renderer

import (
	"context"
	"image"
	"log/slog"
	"runtime"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// Config contains rendering configuration
type Config struct {
	Width      int     // Image width in pixels
	Height     int     // Image height in pixels
	FOV        float64 // Vertical field of view in degrees
	MaxDepth   int     // Maximum reflection/refraction recursion depth
	TileSize   int     // Size of each tile (64x64 recommended)
	NumWorkers int     // Number of parallel workers (0 = use CPU count)
}

// DefaultConfig returns the reference render settings
func DefaultConfig() Config {
	return Config{
		Width:      600,
		Height:     480,
		FOV:        30,
		MaxDepth:   integrator.DefaultMaxDepth,
		TileSize:   64,
		NumWorkers: runtime.NumCPU(),
	}
}

// ConfigFromScene returns DefaultConfig with the scene's sampling settings applied
func ConfigFromScene(s *scene.Scene) Config {
	config := DefaultConfig()
	sc := s.SamplingConfig
	if sc.Width > 0 {
		config.Width = sc.Width
	}
	if sc.Height > 0 {
		config.Height = sc.Height
	}
	if sc.FOV > 0 {
		config.FOV = sc.FOV
	}
	if sc.MaxDepth >= 0 {
		config.MaxDepth = sc.MaxDepth
	}
	return config
}

// Validate checks that the configuration describes a renderable image
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return errors.Errorf("image size must be positive, got %dx%d", c.Width, c.Height)
	case !(c.FOV > 0 && c.FOV < 180):
		return errors.Errorf("fov must be in (0, 180), got %v", c.FOV)
	case c.MaxDepth < 0:
		return errors.Errorf("max depth must not be negative, got %d", c.MaxDepth)
	}
	return nil
}

// Raytracer renders a scene into a framebuffer
type Raytracer struct {
	scene  *scene.Scene
	config Config
	camera *Camera
	tracer *integrator.Whitted
	logger *slog.Logger
}

// NewRaytracer creates a raytracer for the scene. A nil logger logs to slog.Default().
func NewRaytracer(s *scene.Scene, config Config, logger *slog.Logger) *Raytracer {
	if config.NumWorkers <= 0 {
		config.NumWorkers = runtime.NumCPU()
	}
	return &Raytracer{
		scene:  s,
		config: config,
		camera: NewCamera(CameraConfig{Width: config.Width, Height: config.Height, FOV: config.FOV}),
		tracer: integrator.NewWhitted(s, integrator.WithMaxDepth(config.MaxDepth)),
		logger: core.LoggerOrDefault(logger).With("scene", s.Name),
	}
}

// Config returns the effective configuration
func (rt *Raytracer) Config() Config {
	return rt.config
}

// Render traces every pixel using a bounded group of workers, one tile per
// task. Tiles own disjoint pixels, so the framebuffer needs no locking. The
// context is checked before each tile starts; a cancelled render returns
// ctx.Err().
func (rt *Raytracer) Render(ctx context.Context) (*Framebuffer, RenderStats, error) {
	if err := rt.config.Validate(); err != nil {
		return nil, RenderStats{}, err
	}
	start := time.Now()

	fb := NewFramebuffer(rt.config.Width, rt.config.Height)
	tiles := NewTileGrid(rt.config.Width, rt.config.Height, rt.config.TileSize)
	tileStats := make([]integrator.Stats, len(tiles))

	rt.logger.Info("render started",
		"width", rt.config.Width, "height", rt.config.Height,
		"spheres", rt.scene.GetPrimitiveCount(),
		"tiles", len(tiles), "workers", rt.config.NumWorkers)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(rt.config.NumWorkers)
	for _, tile := range tiles {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			tracer := rt.tracer.Clone()
			rt.renderBounds(tracer, fb, tile.Bounds)
			tileStats[tile.ID] = tracer.Stats()
			rt.logger.Debug("tile done", "tile", tile.ID, "bounds", tile.Bounds.String())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, RenderStats{}, errors.Wrap(err, "render cancelled")
	}
	if err := ctx.Err(); err != nil {
		return nil, RenderStats{}, errors.Wrap(err, "render cancelled")
	}

	var total integrator.Stats
	for _, ts := range tileStats {
		total.Merge(ts)
	}
	stats := RenderStats{TotalPixels: len(fb.Pix), Tiles: len(tiles)}
	stats.addTracerStats(total)
	stats.Elapsed = time.Since(start)

	rt.logger.Info("render finished", "stats", stats)
	return fb, stats, nil
}

// RenderSequential traces every pixel row by row on the calling goroutine
func (rt *Raytracer) RenderSequential() (*Framebuffer, RenderStats, error) {
	if err := rt.config.Validate(); err != nil {
		return nil, RenderStats{}, err
	}
	start := time.Now()

	fb := NewFramebuffer(rt.config.Width, rt.config.Height)
	tracer := rt.tracer.Clone()
	rt.renderBounds(tracer, fb, image.Rect(0, 0, fb.Width, fb.Height))

	stats := RenderStats{TotalPixels: len(fb.Pix), Tiles: 1}
	stats.addTracerStats(tracer.Stats())
	stats.Elapsed = time.Since(start)

	rt.logger.Info("render finished", "stats", stats)
	return fb, stats, nil
}

// renderBounds traces the pixels inside bounds into fb
func (rt *Raytracer) renderBounds(tracer integrator.Integrator, fb *Framebuffer, bounds image.Rectangle) {
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			fb.Set(x, y, tracer.RayColor(rt.camera.GetRay(x, y), 0))
		}
	}
}
