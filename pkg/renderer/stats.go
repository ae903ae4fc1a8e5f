package renderer

import (
	"log/slog"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/integrator"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels     int           // Total number of pixels rendered
	PrimaryRays     int64         // Camera rays
	SecondaryRays   int64         // Reflection and refraction rays
	ShadowRays      int64         // Rays cast towards lights
	MaxDepthReached int           // Deepest recursion level seen
	Tiles           int           // Number of tiles rendered
	Elapsed         time.Duration // Wall time of the render
}

// addTracerStats folds integrator counters into the render statistics
func (rs *RenderStats) addTracerStats(s integrator.Stats) {
	rs.PrimaryRays += s.PrimaryRays
	rs.SecondaryRays += s.SecondaryRays()
	rs.ShadowRays += s.ShadowRays
	rs.MaxDepthReached = max(rs.MaxDepthReached, s.MaxDepthReached)
}

// LogValue implements slog.LogValuer
func (rs RenderStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("pixels", rs.TotalPixels),
		slog.Int64("primary", rs.PrimaryRays),
		slog.Int64("secondary", rs.SecondaryRays),
		slog.Int64("shadow", rs.ShadowRays),
		slog.Int("maxDepth", rs.MaxDepthReached),
		slog.Int("tiles", rs.Tiles),
		slog.Duration("elapsed", rs.Elapsed),
	)
}
