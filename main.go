package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/imageio"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// options holds the parsed command line
type options struct {
	scene      string
	out        string
	name       string
	format     string
	workers    int
	sequential bool
	width      int
	height     int
	fov        float64
	depth      int
	verbose    bool
	help       bool
}

func parseFlags(args []string, stderr io.Writer) (*options, *flag.FlagSet, error) {
	opts := &options{}
	fs := flag.NewFlagSet("raytracer", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.scene, "scene", "default", "Scene: built-in name (default, spheregrid, empty) or path to a .yaml/.json scene file")
	fs.StringVar(&opts.out, "out", "output", "Output directory or bucket URL (file:///dir, gs://bucket, mem://)")
	fs.StringVar(&opts.name, "name", "", "Output object name (default render_<run id>.<format>)")
	fs.StringVar(&opts.format, "format", "", "Image format: ppm or png (default from -name, else ppm)")
	fs.IntVar(&opts.workers, "workers", 0, "Number of parallel workers (0 = CPU count)")
	fs.BoolVar(&opts.sequential, "sequential", false, "Render on a single goroutine, row by row")
	fs.IntVar(&opts.width, "width", 0, "Override image width")
	fs.IntVar(&opts.height, "height", 0, "Override image height")
	fs.Float64Var(&opts.fov, "fov", 0, "Override vertical field of view in degrees")
	fs.IntVar(&opts.depth, "depth", -1, "Override maximum recursion depth")
	fs.BoolVar(&opts.verbose, "v", false, "Enable debug logging")
	fs.BoolVar(&opts.help, "help", false, "Show help information")
	err := fs.Parse(args)
	return opts, fs, err
}

func printHelp(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "Whitted Raytracer")
	fmt.Fprintln(w, "Usage: raytracer [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Built-in scenes:")
	for _, name := range scene.BuiltInNames() {
		fmt.Fprintf(w, "  %s\n", name)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output will be saved to <out>/render_<run id>.ppm")
}

// renderConfig applies command line overrides to the scene's settings
func renderConfig(s *scene.Scene, opts *options) renderer.Config {
	config := renderer.ConfigFromScene(s)
	if opts.width > 0 {
		config.Width = opts.width
	}
	if opts.height > 0 {
		config.Height = opts.height
	}
	if opts.fov > 0 {
		config.FOV = opts.fov
	}
	if opts.depth >= 0 {
		config.MaxDepth = opts.depth
	}
	if opts.workers > 0 {
		config.NumWorkers = opts.workers
	}
	return config
}

// outputTarget resolves the object name and image format
func outputTarget(opts *options, runID string) (string, imageio.Format, error) {
	var format imageio.Format
	var err error
	switch {
	case opts.format != "":
		format, err = imageio.ParseFormat(opts.format)
	case opts.name != "":
		format, err = imageio.FormatFromPath(opts.name)
	default:
		format = imageio.FormatPPM
	}
	if err != nil {
		return "", "", err
	}

	name := opts.name
	if name == "" {
		name = fmt.Sprintf("render_%s.%s", runID, format)
	}
	return name, format, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, fs, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if opts.help {
		printHelp(stdout, fs)
		return 0
	}

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	runID := uuid.NewString()
	logger := core.NewLogger(stderr, level).With("run", runID)

	if err := render(ctx, opts, runID, logger); err != nil {
		logger.Error("render failed", "err", err)
		return 1
	}
	return 0
}

func render(ctx context.Context, opts *options, runID string, logger *slog.Logger) error {
	s, err := scene.Create(opts.scene)
	if err != nil {
		return err
	}
	name, format, err := outputTarget(opts, runID)
	if err != nil {
		return err
	}

	// Open the sink before rendering so a bad destination fails fast.
	sink, err := imageio.OpenSink(ctx, opts.out)
	if err != nil {
		return err
	}
	defer sink.Close()

	raytracer := renderer.NewRaytracer(s, renderConfig(s, opts), logger)
	var fb *renderer.Framebuffer
	var stats renderer.RenderStats
	if opts.sequential {
		fb, stats, err = raytracer.RenderSequential()
	} else {
		fb, stats, err = raytracer.Render(ctx)
	}
	if err != nil {
		return err
	}

	if err := sink.WriteImage(ctx, name, fb, format); err != nil {
		return err
	}
	logger.Info("render saved", "location", sink.URL(), "name", name, "format", string(format), "elapsed", stats.Elapsed)
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
