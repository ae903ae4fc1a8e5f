package server

import (
	"bytes"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/df07/go-whitted-raytracer/pkg/imageio"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// maxSceneBytes bounds the size of a posted scene description
const maxSceneBytes = 1 << 20

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene  string         // Scene name or file, ignored when a description is posted
	Format imageio.Format // Output encoding
	Width  int            // Image width (0 = scene setting)
	Height int            // Image height (0 = scene setting)
	FOV    float64        // Vertical field of view (0 = scene setting)
	Depth  int            // Maximum recursion depth (-1 = scene setting)
}

// handleRender renders a scene in one pass and responds with the encoded image.
// GET renders a named scene; POST renders the YAML or JSON scene in the body.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	logger := s.requestLogger(r)

	req, err := parseRenderRequest(r)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var sceneObj *scene.Scene
	if r.Method == http.MethodPost {
		sceneObj, err = decodePostedScene(w, r)
	} else {
		sceneObj, err = s.createScene(req.Scene)
	}
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	config := renderer.ConfigFromScene(sceneObj)
	if req.Width > 0 {
		config.Width = req.Width
	}
	if req.Height > 0 {
		config.Height = req.Height
	}
	if req.FOV > 0 {
		config.FOV = req.FOV
	}
	if req.Depth >= 0 {
		config.MaxDepth = req.Depth
	}

	fb, stats, err := renderer.NewRaytracer(sceneObj, config, logger).Render(r.Context())
	if err != nil {
		if r.Context().Err() != nil {
			logger.Info("render abandoned by client", "err", err)
			return
		}
		logger.Error("render failed", "err", err)
		s.writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	var buf bytes.Buffer
	if err := imageio.Encode(&buf, fb, req.Format); err != nil {
		logger.Error("encoding image", "err", err)
		s.writeError(w, r, http.StatusInternalServerError, "failed to encode image")
		return
	}

	w.Header().Set("Content-Type", req.Format.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("X-Render-Time-Ms", strconv.FormatInt(stats.Elapsed.Milliseconds(), 10))
	w.Header().Set("X-Render-Rays", strconv.FormatInt(stats.PrimaryRays+stats.SecondaryRays+stats.ShadowRays, 10))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		logger.Warn("writing response", "err", err)
	}
}

// parseRenderRequest parses request parameters
func parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	req := &RenderRequest{Scene: "default", Format: imageio.FormatPPM}

	if name := query.Get("scene"); name != "" {
		req.Scene = name
	}
	if f := query.Get("format"); f != "" {
		format, err := imageio.ParseFormat(f)
		if err != nil {
			return nil, err
		}
		req.Format = format
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", 0, 1, 2000); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(query, "height", 0, 1, 2000); err != nil {
		return nil, err
	}
	if req.FOV, err = parseFloatParam(query, "fov", 0, 1, 179); err != nil {
		return nil, err
	}
	if req.Depth, err = parseIntParam(query, "depth", -1, 0, 10); err != nil {
		return nil, err
	}
	return req, nil
}

// createScene resolves a built-in scene name or a file in the scene directory
func (s *Server) createScene(name string) (*scene.Scene, error) {
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return nil, errors.Errorf("invalid scene name %q", name)
	}
	if sceneObj, ok := scene.BuiltIn(name); ok {
		return sceneObj, nil
	}
	for _, ext := range []string{".yaml", ".yml", ".json"} {
		if sceneObj, err := scene.Load(filepath.Join(s.sceneDir, name+ext)); err == nil {
			return sceneObj, nil
		}
	}
	return nil, errors.Wrapf(scene.ErrUnknownScene, "%q", name)
}

// decodePostedScene reads the scene description in the request body
func decodePostedScene(w http.ResponseWriter, r *http.Request) (*scene.Scene, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSceneBytes))
	if err != nil {
		return nil, errors.Wrap(err, "reading scene")
	}

	var format scene.Format
	switch ct := r.Header.Get("Content-Type"); {
	case strings.Contains(ct, "json"):
		format = scene.FormatJSON
	case strings.Contains(ct, "yaml"):
		format = scene.FormatYAML
	}
	return scene.DecodeBytes(body, format)
}
