package server

import (
	"bytes"
	"embed"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io/fs"
	"net/http"
	"net/url"
	"strconv"

	"github.com/df07/go-gargantua/pkg/config"
	"github.com/df07/go-gargantua/pkg/core"
	"github.com/df07/go-gargantua/pkg/loaders"
	"github.com/df07/go-gargantua/pkg/renderer"
	"github.com/df07/go-gargantua/pkg/scene"
)

//go:embed static
var staticFiles embed.FS

// Request limits.
const (
	minSize      = 16
	maxWidth     = 1920
	maxHeight    = 1080
	maxFrames    = 600
	maxFPS       = 120.0
	maxSeconds   = 60.0
	maxCameraPos = scene.MaxDistance
)

// Server handles web requests for the black hole renderer. Textures are
// loaded once and shared by every request.
type Server struct {
	port       int
	config     config.Config
	compositor *renderer.Compositor
	logger     core.Logger
}

// NewServer creates a new web server
func NewServer(port int, cfg config.Config, logger core.Logger) *Server {
	return &Server{
		port:       port,
		config:     cfg,
		compositor: renderer.NewCompositor(loaders.LoadAssets(cfg.AssetDir, logger)),
		logger:     logger,
	}
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Width      int        `json:"width"`
	Height     int        `json:"height"`
	Camera     [3]float64 `json:"camera"`     // Starting camera position, looking at the origin
	Time       float64    `json:"time"`       // Simulation time for single frames
	Frames     int        `json:"frames"`     // Number of frames to stream
	FPS        float64    `json:"fps"`        // Simulation frames per second
	FlyIn      float64    `json:"flyIn"`      // Seconds to reach the horizon (0 = static camera)
	TunnelExit float64    `json:"tunnelExit"` // Seconds in the tunnel before scrolling out (0 = stay)
	Bloom      bool       `json:"bloom"`
}

// Stats represents render statistics
type Stats struct {
	TotalPixels    int     `json:"totalPixels"`
	AverageSteps   float64 `json:"averageSteps"`
	MaxStepsUsed   int     `json:"maxStepsUsed"`
	AbsorbedPixels int     `json:"absorbedPixels"`
	PlanetPixels   int     `json:"planetPixels"`
	DurationMs     int64   `json:"durationMs"`
}

func newStats(s renderer.RenderStats) Stats {
	return Stats{
		TotalPixels:    s.TotalPixels,
		AverageSteps:   s.AverageSteps,
		MaxStepsUsed:   s.MaxStepsUsed,
		AbsorbedPixels: s.AbsorbedPixels,
		PlanetPixels:   s.PlanetPixels,
		DurationMs:     s.Duration.Milliseconds(),
	}
}

// Handler returns the HTTP routes of the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Serve the bundled page
	static, _ := fs.Sub(staticFiles, "static")
	mux.Handle("/", http.FileServer(http.FS(static)))

	// API endpoints
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/frame", s.handleFrame)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/config", s.handleConfig)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Printf("Starting web server on http://localhost%s\n", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleConfig returns the default request values and their limits
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	defaults := s.defaultRequest()
	response := map[string]interface{}{
		"defaults": defaults,
		"limits": map[string]interface{}{
			"width":      map[string]int{"min": minSize, "max": maxWidth},
			"height":     map[string]int{"min": minSize, "max": maxHeight},
			"frames":     map[string]int{"min": 1, "max": maxFrames},
			"fps":        map[string]float64{"min": 1, "max": maxFPS},
			"flyIn":      map[string]float64{"min": 0, "max": maxSeconds},
			"tunnelExit": map[string]float64{"min": 0, "max": maxSeconds},
			"camera":     map[string]float64{"min": -maxCameraPos, "max": maxCameraPos},
		},
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// defaultRequest derives request defaults from the server config
func (s *Server) defaultRequest() RenderRequest {
	return RenderRequest{
		Width:      min(s.config.Render.Width, maxWidth),
		Height:     min(s.config.Render.Height, maxHeight),
		Camera:     s.config.Camera.Position,
		Frames:     min(s.config.Sequence.Frames, maxFrames),
		FPS:        min(s.config.Sequence.FPS, maxFPS),
		FlyIn:      min(s.config.Sequence.FlyIn, maxSeconds),
		TunnelExit: min(s.config.Sequence.TunnelExit, maxSeconds),
		Bloom:      s.config.Bloom.Enabled,
	}
}

// parseCommonParams parses the parameters shared by every endpoint: image
// size, camera position, time and bloom.
func (s *Server) parseCommonParams(r *http.Request, req *RenderRequest) error {
	q := r.URL.Query()
	var err error
	if req.Width, err = parseIntParam(q, "width", req.Width, minSize, maxWidth); err != nil {
		return err
	}
	if req.Height, err = parseIntParam(q, "height", req.Height, minSize, maxHeight); err != nil {
		return err
	}
	for i, key := range []string{"cx", "cy", "cz"} {
		if req.Camera[i], err = parseFloatParam(q, key, req.Camera[i], -maxCameraPos, maxCameraPos); err != nil {
			return err
		}
	}
	if req.Camera == [3]float64{} {
		return fmt.Errorf("camera cannot be placed at the origin")
	}
	if req.Time, err = parseFloatParam(q, "t", 0, 0, 1e6); err != nil {
		return err
	}
	if value := q.Get("bloom"); value != "" {
		if req.Bloom, err = strconv.ParseBool(value); err != nil {
			return fmt.Errorf("invalid bloom: %s", value)
		}
	}
	return nil
}

// parseRenderRequest parses the parameters of a streamed sequence
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	req := s.defaultRequest()
	if err := s.parseCommonParams(r, &req); err != nil {
		return nil, err
	}

	q := r.URL.Query()
	var err error
	if req.Frames, err = parseIntParam(q, "frames", req.Frames, 1, maxFrames); err != nil {
		return nil, err
	}
	if req.FPS, err = parseFloatParam(q, "fps", req.FPS, 1, maxFPS); err != nil {
		return nil, err
	}
	if req.FlyIn, err = parseFloatParam(q, "flyIn", req.FlyIn, 0, maxSeconds); err != nil {
		return nil, err
	}
	if req.TunnelExit, err = parseFloatParam(q, "tunnelExit", req.TunnelExit, 0, maxSeconds); err != nil {
		return nil, err
	}

	// Performance warning
	if req.Width*req.Height > 800*600 && req.Frames > 120 {
		core.Warnf(s.logger, "Render warning: Large image with many frames may render slowly\n")
	}

	return &req, nil
}

// newDirector creates a director for req with the camera aimed at the origin
func newDirector(req *RenderRequest) *scene.Director {
	director := scene.NewDirector(req.Width, req.Height)
	director.SetCamera(core.NewVec3(req.Camera[0], req.Camera[1], req.Camera[2]), core.Vec3{})
	return director
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %g and %g, got: %g", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// encodePNG encodes img as PNG
func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// imageToBase64PNG converts an image to base64-encoded PNG
func (s *Server) imageToBase64PNG(img image.Image) (string, error) {
	data, err := encodePNG(img)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// writeJSONError writes a JSON error body with the given status
func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
