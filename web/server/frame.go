package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/df07/go-gargantua/pkg/postfx"
	"github.com/df07/go-gargantua/pkg/renderer"
)

// handleFrame renders a single frame and returns it as a PNG image
func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	req := s.defaultRequest()
	if err := s.parseCommonParams(r, &req); err != nil {
		w.Header().Set("Content-Type", "application/json")
		writeJSONError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	frames := renderer.NewFrameRenderer(s.compositor, renderer.FrameConfig{
		TileSize:   s.config.Render.TileSize,
		NumWorkers: s.config.Render.Workers,
	}, s.logger)
	defer frames.Close()

	frame, err := frames.Render(newDirector(&req).Advance(req.Time, 0))
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("Render failed: %v", err))
		return
	}

	var bloom *postfx.Bloom
	if req.Bloom {
		bloom = postfx.NewBloom()
	}
	data, err := encodePNG(postfx.Finish(frame.Primary, frame.Overlay, bloom))
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to encode image: %v", err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("X-Render-Ms", strconv.FormatInt(frame.Stats.Duration.Milliseconds(), 10))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
