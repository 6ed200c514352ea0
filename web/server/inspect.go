package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/df07/go-gargantua/pkg/core"
	"github.com/df07/go-gargantua/pkg/renderer"
)

// InspectResponse represents the JSON response for pixel inspection
type InspectResponse struct {
	Absorbed      bool       `json:"absorbed"`
	Escaped       bool       `json:"escaped"`
	Saturated     bool       `json:"saturated"`
	Planet        string     `json:"planet,omitempty"`
	MinRadius     float64    `json:"minRadius"`
	Orbits        int        `json:"orbits"`
	Steps         int        `json:"steps"`
	Transmittance float64    `json:"transmittance"`
	LensStrength  float64    `json:"lensStrength"`
	Direction     [3]float64 `json:"direction"`
	Radiance      [3]float64 `json:"radiance"`
	Color         string     `json:"color"` // Tone mapped display color as #rrggbb
}

func vecArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

// newInspectResponse describes a traced pixel
func newInspectResponse(ray core.Ray, trace renderer.Trace, transition float64) InspectResponse {
	display := renderer.ToneMap(trace.Radiance, transition).Clamp(0, 1)
	return InspectResponse{
		Absorbed:      trace.Absorbed,
		Escaped:       trace.Escaped,
		Saturated:     trace.Saturated,
		Planet:        trace.Planet,
		MinRadius:     trace.MinRadius,
		Orbits:        trace.Orbits,
		Steps:         trace.Steps,
		Transmittance: trace.Transmittance,
		LensStrength:  trace.LensStrength,
		Direction:     vecArray(ray.Direction),
		Radiance:      vecArray(trace.Radiance),
		Color: fmt.Sprintf("#%02x%02x%02x",
			int(display.X*255+0.5), int(display.Y*255+0.5), int(display.Z*255+0.5)),
	}
}

// handleInspect traces a single pixel and reports what its ray met
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	// Create request object for parameter parsing
	req := s.defaultRequest()
	if err := s.parseCommonParams(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid parameters: "+err.Error())
		return
	}

	// Parse pixel coordinates
	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid x coordinate")
		return
	}
	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid y coordinate")
		return
	}

	// Validate pixel coordinates
	if pixelX < 0 || pixelX >= req.Width || pixelY < 0 || pixelY >= req.Height {
		writeJSONError(w, http.StatusBadRequest, "Pixel coordinates out of bounds")
		return
	}

	frame := newDirector(&req).Advance(req.Time, 0)
	basis := renderer.NewViewBasis(frame.CameraPosition, frame.CameraTarget)
	ray := basis.PixelRay(pixelX, pixelY, frame.Width, frame.Height)
	trace := s.compositor.TracePixel(pixelX, pixelY, basis, frame)

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(newInspectResponse(ray, trace, frame.Transition))
}
