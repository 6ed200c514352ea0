package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/df07/go-gargantua/pkg/core"
	"github.com/df07/go-gargantua/pkg/postfx"
	"github.com/df07/go-gargantua/pkg/renderer"
)

// FrameUpdate represents a single rendered frame sent via SSE
type FrameUpdate struct {
	Index       int     `json:"index"`
	TotalFrames int     `json:"totalFrames"`
	Mode        string  `json:"mode"`
	Transition  float64 `json:"transition"`
	TunnelDepth float64 `json:"tunnelDepth"`
	TimeSec     float64 `json:"time"`
	ImageData   string  `json:"imageData"` // Base64 encoded PNG
	Stats       Stats   `json:"stats"`
	ElapsedMs   int64   `json:"elapsedMs"`
	IsLast      bool    `json:"isLast"`
}

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string `json:"type"` // "console", "frame", "error", "complete"
	Data string `json:"data"` // JSON-encoded data
}

// handleRender streams a fly-in sequence frame by frame via SSE
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	// Set SSE headers
	s.setSSEHeaders(w)

	ctx := r.Context()

	// Create unified SSE event channel for thread-safe writing
	sseEventChan := make(chan SSEEvent, 100)

	// Start single SSE writer goroutine; the handler must not return while
	// it still writes to w
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writeSSEEvents(ctx, w, sseEventChan)
	}()
	defer func() {
		close(sseEventChan)
		<-writerDone
	}()

	// Parse and validate request
	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	// Setup console logging and streaming
	consoleCtx, stopConsole := context.WithCancel(ctx)
	consoleChan, webLogger := s.setupConsoleLogging()
	consoleDone := make(chan struct{})
	go func() {
		defer close(consoleDone)
		s.streamConsoleMessages(consoleCtx, consoleChan, sseEventChan)
	}()
	defer func() {
		stopConsole()
		<-consoleDone
	}()

	sequence := s.newSequenceRenderer(req, webLogger)
	var bloom *postfx.Bloom
	if req.Bloom {
		bloom = postfx.NewBloom()
	}

	// Start rendering and stream events
	startTime := time.Now()
	frameChan, errChan := sequence.RenderSequence(ctx)
	s.handleRenderingEvents(ctx, sseEventChan, frameChan, errChan, req, bloom, startTime)
}

// newSequenceRenderer builds the frame pipeline for req
func (s *Server) newSequenceRenderer(req *RenderRequest, logger core.Logger) *renderer.SequenceRenderer {
	frames := renderer.NewFrameRenderer(s.compositor, renderer.FrameConfig{
		TileSize:   s.config.Render.TileSize,
		NumWorkers: s.config.Render.Workers,
	}, logger)

	director := newDirector(req)
	config := renderer.SequenceConfig{
		Frames:     req.Frames,
		FPS:        req.FPS,
		TunnelExit: req.TunnelExit,
	}
	if req.FlyIn > 0 {
		start, _ := director.Camera()
		config.Path = renderer.FlyIn(start, renderer.HorizonApproach, req.FlyIn)
	}
	return renderer.NewSequenceRenderer(director, frames, config, logger)
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// setupConsoleLogging creates console channel and web logger for a render
func (s *Server) setupConsoleLogging() (chan ConsoleMessage, core.Logger) {
	consoleChan := make(chan ConsoleMessage, 50)
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	webLogger := NewWebLogger(renderID, consoleChan, s.logger)
	return consoleChan, webLogger
}

// writeSSEEvents handles writing all SSE events in a single goroutine (thread-safe)
func (s *Server) writeSSEEvents(ctx context.Context, w http.ResponseWriter, sseEventChan chan SSEEvent) {
	for {
		select {
		case event, ok := <-sseEventChan:
			if !ok {
				// Channel closed
				return
			}

			// Check if client is still connected before writing
			select {
			case <-ctx.Done():
				return
			default:
			}

			// Write SSE event
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
				// Client disconnected during write
				return
			}
			if flusher, ok := w.(http.Flusher); ok {
				flusher.Flush()
			}

		case <-ctx.Done():
			// Client disconnected
			return
		}
	}
}

// streamConsoleMessages handles the console message streaming goroutine
func (s *Server) streamConsoleMessages(ctx context.Context, consoleChan chan ConsoleMessage, sseEventChan chan SSEEvent) {
	for {
		select {
		case consoleMsg := <-consoleChan:
			data, err := json.Marshal(consoleMsg)
			if err != nil {
				core.Errorf(s.logger, "Error marshaling console message: %v\n", err)
				continue
			}

			// Send to unified SSE channel
			select {
			case sseEventChan <- SSEEvent{Type: "console", Data: string(data)}:
			case <-ctx.Done():
				return
			default:
				// Channel full, skip message to avoid blocking
			}

		case <-ctx.Done():
			return
		}
	}
}

// handleRenderingEvents forwards rendered frames until the sequence ends
func (s *Server) handleRenderingEvents(ctx context.Context, sseEventChan chan SSEEvent,
	frameChan <-chan renderer.SequenceFrame, errChan <-chan error,
	req *RenderRequest, bloom *postfx.Bloom, startTime time.Time) {

	for frameChan != nil {
		select {
		case sf, ok := <-frameChan:
			if !ok {
				frameChan = nil
				continue
			}
			s.handleFrameComplete(ctx, sseEventChan, sf, req, bloom, startTime)

		case err, ok := <-errChan:
			if !ok {
				// The last frame may still be buffered
				errChan = nil
				continue
			}
			if err != nil {
				s.handleError(ctx, sseEventChan, fmt.Sprintf("Rendering failed: %v", err))
				return
			}

		case <-ctx.Done():
			// Client disconnected
			return
		}
	}

	// Send completion event
	select {
	case sseEventChan <- SSEEvent{Type: "complete", Data: "Rendering completed"}:
	case <-ctx.Done():
	}
}

// handleFrameComplete post-processes one frame and sends it to the client
func (s *Server) handleFrameComplete(ctx context.Context, sseEventChan chan SSEEvent, sf renderer.SequenceFrame, req *RenderRequest, bloom *postfx.Bloom, startTime time.Time) {
	// Check if client is still connected
	select {
	case <-ctx.Done():
		return
	default:
	}

	img := postfx.Finish(sf.Frame.Primary, sf.Frame.Overlay, bloom)
	imageData, err := s.imageToBase64PNG(img)
	if err != nil {
		core.Errorf(s.logger, "Error encoding frame %d: %v\n", sf.Index, err)
		return
	}

	state := sf.Frame.State
	update := FrameUpdate{
		Index:       sf.Index,
		TotalFrames: req.Frames,
		Mode:        state.Mode.String(),
		Transition:  state.Transition,
		TunnelDepth: state.TunnelDepth,
		TimeSec:     state.Time,
		ImageData:   imageData,
		Stats:       newStats(sf.Frame.Stats),
		ElapsedMs:   time.Since(startTime).Milliseconds(),
		IsLast:      sf.IsLast,
	}

	data, err := json.Marshal(update)
	if err != nil {
		core.Errorf(s.logger, "Error marshaling frame update: %v\n", err)
		return
	}

	select {
	case sseEventChan <- SSEEvent{Type: "frame", Data: string(data)}:
	case <-ctx.Done():
	}
}

// handleError sends an error event to the SSE channel
func (s *Server) handleError(ctx context.Context, sseEventChan chan SSEEvent, message string) {
	select {
	case sseEventChan <- SSEEvent{Type: "error", Data: message}:
	case <-ctx.Done():
		// Client disconnected, don't block
	}
}
