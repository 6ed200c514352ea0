package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/color/palette"
	"image/gif"
	"image/png"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"

	"github.com/df07/go-gargantua/pkg/config"
	"github.com/df07/go-gargantua/pkg/core"
	"github.com/df07/go-gargantua/pkg/loaders"
	"github.com/df07/go-gargantua/pkg/postfx"
	"github.com/df07/go-gargantua/pkg/renderer"
	"github.com/df07/go-gargantua/pkg/scene"
)

// Output modes.
const (
	modeFrame    = "frame"
	modeSequence = "sequence"
	modeGIF      = "gif"
)

// options are the flags that are not part of the config file
type options struct {
	mode       string
	verbose    bool
	quiet      bool
	dumpConfig bool
}

func main() {
	cfg, opts, err := parseFlags(os.Args[1:], os.Stdout)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	if opts.dumpConfig {
		if err := cfg.Encode(os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	logger := renderer.NewLogger(os.Stdout, renderer.LevelFromFlags(opts.verbose, opts.quiet))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, opts, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// parseFlags builds the configuration: defaults, then the -config file, then
// any flags given explicitly on the command line.
func parseFlags(args []string, out io.Writer) (config.Config, options, error) {
	fs := flag.NewFlagSet("gargantua", flag.ContinueOnError)
	fs.SetOutput(out)

	var opts options
	configPath := fs.String("config", "", "Path to a TOML config file")
	fs.StringVar(&opts.mode, "mode", modeFrame, "Output: 'frame', 'sequence' (PNG per frame) or 'gif'")
	width := fs.Int("width", 0, "Image width in pixels")
	height := fs.Int("height", 0, "Image height in pixels")
	frames := fs.Int("frames", 0, "Number of frames for sequence and gif output")
	fps := fs.Float64("fps", 0, "Simulation frames per second")
	workers := fs.Int("workers", 0, "Number of render workers (0 = one per CPU)")
	assets := fs.String("assets", "", "Directory holding the texture assets")
	output := fs.String("output", "", "Directory for rendered images")
	noBloom := fs.Bool("no-bloom", false, "Disable the bloom pass")
	fs.BoolVar(&opts.verbose, "verbose", false, "Log every rendered frame")
	fs.BoolVar(&opts.quiet, "quiet", false, "Only log warnings and errors")
	fs.BoolVar(&opts.dumpConfig, "dump-config", false, "Print the effective config as TOML and exit")
	fs.Usage = func() {
		fmt.Fprintln(out, "Gargantua black hole renderer")
		fmt.Fprintln(out, "Usage: gargantua [options]")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Options:")
		fs.PrintDefaults()
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Output will be saved to <output>/render_<timestamp>.png, .gif or a sequence_<timestamp> directory")
	}

	if err := fs.Parse(args); err != nil {
		return config.Config{}, opts, err
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return config.Config{}, opts, err
		}
		cfg = loaded
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "width":
			cfg.Render.Width = *width
		case "height":
			cfg.Render.Height = *height
		case "frames":
			cfg.Sequence.Frames = *frames
		case "fps":
			cfg.Sequence.FPS = *fps
		case "workers":
			cfg.Render.Workers = *workers
		case "assets":
			cfg.AssetDir = *assets
		case "output":
			cfg.OutputDir = *output
		case "no-bloom":
			cfg.Bloom.Enabled = !*noBloom
		}
	})

	switch opts.mode {
	case modeFrame, modeSequence, modeGIF:
	default:
		return config.Config{}, opts, fmt.Errorf("unknown mode %q", opts.mode)
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, opts, err
	}
	return cfg, opts, nil
}

// run renders according to opts.mode and writes the result under cfg.OutputDir
func run(ctx context.Context, cfg config.Config, opts options, logger core.Logger) error {
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	start := time.Now()
	compositor := renderer.NewCompositor(loaders.LoadAssets(cfg.AssetDir, logger))
	frames := renderer.NewFrameRenderer(compositor, renderer.FrameConfig{
		TileSize:   cfg.Render.TileSize,
		NumWorkers: cfg.Render.Workers,
	}, logger)
	timestamp := time.Now().Format("20060102_150405")

	var err error
	switch opts.mode {
	case modeFrame:
		err = renderSingle(cfg, frames, filepath.Join(cfg.OutputDir, fmt.Sprintf("render_%s.png", timestamp)), logger)
	case modeSequence:
		dir := filepath.Join(cfg.OutputDir, "sequence_"+timestamp)
		err = renderSequence(ctx, cfg, frames, dir, opts.verbose, logger)
	case modeGIF:
		err = renderGIF(ctx, cfg, frames, filepath.Join(cfg.OutputDir, fmt.Sprintf("render_%s.gif", timestamp)), opts.verbose, logger)
	}
	if err != nil {
		return err
	}

	logger.Printf("Finished in %v\n", time.Since(start))
	return nil
}

// newDirector places the camera from cfg
func newDirector(cfg config.Config) *scene.Director {
	director := scene.NewDirector(cfg.Render.Width, cfg.Render.Height)
	director.SetCamera(cfg.CameraPosition(), cfg.CameraTarget())
	director.SetAutoRotate(cfg.Camera.AutoRotate)
	return director
}

// newBloom returns the configured bloom pass, or nil when disabled
func newBloom(cfg config.Config) *postfx.Bloom {
	if !cfg.Bloom.Enabled {
		return nil
	}
	return &postfx.Bloom{
		Strength:  cfg.Bloom.Strength,
		Radius:    cfg.Bloom.Radius,
		Threshold: cfg.Bloom.Threshold,
		Levels:    postfx.DefaultLevels,
	}
}

// newSequence builds a sequence renderer that flies from the configured
// camera toward the horizon.
func newSequence(cfg config.Config, frames *renderer.FrameRenderer, logger core.Logger) *renderer.SequenceRenderer {
	seq := renderer.SequenceConfig{
		Frames:     cfg.Sequence.Frames,
		FPS:        cfg.Sequence.FPS,
		TunnelExit: cfg.Sequence.TunnelExit,
	}
	if cfg.Sequence.FlyIn > 0 {
		seq.Path = renderer.FlyIn(cfg.CameraPosition(), renderer.HorizonApproach, cfg.Sequence.FlyIn)
	}
	return renderer.NewSequenceRenderer(newDirector(cfg), frames, seq, logger)
}

func renderSingle(cfg config.Config, frames *renderer.FrameRenderer, filename string, logger core.Logger) error {
	defer frames.Close()

	frame, err := frames.Render(newDirector(cfg).Advance(0, 0))
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	logger.Printf("Render completed in %v (%.1f steps/pixel, max %d)\n",
		frame.Stats.Duration, frame.Stats.AverageSteps, frame.Stats.MaxStepsUsed)

	if err := writePNG(filename, postfx.Finish(frame.Primary, frame.Overlay, newBloom(cfg))); err != nil {
		return err
	}
	logger.Printf("Render saved as %s\n", filename)
	return nil
}

// renderSequence writes one PNG per frame. Rendering is serial; bloom and
// encoding run concurrently with a bounded number of frames in flight.
func renderSequence(ctx context.Context, cfg config.Config, frames *renderer.FrameRenderer, dir string, verbose bool, logger core.Logger) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create sequence directory: %w", err)
	}

	bloom := newBloom(cfg)

	// A failed write cancels gctx, which stops the sequence before its next frame
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	frameChan, errChan := newSequence(cfg, frames, logger).RenderSequence(gctx)
	for sf := range frameChan {
		if verbose {
			logFrame(logger, sf)
		}
		g.Go(func() error {
			img := postfx.Finish(sf.Frame.Primary, sf.Frame.Overlay, bloom)
			return writePNG(filepath.Join(dir, fmt.Sprintf("frame_%04d.png", sf.Index)), img)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	if err := <-errChan; err != nil {
		return fmt.Errorf("sequence failed: %w", err)
	}
	logger.Printf("Sequence saved to %s\n", dir)
	return nil
}

// renderGIF renders the sequence into a single animated GIF.
func renderGIF(ctx context.Context, cfg config.Config, frames *renderer.FrameRenderer, filename string, verbose bool, logger core.Logger) error {
	bloom := newBloom(cfg)

	out := &gif.GIF{}
	paletted := make([]*image.Paletted, cfg.Sequence.Frames)
	delay := max(1, int(100/cfg.Sequence.FPS+0.5))

	// Each goroutine owns one slot of paletted
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	frameChan, errChan := newSequence(cfg, frames, logger).RenderSequence(gctx)
	for sf := range frameChan {
		if verbose {
			logFrame(logger, sf)
		}
		g.Go(func() error {
			paletted[sf.Index] = toPaletted(postfx.Finish(sf.Frame.Primary, sf.Frame.Overlay, bloom))
			return nil
		})
		out.Delay = append(out.Delay, delay)
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if err := <-errChan; err != nil {
		return fmt.Errorf("sequence failed: %w", err)
	}
	out.Image = paletted[:len(out.Delay)]

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filename, err)
	}
	defer f.Close()
	if err := gif.EncodeAll(f, out); err != nil {
		return fmt.Errorf("failed to encode gif: %w", err)
	}
	logger.Printf("Animation saved as %s\n", filename)
	return nil
}

func logFrame(logger core.Logger, sf renderer.SequenceFrame) {
	s := sf.Frame.State
	core.Debugf(logger, "Frame %d: t=%.2fs %s transition=%.2f luminance=%.3f in %v\n",
		sf.Index, s.Time, s.Mode, s.Transition,
		renderer.CalculateAverageLuminance(sf.Frame.Primary), sf.Frame.Stats.Duration)
}

// toPaletted quantizes img to the Plan 9 palette with error diffusion
func toPaletted(img image.Image) *image.Paletted {
	p := image.NewPaletted(img.Bounds(), palette.Plan9)
	draw.FloydSteinberg.Draw(p, p.Bounds(), img, img.Bounds().Min)
	return p
}

func writePNG(filename string, img image.Image) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filename, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("failed to save PNG %s: %w", filename, err)
	}
	return nil
}
