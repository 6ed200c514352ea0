// Command viewer opens an interactive window onto the black hole. Drag with
// the left mouse button to orbit, use the wheel to zoom, and scroll up or
// press space to climb back out of the tunnel.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/df07/go-gargantua/pkg/config"
	"github.com/df07/go-gargantua/pkg/core"
	"github.com/df07/go-gargantua/pkg/loaders"
	"github.com/df07/go-gargantua/pkg/postfx"
	"github.com/df07/go-gargantua/pkg/renderer"
	"github.com/df07/go-gargantua/pkg/scene"
	"github.com/df07/go-gargantua/viewer/session"
)

func main() {
	configPath := flag.String("config", "", "Path to a TOML config file")
	assets := flag.String("assets", "", "Directory holding the texture assets (overrides config)")
	scale := flag.Float64("scale", 0, "Fraction of the window that is ray marched (overrides config)")
	autoRotate := flag.Bool("auto-rotate", true, "Slowly orbit the camera while idle")
	flag.Parse()

	logger := renderer.NewDefaultLogger()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			core.Errorf(logger, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *assets != "" {
		cfg.AssetDir = *assets
	}
	if *scale != 0 {
		cfg.Viewer.RenderScale = *scale
	}
	if err := cfg.Validate(); err != nil {
		core.Errorf(logger, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, *autoRotate, logger); err != nil {
		core.Errorf(logger, "Viewer error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, autoRotate bool, logger core.Logger) error {
	compositor := renderer.NewCompositor(loaders.LoadAssets(cfg.AssetDir, logger))

	rate := 0.0
	if autoRotate {
		rate = cfg.Camera.AutoRotate
		if rate == 0 {
			rate = scene.AutoRotateRate
		}
	}

	var bloom *postfx.Bloom
	if cfg.Bloom.Enabled {
		bloom = &postfx.Bloom{
			Strength:  cfg.Bloom.Strength,
			Radius:    cfg.Bloom.Radius,
			Threshold: cfg.Bloom.Threshold,
			Levels:    postfx.DefaultLevels,
		}
	}

	s := session.New(compositor,
		renderer.FrameConfig{TileSize: cfg.Render.TileSize, NumWorkers: cfg.Render.Workers},
		session.Options{
			Width:       cfg.Render.Width,
			Height:      cfg.Render.Height,
			RenderScale: cfg.Viewer.RenderScale,
			AutoRotate:  rate,
			Bloom:       bloom,
		},
		cfg.CameraPosition(), cfg.CameraTarget(), logger)
	defer s.Close()

	g := &game{session: s, start: time.Now(), hud: true}
	ebiten.SetWindowTitle("Gargantua")
	ebiten.SetWindowSize(cfg.Render.Width, cfg.Render.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(60)

	logger.Printf("Viewer started at %dx%d, ray marching at %.0f%% scale\n",
		cfg.Render.Width, cfg.Render.Height, cfg.Viewer.RenderScale*100)
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

// game adapts a session to ebiten's update and draw loop
type game struct {
	session *session.Session
	start   time.Time

	width, height int

	dragging     bool
	prevX, prevY int
	hud          bool

	frame *ebiten.Image
	shown *image.RGBA
}

func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.hud = !g.hud
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.session.ResetCamera()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.session.Advance()
	}

	mx, my := ebiten.CursorPosition()
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		if g.dragging {
			g.session.Drag(float64(mx-g.prevX), float64(my-g.prevY))
		}
		g.dragging = true
		g.prevX, g.prevY = mx, my
	} else {
		g.dragging = false
	}

	if _, wheel := ebiten.Wheel(); wheel != 0 {
		g.session.Wheel(wheel)
	}

	g.session.Resize(g.width, g.height)
	g.session.Tick(time.Since(g.start).Seconds())
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	img, state, stats := g.session.Latest()
	if img == nil {
		ebitenutil.DebugPrint(screen, "Rendering first frame...")
		return
	}

	if img != g.shown {
		b := img.Bounds()
		if g.frame == nil || g.frame.Bounds().Size() != b.Size() {
			if g.frame != nil {
				g.frame.Deallocate()
			}
			g.frame = ebiten.NewImage(b.Dx(), b.Dy())
		}
		g.frame.WritePixels(img.Pix)
		g.shown = img
	}

	// The session scales to the window, but a resize may land between
	// frames, so stretch whatever is shown to fill the screen.
	op := &ebiten.DrawImageOptions{}
	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	fw, fh := g.frame.Bounds().Dx(), g.frame.Bounds().Dy()
	op.GeoM.Scale(float64(sw)/float64(fw), float64(sh)/float64(fh))
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(g.frame, op)

	if g.hud {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("%s  %dx%d  %.0f ms  %.1f steps/px  TPS %.0f",
			state.Mode, state.Width, state.Height,
			float64(stats.Duration.Microseconds())/1000, stats.AverageSteps, ebiten.ActualTPS()))
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.width, g.height = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}
