package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/plus3/quickfps/ecs"
	"github.com/plus3/quickfps/ecs/debugui"
	debugui_ebiten "github.com/plus3/quickfps/ecs/debugui/ebiten"
	"github.com/plus3/quickfps/game"
	"github.com/plus3/quickfps/internal/config"
	"github.com/plus3/quickfps/internal/logging"
	"github.com/plus3/quickfps/internal/metrics"
	"github.com/plus3/quickfps/spatial"
)

const (
	ScreenWidth  = 1280
	ScreenHeight = 720
)

type Game struct {
	session  *game.Session
	renderer *topDownRenderer
	imgui    *debugui_ebiten.ImguiBackend
	aimMode  bool
}

func main() {
	configPath := flag.String("config", "", "Path to the YAML configuration file.")
	logLevel := flag.String("log-level", "", "Override the configured log level.")
	metricsAddr := flag.String("metrics", "", "Override the metrics listen address.")
	debug := flag.Bool("debug", false, "Show the Dear ImGui debug overlay.")
	seed := flag.Uint64("seed", uint64(time.Now().UnixNano()), "Random seed for target placement.")
	flag.Parse()

	if err := run(*configPath, *logLevel, *metricsAddr, *debug, *seed); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath, logLevel, metricsAddr string, debug bool, seed uint64) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if metricsAddr != "" {
		cfg.Metrics.Addr = metricsAddr
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return err
	}
	defer logger.Sync()

	registry := prometheus.NewRegistry()
	recorder := metrics.NewRecorder(registry, nil)
	stopMetrics := serveMetrics(cfg.Metrics.Addr, registry, logger)
	defer stopMetrics()

	var backend *debugui_ebiten.ImguiBackend
	if debug {
		backend = debugui_ebiten.NewImguiBackend("quickfps", ScreenWidth, ScreenHeight)
	} else {
		ebiten.SetWindowSize(ScreenWidth, ScreenHeight)
		ebiten.SetWindowTitle("quickfps")
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.Loop.TickRate)

	input := &ebitenInput{}
	renderer := &topDownRenderer{zoom: 0.1}

	session, err := game.NewSession(game.SessionConfig{
		Bounds: spatial.Bounds{
			Min: spatial.Vec2{X: cfg.World.Min[0], Y: cfg.World.Min[1]},
			Max: spatial.Vec2{X: cfg.World.Max[0], Y: cfg.World.Max[1]},
		},
		Dimensions: spatial.Dimensions{Columns: cfg.World.Columns, Rows: cfg.World.Rows},
		Targets: game.TargetSettings{
			Count:    cfg.Targets.Count,
			Spacing:  cfg.Targets.Spacing,
			Radius:   cfg.Targets.Radius,
			Lifetime: cfg.Targets.Lifetime,
			Speed:    150,
		},
		MaxStep: cfg.Loop.MaxStep,
		Seed:    seed,
	}, input, renderer, recorder, logger)
	if err != nil {
		return err
	}
	defer session.Close()

	recorder.TrackGrid(session.Grid)
	renderer.manager = session.Manager
	renderer.player = session.Player

	if backend != nil {
		overlay := ecs.NewEntity()
		overlay.AddComponent(debugui.NewOverlay(session.Manager, session.Grid))
		if err := session.Manager.Add(overlay, "debug"); err != nil {
			return err
		}
		input.suppressed = func() bool {
			state, _ := ecs.Attribute[debugui.ImguiInputState](overlay)
			return state.WantCaptureMouse
		}
	}

	g := &Game{
		session:  session,
		renderer: renderer,
		imgui:    backend,
	}
	g.setAimMode(true)

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

func (g *Game) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyQ) || ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	// Ctrl+Alt captures the cursor for aiming, Ctrl alone releases it.
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControlLeft)
	if ctrl && inpututil.IsKeyJustPressed(ebiten.KeyAltLeft) {
		g.setAimMode(true)
	} else if inpututil.IsKeyJustPressed(ebiten.KeyControlLeft) && !ebiten.IsKeyPressed(ebiten.KeyAltLeft) {
		g.setAimMode(false)
	}

	now := time.Now()
	if g.imgui != nil {
		g.imgui.Frame(func() {
			g.session.Loop.Tick(now)
		})
		return nil
	}
	g.session.Loop.Tick(now)
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(screen)
	if g.imgui != nil {
		g.imgui.Present(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.imgui != nil {
		g.imgui.Layout(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

func (g *Game) setAimMode(on bool) {
	g.aimMode = on
	if on {
		ebiten.SetCursorMode(ebiten.CursorModeCaptured)
		return
	}
	ebiten.SetCursorMode(ebiten.CursorModeVisible)
}

// serveMetrics exposes registry on addr until the returned function is
// called. An empty addr disables the endpoint.
func serveMetrics(addr string, registry *prometheus.Registry, logger *zap.Logger) func() {
	if addr == "" {
		return func() {}
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(registry))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logger.Info("metrics endpoint listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics endpoint failed", zap.Error(err))
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
