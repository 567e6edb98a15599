package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand/v2"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/plus3/quickfps/ecs"
	"github.com/plus3/quickfps/frameloop"
	"github.com/plus3/quickfps/internal/config"
	"github.com/plus3/quickfps/internal/logging"
	"github.com/plus3/quickfps/internal/metrics"
	"github.com/plus3/quickfps/spatial"
)

// freeRunning delivers frames back to back.
type freeRunning struct{}

func (freeRunning) NextFrame(ctx context.Context) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}
	return time.Now(), nil
}

// sampler records the manager update time of every frame.
type sampler struct {
	*metrics.Recorder
	report *Report
}

func (s *sampler) ObservePass(stats ecs.PassStats) {
	s.Recorder.ObservePass(stats)
	s.report.UpdateTime.addPass(stats.LastDuration)
}

func (s *sampler) ObserveFrame(stats frameloop.FrameStats) {
	s.Recorder.ObserveFrame(stats)
	s.report.UpdateTime.endFrame()
}

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the test should run for.")
	entityCount := flag.Int("entities", 10000, "The initial number of entities to create.")
	radius := flag.Float64("radius", 150, "Neighbour query radius.")
	churnRate := flag.Float64("churn", 0.001, "Per-frame probability that an entity is replaced.")
	configPath := flag.String("config", "", "Path to the YAML configuration file.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.Log.Level, true)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Sugar()

	log.Info("Starting ECS stress test...")

	// 1. Setup grid, manager and metrics
	registry := prometheus.NewRegistry()
	report := &Report{
		Duration:       *duration,
		Entities:       *entityCount,
		Radius:         *radius,
		GCPauseMetrics: *gcPauseMetrics,
		UpdateTime: Stats{
			Samples: make([]time.Duration, 0),
		},
	}

	grid, err := spatial.NewGrid(spatial.Bounds{
		Min: spatial.Vec2{X: cfg.World.Min[0], Y: cfg.World.Min[1]},
		Max: spatial.Vec2{X: cfg.World.Max[0], Y: cfg.World.Max[1]},
	}, spatial.Dimensions{Columns: cfg.World.Columns, Rows: cfg.World.Rows}, spatial.WithLogger(logger))
	if err != nil {
		log.Fatalf("Failed to create grid: %v", err)
	}

	observer := &sampler{Recorder: metrics.NewRecorder(registry, grid), report: report}
	manager := ecs.NewEntityManager(ecs.WithLogger(logger.Named("ecs")), ecs.WithPassObserver(observer))
	loop := frameloop.New(manager, frameloop.WithObserver(observer), frameloop.WithMaxStep(cfg.Loop.MaxStep))

	// 2. Populate the manager with initial entities
	log.Infof("Populating manager with %d entities...", *entityCount)
	rng := rand.New(rand.NewPCG(1, 2))
	bounds := grid.Bounds()
	size := bounds.Size()

	var spawn func() *ecs.Entity
	spawn = func() *ecs.Entity {
		e := ecs.NewEntity()
		ecs.SetAttribute(e, position{Vec2: spatial.Vec2{
			X: bounds.Min.X + rng.Float64()*size.X,
			Y: bounds.Min.Y + rng.Float64()*size.Y,
		}})
		e.AddComponent(&steer{rand: rng, speed: 200})
		e.AddComponent(&move{grid: grid})
		e.AddComponent(&sense{grid: grid, radius: *radius, neighbors: &report.Neighbors})
		e.AddComponent(&churn{manager: manager, spawn: spawn, rand: rng, rate: *churnRate, removed: &report.Replaced})
		return e
	}
	for i := 0; i < *entityCount; i++ {
		if err := manager.Add(spawn(), ""); err != nil {
			log.Fatalf("Failed to add entity: %v", err)
		}
	}
	log.Info("Population complete.")

	// 3. Run the simulation loop next to the metrics endpoint
	runtime.ReadMemStats(&report.MemStatsStart)

	log.Infof("Running simulation for %s...", *duration)
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	startTime := time.Now()

	g.Go(func() error {
		return loop.Run(ctx, freeRunning{})
	})

	if cfg.Metrics.Addr != "" {
		srv := &http.Server{Addr: cfg.Metrics.Addr, Handler: metrics.Handler(registry), ReadHeaderTimeout: 5 * time.Second}
		g.Go(func() error {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, stop := context.WithTimeout(context.Background(), 2*time.Second)
			defer stop()
			return srv.Shutdown(shutdownCtx)
		})
	}

	if err := g.Wait(); err != nil {
		log.Fatalf("Simulation failed: %v", err)
	}

	report.TotalTime = time.Since(startTime)
	report.TotalUpdates = loop.Frames()
	report.ClampedUpdates = loop.ClampedFrames()
	report.GridClients = grid.Len()
	report.OccupiedCells = len(grid.OccupiedCells())
	report.Passes = manager.Stats().Passes
	report.UpdateTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)

	log.Infow("Simulation finished.", "frames", report.TotalUpdates)

	// 4. Generate Report to Console
	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}
	fmt.Println("--- End of Report ---")

	manager.Shutdown()
	log.Info("Stress test complete.")
}
