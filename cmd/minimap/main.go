// Package main is the entry point for the interactive minimap viewer.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/Faultbox/voxelmap/internal/config"
	"github.com/Faultbox/voxelmap/internal/game"
	"github.com/Faultbox/voxelmap/internal/logger"
	"github.com/Faultbox/voxelmap/internal/metrics"
	"github.com/Faultbox/voxelmap/internal/minimap"
	"github.com/Faultbox/voxelmap/internal/session"
	"github.com/Faultbox/voxelmap/internal/world"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== voxelmap ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if err := run(cfg); err != nil {
		logger.Error("viewer error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Info("viewer closed normally")
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scanner, err := minimap.NewScanner(nil, cfg.Minimap.Zoom)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	sess := session.New(scanner, metrics.New(reg))

	backend, err := world.Open(cfg.World, cfg.World.Dimension)
	if err != nil {
		return fmt.Errorf("opening world: %w", err)
	}

	g, err := game.New(cfg, sess, backend)
	if err != nil {
		backend.Close()
		return fmt.Errorf("creating viewer: %w", err)
	}
	defer g.Close()

	if err := registerWorldGauges(reg, g); err != nil {
		return err
	}

	if cfg.Metrics.Listen != "" {
		snapshot := func() *minimap.Raster {
			r, _ := sess.Latest()
			return r
		}
		go func() {
			if err := metrics.Serve(ctx, cfg.Metrics.Listen, metrics.Handler(reg, snapshot)); err != nil {
				logger.Error("debug server failed", zap.Error(err))
			}
		}()
	}

	return g.Run(ctx)
}

// registerWorldGauges exposes counters of whichever backend the viewer
// currently shows.
func registerWorldGauges(reg prometheus.Registerer, g *game.Game) error {
	gauges := []struct {
		name, help string
		value      func(world.Stats) float64
	}{
		{"world_chunks_loaded", "Chunks resident in a generated world.",
			func(s world.Stats) float64 { return float64(s.Loaded) }},
		{"world_chunks_decoded", "Chunks decoded from region files.",
			func(s world.Stats) float64 { return float64(s.Decoded) }},
		{"world_chunks_failed", "Chunks that failed to decode.",
			func(s world.Stats) float64 { return float64(s.Failed) }},
		{"world_regions_open", "Region files currently open.",
			func(s world.Stats) float64 { return float64(s.Regions) }},
	}

	for _, gauge := range gauges {
		value := gauge.value
		err := metrics.RegisterGauge(reg, gauge.name, gauge.help, func() float64 {
			return value(g.Backend().Stats())
		})
		if err != nil {
			return fmt.Errorf("registering %s: %w", gauge.name, err)
		}
	}
	return nil
}
