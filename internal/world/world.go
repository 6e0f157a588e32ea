// Package world opens the minimap world backend selected by configuration.
package world

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/voxelmap/internal/config"
	"github.com/Faultbox/voxelmap/internal/logger"
	"github.com/Faultbox/voxelmap/internal/minimap"
	"github.com/Faultbox/voxelmap/internal/world/anvil"
	"github.com/Faultbox/voxelmap/internal/world/memory"
	"github.com/Faultbox/voxelmap/internal/world/procgen"
)

// ErrUnsupportedDimension is returned for dimensions a source cannot serve.
var ErrUnsupportedDimension = errors.New("unsupported dimension")

// Backend is one opened world dimension.
type Backend struct {
	World     minimap.World
	Source    string
	Dimension string

	streamer *procgen.Streamer // procgen only
	region   *anvil.World      // anvil only
}

// Stats reports backend counters for metrics.
type Stats struct {
	Loaded  int   // Chunks resident in a generated world
	Decoded int64 // Chunks decoded from region files
	Failed  int64 // Chunks that failed to decode
	Regions int   // Open region files
}

// Open opens dimension of the world described by cfg.
func Open(cfg config.WorldConfig, dimension string) (*Backend, error) {
	b := &Backend{Source: cfg.Source, Dimension: dimension}

	switch cfg.Source {
	case config.SourceProcgen:
		var dim procgen.Dimension
		switch dimension {
		case config.DimensionOverworld:
			dim = procgen.Overworld
		case config.DimensionNether:
			dim = procgen.Nether
		default:
			return nil, fmt.Errorf("procgen %s: %w", dimension, ErrUnsupportedDimension)
		}
		mem := memory.New(dim == procgen.Nether)
		b.streamer = procgen.NewStreamer(procgen.New(cfg.Seed, dim), mem, cfg.GenerateRadius, cfg.GenerateBudget)
		b.World = mem

	case config.SourceAnvil:
		if cfg.Path == "" {
			return nil, errors.New("anvil world needs a path")
		}
		w, err := anvil.Open(anvil.Options{
			Dir:         anvil.RegionDir(cfg.Path, dimension),
			NoSky:       dimension != config.DimensionOverworld,
			CacheChunks: cfg.CacheChunks,
		})
		if err != nil {
			return nil, fmt.Errorf("anvil %s: %w", dimension, err)
		}
		b.region = w
		b.World = w

	default:
		return nil, fmt.Errorf("unknown world source %q", cfg.Source)
	}

	logger.Info("world backend opened",
		zap.String("source", b.Source),
		zap.String("dimension", b.Dimension))
	return b, nil
}

// Prepare generates chunks around column (x, z) for procgen worlds. Region
// backed worlds are read on demand, so it does nothing for them.
func (b *Backend) Prepare(x, z int) int {
	if b.streamer == nil {
		return 0
	}
	return b.streamer.Prepare(x, z)
}

// Anvil returns the region world, or nil for generated worlds.
func (b *Backend) Anvil() *anvil.World {
	return b.region
}

// Stats returns the current counters.
func (b *Backend) Stats() Stats {
	var st Stats
	if b.streamer != nil {
		st.Loaded = b.streamer.World().Loaded()
	}
	if b.region != nil {
		rs := b.region.Stats()
		st.Decoded, st.Failed, st.Regions = rs.Decoded, rs.Failed, rs.Regions
	}
	return st
}

// Close releases region files. It is a no-op for generated worlds.
func (b *Backend) Close() error {
	if b.region != nil {
		return b.region.Close()
	}
	return nil
}

// NextDimension returns the dimension after current in the cycle a source
// supports: generated worlds alternate overworld and nether, saves also
// visit the end.
func NextDimension(source, current string) string {
	cycle := []string{config.DimensionOverworld, config.DimensionNether}
	if source == config.SourceAnvil {
		cycle = append(cycle, config.DimensionEnd)
	}
	for i, d := range cycle {
		if d == current {
			return cycle[(i+1)%len(cycle)]
		}
	}
	return config.DimensionOverworld
}
