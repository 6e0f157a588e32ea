package procgen

import (
	"slices"

	"go.uber.org/zap"

	"github.com/Faultbox/voxelmap/internal/logger"
	"github.com/Faultbox/voxelmap/internal/world/memory"
)

// Streamer keeps the chunks around a moving viewer generated. Chunks are
// produced nearest first, at most budget per Prepare call, and chunks far
// outside the radius are unloaded again.
type Streamer struct {
	gen    *Generator
	world  *memory.World
	radius int
	budget int

	// offsets lists every chunk offset within radius, nearest first.
	offsets []memory.ChunkPos
	loaded  map[memory.ChunkPos]struct{}
	log     *zap.Logger
}

// NewStreamer creates a streamer filling world. radius is in chunks.
func NewStreamer(gen *Generator, world *memory.World, radius, budget int) *Streamer {
	radius = max(radius, 1)
	s := &Streamer{
		gen:    gen,
		world:  world,
		radius: radius,
		budget: max(budget, 1),
		loaded: make(map[memory.ChunkPos]struct{}),
		log:    logger.Named("procgen"),
	}

	for dx := -radius; dx <= radius; dx++ {
		for dz := -radius; dz <= radius; dz++ {
			if dx*dx+dz*dz <= radius*radius {
				s.offsets = append(s.offsets, memory.ChunkPos{X: dx, Z: dz})
			}
		}
	}
	slices.SortStableFunc(s.offsets, func(a, b memory.ChunkPos) int {
		return (a.X*a.X + a.Z*a.Z) - (b.X*b.X + b.Z*b.Z)
	})
	return s
}

// World returns the world being filled.
func (s *Streamer) World() *memory.World {
	return s.world
}

// Prepare generates missing chunks around world column (x, z) and returns
// how many it generated. It is called from the tick goroutine only.
func (s *Streamer) Prepare(x, z int) int {
	center := memory.PosOf(x, z)

	generated := 0
	for _, off := range s.offsets {
		if generated >= s.budget {
			break
		}
		pos := memory.ChunkPos{X: center.X + off.X, Z: center.Z + off.Z}
		if _, ok := s.loaded[pos]; ok {
			continue
		}
		s.world.Store(s.gen.Generate(pos))
		s.loaded[pos] = struct{}{}
		generated++
	}

	s.evict(center)

	if generated > 0 {
		s.log.Debug("chunks generated",
			zap.Int("count", generated),
			zap.Int("loaded", len(s.loaded)),
			zap.Int("chunkX", center.X),
			zap.Int("chunkZ", center.Z))
	}
	return generated
}

// evict unloads chunks two or more chunks beyond the radius.
func (s *Streamer) evict(center memory.ChunkPos) {
	limit := s.radius + 2
	for pos := range s.loaded {
		dx, dz := pos.X-center.X, pos.Z-center.Z
		if dx*dx+dz*dz > limit*limit {
			s.world.Unload(pos)
			delete(s.loaded, pos)
		}
	}
}
