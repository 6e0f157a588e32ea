package memory

import (
	"sync"

	"github.com/Faultbox/voxelmap/internal/minimap"
	"github.com/Faultbox/voxelmap/pkg/palette"
)

var _ minimap.World = (*World)(nil)

// World is a thread-safe map of chunks. Columns in chunks that were never
// stored count as unloaded.
type World struct {
	mu     sync.RWMutex
	chunks map[ChunkPos]*Chunk
	noSky  bool
}

// New creates an empty world. noSky selects the cave scan mode.
func New(noSky bool) *World {
	return &World{
		chunks: make(map[ChunkPos]*Chunk),
		noSky:  noSky,
	}
}

// Store loads c, replacing any chunk at the same position.
func (w *World) Store(c *Chunk) {
	w.mu.Lock()
	w.chunks[c.Pos] = c
	w.mu.Unlock()
}

// Unload drops the chunk at pos.
func (w *World) Unload(pos ChunkPos) {
	w.mu.Lock()
	delete(w.chunks, pos)
	w.mu.Unlock()
}

// Chunk returns the chunk at pos if it is loaded.
func (w *World) Chunk(pos ChunkPos) (*Chunk, bool) {
	w.mu.RLock()
	c, ok := w.chunks[pos]
	w.mu.RUnlock()
	return c, ok
}

// Loaded returns the number of loaded chunks.
func (w *World) Loaded() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.chunks)
}

// SetBlock stores a block at world (x, y, z), loading an empty chunk first
// when needed.
func (w *World) SetBlock(x, y, z int, b palette.Block) {
	pos := PosOf(x, z)

	w.mu.Lock()
	defer w.mu.Unlock()
	c, ok := w.chunks[pos]
	if !ok {
		c = NewChunk(pos)
		w.chunks[pos] = c
	}
	c.Set(x&15, y, z&15, b)
}

// SurfaceHeight implements minimap.World.
func (w *World) SurfaceHeight(x, z int) int {
	c, ok := w.Chunk(PosOf(x, z))
	if !ok {
		return -1
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	return c.Height(x&15, z&15)
}

// VoxelAt implements minimap.World.
func (w *World) VoxelAt(x, y, z int) palette.Block {
	w.mu.RLock()
	defer w.mu.RUnlock()
	c, ok := w.chunks[PosOf(x, z)]
	if !ok {
		return palette.Block{}
	}
	return c.Block(x&15, y, z&15)
}

// IsLiquid implements minimap.World.
func (w *World) IsLiquid(b palette.Block) bool {
	return palette.IsLiquid(b)
}

// IsChunkLoaded implements minimap.World.
func (w *World) IsChunkLoaded(x, z int) bool {
	_, ok := w.Chunk(PosOf(x, z))
	return ok
}

// HasNoSky implements minimap.World.
func (w *World) HasNoSky() bool {
	return w.noSky
}
