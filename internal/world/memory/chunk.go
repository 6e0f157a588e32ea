// Package memory implements an in-memory chunked voxel world.
package memory

import "github.com/Faultbox/voxelmap/pkg/palette"

// Chunk geometry.
const (
	ChunkSize = 16
	Height    = 256
)

// ChunkPos identifies a chunk by its chunk coordinates.
type ChunkPos struct {
	X, Z int
}

// PosOf returns the chunk holding world column (x, z).
func PosOf(x, z int) ChunkPos {
	return ChunkPos{X: x >> 4, Z: z >> 4}
}

// Chunk is a 16x256x16 block column with a maintained heightmap.
// Coordinates passed to Chunk methods are chunk-local.
type Chunk struct {
	Pos     ChunkPos
	blocks  [ChunkSize * ChunkSize * Height]palette.Block
	heights [ChunkSize * ChunkSize]int16
}

// NewChunk returns an empty chunk at pos.
func NewChunk(pos ChunkPos) *Chunk {
	c := &Chunk{Pos: pos}
	for i := range c.heights {
		c.heights[i] = -1
	}
	return c
}

func blockIndex(x, y, z int) int {
	return (y*ChunkSize+z)*ChunkSize + x
}

// Block returns the block at local (x, y, z). Out of range y is air.
func (c *Chunk) Block(x, y, z int) palette.Block {
	if y < 0 || y >= Height {
		return palette.Block{}
	}
	return c.blocks[blockIndex(x, y, z)]
}

// Height returns the y of the highest non-air block in local column (x, z),
// or -1 for an empty column.
func (c *Chunk) Height(x, z int) int {
	return int(c.heights[z*ChunkSize+x])
}

// Set stores a block at local (x, y, z) and keeps the heightmap current.
// Writes outside [0, Height) are ignored.
func (c *Chunk) Set(x, y, z int, b palette.Block) {
	if y < 0 || y >= Height {
		return
	}
	c.blocks[blockIndex(x, y, z)] = b

	h := &c.heights[z*ChunkSize+x]
	switch {
	case b.ID != palette.BlockAir && y > int(*h):
		*h = int16(y)
	case b.ID == palette.BlockAir && y == int(*h):
		for *h >= 0 && c.blocks[blockIndex(x, int(*h), z)].ID == palette.BlockAir {
			*h--
		}
	}
}

// Fill sets blocks from..to (inclusive) in local column (x, z).
func (c *Chunk) Fill(x, z, from, to int, b palette.Block) {
	for y := max(from, 0); y <= min(to, Height-1); y++ {
		c.Set(x, y, z, b)
	}
}
