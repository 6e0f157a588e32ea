// Package procgen generates deterministic terrain chunks from Perlin noise.
package procgen

import (
	"github.com/aquilax/go-perlin"

	"github.com/Faultbox/voxelmap/internal/world/memory"
	"github.com/Faultbox/voxelmap/pkg/palette"
)

// Dimension selects the terrain style.
type Dimension int

const (
	Overworld Dimension = iota
	Nether
)

// String returns the dimension name.
func (d Dimension) String() string {
	if d == Nether {
		return "nether"
	}
	return "overworld"
}

// Noise parameters, as used for the 2D block worlds elsewhere.
const (
	noiseAlpha   = 2.0 // Smoothing
	noiseBeta    = 2.0 // Frequency multiplier per octave
	noiseOctaves = 3
)

// Overworld shape.
const (
	SeaLevel     = 62
	baseHeight   = 66
	heightRange  = 36
	heightScale  = 0.008
	detailScale  = 0.05
	detailRange  = 4
	biomeScale   = 0.004
	snowLine     = 92
	beachHeight  = SeaLevel + 2
	treeChance   = 12 // Per mille in forests
	forestCutoff = 0.15
	desertCutoff = -0.2
)

// Nether shape.
const (
	NetherRoof    = 127
	netherLava    = 31
	caveScaleXZ   = 0.045
	caveScaleY    = 0.08
	caveThreshold = 0.05
)

var (
	bedrock    = palette.Block{ID: palette.BlockBedrock}
	stone      = palette.Block{ID: palette.BlockStone}
	dirt       = palette.Block{ID: palette.BlockDirt}
	grass      = palette.Block{ID: palette.BlockGrass}
	sand       = palette.Block{ID: palette.BlockSand}
	gravel     = palette.Block{ID: palette.BlockGravel}
	water      = palette.Block{ID: palette.BlockWater}
	lava       = palette.Block{ID: palette.BlockLava}
	snow       = palette.Block{ID: palette.BlockSnowLayer}
	trunk      = palette.Block{ID: palette.BlockLog}
	leaves     = palette.Block{ID: palette.BlockLeaves}
	netherrack = palette.Block{ID: palette.BlockNetherrack}
	glowstone  = palette.Block{ID: palette.BlockGlowstone}
)

// Generator produces chunks for one seed and dimension. It is safe for
// concurrent use; Generate only reads its state.
type Generator struct {
	seed   int64
	dim    Dimension
	height *perlin.Perlin
	detail *perlin.Perlin
	biome  *perlin.Perlin
	caves  *perlin.Perlin
}

// New creates a generator.
func New(seed int64, dim Dimension) *Generator {
	return &Generator{
		seed:   seed,
		dim:    dim,
		height: perlin.NewPerlin(noiseAlpha, noiseBeta, noiseOctaves, seed),
		detail: perlin.NewPerlin(noiseAlpha, noiseBeta, noiseOctaves, seed+1),
		biome:  perlin.NewPerlin(noiseAlpha, noiseBeta, noiseOctaves, seed+42),
		caves:  perlin.NewPerlin(noiseAlpha, noiseBeta, noiseOctaves, seed+7),
	}
}

// Dimension returns the terrain style.
func (g *Generator) Dimension() Dimension {
	return g.dim
}

// Seed returns the generator seed.
func (g *Generator) Seed() int64 {
	return g.seed
}

// Generate builds the chunk at pos.
func (g *Generator) Generate(pos memory.ChunkPos) *memory.Chunk {
	c := memory.NewChunk(pos)
	if g.dim == Nether {
		g.nether(c)
	} else {
		g.overworld(c)
	}
	return c
}

// TerrainHeight returns the overworld ground height at world column (x, z).
func (g *Generator) TerrainHeight(x, z int) int {
	fx, fz := float64(x), float64(z)
	h := float64(baseHeight) +
		g.height.Noise2D(fx*heightScale, fz*heightScale)*heightRange +
		g.detail.Noise2D(fx*detailScale, fz*detailScale)*detailRange
	return min(max(int(h), 1), memory.Height-16)
}

func (g *Generator) overworld(c *memory.Chunk) {
	baseX, baseZ := c.Pos.X<<4, c.Pos.Z<<4

	for x := 0; x < memory.ChunkSize; x++ {
		for z := 0; z < memory.ChunkSize; z++ {
			wx, wz := baseX+x, baseZ+z
			h := g.TerrainHeight(wx, wz)
			b := g.biome.Noise2D(float64(wx)*biomeScale, float64(wz)*biomeScale)

			c.Set(x, 0, z, bedrock)
			c.Fill(x, z, 1, h-4, stone)

			top, filler := grass, dirt
			switch {
			case h < SeaLevel:
				top, filler = gravel, gravel
				if h >= SeaLevel-3 {
					top, filler = sand, sand
				}
			case h <= beachHeight || b < desertCutoff:
				top, filler = sand, sand
			}
			c.Fill(x, z, h-3, h-1, filler)
			c.Set(x, h, z, top)

			if h < SeaLevel {
				c.Fill(x, z, h+1, SeaLevel, water)
				continue
			}
			if h >= snowLine {
				c.Set(x, h+1, z, snow)
				continue
			}
			if top == grass && b > forestCutoff && g.chance(wx, wz, treeChance) && inside(x, z) {
				g.tree(c, x, h+1, z, 4+int(g.hash(wx, wz)%3))
			}
		}
	}
}

// tree places a trunk with a 3x3 canopy. Callers keep x and z one block
// away from the chunk edge.
func (g *Generator) tree(c *memory.Chunk, x, y, z, height int) {
	top := y + height - 1
	for dx := -1; dx <= 1; dx++ {
		for dz := -1; dz <= 1; dz++ {
			c.Fill(x+dx, z+dz, top-1, top+1, leaves)
		}
	}
	c.Fill(x, z, y, top, trunk)
}

func (g *Generator) nether(c *memory.Chunk) {
	baseX, baseZ := c.Pos.X<<4, c.Pos.Z<<4

	for x := 0; x < memory.ChunkSize; x++ {
		for z := 0; z < memory.ChunkSize; z++ {
			wx, wz := baseX+x, baseZ+z
			fx, fz := float64(wx)*caveScaleXZ, float64(wz)*caveScaleXZ

			c.Set(x, 0, z, bedrock)
			c.Set(x, NetherRoof, z, bedrock)
			for y := 1; y < NetherRoof; y++ {
				// Pull the density towards solid near floor and roof.
				edge := float64(min(y, NetherRoof-y)) / 24
				density := g.caves.Noise3D(fx, float64(y)*caveScaleY, fz) + 0.3/max(edge, 0.1) - 0.3
				switch {
				case density > caveThreshold:
					c.Set(x, y, z, netherrack)
				case y <= netherLava:
					c.Set(x, y, z, lava)
				}
			}
			if g.chance(wx, wz, 4) {
				// Glowstone hangs under the roof.
				for y := NetherRoof - 1; y > netherLava; y-- {
					if c.Block(x, y, z).ID == palette.BlockAir {
						c.Set(x, y, z, glowstone)
						break
					}
				}
			}
		}
	}
}

func inside(x, z int) bool {
	return x > 0 && x < memory.ChunkSize-1 && z > 0 && z < memory.ChunkSize-1
}

// chance reports true for about perMille of all columns, fixed per seed.
func (g *Generator) chance(x, z int, perMille uint64) bool {
	return g.hash(x, z)%1000 < perMille
}

// hash mixes seed and column into a well distributed value (splitmix64).
func (g *Generator) hash(x, z int) uint64 {
	v := uint64(g.seed) ^ uint64(int64(x))*0x9E3779B97F4A7C15 ^ uint64(int64(z))*0xC2B2AE3D27D4EB4F
	v ^= v >> 30
	v *= 0xBF58476D1CE4E5B9
	v ^= v >> 27
	v *= 0x94D049BB133111EB
	v ^= v >> 31
	return v
}
