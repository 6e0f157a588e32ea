package memory

import (
	"sync"
	"testing"

	"github.com/Faultbox/voxelmap/internal/minimap"
	"github.com/Faultbox/voxelmap/pkg/palette"
)

var (
	stone = palette.Block{ID: palette.BlockStone}
	grass = palette.Block{ID: palette.BlockGrass}
	air   = palette.Block{}
)

func TestPosOf(t *testing.T) {
	tests := []struct {
		x, z int
		want ChunkPos
	}{
		{0, 0, ChunkPos{0, 0}},
		{15, 16, ChunkPos{0, 1}},
		{-1, -16, ChunkPos{-1, -1}},
		{-17, 33, ChunkPos{-2, 2}},
	}
	for _, tt := range tests {
		if got := PosOf(tt.x, tt.z); got != tt.want {
			t.Errorf("PosOf(%d,%d) = %v, want %v", tt.x, tt.z, got, tt.want)
		}
	}
}

func TestChunkHeightmap(t *testing.T) {
	c := NewChunk(ChunkPos{})

	if h := c.Height(3, 4); h != -1 {
		t.Fatalf("empty column height %d, want -1", h)
	}

	c.Fill(3, 4, 0, 62, stone)
	c.Set(3, 70, 4, grass)
	if h := c.Height(3, 4); h != 70 {
		t.Errorf("height %d, want 70", h)
	}

	c.Set(3, 70, 4, air)
	if h := c.Height(3, 4); h != 62 {
		t.Errorf("height after removing the top block %d, want 62", h)
	}

	c.Set(3, 10, 4, air)
	if h := c.Height(3, 4); h != 62 {
		t.Errorf("removing a buried block changed height to %d", h)
	}

	c.Set(3, 300, 4, grass)
	c.Set(3, -1, 4, grass)
	if h := c.Height(3, 4); h != 62 {
		t.Errorf("out of range writes changed height to %d", h)
	}
	if b := c.Block(3, 256, 4); b != air {
		t.Errorf("Block above the world = %v, want air", b)
	}
}

func TestWorldSampling(t *testing.T) {
	w := New(false)

	if w.IsChunkLoaded(0, 0) {
		t.Error("empty world reports a loaded chunk")
	}
	if h := w.SurfaceHeight(5, 5); h != -1 {
		t.Errorf("unloaded SurfaceHeight = %d, want -1", h)
	}

	w.SetBlock(-1, 64, -1, grass)
	if !w.IsChunkLoaded(-16, -16) {
		t.Error("SetBlock did not load chunk (-1,-1)")
	}
	if w.IsChunkLoaded(0, 0) {
		t.Error("SetBlock loaded the wrong chunk")
	}
	if got := w.VoxelAt(-1, 64, -1); got != grass {
		t.Errorf("VoxelAt = %v, want grass", got)
	}
	if h := w.SurfaceHeight(-1, -1); h != 64 {
		t.Errorf("SurfaceHeight = %d, want 64", h)
	}
	if got := w.VoxelAt(-1, -5, -1); got != air {
		t.Errorf("VoxelAt below the world = %v, want air", got)
	}

	w.Unload(ChunkPos{-1, -1})
	if w.Loaded() != 0 {
		t.Errorf("Loaded() = %d after unload", w.Loaded())
	}
	if got := w.VoxelAt(-1, 64, -1); got != air {
		t.Errorf("VoxelAt in unloaded chunk = %v, want air", got)
	}
}

func TestWorldLiquidAndSky(t *testing.T) {
	w := New(true)
	if !w.HasNoSky() {
		t.Error("HasNoSky = false")
	}
	if !w.IsLiquid(palette.Block{ID: palette.BlockLava}) {
		t.Error("lava is not liquid")
	}
	if w.IsLiquid(stone) {
		t.Error("stone is liquid")
	}
}

func TestWorldScan(t *testing.T) {
	w := New(false)
	for cx := -5; cx < 5; cx++ {
		for cz := -5; cz < 5; cz++ {
			c := NewChunk(ChunkPos{cx, cz})
			for x := 0; x < ChunkSize; x++ {
				for z := 0; z < ChunkSize; z++ {
					c.Fill(x, z, 0, 63, stone)
					c.Set(x, 64, z, grass)
				}
			}
			w.Store(c)
		}
	}

	s, err := minimap.NewScanner(nil, 1)
	if err != nil {
		t.Fatal(err)
	}
	r := minimap.NewRaster()
	st := s.Scan(w, minimap.Viewpoint{X: 0.5, Y: 70, Z: 0.5}, r)

	if st.Written != minimap.Cells {
		t.Errorf("written %d, want %d", st.Written, minimap.Cells)
	}
	if index, variant := minimap.Decode(r.Cell(10, 10)); index != palette.Grass || variant != 1 {
		t.Errorf("cell (10,10) = %v/%d, want grass/1", index, variant)
	}
}

func TestWorldConcurrentAccess(t *testing.T) {
	w := New(false)
	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			w.SetBlock(i%64, 64, i/64, grass)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			w.VoxelAt(i%64, 64, i/64)
			w.SurfaceHeight(i%64, i/64)
		}
	}()
	wg.Wait()

	if h := w.SurfaceHeight(10, 10); h != 64 {
		t.Errorf("SurfaceHeight = %d, want 64", h)
	}
}
