package world

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/voxelmap/internal/config"
)

func procgenConfig() config.WorldConfig {
	cfg := config.Default().World
	cfg.GenerateRadius = 1
	cfg.GenerateBudget = 100
	return cfg
}

func TestOpenProcgen(t *testing.T) {
	tests := []struct {
		dimension string
		noSky     bool
	}{
		{config.DimensionOverworld, false},
		{config.DimensionNether, true},
	}

	for _, tt := range tests {
		t.Run(tt.dimension, func(t *testing.T) {
			b, err := Open(procgenConfig(), tt.dimension)
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			defer b.Close()

			if b.World.HasNoSky() != tt.noSky {
				t.Errorf("HasNoSky() = %v, want %v", b.World.HasNoSky(), tt.noSky)
			}
			if b.Anvil() != nil {
				t.Error("Anvil() != nil for a generated world")
			}

			if n := b.Prepare(0, 0); n != 5 {
				t.Errorf("Prepare() = %d, want 5", n)
			}
			if !b.World.IsChunkLoaded(0, 0) {
				t.Error("chunk at origin not loaded after Prepare")
			}
			if st := b.Stats(); st.Loaded != 5 || st.Decoded != 0 {
				t.Errorf("Stats() = %+v, want 5 loaded", st)
			}
		})
	}
}

func TestOpenProcgenEnd(t *testing.T) {
	_, err := Open(procgenConfig(), config.DimensionEnd)
	if !errors.Is(err, ErrUnsupportedDimension) {
		t.Errorf("Open(end) error = %v, want ErrUnsupportedDimension", err)
	}
}

func TestOpenAnvil(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "DIM-1", "region"), 0755); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default().World
	cfg.Source = config.SourceAnvil
	cfg.Path = dir

	b, err := Open(cfg, config.DimensionNether)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer b.Close()

	if b.Anvil() == nil {
		t.Fatal("Anvil() = nil")
	}
	if !b.World.HasNoSky() {
		t.Error("nether save should scan in cave mode")
	}
	if n := b.Prepare(0, 0); n != 0 {
		t.Errorf("Prepare() = %d, want 0", n)
	}
	if b.World.IsChunkLoaded(0, 0) {
		t.Error("empty save reports a loaded chunk")
	}

	// The overworld region dir does not exist.
	if _, err := Open(cfg, config.DimensionOverworld); err == nil {
		t.Error("Open() without region dir succeeded")
	}
}

func TestOpenErrors(t *testing.T) {
	cfg := config.Default().World
	cfg.Source = config.SourceAnvil
	if _, err := Open(cfg, config.DimensionOverworld); err == nil {
		t.Error("anvil without path succeeded")
	}

	cfg.Source = "flat"
	if _, err := Open(cfg, config.DimensionOverworld); err == nil {
		t.Error("unknown source succeeded")
	}
}

func TestNextDimension(t *testing.T) {
	tests := []struct {
		source  string
		current string
		want    string
	}{
		{config.SourceProcgen, config.DimensionOverworld, config.DimensionNether},
		{config.SourceProcgen, config.DimensionNether, config.DimensionOverworld},
		{config.SourceAnvil, config.DimensionNether, config.DimensionEnd},
		{config.SourceAnvil, config.DimensionEnd, config.DimensionOverworld},
		{config.SourceProcgen, "bogus", config.DimensionOverworld},
	}

	for _, tt := range tests {
		if got := NextDimension(tt.source, tt.current); got != tt.want {
			t.Errorf("NextDimension(%s, %s) = %s, want %s", tt.source, tt.current, got, tt.want)
		}
	}
}
