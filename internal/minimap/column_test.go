package minimap

import (
	"testing"

	"github.com/Faultbox/voxelmap/pkg/palette"
)

func TestGroundLevel(t *testing.T) {
	w := flatWorld(64, grass)

	tests := []struct {
		name string
		from int
		want int
	}{
		{"on the ground", 64, 64},
		{"two above", 66, 64},
		{"three above", 67, 64},
		{"six above stops after three", 70, 67},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := groundLevel(w, PaletteClassifier{}, 0, tt.from, 0); got != tt.want {
				t.Errorf("groundLevel(%d) = %d, want %d", tt.from, got, tt.want)
			}
		})
	}

	empty := flatWorld(-1, air)
	if got := groundLevel(empty, PaletteClassifier{}, 0, 1, 0); got != 0 {
		t.Errorf("groundLevel near the floor = %d, want 0", got)
	}
}

func TestCaveCeiling(t *testing.T) {
	tests := []struct {
		name  string
		solid int // y of the first solid block above, or -1
		want  int
	}{
		{"odd ceiling rounds down", 71, 70},
		{"even ceiling kept", 72, 72},
		{"open sky", -1, MaxHeight - 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := flatWorld(40, stone)
			if tt.solid >= 0 {
				w.set(0, tt.solid, 0, stone)
			}
			if got := caveCeiling(w, PaletteClassifier{}, 0, 50, 0); got != tt.want {
				t.Errorf("caveCeiling = %d, want %d", got, tt.want)
			}
		})
	}

	if got := caveCeiling(flatWorld(100, stone), PaletteClassifier{}, 0, 65, 0); got != 64 {
		t.Errorf("caveCeiling inside rock = %d, want 64", got)
	}
}

func TestResolve(t *testing.T) {
	cave := flatWorld(100, stone)
	cave.set(0, 60, 0, air)
	cave.set(0, 61, 0, air)

	tests := []struct {
		name      string
		probe     columnProbe
		x, z      int
		wantH     int
		wantDark  bool
		wantVoid  bool
		wantDepth int
	}{
		{
			name:  "sky surface",
			probe: columnProbe{world: flatWorld(64, grass), ceiling: 70},
			wantH: 64,
		},
		{
			name: "sky water",
			probe: columnProbe{world: func() World {
				w := flatWorld(64, sand)
				w.water = func(x, z int) int { return 3 }
				return w
			}(), ceiling: 70},
			wantH:     64,
			wantDepth: 3,
		},
		{
			name: "world decides liquids",
			probe: columnProbe{world: func() World {
				w := flatWorld(64, sand)
				w.water = func(x, z int) int { return 3 }
				w.liquid = func(palette.Block) bool { return false }
				return w
			}(), ceiling: 70},
			wantH: 64,
		},
		{
			name:     "sky void",
			probe:    columnProbe{world: flatWorld(-1, air), ceiling: 70},
			wantH:    0,
			wantVoid: true,
		},
		{
			name:  "cave floor",
			probe: columnProbe{world: cave, noSky: true, ground: 59, ceiling: 62},
			wantH: 59,
		},
		{
			name:     "cave wall",
			probe:    columnProbe{world: cave, noSky: true, ground: 59, ceiling: 62},
			x:        5,
			wantH:    62,
			wantDark: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.probe.classify = PaletteClassifier{}
			got := tt.probe.resolve(tt.x, tt.z)
			if got.height != tt.wantH {
				t.Errorf("height = %d, want %d", got.height, tt.wantH)
			}
			if got.dark != tt.wantDark {
				t.Errorf("dark = %v, want %v", got.dark, tt.wantDark)
			}
			if got.void != tt.wantVoid {
				t.Errorf("void = %v, want %v", got.void, tt.wantVoid)
			}
			if got.liquidDepth != tt.wantDepth {
				t.Errorf("liquidDepth = %d, want %d", got.liquidDepth, tt.wantDepth)
			}
		})
	}
}
