package palette

import (
	"image/color"
	"testing"
)

func TestColorOf(t *testing.T) {
	tests := []struct {
		name  string
		block Block
		want  ColorIndex
	}{
		{"air", Block{ID: BlockAir}, Air},
		{"glass is colorless", Block{ID: BlockGlass}, Air},
		{"grass", Block{ID: BlockGrass}, Grass},
		{"stone", Block{ID: BlockStone}, Stone},
		{"granite", Block{ID: BlockStone, Meta: 1}, Dirt},
		{"diorite", Block{ID: BlockStone, Meta: 3}, Quartz},
		{"andesite", Block{ID: BlockStone, Meta: 5}, Stone},
		{"sand", Block{ID: BlockSand}, Sand},
		{"red sand", Block{ID: BlockSand, Meta: 1}, Adobe},
		{"water", Block{ID: BlockWater}, Water},
		{"flowing water", Block{ID: BlockFlowingWater}, Water},
		{"lava", Block{ID: BlockLava}, TNT},
		{"white wool", Block{ID: BlockWool}, Snow},
		{"red wool", Block{ID: BlockWool, Meta: 14}, Red},
		{"black clay", Block{ID: BlockStainedClay, Meta: 15}, Black},
		{"spruce planks", Block{ID: BlockPlanks, Meta: 1}, Obsidian},
		{"oak planks", Block{ID: BlockPlanks}, Wood},
		{"netherrack", Block{ID: BlockNetherrack}, Netherrack},
		{"unlisted id", Block{ID: 255}, Stone},
		{"modded id", Block{ID: 1024}, Stone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ColorOf(tt.block); got != tt.want {
				t.Errorf("ColorOf(%+v) = %v, want %v", tt.block, got, tt.want)
			}
		})
	}
}

func TestLiquids(t *testing.T) {
	for _, id := range []uint16{BlockFlowingWater, BlockWater, BlockFlowingLava, BlockLava} {
		if !IsLiquid(Block{ID: id}) {
			t.Errorf("block %d should be liquid", id)
		}
	}
	if IsLiquid(Block{ID: BlockIce}) {
		t.Error("ice should not be liquid")
	}
	if !IsWater(Block{ID: BlockWater}) {
		t.Error("water should be water")
	}
	if IsWater(Block{ID: BlockLava}) {
		t.Error("lava should not be water")
	}
}

func TestRGBA(t *testing.T) {
	// Grass base 0x7FB238 at the brightest shade is unchanged.
	if got := RGBA(Grass, 2); got != (color.RGBA{0x7F, 0xB2, 0x38, 0xFF}) {
		t.Errorf("RGBA(Grass, 2) = %v", got)
	}

	// Snow (0xFFFFFF) scaled by each multiplier.
	wants := []uint8{180, 220, 255, 135}
	for v, want := range wants {
		got := RGBA(Snow, uint8(v))
		if got.R != want || got.G != want || got.B != want || got.A != 0xFF {
			t.Errorf("RGBA(Snow, %d) = %v, want gray %d", v, got, want)
		}
	}
}

func TestColorIndexString(t *testing.T) {
	if Water.String() != "water" {
		t.Errorf("Water.String() = %q", Water.String())
	}
	if ColorIndex(63).String() != "unassigned(63)" {
		t.Errorf("ColorIndex(63).String() = %q", ColorIndex(63).String())
	}
}
