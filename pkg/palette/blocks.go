package palette

// Block is a voxel reference: a numeric block id plus its 4-bit data value.
type Block struct {
	ID   uint16
	Meta uint8
}

// Block ids with special handling.
const (
	BlockAir          uint16 = 0
	BlockStone        uint16 = 1
	BlockGrass        uint16 = 2
	BlockDirt         uint16 = 3
	BlockPlanks       uint16 = 5
	BlockBedrock      uint16 = 7
	BlockFlowingWater uint16 = 8
	BlockWater        uint16 = 9
	BlockFlowingLava  uint16 = 10
	BlockLava         uint16 = 11
	BlockSand         uint16 = 12
	BlockGravel       uint16 = 13
	BlockLog          uint16 = 17
	BlockLeaves       uint16 = 18
	BlockGlass        uint16 = 20
	BlockWool         uint16 = 35
	BlockStainedGlass uint16 = 95
	BlockSnowLayer    uint16 = 78
	BlockIce          uint16 = 79
	BlockSnow         uint16 = 80
	BlockNetherrack   uint16 = 87
	BlockGlowstone    uint16 = 89
	BlockStainedClay  uint16 = 159
	BlockCarpet       uint16 = 171
)

// dyeColors maps a 4-bit dye value to its color family.
var dyeColors = [16]ColorIndex{
	Snow, Adobe, Magenta, LightBlue, Yellow, Lime, Pink, Gray,
	Silver, Cyan, Purple, Blue, Brown, Green, Red, Black,
}

// unknown marks ids without a table entry.
const unknown = 0xFF

// blockColors maps block ids to color families. Ids not listed fall back
// to Stone; dyed and variant blocks are resolved in ColorOf.
var blockColors = func() [256]uint8 {
	var t [256]uint8
	for i := range t {
		t[i] = unknown
	}
	set := func(c ColorIndex, ids ...uint16) {
		for _, id := range ids {
			t[id] = uint8(c)
		}
	}
	set(Air, 0, 20, 26, 27, 28, 30, 50, 51, 55, 63, 64, 65, 66, 68, 69, 70, 71,
		72, 75, 76, 77, 90, 93, 94, 102, 117, 118, 131, 132, 140, 143, 144, 148,
		149, 150, 151, 157, 160, 166, 167, 178, 193, 194, 195, 196, 197)
	set(Grass, 2)
	set(Sand, 12, 24, 89, 121, 128)
	set(Cloth, 92)
	set(TNT, 10, 11, 46)
	set(Ice, 79, 174)
	set(Iron, 42, 101, 145)
	set(Foliage, 6, 18, 31, 37, 38, 39, 40, 59, 81, 83, 104, 105, 106, 111, 115,
		141, 142, 161, 175)
	set(Snow, 78, 80)
	set(Clay, 82)
	set(Dirt, 3, 60, 99, 100)
	set(Stone, 1, 4, 7, 13, 14, 15, 16, 21, 23, 29, 33, 34, 43, 44, 48, 52, 56,
		61, 62, 67, 73, 74, 97, 98, 109, 116, 120, 129, 130, 139, 154, 158)
	set(Water, 8, 9)
	set(Wood, 5, 17, 25, 32, 47, 53, 54, 58, 84, 85, 96, 107, 125, 126, 134, 135,
		136, 146, 162, 163, 164, 183, 184, 185, 186, 187, 188, 189, 190, 191, 192)
	set(Quartz, 155, 156, 169)
	set(Adobe, 86, 91, 172)
	set(Red, 45, 108, 152)
	set(Black, 49, 122)
	set(Gold, 41, 147)
	set(Diamond, 57)
	set(Lapis, 22)
	set(Emerald, 133)
	set(Netherrack, 87, 112, 113, 114)
	set(Brown, 88)
	set(Purple, 110)
	return t
}()

// ColorOf returns the color family of a block.
func ColorOf(b Block) ColorIndex {
	switch b.ID {
	case BlockWool, BlockStainedClay, BlockCarpet, BlockStainedGlass:
		return dyeColors[b.Meta&15]
	case BlockSand:
		if b.Meta&1 == 1 {
			return Adobe
		}
	case BlockStone:
		switch b.Meta & 7 {
		case 1, 2:
			return Dirt
		case 3, 4:
			return Quartz
		}
	case BlockPlanks:
		return plankColor(b.Meta)
	}
	if b.ID >= uint16(len(blockColors)) {
		return Stone
	}
	c := blockColors[b.ID]
	if c == unknown {
		return Stone
	}
	return ColorIndex(c)
}

func plankColor(meta uint8) ColorIndex {
	switch meta & 7 {
	case 1:
		return Obsidian
	case 2:
		return Sand
	case 3:
		return Dirt
	case 4:
		return Adobe
	case 5:
		return Brown
	default:
		return Wood
	}
}

// IsLiquid reports whether a block is flowing or still water or lava.
func IsLiquid(b Block) bool {
	switch b.ID {
	case BlockFlowingWater, BlockWater, BlockFlowingLava, BlockLava:
		return true
	}
	return false
}

// IsWater reports whether a block is water.
func IsWater(b Block) bool {
	return b.ID == BlockFlowingWater || b.ID == BlockWater
}
