// Package palette provides the fixed map color table used by the minimap.
//
// Colors are addressed by a 6-bit index (0..63). Each index has four shade
// variants, so a single byte (index*4 + variant) fully describes a map pixel.
// Index 0 is reserved for "no color".
package palette

import (
	"fmt"
	"image/color"
)

// Size is the number of addressable color indices.
const Size = 64

// Variants is the number of shade variants per color index.
const Variants = 4

// ColorIndex selects a base color family.
type ColorIndex uint8

// Color indices.
const (
	Air ColorIndex = iota
	Grass
	Sand
	Cloth
	TNT
	Ice
	Iron
	Foliage
	Snow
	Clay
	Dirt
	Stone
	Water
	Wood
	Quartz
	Adobe
	Magenta
	LightBlue
	Yellow
	Lime
	Pink
	Gray
	Silver
	Cyan
	Purple
	Blue
	Brown
	Green
	Red
	Black
	Gold
	Diamond
	Lapis
	Emerald
	Obsidian
	Netherrack
)

// Defined is the number of indices with an assigned base color.
const Defined = int(Netherrack) + 1

var colorNames = [Defined]string{
	"air", "grass", "sand", "cloth", "tnt", "ice", "iron", "foliage", "snow",
	"clay", "dirt", "stone", "water", "wood", "quartz", "adobe", "magenta",
	"light_blue", "yellow", "lime", "pink", "gray", "silver", "cyan", "purple",
	"blue", "brown", "green", "red", "black", "gold", "diamond", "lapis",
	"emerald", "obsidian", "netherrack",
}

// String returns the color family name.
func (c ColorIndex) String() string {
	if int(c) < Defined {
		return colorNames[c]
	}
	return fmt.Sprintf("unassigned(%d)", uint8(c))
}

// baseColors holds 0xRRGGBB per index. Unassigned slots stay black.
var baseColors = [Size]uint32{
	Air:        0x000000,
	Grass:      0x7FB238,
	Sand:       0xF7E9A3,
	Cloth:      0xC7C7C7,
	TNT:        0xFF0000,
	Ice:        0xA0A0FF,
	Iron:       0xA7A7A7,
	Foliage:    0x007C00,
	Snow:       0xFFFFFF,
	Clay:       0xA4A8B8,
	Dirt:       0x976D4D,
	Stone:      0x707070,
	Water:      0x4040FF,
	Wood:       0x8F7748,
	Quartz:     0xFFFCF5,
	Adobe:      0xD87F33,
	Magenta:    0xB24CD8,
	LightBlue:  0x6699D8,
	Yellow:     0xE5E533,
	Lime:       0x7FCC19,
	Pink:       0xF27FA5,
	Gray:       0x4C4C4C,
	Silver:     0x999999,
	Cyan:       0x4C7F99,
	Purple:     0x7F3FB2,
	Blue:       0x334CB2,
	Brown:      0x664C33,
	Green:      0x667F33,
	Red:        0x993333,
	Black:      0x191919,
	Gold:       0xFAEE4D,
	Diamond:    0x5CDBD5,
	Lapis:      0x4A80FF,
	Emerald:    0x00D93A,
	Obsidian:   0x815631,
	Netherrack: 0x700200,
}

// shadeMultipliers scale a base color per variant (out of 255).
// Variant 1 is the neutral shade, 2 the brightest and 3 the darkest.
var shadeMultipliers = [Variants]uint32{180, 220, 255, 135}

// ShadeMultiplier returns the brightness multiplier (0..255) for a variant.
func ShadeMultiplier(variant uint8) uint32 {
	return shadeMultipliers[variant&3]
}

// Base returns the unshaded color for an index.
func Base(index ColorIndex) color.RGBA {
	c := baseColors[index&(Size-1)]
	return color.RGBA{R: uint8(c >> 16), G: uint8(c >> 8), B: uint8(c), A: 0xFF}
}

// RGBA returns the shaded color for an index and variant.
func RGBA(index ColorIndex, variant uint8) color.RGBA {
	c := baseColors[index&(Size-1)]
	m := ShadeMultiplier(variant)
	return color.RGBA{
		R: uint8((c >> 16 & 0xFF) * m / 255),
		G: uint8((c >> 8 & 0xFF) * m / 255),
		B: uint8((c & 0xFF) * m / 255),
		A: 0xFF,
	}
}
