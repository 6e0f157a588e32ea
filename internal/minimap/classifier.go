package minimap

import "github.com/Faultbox/voxelmap/pkg/palette"

// SurfaceColorClass describes how a voxel looks on the map. Whether a
// voxel is liquid is the world's call (World.IsLiquid), not the palette's.
type SurfaceColorClass struct {
	Index palette.ColorIndex
	Air   bool
	Water bool
}

// Classifier maps voxels to surface color classes.
// Implementations must be pure and allocation free.
type Classifier interface {
	Classify(b palette.Block) SurfaceColorClass
}

// PaletteClassifier classifies blocks with the fixed palette table.
type PaletteClassifier struct{}

// Classify implements Classifier.
func (PaletteClassifier) Classify(b palette.Block) SurfaceColorClass {
	idx := palette.ColorOf(b)
	return SurfaceColorClass{
		Index: idx,
		Air:   idx == palette.Air,
		Water: idx == palette.Water,
	}
}
