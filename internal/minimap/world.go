package minimap

import (
	"math"

	"github.com/Faultbox/voxelmap/pkg/palette"
)

// World is the read-only view of a voxel world the scanner samples.
//
// VoxelAt must return air for y outside [0, MaxHeight] and for columns in
// chunks that are not loaded.
type World interface {
	SurfaceHeight(x, z int) int
	VoxelAt(x, y, z int) palette.Block
	IsLiquid(b palette.Block) bool
	IsChunkLoaded(x, z int) bool
	HasNoSky() bool
}

// Viewpoint is the observer position for one scan.
type Viewpoint struct {
	X, Y, Z float64

	// PrevX and PrevZ hold the position at the previous tick. The overlay
	// interpolates between them to smooth movement between scans.
	PrevX, PrevZ float64

	// Yaw in degrees, 0 facing +z, increasing clockwise seen from above.
	Yaw float64
}

// Column returns the world column under the viewpoint.
func (v Viewpoint) Column() (x, z int) {
	return int(math.Floor(v.X)), int(math.Floor(v.Z))
}

// GroundY returns the voxel layer the viewpoint stands in.
func (v Viewpoint) GroundY() int {
	return int(math.Floor(v.Y))
}

// Offset returns the sub-tick movement relative to the raster center, in
// blocks, interpolated by partial (0..1).
func (v Viewpoint) Offset(partial float64, centerX, centerZ int) (dx, dz float64) {
	x := v.PrevX + (v.X-v.PrevX)*partial
	z := v.PrevZ + (v.Z-v.PrevZ)*partial
	return x - float64(centerX), z - float64(centerZ)
}

// Rotation returns the overlay rotation in degrees. North is Rotation()-90.
func (v Viewpoint) Rotation() float64 {
	return -v.Yaw + 180
}
