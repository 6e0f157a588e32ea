// Package minimap scans a voxel world into the shaded 128x128 raster drawn
// by the minimap overlay.
package minimap

import "github.com/Faultbox/voxelmap/pkg/palette"

// Raster geometry.
const (
	Size   = 128         // Cells per side
	Center = Size / 2    // Grid index of the viewpoint column
	Cells  = Size * Size // Total cell count
)

// World height limits.
const (
	MaxHeight   = 255           // Highest addressable voxel
	WorldHeight = MaxHeight + 1 // Exclusive upper bound for probes
)

// Raster is the byte grid produced by the scanner.
//
// Each byte encodes paletteIndex*4 + shadeVariant. Index 0 with any variant
// means "no data". Rows run along x; cell (x, z) lives at z*Size + x.
type Raster struct {
	cells   [Cells]byte
	centerX int
	centerZ int
	zoom    int
}

// NewRaster returns an empty raster at zoom 1.
func NewRaster() *Raster {
	return &Raster{zoom: 1}
}

// Cell returns the byte at grid position (x, z).
func (r *Raster) Cell(x, z int) byte {
	return r.cells[z*Size+x]
}

// Set stores a byte at grid position (x, z).
func (r *Raster) Set(x, z int, b byte) {
	r.cells[z*Size+x] = b
}

// Bytes returns the row-major cell array. Callers must not mutate it.
func (r *Raster) Bytes() []byte {
	return r.cells[:]
}

// Center returns the world column the raster was centered on.
func (r *Raster) Center() (x, z int) {
	return r.centerX, r.centerZ
}

// Zoom returns the coarsening factor (1 = one cell per block).
func (r *Raster) Zoom() int {
	return r.zoom
}

// Reset clears every cell and sets the capture metadata.
func (r *Raster) Reset(centerX, centerZ, zoom int) {
	r.cells = [Cells]byte{}
	r.centerX = centerX
	r.centerZ = centerZ
	r.zoom = zoom
}

// Clone returns an independent copy.
func (r *Raster) Clone() *Raster {
	c := *r
	return &c
}

// Encode packs a palette index and shade variant into a cell byte.
func Encode(index palette.ColorIndex, variant uint8) byte {
	return byte(index&(palette.Size-1))<<2 | variant&3
}

// Decode splits a cell byte into palette index and shade variant.
func Decode(b byte) (palette.ColorIndex, uint8) {
	return palette.ColorIndex(b >> 2), b & 3
}
