package minimap

import (
	"image"

	"github.com/Faultbox/voxelmap/pkg/palette"
)

// Alpha values for empty cells, alternated in a checkerboard.
const (
	emptyAlphaEven = 0xFF
	emptyAlphaOdd  = 0x07
)

// NewImage allocates an RGBA image sized for a raster.
func NewImage() *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, Size, Size))
}

// Pixels converts a raster into RGBA. Empty cells become black with a
// dithered alpha so the map reads as translucent where there is no data.
// dst must be at least Size x Size.
func Pixels(r *Raster, dst *image.RGBA) {
	for i, b := range r.cells {
		x, z := i%Size, i/Size
		off := dst.PixOffset(dst.Rect.Min.X+x, dst.Rect.Min.Y+z)
		px := dst.Pix[off : off+4 : off+4]

		index, variant := Decode(b)
		if index == palette.Air {
			px[0], px[1], px[2] = 0, 0, 0
			px[3] = emptyAlphaEven
			if (i+i/Size)&1 == 1 {
				px[3] = emptyAlphaOdd
			}
			continue
		}

		c := palette.RGBA(index, variant)
		px[0], px[1], px[2], px[3] = c.R, c.G, c.B, c.A
	}
}
