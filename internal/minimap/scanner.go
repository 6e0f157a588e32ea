package minimap

import (
	"fmt"
	"math/bits"
)

const (
	// groundSnapSteps is how far an airborne viewpoint is dropped onto the
	// ground below it in no-sky mode.
	groundSnapSteps = 3

	// darkCeilingBias raises the previous height for columns that hit the
	// cave ceiling, forcing the darkest shade.
	darkCeilingBias = 2.0
)

// Shading thresholds. The values are tuned against the vanilla map look and
// must not change.
const (
	waterDepthStep   = 0.1
	waterDither      = 0.2
	waterBright      = 0.5
	waterDim         = 0.9
	waterDark        = 1.5
	slopeDither      = 0.4
	slopeBright      = 0.6
	slopeDim         = -0.6
	slopeDark        = -1.0
	slopeZoomPadding = 4
)

// Stats summarizes one scan.
type Stats struct {
	Written int // Cells stored into the raster
	Skipped int // Cells left untouched because their chunk is not loaded
	Void    int // Written cells with no visible surface
	Dark    int // Written cells that hit the cave ceiling
}

// Scanner renders World surfaces into a Raster.
type Scanner struct {
	classifier Classifier
	zoom       int
}

// NewScanner creates a scanner. zoom is the coarsening factor and must be a
// power of two between 1 and Size.
func NewScanner(c Classifier, zoom int) (*Scanner, error) {
	if zoom < 1 || zoom > Size || bits.OnesCount(uint(zoom)) != 1 {
		return nil, fmt.Errorf("invalid zoom %d: must be a power of two in [1, %d]", zoom, Size)
	}
	if c == nil {
		c = PaletteClassifier{}
	}
	return &Scanner{classifier: c, zoom: zoom}, nil
}

// Zoom returns the coarsening factor.
func (s *Scanner) Zoom() int {
	return s.zoom
}

// Scan updates dst with the surface around vp. Cells in unloaded chunks keep
// their previous value.
func (s *Scanner) Scan(w World, vp Viewpoint, dst *Raster) Stats {
	var st Stats

	cx, cz := vp.Column()
	dst.centerX, dst.centerZ, dst.zoom = cx, cz, s.zoom

	y := clampHeight(vp.GroundY())
	probe := columnProbe{
		world:    w,
		classify: s.classifier,
		noSky:    w.HasNoSky(),
		ground:   y,
		ceiling:  y,
	}
	if probe.noSky {
		probe.ground = groundLevel(w, s.classifier, cx, y, cz)
		probe.ceiling = caveCeiling(w, s.classifier, cx, y, cz)
	}

	span := Size / s.zoom
	xFrom, xTo := max(Center-span+1, 0), min(Center+span, Size)
	zFrom, zTo := max(Center-span-1, -1), min(Center+span, Size)
	originX, originZ := floorDiv(cx, s.zoom)-Center, floorDiv(cz, s.zoom)-Center

	for gx := xFrom; gx < xTo; gx++ {
		wx := (originX + gx) * s.zoom
		prev := 0.0

		gz := zFrom
		if gz < 0 {
			// The column before the first row cell is resolved only to seed
			// the slope baseline.
			if cell, ok := s.shadeColumn(&probe, wx, (originZ+gz)*s.zoom, prev); ok {
				prev = cell.height
			}
			gz = 0
		}

		for ; gz < zTo; gz++ {
			wz := (originZ + gz) * s.zoom
			cell, ok := s.shadeColumn(&probe, wx, wz, prev)
			if !ok {
				st.Skipped++
				continue
			}
			prev = cell.height
			dst.Set(gx, gz, cell.value)
			st.Written++
			if cell.void {
				st.Void++
			}
			if cell.dark {
				st.Dark++
			}
		}
	}
	return st
}

// shadedCell is a resolved, shaded column ready to store.
type shadedCell struct {
	value  byte
	height float64
	void   bool
	dark   bool
}

// shadeColumn resolves and shades column (wx, wz). It reports false when the
// column's chunk is not loaded.
func (s *Scanner) shadeColumn(p *columnProbe, wx, wz int, prev float64) (shadedCell, bool) {
	if !p.world.IsChunkLoaded(wx, wz) {
		return shadedCell{}, false
	}

	col := p.resolve(wx, wz)
	area := s.zoom * s.zoom
	height := float64(col.height) / float64(area)
	if col.dark {
		prev += darkCeilingBias
	}

	checker := float64((wx + wz) & 1)
	var variant uint8
	if col.class.Water {
		variant = waterShade(float64(col.liquidDepth/area)*waterDepthStep + checker*waterDither)
	} else {
		delta := (height-prev)*4.0/float64(s.zoom+slopeZoomPadding) + (checker-0.5)*slopeDither
		variant = slopeShade(delta)
	}

	return shadedCell{
		value:  Encode(col.class.Index, variant),
		height: height,
		void:   col.void,
		dark:   col.dark,
	}, true
}

// waterShade picks a variant from the depth factor. Later checks win.
func waterShade(depth float64) uint8 {
	variant := uint8(1)
	if depth < waterBright {
		variant = 2
	}
	if depth > waterDim {
		variant = 0
	}
	if depth > waterDark {
		variant = 3
	}
	return variant
}

// slopeShade picks a variant from the height delta. Later checks win.
func slopeShade(delta float64) uint8 {
	variant := uint8(1)
	if delta > slopeBright {
		variant = 2
	}
	if delta < slopeDim {
		variant = 0
	}
	if delta < slopeDark {
		variant = 3
	}
	return variant
}

func clampHeight(y int) int {
	return min(max(y, 0), WorldHeight)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
