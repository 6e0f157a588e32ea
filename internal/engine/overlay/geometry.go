// Package overlay draws the minimap as a rotated disc in a screen corner.
//
// All geometry is built in pixels around the disc center (screen y axis
// pointing down) by the pure functions in this file; the renderer only
// uploads vertices and applies the center translation and map rotation.
package overlay

import (
	"github.com/Faultbox/voxelmap/internal/minimap"
	"github.com/Faultbox/voxelmap/pkg/math"
)

const (
	// SegmentDegrees is the angular step of the disc and ring outlines.
	SegmentDegrees = 2

	// DefaultBorder is the half-width of the ring drawn around the disc.
	DefaultBorder = 2.5

	// letterOffset pushes compass letters just outside the disc edge.
	letterOffset = 1

	// Player marker size before scaling, in pixels.
	markerWidth  = 11.0 / 2
	markerHeight = 15.0 / 2
)

// Vertex is a textured disc vertex.
type Vertex struct {
	Pos  math.Vec2
	U, V float32
}

// Layout positions the minimap on screen.
type Layout struct {
	Center math.Vec2
	Radius float32
	Scale  float32 // screen pixels per raster cell
}

// Place anchors a disc of the given diameter to the top-right corner of a
// screen, margin pixels away from both edges.
func Place(screenWidth int, size, margin float32) Layout {
	radius := size / 2
	left := float32(screenWidth) - size - margin
	return Layout{
		Center: math.Vec2{X: left + radius, Y: margin + radius},
		Radius: radius,
		Scale:  size / minimap.Size,
	}
}

// DiscTransform rotates disc geometry by rotation degrees about its center
// and moves the center into place.
func DiscTransform(l Layout, rotation float64) math.Mat4 {
	return math.Translate(l.Center.X, l.Center.Y, 0).
		Mul(math.RotateZ(float32(math.Radians(rotation))))
}

// TexOffset converts a sub-tick movement in blocks into texture
// coordinates for a raster at the given zoom.
func TexOffset(dx, dz float64, zoom int) (float32, float32) {
	span := float64(minimap.Size * max(zoom, 1))
	return float32(dx / span), float32(dz / span)
}

// Disc returns a triangle fan covering a circle of the given radius. The
// texture is sampled as the circle inscribed in the raster, shifted by
// (du, dv) texture units.
func Disc(radius, du, dv float32) []Vertex {
	verts := make([]Vertex, 0, 360/SegmentDegrees+2)
	verts = append(verts, Vertex{U: 0.5 + du, V: 0.5 + dv})
	for angle := 360; angle >= 0; angle -= SegmentDegrees {
		dir := math.FromAngle(float64(angle))
		verts = append(verts, Vertex{
			Pos: dir.Scale(radius),
			U:   dir.X*0.5 + 0.5 + du,
			V:   dir.Y*0.5 + 0.5 + dv,
		})
	}
	return verts
}

// Ring returns triangles for a band of the given half-width centered on
// radius.
func Ring(radius, width float32) []math.Vec2 {
	tris := make([]math.Vec2, 0, 360/SegmentDegrees*6)
	var outer0, inner0 math.Vec2
	for angle := 360; angle >= 0; angle -= SegmentDegrees {
		dir := math.FromAngle(float64(angle))
		outer1, inner1 := dir.Scale(radius+width), dir.Scale(radius-width)
		if angle != 360 {
			tris = append(tris,
				outer0, outer1, inner1,
				outer0, inner1, inner0,
			)
		}
		outer0, inner0 = outer1, inner1
	}
	return tris
}

// Mark is a compass letter placed around the disc.
type Mark struct {
	Letter byte
	Pos    math.Vec2
	North  bool
}

// Compass places N, E, S and W around a disc. rotation is the map rotation
// in degrees; north sits at rotation-90 and the rest follow clockwise.
func Compass(rotation float64, radius float32) [4]Mark {
	var marks [4]Mark
	angle := rotation - 90
	for i, letter := range []byte("NESW") {
		marks[i] = Mark{
			Letter: letter,
			Pos:    math.FromAngle(angle).Scale(radius + letterOffset),
			North:  letter == 'N',
		}
		angle += 90
	}
	return marks
}

// Marker returns the player arrow, pointing up, centered on the origin.
func Marker(scale float32) []math.Vec2 {
	w, h := markerWidth*scale, markerHeight*scale
	tip := math.Vec2{Y: -h / 2}
	left := math.Vec2{X: -w / 2, Y: h / 2}
	right := math.Vec2{X: w / 2, Y: h / 2}
	notch := math.Vec2{Y: h / 5}
	return []math.Vec2{
		tip, notch, left,
		tip, right, notch,
	}
}

// glyphs holds 3x5 bitmaps for the compass letters, one row per entry,
// most significant of the three low bits on the left.
var glyphs = map[byte][5]uint8{
	'N': {0b101, 0b111, 0b111, 0b101, 0b101},
	'E': {0b111, 0b100, 0b110, 0b100, 0b111},
	'S': {0b111, 0b100, 0b111, 0b001, 0b111},
	'W': {0b101, 0b101, 0b111, 0b111, 0b101},
}

// Glyph returns triangles drawing letter centered on at, each bitmap pixel
// px screen pixels wide. Unknown letters produce nothing.
func Glyph(letter byte, at math.Vec2, px float32) []math.Vec2 {
	rows, ok := glyphs[letter]
	if !ok {
		return nil
	}
	origin := at.Sub(math.Vec2{X: 1.5 * px, Y: 2.5 * px})

	var tris []math.Vec2
	for row, bits := range rows {
		for col := 0; col < 3; col++ {
			if bits&(0b100>>col) == 0 {
				continue
			}
			x0 := origin.X + float32(col)*px
			y0 := origin.Y + float32(row)*px
			x1, y1 := x0+px, y0+px
			tris = append(tris,
				math.Vec2{X: x0, Y: y0}, math.Vec2{X: x1, Y: y0}, math.Vec2{X: x1, Y: y1},
				math.Vec2{X: x0, Y: y0}, math.Vec2{X: x1, Y: y1}, math.Vec2{X: x0, Y: y1},
			)
		}
	}
	return tris
}
