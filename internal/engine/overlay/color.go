package overlay

// Color represents an RGBA color with float components (0.0 to 1.0).
type Color struct {
	R, G, B, A float32
}

// Overlay colors.
var (
	ColorWhite  = Color{1, 1, 1, 1}
	ColorBorder = Color{0.3, 0.3, 0.3, 1}
	ColorNorth  = RGB(0xFF, 0x77, 0x77)
	ColorShadow = Color{0.25, 0.25, 0.25, 1}
)

// RGB creates a color from 8-bit RGB values with full alpha.
func RGB(r, g, b uint8) Color {
	return Color{
		R: float32(r) / 255.0,
		G: float32(g) / 255.0,
		B: float32(b) / 255.0,
		A: 1.0,
	}
}
