package overlay

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/voxelmap/internal/engine/shader"
	"github.com/Faultbox/voxelmap/internal/minimap"
	"github.com/Faultbox/voxelmap/pkg/math"
)

// Style controls the on-screen size of the minimap.
type Style struct {
	Size   float32 // Disc diameter in pixels
	Margin float32 // Distance from the top-right screen corner
	Border float32 // Ring half-width
}

// DefaultStyle matches a 128 pixel map with one pixel per cell.
func DefaultStyle() Style {
	return Style{Size: minimap.Size, Margin: 10, Border: DefaultBorder}
}

// Renderer draws rasters published by the scan loop. It must be created and
// used on the thread owning the GL context.
type Renderer struct {
	screenWidth  int
	screenHeight int
	style        Style

	// Textured disc
	mapShader *shader.Program
	mapVAO    uint32
	mapVBO    uint32
	texture   uint32

	// Border, marker and compass
	solidShader *shader.Program
	solidVAO    uint32
	solidVBO    uint32

	pixels   *image.RGBA
	seq      uint64
	uploaded bool

	mapVertices   []float32
	solidVertices []float32
}

// New creates an overlay renderer for a screen of the given size.
func New(width, height int, style Style) (*Renderer, error) {
	r := &Renderer{
		screenWidth:   width,
		screenHeight:  height,
		style:         style,
		pixels:        minimap.NewImage(),
		mapVertices:   make([]float32, 0, (360/SegmentDegrees+2)*4),
		solidVertices: make([]float32, 0, 4096),
	}

	var err error
	r.mapShader, err = shader.Compile(mapVertexShader, mapFragmentShader,
		"uProjection", "uModel", "uTexture")
	if err != nil {
		return nil, fmt.Errorf("create map shader: %w", err)
	}
	r.solidShader, err = shader.Compile(solidVertexShader, solidFragmentShader, "uProjection")
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("create solid shader: %w", err)
	}

	r.mapVAO, r.mapVBO = createBuffers(2, 2)
	r.solidVAO, r.solidVBO = createBuffers(2, 4)
	r.createTexture()

	// Start from an empty map until the first scan lands.
	minimap.Pixels(minimap.NewRaster(), r.pixels)
	r.upload()

	return r, nil
}

// createBuffers sets up a VAO with two float attributes of the given sizes.
func createBuffers(size0, size1 int32) (vao, vbo uint32) {
	gl.GenVertexArrays(1, &vao)
	gl.GenBuffers(1, &vbo)

	gl.BindVertexArray(vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)

	stride := (size0 + size1) * 4
	gl.VertexAttribPointerWithOffset(0, size0, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, size1, gl.FLOAT, false, stride, uintptr(size0*4))
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)
	return vao, vbo
}

func (r *Renderer) createTexture() {
	gl.GenTextures(1, &r.texture)
	gl.BindTexture(gl.TEXTURE_2D, r.texture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, minimap.Size, minimap.Size, 0,
		gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

func (r *Renderer) upload() {
	gl.BindTexture(gl.TEXTURE_2D, r.texture)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, minimap.Size, minimap.Size,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(r.pixels.Pix))
	gl.BindTexture(gl.TEXTURE_2D, 0)
	r.uploaded = true
}

// Update converts and uploads a published raster. Calls with an already
// uploaded sequence number are free. A nil raster shows an empty map.
func (r *Renderer) Update(raster *minimap.Raster, seq uint64) {
	if r.uploaded && seq == r.seq {
		return
	}
	r.seq = seq
	if raster == nil {
		raster = minimap.NewRaster()
	}
	minimap.Pixels(raster, r.pixels)
	r.upload()
}

// Resize updates the screen dimensions.
func (r *Renderer) Resize(width, height int) {
	r.screenWidth = width
	r.screenHeight = height
}

// Draw renders the map disc shifted by (du, dv) texture units and rotated
// by rotation degrees, then the border, the player marker and the compass.
func (r *Renderer) Draw(du, dv float32, rotation float64) {
	layout := Place(r.screenWidth, r.style.Size, r.style.Margin)

	// Save OpenGL state
	var prevBlend, prevDepth, prevCull int32
	gl.GetIntegerv(gl.BLEND, &prevBlend)
	gl.GetIntegerv(gl.DEPTH_TEST, &prevDepth)
	gl.GetIntegerv(gl.CULL_FACE, &prevCull)

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)

	proj := math.Ortho(0, float32(r.screenWidth), float32(r.screenHeight), 0, -1, 1)
	r.drawDisc(layout, du, dv, proj, DiscTransform(layout, rotation))
	r.drawSolids(layout, rotation, proj)

	// Restore state
	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.UseProgram(0)

	if prevBlend == gl.FALSE {
		gl.Disable(gl.BLEND)
	}
	if prevDepth == gl.TRUE {
		gl.Enable(gl.DEPTH_TEST)
	}
	if prevCull == gl.TRUE {
		gl.Enable(gl.CULL_FACE)
	}
}

func (r *Renderer) drawDisc(layout Layout, du, dv float32, proj, model math.Mat4) {
	r.mapVertices = r.mapVertices[:0]
	for _, v := range Disc(layout.Radius, du, dv) {
		r.mapVertices = append(r.mapVertices, v.Pos.X, v.Pos.Y, v.U, v.V)
	}

	r.mapShader.Use()
	gl.UniformMatrix4fv(r.mapShader.Uniform("uProjection"), 1, false, proj.Ptr())
	gl.UniformMatrix4fv(r.mapShader.Uniform("uModel"), 1, false, model.Ptr())
	gl.Uniform1i(r.mapShader.Uniform("uTexture"), 0)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, r.texture)

	gl.BindVertexArray(r.mapVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.mapVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(r.mapVertices)*4, unsafe.Pointer(&r.mapVertices[0]), gl.STREAM_DRAW)
	gl.DrawArrays(gl.TRIANGLE_FAN, 0, int32(len(r.mapVertices)/4))
}

func (r *Renderer) drawSolids(layout Layout, rotation float64, proj math.Mat4) {
	r.solidVertices = r.solidVertices[:0]

	r.addTriangles(layout.Center, Ring(layout.Radius, r.style.Border), ColorBorder)
	r.addTriangles(layout.Center, Marker(layout.Scale), ColorWhite)

	px := max(layout.Scale, 1) * 1.5
	for _, m := range Compass(rotation, layout.Radius) {
		c := ColorWhite
		if m.North {
			c = ColorNorth
		}
		r.addTriangles(layout.Center, Glyph(m.Letter, m.Pos.Add(math.Vec2{X: 1, Y: 1}), px), ColorShadow)
		r.addTriangles(layout.Center, Glyph(m.Letter, m.Pos, px), c)
	}

	r.solidShader.Use()
	gl.UniformMatrix4fv(r.solidShader.Uniform("uProjection"), 1, false, proj.Ptr())

	gl.BindVertexArray(r.solidVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.solidVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(r.solidVertices)*4, unsafe.Pointer(&r.solidVertices[0]), gl.STREAM_DRAW)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(r.solidVertices)/6)) // 6 floats per vertex
}

// addTriangles queues triangles offset by origin.
// Vertex format: x, y, r, g, b, a (6 floats)
func (r *Renderer) addTriangles(origin math.Vec2, tris []math.Vec2, c Color) {
	for _, p := range tris {
		p = p.Add(origin)
		r.solidVertices = append(r.solidVertices, p.X, p.Y, c.R, c.G, c.B, c.A)
	}
}

// Close releases renderer resources.
func (r *Renderer) Close() {
	if r.texture != 0 {
		gl.DeleteTextures(1, &r.texture)
	}
	if r.mapVAO != 0 {
		gl.DeleteVertexArrays(1, &r.mapVAO)
	}
	if r.mapVBO != 0 {
		gl.DeleteBuffers(1, &r.mapVBO)
	}
	if r.solidVAO != 0 {
		gl.DeleteVertexArrays(1, &r.solidVAO)
	}
	if r.solidVBO != 0 {
		gl.DeleteBuffers(1, &r.solidVBO)
	}
	r.mapShader.Delete()
	r.solidShader.Delete()
}

const mapVertexShader = `
	#version 410 core

	layout (location = 0) in vec2 aPos;
	layout (location = 1) in vec2 aTexCoord;

	uniform mat4 uProjection;
	uniform mat4 uModel;

	out vec2 vTexCoord;

	void main() {
		gl_Position = uProjection * uModel * vec4(aPos, 0.0, 1.0);
		vTexCoord = aTexCoord;
	}
`

const mapFragmentShader = `
	#version 410 core

	in vec2 vTexCoord;
	out vec4 FragColor;

	uniform sampler2D uTexture;

	void main() {
		FragColor = texture(uTexture, vTexCoord);
	}
`

const solidVertexShader = `
	#version 410 core

	layout (location = 0) in vec2 aPos;
	layout (location = 1) in vec4 aColor;

	uniform mat4 uProjection;

	out vec4 vColor;

	void main() {
		gl_Position = uProjection * vec4(aPos, 0.0, 1.0);
		vColor = aColor;
	}
`

const solidFragmentShader = `
	#version 410 core

	in vec4 vColor;
	out vec4 FragColor;

	void main() {
		FragColor = vColor;
	}
`
