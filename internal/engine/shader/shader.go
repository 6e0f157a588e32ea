// Package shader compiles the overlay's GL programs and resolves their
// uniforms up front.
package shader

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Program is a linked GL program with its uniform locations.
type Program struct {
	ID       uint32
	uniforms map[string]int32
}

// Compile builds a program from vertex and fragment sources and looks up the
// named uniforms. A uniform missing from the linked program is an error.
func Compile(vertexSrc, fragmentSrc string, uniforms ...string) (*Program, error) {
	id, err := link(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, err
	}

	locs, err := resolveUniforms(func(name string) int32 {
		return gl.GetUniformLocation(id, gl.Str(name+"\x00"))
	}, uniforms...)
	if err != nil {
		gl.DeleteProgram(id)
		return nil, err
	}
	return &Program{ID: id, uniforms: locs}, nil
}

// Uniform returns the location resolved by Compile, or -1 for a name that
// was not requested. GL ignores updates to location -1.
func (p *Program) Uniform(name string) int32 {
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	return -1
}

// Use makes p the current program.
func (p *Program) Use() {
	gl.UseProgram(p.ID)
}

// Delete releases the program. It is safe on a nil program.
func (p *Program) Delete() {
	if p == nil || p.ID == 0 {
		return
	}
	gl.DeleteProgram(p.ID)
	p.ID = 0
}

// resolveUniforms looks every name up once. All missing names are reported
// together.
func resolveUniforms(lookup func(string) int32, names ...string) (map[string]int32, error) {
	locs := make(map[string]int32, len(names))
	var missing []string
	for _, name := range names {
		loc := lookup(name)
		if loc < 0 {
			missing = append(missing, name)
			continue
		}
		locs[name] = loc
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("uniforms not found: %s", strings.Join(missing, ", "))
	}
	return locs, nil
}

func link(vertexSrc, fragmentSrc string) (uint32, error) {
	vert, err := compileStage(vertexSrc, gl.VERTEX_SHADER, "vertex")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vert)

	frag, err := compileStage(fragmentSrc, gl.FRAGMENT_SHADER, "fragment")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(frag)

	program := gl.CreateProgram()
	gl.AttachShader(program, vert)
	gl.AttachShader(program, frag)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var n int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &n)
		msg := infoLog(n, func(buf []byte) { gl.GetProgramInfoLog(program, n, nil, &buf[0]) })
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link: %s", msg)
	}
	return program, nil
}

func compileStage(source string, stage uint32, name string) (uint32, error) {
	s := gl.CreateShader(stage)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(s, 1, csource, nil)
	free()
	gl.CompileShader(s)

	var status int32
	gl.GetShaderiv(s, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var n int32
		gl.GetShaderiv(s, gl.INFO_LOG_LENGTH, &n)
		msg := infoLog(n, func(buf []byte) { gl.GetShaderInfoLog(s, n, nil, &buf[0]) })
		gl.DeleteShader(s)
		return 0, fmt.Errorf("%s shader: %s", name, msg)
	}
	return s, nil
}

// infoLog reads a driver log of n bytes, trimming the trailing NUL.
func infoLog(n int32, read func([]byte)) string {
	if n <= 0 {
		return "no log"
	}
	buf := make([]byte, n)
	read(buf)
	return strings.TrimRight(string(buf), "\x00\n")
}
