package shader

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/earthview/internal/logger"
)

// Program is a linked shader program with cached uniform locations.
// Uniforms the driver optimised away resolve to -1 and are skipped.
type Program struct {
	Name string
	ID   uint32

	locations map[string]int32
	locate    func(name string) int32
}

// NewProgram compiles and links a named program.
func NewProgram(name string, src Source) (*Program, error) {
	id, err := CompileProgram(src.Vertex, src.Fragment)
	if err != nil {
		return nil, fmt.Errorf("program %s: %w", name, err)
	}
	p := newProgram(name, id, func(uniform string) int32 {
		return gl.GetUniformLocation(id, gl.Str(uniform+"\x00"))
	})
	logger.Debug("shader program created", zap.String("name", name), zap.Uint32("program", id))
	return p, nil
}

func newProgram(name string, id uint32, locate func(string) int32) *Program {
	return &Program{
		Name:      name,
		ID:        id,
		locations: make(map[string]int32),
		locate:    locate,
	}
}

// Location returns the cached uniform location, looking it up on first use.
func (p *Program) Location(name string) int32 {
	if loc, ok := p.locations[name]; ok {
		return loc
	}
	loc := p.locate(name)
	if loc < 0 {
		logger.Debug("inactive uniform", zap.String("program", p.Name), zap.String("uniform", name))
	}
	p.locations[name] = loc
	return loc
}

// Use makes the program current.
func (p *Program) Use() {
	gl.UseProgram(p.ID)
}

// Delete releases the GL program.
func (p *Program) Delete() {
	if p.ID != 0 {
		gl.DeleteProgram(p.ID)
		p.ID = 0
	}
	clear(p.locations)
}

// Uniform1f sets a float uniform.
func (p *Program) Uniform1f(name string, v float32) {
	if loc := p.Location(name); loc >= 0 {
		gl.Uniform1f(loc, v)
	}
}

// Uniform3f sets a vec3 uniform.
func (p *Program) Uniform3f(name string, v mgl32.Vec3) {
	if loc := p.Location(name); loc >= 0 {
		gl.Uniform3f(loc, v[0], v[1], v[2])
	}
}

// Uniform4f sets a vec4 uniform.
func (p *Program) Uniform4f(name string, v mgl32.Vec4) {
	if loc := p.Location(name); loc >= 0 {
		gl.Uniform4f(loc, v[0], v[1], v[2], v[3])
	}
}

// UniformMat3 sets a mat3 uniform.
func (p *Program) UniformMat3(name string, m mgl32.Mat3) {
	if loc := p.Location(name); loc >= 0 {
		gl.UniformMatrix3fv(loc, 1, false, &m[0])
	}
}

// UniformMat4 sets a mat4 uniform.
func (p *Program) UniformMat4(name string, m mgl32.Mat4) {
	if loc := p.Location(name); loc >= 0 {
		gl.UniformMatrix4fv(loc, 1, false, &m[0])
	}
}

// Sampler binds texture id to unit and points the sampler uniform at it.
func (p *Program) Sampler(name string, unit int32, id uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, id)
	if loc := p.Location(name); loc >= 0 {
		gl.Uniform1i(loc, unit)
	}
}
