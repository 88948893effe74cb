// Package material pairs a shader program with its uniforms and the GL
// render state it needs.
package material

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/earthview/internal/engine/shader"
	"github.com/Faultbox/earthview/internal/engine/uniform"
)

// Side selects which faces are drawn.
type Side int

// Face sides.
const (
	FrontSide Side = iota
	BackSide
	DoubleSide
)

// Blending selects the colour blend mode.
type Blending int

// Blend modes.
const (
	NoBlending Blending = iota
	NormalBlending
	AdditiveBlending
)

// Material is everything needed to draw a mesh except its transform.
type Material struct {
	Name     string
	Program  *shader.Program
	Uniforms *uniform.Block

	Side        Side
	DepthTest   bool
	DepthWrite  bool
	Transparent bool
	Blending    Blending
}

// New creates an opaque front-sided material with depth testing on.
func New(name string, program *shader.Program) *Material {
	return &Material{
		Name:       name,
		Program:    program,
		Uniforms:   uniform.NewBlock(name),
		Side:       FrontSide,
		DepthTest:  true,
		DepthWrite: true,
	}
}

// State is the fixed-function GL state a material draws with.
type State struct {
	Cull      bool
	CullFace  uint32
	DepthTest bool
	DepthMask bool
	Blend     bool
	BlendSrc  uint32
	BlendDst  uint32
	BlendEq   uint32
}

// State derives the GL state from the material settings.
func (m *Material) State() State {
	s := State{
		DepthTest: m.DepthTest,
		DepthMask: m.DepthWrite,
	}
	switch m.Side {
	case FrontSide:
		s.Cull, s.CullFace = true, gl.BACK
	case BackSide:
		s.Cull, s.CullFace = true, gl.FRONT
	}

	blending := m.Blending
	if m.Transparent && blending == NoBlending {
		blending = NormalBlending
	}
	switch blending {
	case NormalBlending:
		s.Blend = true
		s.BlendSrc, s.BlendDst, s.BlendEq = gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA, gl.FUNC_ADD
	case AdditiveBlending:
		s.Blend = true
		s.BlendSrc, s.BlendDst, s.BlendEq = gl.SRC_ALPHA, gl.ONE, gl.FUNC_ADD
	}
	return s
}

// Bind makes the program current, applies the render state and uploads
// the uniform block.
func (m *Material) Bind() {
	m.Program.Use()
	apply(m.State())
	if m.Uniforms != nil {
		m.Uniforms.Apply(m.Program)
	}
}

func apply(s State) {
	setCap(gl.CULL_FACE, s.Cull)
	if s.Cull {
		gl.CullFace(s.CullFace)
	}
	setCap(gl.DEPTH_TEST, s.DepthTest)
	gl.DepthMask(s.DepthMask)
	setCap(gl.BLEND, s.Blend)
	if s.Blend {
		gl.BlendEquation(s.BlendEq)
		gl.BlendFunc(s.BlendSrc, s.BlendDst)
	}
}

func setCap(c uint32, on bool) {
	if on {
		gl.Enable(c)
	} else {
		gl.Disable(c)
	}
}
