// Package mesh uploads geometry into vertex array objects.
package mesh

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/earthview/internal/engine/geometry"
)

// Attribute locations shared by every shader.
const (
	AttribPosition = 0
	AttribNormal   = 1
	AttribUV       = 2
	AttribColor    = 3
	AttribTangent  = 4
)

// attribute describes one interleaved vertex attribute.
type attribute struct {
	location uint32
	size     int32
	offset   int // in floats
}

var layout = []attribute{
	{AttribPosition, 3, 0},
	{AttribNormal, 3, 3},
	{AttribUV, 2, 6},
	{AttribColor, 3, 8},
	{AttribTangent, 4, 11},
}

// Mesh is a VAO with its vertex and index buffers.
type Mesh struct {
	vao, vbo, ebo uint32
	mode          uint32
	indexCount    int32
	vertexCount   int
}

// New uploads g. Dynamic meshes can be refreshed with Update.
func New(g *geometry.Geometry, dynamic bool) (*Mesh, error) {
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("mesh: %w", err)
	}
	if g.VertexCount() == 0 || len(g.Indices) == 0 {
		return nil, fmt.Errorf("mesh: empty geometry")
	}

	usage := uint32(gl.STATIC_DRAW)
	if dynamic {
		usage = gl.DYNAMIC_DRAW
	}

	m := &Mesh{
		mode:        primitive(g.Mode),
		indexCount:  int32(len(g.Indices)),
		vertexCount: g.VertexCount(),
	}

	vertices := g.Interleave()

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), usage)

	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(g.Indices)*4, unsafe.Pointer(&g.Indices[0]), gl.STATIC_DRAW)

	stride := int32(geometry.FloatsPerVertex * 4)
	for _, a := range layout {
		gl.VertexAttribPointerWithOffset(a.location, a.size, gl.FLOAT, false, stride, uintptr(a.offset*4))
		gl.EnableVertexAttribArray(a.location)
	}

	gl.BindVertexArray(0)
	return m, nil
}

// Update re-uploads the vertex data of g, which must have the same
// vertex count the mesh was created with.
func (m *Mesh) Update(g *geometry.Geometry) error {
	if g.VertexCount() != m.vertexCount {
		return fmt.Errorf("mesh update: have %d vertices, want %d", g.VertexCount(), m.vertexCount)
	}
	vertices := g.Interleave()
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(vertices)*4, unsafe.Pointer(&vertices[0]))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return nil
}

// Draw issues the indexed draw call.
func (m *Mesh) Draw() {
	gl.BindVertexArray(m.vao)
	gl.DrawElements(m.mode, m.indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

// Delete releases the GL objects.
func (m *Mesh) Delete() {
	if m.ebo != 0 {
		gl.DeleteBuffers(1, &m.ebo)
	}
	if m.vbo != 0 {
		gl.DeleteBuffers(1, &m.vbo)
	}
	if m.vao != 0 {
		gl.DeleteVertexArrays(1, &m.vao)
	}
	m.vao, m.vbo, m.ebo = 0, 0, 0
}

func primitive(mode geometry.Mode) uint32 {
	if mode == geometry.Lines {
		return gl.LINES
	}
	return gl.TRIANGLES
}
