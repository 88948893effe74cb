// Package geometry builds indexed vertex data for the demo shapes.
//
// Conventions follow the usual right-handed GL setup: planes lie in XY
// facing +Z, spheres have their poles on Y, and UV v runs bottom to top.
package geometry

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Mode is the primitive type used to draw the indices.
type Mode int

// Primitive modes.
const (
	Triangles Mode = iota
	Lines
)

// FloatsPerVertex is the interleaved layout size:
// position(3) normal(3) uv(2) color(3) tangent(4).
const FloatsPerVertex = 15

// Geometry is an indexed vertex set. Optional attributes may be nil;
// Interleave fills defaults for them.
type Geometry struct {
	Mode      Mode
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	UVs       []mgl32.Vec2
	Colors    []mgl32.Vec3
	Tangents  []mgl32.Vec4
	Indices   []uint32
}

// VertexCount returns the number of vertices.
func (g *Geometry) VertexCount() int {
	return len(g.Positions)
}

// Validate checks attribute lengths and index bounds.
func (g *Geometry) Validate() error {
	n := len(g.Positions)
	if g.Normals != nil && len(g.Normals) != n {
		return fmt.Errorf("normals: have %d, want %d", len(g.Normals), n)
	}
	if g.UVs != nil && len(g.UVs) != n {
		return fmt.Errorf("uvs: have %d, want %d", len(g.UVs), n)
	}
	if g.Colors != nil && len(g.Colors) != n {
		return fmt.Errorf("colors: have %d, want %d", len(g.Colors), n)
	}
	if g.Tangents != nil && len(g.Tangents) != n {
		return fmt.Errorf("tangents: have %d, want %d", len(g.Tangents), n)
	}
	per := 3
	if g.Mode == Lines {
		per = 2
	}
	if len(g.Indices)%per != 0 {
		return fmt.Errorf("index count %d is not a multiple of %d", len(g.Indices), per)
	}
	for i, idx := range g.Indices {
		if int(idx) >= n {
			return fmt.Errorf("index %d at %d out of range (%d vertices)", idx, i, n)
		}
	}
	return nil
}

// Interleave packs all attributes into one float slice using the
// FloatsPerVertex layout. Missing normals are zero, missing colors white,
// missing tangents (1,0,0,1).
func (g *Geometry) Interleave() []float32 {
	out := make([]float32, 0, len(g.Positions)*FloatsPerVertex)
	for i, p := range g.Positions {
		out = append(out, p[0], p[1], p[2])

		if g.Normals != nil {
			n := g.Normals[i]
			out = append(out, n[0], n[1], n[2])
		} else {
			out = append(out, 0, 0, 0)
		}

		if g.UVs != nil {
			uv := g.UVs[i]
			out = append(out, uv[0], uv[1])
		} else {
			out = append(out, 0, 0)
		}

		if g.Colors != nil {
			c := g.Colors[i]
			out = append(out, c[0], c[1], c[2])
		} else {
			out = append(out, 1, 1, 1)
		}

		if g.Tangents != nil {
			t := g.Tangents[i]
			out = append(out, t[0], t[1], t[2], t[3])
		} else {
			out = append(out, 1, 0, 0, 1)
		}
	}
	return out
}

// SetColor paints every vertex with c.
func (g *Geometry) SetColor(c mgl32.Vec3) {
	g.Colors = make([]mgl32.Vec3, len(g.Positions))
	for i := range g.Colors {
		g.Colors[i] = c
	}
}

// Wireframe returns a Lines geometry sharing the vertex data, with one
// segment per unique triangle edge.
func (g *Geometry) Wireframe() *Geometry {
	if g.Mode == Lines {
		return g
	}
	type edge struct{ a, b uint32 }
	seen := make(map[edge]bool)
	var lines []uint32
	add := func(a, b uint32) {
		if a > b {
			a, b = b, a
		}
		e := edge{a, b}
		if seen[e] {
			return
		}
		seen[e] = true
		lines = append(lines, a, b)
	}
	for i := 0; i+2 < len(g.Indices); i += 3 {
		a, b, c := g.Indices[i], g.Indices[i+1], g.Indices[i+2]
		add(a, b)
		add(b, c)
		add(c, a)
	}
	return &Geometry{
		Mode:      Lines,
		Positions: g.Positions,
		Normals:   g.Normals,
		UVs:       g.UVs,
		Colors:    g.Colors,
		Tangents:  g.Tangents,
		Indices:   lines,
	}
}
