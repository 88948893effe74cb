package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Box builds an axis-aligned box centred on the origin with 4 vertices per
// face so each face has its own normal and UVs.
func Box(width, height, depth float32) *Geometry {
	hx, hy, hz := width/2, height/2, depth/2
	g := &Geometry{Mode: Triangles}

	// Each face: normal, then the four corners counter-clockwise seen from outside.
	faces := []struct {
		n       mgl32.Vec3
		corners [4]mgl32.Vec3
	}{
		{mgl32.Vec3{1, 0, 0}, [4]mgl32.Vec3{{hx, -hy, hz}, {hx, -hy, -hz}, {hx, hy, -hz}, {hx, hy, hz}}},
		{mgl32.Vec3{-1, 0, 0}, [4]mgl32.Vec3{{-hx, -hy, -hz}, {-hx, -hy, hz}, {-hx, hy, hz}, {-hx, hy, -hz}}},
		{mgl32.Vec3{0, 1, 0}, [4]mgl32.Vec3{{-hx, hy, hz}, {hx, hy, hz}, {hx, hy, -hz}, {-hx, hy, -hz}}},
		{mgl32.Vec3{0, -1, 0}, [4]mgl32.Vec3{{-hx, -hy, -hz}, {hx, -hy, -hz}, {hx, -hy, hz}, {-hx, -hy, hz}}},
		{mgl32.Vec3{0, 0, 1}, [4]mgl32.Vec3{{-hx, -hy, hz}, {hx, -hy, hz}, {hx, hy, hz}, {-hx, hy, hz}}},
		{mgl32.Vec3{0, 0, -1}, [4]mgl32.Vec3{{hx, -hy, -hz}, {-hx, -hy, -hz}, {-hx, hy, -hz}, {hx, hy, -hz}}},
	}
	uvs := [4]mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

	for _, f := range faces {
		base := uint32(len(g.Positions))
		for i, c := range f.corners {
			g.Positions = append(g.Positions, c)
			g.Normals = append(g.Normals, f.n)
			g.UVs = append(g.UVs, uvs[i])
		}
		g.Indices = append(g.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return g
}

// Plane builds a width x height grid in the XY plane facing +Z with
// segX x segY cells. Rows run from +Y to -Y.
func Plane(width, height float32, segX, segY int) *Geometry {
	if segX < 1 {
		segX = 1
	}
	if segY < 1 {
		segY = 1
	}
	g := &Geometry{Mode: Triangles}
	cellW := width / float32(segX)
	cellH := height / float32(segY)

	for iy := 0; iy <= segY; iy++ {
		y := height/2 - float32(iy)*cellH
		for ix := 0; ix <= segX; ix++ {
			x := float32(ix)*cellW - width/2
			g.Positions = append(g.Positions, mgl32.Vec3{x, y, 0})
			g.Normals = append(g.Normals, mgl32.Vec3{0, 0, 1})
			g.UVs = append(g.UVs, mgl32.Vec2{float32(ix) / float32(segX), 1 - float32(iy)/float32(segY)})
		}
	}

	row := uint32(segX + 1)
	for iy := 0; iy < segY; iy++ {
		for ix := 0; ix < segX; ix++ {
			a := uint32(iy)*row + uint32(ix)
			b := a + row
			c := b + 1
			d := a + 1
			g.Indices = append(g.Indices, a, b, d, b, c, d)
		}
	}
	return g
}

// Quad is a unit plane, used for sprites.
func Quad() *Geometry {
	return Plane(1, 1, 1, 1)
}

// Triangle builds an equilateral triangle of side size standing on the X
// axis with its apex on +Y. Vertices are coloured red, green and blue.
func Triangle(size float32) *Geometry {
	apex := float32(math.Sqrt(0.75 * float64(size*size)))
	return &Geometry{
		Mode: Triangles,
		Positions: []mgl32.Vec3{
			{-size * 0.5, 0, 0},
			{size * 0.5, 0, 0},
			{0, apex, 0},
		},
		Normals: []mgl32.Vec3{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}},
		Colors: []mgl32.Vec3{
			{1, 0, 0},
			{0, 1, 0},
			{0, 0, 1},
		},
		Indices: []uint32{0, 1, 2},
	}
}

// Sphere builds a UV sphere. u wraps around Y, v runs from the north pole
// (v=0) to the south pole (v=1); UV v is flipped so textures are upright.
func Sphere(radius float32, widthSegments, heightSegments int) *Geometry {
	if widthSegments < 3 {
		widthSegments = 3
	}
	if heightSegments < 2 {
		heightSegments = 2
	}
	g := &Geometry{Mode: Triangles}

	grid := make([][]uint32, heightSegments+1)
	for iy := 0; iy <= heightSegments; iy++ {
		v := float64(iy) / float64(heightSegments)
		grid[iy] = make([]uint32, widthSegments+1)
		for ix := 0; ix <= widthSegments; ix++ {
			u := float64(ix) / float64(widthSegments)
			n := mgl32.Vec3{
				float32(-math.Cos(u*2*math.Pi) * math.Sin(v*math.Pi)),
				float32(math.Cos(v * math.Pi)),
				float32(math.Sin(u*2*math.Pi) * math.Sin(v*math.Pi)),
			}
			grid[iy][ix] = uint32(len(g.Positions))
			g.Positions = append(g.Positions, n.Mul(radius))
			g.Normals = append(g.Normals, n)
			g.UVs = append(g.UVs, mgl32.Vec2{float32(u), float32(1 - v)})
		}
	}

	for iy := 0; iy < heightSegments; iy++ {
		for ix := 0; ix < widthSegments; ix++ {
			a := grid[iy][ix+1]
			b := grid[iy][ix]
			c := grid[iy+1][ix]
			d := grid[iy+1][ix+1]
			// The pole rows collapse to a point; skip their degenerate halves.
			if iy != 0 {
				g.Indices = append(g.Indices, a, b, d)
			}
			if iy != heightSegments-1 {
				g.Indices = append(g.Indices, b, c, d)
			}
		}
	}
	return g
}

// Axes builds three coloured line segments of length size along +X (red),
// +Y (green) and +Z (blue).
func Axes(size float32) *Geometry {
	return &Geometry{
		Mode: Lines,
		Positions: []mgl32.Vec3{
			{0, 0, 0}, {size, 0, 0},
			{0, 0, 0}, {0, size, 0},
			{0, 0, 0}, {0, 0, size},
		},
		Colors: []mgl32.Vec3{
			{1, 0, 0}, {1, 0.6, 0},
			{0.6, 1, 0}, {0, 1, 0},
			{0, 0.6, 1}, {0, 0, 1},
		},
		Indices: []uint32{0, 1, 2, 3, 4, 5},
	}
}
