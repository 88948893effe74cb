package geometry

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
)

// ComputeTangents derives per-vertex tangents for normal mapping from
// positions, normals and UVs. Tangents are Gram-Schmidt orthogonalized
// against the normal; W holds the bitangent handedness (+1 or -1).
func (g *Geometry) ComputeTangents() error {
	if g.Mode != Triangles {
		return errors.New("tangents need triangle geometry")
	}
	if g.Normals == nil || g.UVs == nil {
		return errors.New("tangents need normals and uvs")
	}
	if err := g.Validate(); err != nil {
		return err
	}

	n := len(g.Positions)
	tan := make([]mgl32.Vec3, n)
	bitan := make([]mgl32.Vec3, n)

	for i := 0; i+2 < len(g.Indices); i += 3 {
		ia, ib, ic := g.Indices[i], g.Indices[i+1], g.Indices[i+2]
		pa, pb, pc := g.Positions[ia], g.Positions[ib], g.Positions[ic]
		ua, ub, uc := g.UVs[ia], g.UVs[ib], g.UVs[ic]

		e1 := pb.Sub(pa)
		e2 := pc.Sub(pa)
		du1, dv1 := ub[0]-ua[0], ub[1]-ua[1]
		du2, dv2 := uc[0]-ua[0], uc[1]-ua[1]

		det := du1*dv2 - du2*dv1
		if det == 0 {
			continue
		}
		r := 1 / det
		sdir := e1.Mul(dv2).Sub(e2.Mul(dv1)).Mul(r)
		tdir := e2.Mul(du1).Sub(e1.Mul(du2)).Mul(r)

		for _, idx := range [3]uint32{ia, ib, ic} {
			tan[idx] = tan[idx].Add(sdir)
			bitan[idx] = bitan[idx].Add(tdir)
		}
	}

	g.Tangents = make([]mgl32.Vec4, n)
	for i := 0; i < n; i++ {
		nrm := g.Normals[i]
		t := tan[i]

		// Orthogonalize
		t = t.Sub(nrm.Mul(nrm.Dot(t)))
		if t.Len() < 1e-8 {
			t = fallbackTangent(nrm)
		} else {
			t = t.Normalize()
		}

		w := float32(1)
		if nrm.Cross(t).Dot(bitan[i]) < 0 {
			w = -1
		}
		g.Tangents[i] = t.Vec4(w)
	}
	return nil
}

// fallbackTangent picks any unit vector perpendicular to n, used at UV
// seams and poles where the UV derivatives vanish.
func fallbackTangent(n mgl32.Vec3) mgl32.Vec3 {
	axis := mgl32.Vec3{1, 0, 0}
	if abs32(n.X()) > 0.9 {
		axis = mgl32.Vec3{0, 1, 0}
	}
	return axis.Sub(n.Mul(n.Dot(axis))).Normalize()
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
