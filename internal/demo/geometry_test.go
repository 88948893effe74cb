package demo

import (
	"math"
	"testing"

	"github.com/Faultbox/earthview/internal/engine/scenegraph"
)

func TestGeometryFromDescription(t *testing.T) {
	tests := []struct {
		name      string
		desc      scenegraph.GeometryDesc
		wantVerts int
	}{
		{"sphere defaults", scenegraph.GeometryDesc{Type: "sphere"}, 33 * 17},
		{"sphere segments", scenegraph.GeometryDesc{Type: "sphere", Radius: 10, WidthSegments: 8, HeightSegments: 4}, 9 * 5},
		{"box", scenegraph.GeometryDesc{Type: "box", Width: 2}, 24},
		{"plane", scenegraph.GeometryDesc{Type: "plane", Width: 4, Height: 4, WidthSegments: 2, HeightSegments: 3}, 3 * 4},
		{"quad", scenegraph.GeometryDesc{Type: "quad"}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Geometry(&tt.desc)
			if err != nil {
				t.Fatalf("Geometry: %v", err)
			}
			if g.VertexCount() != tt.wantVerts {
				t.Errorf("vertices = %d, want %d", g.VertexCount(), tt.wantVerts)
			}
		})
	}
}

func TestGeometrySphereRadius(t *testing.T) {
	g, err := Geometry(&scenegraph.GeometryDesc{Type: "sphere", Radius: 10})
	if err != nil {
		t.Fatal(err)
	}
	if r := g.Positions[0].Len(); math.Abs(float64(r-10)) > 1e-4 {
		t.Errorf("radius = %v, want 10", r)
	}
}

func TestGeometryErrors(t *testing.T) {
	if _, err := Geometry(nil); err == nil {
		t.Error("expected error for nil description")
	}
	if _, err := Geometry(&scenegraph.GeometryDesc{Type: "torus"}); err == nil {
		t.Error("expected error for unknown type")
	}
}
