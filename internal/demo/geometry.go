package demo

import (
	"fmt"

	"github.com/Faultbox/earthview/internal/engine/geometry"
	"github.com/Faultbox/earthview/internal/engine/scenegraph"
)

// Geometry generates the shape a scene description asks for. Unset
// sizes default to 1 and unset sphere segments to 32x16.
func Geometry(d *scenegraph.GeometryDesc) (*geometry.Geometry, error) {
	if d == nil {
		return nil, fmt.Errorf("no geometry")
	}
	switch d.Type {
	case "sphere":
		return geometry.Sphere(orOne(d.Radius), orInt(d.WidthSegments, 32), orInt(d.HeightSegments, 16)), nil
	case "box":
		return geometry.Box(orOne(d.Width), orOne(d.Height), orOne(d.Depth)), nil
	case "plane":
		return geometry.Plane(orOne(d.Width), orOne(d.Height), orInt(d.WidthSegments, 1), orInt(d.HeightSegments, 1)), nil
	case "quad":
		return geometry.Quad(), nil
	default:
		return nil, fmt.Errorf("unknown geometry type %q", d.Type)
	}
}

func orOne(v float32) float32 {
	if v <= 0 {
		return 1
	}
	return v
}

func orInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
