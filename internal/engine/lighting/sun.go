// Package lighting keeps the sun light consistent with the visible sky.
package lighting

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// SunDirection converts an azimuth/elevation pair in degrees to a unit
// vector pointing towards the sun. Azimuth rotates around Y starting at +Z,
// elevation is measured up from the XZ plane.
func SunDirection(azimuth, elevation float32) mgl32.Vec3 {
	az := float64(mgl32.DegToRad(azimuth))
	el := float64(mgl32.DegToRad(elevation))

	return mgl32.Vec3{
		float32(math.Cos(el) * math.Sin(az)),
		float32(math.Sin(el)),
		float32(math.Cos(el) * math.Cos(az)),
	}
}

// SunPosition places a sun at distance along SunDirection.
func SunPosition(azimuth, elevation, distance float32) mgl32.Vec3 {
	return SunDirection(azimuth, elevation).Mul(distance)
}
