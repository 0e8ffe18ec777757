package sim

import (
	"math"

	"cubesphere/internal/geometry/latlon"
	"cubesphere/internal/geometry/vector"
)

const degToRad = math.Pi / 180.0

// SpawnVectors converts a spawn request into a unit position and a tangent
// velocity in radians per second.
func SpawnVectors(lat, lon, headingDeg, speedDegPerSec float64) (pos, vel vector.Vec3) {
	pos = latlon.New(lat, lon).Normalized().ToSphereVec()
	vel = latlon.TangentFromHeading(pos, headingDeg, speedDegPerSec*degToRad)
	return pos, vel
}

// HeadingAndSpeed is the inverse of the velocity half of SpawnVectors.
func HeadingAndSpeed(pos, vel vector.Vec3) (headingDeg, speedDegPerSec float64) {
	return latlon.HeadingDeg(pos, vel), vel.Tangent(pos).Magnitude() / degToRad
}

// angularVelocity maps a tangent velocity at p to the rotation vector p×v.
func angularVelocity(p, v vector.Vec3) vector.Vec3 { return p.Cross(v) }

// tangentVelocity is the inverse of angularVelocity for unit p.
func tangentVelocity(p, w vector.Vec3) vector.Vec3 { return w.Cross(p) }
