package env

import (
	"math"

	"cubesphere/internal/geometry/latlon"
	"cubesphere/internal/geometry/rotation"
	"cubesphere/internal/geometry/vector"
)

// Drift turns every body about a fixed axis at a constant rate, like a
// steady current carrying everything on the surface.
type Drift struct {
	// Axis is the rotation axis; it need not be unit length.
	Axis vector.Vec3
	// RateDegPerSec is the angular rate, positive counterclockwise about Axis.
	RateDegPerSec float64
}

// Apply rotates both position and velocity so the body keeps its heading
// relative to the drifting frame.
func (d Drift) Apply(dt float64, pos vector.Vec3, vel vector.Vec3) (vector.Vec3, vector.Vec3, string) {
	if d.RateDegPerSec == 0 || d.Axis.MagnitudeSquared() == 0 {
		return pos, vel, ""
	}
	q := rotation.FromAxisAngle(d.Axis, d.RateDegPerSec*dt*math.Pi/180)
	return q.Rotate(pos).Normalize(), q.Rotate(vel), ""
}

// Calm returns a Drift that does not move anything.
func Calm() Drift {
	return Drift{}
}

// DriftAbout creates a Drift around the axis through the given latitude and
// longitude in degrees.
func DriftAbout(lat, lon, rateDegPerSec float64) Drift {
	return Drift{
		Axis:          latlon.New(lat, lon).ToSphereVec(),
		RateDegPerSec: rateDegPerSec,
	}
}
