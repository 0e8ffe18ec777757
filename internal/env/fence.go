package env

import (
	"fmt"
	"math"

	"cubesphere/internal/geometry/latlon"
	"cubesphere/internal/geometry/vector"
)

// LatitudeFence keeps bodies out of the polar caps, where headings become
// unstable.
type LatitudeFence struct {
	// MaxLatDeg is the highest absolute latitude a body may reach.
	MaxLatDeg float64
}

// Apply moves a body that crossed the fence back onto it at the same
// longitude and drops the poleward part of its velocity.
func (f LatitudeFence) Apply(dt float64, pos vector.Vec3, vel vector.Vec3) (vector.Vec3, vector.Vec3, string) {
	pos = pos.Normalize()
	ll := latlon.FromSphereVec(pos)
	if math.Abs(ll.Lat) <= f.MaxLatDeg {
		return pos, vel, ""
	}

	fenceLat := math.Copysign(f.MaxLatDeg, ll.Lat)
	fenced := latlon.New(fenceLat, ll.Lon).ToSphereVec()
	vel = vel.Tangent(fenced)
	_, north := latlon.TangentBasis(fenced)
	if vn := vel.Dot(north); vn*ll.Lat > 0 {
		vel = vel.Sub(north.Mul(vn))
	}
	return fenced, vel, fmt.Sprintf("latitude-fence: clamped from %.2f to %.2f degrees", ll.Lat, fenceLat)
}

// DefaultFence returns a fence at 85 degrees.
func DefaultFence() LatitudeFence {
	return LatitudeFence{MaxLatDeg: 85}
}
