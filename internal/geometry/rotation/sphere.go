package rotation

import (
	"math"

	"cubesphere/internal/geometry/vector"
)

// DefaultRestitution is the bounce factor used for body collisions when none
// is configured.
const DefaultRestitution = 0.8

// GreatCircleRotation returns the rotation carrying from onto to along the
// great circle through both. Identical points give Identity; antipodal points
// rotate by π about an arbitrary perpendicular axis.
func GreatCircleRotation(from, to vector.Vec3) Quaternion {
	f := from.Normalize()
	t := to.Normalize()

	axis := f.Cross(t)
	if axis.MagnitudeSquared() < 1e-10 {
		if f.Dot(t) > 0.99999 {
			return Identity
		}
		perp := f.Cross(vector.UnitY)
		if perp.MagnitudeSquared() < 1e-10 {
			perp = f.Cross(vector.UnitX)
		}
		return FromAxisAngle(perp.Normalize(), math.Pi)
	}

	angle := math.Acos(math.Min(math.Max(f.Dot(t), -1), 1))
	return FromAxisAngle(axis.Normalize(), angle)
}

// GreatCircleStep returns the rotation that moves position distance radians
// along the great circle it is heading on. Only the tangential part of
// velocity matters; if it is negligible the result is Identity.
func GreatCircleStep(position, velocity vector.Vec3, distance float64) Quaternion {
	pos := position.Normalize()
	tangent := velocity.Tangent(pos)
	if tangent.MagnitudeSquared() < 1e-10 {
		return Identity
	}
	axis := pos.Cross(tangent.Normalize())
	return FromAxisAngle(axis, distance)
}

// SphereCollisionVelocity resolves a collision between two bodies on the unit
// sphere. The contact normal is the axis of the great-circle rotation from
// pos1 to pos2; velocities are split along and across it, the along parts get
// the 1D elastic update scaled by restitution, and the parts are recombined.
func SphereCollisionVelocity(
	pos1, vel1 vector.Vec3, mass1 float64,
	pos2, vel2 vector.Vec3, mass2 float64,
	restitution float64,
) (newVel1, newVel2 vector.Vec3) {
	p1 := pos1.Normalize()
	p2 := pos2.Normalize()

	normal, _ := GreatCircleRotation(p1, p2).ToAxisAngle()

	v1Along := vel1.Dot(normal)
	v2Along := vel2.Dot(normal)

	total := mass1 + mass2
	newV1Along := ((mass1-mass2)*v1Along + 2*mass2*v2Along) / total * restitution
	newV2Along := ((mass2-mass1)*v2Along + 2*mass1*v1Along) / total * restitution

	v1Perp := vel1.Sub(normal.Mul(v1Along))
	v2Perp := vel2.Sub(normal.Mul(v2Along))

	return v1Perp.Add(normal.Mul(newV1Along)), v2Perp.Add(normal.Mul(newV2Along))
}
