package latlon

import (
	"math"

	"cubesphere/internal/geometry/vector"
)

// TangentBasis returns unit east and north vectors in the tangent plane at
// the unit position p. East is undefined at the poles; there +X is used.
func TangentBasis(p vector.Vec3) (east, north vector.Vec3) {
	east = p.Cross(vector.UnitY)
	if east.MagnitudeSquared() < 1e-20 {
		east = vector.UnitX
	} else {
		east = east.Normalize()
	}
	north = east.Cross(p).Normalize()
	return east, north
}

// TangentFromHeading builds a tangent vector at p with the given magnitude,
// heading measured clockwise from north in degrees (0 north, 90 east).
func TangentFromHeading(p vector.Vec3, headingDeg, magnitude float64) vector.Vec3 {
	east, north := TangentBasis(p)
	h := headingDeg * math.Pi / 180
	return north.Mul(math.Cos(h)).Add(east.Mul(math.Sin(h))).Mul(magnitude)
}

// HeadingDeg is the inverse of TangentFromHeading, in [0, 360).
// A negligible tangent vector has heading 0.
func HeadingDeg(p, v vector.Vec3) float64 {
	east, north := TangentBasis(p)
	e, n := v.Dot(east), v.Dot(north)
	if math.Abs(e) < 1e-12 && math.Abs(n) < 1e-12 {
		return 0
	}
	return Wrap360(math.Atan2(e, n) * 180 / math.Pi)
}

// GreatCircleDirection returns the unit tangent at p1 pointing along the
// great circle toward p2. ok is false when p1 and p2 are identical or
// antipodal, since the great circle is then not unique.
func GreatCircleDirection(p1, p2 vector.Vec3) (dir vector.Vec3, ok bool) {
	perp := p1.Cross(p2)
	if perp.MagnitudeSquared() < 1e-20 {
		return vector.Vec3{}, false
	}
	return perp.Cross(p1).Normalize(), true
}
