// Package rotation provides quaternion rotations and the great-circle helpers
// used to move things across the unit sphere.
package rotation

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/num/quat"

	"cubesphere/internal/geometry/vector"
)

const deg2rad = math.Pi / 180

// Quaternion is w + xi + yj + zk. It is not kept at unit length; operations
// that need a rotation normalize on demand.
type Quaternion struct {
	W, X, Y, Z float64
}

// Identity is the rotation that leaves every vector unchanged.
var Identity = Quaternion{W: 1}

// New returns a quaternion from its components.
func New(w, x, y, z float64) Quaternion {
	return Quaternion{W: w, X: x, Y: y, Z: z}
}

// FromScalarVector builds a quaternion from a scalar part and a vector part.
func FromScalarVector(w float64, v vector.Vec3) Quaternion {
	return Quaternion{W: w, X: v.X, Y: v.Y, Z: v.Z}
}

func (q Quaternion) number() quat.Number {
	return quat.Number{Real: q.W, Imag: q.X, Jmag: q.Y, Kmag: q.Z}
}

func fromNumber(n quat.Number) Quaternion {
	return Quaternion{W: n.Real, X: n.Imag, Y: n.Jmag, Z: n.Kmag}
}

// Vector returns the imaginary part.
func (q Quaternion) Vector() vector.Vec3 { return vector.Vec3{X: q.X, Y: q.Y, Z: q.Z} }

// FromAxisAngle returns a rotation of angle radians about axis.
// A zero axis yields Identity.
func FromAxisAngle(axis vector.Vec3, angle float64) Quaternion {
	if axis.MagnitudeSquared() == 0 {
		return Identity
	}
	half := angle * 0.5
	s := math.Sin(half)
	n := axis.Normalize()
	return Quaternion{W: math.Cos(half), X: n.X * s, Y: n.Y * s, Z: n.Z * s}
}

// FromAxisAngleDegrees is FromAxisAngle with the angle in degrees.
func FromAxisAngleDegrees(axis vector.Vec3, angleDeg float64) Quaternion {
	return FromAxisAngle(axis, angleDeg*deg2rad)
}

// FromVectors returns the rotation taking direction from onto direction to.
func FromVectors(from, to vector.Vec3) Quaternion {
	if from.MagnitudeSquared() == 0 || to.MagnitudeSquared() == 0 {
		return Identity
	}
	f := from.Normalize()
	t := to.Normalize()
	dot := f.Dot(t)

	if dot > 0.99999 {
		return Identity
	}
	if dot < -0.99999 {
		axis := vector.UnitX.Cross(f)
		if axis.MagnitudeSquared() < 0.00001 {
			axis = vector.UnitY.Cross(f)
		}
		return FromAxisAngle(axis.Normalize(), math.Pi)
	}
	return FromAxisAngle(f.Cross(t).Normalize(), math.Acos(dot))
}

// FromEuler composes roll about X, pitch about Y and yaw about Z (radians).
func FromEuler(roll, pitch, yaw float64) Quaternion {
	cy, sy := math.Cos(yaw*0.5), math.Sin(yaw*0.5)
	cp, sp := math.Cos(pitch*0.5), math.Sin(pitch*0.5)
	cr, sr := math.Cos(roll*0.5), math.Sin(roll*0.5)

	return Quaternion{
		W: cr*cp*cy + sr*sp*sy,
		X: sr*cp*cy - cr*sp*sy,
		Y: cr*sp*cy + sr*cp*sy,
		Z: cr*cp*sy - sr*sp*cy,
	}
}

// FromEulerDegrees is FromEuler with angles in degrees.
func FromEulerDegrees(roll, pitch, yaw float64) Quaternion {
	return FromEuler(roll*deg2rad, pitch*deg2rad, yaw*deg2rad)
}

// MagnitudeSquared returns w²+x²+y²+z².
func (q Quaternion) MagnitudeSquared() float64 {
	return q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z
}

// Magnitude returns the quaternion norm.
func (q Quaternion) Magnitude() float64 { return quat.Abs(q.number()) }

// Conjugate returns (w, -x, -y, -z).
func (q Quaternion) Conjugate() Quaternion { return fromNumber(quat.Conj(q.number())) }

// Inverse returns conjugate / |q|², or Identity for the zero quaternion.
func (q Quaternion) Inverse() Quaternion {
	magSq := q.MagnitudeSquared()
	if magSq == 0 {
		return Identity
	}
	inv := 1 / magSq
	return Quaternion{W: q.W * inv, X: -q.X * inv, Y: -q.Y * inv, Z: -q.Z * inv}
}

// Normalize returns q scaled to unit length. Quaternions within 1e-10 of unit
// length are returned unchanged; the zero quaternion becomes Identity.
func (q Quaternion) Normalize() Quaternion {
	magSq := q.MagnitudeSquared()
	if math.Abs(magSq-1) < 1e-10 {
		return q
	}
	if magSq == 0 {
		return Identity
	}
	return q.Scale(1 / math.Sqrt(magSq))
}

// Mul returns the Hamilton product q*o: applying o first, then q.
func (q Quaternion) Mul(o Quaternion) Quaternion {
	return fromNumber(quat.Mul(q.number(), o.number()))
}

// Add returns the componentwise sum.
func (q Quaternion) Add(o Quaternion) Quaternion { return fromNumber(quat.Add(q.number(), o.number())) }

// Sub returns the componentwise difference.
func (q Quaternion) Sub(o Quaternion) Quaternion { return fromNumber(quat.Sub(q.number(), o.number())) }

// Scale multiplies every component by k.
func (q Quaternion) Scale(k float64) Quaternion { return fromNumber(quat.Scale(k, q.number())) }

// Neg returns -q, which represents the same rotation.
func (q Quaternion) Neg() Quaternion { return q.Scale(-1) }

// Rotate applies the rotation to v as q·v·q* on the normalized quaternion.
// The general product form is used rather than the cross-product shortcut.
func (q Quaternion) Rotate(v vector.Vec3) vector.Vec3 {
	n := q.Normalize()
	r := n.Mul(FromScalarVector(0, v)).Mul(n.Conjugate())
	return r.Vector()
}

// ToAxisAngle returns the rotation axis and angle in radians. For rotations
// near 0 or 2π the axis is numerically meaningless and +X is returned.
func (q Quaternion) ToAxisAngle() (axis vector.Vec3, angle float64) {
	n := q.Normalize()
	w := math.Min(math.Max(n.W, -1), 1)
	angle = 2 * math.Acos(w)

	s := math.Sqrt(1 - w*w)
	if s < 0.001 {
		return vector.UnitX, angle
	}
	return vector.Vec3{X: n.X / s, Y: n.Y / s, Z: n.Z / s}, angle
}

// ToEuler returns roll (X), pitch (Y) and yaw (Z) in radians. Pitch is
// clamped to ±π/2 at gimbal lock.
func (q Quaternion) ToEuler() (roll, pitch, yaw float64) {
	sinrCosp := 2 * (q.W*q.X + q.Y*q.Z)
	cosrCosp := 1 - 2*(q.X*q.X+q.Y*q.Y)
	roll = math.Atan2(sinrCosp, cosrCosp)

	sinp := 2 * (q.W*q.Y - q.Z*q.X)
	if math.Abs(sinp) >= 1 {
		pitch = math.Copysign(math.Pi/2, sinp)
	} else {
		pitch = math.Asin(sinp)
	}

	sinyCosp := 2 * (q.W*q.Z + q.X*q.Y)
	cosyCosp := 1 - 2*(q.Y*q.Y+q.Z*q.Z)
	yaw = math.Atan2(sinyCosp, cosyCosp)
	return roll, pitch, yaw
}

// ToEulerDegrees is ToEuler in degrees.
func (q Quaternion) ToEulerDegrees() (roll, pitch, yaw float64) {
	roll, pitch, yaw = q.ToEuler()
	return roll / deg2rad, pitch / deg2rad, yaw / deg2rad
}

// Slerp interpolates from q1 (t=0) to q2 (t=1) along the shorter arc.
// t is clamped to [0, 1].
func Slerp(q1, q2 Quaternion, t float64) Quaternion {
	t = math.Min(math.Max(t, 0), 1)

	a := q1.Normalize()
	b := q2.Normalize()
	dot := a.W*b.W + a.X*b.X + a.Y*b.Y + a.Z*b.Z
	if dot < 0 {
		b = b.Neg()
		dot = -dot
	}

	// Nearly identical inputs: the trig path divides by ~0.
	if dot > 0.9995 {
		return a.Add(b.Sub(a).Scale(t)).Normalize()
	}

	theta0 := math.Acos(dot)
	theta := theta0 * t
	sinTheta := math.Sin(theta)
	sinTheta0 := math.Sin(theta0)

	s0 := math.Cos(theta) - dot*sinTheta/sinTheta0
	s1 := sinTheta / sinTheta0
	return a.Scale(s0).Add(b.Scale(s1))
}

// IsAlmostEqual reports whether q and o are the same rotation within eps,
// treating q and -q as equal. Zero-length quaternions are never equal.
func (q Quaternion) IsAlmostEqual(o Quaternion, eps float64) bool {
	dot := math.Abs(q.W*o.W + q.X*o.X + q.Y*o.Y + q.Z*o.Z)
	norms := q.Magnitude() * o.Magnitude()
	if math.Abs(norms) < eps {
		return false
	}
	return math.Abs(dot/norms-1) < eps
}

func (q Quaternion) String() string {
	return fmt.Sprintf("Quaternion(%.5f, %.5f, %.5f, %.5f)", q.W, q.X, q.Y, q.Z)
}
