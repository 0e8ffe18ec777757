// Package vector provides 3D vector operations
package vector

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats/scalar"
)

// DefaultEpsilon is the tolerance used by almost-equality checks when the
// caller has no better bound.
const DefaultEpsilon = 1e-8

// ErrZeroVector is the panic value raised when a zero-length vector is
// normalized. Callers must guarantee non-zero input.
var ErrZeroVector = errors.New("vector: cannot normalize a zero-length vector")

// NewVec3 creates a new 3D vector with the given components
func NewVec3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Vec3 represents a 3D vector in screen-space axes:
// +X is right, +Y is up, +Z is into the screen.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

var (
	Zero  = Vec3{}
	UnitX = Vec3{X: 1}
	UnitY = Vec3{Y: 1}
	UnitZ = Vec3{Z: 1}
)

// Add returns the sum of two vectors
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Sub returns the difference between two vectors
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Mul scales a vector by a scalar
func (v Vec3) Mul(k float64) Vec3 { return Vec3{v.X * k, v.Y * k, v.Z * k} }

// Div divides every component by k. Dividing by zero is a caller error.
func (v Vec3) Div(k float64) Vec3 {
	if k == 0 {
		panic(fmt.Errorf("vector: division of %v by zero", v))
	}
	return Vec3{v.X / k, v.Y / k, v.Z / k}
}

// Neg returns the vector pointing the opposite way
func (v Vec3) Neg() Vec3 { return Vec3{-v.X, -v.Y, -v.Z} }

// Norm returns the vector's magnitude (Euclidean norm)
func (v Vec3) Norm() float64 { return math.Sqrt(v.Dot(v)) }

// Magnitude is an alias of Norm.
func (v Vec3) Magnitude() float64 { return v.Norm() }

// MagnitudeSquared returns v·v without the square root.
func (v Vec3) MagnitudeSquared() float64 { return v.Dot(v) }

// Dot returns the dot product of two vectors
func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

// Cross returns the cross product of two vectors
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

// Midpoint returns the point halfway between v and o
func (v Vec3) Midpoint(o Vec3) Vec3 {
	return Vec3{(o.X + v.X) / 2, (o.Y + v.Y) / 2, (o.Z + v.Z) / 2}
}

// Distance returns the Euclidean distance between two points
func (v Vec3) Distance(o Vec3) float64 { return v.Sub(o).Norm() }

// Normalize returns a unit vector in the same direction.
// Vectors already within DefaultEpsilon of unit length are returned as is.
// Normalizing the zero vector panics with ErrZeroVector.
func (v Vec3) Normalize() Vec3 {
	norm := v.Norm()
	if norm == 0 {
		panic(ErrZeroVector)
	}
	if AlmostEqual(norm, 1, DefaultEpsilon) {
		return v
	}
	return Vec3{v.X / norm, v.Y / norm, v.Z / norm}
}

// Tangent removes the component of v along the unit position p, leaving the
// part that lies in the tangent plane of the sphere at p.
func (v Vec3) Tangent(p Vec3) Vec3 {
	return v.Sub(p.Mul(v.Dot(p)))
}

// IsAlmostEqual compares componentwise within eps.
func (v Vec3) IsAlmostEqual(o Vec3, eps float64) bool {
	return AlmostEqual(v.X, o.X, eps) &&
		AlmostEqual(v.Y, o.Y, eps) &&
		AlmostEqual(v.Z, o.Z, eps)
}

// HasNaN reports whether any component is NaN.
func (v Vec3) HasNaN() bool {
	return math.IsNaN(v.X) || math.IsNaN(v.Y) || math.IsNaN(v.Z)
}

func (v Vec3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}

// AlmostEqual reports whether a and b differ by strictly less than eps.
func AlmostEqual(a, b, eps float64) bool {
	return scalar.EqualWithinAbs(a, b, math.Nextafter(eps, 0))
}
