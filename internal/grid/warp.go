package grid

import (
	"fmt"
	"math"

	"cubesphere/internal/geometry/vector"
)

// CubeToSphere maps a point on the surface of the cube [-1,1]³ onto the unit
// sphere. The warp spreads cells more evenly than plain normalization. It
// panics with ErrWarpNaN if the input is not on the cube surface.
func CubeToSphere(p vector.Vec3) vector.Vec3 {
	x2, y2, z2 := p.X*p.X, p.Y*p.Y, p.Z*p.Z
	s := vector.Vec3{
		X: p.X * math.Sqrt(1-y2/2-z2/2+y2*z2/3),
		Y: p.Y * math.Sqrt(1-z2/2-x2/2+z2*x2/3),
		Z: p.Z * math.Sqrt(1-x2/2-y2/2+x2*y2/3),
	}
	if s.HasNaN() {
		panic(fmt.Errorf("%w: input %v", ErrWarpNaN, p))
	}
	return s.Normalize()
}

// SphereToCube inverts CubeToSphere for a unit vector. The dominant axis
// picks the face: y first, then x, then z.
func SphereToCube(s vector.Vec3) vector.Vec3 {
	fx, fy, fz := math.Abs(s.X), math.Abs(s.Y), math.Abs(s.Z)

	switch {
	case fy >= fx && fy >= fz:
		x, z := unwarp(s.X, s.Z)
		return vector.Vec3{X: x, Y: signOne(s.Y), Z: z}
	case fx >= fy && fx >= fz:
		y, z := unwarp(s.Y, s.Z)
		return vector.Vec3{X: signOne(s.X), Y: y, Z: z}
	default:
		// z grows into the screen, so back is +1 and front is -1.
		x, y := unwarp(s.X, s.Y)
		return vector.Vec3{X: x, Y: y, Z: signOne(s.Z)}
	}
}

// unwarp recovers the two minor cube coordinates from their sphere values.
func unwarp(a, b float64) (float64, float64) {
	a2 := 2 * a * a
	b2 := 2 * b * b
	inner := b2 - a2 - 3
	innerSqrt := -math.Sqrt(inner*inner - 12*a2)

	ra := minorCoord(a, innerSqrt+a2-b2+3)
	rb := minorCoord(b, innerSqrt-a2+b2+3)
	return ra, rb
}

func minorCoord(src, radicand float64) float64 {
	if src == 0 {
		return 0
	}
	// Rounding can push the radicand a hair below zero near the face axes.
	r := math.Sqrt(math.Max(radicand, 0)) / math.Sqrt2
	if src > 1 {
		r = 1
	}
	if src < 0 {
		r = -r
	}
	return r
}

func signOne(f float64) float64 {
	if f > 0 {
		return 1
	}
	return -1
}

// CubeVecToSphereVec is CubeToSphere.
func (g *Grid) CubeVecToSphereVec(p vector.Vec3) vector.Vec3 { return CubeToSphere(p) }

// SphereVecToCubeVec is SphereToCube.
func (g *Grid) SphereVecToCubeVec(s vector.Vec3) vector.Vec3 { return SphereToCube(s) }
