// Package latlon converts between geographic coordinates and points on the
// unit sphere.
//
// Naming used throughout:
//   - Lat, Lon are degrees (north and east positive)
//   - phi, lambda are the same angles in radians
//
// Axes follow the vector package: +X right, +Y up (north pole), +Z into the
// screen. Longitude 0 on the equator is (0, 0, -1); longitude 90 is (1, 0, 0).
package latlon

import (
	"errors"
	"fmt"
	"math"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"

	"cubesphere/internal/geometry/vector"
)

const (
	// unitTolerance bounds how far a vector's magnitude may stray from 1
	// before FromSphereVec refuses it.
	unitTolerance = 1e-9
	// poleTolerance is the radian distance from ±π/2 treated as a pole.
	poleTolerance = 1e-6
)

// ErrNotUnit is the panic value raised when a LatLon is built from a vector
// that is not on the unit sphere.
var ErrNotUnit = errors.New("latlon: vector must have magnitude 1")

// LatLon is a point on the unit sphere in degrees.
type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// New returns a LatLon from degrees. No wrapping is applied.
func New(lat, lon float64) LatLon {
	return LatLon{Lat: lat, Lon: lon}
}

// FromSphereVec converts a unit vector to latitude and longitude. Poles get
// longitude 0. A vector off the unit sphere panics with ErrNotUnit.
func FromSphereVec(p vector.Vec3) LatLon {
	mag := p.Magnitude()
	if !vector.AlmostEqual(mag, 1, unitTolerance) {
		panic(fmt.Errorf("%w: %v has magnitude %v", ErrNotUnit, p, mag))
	}

	phi := math.Asin(p.Y)
	lambda := 0.0
	if !vector.AlmostEqual(phi, math.Pi/2, poleTolerance) && !vector.AlmostEqual(phi, -math.Pi/2, poleTolerance) {
		lambda = math.Atan2(p.X, -p.Z)
	}
	return LatLon{
		Lat: s1.Angle(phi).Degrees(),
		Lon: s1.Angle(lambda).Degrees(),
	}
}

// ToSphereVec returns the unit vector for ll.
func (ll LatLon) ToSphereVec() vector.Vec3 {
	phi := (s1.Angle(ll.Lat) * s1.Degree).Radians()
	lambda := (s1.Angle(ll.Lon) * s1.Degree).Radians()
	return vector.Vec3{
		X: math.Cos(phi) * math.Sin(lambda),
		Y: math.Sin(phi),
		Z: -math.Cos(phi) * math.Cos(lambda),
	}
}

// IsAlmostEqual compares latitude and longitude within eps degrees.
func (ll LatLon) IsAlmostEqual(o LatLon, eps float64) bool {
	return vector.AlmostEqual(ll.Lat, o.Lat, eps) && vector.AlmostEqual(ll.Lon, o.Lon, eps)
}

// Normalized folds latitude into [-90, 90] and wraps longitude into (-180, 180].
func (ll LatLon) Normalized() LatLon {
	return LatLon{Lat: Wrap90(ll.Lat), Lon: Wrap180(ll.Lon)}
}

// DistanceTo returns the great-circle angle between two points.
func (ll LatLon) DistanceTo(o LatLon) s1.Angle {
	return s2.LatLngFromDegrees(ll.Lat, ll.Lon).Distance(s2.LatLngFromDegrees(o.Lat, o.Lon))
}

func (ll LatLon) String() string {
	return fmt.Sprintf("(%.6f°, %.6f°)", ll.Lat, ll.Lon)
}
