package latlon

import (
	"errors"
	"math"
	"testing"

	"cubesphere/internal/geometry/vector"
)

func TestFromSphereVec(t *testing.T) {
	tests := []struct {
		name string
		in   vector.Vec3
		want LatLon
	}{
		{"into screen", vector.Vec3{Z: 1}, LatLon{0, 180}},
		{"out of screen", vector.Vec3{Z: -1}, LatLon{0, 0}},
		{"north pole", vector.Vec3{Y: 1}, LatLon{90, 0}},
		{"south pole", vector.Vec3{Y: -1}, LatLon{-90, 0}},
		{"right", vector.Vec3{X: 1}, LatLon{0, 90}},
		{"left", vector.Vec3{X: -1}, LatLon{0, -90}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := FromSphereVec(tc.in)
			if !got.IsAlmostEqual(tc.want, 1e-9) {
				t.Errorf("FromSphereVec(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestFromSphereVecRejectsNonUnit(t *testing.T) {
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrNotUnit) {
			t.Errorf("panic value = %v, want ErrNotUnit", r)
		}
	}()
	FromSphereVec(vector.Vec3{X: 2})
}

func TestRoundTrip(t *testing.T) {
	for lat := -80.0; lat <= 80; lat += 20 {
		for lon := -170.0; lon <= 180; lon += 35 {
			ll := New(lat, lon)
			v := ll.ToSphereVec()
			if math.Abs(v.Magnitude()-1) > 1e-12 {
				t.Fatalf("ToSphereVec(%v) magnitude = %v", ll, v.Magnitude())
			}
			got := FromSphereVec(v)
			if !got.IsAlmostEqual(ll, 1e-9) {
				t.Errorf("round trip %v -> %v -> %v", ll, v, got)
			}
		}
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name string
		fn   func(float64) float64
		in   float64
		want float64
	}{
		{"90 in range", Wrap90, 45, 45},
		{"90 past north", Wrap90, 100, 80},
		{"90 past south", Wrap90, -100, -80},
		{"90 to south pole", Wrap90, 270, -90},
		{"180 in range", Wrap180, 180, 180},
		{"180 past east", Wrap180, 190, -170},
		{"180 past west", Wrap180, -190, 170},
		{"180 at -180", Wrap180, -180, 180},
		{"180 full turns", Wrap180, 540, 180},
		{"360 negative", Wrap360, -90, 270},
		{"360 at 360", Wrap360, 360, 0},
		{"360 large", Wrap360, 725, 5},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.fn(tc.in); math.Abs(got-tc.want) > 1e-12 {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}

	if got := New(100, 190).Normalized(); !got.IsAlmostEqual(LatLon{80, -170}, 1e-12) {
		t.Errorf("Normalized = %v, want (80, -170)", got)
	}
}

func TestDistanceTo(t *testing.T) {
	a := New(0, 0)
	b := New(0, 90)
	if got := a.DistanceTo(b).Degrees(); math.Abs(got-90) > 1e-9 {
		t.Errorf("DistanceTo = %v°, want 90°", got)
	}
	if got := New(90, 0).DistanceTo(New(-90, 0)).Degrees(); math.Abs(got-180) > 1e-9 {
		t.Errorf("pole to pole = %v°, want 180°", got)
	}
}

func TestTangentBasis(t *testing.T) {
	east, north := TangentBasis(New(0, 0).ToSphereVec())
	if !east.IsAlmostEqual(vector.UnitX, 1e-12) {
		t.Errorf("east at (0,0) = %v, want +X", east)
	}
	if !north.IsAlmostEqual(vector.UnitY, 1e-12) {
		t.Errorf("north at (0,0) = %v, want +Y", north)
	}

	// Pole fallback still yields an orthonormal basis.
	p := vector.UnitY
	east, north = TangentBasis(p)
	if math.Abs(east.Dot(north)) > 1e-12 || math.Abs(north.Dot(p)) > 1e-12 {
		t.Errorf("pole basis not orthogonal: east %v north %v", east, north)
	}
}

func TestHeadingRoundTrip(t *testing.T) {
	p := New(30, 45).ToSphereVec()
	for _, h := range []float64{0, 45, 90, 180, 270, 359} {
		v := TangentFromHeading(p, h, 2)
		if math.Abs(v.Dot(p)) > 1e-12 {
			t.Errorf("heading %v: velocity not tangent", h)
		}
		if got := HeadingDeg(p, v); math.Abs(got-h) > 1e-9 {
			t.Errorf("HeadingDeg = %v, want %v", got, h)
		}
	}
}

func TestGreatCircleDirection(t *testing.T) {
	dir, ok := GreatCircleDirection(vector.UnitX, vector.UnitY)
	if !ok {
		t.Fatal("expected a direction")
	}
	if !dir.IsAlmostEqual(vector.UnitY, 1e-12) {
		t.Errorf("direction = %v, want +Y", dir)
	}
	if _, ok := GreatCircleDirection(vector.UnitX, vector.UnitX.Neg()); ok {
		t.Error("antipodal points should have no unique direction")
	}
}
