package latlon

import "math"

// Wrap90 folds a latitude into [-90, 90]. Going past a pole continues down
// the other side, so 100 becomes 80 and -100 becomes -80.
func Wrap90(deg float64) float64 {
	if deg >= -90 && deg <= 90 {
		return deg
	}
	return math.Abs(math.Mod(math.Mod(deg-90, 360)+360, 360)-180) - 90
}

// Wrap180 wraps a longitude into (-180, 180].
func Wrap180(deg float64) float64 {
	if deg > -180 && deg <= 180 {
		return deg
	}
	r := math.Mod(math.Mod(deg-180, 360)+360, 360) - 180
	if r == -180 {
		return 180
	}
	return r
}

// Wrap360 wraps an angle into [0, 360).
func Wrap360(deg float64) float64 {
	if deg >= 0 && deg < 360 {
		return deg
	}
	return math.Mod(math.Mod(deg, 360)+360, 360)
}
