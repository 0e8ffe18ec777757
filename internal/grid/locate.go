package grid

import (
	"math"

	"cubesphere/internal/geometry/latlon"
	"cubesphere/internal/geometry/vector"
)

// CubeVecToCellCoord returns the cell containing a point on the cube
// surface. Ties between axes go to the x faces, then the y faces.
func (g *Grid) CubeVecToCellCoord(c vector.Vec3) CellCoord {
	fx, fy, fz := math.Abs(c.X), math.Abs(c.Y), math.Abs(c.Z)

	var face int
	var s, t float64
	switch {
	case fx >= fy && fx >= fz:
		if c.X < 0 {
			face, s, t = 0, -c.Z, -c.Y
		} else {
			face, s, t = 2, c.Z, -c.Y
		}
	case fz > fx && fz > fy:
		if c.Z < 0 {
			face, s, t = 1, c.X, -c.Y
		} else {
			face, s, t = 3, -c.X, -c.Y
		}
	default:
		if c.Y < 0 {
			face, s, t = 5, c.X, c.Z
		} else {
			face, s, t = 4, c.X, -c.Z
		}
	}

	u, v := g.UV(s, t)
	return CellCoord{Face: face, U: u, V: v}
}

// UV converts face-plane coordinates in [-1,1] to cell columns and rows.
// The +1 edge belongs to the last cell.
func (g *Grid) UV(s, t float64) (u, v int) {
	return g.uvIndex(s), g.uvIndex(t)
}

func (g *Grid) uvIndex(s float64) int {
	i := int((s + 1) / g.spacing)
	if i >= g.resolution {
		i = g.resolution - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

// SphereVecToCellCoord returns the cell containing a unit vector.
func (g *Grid) SphereVecToCellCoord(s vector.Vec3) CellCoord {
	return g.CubeVecToCellCoord(SphereToCube(s))
}

// LatLonToCellCoord returns the cell containing a latitude/longitude.
func (g *Grid) LatLonToCellCoord(ll latlon.LatLon) CellCoord {
	return g.SphereVecToCellCoord(ll.ToSphereVec())
}

// LatLonToCellIndex is LatLonToCellCoord followed by CellCoordToCellIndex.
func (g *Grid) LatLonToCellIndex(ll latlon.LatLon) int {
	return g.CellCoordToCellIndex(g.LatLonToCellCoord(ll))
}
