// Package grid implements a cube-sphere grid: six cube faces, each split into
// an N×N lattice of cells, with every lattice point warped onto the unit
// sphere.
//
// Faces are numbered 0 left (x=-1), 1 front (z=-1), 2 right (x=+1),
// 3 back (z=+1), 4 top (y=+1), 5 bottom (y=-1). Within a face u runs along
// columns and v along rows; points are indexed face*(N+1)² + v*(N+1) + u and
// cells face*N² + v*N + u.
//
// A Grid is immutable once built and safe for concurrent readers.
package grid

import (
	"fmt"

	"github.com/golang/geo/s1"

	"cubesphere/internal/geometry/latlon"
	"cubesphere/internal/geometry/vector"
)

// NumFaces is the number of cube faces.
const NumFaces = 6

// Grid holds the cube lattice and every derived position, computed once.
type Grid struct {
	resolution    int
	spacing       float64
	cellsPerFace  int
	pointsPerFace int
	numPoints     int
	numCells      int

	cellCoords    []CellCoord
	cubePoints    []vector.Vec3
	spherePoints  []vector.Vec3
	pointLatLons  []latlon.LatLon
	cubeCenters   []vector.Vec3
	sphereCenters []vector.Vec3
	centerLatLons []latlon.LatLon
}

// New builds a grid with resolution cells along each face edge.
// The resolution must be even and positive.
func New(resolution int) (*Grid, error) {
	if resolution <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidResolution, resolution)
	}
	if resolution%2 != 0 {
		return nil, fmt.Errorf("%w: got %d", ErrOddResolution, resolution)
	}

	n := resolution
	g := &Grid{
		resolution:    n,
		spacing:       2.0 / float64(n),
		cellsPerFace:  n * n,
		pointsPerFace: (n + 1) * (n + 1),
		numPoints:     NumFaces * (n + 1) * (n + 1),
		numCells:      NumFaces * n * n,
	}
	g.cellCoords = make([]CellCoord, g.numCells)
	g.cubePoints = make([]vector.Vec3, g.numPoints)
	g.spherePoints = make([]vector.Vec3, g.numPoints)
	g.pointLatLons = make([]latlon.LatLon, g.numPoints)
	g.cubeCenters = make([]vector.Vec3, g.numCells)
	g.sphereCenters = make([]vector.Vec3, g.numCells)
	g.centerLatLons = make([]latlon.LatLon, g.numCells)

	g.populateCellCoords()
	g.buildFace0()
	g.buildOtherFaces()
	g.populateSpherePoints()
	g.populateCubeCenters()
	g.populateSphereCenters()
	return g, nil
}

// MustNew is New for resolutions known to be valid; it panics otherwise.
func MustNew(resolution int) *Grid {
	g, err := New(resolution)
	if err != nil {
		panic(err)
	}
	return g
}

func (g *Grid) populateCellCoords() {
	i := 0
	for face := 0; face < NumFaces; face++ {
		for v := 0; v < g.resolution; v++ {
			for u := 0; u < g.resolution; u++ {
				g.cellCoords[i] = CellCoord{Face: face, U: u, V: v}
				i++
			}
		}
	}
}

// buildFace0 lays out the left face on the plane x=-1, rows running from
// y=1 down to y=-1 and columns from z=1 down to z=-1.
func (g *Grid) buildFace0() {
	i := 0
	currY := 1.0
	for row := 0; row <= g.resolution; row++ {
		currZ := 1.0
		for col := 0; col <= g.resolution; col++ {
			g.cubePoints[i] = vector.Vec3{X: -1, Y: currY, Z: currZ}
			i++
			currZ -= g.spacing
		}
		currY -= g.spacing
	}
}

// buildOtherFaces derives faces 1-5 from face 0 by fixed rigid transforms.
func (g *Grid) buildOtherFaces() {
	const edge = 1.0
	ppf := g.pointsPerFace
	for i := 0; i < ppf; i++ {
		p := g.cubePoints[i]
		g.cubePoints[1*ppf+i] = vector.Vec3{X: -p.Z, Y: p.Y, Z: -edge}
		g.cubePoints[2*ppf+i] = vector.Vec3{X: edge, Y: p.Y, Z: -p.Z}
		g.cubePoints[3*ppf+i] = vector.Vec3{X: p.Z, Y: p.Y, Z: edge}
		g.cubePoints[4*ppf+i] = vector.Vec3{X: -p.Z, Y: edge, Z: p.Y}
		g.cubePoints[5*ppf+i] = vector.Vec3{X: -p.Z, Y: -edge, Z: -p.Y}
	}
}

func (g *Grid) populateSpherePoints() {
	for i, p := range g.cubePoints {
		g.spherePoints[i] = CubeToSphere(p)
		g.pointLatLons[i] = latlon.FromSphereVec(g.spherePoints[i])
	}
}

// populateCubeCenters uses the midpoint of the first and third corner; the
// cells are planar squares so the diagonal midpoint is the center.
func (g *Grid) populateCubeCenters() {
	for i, cc := range g.cellCoords {
		c := g.CellCubeVecs(cc)
		g.cubeCenters[i] = c[0].Midpoint(c[2])
	}
}

func (g *Grid) populateSphereCenters() {
	for i, c := range g.cubeCenters {
		g.sphereCenters[i] = CubeToSphere(c)
		g.centerLatLons[i] = latlon.FromSphereVec(g.sphereCenters[i])
	}
}

// Resolution is the number of cells along one face edge.
func (g *Grid) Resolution() int { return g.resolution }

// Spacing is the cube-space width of one cell, 2/N.
func (g *Grid) Spacing() float64 { return g.spacing }

// CellsPerFace is N².
func (g *Grid) CellsPerFace() int { return g.cellsPerFace }

// PointsPerFace is (N+1)².
func (g *Grid) PointsPerFace() int { return g.pointsPerFace }

// NumPoints is 6(N+1)².
func (g *Grid) NumPoints() int { return g.numPoints }

// NumCells is 6N².
func (g *Grid) NumCells() int { return g.numCells }

// CellCoords returns every cell in index order. The slice is shared; do not
// modify it.
func (g *Grid) CellCoords() []CellCoord { return g.cellCoords }

// CubePoint returns lattice point i in cube space.
func (g *Grid) CubePoint(i int) vector.Vec3 { return g.cubePoints[i] }

// SpherePoint returns lattice point i on the unit sphere.
func (g *Grid) SpherePoint(i int) vector.Vec3 { return g.spherePoints[i] }

// PointLatLon returns lattice point i as latitude/longitude.
func (g *Grid) PointLatLon(i int) latlon.LatLon { return g.pointLatLons[i] }

// Valid reports whether cc addresses a cell of this grid.
func (g *Grid) Valid(cc CellCoord) bool {
	return cc.Face >= 0 && cc.Face < NumFaces &&
		cc.U >= 0 && cc.U < g.resolution &&
		cc.V >= 0 && cc.V < g.resolution
}

func (g *Grid) cornerIndex(cc CellCoord) int {
	return cc.Face*g.pointsPerFace + cc.V*(g.resolution+1) + cc.U
}

// CellCubeVecs returns the four cube-space corners of a cell in winding
// order: top-left, top-right, bottom-right, bottom-left in (u,v).
func (g *Grid) CellCubeVecs(cc CellCoord) [4]vector.Vec3 {
	i := g.cornerIndex(cc)
	n := g.resolution
	return [4]vector.Vec3{
		g.cubePoints[i],
		g.cubePoints[i+1],
		g.cubePoints[i+n+2],
		g.cubePoints[i+n+1],
	}
}

// CellSphereVecs returns the sphere-space corners of a cell in the same
// order as CellCubeVecs.
func (g *Grid) CellSphereVecs(cc CellCoord) [4]vector.Vec3 {
	i := g.cornerIndex(cc)
	n := g.resolution
	return [4]vector.Vec3{
		g.spherePoints[i],
		g.spherePoints[i+1],
		g.spherePoints[i+n+2],
		g.spherePoints[i+n+1],
	}
}

// CellCoordToCellIndex returns face*N² + v*N + u.
func (g *Grid) CellCoordToCellIndex(cc CellCoord) int {
	return cc.Face*g.cellsPerFace + cc.V*g.resolution + cc.U
}

// CellIndexToCellCoord is the inverse of CellCoordToCellIndex for
// i in [0, NumCells).
func (g *Grid) CellIndexToCellCoord(i int) CellCoord {
	face := i / g.cellsPerFace
	j := i - face*g.cellsPerFace
	v := j / g.resolution
	return CellCoord{Face: face, U: j - v*g.resolution, V: v}
}

// CellCoordToCubeCenterVec returns the cell center in cube space.
func (g *Grid) CellCoordToCubeCenterVec(cc CellCoord) vector.Vec3 {
	return g.cubeCenters[g.CellCoordToCellIndex(cc)]
}

// CellCoordToSphereCenterVec returns the warped cell center on the sphere.
func (g *Grid) CellCoordToSphereCenterVec(cc CellCoord) vector.Vec3 {
	return g.sphereCenters[g.CellCoordToCellIndex(cc)]
}

// CellCoordToCenterLatLon returns the cell center as latitude/longitude.
func (g *Grid) CellCoordToCenterLatLon(cc CellCoord) latlon.LatLon {
	return g.centerLatLons[g.CellCoordToCellIndex(cc)]
}

// CellDistance is the great-circle angle between two cell centers.
func (g *Grid) CellDistance(a, b CellCoord) s1.Angle {
	return g.CellCoordToCenterLatLon(a).DistanceTo(g.CellCoordToCenterLatLon(b))
}
