package api

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"cubesphere/internal/geometry/latlon"
	"cubesphere/internal/geometry/vector"
	"cubesphere/internal/grid"
	"cubesphere/internal/metrics"
)

type gridInfo struct {
	Resolution    int     `json:"resolution"`
	Spacing       float64 `json:"spacing"`
	CellsPerFace  int     `json:"cellsPerFace"`
	PointsPerFace int     `json:"pointsPerFace"`
	NumCells      int     `json:"numCells"`
	NumPoints     int     `json:"numPoints"`
}

type cellInfo struct {
	Cell          grid.CellCoord `json:"cell"`
	Index         int            `json:"index"`
	Center        latlon.LatLon  `json:"center"`
	CubeCenter    vector.Vec3    `json:"cubeCenter"`
	SphereCenter  vector.Vec3    `json:"sphereCenter"`
	CubeCorners   [4]vector.Vec3 `json:"cubeCorners"`
	SphereCorners [4]vector.Vec3 `json:"sphereCorners"`
}

type neighborInfo struct {
	Direction string         `json:"direction"`
	Cell      grid.CellCoord `json:"cell"`
	Index     int            `json:"index"`
}

func (s *Server) describe(cc grid.CellCoord) cellInfo {
	return cellInfo{
		Cell:          cc,
		Index:         s.grid.CellCoordToCellIndex(cc),
		Center:        s.grid.CellCoordToCenterLatLon(cc),
		CubeCenter:    s.grid.CellCoordToCubeCenterVec(cc),
		SphereCenter:  s.grid.CellCoordToSphereCenterVec(cc),
		CubeCorners:   s.grid.CellCubeVecs(cc),
		SphereCorners: s.grid.CellSphereVecs(cc),
	}
}

func (s *Server) gridInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, gridInfo{
		Resolution:    s.grid.Resolution(),
		Spacing:       s.grid.Spacing(),
		CellsPerFace:  s.grid.CellsPerFace(),
		PointsPerFace: s.grid.PointsPerFace(),
		NumCells:      s.grid.NumCells(),
		NumPoints:     s.grid.NumPoints(),
	})
}

// cell accepts ?index=N or ?face=F&u=U&v=V.
func (s *Server) cell(w http.ResponseWriter, r *http.Request) {
	cc, err := s.cellFromQuery(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, s.describe(cc))
}

func (s *Server) locate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, err := floatParam(q, "lat")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	lon, err := floatParam(q, "lon")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if lat < -90 || lat > 90 {
		http.Error(w, fmt.Sprintf("lat %g out of range", lat), http.StatusBadRequest)
		return
	}
	metrics.LocateTotal.Inc()
	writeJSON(w, s.describe(s.grid.LatLonToCellCoord(latlon.New(lat, lon).Normalized())))
}

// neighbors lists all neighbors of a cell, or only the one in ?dir=.
func (s *Server) neighbors(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	cc, err := s.cellFromQuery(q)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	dirs := make([]grid.Direction, 0, grid.NumDirections)
	if name := q.Get("dir"); name != "" {
		d, err := grid.ParseDirection(name)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		dirs = append(dirs, d)
	} else {
		for d := grid.Direction(0); d < grid.NumDirections; d++ {
			dirs = append(dirs, d)
		}
	}

	res := make([]neighborInfo, 0, len(dirs))
	for _, d := range dirs {
		n, ok := s.grid.Neighbor(cc, d)
		if !ok {
			continue
		}
		res = append(res, neighborInfo{Direction: d.String(), Cell: n, Index: s.grid.CellCoordToCellIndex(n)})
	}
	writeJSON(w, map[string]any{"cell": cc, "neighbors": res})
}

// convert maps ?x&y&z between cube and sphere space. from=cube (default)
// projects the point onto the cube surface first; from=sphere normalizes it.
func (s *Server) convert(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var p vector.Vec3
	var err error
	if p.X, err = floatParam(q, "x"); err == nil {
		if p.Y, err = floatParam(q, "y"); err == nil {
			p.Z, err = floatParam(q, "z")
		}
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	m := math.Max(math.Abs(p.X), math.Max(math.Abs(p.Y), math.Abs(p.Z)))
	if m == 0 || math.IsInf(m, 0) {
		http.Error(w, "point must be non-zero and finite", http.StatusBadRequest)
		return
	}

	var cube, sphere vector.Vec3
	switch from := q.Get("from"); from {
	case "", "cube":
		cube = p.Div(m)
		sphere = s.grid.CubeVecToSphereVec(cube)
	case "sphere":
		// Scale first so the magnitude cannot overflow or underflow.
		scaled := p.Div(m)
		sphere = scaled.Div(scaled.Magnitude())
		cube = s.grid.SphereVecToCubeVec(sphere)
	default:
		http.Error(w, fmt.Sprintf("from must be cube or sphere, got %q", from), http.StatusBadRequest)
		return
	}

	cc := s.grid.CubeVecToCellCoord(cube)
	writeJSON(w, map[string]any{
		"cube":   cube,
		"sphere": sphere,
		"latlon": latlon.FromSphereVec(sphere),
		"cell":   cc,
		"index":  s.grid.CellCoordToCellIndex(cc),
	})
}

func (s *Server) cellFromQuery(q url.Values) (grid.CellCoord, error) {
	if q.Has("index") {
		i, err := intParam(q, "index")
		if err != nil {
			return grid.CellCoord{}, err
		}
		if i < 0 || i >= s.grid.NumCells() {
			return grid.CellCoord{}, fmt.Errorf("index %d out of range [0, %d)", i, s.grid.NumCells())
		}
		return s.grid.CellIndexToCellCoord(i), nil
	}

	var cc grid.CellCoord
	var err error
	if cc.Face, err = intParam(q, "face"); err != nil {
		return cc, err
	}
	if cc.U, err = intParam(q, "u"); err != nil {
		return cc, err
	}
	if cc.V, err = intParam(q, "v"); err != nil {
		return cc, err
	}
	if !s.grid.Valid(cc) {
		return cc, fmt.Errorf("cell %v is not on a %d×%d grid", cc, s.grid.Resolution(), s.grid.Resolution())
	}
	return cc, nil
}

var errMissing = errors.New("missing parameter")

func intParam(q url.Values, name string) (int, error) {
	s := q.Get(name)
	if s == "" {
		return 0, fmt.Errorf("%s: %w", name, errMissing)
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return v, nil
}

func floatParam(q url.Values, name string) (float64, error) {
	s := q.Get(name)
	if s == "" {
		return 0, fmt.Errorf("%s: %w", name, errMissing)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	if math.IsNaN(v) {
		return 0, fmt.Errorf("%s: NaN", name)
	}
	return v, nil
}
