package grid

type edge int

const (
	edgeLeft edge = iota
	edgeRight
	edgeUp
	edgeDown
)

// remap says how one coordinate is rebuilt after crossing onto another face.
// "Shifted" is the coordinate after the step, "other" the shifted value of the
// opposite axis and "source other" the opposite axis of the cell we started
// from.
type remap int

const (
	keep            remap = iota // shifted value as is
	flip                         // N-1 - shifted value
	toMin                        // 0
	toMax                        // N-1
	other                        // shifted opposite axis
	otherFlip                    // N-1 - shifted opposite axis
	sourceOther                  // starting cell's opposite axis
	sourceOtherFlip              // N-1 - starting cell's opposite axis
)

type edgeRemap struct {
	face int
	u, v remap
}

// edgeTable[face][edge] describes every single-edge crossing of the cube.
// Faces 0-3 form a ring; the top and bottom faces are rotated relative to
// each ring face, hence the axis swaps.
var edgeTable = [NumFaces][4]edgeRemap{
	0: {
		edgeLeft:  {3, toMax, keep},
		edgeRight: {1, toMin, keep},
		edgeUp:    {4, toMin, other},
		edgeDown:  {5, toMin, otherFlip},
	},
	1: {
		edgeLeft:  {0, toMax, keep},
		edgeRight: {2, toMin, keep},
		edgeUp:    {4, keep, toMax},
		edgeDown:  {5, keep, toMin},
	},
	2: {
		edgeLeft:  {1, toMax, keep},
		edgeRight: {3, toMin, keep},
		edgeUp:    {4, keep, otherFlip},
		edgeDown:  {5, toMax, other},
	},
	3: {
		edgeLeft:  {2, toMax, keep},
		edgeRight: {0, toMin, keep},
		edgeUp:    {4, flip, toMin},
		edgeDown:  {5, flip, toMax},
	},
	4: {
		edgeLeft:  {0, other, toMin},
		edgeRight: {2, sourceOtherFlip, keep},
		edgeUp:    {3, flip, toMin},
		edgeDown:  {1, keep, toMin},
	},
	5: {
		edgeLeft:  {0, sourceOtherFlip, keep},
		edgeRight: {2, sourceOther, keep},
		edgeUp:    {1, keep, toMax},
		edgeDown:  {3, flip, toMax},
	},
}

func (g *Grid) apply(r remap, shifted, shiftedOther, sourceOtherVal int) int {
	last := g.resolution - 1
	switch r {
	case flip:
		return last - shifted
	case toMin:
		return 0
	case toMax:
		return last
	case other:
		return shiftedOther
	case otherFlip:
		return last - shiftedOther
	case sourceOther:
		return sourceOtherVal
	case sourceOtherFlip:
		return last - sourceOtherVal
	default:
		return shifted
	}
}

// Neighbor returns the cell one step from cc in direction d, crossing onto
// the adjacent face when the step leaves cc's face. A diagonal step off a
// face corner has no neighbor and reports false, as does an invalid d.
func (g *Grid) Neighbor(cc CellCoord, d Direction) (CellCoord, bool) {
	if !d.Valid() {
		return CellCoord{}, false
	}
	du, dv := d.Offset()
	newU, newV := cc.U+du, cc.V+dv
	onU := newU >= 0 && newU < g.resolution
	onV := newV >= 0 && newV < g.resolution

	switch {
	case onU && onV:
		return CellCoord{Face: cc.Face, U: newU, V: newV}, true
	case !onU && !onV:
		return CellCoord{}, false
	}

	var e edge
	switch {
	case !onU && cc.U == 0:
		e = edgeLeft
	case !onU:
		e = edgeRight
	case cc.V == 0:
		e = edgeUp
	default:
		e = edgeDown
	}

	r := edgeTable[cc.Face][e]
	return CellCoord{
		Face: r.face,
		U:    g.apply(r.u, newU, newV, cc.V),
		V:    g.apply(r.v, newV, newU, cc.U),
	}, true
}

// NeighborCellCoords returns up to eight neighbors of cc in direction order,
// skipping directions with no neighbor.
func (g *Grid) NeighborCellCoords(cc CellCoord) []CellCoord {
	res := make([]CellCoord, 0, NumDirections)
	for d := Direction(0); d < NumDirections; d++ {
		if n, ok := g.Neighbor(cc, d); ok {
			res = append(res, n)
		}
	}
	return res
}

// NeighborCellIndexes is NeighborCellCoords as cell indexes.
func (g *Grid) NeighborCellIndexes(cc CellCoord) []int {
	ns := g.NeighborCellCoords(cc)
	res := make([]int, len(ns))
	for i, n := range ns {
		res[i] = g.CellCoordToCellIndex(n)
	}
	return res
}
