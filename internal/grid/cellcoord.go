package grid

import "fmt"

// CellCoord addresses one cell: a cube face in [0,6) and a column u and row v
// in [0,N). It is comparable and can be used as a map key.
type CellCoord struct {
	Face int `json:"face"`
	U    int `json:"u"`
	V    int `json:"v"`
}

func (c CellCoord) String() string {
	return fmt.Sprintf("(%d / %d, %d)", c.Face, c.U, c.V)
}
