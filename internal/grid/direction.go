package grid

import "fmt"

// Direction is one of the eight moves from a cell, clockwise from up.
// Up is decreasing v; right is increasing u.
type Direction int

const (
	North Direction = iota
	NorthEast
	East
	SouthEast
	South
	SouthWest
	West
	NorthWest

	NumDirections = 8
)

type offset struct{ du, dv int }

var offsets = [NumDirections]offset{
	{0, -1},  // up
	{1, -1},  // right, up
	{1, 0},   // right
	{1, 1},   // right, down
	{0, 1},   // down
	{-1, 1},  // left, down
	{-1, 0},  // left
	{-1, -1}, // left, up
}

var directionNames = [NumDirections]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// Offset returns the (du, dv) step for d.
func (d Direction) Offset() (du, dv int) {
	o := offsets[d]
	return o.du, o.dv
}

// Valid reports whether d is one of the eight directions.
func (d Direction) Valid() bool { return d >= 0 && d < NumDirections }

func (d Direction) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return directionNames[d]
}

// ParseDirection accepts the short compass names ("N", "NE", ...).
func ParseDirection(s string) (Direction, error) {
	for i, name := range directionNames {
		if name == s {
			return Direction(i), nil
		}
	}
	return 0, fmt.Errorf("grid: unknown direction %q", s)
}
