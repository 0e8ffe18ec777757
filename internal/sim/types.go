package sim

import (
	"time"

	"cubesphere/internal/grid"
)

// BodyState is the published view of one body.
type BodyState struct {
	ID  int     `json:"id"`
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`

	HeadingDeg     float64 `json:"headingDeg"`
	SpeedDegPerSec float64 `json:"speedDegPerSec"`
	Mass           float64 `json:"mass"`

	Cell      grid.CellCoord `json:"cell"`
	CellIndex int            `json:"cellIndex"`
}

// WorldState is a snapshot of the whole simulation.
type WorldState struct {
	Bodies []BodyState `json:"bodies"`
	TS     time.Time   `json:"ts"`
	Tick   uint64      `json:"tick"`

	Held         bool   `json:"held,omitempty"`
	Collisions   uint64 `json:"collisions"`
	CellsVisited int    `json:"cellsVisited"`

	LastCommand string `json:"lastCommand,omitempty"`
	Warning     string `json:"warning,omitempty"`
}
