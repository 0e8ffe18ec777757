package sim

import "time"

type CommandType string

const (
	CmdSpawn  CommandType = "spawn"
	CmdHold   CommandType = "hold"
	CmdResume CommandType = "resume"
	CmdStop   CommandType = "stop"
	CmdClear  CommandType = "clear"
)

type Command interface {
	Type() CommandType
	ReceivedAt() time.Time
}

// SpawnCommand adds a body at a latitude/longitude moving along a heading.
type SpawnCommand struct {
	At             time.Time
	Lat            float64 `json:"lat"`
	Lon            float64 `json:"lon"`
	HeadingDeg     float64 `json:"headingDeg"`
	SpeedDegPerSec float64 `json:"speedDegPerSec"`
	Mass           float64 `json:"mass,omitempty"` // defaults to 1
}

func (c SpawnCommand) Type() CommandType     { return CmdSpawn }
func (c SpawnCommand) ReceivedAt() time.Time { return c.At }

// HoldCommand freezes the world without touching velocities.
type HoldCommand struct{ At time.Time }

func (c HoldCommand) Type() CommandType     { return CmdHold }
func (c HoldCommand) ReceivedAt() time.Time { return c.At }

// ResumeCommand undoes Hold.
type ResumeCommand struct{ At time.Time }

func (c ResumeCommand) Type() CommandType     { return CmdResume }
func (c ResumeCommand) ReceivedAt() time.Time { return c.At }

// StopCommand zeroes every velocity.
type StopCommand struct{ At time.Time }

func (c StopCommand) Type() CommandType     { return CmdStop }
func (c StopCommand) ReceivedAt() time.Time { return c.At }

// ClearCommand removes all bodies and forgets visited cells.
type ClearCommand struct{ At time.Time }

func (c ClearCommand) Type() CommandType     { return CmdClear }
func (c ClearCommand) ReceivedAt() time.Time { return c.At }

// ParseCommandType maps a command name to its type.
func ParseCommandType(s string) (CommandType, bool) {
	switch t := CommandType(s); t {
	case CmdSpawn, CmdHold, CmdResume, CmdStop, CmdClear:
		return t, true
	}
	return "", false
}
