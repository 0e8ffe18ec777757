// Package env holds effects applied to bodies moving on the unit sphere after
// each simulation step. Positions are unit vectors and velocities are tangent
// vectors in radians per second.
package env

import (
	"cubesphere/internal/geometry/vector"
)

// Environment modifies a body's position and velocity once per tick.
type Environment interface {
	// Apply takes the current position and velocity of a body and returns
	// the modified position, velocity, and an optional warning message.
	// dt is the time step in seconds since the last update.
	Apply(dt float64, pos vector.Vec3, vel vector.Vec3) (vector.Vec3, vector.Vec3, string)
}

// Chain applies multiple effects in sequence.
type Chain struct {
	Effects []Environment
}

// Apply feeds the output of each effect into the next.
// The last non-empty warning message is returned.
func (c *Chain) Apply(dt float64, pos vector.Vec3, vel vector.Vec3) (vector.Vec3, vector.Vec3, string) {
	var warning string
	for _, effect := range c.Effects {
		newPos, newVel, w := effect.Apply(dt, pos, vel)
		if w != "" {
			warning = w
		}
		pos, vel = newPos, newVel
	}
	return pos, vel, warning
}

// NoOp is an environment that does nothing.
var NoOp Environment = noOpEnv{}

type noOpEnv struct{}

func (noOpEnv) Apply(dt float64, pos, vel vector.Vec3) (vector.Vec3, vector.Vec3, string) {
	return pos, vel, ""
}
