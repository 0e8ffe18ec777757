package sim

import (
	"math"
	"time"

	"cubesphere/internal/env"
	"cubesphere/internal/geometry/latlon"
	"cubesphere/internal/geometry/rotation"
	"cubesphere/internal/geometry/vector"
	"cubesphere/internal/grid"
	"cubesphere/internal/metrics"
)

type body struct {
	id   int
	pos  vector.Vec3 // unit
	vel  vector.Vec3 // tangent, rad/s
	mass float64
	cell grid.CellCoord
}

// world is the state owned by the engine goroutine. It is not safe for
// concurrent use.
type world struct {
	grid        *grid.Grid
	environment env.Environment
	restitution float64
	contact     float64 // radians

	bodies  []*body
	nextID  int
	held    bool
	tick    uint64
	hits    uint64
	visited *grid.CellCoordSet
	last    CommandType
}

func newWorld(g *grid.Grid, environment env.Environment, restitution, contactDeg float64) *world {
	return &world{
		grid:        g,
		environment: environment,
		restitution: restitution,
		contact:     contactDeg * degToRad,
		visited:     grid.NewCellCoordSet(),
	}
}

func (w *world) apply(cmd Command) {
	w.last = cmd.Type()
	switch c := cmd.(type) {
	case SpawnCommand:
		mass := c.Mass
		if mass <= 0 {
			mass = 1
		}
		pos, vel := SpawnVectors(c.Lat, c.Lon, c.HeadingDeg, c.SpeedDegPerSec)
		b := &body{id: w.nextID, pos: pos, vel: vel, mass: mass}
		b.cell = w.grid.SphereVecToCellCoord(pos)
		w.visited.Add(b.cell)
		w.nextID++
		w.bodies = append(w.bodies, b)

	case HoldCommand:
		w.held = true

	case ResumeCommand:
		w.held = false

	case StopCommand:
		for _, b := range w.bodies {
			b.vel = vector.Vec3{}
		}

	case ClearCommand:
		w.bodies = nil
		w.visited.Clear()
		w.hits = 0
	}
	metrics.SimBodies.Set(float64(len(w.bodies)))
}

// step advances every body by dt seconds and returns the last environment
// warning raised.
func (w *world) step(dt float64) string {
	if w.held {
		return ""
	}
	w.tick++
	metrics.SimTicksTotal.Inc()

	warning := ""
	for _, b := range w.bodies {
		if speed := b.vel.Magnitude(); speed > 0 {
			q := rotation.GreatCircleStep(b.pos, b.vel, speed*dt)
			b.pos = unit(q.Rotate(b.pos))
			b.vel = q.Rotate(b.vel)
		}
		if w.environment != nil {
			p, v, warn := w.environment.Apply(dt, b.pos, b.vel)
			b.pos, b.vel = unit(p), v
			if warn != "" {
				warning = warn
			}
		}
		b.vel = b.vel.Tangent(b.pos)
		b.cell = w.grid.SphereVecToCellCoord(b.pos)
		w.visited.Add(b.cell)
	}

	w.collide()
	return warning
}

// collide resolves at most one contact per body per tick, checking only
// bodies in the same or a neighboring cell.
func (w *world) collide() {
	if len(w.bodies) < 2 {
		return
	}
	byCell := make(map[int][]*body, len(w.bodies))
	for _, b := range w.bodies {
		i := w.grid.CellCoordToCellIndex(b.cell)
		byCell[i] = append(byCell[i], b)
	}

	done := make(map[int]bool)
	for _, a := range w.bodies {
		if done[a.id] {
			continue
		}
		cells := append([]int{w.grid.CellCoordToCellIndex(a.cell)}, w.grid.NeighborCellIndexes(a.cell)...)
	search:
		for _, ci := range cells {
			for _, b := range byCell[ci] {
				if b.id <= a.id || done[b.id] || !w.touching(a, b) {
					continue
				}
				w.bounce(a, b)
				done[a.id], done[b.id] = true, true
				break search
			}
		}
	}
}

// touching reports whether a and b are within contact range and closing.
func (w *world) touching(a, b *body) bool {
	gap := math.Acos(math.Max(-1, math.Min(1, a.pos.Dot(b.pos))))
	if gap > w.contact {
		return false
	}
	ab, ok := latlon.GreatCircleDirection(a.pos, b.pos)
	if !ok {
		return true
	}
	ba, _ := latlon.GreatCircleDirection(b.pos, a.pos)
	return a.vel.Dot(ab)+b.vel.Dot(ba) > 0
}

// bounce works on angular velocities: for bodies moving along the great
// circle through both, p×v is parallel to the contact axis.
func (w *world) bounce(a, b *body) {
	wa, wb := rotation.SphereCollisionVelocity(
		a.pos, angularVelocity(a.pos, a.vel), a.mass,
		b.pos, angularVelocity(b.pos, b.vel), b.mass,
		w.restitution,
	)
	a.vel = tangentVelocity(a.pos, wa).Tangent(a.pos)
	b.vel = tangentVelocity(b.pos, wb).Tangent(b.pos)
	w.hits++
	metrics.SimCollisionsTotal.Inc()
}

// unit rescales p to length 1 even when it is already close; Normalize
// leaves near-unit input alone.
func unit(p vector.Vec3) vector.Vec3 { return p.Div(p.Magnitude()) }

func (w *world) snapshot(ts time.Time, warning string) WorldState {
	st := WorldState{
		Bodies:       make([]BodyState, 0, len(w.bodies)),
		TS:           ts,
		Tick:         w.tick,
		Held:         w.held,
		Collisions:   w.hits,
		CellsVisited: w.visited.Len(),
		LastCommand:  string(w.last),
		Warning:      warning,
	}
	for _, b := range w.bodies {
		ll := latlon.FromSphereVec(b.pos)
		heading, speed := HeadingAndSpeed(b.pos, b.vel)
		st.Bodies = append(st.Bodies, BodyState{
			ID:             b.id,
			Lat:            ll.Lat,
			Lon:            ll.Lon,
			HeadingDeg:     heading,
			SpeedDegPerSec: speed,
			Mass:           b.mass,
			Cell:           b.cell,
			CellIndex:      w.grid.CellCoordToCellIndex(b.cell),
		})
	}
	return st
}
