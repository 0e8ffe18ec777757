// Package sim runs bodies over the cube-sphere grid. All state lives in the
// goroutine started by Run; callers talk to it through channels.
package sim

import (
	"context"
	"log/slog"
	"time"

	"cubesphere/internal/env"
	"cubesphere/internal/geometry/rotation"
	"cubesphere/internal/grid"
)

type stateReq struct {
	reply chan WorldState
}

type subscribeReq struct {
	ch chan WorldState
}

type Engine struct {
	grid *grid.Grid
	log  *slog.Logger

	// Actor channels
	cmdCh       chan Command
	stateReqCh  chan stateReq
	subscribeCh chan subscribeReq
	unsubCh     chan chan WorldState

	tickHz      float64
	restitution float64
	contactDeg  float64
	environment env.Environment
}

type Config struct {
	Grid        *grid.Grid
	TickHz      float64
	Restitution float64
	// ContactDeg is the center distance at which two bodies touch.
	ContactDeg float64

	Environment env.Environment
	Logger      *slog.Logger
}

func New(cfg Config) *Engine {
	if cfg.TickHz <= 0 {
		cfg.TickHz = 20
	}
	if cfg.Restitution <= 0 {
		cfg.Restitution = rotation.DefaultRestitution
	}
	if cfg.ContactDeg <= 0 {
		cfg.ContactDeg = 2
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Grid == nil {
		cfg.Grid = grid.MustNew(32)
	}
	return &Engine{
		grid:        cfg.Grid,
		log:         cfg.Logger,
		cmdCh:       make(chan Command, 128),
		stateReqCh:  make(chan stateReq, 32),
		subscribeCh: make(chan subscribeReq, 32),
		unsubCh:     make(chan chan WorldState, 32),
		tickHz:      cfg.TickHz,
		restitution: cfg.Restitution,
		contactDeg:  cfg.ContactDeg,
		environment: cfg.Environment,
	}
}

// Grid returns the grid bodies are located on.
func (e *Engine) Grid() *grid.Grid { return e.grid }

// Submit queues cmd. It never blocks; when the queue is full the command is
// dropped and Submit reports false.
func (e *Engine) Submit(cmd Command) bool {
	select {
	case e.cmdCh <- cmd:
		return true
	default:
		e.log.Warn("sim_command_dropped", "type", cmd.Type())
		return false
	}
}

func (e *Engine) GetState(ctx context.Context) (WorldState, error) {
	req := stateReq{reply: make(chan WorldState, 1)}
	select {
	case e.stateReqCh <- req:
	case <-ctx.Done():
		return WorldState{}, ctx.Err()
	}

	select {
	case st := <-req.reply:
		return st, nil
	case <-ctx.Done():
		return WorldState{}, ctx.Err()
	}
}

// Subscribe returns a channel receiving a snapshot after every tick, starting
// with the current state. Slow readers miss frames. The channel is closed by
// the returned cancel func or when Run stops.
func (e *Engine) Subscribe(ctx context.Context) (<-chan WorldState, func()) {
	ch := make(chan WorldState, 32)

	select {
	case e.subscribeCh <- subscribeReq{ch: ch}:
	case <-ctx.Done():
		close(ch)
		return ch, func() {}
	}

	unsub := func() {
		select {
		case e.unsubCh <- ch:
		default:
		}
	}
	return ch, unsub
}

func (e *Engine) Run(ctx context.Context) error {
	// Actor-owned state
	now := time.Now()
	w := newWorld(e.grid, e.environment, e.restitution, e.contactDeg)
	subs := map[chan WorldState]struct{}{}

	publish := func(st WorldState) {
		for ch := range subs {
			select {
			case ch <- st:
			default:
				// slow subscriber -> drop frame
			}
		}
	}

	e.log.Info("sim_started", "tick_hz", e.tickHz, "cells", e.grid.NumCells())

	tick := time.NewTicker(time.Duration(float64(time.Second) / e.tickHz))
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			for ch := range subs {
				close(ch)
			}
			e.log.Info("sim_stopped", "ticks", w.tick)
			return nil

		case req := <-e.subscribeCh:
			subs[req.ch] = struct{}{}
			req.ch <- w.snapshot(now, "")

		case ch := <-e.unsubCh:
			if _, ok := subs[ch]; ok {
				delete(subs, ch)
				close(ch)
			}

		case req := <-e.stateReqCh:
			req.reply <- w.snapshot(now, "")

		case cmd := <-e.cmdCh:
			w.apply(cmd)
			e.log.Debug("sim_command", "type", cmd.Type(), "bodies", len(w.bodies))

		case t := <-tick.C:
			dt := t.Sub(now).Seconds()
			if dt <= 0 {
				dt = 1.0 / e.tickHz
			}
			now = t

			hitsBefore := w.hits
			warning := w.step(dt)
			if w.hits != hitsBefore {
				e.log.Debug("sim_collision", "tick", w.tick, "total", w.hits)
			}
			publish(w.snapshot(now, warning))
		}
	}
}
