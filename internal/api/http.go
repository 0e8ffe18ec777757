// Package api serves the grid queries and the simulation over HTTP.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"cubesphere/internal/grid"
	"cubesphere/internal/logger"
	"cubesphere/internal/metrics"
	"cubesphere/internal/sim"
)

type Server struct {
	grid *grid.Grid
	eng  *sim.Engine
	log  *slog.Logger
	mux  *http.ServeMux
}

// NewServer wires routes for g and eng. A nil logger uses logger.L().
func NewServer(g *grid.Grid, eng *sim.Engine, l *slog.Logger) *Server {
	if l == nil {
		l = logger.L()
	}
	s := &Server{grid: g, eng: eng, log: l, mux: http.NewServeMux()}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler { return logger.AccessMiddleware(s.log)(s.mux) }

func (s *Server) routes() {
	s.handle("/health", s.health)

	s.handle("/grid", s.gridInfo)
	s.handle("/cell", s.cell)
	s.handle("/locate", s.locate)
	s.handle("/neighbors", s.neighbors)
	s.handle("/convert", s.convert)

	s.handle("/state", s.state)
	s.handle("/command/", s.command)

	s.handle("/stream", s.streamSSE)
	s.handle("/ws", s.websocket)

	s.mux.Handle("/metrics", metrics.Handler())
}

func (s *Server) handle(route string, h http.HandlerFunc) {
	s.mux.HandleFunc(route, metrics.Instrument(route, h))
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) state(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	st, err := s.eng.GetState(ctx)
	if err != nil {
		http.Error(w, err.Error(), http.StatusRequestTimeout)
		return
	}
	writeJSON(w, st)
}

// commandBody is the JSON accepted by /command/{type} and by websocket
// clients. Fields other than Type only matter for spawn.
type commandBody struct {
	Type           string  `json:"type"`
	Lat            float64 `json:"lat"`
	Lon            float64 `json:"lon"`
	HeadingDeg     float64 `json:"headingDeg"`
	SpeedDegPerSec float64 `json:"speedDegPerSec"`
	Mass           float64 `json:"mass,omitempty"`
}

func (b commandBody) toCommand(now time.Time) (sim.Command, error) {
	t, ok := sim.ParseCommandType(b.Type)
	if !ok {
		return nil, fmt.Errorf("unknown command %q", b.Type)
	}
	switch t {
	case sim.CmdSpawn:
		if b.Lat < -90 || b.Lat > 90 {
			return nil, fmt.Errorf("lat %g out of range", b.Lat)
		}
		if b.Mass < 0 {
			return nil, fmt.Errorf("mass %g must not be negative", b.Mass)
		}
		return sim.SpawnCommand{
			At:             now,
			Lat:            b.Lat,
			Lon:            b.Lon,
			HeadingDeg:     b.HeadingDeg,
			SpeedDegPerSec: b.SpeedDegPerSec,
			Mass:           b.Mass,
		}, nil
	case sim.CmdHold:
		return sim.HoldCommand{At: now}, nil
	case sim.CmdResume:
		return sim.ResumeCommand{At: now}, nil
	case sim.CmdStop:
		return sim.StopCommand{At: now}, nil
	default:
		return sim.ClearCommand{At: now}, nil
	}
}

func (s *Server) command(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}

	body := commandBody{Type: r.URL.Path[len("/command/"):]}
	if body.Type == string(sim.CmdSpawn) {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		body.Type = string(sim.CmdSpawn)
	}

	cmd, err := body.toCommand(time.Now())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !s.eng.Submit(cmd) {
		http.Error(w, "command queue full", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, map[string]any{"status": "accepted", "type": cmd.Type()})
}

func (s *Server) streamSSE(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "GET only", http.StatusMethodNotAllowed)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ctx := r.Context()
	ch, unsub := s.eng.Subscribe(ctx)
	defer unsub()

	fmt.Fprintf(w, ": connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-ctx.Done():
			return
		case st, ok := <-ch:
			if !ok {
				return
			}
			b, _ := json.Marshal(st)
			fmt.Fprintf(w, "event: state\n")
			fmt.Fprintf(w, "data: %s\n\n", b)
			flusher.Flush()
		}
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
