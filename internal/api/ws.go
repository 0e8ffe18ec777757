package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"cubesphere/internal/metrics"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const wsWriteWait = 5 * time.Second

// websocket pushes every published state to the client and accepts
// commandBody messages in the other direction.
func (s *Server) websocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("ws_upgrade_failed", "err", err)
		return
	}
	defer conn.Close()

	metrics.WSClients.Inc()
	defer metrics.WSClients.Dec()

	var mu sync.Mutex
	send := func(v any) error {
		mu.Lock()
		defer mu.Unlock()
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		return conn.WriteJSON(v)
	}

	ctx := r.Context()
	states, unsub := s.eng.Subscribe(ctx)
	defer unsub()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var msg commandBody
			if err := conn.ReadJSON(&msg); err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					s.log.Debug("ws_read_closed", "err", err)
				}
				return
			}
			cmd, err := msg.toCommand(time.Now())
			if err != nil {
				_ = send(map[string]string{"error": err.Error()})
				continue
			}
			if !s.eng.Submit(cmd) {
				_ = send(map[string]string{"error": "command queue full"})
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case st, ok := <-states:
			if !ok {
				return
			}
			if err := send(st); err != nil {
				s.log.Debug("ws_write_failed", "err", err)
				return
			}
		}
	}
}
