// Package stream broadcasts live match events to websocket spectators.
package stream

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// MatchEvent is the JSON frame sent to spectators.
type MatchEvent struct {
	Type    string         `json:"type"`
	MatchID string         `json:"match_id"`
	Payload map[string]any `json:"payload,omitempty"`
}

// Hub fans match events out to all connected spectators. It satisfies the
// referee's EventSink. Spectators are read-only: inbound frames are drained
// and discarded.
type Hub struct {
	mu   sync.Mutex
	subs map[*websocket.Conn]struct{}
	log  *logrus.Entry
}

// NewHub creates an empty hub.
func NewHub(logger *logrus.Logger) *Hub {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Hub{
		subs: make(map[*websocket.Conn]struct{}),
		log:  logger.WithField("component", "stream"),
	}
}

// Handler accepts spectator websocket connections.
func (h *Hub) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			h.log.WithError(err).Warn("websocket accept failed")
			return
		}
		h.add(conn)
		h.log.Info("spectator connected")

		// Drain inbound frames until the peer goes away.
		ctx := r.Context()
		for {
			if _, _, err := conn.Read(ctx); err != nil {
				break
			}
		}
		h.remove(conn)
		conn.Close(websocket.StatusNormalClosure, "")
		h.log.Info("spectator disconnected")
	})
}

// BroadcastEvent implements referee.EventSink: it serializes the event once
// and writes it to every subscriber, dropping connections that fail.
func (h *Hub) BroadcastEvent(eventType string, matchID uuid.UUID, payload map[string]any) {
	data, err := json.Marshal(MatchEvent{
		Type:    eventType,
		MatchID: matchID.String(),
		Payload: payload,
	})
	if err != nil {
		h.log.WithError(err).Error("failed to marshal match event")
		return
	}

	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.subs))
	for c := range h.subs {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	for _, c := range conns {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := c.Write(ctx, websocket.MessageText, data)
		cancel()
		if err != nil {
			h.remove(c)
			c.Close(websocket.StatusGoingAway, "write failed")
		}
	}
}

// Subscribers returns the current spectator count.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *Hub) add(c *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subs[c] = struct{}{}
}

func (h *Hub) remove(c *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs, c)
}
