// Package realtime pushes notifications to connected clients over WebSocket.
// It runs its own HTTP listener next to the main API server.
package realtime

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 32
)

// TokenVerifier resolves a bearer token to a user ID.
type TokenVerifier interface {
	VerifyToken(token string) (string, error)
}

type subscriber struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans published payloads out to the subscribers of a topic. Each user
// session subscribes to its own notification topic on connect. Slow
// subscribers have payloads dropped rather than blocking the publisher.
type Hub struct {
	mu       sync.RWMutex
	topics   map[string]map[*subscriber]struct{}
	verifier TokenVerifier
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

func NewHub(verifier TokenVerifier, logger zerolog.Logger) *Hub {
	return &Hub{
		topics:   make(map[string]map[*subscriber]struct{}),
		verifier: verifier,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// Publish sends payload to every subscriber of topic. Marshal failures and
// full client buffers are logged and dropped.
func (h *Hub) Publish(topic string, payload any) {
	b, err := json.Marshal(payload)
	if err != nil {
		h.logger.Warn().Err(err).Str("topic", topic).Msg("realtime marshal failed")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.topics[topic] {
		select {
		case sub.send <- b:
		default:
			h.logger.Warn().Str("topic", topic).Msg("realtime subscriber buffer full, dropping")
		}
	}
}

func (h *Hub) register(topic string, sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.topics[topic]
	if !ok {
		subs = make(map[*subscriber]struct{})
		h.topics[topic] = subs
	}
	subs[sub] = struct{}{}
}

func (h *Hub) unregister(topic string, sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if subs, ok := h.topics[topic]; ok {
		delete(subs, sub)
		if len(subs) == 0 {
			delete(h.topics, topic)
		}
	}
}

// ServeHTTP upgrades the connection and subscribes it to the caller's
// notification topic. The token comes from the access_token query parameter
// since browsers cannot set headers on WebSocket handshakes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("access_token")
	if token == "" {
		http.Error(w, "missing access_token", http.StatusUnauthorized)
		return
	}
	userID, err := h.verifier.VerifyToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	topic := "notification_" + userID
	sub := &subscriber{conn: conn, send: make(chan []byte, sendBufferSize)}
	h.register(topic, sub)
	h.logger.Debug().Str("topic", topic).Msg("realtime subscriber connected")

	go h.writeLoop(topic, sub)
	go h.readLoop(topic, sub)
}

// writeLoop drains the send buffer and keeps the connection alive with pings.
func (h *Hub) writeLoop(topic string, sub *subscriber) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		sub.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-sub.send:
			sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				sub.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := sub.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sub.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readLoop discards inbound frames and unregisters on disconnect. Clients
// only listen on this channel; there is no inbound protocol.
func (h *Hub) readLoop(topic string, sub *subscriber) {
	defer func() {
		h.unregister(topic, sub)
		close(sub.send)
		h.logger.Debug().Str("topic", topic).Msg("realtime subscriber disconnected")
	}()

	sub.conn.SetReadLimit(512)
	sub.conn.SetReadDeadline(time.Now().Add(pongWait))
	sub.conn.SetPongHandler(func(string) error {
		sub.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := sub.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Server builds the standalone HTTP server that exposes the hub at /realtime.
func (h *Hub) Server(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/realtime", h)
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
