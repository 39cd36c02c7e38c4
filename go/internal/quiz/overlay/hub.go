package overlay

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Hub fans overlay messages out to connected browsers.
type Hub struct {
	connections map[*Connection]bool
	mu          sync.RWMutex

	upgrader websocket.Upgrader
	config   ConnectionConfig

	broadcastCh chan []byte

	// welcome returns the frame sent to a browser right after it connects.
	welcome func() ([]byte, error)
}

// Connection is one browser overlay.
type Connection struct {
	ID          string
	Conn        *websocket.Conn
	Send        chan []byte
	hub         *Hub
	ConnectedAt time.Time
}

// ConnectionConfig holds configuration for overlay websocket connections.
type ConnectionConfig struct {
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	PingInterval    time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	CheckOrigin     func(r *http.Request) bool
}

// DefaultConnectionConfig returns default overlay websocket configuration.
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		WriteTimeout:    10 * time.Second,
		ReadTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  1024,
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     CheckOrigins(nil),
	}
}

// CheckOrigins accepts websocket upgrades from the listed origins, matching
// the CORS policy of the REST routes. An empty list or "*" accepts any
// origin; requests without an Origin header are not from browsers and pass.
func CheckOrigins(allowed []string) func(r *http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[strings.ToLower(strings.TrimRight(o, "/"))] = struct{}{}
	}
	if len(set) == 0 {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[strings.ToLower(origin)]
		return ok
	}
}

// Message is the overlay wire frame.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// NewHub creates a hub; call Start to begin broadcasting.
func NewHub(config ConnectionConfig) *Hub {
	return &Hub{
		connections: make(map[*Connection]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		config:      config,
		broadcastCh: make(chan []byte, 256),
	}
}

// Start processes broadcasts until ctx is done.
func (h *Hub) Start(ctx context.Context) {
	log.Info().Msg("overlay hub started")
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			log.Info().Msg("overlay hub shutting down")
			return
		case frame := <-h.broadcastCh:
			h.handleBroadcast(frame)
		}
	}
}

// Broadcast queues msg for every connection. Messages are dropped when the
// queue is full; the next state frame supersedes them anyway.
func (h *Hub) Broadcast(msg Message) {
	frame, err := marshalMessage(msg)
	if err != nil {
		log.Error().Err(err).Str("type", msg.Type).Msg("failed to marshal overlay message")
		return
	}
	select {
	case h.broadcastCh <- frame:
	default:
		log.Warn().Str("type", msg.Type).Msg("broadcast channel full, dropping message")
	}
}

func marshalMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}

// Upgrade turns an HTTP request into an overlay connection.
func (h *Hub) Upgrade(w http.ResponseWriter, r *http.Request) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("failed to upgrade connection: %w", err)
	}

	c := &Connection{
		ID:          uuid.New().String(),
		Conn:        conn,
		Send:        make(chan []byte, 64),
		hub:         h,
		ConnectedAt: time.Now(),
	}
	if h.welcome != nil {
		if frame, err := h.welcome(); err == nil {
			c.Send <- frame
		}
	}
	h.register(c)

	go c.writePump()
	go c.readPump()

	log.Info().Str("connection_id", c.ID).Str("remote", r.RemoteAddr).Msg("overlay connected")
	return nil
}

func (h *Hub) register(c *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.connections[c] = true
}

func (h *Hub) unregister(c *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.connections[c]; ok {
		delete(h.connections, c)
		close(c.Send)
		log.Info().Str("connection_id", c.ID).Msg("overlay disconnected")
	}
}

func (h *Hub) closeAll() {
	h.mu.RLock()
	conns := make([]*Connection, 0, len(h.connections))
	for c := range h.connections {
		conns = append(conns, c)
	}
	h.mu.RUnlock()
	for _, c := range conns {
		h.unregister(c)
	}
}

func (h *Hub) handleBroadcast(frame []byte) {
	// Sends happen under the read lock so unregister cannot close a channel
	// mid-send.
	var slow []*Connection
	h.mu.RLock()
	for c := range h.connections {
		select {
		case c.Send <- frame:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		log.Warn().Str("connection_id", c.ID).Msg("overlay send buffer full, closing connection")
		h.unregister(c)
		c.Conn.Close()
	}
}

// Count returns the number of connected overlays.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(c.hub.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
		c.hub.unregister(c)
	}()

	for {
		select {
		case frame, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(c.hub.config.WriteTimeout))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				log.Error().Err(err).Str("connection_id", c.ID).Msg("failed to write overlay frame")
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(c.hub.config.WriteTimeout))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump only services control frames; overlays are display-only.
func (c *Connection) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(c.hub.config.MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(c.hub.config.ReadTimeout))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(c.hub.config.ReadTimeout))
		return nil
	})
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().Err(err).Str("connection_id", c.ID).Msg("unexpected overlay close error")
			}
			return
		}
	}
}
