package gateway

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/painani/go/internal/quiz/events"
)

// WebsocketConfig holds configuration for the websocket transport.
type WebsocketConfig struct {
	URL            string
	Header         http.Header
	WriteTimeout   time.Duration
	ReadTimeout    time.Duration
	PingInterval   time.Duration
	MaxMessageSize int64
	SendBuffer     int
	MinBackoff     time.Duration
	MaxBackoff     time.Duration
}

// DefaultWebsocketConfig returns default websocket settings for url.
func DefaultWebsocketConfig(url string) WebsocketConfig {
	return WebsocketConfig{
		URL:            url,
		WriteTimeout:   10 * time.Second,
		ReadTimeout:    60 * time.Second,
		PingInterval:   30 * time.Second,
		MaxMessageSize: 1 << 20, // board snapshots carry every clue
		SendBuffer:     64,
		MinBackoff:     500 * time.Millisecond,
		MaxBackoff:     10 * time.Second,
	}
}

// WebsocketTransport is a reconnecting websocket client.
type WebsocketTransport struct {
	config WebsocketConfig
	dialer *websocket.Dialer
	id     string

	mu   sync.Mutex
	send chan []byte // nil while disconnected
	conn *websocket.Conn
}

// NewWebsocketTransport creates a transport; it connects on Run.
func NewWebsocketTransport(config WebsocketConfig) *WebsocketTransport {
	return &WebsocketTransport{
		config: config,
		dialer: websocket.DefaultDialer,
		id:     uuid.New().String()[:8],
	}
}

// Run dials the server and keeps reconnecting with capped backoff until
// ctx is done. The server sends a fresh connected snapshot on every
// connection, so nothing is replayed locally.
func (t *WebsocketTransport) Run(ctx context.Context, h Handler) error {
	backoff := t.config.MinBackoff
	for {
		err := t.session(ctx, h)
		if ctx.Err() != nil {
			return nil
		}
		log.Warn().
			Err(err).
			Str("connection_id", t.id).
			Dur("retry_in", backoff).
			Msg("websocket disconnected")

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > t.config.MaxBackoff {
			backoff = t.config.MaxBackoff
		}
	}
}

// session runs one connection until it fails.
func (t *WebsocketTransport) session(ctx context.Context, h Handler) error {
	conn, _, err := t.dialer.DialContext(ctx, t.config.URL, t.config.Header)
	if err != nil {
		return fmt.Errorf("dial %s: %w", t.config.URL, err)
	}
	send := make(chan []byte, t.config.SendBuffer)
	t.mu.Lock()
	t.conn = conn
	t.send = send
	t.mu.Unlock()

	log.Info().Str("connection_id", t.id).Str("url", t.config.URL).Msg("websocket connected")

	sessCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	writeDone := make(chan struct{})
	go func() {
		defer close(writeDone)
		t.writePump(sessCtx, conn, send)
	}()

	err = t.readPump(conn, h)

	t.mu.Lock()
	t.conn = nil
	t.send = nil
	t.mu.Unlock()
	cancel()
	conn.Close()
	<-writeDone
	return err
}

func (t *WebsocketTransport) readPump(conn *websocket.Conn, h Handler) error {
	conn.SetReadLimit(t.config.MaxMessageSize)
	conn.SetReadDeadline(time.Now().Add(t.config.ReadTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(t.config.ReadTimeout))
		return nil
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error().Err(err).Str("connection_id", t.id).Msg("unexpected websocket close error")
			}
			return err
		}
		conn.SetReadDeadline(time.Now().Add(t.config.ReadTimeout))
		deliver("websocket", message, h)
	}
}

func (t *WebsocketTransport) writePump(ctx context.Context, conn *websocket.Conn, send <-chan []byte) {
	ticker := time.NewTicker(t.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			conn.SetWriteDeadline(time.Now().Add(t.config.WriteTimeout))
			conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case message := <-send:
			conn.SetWriteDeadline(time.Now().Add(t.config.WriteTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Error().Err(err).Str("connection_id", t.id).Msg("failed to write message to websocket")
				conn.Close()
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(t.config.WriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Error().Err(err).Str("connection_id", t.id).Msg("failed to send ping")
				conn.Close()
				return
			}
		}
	}
}

// Emit queues an intent frame for the current connection.
func (t *WebsocketTransport) Emit(ctx context.Context, intent events.Intent) error {
	frame, err := events.EncodeFrame(intent)
	if err != nil {
		return err
	}
	t.mu.Lock()
	send := t.send
	t.mu.Unlock()
	if send == nil {
		return ErrNotConnected
	}
	select {
	case send <- frame:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrSendBufferFull
	}
}

// Close drops the current connection; Run reconnects unless its context is done.
func (t *WebsocketTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn != nil {
		return t.conn.Close()
	}
	return nil
}
