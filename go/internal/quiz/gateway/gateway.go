// Package gateway connects the controller to the quiz server. Both
// transports carry the same JSON envelope frames and deliver inbound events
// from a single goroutine, so arrival order is preserved.
package gateway

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/painani/go/internal/quiz/events"
)

var (
	ErrNotConnected   = errors.New("transport not connected")
	ErrSendBufferFull = errors.New("send buffer full")
)

// Handler receives decoded inbound events in arrival order.
type Handler func(events.Event)

// Transport is a bidirectional event channel to the quiz server.
type Transport interface {
	// Run delivers inbound events to h until ctx is done.
	Run(ctx context.Context, h Handler) error
	// Emit sends one outbound intent.
	Emit(ctx context.Context, intent events.Intent) error
	Close() error
}

// deliver decodes one frame and hands it to h. Undecodable frames are
// logged and skipped.
func deliver(source string, frame []byte, h Handler) {
	ev, err := events.DecodeFrame(frame)
	if err != nil {
		switch {
		case errors.Is(err, events.ErrUnknownEvent):
			log.Debug().Err(err).Str("source", source).Msg("skipping unknown event")
		default:
			log.Warn().Err(err).Str("source", source).Msg("skipping malformed event")
		}
		return
	}
	h(ev)
}
