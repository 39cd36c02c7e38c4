package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/painani/go/internal/quiz/events"
)

// NATSConfig holds configuration for the NATS transport. Server events are
// read from a JetStream stream; intents are published on core NATS
// subjects "<IntentPrefix>.<intent name>".
type NATSConfig struct {
	URL           string
	StreamName    string
	SubjectFilter string // e.g. "painani.events.>"
	IntentPrefix  string // e.g. "painani.intents"
	MaxReconnects int
	ReconnectWait time.Duration
}

// DefaultNATSConfig returns default NATS settings.
func DefaultNATSConfig() NATSConfig {
	return NATSConfig{
		URL:           nats.DefaultURL,
		StreamName:    "PAINANI_EVENTS",
		SubjectFilter: "painani.events.>",
		IntentPrefix:  "painani.intents",
		MaxReconnects: -1,
		ReconnectWait: 2 * time.Second,
	}
}

// NATSTransport consumes events through an ordered JetStream consumer so
// delivery order matches the stream.
type NATSTransport struct {
	nc     *nats.Conn
	js     jetstream.JetStream
	config NATSConfig
}

// NewNATSTransport connects to NATS.
func NewNATSTransport(config NATSConfig) (*NATSTransport, error) {
	opts := []nats.Option{
		nats.Name("painani"),
		nats.MaxReconnects(config.MaxReconnects),
		nats.ReconnectWait(config.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			log.Error().Err(err).Msg("NATS error")
		}),
	}

	nc, err := nats.Connect(config.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}
	return &NATSTransport{nc: nc, js: js, config: config}, nil
}

// Run consumes new events from the stream until ctx is done.
func (t *NATSTransport) Run(ctx context.Context, h Handler) error {
	consumer, err := t.js.OrderedConsumer(ctx, t.config.StreamName, jetstream.OrderedConsumerConfig{
		FilterSubjects: []string{t.config.SubjectFilter},
		DeliverPolicy:  jetstream.DeliverNewPolicy,
	})
	if err != nil {
		return fmt.Errorf("create ordered consumer: %w", err)
	}

	log.Info().
		Str("stream", t.config.StreamName).
		Str("filter", t.config.SubjectFilter).
		Msg("starting JetStream event consumer")

	// Consume invokes the callback from one goroutine, one message at a time.
	consumeCtx, err := consumer.Consume(func(msg jetstream.Msg) {
		deliver(msg.Subject(), msg.Data(), h)
	})
	if err != nil {
		return fmt.Errorf("start consumer: %w", err)
	}
	defer consumeCtx.Stop()

	<-ctx.Done()
	log.Info().Msg("event consumer shutting down")
	return nil
}

// Emit publishes the intent frame on its subject.
func (t *NATSTransport) Emit(ctx context.Context, intent events.Intent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !t.nc.IsConnected() {
		return ErrNotConnected
	}
	frame, err := events.EncodeFrame(intent)
	if err != nil {
		return err
	}
	subject := t.config.IntentPrefix + "." + string(intent.IntentName())
	if err := t.nc.Publish(subject, frame); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	return nil
}

// Close drains the connection.
func (t *NATSTransport) Close() error {
	if t.nc == nil {
		return nil
	}
	return t.nc.Drain()
}
