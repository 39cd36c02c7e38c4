package journal

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/sqlc-dev/pqtype"

	"github.com/mcdev12/painani/go/internal/quiz/controller"
)

// Config tunes the background writer.
type Config struct {
	BufferSize    int
	BatchSize     int
	FlushInterval time.Duration
	Clock         clockwork.Clock
}

func DefaultConfig() Config {
	return Config{
		BufferSize:    1024,
		BatchSize:     64,
		FlushInterval: time.Second,
	}
}

// Journal is a controller.Journal that writes to a Store from its own
// goroutine.
type Journal struct {
	store     *Store
	sessionID uuid.UUID
	config    Config
	clock     clockwork.Clock

	entries chan Entry
	seq     atomic.Int64
	dropped atomic.Int64
}

var _ controller.Journal = (*Journal)(nil)

// New creates a journal for a fresh session id. Call Run to start writing.
func New(store *Store, cfg Config) *Journal {
	def := DefaultConfig()
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = def.BufferSize
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = def.BatchSize
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = def.FlushInterval
	}
	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Journal{
		store:     store,
		sessionID: uuid.New(),
		config:    cfg,
		clock:     clock,
		entries:   make(chan Entry, cfg.BufferSize),
	}
}

// SessionID identifies this run's entries.
func (j *Journal) SessionID() uuid.UUID { return j.sessionID }

// Dropped counts entries discarded because the buffer was full.
func (j *Journal) Dropped() int64 { return j.dropped.Load() }

// Record queues one entry. It never blocks.
func (j *Journal) Record(direction, name string, payload any) {
	e := Entry{
		ID:         uuid.New(),
		SessionID:  j.sessionID,
		Seq:        j.seq.Add(1),
		Direction:  direction,
		Name:       name,
		RecordedAt: j.clock.Now(),
	}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			log.Warn().Err(err).Str("name", name).Msg("failed to marshal journal payload")
		} else {
			e.Payload = pqtype.NullRawMessage{RawMessage: raw, Valid: len(raw) > 0}
		}
	}

	select {
	case j.entries <- e:
	default:
		j.dropped.Add(1)
		log.Warn().Str("name", name).Msg("journal buffer full, dropping entry")
	}
}

// Run writes queued entries in batches until ctx is done, then flushes what
// is still buffered.
func (j *Journal) Run(ctx context.Context) error {
	ticker := j.clock.NewTicker(j.config.FlushInterval)
	defer ticker.Stop()

	log.Info().Str("session_id", j.sessionID.String()).Msg("journal started")

	batch := make([]Entry, 0, j.config.BatchSize)
	for {
		select {
		case <-ctx.Done():
			batch = j.drain(batch)
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			j.flush(flushCtx, batch)
			cancel()
			log.Info().Int64("dropped", j.Dropped()).Msg("journal stopped")
			return nil
		case e := <-j.entries:
			batch = append(batch, e)
			if len(batch) >= j.config.BatchSize {
				batch = j.flush(ctx, batch)
			}
		case <-ticker.Chan():
			batch = j.flush(ctx, batch)
		}
	}
}

func (j *Journal) drain(batch []Entry) []Entry {
	for {
		select {
		case e := <-j.entries:
			batch = append(batch, e)
		default:
			return batch
		}
	}
}

func (j *Journal) flush(ctx context.Context, batch []Entry) []Entry {
	if len(batch) == 0 {
		return batch
	}
	if err := j.store.Insert(ctx, batch); err != nil {
		log.Error().Err(err).Int("entries", len(batch)).Msg("failed to write journal batch")
	}
	return batch[:0]
}
