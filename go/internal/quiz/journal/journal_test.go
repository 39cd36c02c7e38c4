package journal

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/mcdev12/painani/go/internal/quiz/controller"
	"github.com/mcdev12/painani/go/internal/quiz/events"
)

func openTempStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), DriverSQLite, filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpenValidation(t *testing.T) {
	t.Parallel()

	if _, err := Open(context.Background(), DriverSQLite, ""); err == nil {
		t.Fatal("expected empty dsn error")
	}
	if _, err := Open(context.Background(), "mysql", "x"); !errors.Is(err, ErrUnknownDriver) {
		t.Fatalf("err = %v, want ErrUnknownDriver", err)
	}
}

func TestRunFlushesOnShutdown(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	clock := clockwork.NewFakeClockAt(time.Date(2026, time.March, 1, 20, 0, 0, 0, time.UTC))
	j := New(store, Config{Clock: clock})

	j.Record(controller.DirectionOut, string(events.IntentOpenQuestion), events.OpenQuestion{CatIdx: 1, ClueIdx: 2})
	j.Record(controller.DirectionIn, "timer_stopped", nil)
	j.Record(controller.DirectionOut, string(events.IntentSubmitAnswer), events.SubmitAnswer{Player: 0, Answer: 3})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := j.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}

	got, err := store.List(context.Background(), j.SessionID())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("entries = %d, want 3", len(got))
	}
	if got[0].Seq != 1 || got[2].Seq != 3 {
		t.Fatalf("seq = %d..%d, want 1..3", got[0].Seq, got[2].Seq)
	}
	if got[0].Direction != controller.DirectionOut || got[0].Name != "open_question" {
		t.Fatalf("first = %+v", got[0])
	}
	if !strings.Contains(string(got[0].Payload.RawMessage), `"clue_idx":2`) {
		t.Fatalf("payload = %s", got[0].Payload.RawMessage)
	}
	if got[1].Payload.Valid {
		t.Fatalf("nil payload stored as %s", got[1].Payload.RawMessage)
	}
	if !got[2].RecordedAt.Equal(clock.Now()) {
		t.Fatalf("recorded_at = %v, want %v", got[2].RecordedAt, clock.Now())
	}
}

func TestRecordDropsWhenFull(t *testing.T) {
	t.Parallel()

	j := New(openTempStore(t), Config{BufferSize: 2})
	for i := 0; i < 5; i++ {
		j.Record(controller.DirectionIn, "tick", nil)
	}
	if j.Dropped() != 3 {
		t.Fatalf("dropped = %d, want 3", j.Dropped())
	}
}
