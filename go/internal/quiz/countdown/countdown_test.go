package countdown

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

// manualScheduler records registered callbacks so tests fire ticks by hand,
// including ticks from a stopped registration.
type manualScheduler struct {
	fns     []func()
	stopped []bool
}

func (m *manualScheduler) Every(_ time.Duration, fn func()) func() {
	i := len(m.fns)
	m.fns = append(m.fns, fn)
	m.stopped = append(m.stopped, false)
	return func() { m.stopped[i] = true }
}

func (m *manualScheduler) fire(i, n int) {
	for k := 0; k < n; k++ {
		m.fns[i]()
	}
}

type recorder struct {
	ticks   []int
	cues    int
	expires int
}

func (r *recorder) callbacks() Callbacks {
	return Callbacks{
		Tick:   func(rem int) { r.ticks = append(r.ticks, rem) },
		Cue:    func() { r.cues++ },
		Expire: func() { r.expires++ },
	}
}

func TestTimer_CountsDownCuesAndExpiresOnce(t *testing.T) {
	sched := &manualScheduler{}
	rec := &recorder{}
	timer := New(sched, rec.callbacks())

	timer.Start(10)
	sched.fire(0, 12)

	want := []int{10, 9, 8, 7, 6, 5, 4, 3, 2, 1, 0}
	if len(rec.ticks) != len(want) {
		t.Fatalf("ticks = %v, want %v", rec.ticks, want)
	}
	for i := range want {
		if rec.ticks[i] != want[i] {
			t.Fatalf("ticks = %v, want %v", rec.ticks, want)
		}
	}
	if rec.cues != 1 {
		t.Errorf("cues = %d, want 1", rec.cues)
	}
	if rec.expires != 1 {
		t.Errorf("expires = %d, want 1", rec.expires)
	}
	if timer.Active() || !sched.stopped[0] {
		t.Error("timer should be stopped after expiry")
	}
}

func TestTimer_RestartReplacesPrevious(t *testing.T) {
	sched := &manualScheduler{}
	rec := &recorder{}
	timer := New(sched, rec.callbacks())

	timer.Start(10)
	timer.Start(5)

	if !sched.stopped[0] {
		t.Fatal("first registration should be stopped")
	}
	// Stale ticks from the first countdown are ignored.
	sched.fire(0, 3)
	if timer.Remaining() != 5 {
		t.Fatalf("remaining = %d, want 5", timer.Remaining())
	}
	sched.fire(1, 5)
	if rec.expires != 1 {
		t.Errorf("expires = %d, want 1", rec.expires)
	}
}

func TestTimer_StopSuppressesExpiry(t *testing.T) {
	sched := &manualScheduler{}
	rec := &recorder{}
	timer := New(sched, rec.callbacks())

	timer.Start(2)
	sched.fire(0, 1)
	timer.Stop()
	sched.fire(0, 5)

	if rec.expires != 0 {
		t.Errorf("expires = %d after stop", rec.expires)
	}
	if timer.Active() || timer.Remaining() != 0 {
		t.Error("timer should be idle")
	}
}

func TestTierFor(t *testing.T) {
	tests := []struct {
		remaining int
		want      Tier
	}{
		{10, TierNormal},
		{7, TierNormal},
		{6, TierWarning},
		{4, TierWarning},
		{3, TierUrgent},
		{0, TierUrgent},
	}
	for _, tt := range tests {
		if got := TierFor(tt.remaining); got != tt.want {
			t.Errorf("TierFor(%d) = %v, want %v", tt.remaining, got, tt.want)
		}
	}
}

func TestClockScheduler_PostsTicks(t *testing.T) {
	clock := clockwork.NewFakeClock()
	posted := make(chan func(), 4)
	sched := NewClockScheduler(clock, func(fn func()) { posted <- fn })

	var calls int
	stop := sched.Every(time.Second, func() { calls++ })

	if err := clock.BlockUntilContext(t.Context(), 1); err != nil {
		t.Fatalf("waiting for ticker: %v", err)
	}
	clock.Advance(time.Second)

	select {
	case fn := <-posted:
		fn()
	case <-time.After(time.Second):
		t.Fatal("tick was not posted")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}

	stop()
	stop()
}
