// Package countdown implements the per-question answer countdown.
//
// At most one countdown is live at a time. Ticks come from an injectable
// Scheduler; a generation counter makes ticks from a stopped or replaced
// countdown harmless even when they were already queued by the scheduler.
package countdown

import "time"

// Tier is the presentation urgency of the remaining time.
type Tier int

const (
	TierNormal Tier = iota
	TierWarning
	TierUrgent
)

func (t Tier) String() string {
	switch t {
	case TierWarning:
		return "warning"
	case TierUrgent:
		return "urgent"
	default:
		return "normal"
	}
}

const (
	// CueSecond is the remaining time at which the audible cue plays.
	CueSecond = 6

	WarningSeconds = 6
	UrgentSeconds  = 3

	// DefaultSeconds is the answer window used when the server does not say.
	DefaultSeconds = 10
)

// TierFor maps remaining seconds to an urgency tier.
func TierFor(remaining int) Tier {
	switch {
	case remaining <= UrgentSeconds:
		return TierUrgent
	case remaining <= WarningSeconds:
		return TierWarning
	default:
		return TierNormal
	}
}

// Scheduler produces periodic callbacks. The returned stop function must be
// safe to call more than once.
type Scheduler interface {
	Every(d time.Duration, fn func()) (stop func())
}

// Callbacks receive countdown notifications. Any of them may be nil.
type Callbacks struct {
	Tick   func(remaining int)
	Cue    func()
	Expire func()
}

// Timer is a single-instance countdown. It is not safe for concurrent use;
// the scheduler must deliver ticks on the owner's goroutine.
type Timer struct {
	sched     Scheduler
	cb        Callbacks
	gen       uint64
	remaining int
	active    bool
	stop      func()
}

// New returns an idle timer.
func New(sched Scheduler, cb Callbacks) *Timer {
	return &Timer{sched: sched, cb: cb}
}

// Start stops any running countdown and starts a new one.
func (t *Timer) Start(seconds int) {
	t.Stop()
	if seconds <= 0 {
		seconds = DefaultSeconds
	}
	t.gen++
	gen := t.gen
	t.remaining = seconds
	t.active = true
	if t.cb.Tick != nil {
		t.cb.Tick(seconds)
	}
	t.stop = t.sched.Every(time.Second, func() { t.tick(gen) })
}

// Stop cancels the live countdown, if any. Expire is not invoked.
func (t *Timer) Stop() {
	t.gen++
	t.active = false
	if t.stop != nil {
		t.stop()
		t.stop = nil
	}
}

// Active reports whether a countdown is live.
func (t *Timer) Active() bool {
	return t.active
}

// Remaining returns the seconds left on the live countdown.
func (t *Timer) Remaining() int {
	if !t.active {
		return 0
	}
	return t.remaining
}

func (t *Timer) tick(gen uint64) {
	if gen != t.gen || !t.active {
		return
	}
	t.remaining--
	if t.cb.Tick != nil {
		t.cb.Tick(t.remaining)
	}
	if t.remaining == CueSecond && t.cb.Cue != nil {
		t.cb.Cue()
	}
	if t.remaining <= 0 {
		t.Stop()
		if t.cb.Expire != nil {
			t.cb.Expire()
		}
	}
}
