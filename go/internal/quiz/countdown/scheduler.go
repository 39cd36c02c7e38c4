package countdown

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// ClockScheduler drives ticks from a clockwork clock. Every tick is handed
// to Post, which is expected to enqueue it on the owner's event loop.
type ClockScheduler struct {
	Clock clockwork.Clock
	Post  func(fn func())
}

// NewClockScheduler uses the real clock when clock is nil.
func NewClockScheduler(clock clockwork.Clock, post func(fn func())) *ClockScheduler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &ClockScheduler{Clock: clock, Post: post}
}

// Every starts a ticker goroutine and returns its stop function.
func (s *ClockScheduler) Every(d time.Duration, fn func()) func() {
	ticker := s.Clock.NewTicker(d)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.Chan():
				if s.Post != nil {
					s.Post(fn)
				} else {
					fn()
				}
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			stopAndDrainTicker(ticker)
			close(done)
			log.Debug().Dur("interval", d).Msg("countdown ticker stopped")
		})
	}
}

// stopAndDrainTicker stops the ticker and drops a tick already sitting in
// its channel.
func stopAndDrainTicker(ticker clockwork.Ticker) {
	ticker.Stop()
	select {
	case <-ticker.Chan():
	default:
	}
}
