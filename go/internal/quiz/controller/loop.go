package controller

import (
	"context"

	"github.com/mcdev12/painani/go/internal/quiz/events"
)

// Run processes the inbox until ctx is done. Every trigger, whether a
// server event, a countdown tick or local input, runs to completion on this
// goroutine in arrival order.
func (c *Controller) Run(ctx context.Context) error {
	c.ctx = ctx
	c.logger.Info().Msg("controller loop started")
	defer func() {
		c.timer.Stop()
		c.stop()
		c.logger.Info().Msg("controller loop stopped")
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-c.inbox:
			fn()
		}
	}
}

func (c *Controller) stop() {
	c.stopOnce.Do(func() { close(c.done) })
}

// Dispatch queues an inbound event. It blocks while the inbox is full and
// returns false once the loop has stopped.
func (c *Controller) Dispatch(ev events.Event) bool {
	return c.Do(func() { c.HandleEvent(ev) })
}

// Do queues fn to run on the loop. It blocks while the inbox is full and
// returns false once the loop has stopped.
func (c *Controller) Do(fn func()) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.inbox <- fn:
		return true
	case <-c.done:
		return false
	}
}

// Call runs fn on the loop and waits for its error.
func (c *Controller) Call(ctx context.Context, fn func() error) error {
	errCh := make(chan error, 1)
	if !c.Do(func() { errCh <- fn() }) {
		return ErrStopped
	}
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
