// Package controller owns one quiz session on the client. It serializes
// server events, countdown ticks and local input through a single loop and
// turns them into state changes, render commands and outbound intents.
package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/painani/go/internal/models"
	"github.com/mcdev12/painani/go/internal/quiz/countdown"
	"github.com/mcdev12/painani/go/internal/quiz/events"
	"github.com/mcdev12/painani/go/internal/quiz/layout"
	"github.com/mcdev12/painani/go/internal/quiz/mosaic"
	"github.com/mcdev12/painani/go/internal/quiz/session"
)

var (
	ErrNotConnected    = errors.New("no board snapshot received yet")
	ErrQuestionOpen    = errors.New("a question is already open")
	ErrCellUnavailable = errors.New("cell is not available")
	ErrNoEmitter       = errors.New("no emitter configured")
	ErrStopped         = errors.New("controller stopped")
)

const defaultInboxSize = 256

// Options configure a Controller. Emitter is required for anything to reach
// the server; the rest default to no-ops.
type Options struct {
	Emitter Emitter
	View    View
	Journal Journal

	// Scheduler drives the countdown. When nil a clockwork ticker on Clock
	// posts ticks into the loop.
	Scheduler countdown.Scheduler
	Clock     clockwork.Clock

	SentinelPrefix string
	MosaicImage    string

	// OnQuestionClosed runs on the loop after close_question, typically to
	// refetch the board.
	OnQuestionClosed func()

	Logger    *zerolog.Logger
	InboxSize int
}

// Controller is the single owner of the session. Only Run, Dispatch, Do and
// Snapshot are safe to call from other goroutines; every other method must
// run on the loop, either inside Do or before Run starts.
type Controller struct {
	emitter  Emitter
	view     View
	journal  Journal
	logger   zerolog.Logger
	sentinel string
	onClosed func()

	arb       *session.Arbiter
	timer     *countdown.Timer
	revealer  *mosaic.Revealer
	layout    layout.Layout
	connected bool

	ctx       context.Context
	inbox     chan func()
	done      chan struct{}
	stopOnce  sync.Once
	published atomic.Pointer[Snapshot]
}

// New constructs a controller with an empty session.
func New(opts Options) *Controller {
	c := &Controller{
		emitter:  opts.Emitter,
		view:     opts.View,
		journal:  opts.Journal,
		sentinel: opts.SentinelPrefix,
		onClosed: opts.OnQuestionClosed,
		ctx:      context.Background(),
		done:     make(chan struct{}),
	}
	if c.view == nil {
		c.view = nopView{}
	}
	if c.journal == nil {
		c.journal = nopJournal{}
	}
	if opts.Logger != nil {
		c.logger = *opts.Logger
	} else {
		c.logger = log.Logger
	}
	size := opts.InboxSize
	if size <= 0 {
		size = defaultInboxSize
	}
	c.inbox = make(chan func(), size)

	sched := opts.Scheduler
	if sched == nil {
		sched = countdown.NewClockScheduler(opts.Clock, func(fn func()) { c.Do(fn) })
	}
	c.timer = countdown.New(sched, countdown.Callbacks{
		Tick:   c.onTick,
		Cue:    func() { c.view.Cue(CueCountdown) },
		Expire: c.onExpire,
	})

	c.revealer = mosaic.New(c.onMosaicComplete)
	c.revealer.Initialize(opts.MosaicImage)

	c.arb = session.NewArbiter(session.NewState(models.BoardSnapshot{}, models.GameSnapshot{}))
	c.publish()
	return c
}

// DisableMosaic turns off the mosaic, as when its image cannot be loaded.
func (c *Controller) DisableMosaic() {
	if c.revealer.Enabled() {
		c.logger.Warn().Msg("mosaic disabled")
	}
	c.revealer.Disable()
	c.render()
}

// HandleEvent applies one inbound server event. Events are assumed to
// arrive in order and at most once from a single authoritative server;
// duplicates of terminal events are tolerated as no-ops.
func (c *Controller) HandleEvent(ev events.Event) {
	c.journal.Record(DirectionIn, string(ev.Name()), ev)
	c.logger.Debug().Str("event", string(ev.Name())).Str("phase", c.arb.Phase().String()).Msg("handling event")

	switch e := ev.(type) {
	case *events.Connected:
		c.onConnected(e)
	case *events.QuestionOpened:
		c.onQuestionOpened(e)
	case *events.BuzzerActivated:
		c.onBuzzerActivated(e)
	case *events.StartTimer:
		c.onStartTimer(e)
	case *events.StopTimer:
		c.timer.Stop()
		c.render()
	case *events.AnswerResult:
		c.onAnswerResult(e)
	case *events.ScoresUpdate:
		c.arb.State().ReplaceScores(e.Scores)
		c.render()
	case *events.TeamCountUpdated:
		c.onTeamCountUpdated(e)
	case *events.CloseQuestion:
		c.onCloseQuestion()
	case *events.GameReset:
		c.onGameReset(e)
	case *events.HideAnswersToggled:
		c.onHideAnswersToggled(e)
	case *events.ServerError:
		c.onServerError(e)
	default:
		c.logger.Warn().Str("event", string(ev.Name())).Msg("unhandled event")
	}

	if c.logger.GetLevel() <= zerolog.DebugLevel && zerolog.GlobalLevel() <= zerolog.DebugLevel {
		if err := c.arb.State().Check(); err != nil {
			c.logger.Debug().Err(err).Str("event", string(ev.Name())).Msg("session invariant violated")
		}
	}
}

func (c *Controller) onConnected(e *events.Connected) {
	c.timer.Stop()
	c.arb.Replace(session.NewState(e.Board, e.GameState))
	c.connected = true
	c.loadBoard(false)
	c.status(StatusInfo, MsgSelectCell)
}

func (c *Controller) onQuestionOpened(e *events.QuestionOpened) {
	c.timer.Stop()
	q := e.ToQuestion()
	c.arb.OpenQuestion(q)
	c.logger.Info().
		Str("category", q.Category).
		Int("value", q.Value).
		Str("cell", q.Cell.String()).
		Msg("question opened")
	c.render()
	c.status(StatusInfo, MsgQuestionOpen)
}

func (c *Controller) onBuzzerActivated(e *events.BuzzerActivated) {
	if err := c.arb.BuzzerActivated(*e.Player); err != nil {
		c.logger.Debug().Err(err).Int("player", *e.Player).Msg("ignoring buzzer activation")
		return
	}
	c.view.Cue(CueBuzz)
	c.render()
	c.status(StatusInfo, MsgTeamTurn, *e.Player+1)
}

func (c *Controller) onStartTimer(e *events.StartTimer) {
	if c.arb.Phase() == session.PhaseBoard {
		c.logger.Debug().Int("seconds", *e.Seconds).Msg("ignoring timer start without a question")
		return
	}
	c.timer.Start(*e.Seconds)
	c.render()
}

func (c *Controller) onAnswerResult(e *events.AnswerResult) {
	c.timer.Stop()
	out := c.arb.AnswerResult(e)
	if !out.Applied {
		c.logger.Debug().Str("result", string(e.Result)).Msg("answer result without an open question")
		c.render()
		return
	}

	if out.Reveal != nil {
		if c.revealer.MarkRevealed(out.Reveal.Cat, out.Reveal.Row) {
			counted, total := c.revealer.Progress()
			c.logger.Debug().Str("cell", out.Reveal.String()).Int("revealed", counted).Int("total", total).Msg("mosaic piece revealed")
		}
	}
	c.render()

	switch {
	case out.Result == events.ResultCorrect:
		c.view.Cue(CueCorrect)
		c.status(StatusCorrect, MsgCorrect)
	case out.Rebound:
		c.view.Cue(CueIncorrect)
		c.status(StatusIncorrect, MsgRebound)
	default:
		c.view.Cue(CueIncorrect)
		c.status(StatusIncorrect, MsgNoTriesLeft)
	}
}

func (c *Controller) onTeamCountUpdated(e *events.TeamCountUpdated) {
	c.arb.ApplyTeamCount(e)
	if !e.TimerActive {
		c.timer.Stop()
	}
	c.render()
	c.status(StatusInfo, MsgTeamCount, e.PlayerCount)
}

func (c *Controller) onCloseQuestion() {
	c.timer.Stop()
	if !c.arb.Close() {
		c.logger.Debug().Msg("duplicate close_question ignored")
		return
	}
	c.render()
	c.status(StatusInfo, MsgSelectCell)
	if c.onClosed != nil {
		c.onClosed()
	}
}

func (c *Controller) onGameReset(e *events.GameReset) {
	c.timer.Stop()
	prev := c.arb.State()
	scores := e.Scores
	if scores == nil {
		scores = e.Board.Scores
	}
	c.arb.Replace(session.NewState(e.Board, models.GameSnapshot{
		Scores:      scores,
		HideAnswers: prev.HideAnswers,
		PlayerCount: e.Board.PlayerCount,
	}))
	c.connected = true
	c.loadBoard(true)
	c.status(StatusInfo, MsgGameReset)
}

func (c *Controller) onHideAnswersToggled(e *events.HideAnswersToggled) {
	c.arb.SetHideAnswers(e.Hide)
	c.render()
	if e.Hide {
		c.status(StatusInfo, MsgAnswersHidden)
	} else {
		c.status(StatusInfo, MsgAnswersShown)
	}
}

func (c *Controller) onServerError(e *events.ServerError) {
	c.logger.Warn().Str("error", e.Error).Msg("server reported error")
	if e.Error == "" {
		c.status(StatusError, MsgUnknownError)
		return
	}
	c.status(StatusError, MsgServerError, e.Error)
}

// ReloadBoard installs a fresh board snapshot from the REST API, keeping
// reveal progress that still resolves.
func (c *Controller) ReloadBoard(board models.BoardSnapshot) {
	c.replaceBoard(board)
	c.loadBoard(false)
}

// ImportBoard installs a board built from newly imported data and starts
// the mosaic over.
func (c *Controller) ImportBoard(board models.BoardSnapshot) {
	c.replaceBoard(board)
	c.loadBoard(true)
}

func (c *Controller) replaceBoard(board models.BoardSnapshot) {
	s := c.arb.State()
	s.Board = board.Clone()
	if board.Scores != nil {
		s.ReplaceScores(board.Scores)
	}
	c.connected = true
}

// loadBoard recomputes the layout, installs it in the mosaic and only then
// backfills reveals for cells the server already reports as played.
func (c *Controller) loadBoard(reset bool) {
	board := c.arb.State().Board
	l := layout.Compute(board.Categories, layout.Options{SentinelPrefix: c.sentinel})
	if l.Fallback {
		c.logger.Warn().Int("rows", l.Rows()).Msg("no eligible rows in board data, using fallback layout")
		c.status(StatusInfo, MsgBoardFallback)
	}
	c.layout = l
	c.revealer.UpdateLayout(l, mosaic.UpdateOptions{ResetRevealed: reset})

	backfilled := 0
	for _, row := range l.RowOrder {
		for cat := range board.Categories {
			key := models.CellKey{Cat: cat, Row: row}
			if !board.Exists(key) || !board.Status(key).Done() {
				continue
			}
			if c.revealer.MarkRevealed(cat, row) {
				backfilled++
			}
		}
	}
	if backfilled > 0 {
		c.logger.Debug().Int("pieces", backfilled).Msg("backfilled mosaic reveals")
	}
	c.render()
}

func (c *Controller) onTick(remaining int) {
	c.view.Tick(remaining, countdown.TierFor(remaining))
}

func (c *Controller) onExpire() {
	action := c.arb.OnTimerExpired()
	c.logger.Debug().Str("action", action.String()).Msg("countdown expired")
	switch action {
	case session.ExpirySubmit:
		intent, ok, err := c.arb.Submit()
		if err != nil || !ok {
			return
		}
		c.emitPending(intent)
	case session.ExpiryTimeout:
		c.emit(events.Timeout{})
		c.status(StatusIncorrect, MsgTimeUp)
	}
	c.render()
}

func (c *Controller) onMosaicComplete(imageRef string) {
	c.logger.Info().Str("image", imageRef).Msg("mosaic complete")
	c.view.MosaicComplete(imageRef)
	c.status(StatusCorrect, MsgMosaicComplete)
}

func (c *Controller) emit(intent events.Intent) error {
	name := string(intent.IntentName())
	c.journal.Record(DirectionOut, name, intent)
	if c.emitter == nil {
		return ErrNoEmitter
	}
	if err := c.emitter.Emit(c.ctx, intent); err != nil {
		c.logger.Error().Err(err).Str("intent", name).Msg("failed to emit intent")
		return fmt.Errorf("emit %s: %w", name, err)
	}
	return nil
}

// emitPending sends an intent that claimed the turn through AnswerPending.
// On failure the claim is released so the answer can be sent again.
func (c *Controller) emitPending(intent events.Intent) error {
	err := c.emit(intent)
	if err != nil {
		c.arb.Release()
		c.render()
	}
	return err
}

func (c *Controller) status(kind StatusKind, msg string, args ...any) {
	c.view.Status(Status{Kind: kind, Message: msg, Args: args})
}

func (c *Controller) render() {
	c.view.Render(*c.publish())
}

func (c *Controller) publish() *Snapshot {
	snap := &Snapshot{
		Connected:   c.connected,
		State:       c.arb.State().Clone(),
		Layout:      c.layout,
		Mosaic:      c.revealer.Snapshot(),
		Pieces:      c.revealer.Pieces(),
		CanSelect:   c.arb.CanSelect(),
		TimerActive: c.timer.Active(),
		Remaining:   c.timer.Remaining(),
	}
	c.published.Store(snap)
	return snap
}

// Snapshot returns the most recently rendered state. Safe for concurrent use.
func (c *Controller) Snapshot() Snapshot {
	return *c.published.Load()
}
