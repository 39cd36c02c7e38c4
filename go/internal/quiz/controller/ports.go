package controller

import (
	"context"

	"github.com/mcdev12/painani/go/internal/quiz/countdown"
	"github.com/mcdev12/painani/go/internal/quiz/events"
	"github.com/mcdev12/painani/go/internal/quiz/layout"
	"github.com/mcdev12/painani/go/internal/quiz/mosaic"
	"github.com/mcdev12/painani/go/internal/quiz/session"
)

// Emitter sends intents to the server.
type Emitter interface {
	Emit(ctx context.Context, intent events.Intent) error
}

// View receives render commands. Implementations must not block.
type View interface {
	Render(Snapshot)
	Status(Status)
	Cue(Cue)
	Tick(remaining int, tier countdown.Tier)
	MosaicComplete(imageRef string)
}

// Journal records traffic for diagnostics.
type Journal interface {
	Record(direction, name string, payload any)
}

// Journal directions.
const (
	DirectionIn  = "in"
	DirectionOut = "out"
)

// Snapshot is an immutable copy of everything a view needs.
type Snapshot struct {
	Connected   bool
	State       *session.State
	Layout      layout.Layout
	Mosaic      mosaic.State
	Pieces      []mosaic.Piece
	CanSelect   bool
	TimerActive bool
	Remaining   int
}

// StatusKind colors a status line.
type StatusKind int

const (
	StatusInfo StatusKind = iota
	StatusCorrect
	StatusIncorrect
	StatusError
)

func (k StatusKind) String() string {
	switch k {
	case StatusCorrect:
		return "correct"
	case StatusIncorrect:
		return "incorrect"
	case StatusError:
		return "error"
	default:
		return "info"
	}
}

// Status is a user-visible message. Message is a catalog key in printf
// form, formatted with Args by the view.
type Status struct {
	Kind    StatusKind
	Message string
	Args    []any
}

// Cue is a sound or attention signal.
type Cue string

const (
	CueBuzz      Cue = "buzz"
	CueCorrect   Cue = "correct"
	CueIncorrect Cue = "incorrect"
	CueCountdown Cue = "countdown"
)

type nopView struct{}

func (nopView) Render(Snapshot)          {}
func (nopView) Status(Status)            {}
func (nopView) Cue(Cue)                  {}
func (nopView) Tick(int, countdown.Tier) {}
func (nopView) MosaicComplete(string)    {}

type nopJournal struct{}

func (nopJournal) Record(string, string, any) {}
