// Package session holds the local game mirror and the turn state machine
// that drives it. The server is authoritative: the arbiter never grants a
// turn on its own, it only validates local input before it is sent and
// applies server verdicts.
package session

import (
	"errors"

	"github.com/mcdev12/painani/go/internal/models"
	"github.com/mcdev12/painani/go/internal/quiz/events"
)

var (
	ErrTriedPlayer         = errors.New("team already tried this question")
	ErrPlayerOutOfRange    = errors.New("team index out of range")
	ErrBuzzingClosed       = errors.New("buzzing is closed")
	ErrNoTurn              = errors.New("no team holds the turn")
	ErrNoSelection         = errors.New("no answer selected")
	ErrAnswerPending       = errors.New("an answer is already being judged")
	ErrChoiceOutOfRange    = errors.New("answer choice out of range")
	ErrAnswersHidden       = errors.New("answers are hidden")
	ErrNoQuestion          = errors.New("no question is open")
	ErrTeamCountOutOfRange = errors.New("team count out of range")
)

// ExpiryAction is what to do when the countdown runs out.
type ExpiryAction int

const (
	ExpiryNone ExpiryAction = iota
	ExpirySubmit
	ExpiryTimeout
)

func (a ExpiryAction) String() string {
	switch a {
	case ExpirySubmit:
		return "submit"
	case ExpiryTimeout:
		return "timeout"
	default:
		return "none"
	}
}

// ResultOutcome summarizes an applied answer_result.
type ResultOutcome struct {
	// Applied is false when no question was open (late or duplicate result).
	Applied bool
	Result  events.Result
	Player  *int
	Rebound bool
	// Reveal is the cell to reveal on a correct answer.
	Reveal *models.CellKey
}

// Arbiter is the turn state machine over a State.
type Arbiter struct {
	s *State
}

// NewArbiter wraps s.
func NewArbiter(s *State) *Arbiter {
	return &Arbiter{s: s}
}

// State returns the live state. Callers outside the owner must Clone it.
func (a *Arbiter) State() *State {
	return a.s
}

// Replace swaps in a whole new state, as on game_reset.
func (a *Arbiter) Replace(s *State) {
	a.s = s
}

// Phase returns the current phase.
func (a *Arbiter) Phase() Phase {
	return a.s.Phase
}

// OpenQuestion starts a fresh per-question cycle.
func (a *Arbiter) OpenQuestion(q *models.Question) {
	a.s.clearQuestion()
	a.s.Question = q
	a.s.Phase = PhaseAwaitingBuzz
}

// ValidateBuzz checks a local buzz attempt before it is sent.
func (a *Arbiter) ValidateBuzz(player int) error {
	if !a.s.InRange(player) {
		return ErrPlayerOutOfRange
	}
	if a.s.Phase != PhaseAwaitingBuzz {
		return ErrBuzzingClosed
	}
	if a.s.IsTried(player) {
		return ErrTriedPlayer
	}
	return nil
}

// ValidateTarget checks a score adjustment target.
func (a *Arbiter) ValidateTarget(player int) error {
	if !a.s.InRange(player) {
		return ErrPlayerOutOfRange
	}
	return nil
}

// ValidateTeamCount checks a requested team count.
func (a *Arbiter) ValidateTeamCount(n int) error {
	if n < models.MinTeams || n > models.MaxTeams {
		return ErrTeamCountOutOfRange
	}
	return nil
}

// BuzzerActivated applies the server's turn grant.
func (a *Arbiter) BuzzerActivated(player int) error {
	if !a.s.InRange(player) {
		return ErrPlayerOutOfRange
	}
	if a.s.Phase != PhaseAwaitingBuzz && a.s.Phase != PhasePlayerTurn {
		return ErrBuzzingClosed
	}
	if a.s.IsTried(player) {
		return ErrTriedPlayer
	}
	p := player
	a.s.CurrentBuzzer = &p
	a.s.SelectedAnswer = nil
	a.s.AnswerPending = false
	a.s.Phase = PhasePlayerTurn
	return nil
}

// CanSelect reports whether answer choices are selectable right now.
func (a *Arbiter) CanSelect() bool {
	return a.s.Phase == PhasePlayerTurn && !a.s.HideAnswers && !a.s.AnswerPending
}

// SelectAnswer records the held team's choice. Nothing is sent.
func (a *Arbiter) SelectAnswer(idx int) error {
	if a.s.Phase != PhasePlayerTurn || a.s.CurrentBuzzer == nil {
		return ErrNoTurn
	}
	if a.s.HideAnswers {
		return ErrAnswersHidden
	}
	if a.s.AnswerPending {
		return ErrAnswerPending
	}
	if q := a.s.Question; q != nil && q.HasChoices() && (idx < 0 || idx >= len(q.Choices)) {
		return ErrChoiceOutOfRange
	}
	if idx < 0 {
		return ErrChoiceOutOfRange
	}
	i := idx
	a.s.SelectedAnswer = &i
	return nil
}

// Submit produces the submit intent at most once per turn. The bool is false
// when a submission is already pending, which is not an error.
func (a *Arbiter) Submit() (events.SubmitAnswer, bool, error) {
	if a.s.AnswerPending {
		return events.SubmitAnswer{}, false, nil
	}
	if a.s.Phase != PhasePlayerTurn || a.s.CurrentBuzzer == nil {
		return events.SubmitAnswer{}, false, ErrNoTurn
	}
	if a.s.SelectedAnswer == nil {
		return events.SubmitAnswer{}, false, ErrNoSelection
	}
	a.s.AnswerPending = true
	return events.SubmitAnswer{Player: *a.s.CurrentBuzzer, Answer: *a.s.SelectedAnswer}, true, nil
}

// Judge claims the held turn for a moderator verdict. Like Submit it marks
// the answer as pending so a verdict and an auto-submit cannot both go out.
func (a *Arbiter) Judge() (int, error) {
	if a.s.Phase != PhasePlayerTurn || a.s.CurrentBuzzer == nil {
		return 0, ErrNoTurn
	}
	if a.s.AnswerPending {
		return 0, ErrAnswerPending
	}
	a.s.AnswerPending = true
	return *a.s.CurrentBuzzer, nil
}

// Release hands the turn back after a submission or verdict failed to reach
// the server, so it can be sent again.
func (a *Arbiter) Release() {
	a.s.AnswerPending = false
}

// OnTimerExpired decides the single expiry action.
func (a *Arbiter) OnTimerExpired() ExpiryAction {
	if a.s.AnswerPending {
		return ExpiryNone
	}
	switch a.s.Phase {
	case PhaseBoard, PhaseResolved:
		return ExpiryNone
	}
	if a.s.Phase == PhasePlayerTurn && a.s.CurrentBuzzer != nil && a.s.SelectedAnswer != nil {
		return ExpirySubmit
	}
	return ExpiryTimeout
}

// AnswerResult applies the server verdict.
func (a *Arbiter) AnswerResult(r *events.AnswerResult) ResultOutcome {
	a.s.AnswerPending = false
	out := ResultOutcome{Result: r.Result, Rebound: r.Rebote}
	if r.Player != nil {
		p := *r.Player
		out.Player = &p
	}
	if a.s.Question == nil {
		return out
	}
	out.Applied = true

	if r.Player != nil && r.NewScore != nil && a.s.InRange(*r.Player) && *r.Player < len(a.s.Scores) {
		a.s.Scores[*r.Player] = *r.NewScore
	}

	cell := a.s.Question.Cell
	switch {
	case r.Result == events.ResultCorrect:
		a.s.CurrentBuzzer = nil
		a.s.SelectedAnswer = nil
		a.s.Phase = PhaseResolved
		if a.s.Board != nil {
			a.s.Board.SetStatus(cell, models.TileCorrect)
		}
		out.Reveal = &cell
	case r.Rebote:
		if a.s.InRange(*r.Player) {
			a.s.TriedPlayers[*r.Player] = struct{}{}
		}
		a.s.CurrentBuzzer = nil
		a.s.SelectedAnswer = nil
		a.s.Phase = PhaseAwaitingBuzz
	default:
		a.s.SelectedAnswer = nil
		a.s.Phase = PhaseResolved
		if a.s.Board != nil && a.s.Board.Status(cell) != models.TileCorrect {
			a.s.Board.SetStatus(cell, models.TileUsed)
		}
	}
	return out
}

// Close returns to the board. It reports false when nothing was open.
func (a *Arbiter) Close() bool {
	if a.s.Phase == PhaseBoard && a.s.Question == nil {
		return false
	}
	a.s.clearQuestion()
	return true
}

// SetHideAnswers applies the server's moderator-mode toggle. A selection
// made before answers were hidden is dropped.
func (a *Arbiter) SetHideAnswers(hide bool) {
	a.s.HideAnswers = hide
	if hide && !a.s.AnswerPending {
		a.s.SelectedAnswer = nil
	}
}

// ApplyTeamCount installs a new team count and trims turn state to it.
func (a *Arbiter) ApplyTeamCount(u *events.TeamCountUpdated) {
	a.s.PlayerCount = u.PlayerCount
	a.s.ReplaceScores(u.Scores)

	tried := make(map[int]struct{})
	src := u.TriedPlayers
	if src == nil {
		src = a.s.Tried()
	}
	for _, p := range src {
		if a.s.InRange(p) {
			tried[p] = struct{}{}
		}
	}
	if a.s.Question != nil {
		a.s.TriedPlayers = tried
	}

	buzzer := u.CurrentBuzzer
	if buzzer != nil && (!a.s.InRange(*buzzer) || a.s.IsTried(*buzzer) || a.s.Question == nil) {
		buzzer = nil
	}
	if buzzer == nil && a.s.CurrentBuzzer != nil {
		a.s.CurrentBuzzer = nil
		a.s.SelectedAnswer = nil
		a.s.AnswerPending = false
		if a.s.Phase == PhasePlayerTurn {
			a.s.Phase = PhaseAwaitingBuzz
		}
	} else if buzzer != nil {
		b := *buzzer
		if a.s.CurrentBuzzer == nil || *a.s.CurrentBuzzer != b {
			a.s.SelectedAnswer = nil
			a.s.AnswerPending = false
		}
		a.s.CurrentBuzzer = &b
		if a.s.Phase == PhaseAwaitingBuzz {
			a.s.Phase = PhasePlayerTurn
		}
	}
}
