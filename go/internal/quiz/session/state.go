package session

import (
	"fmt"
	"sort"

	"github.com/mcdev12/painani/go/internal/models"
)

// Phase is the per-question turn phase.
type Phase int

const (
	// PhaseBoard: no question open.
	PhaseBoard Phase = iota
	// PhaseAwaitingBuzz: question open, nobody holds the turn.
	PhaseAwaitingBuzz
	// PhasePlayerTurn: a team holds the turn.
	PhasePlayerTurn
	// PhaseResolved: the question was answered correctly or ran out of
	// tries; it stays open until the server closes it.
	PhaseResolved
)

func (p Phase) String() string {
	switch p {
	case PhaseBoard:
		return "board"
	case PhaseAwaitingBuzz:
		return "awaiting_buzz"
	case PhasePlayerTurn:
		return "player_turn"
	case PhaseResolved:
		return "resolved"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// State is the local mirror of the session.
type State struct {
	Question       *models.Question
	CurrentBuzzer  *int
	HideAnswers    bool
	SelectedAnswer *int
	AnswerPending  bool
	TriedPlayers   map[int]struct{}
	PlayerCount    int
	Scores         []int
	Board          *models.BoardSnapshot
	Phase          Phase
}

// NewState builds the session from a connected snapshot.
func NewState(board models.BoardSnapshot, game models.GameSnapshot) *State {
	s := &State{
		Board:        board.Clone(),
		HideAnswers:  game.HideAnswers,
		TriedPlayers: make(map[int]struct{}),
		Phase:        PhaseBoard,
	}

	switch {
	case game.PlayerCount > 0:
		s.PlayerCount = game.PlayerCount
	case board.PlayerCount > 0:
		s.PlayerCount = board.PlayerCount
	default:
		s.PlayerCount = models.DefaultPlayerCount
	}

	scores := game.Scores
	if scores == nil {
		scores = board.Scores
	}
	s.ReplaceScores(scores)
	return s
}

// ReplaceScores installs a server score list, padded to the team count.
func (s *State) ReplaceScores(scores []int) {
	n := len(scores)
	if n < s.PlayerCount {
		n = s.PlayerCount
	}
	out := make([]int, n)
	copy(out, scores)
	s.Scores = out
}

// InRange reports whether player is a valid team index.
func (s *State) InRange(player int) bool {
	return player >= 0 && player < s.PlayerCount
}

// IsTried reports whether the team already answered this question.
func (s *State) IsTried(player int) bool {
	_, ok := s.TriedPlayers[player]
	return ok
}

// Tried returns the tried teams in ascending order.
func (s *State) Tried() []int {
	out := make([]int, 0, len(s.TriedPlayers))
	for p := range s.TriedPlayers {
		out = append(out, p)
	}
	sort.Ints(out)
	return out
}

// clearQuestion drops every per-question field.
func (s *State) clearQuestion() {
	s.Question = nil
	s.CurrentBuzzer = nil
	s.SelectedAnswer = nil
	s.AnswerPending = false
	s.TriedPlayers = make(map[int]struct{})
	s.Phase = PhaseBoard
}

// Check validates the structural invariants of the state.
func (s *State) Check() error {
	for p := range s.TriedPlayers {
		if !s.InRange(p) {
			return fmt.Errorf("tried player %d outside [0,%d)", p, s.PlayerCount)
		}
	}
	if s.CurrentBuzzer != nil {
		b := *s.CurrentBuzzer
		if !s.InRange(b) {
			return fmt.Errorf("current buzzer %d outside [0,%d)", b, s.PlayerCount)
		}
		if s.IsTried(b) {
			return fmt.Errorf("current buzzer %d already tried", b)
		}
	}
	if s.SelectedAnswer != nil && s.CurrentBuzzer == nil {
		return fmt.Errorf("answer selected without a turn")
	}
	if s.Question == nil {
		if s.Phase != PhaseBoard {
			return fmt.Errorf("phase %s without a question", s.Phase)
		}
		if s.CurrentBuzzer != nil || s.SelectedAnswer != nil || s.AnswerPending || len(s.TriedPlayers) > 0 {
			return fmt.Errorf("per-question fields set on the board")
		}
	}
	if s.Phase == PhasePlayerTurn && s.CurrentBuzzer == nil {
		return fmt.Errorf("player turn without a buzzer")
	}
	return nil
}

// Clone returns a deep copy for observers.
func (s *State) Clone() *State {
	out := *s
	out.Question = cloneQuestion(s.Question)
	out.CurrentBuzzer = cloneInt(s.CurrentBuzzer)
	out.SelectedAnswer = cloneInt(s.SelectedAnswer)
	out.TriedPlayers = make(map[int]struct{}, len(s.TriedPlayers))
	for p := range s.TriedPlayers {
		out.TriedPlayers[p] = struct{}{}
	}
	out.Scores = append([]int(nil), s.Scores...)
	out.Board = s.Board.Clone()
	return &out
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneQuestion(q *models.Question) *models.Question {
	if q == nil {
		return nil
	}
	out := *q
	out.Choices = append([]string(nil), q.Choices...)
	out.Answer = cloneInt(q.Answer)
	return &out
}
