package events

import (
	"encoding/json"
	"errors"

	"github.com/mcdev12/painani/go/internal/models"
)

// Inbound event payloads pushed by the quiz server.

// Connected is the first event after a (re)connection.
type Connected struct {
	Board     models.BoardSnapshot `json:"board"`
	GameState models.GameSnapshot  `json:"game_state"`
}

// QuestionOpened opens a question for every client.
type QuestionOpened struct {
	Category    string   `json:"category"`
	Value       int      `json:"value"`
	Question    string   `json:"question"`
	Choices     []string `json:"choices,omitempty"`
	Answer      *int     `json:"answer,omitempty"`
	CatIdx      *int     `json:"cat_idx"`
	ClueIdx     *int     `json:"clue_idx"`
	Image       string   `json:"image,omitempty"`
	ImageFolder string   `json:"image_folder,omitempty"`
}

// ToQuestion converts the payload into the session's question model.
func (e *QuestionOpened) ToQuestion() *models.Question {
	q := &models.Question{
		Category:    e.Category,
		Value:       e.Value,
		Text:        e.Question,
		Choices:     append([]string(nil), e.Choices...),
		Image:       e.Image,
		ImageFolder: e.ImageFolder,
		Cell:        models.CellKey{Cat: *e.CatIdx, Row: *e.ClueIdx},
	}
	if e.Answer != nil {
		a := *e.Answer
		q.Answer = &a
	}
	return q
}

// BuzzerActivated confirms which team holds the turn.
type BuzzerActivated struct {
	Player *int `json:"player"`
}

// StartTimer starts the local countdown.
type StartTimer struct {
	Seconds *int `json:"seconds"`
}

// StopTimer stops the local countdown.
type StopTimer struct{}

// Result is the outcome reported in answer_result.
type Result string

const (
	ResultCorrect   Result = "correct"
	ResultIncorrect Result = "incorrect"
)

// AnswerResult reports the verdict on a submitted answer.
type AnswerResult struct {
	Result           Result `json:"result"`
	Player           *int   `json:"player"`
	Rebote           bool   `json:"rebote"`
	NewScore         *int   `json:"new_score,omitempty"`
	CloseQuestion    bool   `json:"close_question,omitempty"`
	RemainingPlayers []int  `json:"remaining_players,omitempty"`
}

// ScoresUpdate replaces every score.
type ScoresUpdate struct {
	Scores []int `json:"scores"`
}

// TeamCountUpdated carries the new team count and the turn state trimmed to it.
type TeamCountUpdated struct {
	Scores        []int `json:"scores"`
	PlayerCount   int   `json:"player_count"`
	TriedPlayers  []int `json:"tried_players"`
	CurrentBuzzer *int  `json:"current_buzzer"`
	TimerActive   bool  `json:"timer_active"`
}

// CloseQuestion returns every client to the board.
type CloseQuestion struct{}

// GameReset replaces the whole session. The server may send the board either
// nested under "board" or as the top-level object.
type GameReset struct {
	Board  models.BoardSnapshot `json:"board"`
	Scores []int                `json:"scores"`
}

// UnmarshalJSON accepts both the nested and the flat reset payload.
func (e *GameReset) UnmarshalJSON(data []byte) error {
	var nested struct {
		Board  *models.BoardSnapshot `json:"board"`
		Scores []int                 `json:"scores"`
	}
	if err := json.Unmarshal(data, &nested); err != nil {
		return err
	}
	if nested.Board != nil {
		e.Board = *nested.Board
		e.Scores = nested.Scores
		if e.Scores == nil {
			e.Scores = nested.Board.Scores
		}
		return nil
	}
	var flat models.BoardSnapshot
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}
	e.Board = flat
	e.Scores = flat.Scores
	return nil
}

// HideAnswersToggled switches moderator (hidden-answer) mode.
type HideAnswersToggled struct {
	Hide bool `json:"hide"`
}

// ServerError is a domain error reported by the server.
type ServerError struct {
	Error string `json:"error"`
}

func (*Connected) Name() Type          { return TypeConnected }
func (*QuestionOpened) Name() Type     { return TypeQuestionOpened }
func (*BuzzerActivated) Name() Type    { return TypeBuzzerActivated }
func (*StartTimer) Name() Type         { return TypeStartTimer }
func (*StopTimer) Name() Type          { return TypeStopTimer }
func (*AnswerResult) Name() Type       { return TypeAnswerResult }
func (*ScoresUpdate) Name() Type       { return TypeScoresUpdate }
func (*TeamCountUpdated) Name() Type   { return TypeTeamCountUpdated }
func (*CloseQuestion) Name() Type      { return TypeCloseQuestion }
func (*GameReset) Name() Type          { return TypeGameReset }
func (*HideAnswersToggled) Name() Type { return TypeHideAnswersToggled }
func (*ServerError) Name() Type        { return TypeError }

func (*Connected) validate() error { return nil }

func (e *QuestionOpened) validate() error {
	if e.CatIdx == nil || e.ClueIdx == nil {
		return errors.New("cat_idx and clue_idx are required")
	}
	if *e.CatIdx < 0 || *e.ClueIdx < 0 {
		return errors.New("negative cell coordinate")
	}
	return nil
}

func (e *BuzzerActivated) validate() error {
	if e.Player == nil {
		return errors.New("player is required")
	}
	return nil
}

func (e *StartTimer) validate() error {
	if e.Seconds == nil {
		return errors.New("seconds is required")
	}
	if *e.Seconds <= 0 {
		return errors.New("seconds must be positive")
	}
	return nil
}

func (*StopTimer) validate() error { return nil }

func (e *AnswerResult) validate() error {
	switch e.Result {
	case ResultCorrect:
	case ResultIncorrect:
		if e.Rebote && e.Player == nil {
			return errors.New("rebound result without player")
		}
	default:
		return errors.New("result must be correct or incorrect")
	}
	return nil
}

func (e *ScoresUpdate) validate() error {
	if e.Scores == nil {
		return errors.New("scores is required")
	}
	return nil
}

func (e *TeamCountUpdated) validate() error {
	if e.PlayerCount <= 0 {
		return errors.New("player_count must be positive")
	}
	return nil
}

func (*CloseQuestion) validate() error      { return nil }
func (*GameReset) validate() error          { return nil }
func (*HideAnswersToggled) validate() error { return nil }
func (*ServerError) validate() error        { return nil }
