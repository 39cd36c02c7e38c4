package events

import (
	"encoding/json"
	"fmt"
)

// IntentType names an outbound client intent.
type IntentType string

const (
	IntentOpenQuestion       IntentType = "open_question"
	IntentBuzzerPress        IntentType = "buzzer_press"
	IntentSubmitAnswer       IntentType = "submit_answer"
	IntentModeratorCorrect   IntentType = "moderator_correct"
	IntentModeratorIncorrect IntentType = "moderator_incorrect"
	IntentCancelQuestion     IntentType = "cancel_question"
	IntentToggleHideAnswers  IntentType = "toggle_hide_answers"
	IntentAdjustScore        IntentType = "adjust_score"
	IntentSetScore           IntentType = "set_score"
	IntentSetTeamCount       IntentType = "set_team_count"
	IntentTimeout            IntentType = "timeout"
)

// Intent is the tagged union of outbound messages.
type Intent interface {
	IntentName() IntentType
}

type OpenQuestion struct {
	CatIdx  int `json:"cat_idx"`
	ClueIdx int `json:"clue_idx"`
}

type BuzzerPress struct {
	Player int `json:"player"`
}

type SubmitAnswer struct {
	Player int `json:"player"`
	Answer int `json:"answer"`
}

type ModeratorCorrect struct {
	Player int `json:"player"`
}

type ModeratorIncorrect struct {
	Player int `json:"player"`
}

type CancelQuestion struct{}

type ToggleHideAnswers struct {
	Hide bool `json:"hide"`
}

type AdjustScore struct {
	Player int `json:"player"`
	Delta  int `json:"delta"`
}

type SetScore struct {
	Player int `json:"player"`
	Score  int `json:"score"`
}

type SetTeamCount struct {
	Count int `json:"count"`
}

// Timeout tells the server the countdown ran out with nothing selected.
type Timeout struct{}

func (OpenQuestion) IntentName() IntentType       { return IntentOpenQuestion }
func (BuzzerPress) IntentName() IntentType        { return IntentBuzzerPress }
func (SubmitAnswer) IntentName() IntentType       { return IntentSubmitAnswer }
func (ModeratorCorrect) IntentName() IntentType   { return IntentModeratorCorrect }
func (ModeratorIncorrect) IntentName() IntentType { return IntentModeratorIncorrect }
func (CancelQuestion) IntentName() IntentType     { return IntentCancelQuestion }
func (ToggleHideAnswers) IntentName() IntentType  { return IntentToggleHideAnswers }
func (AdjustScore) IntentName() IntentType        { return IntentAdjustScore }
func (SetScore) IntentName() IntentType           { return IntentSetScore }
func (SetTeamCount) IntentName() IntentType       { return IntentSetTeamCount }
func (Timeout) IntentName() IntentType            { return IntentTimeout }

// Encode wraps an intent into a wire envelope.
func Encode(intent Intent) (Envelope, error) {
	if intent == nil {
		return Envelope{}, fmt.Errorf("encode nil intent")
	}
	data, err := json.Marshal(intent)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal %s: %w", intent.IntentName(), err)
	}
	return Envelope{Event: string(intent.IntentName()), Data: data}, nil
}

// EncodeFrame encodes an intent as a JSON frame ready for the wire.
func EncodeFrame(intent Intent) ([]byte, error) {
	env, err := Encode(intent)
	if err != nil {
		return nil, err
	}
	return json.Marshal(env)
}
