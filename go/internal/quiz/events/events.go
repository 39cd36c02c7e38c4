package events

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Type names an inbound server event.
type Type string

const (
	TypeConnected          Type = "connected"
	TypeQuestionOpened     Type = "question_opened"
	TypeBuzzerActivated    Type = "buzzer_activated"
	TypeStartTimer         Type = "start_timer"
	TypeStopTimer          Type = "stop_timer"
	TypeAnswerResult       Type = "answer_result"
	TypeScoresUpdate       Type = "scores_update"
	TypeTeamCountUpdated   Type = "team_count_updated"
	TypeCloseQuestion      Type = "close_question"
	TypeGameReset          Type = "game_reset"
	TypeHideAnswersToggled Type = "hide_answers_toggled"
	TypeError              Type = "error"
)

var (
	// ErrUnknownEvent is returned for event names this client does not handle.
	ErrUnknownEvent = errors.New("unknown event")
	// ErrMalformed is returned when a payload misses a required field.
	ErrMalformed = errors.New("malformed event payload")
)

// Envelope is the wire frame shared by every transport.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Event is the tagged union of inbound server events. Only types in this
// package implement it.
type Event interface {
	Name() Type
	validate() error
}

// Decode turns a raw envelope into a validated Event. Optional fields that are
// missing stay at their zero value; required fields that are missing produce
// ErrMalformed.
func Decode(env Envelope) (Event, error) {
	var ev Event
	switch Type(env.Event) {
	case TypeConnected:
		ev = &Connected{}
	case TypeQuestionOpened:
		ev = &QuestionOpened{}
	case TypeBuzzerActivated:
		ev = &BuzzerActivated{}
	case TypeStartTimer:
		ev = &StartTimer{}
	case TypeStopTimer:
		ev = &StopTimer{}
	case TypeAnswerResult:
		ev = &AnswerResult{}
	case TypeScoresUpdate:
		ev = &ScoresUpdate{}
	case TypeTeamCountUpdated:
		ev = &TeamCountUpdated{}
	case TypeCloseQuestion:
		ev = &CloseQuestion{}
	case TypeGameReset:
		ev = &GameReset{}
	case TypeHideAnswersToggled:
		ev = &HideAnswersToggled{}
	case TypeError:
		ev = &ServerError{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, env.Event)
	}

	data := env.Data
	if len(data) == 0 || string(data) == "null" {
		data = json.RawMessage("{}")
	}
	if err := json.Unmarshal(data, ev); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, env.Event, err)
	}
	if err := ev.validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, env.Event, err)
	}
	return ev, nil
}

// DecodeFrame parses a JSON frame and decodes the event it carries.
func DecodeFrame(frame []byte) (Event, error) {
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return nil, fmt.Errorf("%w: envelope: %v", ErrMalformed, err)
	}
	if env.Event == "" {
		return nil, fmt.Errorf("%w: envelope without event name", ErrMalformed)
	}
	return Decode(env)
}
