package events

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/mcdev12/painani/go/internal/models"
)

func TestDecode_RequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		frame   string
		wantErr error
	}{
		{"buzzer ok", `{"event":"buzzer_activated","data":{"player":1}}`, nil},
		{"buzzer without player", `{"event":"buzzer_activated","data":{}}`, ErrMalformed},
		{"question without coordinates", `{"event":"question_opened","data":{"question":"q"}}`, ErrMalformed},
		{"timer without seconds", `{"event":"start_timer","data":{}}`, ErrMalformed},
		{"timer zero seconds", `{"event":"start_timer","data":{"seconds":0}}`, ErrMalformed},
		{"result error payload", `{"event":"answer_result","data":{"error":"No hay jugador activo"}}`, ErrMalformed},
		{"rebound without player", `{"event":"answer_result","data":{"result":"incorrect","rebote":true}}`, ErrMalformed},
		{"correct without player", `{"event":"answer_result","data":{"result":"correct"}}`, nil},
		{"scores missing", `{"event":"scores_update","data":{}}`, ErrMalformed},
		{"stop timer no data", `{"event":"stop_timer"}`, nil},
		{"close null data", `{"event":"close_question","data":null}`, nil},
		{"unknown", `{"event":"confetti","data":{}}`, ErrUnknownEvent},
		{"no name", `{"data":{}}`, ErrMalformed},
		{"garbage", `not json`, ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeFrame([]byte(tt.frame))
			if tt.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDecode_QuestionOpenedOptionalFields(t *testing.T) {
	ev, err := DecodeFrame([]byte(`{"event":"question_opened","data":{"category":"Ciencia","value":300,"question":"?","cat_idx":0,"clue_idx":2}}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	qo, ok := ev.(*QuestionOpened)
	if !ok {
		t.Fatalf("got %T, want *QuestionOpened", ev)
	}
	q := qo.ToQuestion()
	if q.Cell != (models.CellKey{Cat: 0, Row: 2}) {
		t.Errorf("cell = %v", q.Cell)
	}
	if q.HasChoices() {
		t.Error("question without choices should report none")
	}
	if q.Answer != nil {
		t.Error("answer should be absent")
	}
	if q.ImagePath() != "" {
		t.Errorf("image path = %q, want empty", q.ImagePath())
	}
}

func TestDecode_GameResetShapes(t *testing.T) {
	flat := `{"event":"game_reset","data":{"categories":[{"name":"A","clues":[{"value":100,"question":"q"}]}],"used":[],"tile_status":{},"scores":[0,0],"player_count":2}}`
	nested := `{"event":"game_reset","data":{"board":{"categories":[{"name":"A","clues":[{"value":100,"question":"q"}]}],"player_count":2},"scores":[5,6]}}`

	for name, frame := range map[string]string{"flat": flat, "nested": nested} {
		t.Run(name, func(t *testing.T) {
			ev, err := DecodeFrame([]byte(frame))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			reset := ev.(*GameReset)
			if len(reset.Board.Categories) != 1 || reset.Board.Categories[0].Name != "A" {
				t.Errorf("categories = %+v", reset.Board.Categories)
			}
			if len(reset.Scores) != 2 {
				t.Errorf("scores = %v", reset.Scores)
			}
		})
	}
}

func TestEncodeFrame(t *testing.T) {
	frame, err := EncodeFrame(SubmitAnswer{Player: 1, Answer: 2})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if env.Event != "submit_answer" {
		t.Errorf("event = %q", env.Event)
	}
	if string(env.Data) != `{"player":1,"answer":2}` {
		t.Errorf("data = %s", env.Data)
	}

	if _, err := EncodeFrame(nil); err == nil {
		t.Error("expected error for nil intent")
	}
}
