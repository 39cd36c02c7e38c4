package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mcdev12/painani/go/internal/quiz/events"
)

// quizServer pushes frames to the first client and records what it sends back.
func quizServer(t *testing.T, push []string, received chan<- []byte) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()
		for _, frame := range push {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
				return
			}
		}
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			received <- msg
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestWebsocketTransport_RoundTrip(t *testing.T) {
	received := make(chan []byte, 4)
	srv := quizServer(t, []string{
		`not json`,
		`{"event":"fireworks","data":{}}`,
		`{"event":"buzzer_activated","data":{}}`,
		`{"event":"buzzer_activated","data":{"player":1}}`,
		`{"event":"close_question"}`,
	}, received)

	cfg := DefaultWebsocketConfig("ws" + strings.TrimPrefix(srv.URL, "http"))
	tr := NewWebsocketTransport(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	got := make(chan events.Event, 8)
	go tr.Run(ctx, func(ev events.Event) { got <- ev })

	first := waitEvent(t, got)
	buzz, ok := first.(*events.BuzzerActivated)
	if !ok || *buzz.Player != 1 {
		t.Fatalf("first event = %#v, want buzzer_activated{1}", first)
	}
	if second := waitEvent(t, got); second.Name() != events.TypeCloseQuestion {
		t.Fatalf("second event = %s", second.Name())
	}

	if err := tr.Emit(ctx, events.SubmitAnswer{Player: 1, Answer: 2}); err != nil {
		t.Fatalf("emit: %v", err)
	}
	select {
	case frame := <-received:
		want := `{"event":"submit_answer","data":{"player":1,"answer":2}}`
		if string(frame) != want {
			t.Errorf("frame = %s, want %s", frame, want)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server never received the intent")
	}
}

func TestWebsocketTransport_EmitWhileDisconnected(t *testing.T) {
	tr := NewWebsocketTransport(DefaultWebsocketConfig("ws://127.0.0.1:1/ws"))
	if err := tr.Emit(context.Background(), events.Timeout{}); err != ErrNotConnected {
		t.Errorf("err = %v, want ErrNotConnected", err)
	}
}

func waitEvent(t *testing.T, ch <-chan events.Event) events.Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}
