package overlay

import (
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mcdev12/painani/go/internal/quiz/controller"
	"github.com/mcdev12/painani/go/internal/quiz/countdown"
	"github.com/mcdev12/painani/go/internal/quiz/view"
)

// Overlay message types.
const (
	TypeState          = "state"
	TypeStatus         = "status"
	TypeCue            = "cue"
	TypeTick           = "tick"
	TypeMosaicComplete = "mosaic_complete"
)

// StatusInfo is a localized status line.
type StatusInfo struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

// View mirrors controller output to browser overlays.
type View struct {
	hub *Hub
	p   *message.Printer

	mu     sync.RWMutex
	state  StateResponse
	status *StatusInfo
}

var _ controller.View = (*View)(nil)

// NewView creates a view that broadcasts through hub. New connections get
// the latest state immediately.
func NewView(hub *Hub, tag language.Tag) *View {
	v := &View{hub: hub, p: view.NewPrinter(tag)}
	v.state = BuildState(controller.Snapshot{})
	hub.welcome = v.welcomeFrame
	return v
}

func (v *View) welcomeFrame() ([]byte, error) {
	return marshalMessage(Message{Type: TypeState, Data: v.State()})
}

// State returns the last rendered state.
func (v *View) State() StateResponse {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.state
}

// LastStatus returns the last status line, if any.
func (v *View) LastStatus() *StatusInfo {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.status
}

func (v *View) Render(snap controller.Snapshot) {
	state := BuildState(snap)
	v.mu.Lock()
	v.state = state
	v.mu.Unlock()
	v.hub.Broadcast(Message{Type: TypeState, Data: state})
}

func (v *View) Status(st controller.Status) {
	info := &StatusInfo{Kind: st.Kind.String(), Text: view.Format(v.p, st)}
	v.mu.Lock()
	v.status = info
	v.mu.Unlock()
	v.hub.Broadcast(Message{Type: TypeStatus, Data: info})
}

func (v *View) Cue(c controller.Cue) {
	v.hub.Broadcast(Message{Type: TypeCue, Data: map[string]string{"cue": string(c)}})
}

func (v *View) Tick(remaining int, tier countdown.Tier) {
	v.hub.Broadcast(Message{Type: TypeTick, Data: TimerInfo{Active: remaining > 0, Remaining: remaining, Tier: tier.String()}})
}

func (v *View) MosaicComplete(imageRef string) {
	v.hub.Broadcast(Message{Type: TypeMosaicComplete, Data: map[string]string{"image": imageRef}})
}
