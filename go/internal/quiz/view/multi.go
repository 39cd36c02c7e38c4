package view

import (
	"github.com/mcdev12/painani/go/internal/quiz/controller"
	"github.com/mcdev12/painani/go/internal/quiz/countdown"
)

// Multi fans every render command out to several views in order.
type Multi []controller.View

func (m Multi) Render(s controller.Snapshot) {
	for _, v := range m {
		v.Render(s)
	}
}

func (m Multi) Status(st controller.Status) {
	for _, v := range m {
		v.Status(st)
	}
}

func (m Multi) Cue(c controller.Cue) {
	for _, v := range m {
		v.Cue(c)
	}
}

func (m Multi) Tick(remaining int, tier countdown.Tier) {
	for _, v := range m {
		v.Tick(remaining, tier)
	}
}

func (m Multi) MosaicComplete(imageRef string) {
	for _, v := range m {
		v.MosaicComplete(imageRef)
	}
}
