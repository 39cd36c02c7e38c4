// Package view renders controller output for people: a plain console
// renderer and a fan-out to several views.
package view

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mcdev12/painani/go/internal/models"
	"github.com/mcdev12/painani/go/internal/quiz/controller"
	"github.com/mcdev12/painani/go/internal/quiz/countdown"
)

// Console writes a text rendition of the game to w.
type Console struct {
	mu sync.Mutex
	w  io.Writer
	p  *message.Printer
}

// NewConsole creates a console view in the given language.
func NewConsole(w io.Writer, tag language.Tag) *Console {
	return &Console{w: w, p: NewPrinter(tag)}
}

var _ controller.View = (*Console)(nil)

func (c *Console) Render(snap controller.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var b strings.Builder
	s := snap.State
	if s == nil || s.Board == nil || len(s.Board.Categories) == 0 {
		b.WriteString(c.p.Sprintf(LabelNoBoard))
		b.WriteByte('\n')
		io.WriteString(c.w, b.String())
		return
	}

	if s.Question != nil {
		c.renderQuestion(&b, snap)
	} else {
		c.renderBoard(&b, snap)
	}

	for i := 0; i < s.PlayerCount && i < len(s.Scores); i++ {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(c.p.Sprintf(LabelTeamScore, i+1, s.Scores[i]))
	}
	b.WriteByte('\n')

	if snap.Mosaic.Enabled {
		b.WriteString(c.p.Sprintf(LabelMosaic, len(snap.Pieces), snap.Mosaic.TotalPieces))
		b.WriteByte('\n')
	}
	io.WriteString(c.w, b.String())
}

func (c *Console) renderBoard(b *strings.Builder, snap controller.Snapshot) {
	board := snap.State.Board
	const width = 14
	for _, cat := range board.Categories {
		fmt.Fprintf(b, "%-*s", width, truncate(cat.Name, width-1))
	}
	b.WriteByte('\n')
	for _, row := range snap.Layout.RowOrder {
		for i, cat := range board.Categories {
			cell := "-"
			if clue := cat.Clue(row); clue != nil {
				switch board.Status(models.CellKey{Cat: i, Row: row}) {
				case models.TileCorrect:
					cell = "*"
				case models.TileUsed:
					cell = "x"
				default:
					cell = fmt.Sprintf("%d,%d $%d", i, row, clue.Value)
				}
			}
			fmt.Fprintf(b, "%-*s", width, cell)
		}
		b.WriteByte('\n')
	}
}

func (c *Console) renderQuestion(b *strings.Builder, snap controller.Snapshot) {
	s := snap.State
	q := s.Question
	b.WriteString(c.p.Sprintf(LabelQuestion, q.Category, q.Value))
	b.WriteByte('\n')
	b.WriteString(q.Text)
	b.WriteByte('\n')
	if img := q.ImagePath(); img != "" {
		b.WriteString(img)
		b.WriteByte('\n')
	}
	if s.HideAnswers {
		b.WriteString(c.p.Sprintf(LabelHidden))
		b.WriteByte('\n')
	} else {
		for i, choice := range q.Choices {
			marker := " "
			if s.SelectedAnswer != nil && *s.SelectedAnswer == i {
				marker = ">"
			}
			fmt.Fprintf(b, "%s %c) %s\n", marker, 'a'+rune(i), choice)
		}
	}
	if s.CurrentBuzzer != nil {
		b.WriteString(c.p.Sprintf(LabelTurn, *s.CurrentBuzzer+1))
		b.WriteByte('\n')
	}
	if tried := s.Tried(); len(tried) > 0 {
		teams := make([]int, len(tried))
		for i, t := range tried {
			teams[i] = t + 1
		}
		b.WriteString(c.p.Sprintf(LabelTried, teams))
		b.WriteByte('\n')
	}
}

func (c *Console) Status(st controller.Status) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, "[%s] %s\n", st.Kind, Format(c.p, st))
}

func (c *Console) Cue(cue controller.Cue) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch cue {
	case controller.CueBuzz, controller.CueCountdown:
		// Terminal bell.
		io.WriteString(c.w, "\a")
	}
}

func (c *Console) Tick(remaining int, tier countdown.Tier) {
	c.mu.Lock()
	defer c.mu.Unlock()
	line := c.p.Sprintf(LabelTimer, remaining)
	if tier != countdown.TierNormal {
		line += " (" + tier.String() + ")"
	}
	fmt.Fprintln(c.w, line)
}

func (c *Console) MosaicComplete(imageRef string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.w, c.p.Sprintf(LabelMosaicReady, imageRef))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
