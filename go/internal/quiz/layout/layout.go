// Package layout compacts a sparse category×clue matrix into the dense row
// order used for board rendering and mosaic geometry.
package layout

import (
	"strings"

	"github.com/mcdev12/painani/go/internal/models"
)

// DefaultSentinelPrefix marks placeholder clues generated when the question
// bank has nothing for a category/value pair.
const DefaultSentinelPrefix = "(Sin pregunta disponible"

// Options tune eligibility.
type Options struct {
	SentinelPrefix string
}

// Layout maps original rows to display rows.
type Layout struct {
	RowOrder               []int
	DisplayIndexByOriginal map[int]int
	Cols                   int
	MaxRows                int

	// Fallback is set when no row was eligible and every row was kept.
	Fallback bool
}

// Rows returns the number of display rows.
func (l Layout) Rows() int {
	return len(l.RowOrder)
}

// DisplayRow resolves an original row to its display row.
func (l Layout) DisplayRow(original int) (int, bool) {
	d, ok := l.DisplayIndexByOriginal[original]
	return d, ok
}

// Contains reports whether the cell resolves under this layout.
func (l Layout) Contains(key models.CellKey) bool {
	if key.Cat < 0 || key.Cat >= l.Cols {
		return false
	}
	_, ok := l.DisplayIndexByOriginal[key.Row]
	return ok
}

// Compute builds the layout. It is pure: the result only depends on the input.
func Compute(categories []models.Category, opts Options) Layout {
	prefix := opts.SentinelPrefix
	if prefix == "" {
		prefix = DefaultSentinelPrefix
	}

	maxRows := 0
	for _, c := range categories {
		if len(c.Clues) > maxRows {
			maxRows = len(c.Clues)
		}
	}

	l := Layout{
		DisplayIndexByOriginal: make(map[int]int),
		Cols:                   len(categories),
		MaxRows:                maxRows,
	}

	for row := 0; row < maxRows; row++ {
		for _, c := range categories {
			if Eligible(c.Clue(row), prefix) {
				l.DisplayIndexByOriginal[row] = len(l.RowOrder)
				l.RowOrder = append(l.RowOrder, row)
				break
			}
		}
	}

	if len(l.RowOrder) == 0 && maxRows > 0 {
		// Degenerate data: show every row rather than an empty board.
		l.Fallback = true
		for row := 0; row < maxRows; row++ {
			l.DisplayIndexByOriginal[row] = row
			l.RowOrder = append(l.RowOrder, row)
		}
	}

	return l
}

// Eligible reports whether a clue slot holds a playable question.
func Eligible(clue *models.Clue, sentinelPrefix string) bool {
	if clue == nil || clue.Unavailable {
		return false
	}
	if sentinelPrefix == "" {
		sentinelPrefix = DefaultSentinelPrefix
	}
	return !strings.HasPrefix(strings.TrimSpace(clue.Question), sentinelPrefix)
}
