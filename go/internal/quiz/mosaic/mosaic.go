// Package mosaic tracks progressive reveal of a hidden image laid over the
// board. Reveal keys are always stored in original (category, row)
// coordinates so they survive layout changes.
package mosaic

import (
	"sort"

	"github.com/mcdev12/painani/go/internal/models"
	"github.com/mcdev12/painani/go/internal/quiz/layout"
)

// State is a read-only copy of the reveal progress.
type State struct {
	Enabled     bool
	ImageRef    string
	Rows        int
	Cols        int
	TotalPieces int
	Revealed    map[models.CellKey]struct{}
}

// Piece is one revealed slice of the image in render coordinates.
// X and Y are normalized background positions in [0,1]; Width and Height are
// the image size in percent of one cell.
type Piece struct {
	Cell       models.CellKey
	DisplayRow int
	X, Y       float64
	Width      float64
	Height     float64
}

// UpdateOptions control UpdateLayout.
type UpdateOptions struct {
	ResetRevealed bool
}

// Revealer owns the mosaic state. It is not safe for concurrent use.
type Revealer struct {
	enabled  bool
	imageRef string
	layout   layout.Layout
	revealed map[models.CellKey]struct{}
	counted  int

	// completedAt is the TotalPieces value the completion signal last fired
	// for, zero when armed.
	completedAt int
	onComplete  func(imageRef string)
}

// New returns a disabled revealer. onComplete may be nil.
func New(onComplete func(imageRef string)) *Revealer {
	return &Revealer{
		revealed:   make(map[models.CellKey]struct{}),
		onComplete: onComplete,
	}
}

// Initialize sets the hidden image and clears all progress. An empty
// imageRef disables the mosaic; reveal bookkeeping still runs.
func (r *Revealer) Initialize(imageRef string) {
	r.imageRef = imageRef
	r.enabled = imageRef != ""
	r.revealed = make(map[models.CellKey]struct{})
	r.counted = 0
	r.completedAt = 0
}

// Disable turns the mosaic off without touching progress, used when the
// image turns out to be unavailable.
func (r *Revealer) Disable() {
	r.enabled = false
}

// Enabled reports whether a mosaic image is configured.
func (r *Revealer) Enabled() bool {
	return r.enabled
}

// UpdateLayout installs a new layout. Without ResetRevealed, previously
// revealed keys that no longer resolve are dropped.
func (r *Revealer) UpdateLayout(l layout.Layout, opts UpdateOptions) {
	r.layout = l
	if opts.ResetRevealed {
		r.revealed = make(map[models.CellKey]struct{})
		r.completedAt = 0
	} else {
		for key := range r.revealed {
			if !l.Contains(key) {
				delete(r.revealed, key)
			}
		}
	}
	r.recount()
}

// MarkRevealed records a reveal for the cell and reports whether it was new.
func (r *Revealer) MarkRevealed(cat, row int) bool {
	if cat < 0 || row < 0 {
		return false
	}
	key := models.CellKey{Cat: cat, Row: row}
	if _, ok := r.revealed[key]; ok {
		return false
	}
	r.revealed[key] = struct{}{}
	r.recount()

	total := r.TotalPieces()
	if r.enabled && total > 0 && r.counted == total && r.completedAt != total {
		r.completedAt = total
		if r.onComplete != nil {
			r.onComplete(r.imageRef)
		}
	}
	return true
}

// IsRevealed reports whether the cell was marked.
func (r *Revealer) IsRevealed(cat, row int) bool {
	_, ok := r.revealed[models.CellKey{Cat: cat, Row: row}]
	return ok
}

// TotalPieces is rows × cols of the current layout.
func (r *Revealer) TotalPieces() int {
	return r.layout.Rows() * r.layout.Cols
}

// Progress returns the counted reveals and the total.
func (r *Revealer) Progress() (counted, total int) {
	return r.counted, r.TotalPieces()
}

// Complete reports whether every piece is revealed.
func (r *Revealer) Complete() bool {
	total := r.TotalPieces()
	return total > 0 && r.counted == total
}

func (r *Revealer) recount() {
	n := 0
	for key := range r.revealed {
		if r.layout.Contains(key) {
			n++
		}
	}
	r.counted = n
}

// Pieces returns the counted revealed pieces ordered by display position.
// It returns nil while the mosaic is disabled.
func (r *Revealer) Pieces() []Piece {
	if !r.enabled {
		return nil
	}
	rows, cols := r.layout.Rows(), r.layout.Cols
	pieces := make([]Piece, 0, r.counted)
	for key := range r.revealed {
		d, ok := r.layout.DisplayRow(key.Row)
		if !ok || key.Cat >= cols {
			continue
		}
		pieces = append(pieces, Piece{
			Cell:       key,
			DisplayRow: d,
			X:          ratio(key.Cat, cols-1),
			Y:          ratio(d, rows-1),
			Width:      float64(cols) * 100,
			Height:     float64(rows) * 100,
		})
	}
	sort.Slice(pieces, func(i, j int) bool {
		if pieces[i].DisplayRow != pieces[j].DisplayRow {
			return pieces[i].DisplayRow < pieces[j].DisplayRow
		}
		return pieces[i].Cell.Cat < pieces[j].Cell.Cat
	})
	return pieces
}

func ratio(n, d int) float64 {
	if d <= 0 {
		return 0
	}
	return float64(n) / float64(d)
}

// Snapshot copies the current state.
func (r *Revealer) Snapshot() State {
	revealed := make(map[models.CellKey]struct{}, len(r.revealed))
	for k := range r.revealed {
		revealed[k] = struct{}{}
	}
	return State{
		Enabled:     r.enabled,
		ImageRef:    r.imageRef,
		Rows:        r.layout.Rows(),
		Cols:        r.layout.Cols,
		TotalPieces: r.TotalPieces(),
		Revealed:    revealed,
	}
}
