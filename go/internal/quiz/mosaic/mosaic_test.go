package mosaic

import (
	"testing"

	"github.com/mcdev12/painani/go/internal/models"
	"github.com/mcdev12/painani/go/internal/quiz/layout"
)

// fullGrid returns categories where every slot holds a question except the
// rows listed in blank.
func fullGrid(cats, rows int, blank ...int) []models.Category {
	skip := make(map[int]bool)
	for _, r := range blank {
		skip[r] = true
	}
	out := make([]models.Category, cats)
	for c := range out {
		for r := 0; r < rows; r++ {
			q := "question"
			if skip[r] {
				q = "(Sin pregunta disponible)"
			}
			out[c].Clues = append(out[c].Clues, &models.Clue{Value: (r + 1) * 100, Question: q})
		}
	}
	return out
}

func newRevealer(t *testing.T, cats, rows int, fired *[]string) *Revealer {
	t.Helper()
	r := New(func(ref string) { *fired = append(*fired, ref) })
	r.Initialize("reward.png")
	r.UpdateLayout(layout.Compute(fullGrid(cats, rows), layout.Options{}), UpdateOptions{ResetRevealed: true})
	return r
}

func TestMarkRevealed_Idempotent(t *testing.T) {
	var fired []string
	r := newRevealer(t, 2, 2, &fired)

	if !r.MarkRevealed(0, 1) {
		t.Fatal("first mark should be new")
	}
	if r.MarkRevealed(0, 1) {
		t.Fatal("second mark should be a no-op")
	}
	if counted, total := r.Progress(); counted != 1 || total != 4 {
		t.Errorf("progress = %d/%d, want 1/4", counted, total)
	}
	if len(fired) != 0 {
		t.Errorf("completion fired early: %v", fired)
	}
}

func TestMarkRevealed_CompletionFiresOnce(t *testing.T) {
	var fired []string
	r := newRevealer(t, 2, 2, &fired)

	for _, k := range [][2]int{{0, 0}, {0, 1}, {1, 0}, {1, 1}} {
		r.MarkRevealed(k[0], k[1])
	}
	if len(fired) != 1 || fired[0] != "reward.png" {
		t.Fatalf("fired = %v, want one reward.png", fired)
	}

	// Re-rendering the same layout and re-marking must not refire.
	r.UpdateLayout(layout.Compute(fullGrid(2, 2), layout.Options{}), UpdateOptions{})
	r.MarkRevealed(1, 1)
	if len(fired) != 1 {
		t.Fatalf("completion refired: %v", fired)
	}
	if !r.Complete() {
		t.Error("expected complete")
	}
}

func TestMarkRevealed_DisabledNeverCompletes(t *testing.T) {
	var fired []string
	r := New(func(ref string) { fired = append(fired, ref) })
	r.Initialize("")
	r.UpdateLayout(layout.Compute(fullGrid(1, 1), layout.Options{}), UpdateOptions{ResetRevealed: true})

	if !r.MarkRevealed(0, 0) {
		t.Fatal("mark should still be recorded")
	}
	if len(fired) != 0 {
		t.Errorf("disabled mosaic fired completion")
	}
	if r.Pieces() != nil {
		t.Error("disabled mosaic should render no pieces")
	}
}

func TestUpdateLayout_FiltersUnresolvedKeys(t *testing.T) {
	var fired []string
	r := newRevealer(t, 3, 4, &fired)
	r.MarkRevealed(0, 0)
	r.MarkRevealed(2, 1)
	r.MarkRevealed(1, 3)

	// Fewer columns and row 3 no longer eligible.
	r.UpdateLayout(layout.Compute(fullGrid(2, 4, 3), layout.Options{}), UpdateOptions{})

	snap := r.Snapshot()
	if len(snap.Revealed) != 1 {
		t.Fatalf("revealed = %v, want only (0,0)", snap.Revealed)
	}
	if _, ok := snap.Revealed[models.CellKey{Cat: 0, Row: 0}]; !ok {
		t.Error("(0,0) should survive")
	}
	for key := range snap.Revealed {
		if key.Cat >= snap.Cols {
			t.Errorf("key %v outside columns", key)
		}
	}
	if counted, total := r.Progress(); counted != 1 || total != 6 {
		t.Errorf("progress = %d/%d, want 1/6", counted, total)
	}
}

func TestUpdateLayout_ResetClearsAndRearms(t *testing.T) {
	var fired []string
	r := newRevealer(t, 1, 1, &fired)
	r.MarkRevealed(0, 0)

	r.UpdateLayout(layout.Compute(fullGrid(1, 1), layout.Options{}), UpdateOptions{ResetRevealed: true})
	if counted, _ := r.Progress(); counted != 0 {
		t.Fatalf("counted = %d after reset", counted)
	}
	r.MarkRevealed(0, 0)
	if len(fired) != 2 {
		t.Errorf("fired %d times, want 2 (one per reset cycle)", len(fired))
	}
}

func TestPieces_Geometry(t *testing.T) {
	var fired []string
	r := newRevealer(t, 3, 5, &fired)
	r.UpdateLayout(layout.Compute(fullGrid(3, 5, 1), layout.Options{}), UpdateOptions{})
	r.MarkRevealed(2, 4)
	r.MarkRevealed(0, 0)

	pieces := r.Pieces()
	if len(pieces) != 2 {
		t.Fatalf("pieces = %d, want 2", len(pieces))
	}
	first, last := pieces[0], pieces[1]
	if first.Cell != (models.CellKey{Cat: 0, Row: 0}) || first.X != 0 || first.Y != 0 {
		t.Errorf("first piece = %+v", first)
	}
	// Row 4 is display row 3 of 4, the last one.
	if last.DisplayRow != 3 || last.X != 1 || last.Y != 1 {
		t.Errorf("last piece = %+v", last)
	}
	if last.Width != 300 || last.Height != 400 {
		t.Errorf("size = %vx%v, want 300x400", last.Width, last.Height)
	}
}

func TestPieces_SingleRowAndColumn(t *testing.T) {
	var fired []string
	r := newRevealer(t, 1, 1, &fired)
	r.MarkRevealed(0, 0)

	p := r.Pieces()
	if len(p) != 1 || p[0].X != 0 || p[0].Y != 0 || p[0].Width != 100 || p[0].Height != 100 {
		t.Errorf("pieces = %+v", p)
	}
}
