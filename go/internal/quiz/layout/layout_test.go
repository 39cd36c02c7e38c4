package layout

import (
	"fmt"
	"testing"

	"github.com/mcdev12/painani/go/internal/models"
)

func clue(q string) *models.Clue {
	return &models.Clue{Value: 100, Question: q}
}

// grid builds categories×rows clues, calling blank(cat,row) to decide which
// slots get a sentinel placeholder instead of a question.
func grid(cats, rows int, blank func(cat, row int) bool) []models.Category {
	out := make([]models.Category, cats)
	for c := 0; c < cats; c++ {
		out[c].Name = fmt.Sprintf("cat-%d", c)
		for r := 0; r < rows; r++ {
			if blank(c, r) {
				out[c].Clues = append(out[c].Clues, clue(fmt.Sprintf("(Sin pregunta disponible para cat-%d %d)", c, (r+1)*100)))
				continue
			}
			out[c].Clues = append(out[c].Clues, clue(fmt.Sprintf("q %d/%d", c, r)))
		}
	}
	return out
}

func TestCompute_DropsRowWithoutEligibleClue(t *testing.T) {
	cats := grid(4, 5, func(_, row int) bool { return row == 3 })

	l := Compute(cats, Options{})

	if l.Rows() != 4 {
		t.Fatalf("rows = %d, want 4", l.Rows())
	}
	wantOrder := []int{0, 1, 2, 4}
	for i, row := range wantOrder {
		if l.RowOrder[i] != row {
			t.Errorf("RowOrder[%d] = %d, want %d", i, l.RowOrder[i], row)
		}
		if d, ok := l.DisplayRow(row); !ok || d != i {
			t.Errorf("display(%d) = %d,%v want %d", row, d, ok, i)
		}
	}
	if _, ok := l.DisplayRow(3); ok {
		t.Error("row 3 must not have a display index")
	}
	if l.Cols != 4 || l.Fallback {
		t.Errorf("cols=%d fallback=%v", l.Cols, l.Fallback)
	}
}

func TestCompute_RowKeptWhenAnyCategoryHasClue(t *testing.T) {
	cats := grid(3, 3, func(cat, row int) bool { return row == 1 && cat != 2 })

	l := Compute(cats, Options{})

	if l.Rows() != 3 {
		t.Fatalf("rows = %d, want 3", l.Rows())
	}
}

func TestCompute_AbsentAndUnavailableSlots(t *testing.T) {
	cats := []models.Category{
		{Name: "a", Clues: []*models.Clue{clue("q"), nil, {Question: "x", Unavailable: true}}},
		{Name: "b", Clues: []*models.Clue{nil}},
		{Name: "c", Clues: []*models.Clue{nil, nil, nil, clue("late")}},
	}

	l := Compute(cats, Options{})

	if l.MaxRows != 4 {
		t.Errorf("max rows = %d, want 4", l.MaxRows)
	}
	want := []int{0, 3}
	if len(l.RowOrder) != len(want) {
		t.Fatalf("RowOrder = %v, want %v", l.RowOrder, want)
	}
	for i := range want {
		if l.RowOrder[i] != want[i] {
			t.Fatalf("RowOrder = %v, want %v", l.RowOrder, want)
		}
	}
	if !l.Contains(models.CellKey{Cat: 2, Row: 3}) {
		t.Error("cell (2,3) should resolve")
	}
	if l.Contains(models.CellKey{Cat: 3, Row: 0}) {
		t.Error("column 3 is out of range")
	}
}

func TestCompute_FallbackKeepsAllRows(t *testing.T) {
	cats := grid(2, 3, func(_, _ int) bool { return true })

	l := Compute(cats, Options{})

	if !l.Fallback {
		t.Error("expected fallback layout")
	}
	if l.Rows() != 3 {
		t.Fatalf("rows = %d, want 3", l.Rows())
	}
	for i, row := range l.RowOrder {
		if row != i {
			t.Errorf("RowOrder = %v, want identity", l.RowOrder)
		}
	}
}

func TestCompute_EmptyBoard(t *testing.T) {
	l := Compute(nil, Options{})
	if l.Rows() != 0 || l.Cols != 0 || l.Fallback {
		t.Errorf("empty layout = %+v", l)
	}
}

func TestCompute_CustomSentinel(t *testing.T) {
	cats := []models.Category{{Name: "a", Clues: []*models.Clue{clue("N/A: none"), clue("real")}}}

	l := Compute(cats, Options{SentinelPrefix: "N/A"})

	if l.Rows() != 1 || l.RowOrder[0] != 1 {
		t.Errorf("RowOrder = %v, want [1]", l.RowOrder)
	}
}

// Compaction property over every blank pattern of a small grid.
func TestCompute_CompactionProperty(t *testing.T) {
	const cats, rows = 2, 4
	for mask := 0; mask < 1<<(cats*rows); mask++ {
		blank := func(cat, row int) bool { return mask&(1<<(cat*rows+row)) != 0 }
		l := Compute(grid(cats, rows, blank), Options{})

		var eligible []int
		for r := 0; r < rows; r++ {
			for c := 0; c < cats; c++ {
				if !blank(c, r) {
					eligible = append(eligible, r)
					break
				}
			}
		}
		if len(eligible) == 0 {
			if !l.Fallback || l.Rows() != rows {
				t.Fatalf("mask %b: expected fallback to all rows, got %v", mask, l.RowOrder)
			}
			continue
		}
		if len(l.RowOrder) != len(eligible) {
			t.Fatalf("mask %b: RowOrder %v, want %v", mask, l.RowOrder, eligible)
		}
		for i := range eligible {
			if l.RowOrder[i] != eligible[i] {
				t.Fatalf("mask %b: RowOrder %v, want %v", mask, l.RowOrder, eligible)
			}
			if i > 0 && l.RowOrder[i] <= l.RowOrder[i-1] {
				t.Fatalf("mask %b: RowOrder not strictly increasing: %v", mask, l.RowOrder)
			}
		}
		if len(l.DisplayIndexByOriginal) != len(l.RowOrder) {
			t.Fatalf("mask %b: map has %d entries for %d rows", mask, len(l.DisplayIndexByOriginal), len(l.RowOrder))
		}
	}
}
