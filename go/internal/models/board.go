package models

import (
	"fmt"
	"strconv"
	"strings"
)

// TileStatus is the server-side status of a board cell.
type TileStatus string

const (
	TileAvailable TileStatus = ""
	TileUsed      TileStatus = "used"
	TileCorrect   TileStatus = "correct"
)

// Done reports whether the cell can no longer be opened.
func (s TileStatus) Done() bool {
	return s == TileUsed || s == TileCorrect
}

// Clue is one question slot of a category.
type Clue struct {
	Value       int      `json:"value"`
	Question    string   `json:"question"`
	Choices     []string `json:"choices,omitempty"`
	Answer      int      `json:"answer"`
	Image       string   `json:"image,omitempty"`
	Unavailable bool     `json:"unavailable,omitempty"`
	Reused      bool     `json:"reused,omitempty"` // picked again because the pool ran dry
}

// Category is a board column. A nil clue is an absent slot.
type Category struct {
	Name  string  `json:"name"`
	Clues []*Clue `json:"clues"`
}

// Clue returns the clue at row, or nil when the slot is absent.
func (c Category) Clue(row int) *Clue {
	if row < 0 || row >= len(c.Clues) {
		return nil
	}
	return c.Clues[row]
}

// CellKey addresses a board cell in ORIGINAL coordinates.
type CellKey struct {
	Cat int `json:"cat_idx"`
	Row int `json:"clue_idx"`
}

// String formats the key the way the server keys tile_status ("c,r").
func (k CellKey) String() string {
	return strconv.Itoa(k.Cat) + "," + strconv.Itoa(k.Row)
}

// ParseCellKey parses a "c,r" tile_status key.
func ParseCellKey(s string) (CellKey, error) {
	catStr, rowStr, ok := strings.Cut(s, ",")
	if !ok {
		return CellKey{}, fmt.Errorf("invalid cell key %q", s)
	}
	cat, err := strconv.Atoi(strings.TrimSpace(catStr))
	if err != nil {
		return CellKey{}, fmt.Errorf("invalid cell key %q: %w", s, err)
	}
	row, err := strconv.Atoi(strings.TrimSpace(rowStr))
	if err != nil {
		return CellKey{}, fmt.Errorf("invalid cell key %q: %w", s, err)
	}
	return CellKey{Cat: cat, Row: row}, nil
}

// BoardSnapshot is the board payload served by /api/board and embedded in
// connected and game_reset events.
type BoardSnapshot struct {
	Categories  []Category            `json:"categories"`
	Used        [][2]int              `json:"used"`
	TileStatus  map[string]TileStatus `json:"tile_status"`
	Scores      []int                 `json:"scores"`
	PlayerCount int                   `json:"player_count"`
}

// MaxRows returns the length of the longest category.
func (b *BoardSnapshot) MaxRows() int {
	max := 0
	for _, c := range b.Categories {
		if len(c.Clues) > max {
			max = len(c.Clues)
		}
	}
	return max
}

// Exists reports whether the cell holds a clue.
func (b *BoardSnapshot) Exists(key CellKey) bool {
	return key.Cat >= 0 && key.Cat < len(b.Categories) && b.Categories[key.Cat].Clue(key.Row) != nil
}

// Status returns the status of a cell, honoring both tile_status and the
// legacy used list.
func (b *BoardSnapshot) Status(key CellKey) TileStatus {
	if s, ok := b.TileStatus[key.String()]; ok && s.Done() {
		return s
	}
	for _, u := range b.Used {
		if u[0] == key.Cat && u[1] == key.Row {
			return TileUsed
		}
	}
	return TileAvailable
}

// SetStatus records a local status change for a cell.
func (b *BoardSnapshot) SetStatus(key CellKey, status TileStatus) {
	if b.TileStatus == nil {
		b.TileStatus = make(map[string]TileStatus)
	}
	b.TileStatus[key.String()] = status
}

// Clone returns a copy that shares clue pointers but not maps or slices.
func (b *BoardSnapshot) Clone() *BoardSnapshot {
	if b == nil {
		return nil
	}
	out := *b
	out.Categories = append([]Category(nil), b.Categories...)
	out.Used = append([][2]int(nil), b.Used...)
	out.Scores = append([]int(nil), b.Scores...)
	out.TileStatus = make(map[string]TileStatus, len(b.TileStatus))
	for k, v := range b.TileStatus {
		out.TileStatus[k] = v
	}
	return &out
}
