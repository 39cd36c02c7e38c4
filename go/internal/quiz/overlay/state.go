package overlay

import (
	"github.com/mcdev12/painani/go/internal/models"
	"github.com/mcdev12/painani/go/internal/quiz/controller"
	"github.com/mcdev12/painani/go/internal/quiz/countdown"
)

// StateResponse is the overlay's view of the game.
type StateResponse struct {
	Connected      bool          `json:"connected"`
	Phase          string        `json:"phase"`
	Categories     []string      `json:"categories"`
	Rows           [][]CellState `json:"rows"`
	Scores         []int         `json:"scores"`
	PlayerCount    int           `json:"player_count"`
	CurrentBuzzer  *int          `json:"current_buzzer"`
	TriedPlayers   []int         `json:"tried_players"`
	HideAnswers    bool          `json:"hide_answers"`
	SelectedAnswer *int          `json:"selected_answer"`
	AnswerPending  bool          `json:"answer_pending"`
	Question       *QuestionInfo `json:"question,omitempty"`
	Timer          TimerInfo     `json:"timer"`
	Mosaic         MosaicInfo    `json:"mosaic"`
}

// CellState is one rendered board cell.
type CellState struct {
	Cat    int    `json:"cat_idx"`
	Row    int    `json:"clue_idx"`
	Value  int    `json:"value"`
	Status string `json:"status"` // available, used, correct, empty
}

// QuestionInfo is the open question. The answer is never exposed.
type QuestionInfo struct {
	Category string   `json:"category"`
	Value    int      `json:"value"`
	Text     string   `json:"question"`
	Choices  []string `json:"choices,omitempty"`
	ImageURL string   `json:"image_url,omitempty"`
	CatIdx   int      `json:"cat_idx"`
	ClueIdx  int      `json:"clue_idx"`
}

// TimerInfo is the countdown state.
type TimerInfo struct {
	Active    bool   `json:"active"`
	Remaining int    `json:"remaining"`
	Tier      string `json:"tier"`
}

// MosaicInfo is the reveal progress with render geometry.
type MosaicInfo struct {
	Enabled  bool         `json:"enabled"`
	Image    string       `json:"image,omitempty"`
	Revealed int          `json:"revealed"`
	Total    int          `json:"total"`
	Pieces   []PieceState `json:"pieces"`
}

// PieceState positions one revealed image slice over a board cell.
type PieceState struct {
	Cat        int     `json:"cat_idx"`
	DisplayRow int     `json:"display_row"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
}

// BuildState converts a controller snapshot.
func BuildState(snap controller.Snapshot) StateResponse {
	resp := StateResponse{
		Connected:  snap.Connected,
		Categories: []string{},
		Rows:       [][]CellState{},
		Timer: TimerInfo{
			Active:    snap.TimerActive,
			Remaining: snap.Remaining,
			Tier:      countdown.TierFor(snap.Remaining).String(),
		},
		Mosaic: MosaicInfo{
			Enabled: snap.Mosaic.Enabled,
			Image:   snap.Mosaic.ImageRef,
			Total:   snap.Mosaic.TotalPieces,
			Pieces:  []PieceState{},
		},
	}
	if !snap.TimerActive {
		resp.Timer.Tier = countdown.TierNormal.String()
	}

	for _, p := range snap.Pieces {
		resp.Mosaic.Pieces = append(resp.Mosaic.Pieces, PieceState{
			Cat:        p.Cell.Cat,
			DisplayRow: p.DisplayRow,
			X:          p.X,
			Y:          p.Y,
			Width:      p.Width,
			Height:     p.Height,
		})
	}
	resp.Mosaic.Revealed = len(resp.Mosaic.Pieces)

	s := snap.State
	if s == nil {
		return resp
	}
	resp.Phase = s.Phase.String()
	resp.Scores = s.Scores
	resp.PlayerCount = s.PlayerCount
	resp.CurrentBuzzer = s.CurrentBuzzer
	resp.TriedPlayers = s.Tried()
	resp.HideAnswers = s.HideAnswers
	resp.SelectedAnswer = s.SelectedAnswer
	resp.AnswerPending = s.AnswerPending

	if q := s.Question; q != nil {
		resp.Question = &QuestionInfo{
			Category: q.Category,
			Value:    q.Value,
			Text:     q.Text,
			ImageURL: q.ImagePath(),
			CatIdx:   q.Cell.Cat,
			ClueIdx:  q.Cell.Row,
		}
		if !s.HideAnswers {
			resp.Question.Choices = q.Choices
		}
	}

	if s.Board == nil {
		return resp
	}
	for _, c := range s.Board.Categories {
		resp.Categories = append(resp.Categories, c.Name)
	}
	for _, row := range snap.Layout.RowOrder {
		cells := make([]CellState, 0, len(s.Board.Categories))
		for cat, c := range s.Board.Categories {
			cell := CellState{Cat: cat, Row: row, Status: "empty"}
			if clue := c.Clue(row); clue != nil {
				cell.Value = clue.Value
				switch st := s.Board.Status(models.CellKey{Cat: cat, Row: row}); st {
				case models.TileAvailable:
					cell.Status = "available"
				default:
					cell.Status = string(st)
				}
			}
			cells = append(cells, cell)
		}
		resp.Rows = append(resp.Rows, cells)
	}
	return resp
}
