package models

// GameSnapshot mirrors the server's game_state payload.
type GameSnapshot struct {
	Scores        []int `json:"scores"`
	CurrentBuzzer *int  `json:"current_buzzer"`
	TriedPlayers  []int `json:"tried_players"`
	TimerActive   bool  `json:"timer_active"`
	HideAnswers   bool  `json:"hide_answers"`
	HasQuestion   bool  `json:"has_question"`
	PlayerCount   int   `json:"player_count"`
}

const (
	MinTeams = 2
	MaxTeams = 10

	// DefaultPlayerCount is used when a snapshot omits player_count.
	DefaultPlayerCount = 5

	// DefaultQuestionValue is used for score adjustments when no question is open.
	DefaultQuestionValue = 100
)
