package controller

// Status message keys. Views translate them through their message catalog.
const (
	MsgSelectCell     = "Select a cell to open a question."
	MsgQuestionOpen   = "Question open. Press your buzzer to answer!"
	MsgTeamTurn       = "Team %d has the turn. Answer!"
	MsgCorrect        = "Correct! Pick another cell."
	MsgRebound        = "Rebound: another team may answer."
	MsgNoTriesLeft    = "No tries left. Pick another cell."
	MsgSelectFirst    = "Select an answer first."
	MsgTimeUp         = "Time is up!"
	MsgGameReset      = "Game reset. Select a cell."
	MsgAnswersHidden  = "Moderator mode: answers hidden."
	MsgAnswersShown   = "Answers visible."
	MsgTeamCount      = "Playing with %d teams."
	MsgMosaicComplete = "The hidden image is complete!"
	MsgServerError    = "Error: %s"
	MsgUnknownError   = "Unknown error"
	MsgBoardFallback  = "No playable rows; showing the whole board."
)
