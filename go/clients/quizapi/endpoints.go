package quizapi

const (
	// API Endpoints
	BoardEndpoint        = "/api/board"
	GameStateEndpoint    = "/api/game-state"
	LoadDataEndpoint     = "/api/load-data"
	ResetEndpoint        = "/api/reset"
	ImagesFolderEndpoint = "/api/images-folder"

	// Board file types accepted by load-data
	FileTypeJSON = "json"
	FileTypeCSV  = "csv"
)
