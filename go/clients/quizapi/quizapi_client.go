// Package quizapi is the REST client for the quiz server's bootstrap and
// administration endpoints.
package quizapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mcdev12/painani/go/clients"
	"github.com/mcdev12/painani/go/internal/models"
)

type QuizApiClient struct {
	*clients.BaseClient
}

func NewQuizApiClient(baseURL string) *QuizApiClient {
	return &QuizApiClient{
		BaseClient: clients.NewBaseClient(strings.TrimRight(baseURL, "/")),
	}
}

// GetBoard fetches the current board.
func (c *QuizApiClient) GetBoard(ctx context.Context) (models.BoardSnapshot, error) {
	var board models.BoardSnapshot
	if err := c.getJSON(ctx, BoardEndpoint, &board); err != nil {
		return models.BoardSnapshot{}, fmt.Errorf("failed to fetch board: %w", err)
	}
	return board, nil
}

// GetGameState fetches scores and turn state.
func (c *QuizApiClient) GetGameState(ctx context.Context) (models.GameSnapshot, error) {
	var game models.GameSnapshot
	if err := c.getJSON(ctx, GameStateEndpoint, &game); err != nil {
		return models.GameSnapshot{}, fmt.Errorf("failed to fetch game state: %w", err)
	}
	return game, nil
}

// Reset restarts the game. The server follows up with a game_reset event.
func (c *QuizApiClient) Reset(ctx context.Context) error {
	if _, err := c.Post(ctx, ResetEndpoint, bytes.NewReader([]byte("{}"))); err != nil {
		return fmt.Errorf("failed to reset game: %w", err)
	}
	return nil
}

type loadDataRequest struct {
	Type string `json:"type"`
	Path string `json:"path"`
}

type loadDataResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// LoadData asks the server to import a board file from its own disk. The
// file type follows the extension. It returns the server's confirmation.
func (c *QuizApiClient) LoadData(ctx context.Context, path string) (string, error) {
	fileType := FileTypeJSON
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		fileType = FileTypeCSV
	}
	body, err := json.Marshal(loadDataRequest{Type: fileType, Path: path})
	if err != nil {
		return "", fmt.Errorf("failed to marshal load request: %w", err)
	}

	raw, err := c.Post(ctx, LoadDataEndpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to load %s: %w", path, err)
	}
	var resp loadDataResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("failed to decode load response: %w", err)
	}
	return resp.Message, nil
}

// ImagesFolder returns the folder of the loaded question images, or "" when
// the board has none.
func (c *QuizApiClient) ImagesFolder(ctx context.Context) (string, error) {
	var resp struct {
		ImagesFolder *string `json:"images_folder"`
	}
	if err := c.getJSON(ctx, ImagesFolderEndpoint, &resp); err != nil {
		return "", fmt.Errorf("failed to fetch images folder: %w", err)
	}
	if resp.ImagesFolder == nil {
		return "", nil
	}
	return *resp.ImagesFolder, nil
}

// ProbeImage checks that an image path is served.
func (c *QuizApiClient) ProbeImage(ctx context.Context, path string) error {
	if path == "" {
		return fmt.Errorf("empty image path")
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if err := c.Head(ctx, path); err != nil {
		return fmt.Errorf("image %s unavailable: %w", path, err)
	}
	return nil
}

func (c *QuizApiClient) getJSON(ctx context.Context, endpoint string, v any) error {
	raw, err := c.Get(ctx, endpoint)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", endpoint, err)
	}
	return nil
}
