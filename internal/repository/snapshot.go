package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"promptboard/internal/model"
)

// SnapshotRepository persists whole-board snapshots under a key.
type SnapshotRepository interface {
	Load(ctx context.Context, key string) (*model.Board, error)
	Save(ctx context.Context, key string, board model.Board) error
	Ping(ctx context.Context) error
	Close() error
}

func encodeBoard(board model.Board) ([]byte, error) {
	return json.Marshal(board)
}

func decodeBoard(payload []byte) (*model.Board, error) {
	var board model.Board
	if err := json.Unmarshal(payload, &board); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	for i := range board.Columns {
		if board.Columns[i].Cards == nil {
			board.Columns[i].Cards = []model.Card{}
		}
	}
	return &board, nil
}
