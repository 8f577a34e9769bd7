package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"promptboard/internal/model"
	"promptboard/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultKey is the storage key the board snapshot lives under.
const DefaultKey = "kanban-board"

const saveTimeout = 5 * time.Second

// Store owns the current board snapshot. Each operation computes a new
// snapshot from the latest one and writes it back through the repository
// before the next operation runs.
type Store struct {
	mu    sync.Mutex
	board model.Board

	repo   repository.SnapshotRepository
	key    string
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

type Option func(*Store)

func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// Open loads the persisted snapshot, falling back to the default board when
// nothing is stored or the stored value cannot be read.
func Open(ctx context.Context, repo repository.SnapshotRepository, opts ...Option) *Store {
	s := &Store{
		repo:   repo,
		key:    DefaultKey,
		logger: zap.NewNop(),
		now:    func() time.Time { return time.Now().UTC().Round(0) },
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}

	loaded, err := repo.Load(ctx, s.key)
	switch {
	case err == nil:
		s.board = loaded.Clone()
		s.logger.Info("board snapshot loaded", zap.String("key", s.key), zap.Int("columns", len(s.board.Columns)))
	case errors.Is(err, repository.ErrSnapshotNotFound):
		s.board = model.DefaultBoard()
		s.logger.Info("no board snapshot stored, starting with default board", zap.String("key", s.key))
	default:
		s.board = model.DefaultBoard()
		s.logger.Error("failed to load board snapshot, starting with default board", zap.String("key", s.key), zap.Error(err))
	}
	return s
}

// Snapshot returns a copy of the current board.
func (s *Store) Snapshot() model.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Clone()
}

// FindCard returns the card and the id of the column that currently holds it.
func (s *Store) FindCard(cardID string) (model.Card, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.FindCard(cardID)
}

// MoveCard appends the card to the tail of the destination column.
// Unknown card or column ids leave the board unchanged.
func (s *Store) MoveCard(ctx context.Context, cardID, destinationColumnID string) (model.Board, error) {
	return s.apply(ctx, "move_card", func(b model.Board) (model.Board, error) {
		return b.MoveCard(cardID, destinationColumnID)
	})
}

func (s *Store) AddCard(ctx context.Context, columnID, title, description, notes string) (model.Board, error) {
	return s.apply(ctx, "add_card", func(b model.Board) (model.Board, error) {
		now := s.now()
		return b.AddCard(columnID, model.Card{
			ID:          s.newID(),
			Title:       title,
			Description: description,
			Notes:       notes,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	})
}

func (s *Store) UpdateCard(ctx context.Context, columnID, cardID, title, description, notes string) (model.Board, error) {
	return s.apply(ctx, "update_card", func(b model.Board) (model.Board, error) {
		return b.UpdateCard(columnID, cardID, model.CardFields{
			Title:       title,
			Description: description,
			Notes:       notes,
		}, s.now())
	})
}

func (s *Store) DeleteCard(ctx context.Context, columnID, cardID string) (model.Board, error) {
	return s.apply(ctx, "delete_card", func(b model.Board) (model.Board, error) {
		return b.DeleteCard(columnID, cardID)
	})
}

func (s *Store) AddColumn(ctx context.Context, title string) (model.Board, error) {
	return s.apply(ctx, "add_column", func(b model.Board) (model.Board, error) {
		return b.AddColumn(s.newID(), title)
	})
}

func (s *Store) RenameColumn(ctx context.Context, columnID, title string) (model.Board, error) {
	return s.apply(ctx, "rename_column", func(b model.Board) (model.Board, error) {
		return b.RenameColumn(columnID, title)
	})
}

// SetGeneratedPrompt stores a generation result. A card deleted while the
// generation was in flight makes this a no-op.
func (s *Store) SetGeneratedPrompt(ctx context.Context, columnID, cardID, prompt string) (model.Board, error) {
	return s.apply(ctx, "set_generated_prompt", func(b model.Board) (model.Board, error) {
		return b.SetGeneratedPrompt(columnID, cardID, prompt, s.now())
	})
}

func (s *Store) apply(ctx context.Context, op string, fn func(model.Board) (model.Board, error)) (model.Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := fn(s.board)
	if err != nil {
		if errors.Is(err, model.ErrCardNotFound) || errors.Is(err, model.ErrColumnNotFound) {
			s.logger.Debug("board operation skipped", zap.String("op", op), zap.Error(err))
			return s.board.Clone(), nil
		}
		return s.board.Clone(), err
	}

	s.board = next
	s.persist(ctx, op)
	return s.board.Clone(), nil
}

// persist writes the snapshot; failures are logged and the in-memory board
// stays authoritative.
func (s *Store) persist(ctx context.Context, op string) {
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), saveTimeout)
	defer cancel()

	if err := s.repo.Save(saveCtx, s.key, s.board); err != nil {
		s.logger.Error("failed to persist board snapshot",
			zap.String("op", op),
			zap.String("key", s.key),
			zap.Error(err),
		)
	}
}
