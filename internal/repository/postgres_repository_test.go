package repository_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"promptboard/internal/model"
	"promptboard/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		DSN:                  "sqlmock_db_0",
		DriverName:           "postgres",
		Conn:                 db,
		PreferSimpleProtocol: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	assert.NoError(t, err)

	return gormDB, mock
}

func TestPostgresRepository_Save(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	repo := repository.NewPostgresRepository(gormDB)

	// Ожидаем upsert снимка доски
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "board_snapshots" .* ON CONFLICT \("snapshot_key"\) DO UPDATE SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Act
	err := repo.Save(context.Background(), "kanban-board", model.DefaultBoard())

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_Load_Found(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	repo := repository.NewPostgresRepository(gormDB)

	board := model.DefaultBoard()
	board.Columns[1].Cards = []model.Card{{
		ID:        "c1",
		Title:     "Write docs",
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}}
	payload, err := json.Marshal(board)
	assert.NoError(t, err)

	mock.ExpectQuery(`SELECT .* FROM "board_snapshots" WHERE snapshot_key = .* LIMIT`).
		WillReturnRows(sqlmock.NewRows([]string{"snapshot_key", "payload", "updated_at"}).
			AddRow("kanban-board", string(payload), time.Now()))

	// Act
	loaded, err := repo.Load(context.Background(), "kanban-board")

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, board, *loaded)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_Load_NotFound(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	repo := repository.NewPostgresRepository(gormDB)

	mock.ExpectQuery(`SELECT .* FROM "board_snapshots" WHERE snapshot_key = .* LIMIT`).
		WillReturnRows(sqlmock.NewRows([]string{"snapshot_key", "payload", "updated_at"}))

	// Act
	loaded, err := repo.Load(context.Background(), "kanban-board")

	// Assert
	assert.ErrorIs(t, err, repository.ErrSnapshotNotFound)
	assert.Nil(t, loaded)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_Load_Error(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	repo := repository.NewPostgresRepository(gormDB)

	mock.ExpectQuery(`SELECT .* FROM "board_snapshots"`).
		WillReturnError(assert.AnError)

	// Act
	loaded, err := repo.Load(context.Background(), "kanban-board")

	// Assert
	assert.ErrorIs(t, err, assert.AnError)
	assert.Nil(t, loaded)
	assert.NoError(t, mock.ExpectationsWereMet())
}
