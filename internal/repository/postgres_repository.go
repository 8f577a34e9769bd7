package repository

import (
	"context"
	"errors"

	"promptboard/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresRepository struct {
	db *gorm.DB
}

// OpenPostgres connects with the given DSN and migrates the snapshot table.
func OpenPostgres(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&model.BoardSnapshot{}); err != nil {
		return nil, err
	}
	return db, nil
}

func NewPostgresRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Load(ctx context.Context, key string) (*model.Board, error) {
	var row model.BoardSnapshot
	if err := r.db.WithContext(ctx).Where("snapshot_key = ?", key).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSnapshotNotFound
		}
		return nil, err
	}
	return decodeBoard([]byte(row.Payload))
}

// Save upserts the snapshot row for key.
func (r *PostgresRepository) Save(ctx context.Context, key string, board model.Board) error {
	payload, err := encodeBoard(board)
	if err != nil {
		return err
	}
	row := model.BoardSnapshot{Key: key, Payload: string(payload)}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "snapshot_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&row).Error
}

func (r *PostgresRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *PostgresRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
