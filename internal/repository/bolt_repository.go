package repository

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"promptboard/internal/model"

	bolt "go.etcd.io/bbolt"
)

const defaultBoltBucket = "snapshots"

// BoltRepository stores snapshots in a single BoltDB bucket, one key per board.
type BoltRepository struct {
	db     *bolt.DB
	bucket []byte
}

// NewBoltRepository opens (or creates) the BoltDB file and ensures the bucket exists.
func NewBoltRepository(path string, bucket string) (*BoltRepository, error) {
	if bucket == "" {
		bucket = defaultBoltBucket
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucket))
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &BoltRepository{
		db:     db,
		bucket: []byte(bucket),
	}, nil
}

func (r *BoltRepository) Load(ctx context.Context, key string) (*model.Board, error) {
	if r == nil || r.db == nil {
		return nil, bolt.ErrDatabaseNotOpen
	}

	var payload []byte
	err := r.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(r.bucket).Get([]byte(key)); v != nil {
			// v is only valid inside the transaction
			payload = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, ErrSnapshotNotFound
	}
	return decodeBoard(payload)
}

func (r *BoltRepository) Save(ctx context.Context, key string, board model.Board) error {
	if r == nil || r.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	payload, err := encodeBoard(board)
	if err != nil {
		return err
	}
	return r.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(r.bucket).Put([]byte(key), payload)
	})
}

// Ping verifies the bucket is still readable.
func (r *BoltRepository) Ping(ctx context.Context) error {
	if r == nil || r.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return r.db.View(func(tx *bolt.Tx) error {
		if tx.Bucket(r.bucket) == nil {
			return bolt.ErrBucketNotFound
		}
		return nil
	})
}

func (r *BoltRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}
