package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"promptboard/internal/model"

	redislib "github.com/redis/go-redis/v9"
)

type RedisRepository struct {
	client *redislib.Client
	prefix string
}

// NewRedisClient parses the URL, applies overrides and performs a health check.
func NewRedisClient(url, password string, db int) (*redislib.Client, error) {
	opts, err := redislib.ParseURL(url)
	if err != nil {
		return nil, err
	}
	if password != "" {
		opts.Password = password
	}
	if db != 0 {
		opts.DB = db
	}

	client := redislib.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

// NewRedisRepository stores snapshots as plain string values without expiry.
func NewRedisRepository(client *redislib.Client) *RedisRepository {
	return &RedisRepository{
		client: client,
		prefix: "promptboard:",
	}
}

func (r *RedisRepository) Load(ctx context.Context, key string) (*model.Board, error) {
	result, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil, ErrSnapshotNotFound
		}
		return nil, err
	}
	return decodeBoard(result)
}

func (r *RedisRepository) Save(ctx context.Context, key string, board model.Board) error {
	payload, err := encodeBoard(board)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key(key), payload, 0).Err()
}

func (r *RedisRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisRepository) Close() error {
	return r.client.Close()
}

func (r *RedisRepository) key(key string) string {
	return fmt.Sprintf("%s%s", r.prefix, key)
}
