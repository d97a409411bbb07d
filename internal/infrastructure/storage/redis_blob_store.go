package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"coffee-diagnosis/internal/domain/port"
)

// RedisBlobStore хранит данные в Redis без срока жизни.
type RedisBlobStore struct {
	client *redis.Client
}

// NewRedisBlobStore создаёт клиент по Redis URL.
func NewRedisBlobStore(redisURL string) (*RedisBlobStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &RedisBlobStore{client: redis.NewClient(opts)}, nil
}

func (s *RedisBlobStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisBlobStore) Close() error {
	return s.client.Close()
}

func (s *RedisBlobStore) Load(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (s *RedisBlobStore) Save(ctx context.Context, key string, data []byte) error {
	return s.client.Set(ctx, key, data, 0).Err()
}

var _ port.BlobStore = (*RedisBlobStore)(nil)
