package repository

import (
	"context"
	"errors"
	"fmt"
	"github.com/nikolayk812/storefront-cart/internal/domain"
	"github.com/nikolayk812/storefront-cart/internal/port"
	"github.com/redis/go-redis/v9"
	"time"
)

type redisCartStorage struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCartStorage stores each cart as one JSON value under its storage key.
// A zero ttl keeps values until they are deleted.
func NewRedisCartStorage(client *redis.Client, ttl time.Duration) port.CartStorage {
	return &redisCartStorage{
		client: client,
		ttl:    ttl,
	}
}

func (r *redisCartStorage) Load(ctx context.Context, key string) ([]domain.CartLine, error) {
	if key == "" {
		return nil, fmt.Errorf("key is empty")
	}

	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, port.ErrCartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("client.Get: %w", err)
	}

	lines, err := DecodeLines(data)
	if err != nil {
		return nil, fmt.Errorf("DecodeLines: %w", err)
	}

	return lines, nil
}

func (r *redisCartStorage) Save(ctx context.Context, key string, lines []domain.CartLine) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	data, err := EncodeLines(lines)
	if err != nil {
		return fmt.Errorf("EncodeLines: %w", err)
	}

	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("client.Set: %w", err)
	}

	return nil
}

func (r *redisCartStorage) Delete(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, fmt.Errorf("key is empty")
	}

	n, err := r.client.Del(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("client.Del: %w", err)
	}

	return n > 0, nil
}
