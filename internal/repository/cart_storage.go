package repository

import (
	"context"
	"errors"
	"fmt"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront-cart/internal/db"
	"github.com/nikolayk812/storefront-cart/internal/domain"
	"github.com/nikolayk812/storefront-cart/internal/port"
)

type cartStorage struct {
	q    *db.Queries
	pool *pgxpool.Pool
}

func NewCartStorage(pool *pgxpool.Pool) port.CartStorage {
	return &cartStorage{
		q:    db.New(pool),
		pool: pool,
	}
}

func NewCartStorageWithTx(tx pgx.Tx) port.CartStorage {
	return &cartStorage{
		q:    db.New(tx),
		pool: nil, // use provided transaction instead
	}
}

func (r *cartStorage) Load(ctx context.Context, key string) ([]domain.CartLine, error) {
	if key == "" {
		return nil, fmt.Errorf("key is empty")
	}

	snapshot, err := r.q.GetCartSnapshot(ctx, key)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, port.ErrCartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("q.GetCartSnapshot: %w", err)
	}

	lines, err := DecodeLines(snapshot.Lines)
	if err != nil {
		return nil, fmt.Errorf("DecodeLines: %w", err)
	}

	return lines, nil
}

func (r *cartStorage) Save(ctx context.Context, key string, lines []domain.CartLine) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	data, err := EncodeLines(lines)
	if err != nil {
		return fmt.Errorf("EncodeLines: %w", err)
	}

	_, err = withTx(ctx, r.pool, r.q, func(q *db.Queries) (struct{}, error) {
		if err := q.UpsertCartSnapshot(ctx, db.UpsertCartSnapshotParams{
			StorageKey: key,
			Lines:      data,
		}); err != nil {
			return struct{}{}, fmt.Errorf("q.UpsertCartSnapshot: %w", err)
		}
		return struct{}{}, nil
	})

	return err
}

func (r *cartStorage) Delete(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, fmt.Errorf("key is empty")
	}

	rowsAffected, err := r.q.DeleteCartSnapshot(ctx, key)
	if err != nil {
		return false, fmt.Errorf("q.DeleteCartSnapshot: %w", err)
	}

	return rowsAffected > 0, nil
}
