package main

import (
	"context"
	"fmt"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront-cart/internal/catalog"
	"github.com/nikolayk812/storefront-cart/internal/checkout"
	"github.com/nikolayk812/storefront-cart/internal/config"
	"github.com/nikolayk812/storefront-cart/internal/port"
	"github.com/nikolayk812/storefront-cart/internal/repository"
	"github.com/redis/go-redis/v9"
	"net/http"
)

// openStorage returns the cart storage selected by cfg and a func releasing it.
func openStorage(ctx context.Context, cfg config.StorageConfig) (port.CartStorage, func(), error) {
	switch cfg.Driver {
	case config.StoragePostgres:
		pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("pgxpool.New: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("pool.Ping: %w", err)
		}
		return repository.NewCartStorage(pool), pool.Close, nil

	case config.StorageRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("client.Ping: %w", err)
		}
		return repository.NewRedisCartStorage(client, cfg.RedisTTL), func() { _ = client.Close() }, nil

	case config.StorageMemory:
		return repository.NewMemoryCartStorage(), func() {}, nil
	}

	return nil, nil, fmt.Errorf("storage.driver[%s] is not supported", cfg.Driver)
}

func newBuilder(cfg *config.Config) (*checkout.Builder, error) {
	builder, err := checkout.NewBuilder(checkout.BuilderConfig{
		ServiceURL: cfg.WhatsApp.BaseURL,
		StorePhone: cfg.Store.WhatsAppPhone,
		SiteURL:    cfg.Store.SiteURL,
	})
	if err != nil {
		return nil, fmt.Errorf("checkout.NewBuilder: %w", err)
	}
	return builder, nil
}

func newCatalog(cfg config.CatalogConfig) (*catalog.Client, error) {
	opts := []catalog.Option{
		catalog.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
	}
	if cfg.Token != "" {
		opts = append(opts, catalog.WithTokenSource(catalog.StaticToken(cfg.Token)))
	}

	client, err := catalog.New(cfg.BaseURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("catalog.New: %w", err)
	}
	return client, nil
}
