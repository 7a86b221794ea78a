package main

import (
	"context"
	"errors"
	"fmt"
	"github.com/nikolayk812/storefront-cart/internal/cartstore"
	"github.com/nikolayk812/storefront-cart/internal/checkout"
	"github.com/nikolayk812/storefront-cart/internal/config"
	"github.com/nikolayk812/storefront-cart/internal/events"
	carthttp "github.com/nikolayk812/storefront-cart/internal/http"
	"github.com/nikolayk812/storefront-cart/internal/migrations"
	"github.com/nikolayk812/storefront-cart/internal/notify"
	"github.com/nikolayk812/storefront-cart/internal/port"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"net/http"
	"os/signal"
	"syscall"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the cart HTTP server",
	RunE:  runServe,
}

var serveAddr string

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address, overrides server.addr")
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	if cfg.Storage.Driver == config.StoragePostgres {
		if err := migrations.Up(cfg.Storage.PostgresDSN, logger); err != nil {
			return fmt.Errorf("migrations.Up: %w", err)
		}
	}

	storage, closeStorage, err := openStorage(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer closeStorage()

	cur, err := cfg.CurrencyUnit()
	if err != nil {
		return err
	}

	builder, err := newBuilder(cfg)
	if err != nil {
		return err
	}

	catalogClient, err := newCatalog(cfg.Catalog)
	if err != nil {
		return err
	}

	var handoffs port.HandoffPublisher = events.NopPublisher{}
	if cfg.RabbitMQ.URL != "" {
		conn, err := events.Dial(cfg.RabbitMQ.URL)
		if err != nil {
			return err
		}
		defer conn.Close()

		publisher, err := events.NewRabbitPublisher(conn)
		if err != nil {
			return err
		}
		defer func() {
			if err := publisher.Close(); err != nil {
				logger.Warn("publisher close error", zap.Error(err))
			}
		}()
		handoffs = publisher
	}

	notifier := notify.New(notify.NewZapSink(logger), notify.WithWindow(cfg.Notify.Window))
	registry := cartstore.NewRegistry(storage, notifier,
		cartstore.WithLogger(logger),
		cartstore.WithCurrency(cur),
	)
	service := checkout.NewService(builder, handoffs, logger)

	idle := cfg.Server.CartIdleTimeout
	go registry.RunJanitor(ctx, idle/2, idle, func(evicted, remaining int) {
		if evicted > 0 {
			logger.Debug("evicted idle carts", zap.Int("evicted", evicted), zap.Int("remaining", remaining))
		}
	})

	handler := carthttp.NewHandler(registry, service, catalogClient,
		carthttp.WithLogger(logger),
		carthttp.WithSecureCookies(cfg.Server.SecureCookies),
	)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      carthttp.NewRouter(handler),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("storefront listening", zap.String("addr", cfg.Server.Addr), zap.String("storage", cfg.Storage.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown error", zap.Error(err))
	}

	return nil
}
