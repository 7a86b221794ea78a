package main

import (
	"bytes"
	"github.com/alicebob/miniredis/v2"
	"github.com/nikolayk812/storefront-cart/internal/config"
	"github.com/nikolayk812/storefront-cart/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"path/filepath"
	"testing"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		verbose bool
		want    zapcore.Level
		wantErr bool
	}{
		{name: "new logger: info", level: "info", want: zapcore.InfoLevel},
		{name: "new logger: verbose overrides", level: "warn", verbose: true, want: zapcore.DebugLevel},
		{name: "new logger: bad level", level: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := newLogger(tt.level, tt.verbose)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			assert.True(t, l.Core().Enabled(tt.want))
			assert.False(t, l.Core().Enabled(tt.want-1))
		})
	}
}

func TestOpenStorage_Memory(t *testing.T) {
	storage, closeFn, err := openStorage(t.Context(), config.StorageConfig{Driver: config.StorageMemory})
	require.NoError(t, err)
	defer closeFn()

	require.NoError(t, storage.Save(t.Context(), "k", nil))
	lines, err := storage.Load(t.Context(), "k")
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestOpenStorage_Redis(t *testing.T) {
	mr := miniredis.RunT(t)

	storage, closeFn, err := openStorage(t.Context(), config.StorageConfig{
		Driver:    config.StorageRedis,
		RedisAddr: mr.Addr(),
	})
	require.NoError(t, err)
	defer closeFn()

	line := domain.CartLine{
		Product:  domain.Product{ID: "p1", Name: "Kaos Polos", Slug: "kaos-polos", Price: decimal.NewFromInt(50000)},
		Quantity: 2,
	}
	require.NoError(t, storage.Save(t.Context(), "drt-store-cart:a", []domain.CartLine{line}))

	lines, err := storage.Load(t.Context(), "drt-store-cart:a")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestOpenStorage_Unsupported(t *testing.T) {
	_, _, err := openStorage(t.Context(), config.StorageConfig{Driver: "sqlite"})
	require.Error(t, err)
}

func TestInitConfigCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storefront.yaml")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"init-config", "--config", path})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), path)

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), loaded)
}

func TestLinkCommand_EmptyCart(t *testing.T) {
	rootCmd.SetArgs([]string{"link", "--config", filepath.Join(t.TempDir(), "missing.yaml"), "--cart-key", "drt-store-cart:x"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cart is empty")
}
