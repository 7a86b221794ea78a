package repository_test

import (
	"context"
	"fmt"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/nikolayk812/storefront-cart/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"testing"
)

func startPostgres(ctx context.Context) (*postgres.PostgresContainer, string, error) {
	postgresContainer, err := postgres.Run(ctx, "postgres:17.6-alpine3.22",
		postgres.BasicWaitStrategies(),
		postgres.WithInitScripts(
			"../migrations/01_cart_snapshots.up.sql"),
	)
	if err != nil {
		return nil, "", fmt.Errorf("postgres.Run: %w", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", fmt.Errorf("pc.ConnectionString: %w", err)
	}

	return postgresContainer, connStr, nil
}

func randomLines(n int) []domain.CartLine {
	lines := make([]domain.CartLine, 0, n)
	for range n {
		lines = append(lines, randomLine())
	}
	return lines
}

func randomLine() domain.CartLine {
	line := domain.CartLine{
		Product: domain.Product{
			ID:       gofakeit.UUID(),
			Name:     gofakeit.ProductName(),
			Slug:     gofakeit.Word() + "-" + gofakeit.Word(),
			Price:    decimal.NewFromFloat(gofakeit.Price(1000, 900000)).Round(0),
			ImageURL: gofakeit.URL(),
		},
		Quantity: gofakeit.IntRange(1, 10),
	}

	if gofakeit.Bool() {
		line.SelectedVariants = domain.Variants{
			"size":  gofakeit.RandomString([]string{"S", "M", "L", "XL"}),
			"color": gofakeit.Color(),
		}
	}

	return line
}

func assertLines(t *testing.T, expected, actual []domain.CartLine) {
	t.Helper()

	decimalComparer := cmp.Comparer(func(x, y decimal.Decimal) bool {
		return x.Equal(y)
	})

	diff := cmp.Diff(expected, actual, decimalComparer)
	assert.Empty(t, diff)
}
