package port

import (
	"context"
	"errors"
	"github.com/nikolayk812/storefront-cart/internal/domain"
)

var ErrCartNotFound = errors.New("cart not found")

// CartStorage persists the serialized line list of a cart under a storage key.
type CartStorage interface {
	Load(ctx context.Context, key string) ([]domain.CartLine, error)
	Save(ctx context.Context, key string, lines []domain.CartLine) error
	Delete(ctx context.Context, key string) (bool, error)
}
