package port

import (
	"context"
	"errors"
	"github.com/nikolayk812/storefront-cart/internal/domain"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrOutOfStock      = errors.New("product is out of stock")
)

// ProductCatalog is the REST backend the storefront reads products and categories from.
type ProductCatalog interface {
	GetProduct(ctx context.Context, id string) (domain.CatalogProduct, error)
	GetProductBySlug(ctx context.Context, slug string) (domain.CatalogProduct, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
}
