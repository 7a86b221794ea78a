package checkout

import (
	"context"
	"errors"
	"fmt"
	"github.com/nikolayk812/storefront-cart/internal/cartstore"
	"github.com/nikolayk812/storefront-cart/internal/domain"
	"github.com/nikolayk812/storefront-cart/internal/port"
	"go.uber.org/zap"
	"time"
)

// ErrEmptyCart is returned when checkout is attempted without lines; callers send the
// shopper back to the cart view.
var ErrEmptyCart = errors.New("cart is empty")

type Service struct {
	builder   *Builder
	publisher port.HandoffPublisher
	logger    *zap.Logger
	now       func() time.Time
}

func NewService(builder *Builder, publisher port.HandoffPublisher, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		builder:   builder,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Checkout hands the cart off: it takes the lines out of the store in one step, renders
// the link from them and announces the hand-off. An incomplete contact or a failed
// storage delete leaves the cart as it was.
func (s *Service) Checkout(ctx context.Context, store *cartstore.Store, contact domain.Contact) (string, error) {
	if len(store.Lines()) == 0 {
		return "", ErrEmptyCart
	}
	if err := contact.Validate(); err != nil {
		return "", err
	}

	cart, err := store.TakeAll(ctx)
	if err != nil {
		return "", fmt.Errorf("store.TakeAll: %w", err)
	}
	if cart.IsEmpty() {
		return "", ErrEmptyCart
	}

	link := s.builder.CreateCheckoutLink(cart.Lines, contact)

	handoff := domain.CheckoutHandoff{
		CartKey:    cart.Key,
		Lines:      cart.Lines,
		Total:      cart.Total(),
		Contact:    contact,
		Link:       link,
		OccurredAt: s.now().UTC(),
	}
	if err := s.publisher.PublishHandoff(ctx, handoff); err != nil {
		s.logger.Warn("failed to publish checkout handoff", zap.String("cart_key", cart.Key), zap.Error(err))
	}

	s.logger.Info("checkout handed off",
		zap.String("cart_key", cart.Key),
		zap.Int("lines", cart.Len()),
		zap.String("total", handoff.Total.Amount.String()))

	return link, nil
}

// BuyNow renders a link for a single product without touching the shopper's cart.
func (s *Service) BuyNow(product domain.Product, quantity int, variants domain.Variants, contact domain.Contact) string {
	line := domain.CartLine{
		Product:          product,
		Quantity:         domain.NormalizeQuantity(quantity),
		SelectedVariants: variants.Clone(),
	}

	return s.builder.CreateCheckoutLink([]domain.CartLine{line}, contact)
}

func (s *Service) Builder() *Builder {
	return s.builder
}
