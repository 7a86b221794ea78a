package cartstore

import (
	"context"
	"errors"
	"fmt"
	"github.com/nikolayk812/storefront-cart/internal/domain"
	"github.com/nikolayk812/storefront-cart/internal/port"
	"go.uber.org/zap"
	"golang.org/x/text/currency"
	"sync"
	"time"
)

// Store is the authoritative cart of one shopper. Every effective mutation is written
// back to storage and announced to the event publisher.
type Store struct {
	mu   sync.Mutex
	cart domain.Cart

	storage   port.CartStorage
	publisher port.EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

type Option func(*Store)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

func WithCurrency(cur currency.Unit) Option {
	return func(s *Store) {
		s.cart.Currency = cur
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// Open restores the cart stored under key. A missing or unreadable value yields an
// empty cart.
func Open(ctx context.Context, key string, storage port.CartStorage, publisher port.EventPublisher, opts ...Option) *Store {
	s := &Store{
		cart:      domain.NewCart(key, currency.IDR),
		storage:   storage,
		publisher: publisher,
		logger:    zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	lines, err := storage.Load(ctx, key)
	switch {
	case errors.Is(err, port.ErrCartNotFound):
		s.logger.Debug("no stored cart, starting empty", zap.String("cart_key", key))
	case err != nil:
		s.logger.Warn("failed to load stored cart, starting empty", zap.String("cart_key", key), zap.Error(err))
	default:
		s.cart.Lines = sanitize(lines)
	}

	return s
}

func (s *Store) Key() string {
	return s.cart.Key
}

// AddItem merges quantity into the line with the same product and variants or appends
// a new line. A zero quantity means "not given" and counts as one.
func (s *Store) AddItem(ctx context.Context, product domain.Product, quantity int, variants domain.Variants) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kind := domain.EventItemAdded
	if s.cart.Add(product, domain.NormalizeQuantity(quantity), variants) {
		kind = domain.EventItemMerged
	}

	return s.commit(ctx, kind, product.ID)
}

// UpdateQuantity overwrites the quantity of an existing line, never below one.
// It is a no-op when the line is not in the cart.
func (s *Store) UpdateQuantity(ctx context.Context, productID string, variants domain.Variants, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.cart.UpdateQuantity(productID, variants, domain.NormalizeQuantity(quantity)) {
		return nil
	}

	return s.commit(ctx, domain.EventQuantityUpdated, productID)
}

func (s *Store) RemoveItem(ctx context.Context, productID string, variants domain.Variants) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.cart.Remove(productID, variants) {
		return nil
	}

	return s.commit(ctx, domain.EventItemRemoved, productID)
}

func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart.Clear()

	return s.commit(ctx, domain.EventCartCleared, "")
}

// TakeAll empties the cart for checkout and returns the lines it held, under one lock
// so no concurrent mutation lands between reading and clearing. The stored cart is
// deleted first: when that fails the cart is left untouched and the error returned.
func (s *Store) TakeAll(ctx context.Context) (domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	taken := s.cart.Clone()
	if taken.IsEmpty() {
		return taken, nil
	}

	if _, err := s.storage.Delete(ctx, s.cart.Key); err != nil {
		return domain.Cart{}, fmt.Errorf("storage.Delete: %w", err)
	}

	s.cart.Clear()
	s.publish(ctx, domain.EventCartCleared, "")

	return taken, nil
}

func (s *Store) IsInCart(productID string, variants domain.Variants) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cart.Contains(productID, variants)
}

func (s *Store) Lines() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	return domain.CloneLines(s.cart.Lines)
}

func (s *Store) Total() domain.Money {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cart.Total()
}

func (s *Store) Snapshot() domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cart.Clone()
}

// commit persists the current lines and publishes the event. The in-memory cart keeps
// the mutation even when the write fails; the next successful write catches up.
func (s *Store) commit(ctx context.Context, kind domain.EventKind, productID string) error {
	if err := s.storage.Save(ctx, s.cart.Key, s.cart.Lines); err != nil {
		return fmt.Errorf("storage.Save: %w", err)
	}

	s.publish(ctx, kind, productID)

	return nil
}

func (s *Store) publish(ctx context.Context, kind domain.EventKind, productID string) {
	s.publisher.Publish(ctx, domain.CartEvent{
		Kind:       kind,
		CartKey:    s.cart.Key,
		ProductID:  productID,
		OccurredAt: s.now(),
	})
}

// sanitize drops stored lines that cannot be part of a valid cart and merges
// duplicates that older writers may have produced under a different variant key order.
func sanitize(lines []domain.CartLine) []domain.CartLine {
	var cart domain.Cart
	for _, l := range lines {
		if l.Product.ID == "" {
			continue
		}
		cart.Add(l.Product, domain.NormalizeQuantity(l.Quantity), l.SelectedVariants)
	}
	return cart.Lines
}
