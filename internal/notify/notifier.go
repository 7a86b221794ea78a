// Package notify turns cart events into short user notifications and drops the ones
// that arrive too close to the previous notification for the same cart.
package notify

import (
	"context"
	"github.com/nikolayk812/storefront-cart/internal/domain"
	"github.com/nikolayk812/storefront-cart/internal/port"
	"go.uber.org/zap"
	"sync"
	"time"
)

const DefaultWindow = time.Second

// Sink delivers a notification to the shopper.
type Sink interface {
	Notify(ctx context.Context, cartKey, message string)
}

type Notifier struct {
	sink   Sink
	window time.Duration
	now    func() time.Time

	mu   sync.Mutex
	last map[string]time.Time
}

type Option func(*Notifier)

func WithWindow(window time.Duration) Option {
	return func(n *Notifier) {
		n.window = window
	}
}

func WithClock(now func() time.Time) Option {
	return func(n *Notifier) {
		n.now = now
	}
}

func New(sink Sink, opts ...Option) *Notifier {
	n := &Notifier{
		sink:   sink,
		window: DefaultWindow,
		now:    time.Now,
		last:   make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

var (
	_ port.EventPublisher = (*Notifier)(nil)
	_ port.Forgetter      = (*Notifier)(nil)
)

func (n *Notifier) Publish(ctx context.Context, event domain.CartEvent) {
	message := Message(event.Kind)
	if message == "" {
		return
	}

	if !n.allow(event.CartKey) {
		return
	}

	n.sink.Notify(ctx, event.CartKey, message)
}

func (n *Notifier) allow(cartKey string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	now := n.now()
	if last, ok := n.last[cartKey]; ok && now.Sub(last) <= n.window {
		return false
	}

	n.last[cartKey] = now
	return true
}

// Forget drops the debounce state of a cart, e.g. when its session ends.
func (n *Notifier) Forget(cartKey string) {
	n.mu.Lock()
	delete(n.last, cartKey)
	n.mu.Unlock()
}

func Message(kind domain.EventKind) string {
	switch kind {
	case domain.EventItemAdded:
		return "Item added to cart"
	case domain.EventItemMerged, domain.EventQuantityUpdated:
		return "Cart updated"
	case domain.EventItemRemoved:
		return "Item removed from cart"
	case domain.EventCartCleared:
		return "Cart cleared"
	default:
		return ""
	}
}

type ZapSink struct {
	logger *zap.Logger
}

func NewZapSink(logger *zap.Logger) ZapSink {
	return ZapSink{logger: logger}
}

func (s ZapSink) Notify(_ context.Context, cartKey, message string) {
	s.logger.Info("cart notification", zap.String("cart_key", cartKey), zap.String("message", message))
}
