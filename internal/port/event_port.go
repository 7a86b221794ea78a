package port

import (
	"context"
	"github.com/nikolayk812/storefront-cart/internal/domain"
)

type EventPublisher interface {
	Publish(ctx context.Context, event domain.CartEvent)
}

type HandoffPublisher interface {
	PublishHandoff(ctx context.Context, handoff domain.CheckoutHandoff) error
}

// Forgetter is implemented by event publishers that keep per-cart state.
type Forgetter interface {
	Forget(cartKey string)
}
