package events

import (
	"github.com/google/uuid"
	"github.com/nikolayk812/storefront-cart/internal/domain"
	"time"
)

const (
	CheckoutHandedOffEventName    = "CheckoutHandedOff"
	CheckoutHandedOffEventVersion = 1
	StorefrontProducer            = "storefront-cart"
)

type Envelope struct {
	EventName    string                   `json:"eventName"`
	EventVersion int                      `json:"eventVersion"`
	EventID      string                   `json:"eventId"`
	Producer     string                   `json:"producer"`
	PartitionKey string                   `json:"partitionKey"`
	OccurredAt   time.Time                `json:"occurredAt"`
	Payload      CheckoutHandedOffPayload `json:"payload"`
}

type CheckoutHandedOffPayload struct {
	CartKey  string                  `json:"cartKey"`
	Items    []CheckoutHandedOffItem `json:"items"`
	Total    string                  `json:"total"`
	Currency string                  `json:"currency"`
	Customer Customer                `json:"customer"`
	Link     string                  `json:"link"`
}

type CheckoutHandedOffItem struct {
	ProductID string            `json:"productId"`
	Name      string            `json:"name"`
	Slug      string            `json:"slug"`
	Quantity  int               `json:"quantity"`
	Price     string            `json:"price"`
	Variants  map[string]string `json:"variants,omitempty"`
}

type Customer struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type EnvelopeOptions struct {
	EventID    string
	Producer   string
	OccurredAt time.Time
}

func BuildCheckoutHandedOffEvent(h domain.CheckoutHandoff, opts EnvelopeOptions) Envelope {
	eventID := opts.EventID
	if eventID == "" {
		eventID = uuid.NewString()
	}

	occurredAt := opts.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = h.OccurredAt
	}
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	producer := opts.Producer
	if producer == "" {
		producer = StorefrontProducer
	}

	payload := CheckoutHandedOffPayload{
		CartKey:  h.CartKey,
		Items:    make([]CheckoutHandedOffItem, 0, len(h.Lines)),
		Total:    h.Total.Amount.String(),
		Currency: h.Total.Currency.String(),
		Customer: Customer{
			Name:    h.Contact.Name,
			Phone:   h.Contact.Phone,
			Address: h.Contact.FullAddress(),
		},
		Link: h.Link,
	}

	for _, l := range h.Lines {
		payload.Items = append(payload.Items, CheckoutHandedOffItem{
			ProductID: l.Product.ID,
			Name:      l.Product.Name,
			Slug:      l.Product.Slug,
			Quantity:  l.Quantity,
			Price:     l.Product.Price.String(),
			Variants:  l.SelectedVariants.Clone(),
		})
	}

	return Envelope{
		EventName:    CheckoutHandedOffEventName,
		EventVersion: CheckoutHandedOffEventVersion,
		EventID:      eventID,
		Producer:     producer,
		PartitionKey: h.CartKey,
		OccurredAt:   occurredAt,
		Payload:      payload,
	}
}
