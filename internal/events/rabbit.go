package events

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/nikolayk812/storefront-cart/internal/domain"
	"github.com/nikolayk812/storefront-cart/internal/port"
	amqp "github.com/rabbitmq/amqp091-go"
	"sync"
)

const (
	EventsExchange              = "storefront.events"
	CheckoutHandedOffRoutingKey = "checkout.handedoff.v1"
)

// amqpChannel is the subset of *amqp.Channel the publisher needs.
type amqpChannel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type RabbitPublisher struct {
	mu sync.Mutex
	ch amqpChannel
}

func Dial(url string) (*amqp.Connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp.Dial: %w", err)
	}
	return conn, nil
}

func NewRabbitPublisher(conn *amqp.Connection) (*RabbitPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("conn.Channel: %w", err)
	}

	p, err := newRabbitPublisher(ch)
	if err != nil {
		_ = ch.Close()
		return nil, err
	}
	return p, nil
}

func newRabbitPublisher(ch amqpChannel) (*RabbitPublisher, error) {
	if err := ch.ExchangeDeclare(EventsExchange, "topic", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("ch.ExchangeDeclare: %w", err)
	}
	return &RabbitPublisher{ch: ch}, nil
}

var _ port.HandoffPublisher = (*RabbitPublisher)(nil)

func (p *RabbitPublisher) PublishHandoff(ctx context.Context, h domain.CheckoutHandoff) error {
	envelope := BuildCheckoutHandedOffEvent(h, EnvelopeOptions{})

	body, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.ch.PublishWithContext(ctx, EventsExchange, CheckoutHandedOffRoutingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    envelope.EventID,
		Timestamp:    envelope.OccurredAt,
		Type:         envelope.EventName,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("ch.PublishWithContext: %w", err)
	}

	return nil
}

func (p *RabbitPublisher) Close() error {
	return p.ch.Close()
}

// NopPublisher drops hand-offs; used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishHandoff(context.Context, domain.CheckoutHandoff) error {
	return nil
}
