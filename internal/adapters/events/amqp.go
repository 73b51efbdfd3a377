// Package events publishes domain events to RabbitMQ.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/bizos_backend/internal/core/domain"
	"github.com/SscSPs/bizos_backend/internal/core/ports"
	"github.com/rabbitmq/amqp091-go"
)

// RoutingKeyTransactionChanged is the routing key of TransactionChangedEvent.
const RoutingKeyTransactionChanged = "finance.transaction.changed"

const publishTimeout = 5 * time.Second

// channel is the subset of *amqp091.Channel the publisher uses.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// AMQPPublisher publishes JSON events to a durable topic exchange.
type AMQPPublisher struct {
	conn     *amqp091.Connection
	mu       sync.Mutex // amqp channels are not safe for concurrent publishes
	ch       channel
	exchange string
	logger   *slog.Logger
}

// NewAMQPPublisher dials url and declares exchange.
func NewAMQPPublisher(url, exchange string, logger *slog.Logger) (*AMQPPublisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	err = ch.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &AMQPPublisher{conn: conn, ch: ch, exchange: exchange, logger: logger}, nil
}

// newPublisherWithChannel is used by tests to publish into a fake channel.
func newPublisherWithChannel(ch channel, exchange string, logger *slog.Logger) *AMQPPublisher {
	return &AMQPPublisher{ch: ch, exchange: exchange, logger: logger}
}

var _ ports.EventPublisher = (*AMQPPublisher)(nil)

func (p *AMQPPublisher) PublishTransactionChanged(ctx context.Context, event domain.TransactionChangedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	p.mu.Lock()
	err = p.ch.PublishWithContext(
		ctx,
		p.exchange,
		RoutingKeyTransactionChanged,
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    event.OccurredAt,
			Type:         RoutingKeyTransactionChanged,
			Body:         body,
		},
	)
	p.mu.Unlock()
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	p.logger.DebugContext(ctx, "Published transaction change",
		slog.String("transaction_id", event.TransactionID),
		slog.String("op", string(event.Op)),
		slog.String("exchange", p.exchange))
	return nil
}

func (p *AMQPPublisher) Close() error {
	if p.ch != nil {
		p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// NoopPublisher drops every event. It is used when no broker is configured.
type NoopPublisher struct{}

var _ ports.EventPublisher = NoopPublisher{}

func (NoopPublisher) PublishTransactionChanged(context.Context, domain.TransactionChangedEvent) error {
	return nil
}
