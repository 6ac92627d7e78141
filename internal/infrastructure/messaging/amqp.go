package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/AtRiskMedia/tractstack-featured/internal/infrastructure/observability/logging"
)

// AMQPPublisher publishes settings events to a fanout exchange
type AMQPPublisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	logger   *logging.ChanneledLogger
}

// NewAMQPPublisher dials the broker and declares the exchange
func NewAMQPPublisher(url, exchange string, logger *logging.ChanneledLogger) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to AMQP broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open AMQP channel: %w", err)
	}

	if err := declareExchange(ch, exchange); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	logger.Messaging().Info("AMQP publisher ready", "exchange", exchange)
	return &AMQPPublisher{conn: conn, ch: ch, exchange: exchange, logger: logger}, nil
}

func declareExchange(ch *amqp.Channel, exchange string) error {
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeFanout, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}
	return nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, event SettingsEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode settings event: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID,
		Type:         event.Type,
		Timestamp:    event.OccurredAt,
		Body:         body,
	}
	if err := p.ch.PublishWithContext(ctx, p.exchange, "", false, false, msg); err != nil {
		return fmt.Errorf("failed to publish settings event: %w", err)
	}

	p.logger.Messaging().Debug("Settings event published", "eventId", event.ID, "options", event.Options)
	return nil
}

func (p *AMQPPublisher) Close() error {
	if err := p.ch.Close(); err != nil {
		p.conn.Close()
		return err
	}
	return p.conn.Close()
}

// AMQPSubscriber consumes settings events from an exclusive queue bound to
// the exchange and hands them to a Handler.
type AMQPSubscriber struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	queue    string
	exchange string
	logger   *logging.ChanneledLogger
}

func NewAMQPSubscriber(url, exchange string, logger *logging.ChanneledLogger) (*AMQPSubscriber, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to AMQP broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open AMQP channel: %w", err)
	}

	if err := declareExchange(ch, exchange); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	if err := ch.QueueBind(q.Name, "", exchange, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to bind queue %s: %w", q.Name, err)
	}

	return &AMQPSubscriber{conn: conn, ch: ch, queue: q.Name, exchange: exchange, logger: logger}, nil
}

// Run consumes until ctx is cancelled or the delivery channel closes
func (s *AMQPSubscriber) Run(ctx context.Context, handler Handler) error {
	deliveries, err := s.ch.ConsumeWithContext(ctx, s.queue, "", false, true, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	s.logger.Messaging().Info("Listening for settings events", "exchange", s.exchange, "queue", s.queue)
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}
			s.handle(ctx, d, handler)
		}
	}
}

func (s *AMQPSubscriber) handle(ctx context.Context, d amqp.Delivery, handler Handler) {
	var event SettingsEvent
	if err := json.Unmarshal(d.Body, &event); err != nil {
		s.logger.Messaging().Warn("Discarding malformed settings event", "messageId", d.MessageId, "error", err)
		d.Nack(false, false)
		return
	}

	if err := handler(ctx, event); err != nil {
		s.logger.Messaging().Error("Settings event handler failed", "eventId", event.ID, "error", err)
		d.Nack(false, false)
		return
	}
	d.Ack(false)
}

func (s *AMQPSubscriber) Close() error {
	if err := s.ch.Close(); err != nil {
		s.conn.Close()
		return err
	}
	return s.conn.Close()
}

// NewSettingsEvent stamps a settings.updated event for the given options
func NewSettingsEvent(source string, options ...string) SettingsEvent {
	return SettingsEvent{
		ID:         uuid.NewString(),
		Type:       EventSettingsUpdated,
		Options:    options,
		Source:     source,
		OccurredAt: time.Now().UTC(),
	}
}
