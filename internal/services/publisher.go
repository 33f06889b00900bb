package services

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/streadway/amqp"
)

// EventPublisher announces interview session milestones to other services.
type EventPublisher interface {
	PublishSessionUpdate(sessionID string, update map[string]any) error
	Close() error
}

type amqpPublisher struct {
	conn     *amqp.Connection
	exchange string
}

// NewAMQPPublisher dials the broker and declares a durable topic exchange.
// Updates are routed as "session.<id>".
func NewAMQPPublisher(url, exchange string) (EventPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("error connecting to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	return &amqpPublisher{conn: conn, exchange: exchange}, nil
}

func (p *amqpPublisher) PublishSessionUpdate(sessionID string, update map[string]any) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	body, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("failed to encode session update: %w", err)
	}

	return ch.Publish(
		p.exchange,
		fmt.Sprintf("session.%s", sessionID),
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

func (p *amqpPublisher) Close() error {
	return p.conn.Close()
}

type logPublisher struct{}

// NewLogPublisher is used when no broker is configured.
func NewLogPublisher() EventPublisher {
	return logPublisher{}
}

func (logPublisher) PublishSessionUpdate(sessionID string, update map[string]any) error {
	log.Printf("📣 Session %s update: %v", sessionID, update["type"])
	return nil
}

func (logPublisher) Close() error { return nil }
