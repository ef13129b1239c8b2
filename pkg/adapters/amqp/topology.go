package amqp

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Declarer is the part of *amqp.Channel used to declare topology.
type Declarer interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
}

// Topology names the broker objects used by the consumer.
type Topology struct {
	Queue          string
	Exchange       string // Receives reports of invalid documents
	RejectKey      string
	DeadLetterName string // Exchange and queue receiving undeliverable messages; optional
}

// Declare creates the exchanges and queues of t. It is idempotent.
func Declare(ch Declarer, t Topology) error {
	var args amqp.Table
	if t.DeadLetterName != "" {
		if err := ch.ExchangeDeclare(t.DeadLetterName, amqp.ExchangeFanout, true, false, false, false, nil); err != nil {
			return fmt.Errorf("failed to declare dead letter exchange: %w", err)
		}
		if _, err := ch.QueueDeclare(t.DeadLetterName, true, false, false, false, nil); err != nil {
			return fmt.Errorf("failed to declare dead letter queue: %w", err)
		}
		if err := ch.QueueBind(t.DeadLetterName, "", t.DeadLetterName, false, nil); err != nil {
			return fmt.Errorf("failed to bind dead letter queue: %w", err)
		}
		args = amqp.Table{"x-dead-letter-exchange": t.DeadLetterName}
	}

	if _, err := ch.QueueDeclare(t.Queue, true, false, false, false, args); err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", t.Queue, err)
	}

	if t.Exchange != "" {
		if err := ch.ExchangeDeclare(t.Exchange, amqp.ExchangeDirect, true, false, false, false, nil); err != nil {
			return fmt.Errorf("failed to declare exchange %s: %w", t.Exchange, err)
		}
		rejects := t.Queue + "." + t.RejectKey
		if _, err := ch.QueueDeclare(rejects, true, false, false, false, nil); err != nil {
			return fmt.Errorf("failed to declare queue %s: %w", rejects, err)
		}
		if err := ch.QueueBind(rejects, t.RejectKey, t.Exchange, false, nil); err != nil {
			return fmt.Errorf("failed to bind queue %s: %w", rejects, err)
		}
	}
	return nil
}
