package amqp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/jsonpattern/internal/logging"
	"github.com/aretw0/jsonpattern/pkg/domain"
	"github.com/aretw0/jsonpattern/pkg/ports"
	amqp "github.com/rabbitmq/amqp091-go"
)

// SchemaHeader names the delivery header carrying the schema name.
const SchemaHeader = "x-schema"

// Channel is the part of *amqp.Channel used by the consumer.
type Channel interface {
	Qos(prefetchCount, prefetchSize int, global bool) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Outcome is what the consumer did with a delivery.
type Outcome string

const (
	OutcomeAccepted   Outcome = "accepted"
	OutcomeRejected   Outcome = "rejected"
	OutcomeDeadLetter Outcome = "dead_letter"
	OutcomeRequeued   Outcome = "requeued"
)

// Consumer validates deliveries from a queue.
type Consumer struct {
	ch            Channel
	validator     ports.Validator
	topology      Topology
	defaultSchema string
	prefetchCount int
	consumerTag   string
	timeout       time.Duration
	logger        *slog.Logger
}

// ConsumerOption configures the consumer.
type ConsumerOption func(*Consumer)

// WithDefaultSchema sets the schema used when a delivery has no x-schema header.
func WithDefaultSchema(name string) ConsumerOption {
	return func(c *Consumer) {
		c.defaultSchema = name
	}
}

// WithPrefetchCount sets the prefetch count.
func WithPrefetchCount(count int) ConsumerOption {
	return func(c *Consumer) {
		c.prefetchCount = count
	}
}

// WithConsumerTag sets the consumer tag.
func WithConsumerTag(tag string) ConsumerOption {
	return func(c *Consumer) {
		c.consumerTag = tag
	}
}

// WithTimeout bounds the handling of one delivery. Non-positive values keep the default.
func WithTimeout(d time.Duration) ConsumerOption {
	return func(c *Consumer) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ConsumerOption {
	return func(c *Consumer) {
		c.logger = logger
	}
}

// NewConsumer creates a consumer reading t.Queue and publishing reports to
// t.Exchange with t.RejectKey.
func NewConsumer(ch Channel, v ports.Validator, t Topology, options ...ConsumerOption) *Consumer {
	c := &Consumer{
		ch:            ch,
		validator:     v,
		topology:      t,
		prefetchCount: 10,
		timeout:       30 * time.Second,
		logger:        logging.NewNop(),
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Run consumes until ctx is done or the delivery channel closes.
func (c *Consumer) Run(ctx context.Context) error {
	if err := c.ch.Qos(c.prefetchCount, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	deliveries, err := c.ch.Consume(c.topology.Queue, c.consumerTag, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	c.logger.Info("subscribed to queue", "queue", c.topology.Queue, "prefetchCount", c.prefetchCount)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				c.logger.Warn("delivery channel closed", "queue", c.topology.Queue)
				return nil
			}
			c.Handle(ctx, d)
		}
	}
}

// Handle validates one delivery and settles it.
func (c *Consumer) Handle(ctx context.Context, d amqp.Delivery) Outcome {
	msgCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	name := c.schemaFor(d)
	log := c.logger.With("messageId", d.MessageId, "schema", name)

	if name == "" {
		log.Warn("delivery has no schema")
		return c.deadLetter(d, log)
	}

	report, err := c.validator.Validate(msgCtx, name, json.RawMessage(d.Body))
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return c.requeue(d, log, err)
		}
		log.Warn("delivery cannot be validated", "err", err)
		return c.deadLetter(d, log)
	}

	if !report.OK {
		if err := c.publishReport(msgCtx, d, report); err != nil {
			return c.requeue(d, log, err)
		}
		log.Info("document rejected", "reportId", report.ID, "violations", len(report.Violations))
		c.ack(d, log)
		return OutcomeRejected
	}

	log.Debug("document accepted", "reportId", report.ID)
	c.ack(d, log)
	return OutcomeAccepted
}

func (c *Consumer) schemaFor(d amqp.Delivery) string {
	if name, ok := d.Headers[SchemaHeader].(string); ok && name != "" {
		return name
	}
	return c.defaultSchema
}

func (c *Consumer) publishReport(ctx context.Context, d amqp.Delivery, report *domain.Report) error {
	body, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	return c.ch.PublishWithContext(ctx, c.topology.Exchange, c.topology.RejectKey, false, false, amqp.Publishing{
		ContentType:   "application/json",
		DeliveryMode:  amqp.Persistent,
		MessageId:     report.ID,
		CorrelationId: d.MessageId,
		Timestamp:     time.Now(),
		Headers:       amqp.Table{SchemaHeader: report.Schema},
		Body:          body,
	})
}

func (c *Consumer) ack(d amqp.Delivery, log *slog.Logger) {
	if err := d.Ack(false); err != nil {
		log.Error("failed to ack message", "err", err)
	}
}

func (c *Consumer) deadLetter(d amqp.Delivery, log *slog.Logger) Outcome {
	if err := d.Nack(false, false); err != nil {
		log.Error("failed to nack message", "err", err)
	}
	return OutcomeDeadLetter
}

func (c *Consumer) requeue(d amqp.Delivery, log *slog.Logger, cause error) Outcome {
	log.Error("message requeued", "err", cause)
	if err := d.Nack(false, true); err != nil {
		log.Error("failed to nack message", "err", err, "originalError", cause)
	}
	return OutcomeRequeued
}
