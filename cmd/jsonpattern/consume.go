package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/jsonpattern/internal/cli"
	amqpAdapter "github.com/aretw0/jsonpattern/pkg/adapters/amqp"
	"github.com/aretw0/jsonpattern/pkg/domain"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/spf13/cobra"
)

var consumeCmd = &cobra.Command{
	Use:   "consume",
	Short: "Validate messages from a RabbitMQ queue",
	Long: `Consumes amqp.queue and validates each message against the schema named by its
x-schema header (or amqp.default_schema). Reports of invalid messages are published to
amqp.exchange with amqp.reject_key; undecodable messages are dead-lettered.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("queue") {
			cfg.AMQP.Queue, _ = cmd.Flags().GetString("queue")
		}
		if cmd.Flags().Changed("schema") {
			cfg.AMQP.DefaultSchema, _ = cmd.Flags().GetString("schema")
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		c, closer, err := cli.BuildCatalog(ctx, cfg, logger, domain.EvaluationHooks{})
		if err != nil {
			return err
		}
		defer closer.Close()

		conn, err := amqp.Dial(cfg.AMQP.URL)
		if err != nil {
			return fmt.Errorf("failed to connect to broker: %w", err)
		}
		defer conn.Close()

		ch, err := conn.Channel()
		if err != nil {
			return fmt.Errorf("failed to open channel: %w", err)
		}
		defer ch.Close()

		topology := amqpAdapter.Topology{
			Queue:          cfg.AMQP.Queue,
			Exchange:       cfg.AMQP.Exchange,
			RejectKey:      cfg.AMQP.RejectKey,
			DeadLetterName: cfg.AMQP.DeadLetter,
		}
		if err := amqpAdapter.Declare(ch, topology); err != nil {
			return err
		}

		consumer := amqpAdapter.NewConsumer(ch, c, topology,
			amqpAdapter.WithDefaultSchema(cfg.AMQP.DefaultSchema),
			amqpAdapter.WithPrefetchCount(cfg.AMQP.Prefetch),
			amqpAdapter.WithTimeout(cfg.AMQP.Timeout),
			amqpAdapter.WithConsumerTag("jsonpattern"),
			amqpAdapter.WithLogger(logger),
		)

		if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		logger.Info("consumer stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(consumeCmd)
	consumeCmd.Flags().String("queue", "", "Queue to consume (overrides amqp.queue)")
	consumeCmd.Flags().String("schema", "", "Schema for messages without an x-schema header")
}
