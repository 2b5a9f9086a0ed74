/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ivanjaven/extension/config"
	"github.com/ivanjaven/extension/internal/mq"
	"github.com/ivanjaven/extension/internal/services"
	"github.com/ivanjaven/extension/types"
	"github.com/spf13/cobra"
)

// workerCmd consumes document-request events for the print station. It blocks
// until the context is cancelled.
var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Consume document-request events",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()

		backend, err := newMQBackend(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		broker := mq.New(backend)
		defer broker.Close()

		return broker.Subscribe(cmd.Context(), services.DocumentRequestChannel, func(ctx context.Context, msg mq.Message) error {
			var event types.DocumentRequestEvent
			if err := json.Unmarshal(msg.Data, &event); err != nil {
				fmt.Fprintf(os.Stderr, "discarding malformed event %s: %v\n", msg.ID, err)
				return nil
			}
			fmt.Printf("print job: queue_id=%d resident_id=%d document=%q\n",
				event.QueueID, event.ResidentID, event.Document)
			return nil
		})
	},
}

func newMQBackend(ctx context.Context, cfg config.Config) (mq.Backend, error) {
	switch cfg.MQ.Backend {
	case "rabbitmq":
		return mq.NewRabbitMQClient(cfg.MQ.RabbitMQ)
	case "pubsub":
		return mq.NewPubSubClient(ctx, cfg.MQ.PubSub)
	default:
		return nil, fmt.Errorf("unsupported mq backend %q", cfg.MQ.Backend)
	}
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
