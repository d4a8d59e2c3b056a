package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/flightcatalog/config"
	"github.com/Domenick1991/flightcatalog/internal/kafka"
	kafkaGo "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// The worker tails the flight events topic and logs every delivery. It is a
// debug tap for verifying what downstream consumers receive.
func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.FlightsTopic)
	defer consumer.Close()

	logger.Info("worker listening", zap.String("topic", cfg.Kafka.FlightsTopic))

	err = consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
		var envelope struct {
			EventType     string          `json:"event_type"`
			SchemaVersion string          `json:"schema_version"`
			Payload       json.RawMessage `json:"payload"`
		}
		if err := json.Unmarshal(msg.Value, &envelope); err != nil {
			logger.Warn("skipping malformed event", zap.ByteString("value", msg.Value), zap.Error(err))
			return nil
		}

		logger.Info("flight event received",
			zap.String("event_type", envelope.EventType),
			zap.String("key", string(msg.Key)),
			zap.ByteString("payload", envelope.Payload))
		return nil
	})
	if err != nil && ctx.Err() == nil {
		logger.Fatal("consumer error", zap.Error(err))
	}
}
