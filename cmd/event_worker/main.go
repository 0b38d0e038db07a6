package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-job-catalog/config"
	"github.com/oksasatya/go-job-catalog/internal/application"
	"github.com/oksasatya/go-job-catalog/internal/catalog"
	"github.com/oksasatya/go-job-catalog/internal/domain/entity"
	"github.com/oksasatya/go-job-catalog/pkg/helpers"
)

const runTimeout = 60 * time.Second

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	if cfg.RabbitMQURL == "" || cfg.RabbitMQEventQueue == "" {
		log.Fatal("RabbitMQ not configured")
	}
	logger := helpers.NewLogger(cfg.AppName+"-event-worker", cfg.Env, cfg.Verbose)

	client, _, err := catalog.Bootstrap(cfg, logger)
	if err != nil {
		log.Fatalf("failed to build job catalog: %v", err)
	}

	conn, ch, err := helpers.DialQueue(cfg.RabbitMQURL, cfg.RabbitMQEventQueue)
	if err != nil {
		log.Fatalf("amqp: %v", err)
	}
	defer func() { _ = conn.Close() }()
	defer func() { _ = ch.Close() }()

	// Prefetch for fair dispatch
	if err := ch.Qos(16, 0, false); err != nil {
		log.Fatalf("qos: %v", err)
	}

	msgs, err := ch.Consume(cfg.RabbitMQEventQueue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for msg := range msgs {
			handle(ctx, client, logger, msg)
		}
	}()

	logger.WithField("queue", cfg.RabbitMQEventQueue).Info("event worker started")
	select {
	case <-stop:
		logger.Info("event worker stopping")
		cancel()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
		}
	case <-done:
		logger.Warn("delivery channel closed")
	}
}

// handle dispatches one delivery. Malformed messages and failed runs are
// dropped without requeue; redelivery policy belongs to the broker.
func handle(ctx context.Context, client *application.Client, logger *logrus.Logger, msg amqp.Delivery) {
	var evt entity.Event
	if err := json.Unmarshal(msg.Body, &evt); err != nil || evt.Name == "" {
		helpers.LogError(logger, "bad event message", err, logrus.Fields{"message_id": msg.MessageId})
		_ = msg.Nack(false, false)
		return
	}
	entry := logger.WithFields(logrus.Fields{"event": evt.Name, "event_id": evt.ID})

	c, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()
	runs, err := client.Emit(c, evt)
	if err != nil {
		entry.WithError(err).WithField("runs", len(runs)).Warn("event runs failed")
		_ = msg.Nack(false, false)
		return
	}
	entry.WithField("runs", len(runs)).Info("event processed")
	_ = msg.Ack(false)
}
