package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	mongoadapter "github.com/robertarktes/holidaze-gateway/internal/adapters/mongo"
	"github.com/robertarktes/holidaze-gateway/internal/adapters/rabbit"
	"github.com/robertarktes/holidaze-gateway/internal/config"
	"github.com/robertarktes/holidaze-gateway/internal/observability"
	"github.com/robertarktes/holidaze-gateway/internal/outbox"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const auditQueue = "booking.audit"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.RabbitURL == "" || cfg.MongoURI == "" {
		log.Fatal("RABBIT_URL and MONGO_URI are required")
	}

	shutdownOtel, err := observability.SetupOTel(context.Background(), cfg, "holidaze-booking-audit")
	if err != nil {
		log.Fatalf("failed to setup otel: %v", err)
	}
	defer shutdownOtel()

	logger := observability.NewLogger()

	mongoClient, err := mongo.Connect(context.Background(), options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("failed to connect to mongo: %v", err)
	}
	defer mongoClient.Disconnect(context.Background())
	audit := mongoadapter.NewAuditLogger(mongoClient.Database(cfg.MongoDB), logger)
	if err := audit.EnsureIndexes(context.Background()); err != nil {
		log.Fatalf("failed to create indexes: %v", err)
	}

	conn, err := amqp.Dial(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("failed to connect to rabbitmq: %v", err)
	}
	defer conn.Close()
	consumer, err := rabbit.NewConsumer(conn, auditQueue, "booking.*")
	if err != nil {
		log.Fatalf("failed to create consumer: %v", err)
	}
	defer consumer.Close()

	worker := NewAuditWorker(consumer, audit, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := worker.Run(ctx); err != nil {
			logger.WithError(err).Error("audit worker stopped")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-done:
	}
	logger.Info("Shutdown booking audit")
	cancel()
	<-done
}

type AuditWorker struct {
	consumer *rabbit.Consumer
	audit    *mongoadapter.AuditLogger
	logger   observability.Logger
}

func NewAuditWorker(consumer *rabbit.Consumer, audit *mongoadapter.AuditLogger, logger observability.Logger) *AuditWorker {
	return &AuditWorker{consumer: consumer, audit: audit, logger: logger}
}

func (w *AuditWorker) Run(ctx context.Context) error {
	deliveries, err := w.consumer.Consume(ctx)
	if err != nil {
		return err
	}
	w.logger.Info("Booking audit started")

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return nil
			}
			w.handle(ctx, d)
		}
	}
}

// handle acks stored and malformed messages alike; only storage failures are
// requeued.
func (w *AuditWorker) handle(ctx context.Context, d amqp.Delivery) {
	var e outbox.Event
	if err := json.Unmarshal(d.Body, &e); err != nil {
		w.logger.WithError(err).WithField("message_id", d.MessageId).Warn("discarding malformed event")
		observability.AuditRecords.WithLabelValues("malformed").Inc()
		d.Ack(false)
		return
	}

	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := w.audit.LogBooking(writeCtx, e); err != nil {
		observability.AuditRecords.WithLabelValues("error").Inc()
		w.logger.WithError(err).WithField("event_id", e.ID.String()).Error("failed to store audit record")
		d.Nack(false, !d.Redelivered)
		return
	}
	observability.AuditRecords.WithLabelValues("ok").Inc()
	d.Ack(false)
}
