package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	redisclient "github.com/redis/go-redis/v9"
	mongoadapter "github.com/robertarktes/holidaze-gateway/internal/adapters/mongo"
	"github.com/robertarktes/holidaze-gateway/internal/adapters/rabbit"
	redisadapter "github.com/robertarktes/holidaze-gateway/internal/adapters/redis"
	"github.com/robertarktes/holidaze-gateway/internal/api"
	"github.com/robertarktes/holidaze-gateway/internal/booking"
	"github.com/robertarktes/holidaze-gateway/internal/config"
	httphandler "github.com/robertarktes/holidaze-gateway/internal/http"
	"github.com/robertarktes/holidaze-gateway/internal/idempotency"
	"github.com/robertarktes/holidaze-gateway/internal/observability"
	"github.com/robertarktes/holidaze-gateway/internal/outbox"
	"github.com/robertarktes/holidaze-gateway/internal/rateLimit"
	"github.com/robertarktes/holidaze-gateway/internal/session"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	shutdownOtel, err := observability.SetupOTel(context.Background(), cfg, "holidaze-gateway")
	if err != nil {
		log.Fatalf("failed to setup otel: %v", err)
	}
	defer shutdownOtel()

	logger := observability.NewLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var workers sync.WaitGroup

	redisClient := redisclient.NewClient(&redisclient.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()
	redisCache := redisadapter.NewCache(redisClient)
	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	if err := redisCache.Ping(pingCtx); err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	pingCancel()

	idemp := idempotency.NewIdempotency(redisadapter.NewIdempotency(redisClient), 24*time.Hour)
	rl := rateLimit.NewRateLimiter(redisCache, rateLimit.Rule{Limit: cfg.RateLimit, Period: time.Minute})

	client := api.New(api.Config{
		BaseURL:    cfg.APIBaseURL,
		Timeout:    cfg.APITimeout,
		RatePerSec: cfg.APIRatePerSec,
		Burst:      cfg.APIRateBurst,
	}, logger.WithField("component", "api"))

	drafts := booking.NewRegistry()
	sweeper := booking.NewSweeper(drafts, cfg.DraftIdleTTL, logger.WithField("component", "sweeper"))
	workers.Add(1)
	go func() {
		defer workers.Done()
		sweeper.Run(ctx, time.Minute)
	}()

	sessions := session.NewManager(
		redisadapter.NewSessionStore(redisClient),
		client,
		drafts,
		session.ManagerConfig{TTL: cfg.SessionTTL, PresetAPIKey: cfg.APIKey},
		logger.WithField("component", "session"),
	)

	checks := map[string]httphandler.Check{"redis": redisCache.Ping}

	var events *outbox.Outbox
	if cfg.RabbitURL != "" {
		rabbitConn, err := amqp.Dial(cfg.RabbitURL)
		if err != nil {
			log.Fatalf("failed to connect to rabbitmq: %v", err)
		}
		defer rabbitConn.Close()
		rabbitPub, err := rabbit.NewPublisher(rabbitConn)
		if err != nil {
			log.Fatalf("failed to create publisher: %v", err)
		}
		defer rabbitPub.Close()

		events = outbox.New(outbox.DefaultCapacity, logger)
		publisher := outbox.NewPublisher(events, rabbitPub, logger.WithField("component", "outbox"))
		workers.Add(1)
		go func() {
			defer workers.Done()
			publisher.Run(ctx)
		}()

		checks["rabbitmq"] = func(context.Context) error {
			if rabbitConn.IsClosed() {
				return amqp.ErrClosed
			}
			return nil
		}
	} else {
		logger.Warn("RABBIT_URL not set, booking events are disabled")
	}

	var audit httphandler.AuditTrail
	if cfg.MongoURI != "" {
		mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			log.Fatalf("failed to connect to mongo: %v", err)
		}
		defer mongoClient.Disconnect(context.Background())
		auditLogger := mongoadapter.NewAuditLogger(mongoClient.Database(cfg.MongoDB), logger.WithField("component", "audit"))
		audit = auditLogger
		checks["mongo"] = auditLogger.Ping
	} else {
		logger.Warn("MONGO_URI not set, booking history is disabled")
	}

	handlers := httphandler.NewHandlers(httphandler.Deps{
		Client:     client,
		Sessions:   sessions,
		Drafts:     drafts,
		Idemp:      idemp,
		Cache:      redisCache,
		Outbox:     events,
		Audit:      audit,
		SessionTTL: cfg.SessionTTL,
		Checks:     checks,
		Logger:     logger,
	})

	r := httphandler.SetupRouter(handlers, logger, rl, cfg.AllowedOrigins)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.WithField("addr", cfg.HTTPAddr).Info("gateway listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutdown Server ...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}
	cancel()
	workers.Wait()
	logger.Info("Server exiting")
}
