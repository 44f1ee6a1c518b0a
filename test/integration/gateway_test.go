package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	redisclient "github.com/redis/go-redis/v9"
	mongoadapter "github.com/robertarktes/holidaze-gateway/internal/adapters/mongo"
	"github.com/robertarktes/holidaze-gateway/internal/adapters/rabbit"
	redisadapter "github.com/robertarktes/holidaze-gateway/internal/adapters/redis"
	"github.com/robertarktes/holidaze-gateway/internal/api"
	"github.com/robertarktes/holidaze-gateway/internal/booking"
	httphandler "github.com/robertarktes/holidaze-gateway/internal/http"
	"github.com/robertarktes/holidaze-gateway/internal/idempotency"
	"github.com/robertarktes/holidaze-gateway/internal/observability"
	"github.com/robertarktes/holidaze-gateway/internal/outbox"
	"github.com/robertarktes/holidaze-gateway/internal/rateLimit"
	"github.com/robertarktes/holidaze-gateway/internal/session"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func fakeHolidazeAPI() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"data":{"name":"kari","email":"kari@stud.noroff.no","accessToken":"tok"}}`)
	})
	mux.HandleFunc("POST /auth/create-api-key", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"data":{"name":"gw","status":"ACTIVE","key":"k-1"}}`)
	})
	mux.HandleFunc("GET /holidaze/venues/{id}", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"data":{"id":"v1","name":"Cabin","price":120,"maxGuests":3}}`)
	})
	mux.HandleFunc("POST /holidaze/bookings", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"data":{"id":"b1","guests":2,"dateFrom":"2030-06-01T00:00:00.000Z","dateTo":"2030-06-03T00:00:00.000Z","venue":{"id":"v1","name":"Cabin","price":120,"maxGuests":3}}}`)
	})
	return mux
}

func TestIntegration_BookingIsAudited(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()

	redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	defer redisContainer.Terminate(ctx)

	rabbitContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "rabbitmq:3.13-management",
			ExposedPorts: []string{"5672/tcp", "15672/tcp"},
			WaitingFor:   wait.ForHTTP("/api/health/checks/alarms").WithPort("15672").WithBasicAuth("guest", "guest"),
		},
		Started: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	defer rabbitContainer.Terminate(ctx)

	mongoContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForLog("Waiting for connections"),
		},
		Started: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	defer mongoContainer.Terminate(ctx)

	redisAddr, err := redisContainer.Endpoint(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	rabbitHost, err := rabbitContainer.Host(ctx)
	if err != nil {
		t.Fatal(err)
	}
	rabbitPort, err := rabbitContainer.MappedPort(ctx, "5672")
	if err != nil {
		t.Fatal(err)
	}
	mongoURI, err := mongoContainer.Endpoint(ctx, "mongodb")
	if err != nil {
		t.Fatal(err)
	}

	logger := observability.NewDiscardLogger()

	remote := httptest.NewServer(fakeHolidazeAPI())
	defer remote.Close()
	client := api.New(api.Config{BaseURL: remote.URL}, logger)

	redisClient := redisclient.NewClient(&redisclient.Options{Addr: redisAddr})
	defer redisClient.Close()
	redisCache := redisadapter.NewCache(redisClient)

	rabbitConn, err := amqp.Dial("amqp://guest:guest@" + rabbitHost + ":" + rabbitPort.Port() + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer rabbitConn.Close()
	rabbitPub, err := rabbit.NewPublisher(rabbitConn)
	if err != nil {
		t.Fatal(err)
	}
	consumer, err := rabbit.NewConsumer(rabbitConn, "booking.audit.test", "booking.*")
	if err != nil {
		t.Fatal(err)
	}

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		t.Fatal(err)
	}
	defer mongoClient.Disconnect(ctx)
	audit := mongoadapter.NewAuditLogger(mongoClient.Database("holidaze_it"), logger)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := outbox.New(outbox.DefaultCapacity, logger)
	go outbox.NewPublisher(events, rabbitPub, logger).Run(runCtx)

	drafts := booking.NewRegistry()
	sessions := session.NewManager(redisadapter.NewSessionStore(redisClient), client, drafts, session.ManagerConfig{TTL: time.Hour}, logger)
	handlers := httphandler.NewHandlers(httphandler.Deps{
		Client:     client,
		Sessions:   sessions,
		Drafts:     drafts,
		Idemp:      idempotency.NewIdempotency(redisadapter.NewIdempotency(redisClient), time.Hour),
		Cache:      redisCache,
		Outbox:     events,
		SessionTTL: time.Hour,
		Logger:     logger,
	})
	rl := rateLimit.NewRateLimiter(redisCache, rateLimit.Rule{Limit: 100, Period: time.Minute})
	gateway := httptest.NewServer(httphandler.SetupRouter(handlers, logger, rl, nil))
	defer gateway.Close()

	jar, _ := cookiejar.New(nil)
	hc := &http.Client{Jar: jar}
	post := func(method, path string, body any, headers map[string]string) *http.Response {
		data, _ := json.Marshal(body)
		req, _ := http.NewRequest(method, gateway.URL+path, bytes.NewReader(data))
		req.Header.Set("Content-Type", "application/json")
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		resp, err := hc.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		return resp
	}

	if resp := post(http.MethodPost, "/v1/auth/login", map[string]string{"email": "kari@stud.noroff.no", "password": "secret123"}, nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("login failed: %d", resp.StatusCode)
	}
	if resp := post(http.MethodPost, "/v1/booking/draft", map[string]string{"venueId": "v1"}, nil); resp.StatusCode != http.StatusCreated {
		t.Fatalf("start draft failed: %d", resp.StatusCode)
	}
	post(http.MethodPut, "/v1/booking/draft/dates", map[string]string{"dateFrom": "2030-06-01T00:00:00Z", "dateTo": "2030-06-03T00:00:00Z"}, nil)
	post(http.MethodPut, "/v1/booking/draft/guests", map[string]int{"guests": 2}, nil)

	key := uuid.New().String()
	if resp := post(http.MethodPost, "/v1/booking/draft/submit", nil, map[string]string{"Idempotency-Key": key}); resp.StatusCode != http.StatusCreated {
		t.Fatalf("submit failed: %d", resp.StatusCode)
	}
	if resp := post(http.MethodPost, "/v1/booking/draft/submit", nil, map[string]string{"Idempotency-Key": key}); resp.Header.Get("Idempotent-Replayed") != "true" {
		t.Errorf("expected replayed response from redis, got %d", resp.StatusCode)
	}

	deliveries, err := consumer.Consume(runCtx)
	if err != nil {
		t.Fatal(err)
	}
	select {
	case d := <-deliveries:
		var e outbox.Event
		if err := json.Unmarshal(d.Body, &e); err != nil {
			t.Fatal(err)
		}
		if err := audit.LogBooking(ctx, e); err != nil {
			t.Fatal(err)
		}
		d.Ack(false)
	case <-time.After(15 * time.Second):
		t.Fatal("timed out waiting for booking event")
	}

	logs, err := audit.ListByProfile(ctx, "kari", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(logs) != 1 || logs[0].BookingID != "b1" || logs[0].Action != outbox.BookingCreated {
		t.Fatalf("unexpected audit trail %+v", logs)
	}
	if total, _ := logs[0].Data["total"].(float64); total != 240 {
		t.Errorf("expected total 240 for 2 nights at 120, got %v", logs[0].Data["total"])
	}
}
