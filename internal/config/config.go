package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultAPIBaseURL   = "https://v2.api.noroff.dev"
	DefaultHTTPAddr     = ":8080"
	DefaultAPIRate      = 5.0
	DefaultAPIBurst     = 10
	DefaultSessionTTL   = 24 * time.Hour
	DefaultDraftIdleTTL = 30 * time.Minute
	DefaultRateLimit    = 120
	DefaultMongoDB      = "holidaze"
	DefaultEnvironment  = "development"
	DefaultVersion      = "dev"
)

type Config struct {
	HTTPAddr         string
	APIBaseURL       string
	APIKey           string
	APITimeout       time.Duration
	APIRatePerSec    float64 // zero disables outbound throttling
	APIRateBurst     int
	RedisAddr        string
	RateLimit        int // requests per minute per session or client address
	MongoURI         string
	MongoDB          string
	RabbitURL        string
	OTLPEndpoint     string
	ServiceVersion   string
	Environment      string
	TraceSampleRatio float64
	SessionTTL       time.Duration
	DraftIdleTTL     time.Duration
	AllowedOrigins   []string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	// API_TIMEOUT of zero leaves outbound calls to the transport's own limits.
	apiTimeout, _ := time.ParseDuration(os.Getenv("API_TIMEOUT"))

	sessionTTL, _ := time.ParseDuration(os.Getenv("SESSION_TTL"))
	if sessionTTL <= 0 {
		sessionTTL = DefaultSessionTTL
	}

	draftIdleTTL, _ := time.ParseDuration(os.Getenv("DRAFT_IDLE_TTL"))
	if draftIdleTTL <= 0 {
		draftIdleTTL = DefaultDraftIdleTTL
	}

	rate, err := strconv.ParseFloat(os.Getenv("API_RATE_PER_SEC"), 64)
	if err != nil || rate < 0 {
		rate = DefaultAPIRate
	}

	sampleRatio, err := strconv.ParseFloat(os.Getenv("TRACE_SAMPLE_RATIO"), 64)
	if err != nil || sampleRatio < 0 || sampleRatio > 1 {
		sampleRatio = 1
	}

	burst, err := strconv.Atoi(os.Getenv("API_RATE_BURST"))
	if err != nil || burst <= 0 {
		burst = DefaultAPIBurst
	}

	rateLimit, err := strconv.Atoi(os.Getenv("RATE_LIMIT_PER_MIN"))
	if err != nil || rateLimit <= 0 {
		rateLimit = DefaultRateLimit
	}

	return &Config{
		HTTPAddr:         getEnv("HTTP_ADDR", DefaultHTTPAddr),
		APIBaseURL:       strings.TrimRight(getEnv("API_BASE_URL", DefaultAPIBaseURL), "/"),
		APIKey:           os.Getenv("API_KEY"),
		APITimeout:       apiTimeout,
		APIRatePerSec:    rate,
		APIRateBurst:     burst,
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RateLimit:        rateLimit,
		MongoURI:         os.Getenv("MONGO_URI"),
		MongoDB:          getEnv("MONGO_DB", DefaultMongoDB),
		RabbitURL:        os.Getenv("RABBIT_URL"),
		OTLPEndpoint:     os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		ServiceVersion:   getEnv("SERVICE_VERSION", DefaultVersion),
		Environment:      getEnv("DEPLOY_ENV", DefaultEnvironment),
		TraceSampleRatio: sampleRatio,
		SessionTTL:       sessionTTL,
		DraftIdleTTL:     draftIdleTTL,
		AllowedOrigins:   splitList(os.Getenv("ALLOWED_ORIGINS")),
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
