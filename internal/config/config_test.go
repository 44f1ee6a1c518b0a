package config_test

import (
	"testing"
	"time"

	"github.com/robertarktes/holidaze-gateway/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"HTTP_ADDR", "API_BASE_URL", "API_KEY", "API_TIMEOUT", "API_RATE_PER_SEC", "API_RATE_BURST", "SESSION_TTL", "DRAFT_IDLE_TTL", "ALLOWED_ORIGINS", "RATE_LIMIT_PER_MIN", "MONGO_DB", "SERVICE_VERSION", "DEPLOY_ENV", "TRACE_SAMPLE_RATIO"} {
		t.Setenv(key, "")
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HTTPAddr != config.DefaultHTTPAddr {
		t.Errorf("expected %s, got %s", config.DefaultHTTPAddr, cfg.HTTPAddr)
	}
	if cfg.APIBaseURL != config.DefaultAPIBaseURL {
		t.Errorf("expected %s, got %s", config.DefaultAPIBaseURL, cfg.APIBaseURL)
	}
	if cfg.APITimeout != 0 {
		t.Errorf("expected no api timeout, got %v", cfg.APITimeout)
	}
	if cfg.SessionTTL != config.DefaultSessionTTL || cfg.DraftIdleTTL != config.DefaultDraftIdleTTL {
		t.Errorf("unexpected ttls: %v %v", cfg.SessionTTL, cfg.DraftIdleTTL)
	}
	if cfg.APIRatePerSec != config.DefaultAPIRate || cfg.APIRateBurst != config.DefaultAPIBurst {
		t.Errorf("expected rate %v burst %d, got %v burst %d", config.DefaultAPIRate, config.DefaultAPIBurst, cfg.APIRatePerSec, cfg.APIRateBurst)
	}
	if len(cfg.AllowedOrigins) != 0 {
		t.Errorf("expected no origins, got %v", cfg.AllowedOrigins)
	}
	if cfg.RateLimit != config.DefaultRateLimit || cfg.MongoDB != config.DefaultMongoDB {
		t.Errorf("unexpected rate limit %d or mongo db %q", cfg.RateLimit, cfg.MongoDB)
	}
	if cfg.ServiceVersion != config.DefaultVersion || cfg.Environment != config.DefaultEnvironment || cfg.TraceSampleRatio != 1 {
		t.Errorf("unexpected trace settings %q %q %v", cfg.ServiceVersion, cfg.Environment, cfg.TraceSampleRatio)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://localhost:9000/")
	t.Setenv("API_TIMEOUT", "3s")
	t.Setenv("API_RATE_PER_SEC", "not-a-number")
	t.Setenv("DRAFT_IDLE_TTL", "5m")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("RATE_LIMIT_PER_MIN", "30")

	cfg, err := config.Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.APIBaseURL != "http://localhost:9000" {
		t.Errorf("expected trailing slash trimmed, got %s", cfg.APIBaseURL)
	}
	if cfg.APITimeout != 3*time.Second {
		t.Errorf("expected 3s, got %v", cfg.APITimeout)
	}
	if cfg.APIRatePerSec != config.DefaultAPIRate {
		t.Errorf("expected fallback rate, got %v", cfg.APIRatePerSec)
	}
	if cfg.DraftIdleTTL != 5*time.Minute {
		t.Errorf("expected 5m, got %v", cfg.DraftIdleTTL)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "http://b.test" {
		t.Errorf("unexpected origins %v", cfg.AllowedOrigins)
	}
	if cfg.RateLimit != 30 {
		t.Errorf("expected 30, got %d", cfg.RateLimit)
	}
}

func TestLoad_ZeroRateDisablesThrottling(t *testing.T) {
	t.Setenv("API_RATE_PER_SEC", "0")
	t.Setenv("API_RATE_BURST", "25")

	cfg, err := config.Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.APIRatePerSec != 0 {
		t.Errorf("expected throttling disabled, got rate %v", cfg.APIRatePerSec)
	}
	if cfg.APIRateBurst != 25 {
		t.Errorf("expected burst 25, got %d", cfg.APIRateBurst)
	}

	t.Setenv("API_RATE_PER_SEC", "-1")
	if cfg, _ = config.Load(); cfg.APIRatePerSec != config.DefaultAPIRate {
		t.Errorf("expected negative rate to fall back, got %v", cfg.APIRatePerSec)
	}
}
