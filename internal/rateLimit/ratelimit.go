package rateLimit

import (
	"context"
	"time"

	redisadapter "github.com/robertarktes/holidaze-gateway/internal/adapters/redis"
	"github.com/robertarktes/holidaze-gateway/internal/observability"
)

type Rule struct {
	Limit  int
	Period time.Duration
}

// RateLimiter counts requests per key in fixed windows stored in Redis.
type RateLimiter struct {
	redis *redisadapter.Cache
	rule  Rule
}

func NewRateLimiter(redis *redisadapter.Cache, rule Rule) *RateLimiter {
	return &RateLimiter{redis: redis, rule: rule}
}

// Allow fails open when Redis is unreachable.
func (rl *RateLimiter) Allow(ctx context.Context, key string) bool {
	if rl == nil {
		return true
	}
	fullKey := "rl:" + key

	pipe := rl.redis.Client().Pipeline()
	incr := pipe.Incr(ctx, fullKey)
	pipe.ExpireNX(ctx, fullKey, rl.rule.Period)

	if _, err := pipe.Exec(ctx); err != nil {
		return true
	}

	if incr.Val() > int64(rl.rule.Limit) {
		observability.RateLimitExceeded.Inc()
		return false
	}
	return true
}
