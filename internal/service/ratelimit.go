package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimitService is a fixed-window counter over redis, keyed per caller.
// It fails open: when redis is unreachable the request is allowed rather
// than turning a cache outage into a public outage.
type RateLimitService struct {
	rdb    *redis.Client
	limit  int64
	window time.Duration
}

func NewRateLimitService(redisClient *redis.Client, limit int64, window time.Duration) *RateLimitService {
	return &RateLimitService{
		rdb:    redisClient,
		limit:  limit,
		window: window,
	}
}

func (s *RateLimitService) Allow(ctx context.Context, key string) bool {
	if s == nil || s.rdb == nil {
		return true
	}

	count, err := s.rdb.Incr(ctx, "ratelimit:"+key).Result()
	if err != nil {
		slog.WarnContext(
			ctx, "Rate limit check failed",
			slog.String("error", err.Error()),
			slog.String("module", "ratelimit"),
		)
		return true
	}
	if count == 1 {
		s.rdb.Expire(ctx, "ratelimit:"+key, s.window)
	}

	return count <= s.limit
}
