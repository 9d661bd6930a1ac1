package websocket

import (
	"context"
	"errors"
	"testing"
	"time"

	"salon-chat/internal/redis"
	"salon-chat/pkg/logger"
)

type fakeLimiter struct {
	allowed bool
	err     error
	calls   int
}

func (f *fakeLimiter) AllowMessage(_ context.Context, _ string) (*redis.RateLimitResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &redis.RateLimitResult{Allowed: f.allowed}, nil
}

func newLimiterHandler(limiter MessageLimiter) *Handler {
	return NewHandler(nil, nil, nil, nil, nil, limiter, time.Minute, logger.New(logger.DevelopmentMode))
}

func TestAllowSend(t *testing.T) {
	ctx := context.Background()

	t.Run("within budget", func(t *testing.T) {
		h := newLimiterHandler(&fakeLimiter{allowed: true})
		if !h.allowSend(ctx, "user") {
			t.Fatal("send within the budget must be allowed")
		}
	})

	t.Run("over budget", func(t *testing.T) {
		h := newLimiterHandler(&fakeLimiter{allowed: false})
		if h.allowSend(ctx, "user") {
			t.Fatal("send over the budget must be rejected")
		}
	})

	t.Run("limiter error fails open", func(t *testing.T) {
		limiter := &fakeLimiter{err: errors.New("redis down")}
		h := newLimiterHandler(limiter)
		if !h.allowSend(ctx, "user") {
			t.Fatal("a limiter outage must not block sends")
		}
		if limiter.calls != 1 {
			t.Fatalf("limiter consulted %d times, want 1", limiter.calls)
		}
	})

	t.Run("no limiter configured", func(t *testing.T) {
		h := newLimiterHandler(nil)
		if !h.allowSend(ctx, "user") {
			t.Fatal("sends must pass when no limiter is wired")
		}
	})
}
