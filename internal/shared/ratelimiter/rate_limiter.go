// Package ratelimiter は外部APIの呼び出し頻度を制限します。
package ratelimiter

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiterInterface は、API呼び出しなどの操作の頻度を制限するインターフェースです。
type RateLimiterInterface interface {
	WaitIfNeeded(ctx context.Context) error
}

// RateLimiter はトークンバケットで呼び出し頻度を制限します。
type RateLimiter struct {
	limiter *rate.Limiter
	name    string
}

var _ RateLimiterInterface = (*RateLimiter)(nil)

// NewRateLimiter はinterval あたり limit 回までの呼び出しを許可するRateLimiterを生成します。
// バースト幅は limit です。limit が0以下の場合は制限しません。
func NewRateLimiter(name string, limit int, interval time.Duration) *RateLimiter {
	if limit <= 0 || interval <= 0 {
		return &RateLimiter{limiter: rate.NewLimiter(rate.Inf, 0), name: name}
	}
	every := interval / time.Duration(limit)
	return &RateLimiter{limiter: rate.NewLimiter(rate.Every(every), limit), name: name}
}

// WaitIfNeeded はトークンが得られるまで待機します。ctx がキャンセルされた場合はそのエラーを返します。
func (rl *RateLimiter) WaitIfNeeded(ctx context.Context) error {
	r := rl.limiter.Reserve()
	if !r.OK() {
		return rl.limiter.Wait(ctx)
	}
	delay := r.Delay()
	if delay == 0 {
		return nil
	}
	slog.Debug("rate limit reached, waiting", "limiter", rl.name, "delay", delay)

	t := time.NewTimer(delay)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		r.Cancel()
		return ctx.Err()
	}
}
