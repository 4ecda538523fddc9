package cache

import (
	"time"

	"fxsignal_backend/internal/feature/candles/domain/entity"
)

// BarAlignedTTL returns the time until the bar of g that is forming now closes, capped at maxTTL.
// Bars are aligned on UTC boundaries and the result is never below one second.
// A non-positive maxTTL means no cap.
func BarAlignedTTL(clock Clock, g entity.Granularity, maxTTL time.Duration) time.Duration {
	d := g.Duration()
	if d <= 0 {
		return maxTTL
	}
	now := clock.Now().UTC()
	ttl := now.Truncate(d).Add(d).Sub(now)
	if maxTTL > 0 && ttl > maxTTL {
		ttl = maxTTL
	}
	if ttl < time.Second {
		ttl = time.Second
	}
	return ttl
}
