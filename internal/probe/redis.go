package probe

import (
	"context"
	"time"

	"github.com/zapdesk/statusd/internal/models"
)

// RedisProbe checks the cache/broker endpoint with a ping.
type RedisProbe struct {
	pinger  Pinger
	timeout time.Duration
}

// NewRedisProbe creates a cache/broker probe.
func NewRedisProbe(pinger Pinger, timeout time.Duration) *RedisProbe {
	return &RedisProbe{pinger: pinger, timeout: timeout}
}

// Slug returns the service slug this probe reports under.
func (p *RedisProbe) Slug() string {
	return "redis"
}

// Check pings the endpoint.
func (p *RedisProbe) Check(ctx context.Context) Result {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err := p.pinger.Ping(ctx)
	elapsed := int(time.Since(start).Milliseconds())
	if err != nil {
		return Result{
			Status:         models.StatusOutage,
			ResponseTimeMs: elapsed,
			Err:            err.Error(),
		}
	}

	return Result{Status: models.StatusOperational, ResponseTimeMs: elapsed}
}
