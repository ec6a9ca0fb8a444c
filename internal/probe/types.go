package probe

import (
	"context"
	"time"

	"github.com/zapdesk/statusd/internal/models"
)

// Result is the normalized outcome of one probe execution. Probes never
// return Go errors; failures are folded into Status and Err.
type Result struct {
	Status         models.CheckStatus `json:"status"`
	ResponseTimeMs int                `json:"response_time_ms"`
	HTTPCode       *int               `json:"http_code,omitempty"`
	Err            string             `json:"error,omitempty"`
	Details        map[string]int     `json:"details,omitempty"`
}

// Probe is a single health check against one platform subsystem.
type Probe interface {
	// Slug returns the service slug this probe reports under.
	Slug() string

	// Check runs the probe. It must not panic and must bound its own
	// external calls with the given context.
	Check(ctx context.Context) Result
}

// ConnectionRegistry exposes the messaging provider's connection state.
type ConnectionRegistry interface {
	// Connections returns the total number of registered connections
	// and how many of them are currently connected.
	Connections(ctx context.Context) (total, connected int, err error)
}

// DeliveryLog exposes recent webhook delivery attempts.
type DeliveryLog interface {
	// RecentAttempts returns success/failure counts inside the trailing window.
	RecentAttempts(ctx context.Context, window time.Duration) (success, failed int, err error)
}

// DispatchQueue exposes pending scheduled messages.
type DispatchQueue interface {
	// StuckCount returns how many pending dispatches are past due by
	// more than the grace period.
	StuckCount(ctx context.Context, grace time.Duration) (int, error)
}

// CampaignBoard exposes running broadcast campaigns.
type CampaignBoard interface {
	// LongRunning returns how many campaigns have been running longer
	// than the expected bound.
	LongRunning(ctx context.Context, bound time.Duration) (int, error)
}

// Pinger is a minimal liveness check against the cache/broker endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}
