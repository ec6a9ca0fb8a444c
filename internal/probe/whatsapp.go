package probe

import (
	"context"
	"time"

	"github.com/zapdesk/statusd/internal/models"
)

// WhatsAppProbe checks the messaging provider's connection registry.
type WhatsAppProbe struct {
	registry ConnectionRegistry
	timeout  time.Duration
}

// NewWhatsAppProbe creates a messaging-provider probe.
func NewWhatsAppProbe(registry ConnectionRegistry, timeout time.Duration) *WhatsAppProbe {
	return &WhatsAppProbe{registry: registry, timeout: timeout}
}

// Slug returns the service slug this probe reports under.
func (p *WhatsAppProbe) Slug() string {
	return "whatsapp"
}

// Check queries the registry. No registered connections counts as
// operational; zero connected of a non-empty registry is an outage;
// a partial set is degraded.
func (p *WhatsAppProbe) Check(ctx context.Context) Result {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	total, connected, err := p.registry.Connections(ctx)
	elapsed := int(time.Since(start).Milliseconds())
	if err != nil {
		return Result{
			Status:         models.StatusOutage,
			ResponseTimeMs: elapsed,
			Err:            err.Error(),
		}
	}

	status := models.StatusOperational
	switch {
	case total == 0:
		status = models.StatusOperational
	case connected == 0:
		status = models.StatusOutage
	case connected < total:
		status = models.StatusDegraded
	}

	return Result{
		Status:         status,
		ResponseTimeMs: elapsed,
		Details:        map[string]int{"total": total, "connected": connected},
	}
}
