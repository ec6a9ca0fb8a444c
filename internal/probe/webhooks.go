package probe

import (
	"context"
	"time"

	"github.com/zapdesk/statusd/internal/models"
)

// WebhookProbe checks the delivery pipeline by the success ratio of
// recent webhook attempts.
type WebhookProbe struct {
	log           DeliveryLog
	window        time.Duration
	degradedRatio float64
	outageRatio   float64
	timeout       time.Duration
}

// NewWebhookProbe creates a delivery-pipeline probe. Ratios below
// degradedRatio report degraded, below outageRatio report outage.
func NewWebhookProbe(log DeliveryLog, window time.Duration, degradedRatio, outageRatio float64, timeout time.Duration) *WebhookProbe {
	return &WebhookProbe{
		log:           log,
		window:        window,
		degradedRatio: degradedRatio,
		outageRatio:   outageRatio,
		timeout:       timeout,
	}
}

// Slug returns the service slug this probe reports under.
func (p *WebhookProbe) Slug() string {
	return "webhooks"
}

// Check computes the trailing success ratio. No attempts inside the
// window counts as operational. A failed query reports unknown rather
// than outage since the pipeline itself may be fine.
func (p *WebhookProbe) Check(ctx context.Context) Result {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	success, failed, err := p.log.RecentAttempts(ctx, p.window)
	elapsed := int(time.Since(start).Milliseconds())
	if err != nil {
		return Result{
			Status:         models.StatusUnknown,
			ResponseTimeMs: elapsed,
			Err:            err.Error(),
		}
	}

	status := models.StatusOperational
	if total := success + failed; total > 0 {
		ratio := float64(success) / float64(total)
		switch {
		case ratio < p.outageRatio:
			status = models.StatusOutage
		case ratio < p.degradedRatio:
			status = models.StatusDegraded
		}
	}

	return Result{
		Status:         status,
		ResponseTimeMs: elapsed,
		Details:        map[string]int{"success": success, "failed": failed},
	}
}
