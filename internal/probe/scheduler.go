package probe

import (
	"context"
	"time"

	"github.com/zapdesk/statusd/internal/models"
)

// SchedulerProbe checks the scheduled-dispatch pipeline for messages
// stuck past their due time.
type SchedulerProbe struct {
	queue    DispatchQueue
	grace    time.Duration
	stuckMax int
	timeout  time.Duration
}

// NewSchedulerProbe creates a scheduled-dispatch probe. More than
// stuckMax dispatches past due by grace reports degraded.
func NewSchedulerProbe(queue DispatchQueue, grace time.Duration, stuckMax int, timeout time.Duration) *SchedulerProbe {
	return &SchedulerProbe{queue: queue, grace: grace, stuckMax: stuckMax, timeout: timeout}
}

// Slug returns the service slug this probe reports under.
func (p *SchedulerProbe) Slug() string {
	return "scheduler"
}

// Check counts stuck dispatches. A failed query reports unknown.
func (p *SchedulerProbe) Check(ctx context.Context) Result {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	stuck, err := p.queue.StuckCount(ctx, p.grace)
	elapsed := int(time.Since(start).Milliseconds())
	if err != nil {
		return Result{
			Status:         models.StatusUnknown,
			ResponseTimeMs: elapsed,
			Err:            err.Error(),
		}
	}

	status := models.StatusOperational
	if stuck > p.stuckMax {
		status = models.StatusDegraded
	}

	return Result{
		Status:         status,
		ResponseTimeMs: elapsed,
		Details:        map[string]int{"stuck": stuck},
	}
}
