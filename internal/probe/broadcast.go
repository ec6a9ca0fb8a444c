package probe

import (
	"context"
	"time"

	"github.com/zapdesk/statusd/internal/models"
)

// BroadcastProbe checks for campaigns running longer than expected.
type BroadcastProbe struct {
	board   CampaignBoard
	bound   time.Duration
	timeout time.Duration
}

// NewBroadcastProbe creates a campaign-dispatch probe.
func NewBroadcastProbe(board CampaignBoard, bound time.Duration, timeout time.Duration) *BroadcastProbe {
	return &BroadcastProbe{board: board, bound: bound, timeout: timeout}
}

// Slug returns the service slug this probe reports under.
func (p *BroadcastProbe) Slug() string {
	return "broadcast"
}

// Check counts long-running campaigns; any stuck campaign reports
// degraded. A failed query reports unknown.
func (p *BroadcastProbe) Check(ctx context.Context) Result {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	stuck, err := p.board.LongRunning(ctx, p.bound)
	elapsed := int(time.Since(start).Milliseconds())
	if err != nil {
		return Result{
			Status:         models.StatusUnknown,
			ResponseTimeMs: elapsed,
			Err:            err.Error(),
		}
	}

	status := models.StatusOperational
	if stuck > 0 {
		status = models.StatusDegraded
	}

	return Result{
		Status:         status,
		ResponseTimeMs: elapsed,
		Details:        map[string]int{"stuck": stuck},
	}
}
