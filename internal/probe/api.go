package probe

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/zapdesk/statusd/internal/models"
)

// APIProbe checks the platform's own HTTP surface with a bounded
// self-request.
type APIProbe struct {
	url     string
	timeout time.Duration
	client  *http.Client
}

// NewAPIProbe creates a liveness probe against the given health URL.
func NewAPIProbe(url string, timeout time.Duration) *APIProbe {
	return &APIProbe{
		url:     url,
		timeout: timeout,
		client:  &http.Client{Timeout: timeout},
	}
}

// Slug returns the service slug this probe reports under.
func (p *APIProbe) Slug() string {
	return "api"
}

// Check performs the self-request. A 2xx response is operational, any
// other response is degraded, a transport error or timeout is an outage.
func (p *APIProbe) Check(ctx context.Context) Result {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return Result{
			Status:         models.StatusOutage,
			ResponseTimeMs: int(time.Since(start).Milliseconds()),
			Err:            fmt.Sprintf("failed to create request: %v", err),
		}
	}

	resp, err := p.client.Do(req)
	elapsed := int(time.Since(start).Milliseconds())
	if err != nil {
		return Result{
			Status:         models.StatusOutage,
			ResponseTimeMs: elapsed,
			Err:            err.Error(),
		}
	}
	defer resp.Body.Close()

	code := resp.StatusCode
	status := models.StatusDegraded
	if code >= 200 && code < 300 {
		status = models.StatusOperational
	}

	return Result{
		Status:         status,
		ResponseTimeMs: elapsed,
		HTTPCode:       &code,
	}
}
