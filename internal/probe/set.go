package probe

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/zapdesk/statusd/internal/models"
)

// Set runs a fixed collection of probes as one cycle.
type Set struct {
	probes []Probe
}

// NewSet creates a probe set. Probes have no ordering dependency.
func NewSet(probes ...Probe) *Set {
	return &Set{probes: probes}
}

// Slugs returns the service slugs covered by this set.
func (s *Set) Slugs() []string {
	slugs := make([]string, 0, len(s.probes))
	for _, p := range s.probes {
		slugs = append(slugs, p.Slug())
	}
	return slugs
}

// RunAll executes every probe concurrently and returns once the whole
// set has completed. A panicking probe is folded into an outage result
// instead of taking the cycle down.
func (s *Set) RunAll(ctx context.Context) map[string]Result {
	results := make(map[string]Result, len(s.probes))

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)

	for _, p := range s.probes {
		wg.Add(1)
		go func(p Probe) {
			defer wg.Done()
			result := runSafely(ctx, p)

			mu.Lock()
			results[p.Slug()] = result
			mu.Unlock()
		}(p)
	}

	wg.Wait()
	return results
}

// runSafely converts a probe panic into an outage result.
func runSafely(ctx context.Context, p Probe) (result Result) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			result = Result{
				Status:         models.StatusOutage,
				ResponseTimeMs: int(time.Since(start).Milliseconds()),
				Err:            fmt.Sprintf("probe panic: %v", r),
			}
		}
	}()

	return p.Check(ctx)
}
