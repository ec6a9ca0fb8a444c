// Package jobs ties the probe set, result store and detector together
// on the periodic schedule, and owns the previous-cycle snapshot.
package jobs

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/zapdesk/statusd/internal/models"
	"github.com/zapdesk/statusd/internal/probe"
)

// Store is the slice of the result store the scheduler drives.
type Store interface {
	RecordCheck(ctx context.Context, slug string, result probe.Result) error
	EnabledServices(ctx context.Context) ([]models.Service, error)
	AggregateDailyStats(ctx context.Context, serviceID int, date time.Time) error
	ScheduledMaintenances(ctx context.Context) ([]models.Maintenance, error)
	UpdateMaintenanceStatus(ctx context.Context, id int, status models.MaintenanceStatus) error
	CleanupOldChecks(ctx context.Context) (int64, error)
	CleanupOldNotifications(ctx context.Context) (int64, error)
}

// Detector diffs the current cycle against the previous one.
type Detector interface {
	Detect(ctx context.Context, current, previous map[string]probe.Result) error
}

// Scheduler manages the background jobs of the status engine. The
// previous-cycle snapshot lives here with the probe task as its only
// writer.
type Scheduler struct {
	cron     *cron.Cron
	store    Store
	probes   *probe.Set
	detector Detector

	// prev holds the last completed cycle's results. Written only by
	// the probe task, which is serialized by inFlight.
	prev     map[string]probe.Result
	inFlight atomic.Bool
}

// NewScheduler creates a new job scheduler
func NewScheduler(st Store, probes *probe.Set, det Detector) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		store:    st,
		probes:   probes,
		detector: det,
	}
}

// Bootstrap runs the probe set once, persists the results and seeds
// the snapshot. No transition detection happens here: without a prior
// cycle there is no signal, even if a probe already reports outage.
func (s *Scheduler) Bootstrap(ctx context.Context) {
	log.Println("[status] running initial check...")

	results := s.probes.RunAll(ctx)
	s.persistResults(ctx, results)
	s.prev = results

	log.Println("[status] initial check completed")
}

// Start registers the periodic jobs and starts the cron loop. Each job
// catches and logs its own errors; a failing job never blocks the rest.
func (s *Scheduler) Start() {
	// Probe cycle every minute
	s.cron.AddFunc("* * * * *", s.runProbeCycle)

	// Maintenance window transitions every minute
	s.cron.AddFunc("* * * * *", s.advanceMaintenances)

	// Daily aggregation and cleanup shortly after midnight
	s.cron.AddFunc("5 0 * * *", s.runDailyRollup)

	s.cron.Start()
	log.Println("[status] job scheduler started")
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[status] job scheduler stopped")
}

// runProbeCycle runs the full probe set, persists the results, detects
// transitions against the previous snapshot and replaces it. An
// overlapping tick is skipped while a cycle is still in flight.
func (s *Scheduler) runProbeCycle() {
	if !s.inFlight.CompareAndSwap(false, true) {
		log.Println("[status] previous probe cycle still running, skipping tick")
		return
	}
	defer s.inFlight.Store(false)

	ctx := context.Background()
	results := s.probes.RunAll(ctx)
	s.persistResults(ctx, results)

	if s.prev != nil {
		if err := s.detector.Detect(ctx, results, s.prev); err != nil {
			log.Printf("[status] transition detection failed: %v", err)
		}
	}
	s.prev = results

	log.Printf("[status] checks executed at %s", time.Now().UTC().Format(time.RFC3339))
}

func (s *Scheduler) persistResults(ctx context.Context, results map[string]probe.Result) {
	for slug, result := range results {
		if err := s.store.RecordCheck(ctx, slug, result); err != nil {
			log.Printf("[status] failed to record check for %s: %v", slug, err)
		}
	}
}

// advanceMaintenances moves maintenance windows through their
// lifecycle by pure time comparison.
func (s *Scheduler) advanceMaintenances() {
	ctx := context.Background()

	maintenances, err := s.store.ScheduledMaintenances(ctx)
	if err != nil {
		log.Printf("[status] failed to load maintenances: %v", err)
		return
	}

	now := time.Now().UTC()
	for i := range maintenances {
		m := &maintenances[i]
		next, changed := MaintenanceTransition(m, now)
		if !changed {
			continue
		}

		if err := s.store.UpdateMaintenanceStatus(ctx, m.ID, next); err != nil {
			log.Printf("[status] failed to update maintenance %d: %v", m.ID, err)
			continue
		}
		log.Printf("[status] maintenance %q -> %s", m.Title, next)
	}
}

// runDailyRollup aggregates yesterday's stats for every enabled
// service, then purges expired checks and notification log rows.
func (s *Scheduler) runDailyRollup() {
	ctx := context.Background()

	services, err := s.store.EnabledServices(ctx)
	if err != nil {
		log.Printf("[status] failed to load services for aggregation: %v", err)
		return
	}

	yesterday := time.Now().UTC().AddDate(0, 0, -1)
	for _, svc := range services {
		if err := s.store.AggregateDailyStats(ctx, svc.ID, yesterday); err != nil {
			log.Printf("[status] failed to aggregate stats for %s: %v", svc.Slug, err)
		}
	}

	if removed, err := s.store.CleanupOldChecks(ctx); err != nil {
		log.Printf("[status] check cleanup failed: %v", err)
	} else {
		log.Printf("[status] cleaned up %d old checks", removed)
	}

	if removed, err := s.store.CleanupOldNotifications(ctx); err != nil {
		log.Printf("[status] notification cleanup failed: %v", err)
	} else {
		log.Printf("[status] cleaned up %d old notifications", removed)
	}

	log.Println("[status] daily statistics aggregated")
}
