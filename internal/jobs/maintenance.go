package jobs

import (
	"time"

	"github.com/zapdesk/statusd/internal/models"
)

// MaintenanceTransition returns the next lifecycle state for a
// maintenance window at the given instant. Transitions advance one
// step per evaluation: a scheduled window whose end has already passed
// moves to in_progress first and completes on the next pass.
func MaintenanceTransition(m *models.Maintenance, now time.Time) (models.MaintenanceStatus, bool) {
	switch m.Status {
	case models.MaintenanceScheduled:
		if !now.Before(m.ScheduledStart) {
			return models.MaintenanceInProgress, true
		}
	case models.MaintenanceInProgress:
		if !now.Before(m.ScheduledEnd) {
			return models.MaintenanceCompleted, true
		}
	}
	return m.Status, false
}
