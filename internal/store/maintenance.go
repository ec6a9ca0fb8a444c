package store

import (
	"context"
	"time"

	"github.com/lib/pq"

	"github.com/zapdesk/statusd/internal/models"
)

// CreateMaintenance announces a planned-downtime window.
func (s *Store) CreateMaintenance(ctx context.Context, title, description string, affectedServices []int, start, end time.Time) (*models.Maintenance, error) {
	services := make(pq.Int64Array, 0, len(affectedServices))
	for _, id := range affectedServices {
		services = append(services, int64(id))
	}

	m := models.Maintenance{
		Title:            title,
		Description:      description,
		AffectedServices: services,
		ScheduledStart:   start,
		ScheduledEnd:     end,
		Status:           models.MaintenanceScheduled,
	}

	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// UpdateMaintenanceStatus advances a maintenance window's lifecycle state.
func (s *Store) UpdateMaintenanceStatus(ctx context.Context, id int, status models.MaintenanceStatus) error {
	return s.db.WithContext(ctx).
		Model(&models.Maintenance{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now().UTC(),
		}).Error
}

// ScheduledMaintenances returns upcoming and in-progress windows,
// soonest first.
func (s *Store) ScheduledMaintenances(ctx context.Context) ([]models.Maintenance, error) {
	var maintenances []models.Maintenance
	err := s.db.WithContext(ctx).
		Where("scheduled_end > ? OR status = ?", time.Now().UTC(), models.MaintenanceInProgress).
		Order("scheduled_start ASC").
		Find(&maintenances).Error
	return maintenances, err
}

// MaintenanceHistory returns the most recent windows, newest first.
func (s *Store) MaintenanceHistory(ctx context.Context, limit int) ([]models.Maintenance, error) {
	var maintenances []models.Maintenance
	err := s.db.WithContext(ctx).
		Order("scheduled_start DESC").
		Limit(limit).
		Find(&maintenances).Error
	return maintenances, err
}
