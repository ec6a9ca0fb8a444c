package store

import (
	"context"
	"time"

	"gorm.io/gorm/clause"

	"github.com/zapdesk/statusd/internal/models"
	"github.com/zapdesk/statusd/internal/uptime"
)

// AggregateDailyStats recomputes the daily stat for one service and
// day by scanning that day's checks. The upsert is idempotent:
// re-running with unchanged checks leaves a single identical row.
func (s *Store) AggregateDailyStats(ctx context.Context, serviceID int, date time.Time) error {
	dayStart, dayEnd := uptime.DayBounds(date)

	var checks []models.Check
	err := s.db.WithContext(ctx).
		Where("service_id = ? AND checked_at >= ? AND checked_at < ?", serviceID, dayStart, dayEnd).
		Find(&checks).Error
	if err != nil {
		return err
	}

	day := uptime.ComputeDayStats(checks)

	stat := models.DailyStat{
		ServiceID:         serviceID,
		Date:              dayStart,
		TotalChecks:       day.TotalChecks,
		SuccessfulChecks:  day.SuccessfulChecks,
		FailedChecks:      day.FailedChecks,
		AvgResponseTimeMs: day.AvgResponseTimeMs,
		UptimePercentage:  day.UptimePercentage,
	}

	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "service_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"total_checks", "successful_checks", "failed_checks",
				"avg_response_time_ms", "uptime_percentage",
			}),
		}).
		Create(&stat).Error
}

// UptimeHistory returns the trailing window of daily stats, oldest first.
func (s *Store) UptimeHistory(ctx context.Context, serviceID, days int) ([]models.DailyStat, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -days)

	var stats []models.DailyStat
	err := s.db.WithContext(ctx).
		Where("service_id = ? AND date >= ?", serviceID, cutoff).
		Order("date ASC").
		Find(&stats).Error
	return stats, err
}

// OverallUptime returns the check-weighted uptime percentage over the
// trailing window. A service with no recorded data reports 100.
func (s *Store) OverallUptime(ctx context.Context, serviceID, days int) (float64, error) {
	stats, err := s.UptimeHistory(ctx, serviceID, days)
	if err != nil {
		return 0, err
	}
	return uptime.Overall(stats), nil
}

// CleanupOldChecks deletes checks older than the retention window and
// returns how many rows were removed.
func (s *Store) CleanupOldChecks(ctx context.Context) (int64, error) {
	cutoff := time.Now().UTC().Add(-s.retention.Checks)
	result := s.db.WithContext(ctx).
		Where("checked_at < ?", cutoff).
		Delete(&models.Check{})
	return result.RowsAffected, result.Error
}

// CleanupOldNotifications deletes notification log rows older than the
// retention window and returns how many rows were removed.
func (s *Store) CleanupOldNotifications(ctx context.Context) (int64, error) {
	cutoff := time.Now().UTC().Add(-s.retention.Notifications)
	result := s.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&models.Notification{})
	return result.RowsAffected, result.Error
}
