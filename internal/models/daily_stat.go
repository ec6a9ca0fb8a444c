package models

import "time"

// DailyStat is the per-day rollup of checks for one service. Unique per
// (service_id, date); re-aggregation overwrites the existing row.
type DailyStat struct {
	ID                int       `json:"id" gorm:"primaryKey;autoIncrement"`
	ServiceID         int       `json:"service_id" gorm:"not null;uniqueIndex:idx_daily_stats_service_date"`
	Date              time.Time `json:"date" gorm:"type:date;not null;uniqueIndex:idx_daily_stats_service_date"`
	TotalChecks       int       `json:"total_checks"`
	SuccessfulChecks  int       `json:"successful_checks"`
	FailedChecks      int       `json:"failed_checks"`
	AvgResponseTimeMs int       `json:"avg_response_time_ms"`
	UptimePercentage  float64   `json:"uptime_percentage" gorm:"type:numeric(6,3)"`
	CreatedAt         time.Time `json:"created_at"`
}

// TableName specifies the table name for DailyStat
func (DailyStat) TableName() string {
	return "status_daily_stats"
}
