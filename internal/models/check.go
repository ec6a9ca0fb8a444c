package models

import "time"

// Check is a single probe execution result. Rows are append-only and
// purged after the retention window.
type Check struct {
	ID             int         `json:"id" gorm:"primaryKey;autoIncrement"`
	ServiceID      int         `json:"service_id" gorm:"not null;index:idx_checks_service_time"`
	Status         CheckStatus `json:"status" gorm:"type:varchar(20);not null"`
	ResponseTimeMs int         `json:"response_time_ms"`
	HTTPCode       *int        `json:"http_code,omitempty"`
	ErrorMessage   string      `json:"error_message,omitempty" gorm:"type:text"`
	CheckedAt      time.Time   `json:"checked_at" gorm:"not null;index:idx_checks_service_time"`
}

// TableName specifies the table name for Check
func (Check) TableName() string {
	return "status_checks"
}
