package models

import (
	"time"

	"github.com/lib/pq"
)

// Maintenance is a pre-announced planned-downtime window. Its status
// advances purely by time comparison in the scheduler.
type Maintenance struct {
	ID               int               `json:"id" gorm:"primaryKey;autoIncrement"`
	Title            string            `json:"title" gorm:"not null"`
	Description      string            `json:"description" gorm:"type:text"`
	AffectedServices pq.Int64Array     `json:"affected_services" gorm:"type:integer[]"`
	ScheduledStart   time.Time         `json:"scheduled_start" gorm:"not null"`
	ScheduledEnd     time.Time         `json:"scheduled_end" gorm:"not null"`
	Status           MaintenanceStatus `json:"status" gorm:"type:varchar(20);not null;default:'scheduled';index"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// TableName specifies the table name for Maintenance
func (Maintenance) TableName() string {
	return "status_maintenances"
}
