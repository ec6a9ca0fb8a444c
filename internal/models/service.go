package models

import "time"

// Service is a monitored platform subsystem. Rows are seeded by migration
// and treated as read-only configuration at runtime.
type Service struct {
	ID           int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Slug         string    `json:"slug" gorm:"not null;uniqueIndex"`
	Name         string    `json:"name" gorm:"not null"`
	Description  string    `json:"description" gorm:"type:text"`
	Enabled      bool      `json:"enabled" gorm:"default:true;index"`
	DisplayOrder int       `json:"display_order" gorm:"default:0"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName specifies the table name for Service
func (Service) TableName() string {
	return "status_services"
}
