package models

import "time"

// Notification is the write-once log of one delivery attempt to one
// subscriber over one channel.
type Notification struct {
	ID            int            `json:"id" gorm:"primaryKey;autoIncrement"`
	SubscriberID  int            `json:"subscriber_id" gorm:"not null;index"`
	IncidentID    *int           `json:"incident_id,omitempty" gorm:"index"`
	MaintenanceID *int           `json:"maintenance_id,omitempty"`
	Type          string         `json:"type" gorm:"not null"` // incident_created, incident_resolved, maintenance_scheduled
	Channel       Channel        `json:"channel" gorm:"type:varchar(20);not null"`
	Status        DeliveryStatus `json:"status" gorm:"type:varchar(20);not null"`
	SentAt        *time.Time     `json:"sent_at,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

// TableName specifies the table name for Notification
func (Notification) TableName() string {
	return "status_notifications"
}
