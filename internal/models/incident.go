package models

import "time"

// Incident is a tracked episode of non-operational status for a service.
type Incident struct {
	ID          int              `json:"id" gorm:"primaryKey;autoIncrement"`
	ServiceID   int              `json:"service_id" gorm:"not null;index"`
	Title       string           `json:"title" gorm:"not null"`
	Description string           `json:"description" gorm:"type:text"`
	Severity    IncidentSeverity `json:"severity" gorm:"type:varchar(20);not null;default:'minor'"`
	Status      IncidentStatus   `json:"status" gorm:"type:varchar(20);not null;default:'investigating';index"`
	StartedAt   time.Time        `json:"started_at" gorm:"not null"`
	UpdatedAt   time.Time        `json:"updated_at"`
	ResolvedAt  *time.Time       `json:"resolved_at,omitempty"`
}

// TableName specifies the table name for Incident
func (Incident) TableName() string {
	return "status_incidents"
}

// IsResolved reports whether the incident has been closed.
func (i *Incident) IsResolved() bool {
	return i.Status == IncidentResolved
}

// Duration returns how long the incident has been (or was) open.
func (i *Incident) Duration() time.Duration {
	if i.ResolvedAt != nil {
		return i.ResolvedAt.Sub(i.StartedAt)
	}
	return time.Since(i.StartedAt)
}

// IncidentUpdate is one entry in an incident's narrated audit trail.
// Rows are immutable once written.
type IncidentUpdate struct {
	ID         int            `json:"id" gorm:"primaryKey;autoIncrement"`
	IncidentID int            `json:"incident_id" gorm:"not null;index"`
	Status     IncidentStatus `json:"status" gorm:"type:varchar(20);not null"`
	Message    string         `json:"message" gorm:"type:text"`
	CreatedAt  time.Time      `json:"created_at"`
}

// TableName specifies the table name for IncidentUpdate
func (IncidentUpdate) TableName() string {
	return "status_incident_updates"
}
