package models

// CheckStatus is the normalized outcome of a single health probe.
type CheckStatus string

const (
	StatusOperational CheckStatus = "operational"
	StatusDegraded    CheckStatus = "degraded"
	StatusOutage      CheckStatus = "outage"
	StatusUnknown     CheckStatus = "unknown"
)

// IsOperational reports whether the status counts as healthy for
// transition detection and uptime accounting.
func (s CheckStatus) IsOperational() bool {
	return s == StatusOperational
}

// Valid reports whether s is one of the known check statuses.
func (s CheckStatus) Valid() bool {
	switch s {
	case StatusOperational, StatusDegraded, StatusOutage, StatusUnknown:
		return true
	}
	return false
}

// IncidentSeverity classifies how badly a service is affected.
type IncidentSeverity string

const (
	SeverityMinor    IncidentSeverity = "minor"
	SeverityMajor    IncidentSeverity = "major"
	SeverityCritical IncidentSeverity = "critical"
)

// IncidentStatus is the lifecycle state of an incident.
type IncidentStatus string

const (
	IncidentInvestigating IncidentStatus = "investigating"
	IncidentIdentified    IncidentStatus = "identified"
	IncidentMonitoring    IncidentStatus = "monitoring"
	IncidentResolved      IncidentStatus = "resolved"
)

// MaintenanceStatus is the lifecycle state of a maintenance window.
type MaintenanceStatus string

const (
	MaintenanceScheduled  MaintenanceStatus = "scheduled"
	MaintenanceInProgress MaintenanceStatus = "in_progress"
	MaintenanceCompleted  MaintenanceStatus = "completed"
)

// NotifyPolicy is a subscriber's severity filter.
type NotifyPolicy string

const (
	NotifyAll        NotifyPolicy = "all"
	NotifyOutageOnly NotifyPolicy = "outage_only"
	NotifyMajorOnly  NotifyPolicy = "major_only"
)

// Channel is a notification delivery channel.
type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelTelegram Channel = "telegram"
)

// DeliveryStatus records the outcome of one notification attempt.
type DeliveryStatus string

const (
	DeliverySent   DeliveryStatus = "sent"
	DeliveryFailed DeliveryStatus = "failed"
)
