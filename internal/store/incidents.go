package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/zapdesk/statusd/internal/models"
)

// IncidentWithService pairs an incident with its service names for
// the read accessors.
type IncidentWithService struct {
	models.Incident
	ServiceName string `json:"service_name"`
	ServiceSlug string `json:"service_slug"`
}

// CreateIncident opens an incident and seeds its audit trail with an
// initial "investigating" update, atomically.
func (s *Store) CreateIncident(ctx context.Context, serviceID int, title, description string, severity models.IncidentSeverity) (*models.Incident, error) {
	incident := models.Incident{
		ServiceID:   serviceID,
		Title:       title,
		Description: description,
		Severity:    severity,
		Status:      models.IncidentInvestigating,
		StartedAt:   time.Now().UTC(),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&incident).Error; err != nil {
			return err
		}

		update := models.IncidentUpdate{
			IncidentID: incident.ID,
			Status:     models.IncidentInvestigating,
			Message:    "Incident detected. Investigating.",
		}
		return tx.Create(&update).Error
	})
	if err != nil {
		return nil, err
	}

	return &incident, nil
}

// UpdateIncident appends an update to the incident's audit trail and
// advances its status. Transitioning to resolved stamps resolved_at.
func (s *Store) UpdateIncident(ctx context.Context, incidentID int, status models.IncidentStatus, message string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":     status,
			"updated_at": time.Now().UTC(),
		}
		if status == models.IncidentResolved {
			updates["resolved_at"] = time.Now().UTC()
		}

		if err := tx.Model(&models.Incident{}).Where("id = ?", incidentID).Updates(updates).Error; err != nil {
			return err
		}

		update := models.IncidentUpdate{
			IncidentID: incidentID,
			Status:     status,
			Message:    message,
		}
		return tx.Create(&update).Error
	})
}

// ActiveIncidents returns all unresolved incidents, newest first, with
// service names attached.
func (s *Store) ActiveIncidents(ctx context.Context) ([]IncidentWithService, error) {
	var incidents []models.Incident
	err := s.db.WithContext(ctx).
		Where("status <> ?", models.IncidentResolved).
		Order("started_at DESC").
		Find(&incidents).Error
	if err != nil {
		return nil, err
	}
	return s.attachServices(ctx, incidents)
}

// ActiveIncidentsByService returns all unresolved incidents for one service.
func (s *Store) ActiveIncidentsByService(ctx context.Context, serviceID int) ([]models.Incident, error) {
	var incidents []models.Incident
	err := s.db.WithContext(ctx).
		Where("service_id = ? AND status <> ?", serviceID, models.IncidentResolved).
		Find(&incidents).Error
	return incidents, err
}

// IncidentHistory returns the most recent incidents, resolved or not.
func (s *Store) IncidentHistory(ctx context.Context, limit int) ([]IncidentWithService, error) {
	var incidents []models.Incident
	err := s.db.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&incidents).Error
	if err != nil {
		return nil, err
	}
	return s.attachServices(ctx, incidents)
}

// IncidentByID returns one incident with service names, or nil when it
// does not exist.
func (s *Store) IncidentByID(ctx context.Context, id int) (*IncidentWithService, error) {
	var incident models.Incident
	err := s.db.WithContext(ctx).First(&incident, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.attachServices(ctx, []models.Incident{incident})
	if err != nil {
		return nil, err
	}
	return &rows[0], nil
}

// IncidentUpdates returns an incident's audit trail, oldest first.
func (s *Store) IncidentUpdates(ctx context.Context, incidentID int) ([]models.IncidentUpdate, error) {
	var updates []models.IncidentUpdate
	err := s.db.WithContext(ctx).
		Where("incident_id = ?", incidentID).
		Order("created_at ASC").
		Find(&updates).Error
	return updates, err
}

func (s *Store) attachServices(ctx context.Context, incidents []models.Incident) ([]IncidentWithService, error) {
	var services []models.Service
	if err := s.db.WithContext(ctx).Find(&services).Error; err != nil {
		return nil, err
	}

	byID := make(map[int]models.Service, len(services))
	for _, svc := range services {
		byID[svc.ID] = svc
	}

	rows := make([]IncidentWithService, 0, len(incidents))
	for _, inc := range incidents {
		row := IncidentWithService{Incident: inc}
		if svc, ok := byID[inc.ServiceID]; ok {
			row.ServiceName = svc.Name
			row.ServiceSlug = svc.Slug
		}
		rows = append(rows, row)
	}
	return rows, nil
}
