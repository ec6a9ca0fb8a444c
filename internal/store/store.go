// Package store is the persistence layer for the status engine:
// checks, daily stats, incidents, maintenances, subscribers and the
// notification log.
package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/zapdesk/statusd/internal/config"
	"github.com/zapdesk/statusd/internal/models"
	"github.com/zapdesk/statusd/internal/probe"
)

// Store wraps the database with the status engine's persistence
// contract. Failures propagate to the caller; the scheduler decides
// what to log.
type Store struct {
	db        *gorm.DB
	retention config.RetentionConfig
}

// New creates a store.
func New(db *gorm.DB, retention config.RetentionConfig) *Store {
	return &Store{db: db, retention: retention}
}

// ServiceBySlug returns the service with the given slug, or nil when
// no such service exists.
func (s *Store) ServiceBySlug(ctx context.Context, slug string) (*models.Service, error) {
	var service models.Service
	err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&service).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &service, nil
}

// EnabledServices returns all enabled services in display order.
func (s *Store) EnabledServices(ctx context.Context) ([]models.Service, error) {
	var services []models.Service
	err := s.db.WithContext(ctx).
		Where("enabled = ?", true).
		Order("display_order").
		Find(&services).Error
	return services, err
}

// RecordCheck appends a check for the service with the given slug. An
// unknown slug is a silent no-op, not an error.
func (s *Store) RecordCheck(ctx context.Context, slug string, result probe.Result) error {
	service, err := s.ServiceBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if service == nil {
		return nil
	}

	check := models.Check{
		ServiceID:      service.ID,
		Status:         result.Status,
		ResponseTimeMs: result.ResponseTimeMs,
		HTTPCode:       result.HTTPCode,
		ErrorMessage:   result.Err,
		CheckedAt:      time.Now().UTC(),
	}

	return s.db.WithContext(ctx).Create(&check).Error
}

// ServiceStatus is one row of the current-status view.
type ServiceStatus struct {
	ID             int                `json:"id"`
	Slug           string             `json:"slug"`
	Name           string             `json:"name"`
	Description    string             `json:"description"`
	Status         models.CheckStatus `json:"status,omitempty"`
	ResponseTimeMs int                `json:"response_time_ms"`
	CheckedAt      *time.Time         `json:"checked_at,omitempty"`
}

// CurrentStatus returns the latest check per enabled service, ordered
// by display order. Services without any check yet have empty status.
func (s *Store) CurrentStatus(ctx context.Context) ([]ServiceStatus, error) {
	var rows []ServiceStatus

	query := `
		SELECT DISTINCT ON (s.id)
			s.id, s.slug, s.name, s.description,
			c.status, c.response_time_ms, c.checked_at
		FROM status_services s
		LEFT JOIN status_checks c ON c.service_id = s.id
		WHERE s.enabled = true
		ORDER BY s.id, c.checked_at DESC
	`

	if err := s.db.WithContext(ctx).Raw(query).Scan(&rows).Error; err != nil {
		return nil, err
	}

	// DISTINCT ON forces ordering by id first; restore display order.
	ordered, err := s.EnabledServices(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[int]ServiceStatus, len(rows))
	for _, r := range rows {
		byID[r.ID] = r
	}
	out := make([]ServiceStatus, 0, len(ordered))
	for _, svc := range ordered {
		if r, ok := byID[svc.ID]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

// Settings returns the key/value settings surface.
func (s *Store) Settings(ctx context.Context) (map[string]string, error) {
	var rows []models.Setting
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}

	settings := make(map[string]string, len(rows))
	for _, row := range rows {
		settings[row.Key] = row.Value
	}
	return settings, nil
}

// newToken returns an unguessable 64-char hex token.
func newToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
