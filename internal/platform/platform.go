// Package platform adapts the messaging platform's own tables and
// endpoints to the capability interfaces consumed by the probe set.
package platform

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ConnectionRegistry reads the provider connection table.
type ConnectionRegistry struct {
	db *gorm.DB
}

// NewConnectionRegistry creates a registry over the platform database.
func NewConnectionRegistry(db *gorm.DB) *ConnectionRegistry {
	return &ConnectionRegistry{db: db}
}

// Connections returns total and connected instance counts.
func (r *ConnectionRegistry) Connections(ctx context.Context) (int, int, error) {
	var counts struct {
		Total     int `gorm:"column:total"`
		Connected int `gorm:"column:connected"`
	}

	query := `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE connected) AS connected
		FROM whatsapp_instances
	`

	err := r.db.WithContext(ctx).Raw(query).Scan(&counts).Error
	if err != nil {
		return 0, 0, err
	}

	return counts.Total, counts.Connected, nil
}

// DeliveryLog reads the webhook attempt log.
type DeliveryLog struct {
	db *gorm.DB
}

// NewDeliveryLog creates a delivery log over the platform database.
func NewDeliveryLog(db *gorm.DB) *DeliveryLog {
	return &DeliveryLog{db: db}
}

// RecentAttempts returns success/failure counts inside the trailing window.
func (l *DeliveryLog) RecentAttempts(ctx context.Context, window time.Duration) (int, int, error) {
	var counts struct {
		Success int `gorm:"column:success"`
		Failed  int `gorm:"column:failed"`
	}

	query := `
		SELECT
			COUNT(*) FILTER (WHERE status = 'success') AS success,
			COUNT(*) FILTER (WHERE status = 'failed') AS failed
		FROM webhook_logs
		WHERE created_at > ?
	`

	cutoff := time.Now().UTC().Add(-window)
	err := l.db.WithContext(ctx).Raw(query, cutoff).Scan(&counts).Error
	if err != nil {
		return 0, 0, err
	}

	return counts.Success, counts.Failed, nil
}

// DispatchQueue reads the scheduled-message store.
type DispatchQueue struct {
	db *gorm.DB
}

// NewDispatchQueue creates a dispatch queue over the platform database.
func NewDispatchQueue(db *gorm.DB) *DispatchQueue {
	return &DispatchQueue{db: db}
}

// StuckCount returns pending messages past due by more than grace.
func (q *DispatchQueue) StuckCount(ctx context.Context, grace time.Duration) (int, error) {
	var stuck int

	query := `
		SELECT COUNT(*)
		FROM scheduled_messages
		WHERE status = 'pending' AND scheduled_time < ?
	`

	cutoff := time.Now().UTC().Add(-grace)
	err := q.db.WithContext(ctx).Raw(query, cutoff).Scan(&stuck).Error
	if err != nil {
		return 0, err
	}

	return stuck, nil
}

// CampaignBoard reads the broadcast-campaign store.
type CampaignBoard struct {
	db *gorm.DB
}

// NewCampaignBoard creates a campaign board over the platform database.
func NewCampaignBoard(db *gorm.DB) *CampaignBoard {
	return &CampaignBoard{db: db}
}

// LongRunning returns campaigns running longer than bound.
func (b *CampaignBoard) LongRunning(ctx context.Context, bound time.Duration) (int, error) {
	var stuck int

	query := `
		SELECT COUNT(*)
		FROM broadcast_campaigns
		WHERE status = 'running' AND started_at < ?
	`

	cutoff := time.Now().UTC().Add(-bound)
	err := b.db.WithContext(ctx).Raw(query, cutoff).Scan(&stuck).Error
	if err != nil {
		return 0, err
	}

	return stuck, nil
}

// RedisPinger pings the cache/broker endpoint.
type RedisPinger struct {
	client *redis.Client
}

// NewRedisPinger creates a pinger for the given endpoint.
func NewRedisPinger(addr, password string, db int) *RedisPinger {
	return &RedisPinger{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

// Ping issues a single PING.
func (p *RedisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

// Close releases the underlying client.
func (p *RedisPinger) Close() error {
	return p.client.Close()
}
