package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/lib/pq"

	"github.com/zapdesk/statusd/internal/models"
)

// NewSubscriber holds the caller-supplied fields of a signup.
type NewSubscriber struct {
	Email          string
	TelegramChatID string
	NotifyOn       models.NotifyPolicy
	Services       []int
}

// CreateSubscriber persists an unverified subscriber with two distinct
// freshly generated tokens. At least one contact channel is required.
func (s *Store) CreateSubscriber(ctx context.Context, params NewSubscriber) (*models.Subscriber, error) {
	if params.Email == "" && params.TelegramChatID == "" {
		return nil, errors.New("subscriber needs at least one contact channel")
	}

	verificationToken, err := newToken()
	if err != nil {
		return nil, err
	}
	unsubscribeToken, err := newToken()
	if err != nil {
		return nil, err
	}

	notifyOn := params.NotifyOn
	if notifyOn == "" {
		notifyOn = models.NotifyAll
	}

	services := make(pq.Int64Array, 0, len(params.Services))
	for _, id := range params.Services {
		services = append(services, int64(id))
	}

	subscriber := models.Subscriber{
		Email:             params.Email,
		TelegramChatID:    params.TelegramChatID,
		NotifyEmail:       params.Email != "",
		NotifyTelegram:    params.TelegramChatID != "",
		NotifyOn:          notifyOn,
		Services:          services,
		Verified:          false,
		VerificationToken: &verificationToken,
		UnsubscribeToken:  unsubscribeToken,
	}

	if err := s.db.WithContext(ctx).Create(&subscriber).Error; err != nil {
		return nil, err
	}
	return &subscriber, nil
}

// VerifySubscriber consumes a verification token: the subscriber is
// marked verified and the token cleared. A token that was already
// consumed matches nothing and returns nil without error.
func (s *Store) VerifySubscriber(ctx context.Context, token string) (*models.Subscriber, error) {
	var subscriber models.Subscriber
	err := s.db.WithContext(ctx).
		Where("verification_token = ?", token).
		First(&subscriber).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).
		Model(&subscriber).
		Updates(map[string]interface{}{
			"verified":           true,
			"verification_token": nil,
		}).Error
	if err != nil {
		return nil, err
	}

	subscriber.Verified = true
	subscriber.VerificationToken = nil
	return &subscriber, nil
}

// Unsubscribe deletes the subscriber holding the given unsubscribe
// token. It reports whether a row was removed.
func (s *Store) Unsubscribe(ctx context.Context, token string) (bool, error) {
	result := s.db.WithContext(ctx).
		Where("unsubscribe_token = ?", token).
		Delete(&models.Subscriber{})
	return result.RowsAffected > 0, result.Error
}

// SubscriberByEmail returns the subscriber with the given email, or
// nil when none exists.
func (s *Store) SubscriberByEmail(ctx context.Context, email string) (*models.Subscriber, error) {
	var subscriber models.Subscriber
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&subscriber).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &subscriber, nil
}

// VerifiedSubscribers returns every verified subscriber. Audience
// filtering happens in the notifier.
func (s *Store) VerifiedSubscribers(ctx context.Context) ([]models.Subscriber, error) {
	var subscribers []models.Subscriber
	err := s.db.WithContext(ctx).Where("verified = ?", true).Find(&subscribers).Error
	return subscribers, err
}

// LogNotification records one delivery attempt in the write-once log.
func (s *Store) LogNotification(ctx context.Context, subscriberID int, incidentID, maintenanceID *int, notificationType string, channel models.Channel, sent bool) error {
	notification := models.Notification{
		SubscriberID:  subscriberID,
		IncidentID:    incidentID,
		MaintenanceID: maintenanceID,
		Type:          notificationType,
		Channel:       channel,
		Status:        models.DeliveryFailed,
	}
	if sent {
		now := time.Now().UTC()
		notification.Status = models.DeliverySent
		notification.SentAt = &now
	}

	return s.db.WithContext(ctx).Create(&notification).Error
}
