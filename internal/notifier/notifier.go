// Package notifier resolves the subscriber audience for a status event
// and fans the message out across delivery channels, logging every
// attempt.
package notifier

import (
	"context"
	"log"
	"strings"

	"github.com/zapdesk/statusd/internal/models"
)

const (
	// Notification log types.
	TypeIncidentCreated      = "incident_created"
	TypeIncidentResolved     = "incident_resolved"
	TypeMaintenanceScheduled = "maintenance_scheduled"
)

// Storage is the slice of the result store the notifier needs.
type Storage interface {
	SettingsSource
	VerifiedSubscribers(ctx context.Context) ([]models.Subscriber, error)
	LogNotification(ctx context.Context, subscriberID int, incidentID, maintenanceID *int, notificationType string, channel models.Channel, sent bool) error
}

// Notifier dispatches status notifications to subscribers.
type Notifier struct {
	store    Storage
	email    Channel
	telegram Channel
}

// New creates a notifier with the standard channel pair.
func New(store Storage) *Notifier {
	return &Notifier{
		store:    store,
		email:    NewEmailChannel(store),
		telegram: NewTelegramChannel(),
	}
}

// NewWithChannels creates a notifier with explicit channels.
func NewWithChannels(store Storage, email, telegram Channel) *Notifier {
	return &Notifier{store: store, email: email, telegram: telegram}
}

// Eligible reports whether a subscriber should be notified about an
// incident of the given severity on the given service. Note that
// outage_only and major_only intentionally share the same severity
// test, matching the product's existing behavior.
func Eligible(sub *models.Subscriber, serviceID int, severity models.IncidentSeverity) bool {
	if !sub.Verified {
		return false
	}
	if !sub.SubscribedTo(serviceID) {
		return false
	}

	switch sub.NotifyOn {
	case models.NotifyAll:
		return true
	case models.NotifyOutageOnly, models.NotifyMajorOnly:
		return severity == models.SeverityMajor || severity == models.SeverityCritical
	}
	return false
}

// IncidentCreated notifies the audience that an incident was opened.
func (n *Notifier) IncidentCreated(ctx context.Context, incident *models.Incident, service *models.Service) {
	n.notifyIncident(ctx, incident, service, TypeIncidentCreated)
}

// IncidentResolved notifies the audience that an incident was closed.
func (n *Notifier) IncidentResolved(ctx context.Context, incident *models.Incident, service *models.Service) {
	n.notifyIncident(ctx, incident, service, TypeIncidentResolved)
}

func (n *Notifier) notifyIncident(ctx context.Context, incident *models.Incident, service *models.Service, notificationType string) {
	subscribers, err := n.store.VerifiedSubscribers(ctx)
	if err != nil {
		log.Printf("[notifier] failed to load subscribers: %v", err)
		return
	}

	settings, err := n.store.Settings(ctx)
	if err != nil {
		log.Printf("[notifier] failed to load settings: %v", err)
		return
	}
	b := brandingFrom(settings)

	for i := range subscribers {
		sub := &subscribers[i]
		if !Eligible(sub, service.ID, incident.Severity) {
			continue
		}

		var subject, body string
		switch notificationType {
		case TypeIncidentCreated:
			subject = incidentCreatedSubject(b, service.Name, incident.Title)
			body = incidentCreatedBody(b, incident, service.Name, sub.UnsubscribeToken)
		case TypeIncidentResolved:
			subject = incidentResolvedSubject(b, service.Name)
			body = incidentResolvedBody(b, incident, service.Name)
		}

		if sub.NotifyEmail && sub.Email != "" {
			n.deliver(ctx, n.email, sub.ID, sub.Email, subject, body, &incident.ID, nil, notificationType)
		}
		if sub.NotifyTelegram && sub.TelegramChatID != "" {
			n.deliver(ctx, n.telegram, sub.ID, sub.TelegramChatID, subject, body, &incident.ID, nil, notificationType)
		}
	}
}

// MaintenanceScheduled announces a maintenance window to every
// verified subscriber, regardless of service and severity filters.
func (n *Notifier) MaintenanceScheduled(ctx context.Context, m *models.Maintenance, serviceNames []string) {
	subscribers, err := n.store.VerifiedSubscribers(ctx)
	if err != nil {
		log.Printf("[notifier] failed to load subscribers: %v", err)
		return
	}

	settings, err := n.store.Settings(ctx)
	if err != nil {
		log.Printf("[notifier] failed to load settings: %v", err)
		return
	}
	b := brandingFrom(settings)

	affected := "All services"
	if len(serviceNames) > 0 {
		affected = strings.Join(serviceNames, ", ")
	}

	subject := maintenanceSubject(b, m.Title)
	body := maintenanceBody(b, m, affected)

	for i := range subscribers {
		sub := &subscribers[i]
		if sub.NotifyEmail && sub.Email != "" {
			n.deliver(ctx, n.email, sub.ID, sub.Email, subject, body, nil, &m.ID, TypeMaintenanceScheduled)
		}
	}
}

// SendVerification mails the double-opt-in confirmation link to a
// fresh subscriber. The attempt is not logged; the subscriber is not
// verified yet.
func (n *Notifier) SendVerification(ctx context.Context, sub *models.Subscriber) error {
	if sub.Email == "" || sub.VerificationToken == nil {
		return nil
	}

	settings, err := n.store.Settings(ctx)
	if err != nil {
		return err
	}
	b := brandingFrom(settings)

	return n.email.Send(ctx, sub.Email, verificationSubject(b), verificationBody(b, *sub.VerificationToken))
}

// deliver sends over one channel and records the attempt. A failed
// send is logged and recorded but never aborts the rest of the fan-out.
func (n *Notifier) deliver(ctx context.Context, ch Channel, subscriberID int, recipient, subject, body string, incidentID, maintenanceID *int, notificationType string) {
	err := ch.Send(ctx, recipient, subject, body)
	if err != nil {
		log.Printf("[notifier] %s delivery to subscriber %d failed: %v", ch.Name(), subscriberID, err)
	}

	if logErr := n.store.LogNotification(ctx, subscriberID, incidentID, maintenanceID, notificationType, ch.Name(), err == nil); logErr != nil {
		log.Printf("[notifier] failed to log notification for subscriber %d: %v", subscriberID, logErr)
	}
}
