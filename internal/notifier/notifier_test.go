package notifier

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lib/pq"

	"github.com/zapdesk/statusd/internal/models"
)

func TestEligible(t *testing.T) {
	tests := []struct {
		name      string
		sub       models.Subscriber
		serviceID int
		severity  models.IncidentSeverity
		want      bool
	}{
		{
			name:      "unverified never eligible",
			sub:       models.Subscriber{Verified: false, NotifyOn: models.NotifyAll},
			serviceID: 1,
			severity:  models.SeverityCritical,
			want:      false,
		},
		{
			name:      "all policy matches minor",
			sub:       models.Subscriber{Verified: true, NotifyOn: models.NotifyAll},
			serviceID: 1,
			severity:  models.SeverityMinor,
			want:      true,
		},
		{
			name:      "outage_only skips minor",
			sub:       models.Subscriber{Verified: true, NotifyOn: models.NotifyOutageOnly},
			serviceID: 1,
			severity:  models.SeverityMinor,
			want:      false,
		},
		{
			name:      "outage_only matches major",
			sub:       models.Subscriber{Verified: true, NotifyOn: models.NotifyOutageOnly},
			serviceID: 1,
			severity:  models.SeverityMajor,
			want:      true,
		},
		{
			name:      "outage_only matches critical",
			sub:       models.Subscriber{Verified: true, NotifyOn: models.NotifyOutageOnly},
			serviceID: 1,
			severity:  models.SeverityCritical,
			want:      true,
		},
		{
			name:      "major_only skips minor",
			sub:       models.Subscriber{Verified: true, NotifyOn: models.NotifyMajorOnly},
			serviceID: 1,
			severity:  models.SeverityMinor,
			want:      false,
		},
		{
			name:      "major_only matches critical",
			sub:       models.Subscriber{Verified: true, NotifyOn: models.NotifyMajorOnly},
			serviceID: 1,
			severity:  models.SeverityCritical,
			want:      true,
		},
		{
			name:      "empty services list covers every service",
			sub:       models.Subscriber{Verified: true, NotifyOn: models.NotifyAll, Services: nil},
			serviceID: 42,
			severity:  models.SeverityMinor,
			want:      true,
		},
		{
			name:      "explicit service list matches member",
			sub:       models.Subscriber{Verified: true, NotifyOn: models.NotifyAll, Services: pq.Int64Array{1, 2}},
			serviceID: 2,
			severity:  models.SeverityMinor,
			want:      true,
		},
		{
			name:      "explicit service list skips non-member",
			sub:       models.Subscriber{Verified: true, NotifyOn: models.NotifyAll, Services: pq.Int64Array{1, 2}},
			serviceID: 3,
			severity:  models.SeverityCritical,
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Eligible(&tt.sub, tt.serviceID, tt.severity)
			if got != tt.want {
				t.Errorf("Eligible = %v, want %v", got, tt.want)
			}
		})
	}
}

type loggedAttempt struct {
	subscriberID int
	channel      models.Channel
	sent         bool
	kind         string
}

type fakeStorage struct {
	subscribers []models.Subscriber
	settings    map[string]string
	attempts    []loggedAttempt
}

func (f *fakeStorage) Settings(ctx context.Context) (map[string]string, error) {
	if f.settings == nil {
		return map[string]string{}, nil
	}
	return f.settings, nil
}

func (f *fakeStorage) VerifiedSubscribers(ctx context.Context) ([]models.Subscriber, error) {
	return f.subscribers, nil
}

func (f *fakeStorage) LogNotification(ctx context.Context, subscriberID int, incidentID, maintenanceID *int, notificationType string, channel models.Channel, sent bool) error {
	f.attempts = append(f.attempts, loggedAttempt{
		subscriberID: subscriberID,
		channel:      channel,
		sent:         sent,
		kind:         notificationType,
	})
	return nil
}

type fakeChannel struct {
	name    models.Channel
	failFor map[string]error
	sent    []string
}

func (c *fakeChannel) Name() models.Channel { return c.name }

func (c *fakeChannel) Send(ctx context.Context, recipient, subject, body string) error {
	if err, ok := c.failFor[recipient]; ok {
		return err
	}
	c.sent = append(c.sent, recipient)
	return nil
}

func testIncident() (*models.Incident, *models.Service) {
	incident := &models.Incident{
		ID:        7,
		ServiceID: 1,
		Title:     "api having issues",
		Severity:  models.SeverityCritical,
		Status:    models.IncidentInvestigating,
		StartedAt: time.Now(),
	}
	service := &models.Service{ID: 1, Slug: "api", Name: "API"}
	return incident, service
}

func TestIncidentCreatedFanOut(t *testing.T) {
	store := &fakeStorage{
		subscribers: []models.Subscriber{
			{ID: 1, Email: "a@example.com", NotifyEmail: true, NotifyOn: models.NotifyAll, Verified: true, UnsubscribeToken: "tok-a"},
			{ID: 2, Email: "b@example.com", NotifyEmail: true, NotifyOn: models.NotifyAll, Verified: true, UnsubscribeToken: "tok-b"},
			{ID: 3, Email: "c@example.com", NotifyEmail: true, NotifyOn: models.NotifyAll, Verified: true, UnsubscribeToken: "tok-c", Services: pq.Int64Array{99}},
		},
	}
	email := &fakeChannel{name: models.ChannelEmail}
	n := NewWithChannels(store, email, &fakeChannel{name: models.ChannelTelegram})

	incident, service := testIncident()
	n.IncidentCreated(context.Background(), incident, service)

	if len(email.sent) != 2 {
		t.Fatalf("sent to %d recipients, want 2; got %v", len(email.sent), email.sent)
	}
	if len(store.attempts) != 2 {
		t.Fatalf("logged %d attempts, want 2", len(store.attempts))
	}
	for _, a := range store.attempts {
		if !a.sent {
			t.Errorf("attempt for subscriber %d logged as failed", a.subscriberID)
		}
		if a.kind != TypeIncidentCreated {
			t.Errorf("attempt kind = %q, want %q", a.kind, TypeIncidentCreated)
		}
	}
}

func TestIncidentCreatedIsolatesFailures(t *testing.T) {
	store := &fakeStorage{
		subscribers: []models.Subscriber{
			{ID: 1, Email: "a@example.com", NotifyEmail: true, NotifyOn: models.NotifyAll, Verified: true, UnsubscribeToken: "tok-a"},
			{ID: 2, Email: "b@example.com", NotifyEmail: true, NotifyOn: models.NotifyAll, Verified: true, UnsubscribeToken: "tok-b"},
		},
	}
	email := &fakeChannel{
		name:    models.ChannelEmail,
		failFor: map[string]error{"a@example.com": errors.New("smtp refused")},
	}
	n := NewWithChannels(store, email, &fakeChannel{name: models.ChannelTelegram})

	incident, service := testIncident()
	n.IncidentCreated(context.Background(), incident, service)

	if len(email.sent) != 1 || email.sent[0] != "b@example.com" {
		t.Errorf("delivery after the failure did not proceed: %v", email.sent)
	}
	if len(store.attempts) != 2 {
		t.Fatalf("logged %d attempts, want 2 including the failure", len(store.attempts))
	}
	if store.attempts[0].sent {
		t.Error("failed delivery logged as sent")
	}
	if !store.attempts[1].sent {
		t.Error("successful delivery logged as failed")
	}
}

func TestIncidentResolvedUsesResolvedType(t *testing.T) {
	store := &fakeStorage{
		subscribers: []models.Subscriber{
			{ID: 1, Email: "a@example.com", NotifyEmail: true, NotifyOn: models.NotifyAll, Verified: true, UnsubscribeToken: "tok-a"},
		},
	}
	email := &fakeChannel{name: models.ChannelEmail}
	n := NewWithChannels(store, email, &fakeChannel{name: models.ChannelTelegram})

	incident, service := testIncident()
	resolvedAt := time.Now()
	incident.Status = models.IncidentResolved
	incident.ResolvedAt = &resolvedAt

	n.IncidentResolved(context.Background(), incident, service)

	if len(store.attempts) != 1 {
		t.Fatalf("logged %d attempts, want 1", len(store.attempts))
	}
	if store.attempts[0].kind != TypeIncidentResolved {
		t.Errorf("attempt kind = %q, want %q", store.attempts[0].kind, TypeIncidentResolved)
	}
}

func TestMaintenanceScheduledIgnoresFilters(t *testing.T) {
	store := &fakeStorage{
		subscribers: []models.Subscriber{
			{ID: 1, Email: "a@example.com", NotifyEmail: true, NotifyOn: models.NotifyOutageOnly, Verified: true, Services: pq.Int64Array{99}, UnsubscribeToken: "tok-a"},
			{ID: 2, TelegramChatID: "123", NotifyTelegram: true, NotifyOn: models.NotifyAll, Verified: true, UnsubscribeToken: "tok-b"},
		},
	}
	email := &fakeChannel{name: models.ChannelEmail}
	n := NewWithChannels(store, email, &fakeChannel{name: models.ChannelTelegram})

	m := &models.Maintenance{
		ID:             3,
		Title:          "Database upgrade",
		Status:         models.MaintenanceScheduled,
		ScheduledStart: time.Now().Add(time.Hour),
		ScheduledEnd:   time.Now().Add(2 * time.Hour),
	}
	n.MaintenanceScheduled(context.Background(), m, []string{"Database"})

	// Maintenance announcements go to every verified subscriber with an
	// email address, bypassing service and severity filters.
	if len(email.sent) != 1 || email.sent[0] != "a@example.com" {
		t.Errorf("maintenance mail recipients = %v", email.sent)
	}
	if len(store.attempts) != 1 {
		t.Fatalf("logged %d attempts, want 1", len(store.attempts))
	}
	if store.attempts[0].kind != TypeMaintenanceScheduled {
		t.Errorf("attempt kind = %q, want %q", store.attempts[0].kind, TypeMaintenanceScheduled)
	}
}

func TestSendVerification(t *testing.T) {
	token := "abc123"
	store := &fakeStorage{}
	email := &fakeChannel{name: models.ChannelEmail}
	n := NewWithChannels(store, email, &fakeChannel{name: models.ChannelTelegram})

	t.Run("sends to fresh subscriber", func(t *testing.T) {
		sub := &models.Subscriber{Email: "a@example.com", VerificationToken: &token}
		if err := n.SendVerification(context.Background(), sub); err != nil {
			t.Fatalf("SendVerification: %v", err)
		}
		if len(email.sent) != 1 {
			t.Errorf("sent = %v, want one mail", email.sent)
		}
	})

	t.Run("no-op without token", func(t *testing.T) {
		sub := &models.Subscriber{Email: "b@example.com"}
		if err := n.SendVerification(context.Background(), sub); err != nil {
			t.Fatalf("SendVerification: %v", err)
		}
		for _, r := range email.sent {
			if r == "b@example.com" {
				t.Error("mail sent despite missing verification token")
			}
		}
	})
}

func TestTelegramChannelDisabled(t *testing.T) {
	ch := NewTelegramChannel()
	err := ch.Send(context.Background(), "123", "subject", "body")
	if !errors.Is(err, ErrChannelDisabled) {
		t.Errorf("Send error = %v, want ErrChannelDisabled", err)
	}
}

func TestEmailChannelUnconfigured(t *testing.T) {
	ch := NewEmailChannel(&fakeStorage{})
	err := ch.Send(context.Background(), "a@example.com", "subject", "body")
	if err == nil {
		t.Fatal("expected error from unconfigured transport")
	}
}
