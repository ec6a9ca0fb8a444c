package detector

import (
	"context"
	"testing"

	"github.com/zapdesk/statusd/internal/models"
	"github.com/zapdesk/statusd/internal/probe"
)

type memoryStore struct {
	services  map[string]*models.Service
	incidents []models.Incident
	nextID    int
}

func newMemoryStore(slugs ...string) *memoryStore {
	s := &memoryStore{services: make(map[string]*models.Service), nextID: 1}
	for i, slug := range slugs {
		s.services[slug] = &models.Service{ID: i + 1, Slug: slug, Name: slug}
	}
	return s
}

func (s *memoryStore) ServiceBySlug(ctx context.Context, slug string) (*models.Service, error) {
	return s.services[slug], nil
}

func (s *memoryStore) CreateIncident(ctx context.Context, serviceID int, title, description string, severity models.IncidentSeverity) (*models.Incident, error) {
	incident := models.Incident{
		ID:          s.nextID,
		ServiceID:   serviceID,
		Title:       title,
		Description: description,
		Severity:    severity,
		Status:      models.IncidentInvestigating,
	}
	s.nextID++
	s.incidents = append(s.incidents, incident)
	return &incident, nil
}

func (s *memoryStore) ActiveIncidentsByService(ctx context.Context, serviceID int) ([]models.Incident, error) {
	var active []models.Incident
	for _, inc := range s.incidents {
		if inc.ServiceID == serviceID && inc.Status != models.IncidentResolved {
			active = append(active, inc)
		}
	}
	return active, nil
}

func (s *memoryStore) UpdateIncident(ctx context.Context, incidentID int, status models.IncidentStatus, message string) error {
	for i := range s.incidents {
		if s.incidents[i].ID == incidentID {
			s.incidents[i].Status = status
		}
	}
	return nil
}

type recordedEvents struct {
	created  []int
	resolved []int
}

func (e *recordedEvents) IncidentCreated(ctx context.Context, incident *models.Incident, service *models.Service) {
	e.created = append(e.created, incident.ID)
}

func (e *recordedEvents) IncidentResolved(ctx context.Context, incident *models.Incident, service *models.Service) {
	e.resolved = append(e.resolved, incident.ID)
}

func cycle(status models.CheckStatus) map[string]probe.Result {
	return map[string]probe.Result{"api": {Status: status}}
}

func TestDetectTransitions(t *testing.T) {
	tests := []struct {
		name         string
		prev         models.CheckStatus
		cur          models.CheckStatus
		wantCreated  int
		wantResolved int
	}{
		{"stays operational", models.StatusOperational, models.StatusOperational, 0, 0},
		{"goes down", models.StatusOperational, models.StatusOutage, 1, 0},
		{"goes degraded", models.StatusOperational, models.StatusDegraded, 1, 0},
		{"stays down", models.StatusOutage, models.StatusOutage, 0, 0},
		{"outage to degraded stays inside the boundary", models.StatusOutage, models.StatusDegraded, 0, 0},
		{"recovers from outage", models.StatusOutage, models.StatusOperational, 0, 1},
		{"recovers from degraded", models.StatusDegraded, models.StatusOperational, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemoryStore("api")
			if tt.wantResolved > 0 || tt.prev != models.StatusOperational {
				// Seed an open incident so recovery has something to resolve.
				store.CreateIncident(context.Background(), 1, "api having issues", "", models.SeverityCritical)
			}
			events := &recordedEvents{}
			d := New(store, events)

			err := d.Detect(context.Background(), cycle(tt.cur), cycle(tt.prev))
			if err != nil {
				t.Fatalf("Detect: %v", err)
			}

			// The seeded incident does not count as created by this cycle.
			created := len(events.created)
			if created != tt.wantCreated {
				t.Errorf("created = %d, want %d", created, tt.wantCreated)
			}
			if len(events.resolved) != tt.wantResolved {
				t.Errorf("resolved = %d, want %d", len(events.resolved), tt.wantResolved)
			}
		})
	}
}

func TestDetectOutageSeverity(t *testing.T) {
	store := newMemoryStore("api")
	d := New(store, &recordedEvents{})

	err := d.Detect(context.Background(),
		map[string]probe.Result{"api": {Status: models.StatusOutage, Err: "connection refused"}},
		cycle(models.StatusOperational))
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}

	if len(store.incidents) != 1 {
		t.Fatalf("got %d incidents, want 1", len(store.incidents))
	}
	inc := store.incidents[0]
	if inc.Severity != models.SeverityCritical {
		t.Errorf("severity = %q, want %q", inc.Severity, models.SeverityCritical)
	}
	if inc.Title != "api having issues" {
		t.Errorf("title = %q", inc.Title)
	}
	if want := "The api service is down. connection refused"; inc.Description != want {
		t.Errorf("description = %q, want %q", inc.Description, want)
	}
}

func TestDetectDegradedSeverity(t *testing.T) {
	store := newMemoryStore("api")
	d := New(store, &recordedEvents{})

	err := d.Detect(context.Background(), cycle(models.StatusDegraded), cycle(models.StatusOperational))
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}

	if len(store.incidents) != 1 {
		t.Fatalf("got %d incidents, want 1", len(store.incidents))
	}
	if got := store.incidents[0].Severity; got != models.SeverityMinor {
		t.Errorf("severity = %q, want %q", got, models.SeverityMinor)
	}
}

func TestDetectFullOutageCycle(t *testing.T) {
	store := newMemoryStore("api")
	events := &recordedEvents{}
	d := New(store, events)
	ctx := context.Background()

	// operational -> outage -> outage -> operational opens exactly one
	// incident and resolves exactly one.
	if err := d.Detect(ctx, cycle(models.StatusOutage), cycle(models.StatusOperational)); err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if err := d.Detect(ctx, cycle(models.StatusOutage), cycle(models.StatusOutage)); err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if err := d.Detect(ctx, cycle(models.StatusOperational), cycle(models.StatusOutage)); err != nil {
		t.Fatalf("Detect: %v", err)
	}

	if len(events.created) != 1 {
		t.Errorf("created = %d, want 1", len(events.created))
	}
	if len(events.resolved) != 1 {
		t.Errorf("resolved = %d, want 1", len(events.resolved))
	}

	active, _ := store.ActiveIncidentsByService(ctx, 1)
	if len(active) != 0 {
		t.Errorf("active incidents after recovery = %d, want 0", len(active))
	}
}

func TestDetectWorseningWithoutRecovery(t *testing.T) {
	store := newMemoryStore("api")
	events := &recordedEvents{}
	d := New(store, events)
	ctx := context.Background()

	// operational -> degraded -> outage -> operational: the worsening
	// step crosses no boundary, so only one incident exists.
	if err := d.Detect(ctx, cycle(models.StatusDegraded), cycle(models.StatusOperational)); err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if err := d.Detect(ctx, cycle(models.StatusOutage), cycle(models.StatusDegraded)); err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if err := d.Detect(ctx, cycle(models.StatusOperational), cycle(models.StatusOutage)); err != nil {
		t.Fatalf("Detect: %v", err)
	}

	if len(events.created) != 1 {
		t.Errorf("created = %d, want 1", len(events.created))
	}
	if len(events.resolved) != 1 {
		t.Errorf("resolved = %d, want 1", len(events.resolved))
	}
}

func TestDetectResolvesAllOpenIncidents(t *testing.T) {
	store := newMemoryStore("api")
	ctx := context.Background()
	store.CreateIncident(ctx, 1, "first", "", models.SeverityMinor)
	store.CreateIncident(ctx, 1, "second", "", models.SeverityCritical)

	events := &recordedEvents{}
	d := New(store, events)

	if err := d.Detect(ctx, cycle(models.StatusOperational), cycle(models.StatusOutage)); err != nil {
		t.Fatalf("Detect: %v", err)
	}

	if len(events.resolved) != 2 {
		t.Errorf("resolved = %d, want 2", len(events.resolved))
	}
	active, _ := store.ActiveIncidentsByService(ctx, 1)
	if len(active) != 0 {
		t.Errorf("active incidents = %d, want 0", len(active))
	}
}

func TestDetectIgnoresUnseenSlugs(t *testing.T) {
	store := newMemoryStore("api")
	events := &recordedEvents{}
	d := New(store, events)

	err := d.Detect(context.Background(), cycle(models.StatusOutage), map[string]probe.Result{})
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}

	if len(events.created) != 0 {
		t.Errorf("created = %d, want 0 without a previous cycle", len(events.created))
	}
}

func TestDetectUnknownServiceSlug(t *testing.T) {
	store := newMemoryStore()
	events := &recordedEvents{}
	d := New(store, events)

	err := d.Detect(context.Background(), cycle(models.StatusOutage), cycle(models.StatusOperational))
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}

	if len(store.incidents) != 0 {
		t.Errorf("incidents = %d, want 0 for unregistered slug", len(store.incidents))
	}
}
