// Package detector diffs consecutive probe cycles and drives the
// incident lifecycle on operational/non-operational boundary crossings.
package detector

import (
	"context"
	"errors"
	"fmt"

	"github.com/zapdesk/statusd/internal/models"
	"github.com/zapdesk/statusd/internal/probe"
)

// Store is the slice of the result store the detector needs.
type Store interface {
	ServiceBySlug(ctx context.Context, slug string) (*models.Service, error)
	CreateIncident(ctx context.Context, serviceID int, title, description string, severity models.IncidentSeverity) (*models.Incident, error)
	ActiveIncidentsByService(ctx context.Context, serviceID int) ([]models.Incident, error)
	UpdateIncident(ctx context.Context, incidentID int, status models.IncidentStatus, message string) error
}

// Events receives incident lifecycle notifications. Implementations
// must isolate their own delivery failures.
type Events interface {
	IncidentCreated(ctx context.Context, incident *models.Incident, service *models.Service)
	IncidentResolved(ctx context.Context, incident *models.Incident, service *models.Service)
}

// Detector detects status transitions between two probe cycles.
type Detector struct {
	store  Store
	events Events
}

// New creates a detector.
func New(store Store, events Events) *Detector {
	return &Detector{store: store, events: events}
}

// Detect compares the current cycle against the previous one. Only the
// operational/non-operational boundary triggers action: a degradation
// opens an incident, a recovery resolves every open incident for the
// service. Slugs absent from the previous cycle carry no signal.
// Detection runs on the in-memory results, independent of persistence.
func (d *Detector) Detect(ctx context.Context, current, previous map[string]probe.Result) error {
	var errs []error

	for slug, cur := range current {
		prev, seen := previous[slug]
		if !seen {
			continue
		}

		switch {
		case prev.Status.IsOperational() && !cur.Status.IsOperational():
			if err := d.degraded(ctx, slug, cur); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", slug, err))
			}
		case !prev.Status.IsOperational() && cur.Status.IsOperational():
			if err := d.recovered(ctx, slug); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", slug, err))
			}
		}
	}

	return errors.Join(errs...)
}

func (d *Detector) degraded(ctx context.Context, slug string, cur probe.Result) error {
	service, err := d.store.ServiceBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if service == nil {
		return nil
	}

	severity := models.SeverityMinor
	state := "degraded"
	if cur.Status == models.StatusOutage {
		severity = models.SeverityCritical
		state = "down"
	}

	description := fmt.Sprintf("The %s service is %s.", service.Name, state)
	if cur.Err != "" {
		description += " " + cur.Err
	}

	incident, err := d.store.CreateIncident(ctx, service.ID,
		fmt.Sprintf("%s having issues", service.Name), description, severity)
	if err != nil {
		return err
	}

	d.events.IncidentCreated(ctx, incident, service)
	return nil
}

func (d *Detector) recovered(ctx context.Context, slug string) error {
	service, err := d.store.ServiceBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if service == nil {
		return nil
	}

	incidents, err := d.store.ActiveIncidentsByService(ctx, service.ID)
	if err != nil {
		return err
	}

	var errs []error
	for i := range incidents {
		incident := incidents[i]
		err := d.store.UpdateIncident(ctx, incident.ID, models.IncidentResolved,
			"Service restored automatically.")
		if err != nil {
			errs = append(errs, err)
			continue
		}

		incident.Status = models.IncidentResolved
		d.events.IncidentResolved(ctx, &incident, service)
	}

	return errors.Join(errs...)
}
