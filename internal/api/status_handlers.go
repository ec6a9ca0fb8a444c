package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zapdesk/statusd/internal/models"
	"github.com/zapdesk/statusd/internal/store"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// HandleCurrentStatus returns the platform-wide rollup: per-service
// latest status, active incidents and maintenance windows.
func HandleCurrentStatus(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		services, err := st.CurrentStatus(ctx)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to load current status")
			return
		}

		incidents, err := st.ActiveIncidents(ctx)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to load incidents")
			return
		}

		maintenances, err := st.ScheduledMaintenances(ctx)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to load maintenances")
			return
		}

		// Worst service status wins; an in-progress maintenance
		// overrides everything.
		overall := models.StatusOperational
		for _, svc := range services {
			switch svc.Status {
			case models.StatusOutage:
				overall = models.StatusOutage
			case models.StatusDegraded:
				if overall != models.StatusOutage {
					overall = models.StatusDegraded
				}
			}
		}
		overallLabel := string(overall)
		for _, m := range maintenances {
			if m.Status == models.MaintenanceInProgress {
				overallLabel = "maintenance"
				break
			}
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"overall":      overallLabel,
			"services":     services,
			"incidents":    incidents,
			"maintenances": maintenances,
			"last_updated": time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// HandleUptimeHistory returns the daily uptime series and the weighted
// overall percentage for one service.
func HandleUptimeHistory(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		slug := chi.URLParam(r, "slug")

		days := 90
		if daysStr := r.URL.Query().Get("days"); daysStr != "" {
			if parsed, err := strconv.Atoi(daysStr); err == nil && parsed > 0 {
				days = parsed
			}
		}

		service, err := st.ServiceBySlug(ctx, slug)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to load service")
			return
		}
		if service == nil {
			writeError(w, http.StatusNotFound, "service not found")
			return
		}

		history, err := st.UptimeHistory(ctx, service.ID, days)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to load uptime history")
			return
		}

		overall, err := st.OverallUptime(ctx, service.ID, days)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to compute uptime")
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"service": service,
			"uptime":  overall,
			"history": history,
		})
	}
}

// HandleIncidents returns active incidents or recent history.
func HandleIncidents(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		limit := 20
		if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
			if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
				limit = parsed
			}
		}

		var (
			incidents []store.IncidentWithService
			err       error
		)
		if r.URL.Query().Get("status") == "active" {
			incidents, err = st.ActiveIncidents(ctx)
		} else {
			incidents, err = st.IncidentHistory(ctx, limit)
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to load incidents")
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{"incidents": incidents})
	}
}

// HandleIncident returns one incident with its update trail.
func HandleIncident(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid incident id")
			return
		}

		incident, err := st.IncidentByID(ctx, id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to load incident")
			return
		}
		if incident == nil {
			writeError(w, http.StatusNotFound, "incident not found")
			return
		}

		updates, err := st.IncidentUpdates(ctx, id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to load incident updates")
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"incident": incident,
			"updates":  updates,
		})
	}
}

// HandleMaintenances returns upcoming or historical maintenance windows.
func HandleMaintenances(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var (
			maintenances []models.Maintenance
			err          error
		)
		if r.URL.Query().Get("type") == "history" {
			maintenances, err = st.MaintenanceHistory(ctx, 20)
		} else {
			maintenances, err = st.ScheduledMaintenances(ctx)
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to load maintenances")
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{"maintenances": maintenances})
	}
}
