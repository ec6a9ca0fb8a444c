package notifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/zapdesk/statusd/internal/models"
)

// branding is the subset of settings used when rendering messages.
type branding struct {
	SiteName string
	SiteURL  string
}

func brandingFrom(settings map[string]string) branding {
	return branding{
		SiteName: settings["site_name"],
		SiteURL:  settings["site_url"],
	}
}

func incidentCreatedSubject(b branding, serviceName, title string) string {
	return fmt.Sprintf("[%s] %s - %s", b.SiteName, serviceName, title)
}

func incidentCreatedBody(b branding, incident *models.Incident, serviceName, unsubscribeToken string) string {
	var sb strings.Builder
	sb.WriteString("<h2>Incident Detected</h2>\n")
	fmt.Fprintf(&sb, "<p><strong>Service:</strong> %s</p>\n", serviceName)
	fmt.Fprintf(&sb, "<p><strong>Status:</strong> %s</p>\n", incident.Status)
	fmt.Fprintf(&sb, "<p><strong>Severity:</strong> %s</p>\n", incident.Severity)
	fmt.Fprintf(&sb, "<p><strong>Description:</strong> %s</p>\n", incident.Description)
	fmt.Fprintf(&sb, "<p><strong>Started:</strong> %s</p>\n", incident.StartedAt.Format(time.RFC1123))
	sb.WriteString("<hr>\n")
	fmt.Fprintf(&sb, "<p><a href=%q>View status page</a></p>\n", b.SiteURL+"/status")
	fmt.Fprintf(&sb, "<p><small><a href=%q>Unsubscribe</a></small></p>\n",
		b.SiteURL+"/status/unsubscribe/"+unsubscribeToken)
	return sb.String()
}

func incidentResolvedSubject(b branding, serviceName string) string {
	return fmt.Sprintf("[%s] %s - Incident Resolved", b.SiteName, serviceName)
}

func incidentResolvedBody(b branding, incident *models.Incident, serviceName string) string {
	var sb strings.Builder
	sb.WriteString("<h2>Incident Resolved</h2>\n")
	fmt.Fprintf(&sb, "<p><strong>Service:</strong> %s</p>\n", serviceName)
	fmt.Fprintf(&sb, "<p><strong>Incident:</strong> %s</p>\n", incident.Title)
	fmt.Fprintf(&sb, "<p><strong>Resolved:</strong> %s</p>\n", time.Now().UTC().Format(time.RFC1123))
	sb.WriteString("<p>The service is operating normally again.</p>\n")
	sb.WriteString("<hr>\n")
	fmt.Fprintf(&sb, "<p><a href=%q>View status page</a></p>\n", b.SiteURL+"/status")
	return sb.String()
}

func maintenanceSubject(b branding, title string) string {
	return fmt.Sprintf("[%s] Scheduled Maintenance - %s", b.SiteName, title)
}

func maintenanceBody(b branding, m *models.Maintenance, affectedNames string) string {
	description := m.Description
	if description == "" {
		description = "N/A"
	}

	var sb strings.Builder
	sb.WriteString("<h2>Scheduled Maintenance</h2>\n")
	fmt.Fprintf(&sb, "<p><strong>Title:</strong> %s</p>\n", m.Title)
	fmt.Fprintf(&sb, "<p><strong>Description:</strong> %s</p>\n", description)
	fmt.Fprintf(&sb, "<p><strong>Affected services:</strong> %s</p>\n", affectedNames)
	fmt.Fprintf(&sb, "<p><strong>Start:</strong> %s</p>\n", m.ScheduledStart.Format(time.RFC1123))
	fmt.Fprintf(&sb, "<p><strong>Expected end:</strong> %s</p>\n", m.ScheduledEnd.Format(time.RFC1123))
	sb.WriteString("<hr>\n")
	fmt.Fprintf(&sb, "<p><a href=%q>View maintenances</a></p>\n", b.SiteURL+"/status/maintenance")
	return sb.String()
}

func verificationSubject(b branding) string {
	return fmt.Sprintf("Confirm your subscription - %s", b.SiteName)
}

func verificationBody(b branding, token string) string {
	var sb strings.Builder
	sb.WriteString("<h2>Confirm your subscription</h2>\n")
	sb.WriteString("<p>Click the link below to confirm your subscription and receive status alerts:</p>\n")
	fmt.Fprintf(&sb, "<p><a href=%q>Confirm subscription</a></p>\n",
		b.SiteURL+"/status/verify/"+token)
	return sb.String()
}
