package notifier

import (
	"context"
	"fmt"
	"log"
	"net/smtp"

	"github.com/zapdesk/statusd/internal/models"
)

// SettingsSource provides the key/value settings surface holding the
// SMTP transport and site branding.
type SettingsSource interface {
	Settings(ctx context.Context) (map[string]string, error)
}

// EmailChannel sends HTML mail over SMTP configured from the settings
// table. An unconfigured transport is a valid state: Send logs and
// reports failure without raising further.
type EmailChannel struct {
	settings SettingsSource
}

// NewEmailChannel creates the email channel.
func NewEmailChannel(settings SettingsSource) *EmailChannel {
	return &EmailChannel{settings: settings}
}

// Name returns the channel identifier used in the notification log.
func (c *EmailChannel) Name() models.Channel {
	return models.ChannelEmail
}

// Send delivers one HTML email.
func (c *EmailChannel) Send(ctx context.Context, recipient, subject, body string) error {
	settings, err := c.settings.Settings(ctx)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	host := settings["smtp_host"]
	user := settings["smtp_user"]
	if host == "" || user == "" {
		log.Println("[notifier] email transport not configured, skipping send")
		return fmt.Errorf("email transport not configured")
	}

	port := settings["smtp_port"]
	if port == "" {
		port = "587"
	}
	from := settings["smtp_from"]
	if from == "" {
		from = user
	}
	siteName := settings["site_name"]

	msg := fmt.Sprintf("From: %q <%s>\r\n", siteName, from)
	msg += fmt.Sprintf("To: %s\r\n", recipient)
	msg += fmt.Sprintf("Subject: %s\r\n", subject)
	msg += "MIME-Version: 1.0\r\n"
	msg += "Content-Type: text/html; charset=UTF-8\r\n"
	msg += "\r\n"
	msg += body

	addr := fmt.Sprintf("%s:%s", host, port)
	auth := smtp.PlainAuth("", user, settings["smtp_pass"], host)

	if err := smtp.SendMail(addr, auth, from, []string{recipient}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
