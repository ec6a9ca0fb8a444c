package notifier

import (
	"context"

	"github.com/zapdesk/statusd/internal/models"
)

// Channel delivers one rendered message to one recipient. A Send error
// is recorded as a failed attempt and never aborts the rest of the
// audience.
type Channel interface {
	// Name returns the channel identifier used in the notification log.
	Name() models.Channel

	// Send delivers the message. subject is ignored by channels that
	// have no subject concept.
	Send(ctx context.Context, recipient, subject, body string) error
}
