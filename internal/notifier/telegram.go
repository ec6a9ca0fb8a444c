package notifier

import (
	"context"
	"errors"
	"log"

	"github.com/zapdesk/statusd/internal/models"
)

// ErrChannelDisabled is reported by channels that are kept as
// extension points but not wired to a transport.
var ErrChannelDisabled = errors.New("channel disabled")

// TelegramChannel is a permanently disabled adapter. It keeps the
// telegram slot in the channel interface so a real implementation
// needs no interface change, and every attempt is logged as failed.
type TelegramChannel struct{}

// NewTelegramChannel creates the disabled telegram channel.
func NewTelegramChannel() *TelegramChannel {
	return &TelegramChannel{}
}

// Name returns the channel identifier used in the notification log.
func (c *TelegramChannel) Name() models.Channel {
	return models.ChannelTelegram
}

// Send always reports failure.
func (c *TelegramChannel) Send(ctx context.Context, recipient, subject, body string) error {
	log.Println("[notifier] telegram channel disabled, notification skipped")
	return ErrChannelDisabled
}
