package models

import (
	"time"

	"github.com/lib/pq"
)

// Subscriber is someone who receives status notifications. An empty
// Services list means subscribed to every service.
type Subscriber struct {
	ID                int           `json:"id" gorm:"primaryKey;autoIncrement"`
	Email             string        `json:"email,omitempty" gorm:"index"`
	TelegramChatID    string        `json:"telegram_chat_id,omitempty"`
	NotifyEmail       bool          `json:"notify_email" gorm:"default:true"`
	NotifyTelegram    bool          `json:"notify_telegram" gorm:"default:false"`
	NotifyOn          NotifyPolicy  `json:"notify_on" gorm:"type:varchar(20);not null;default:'all'"`
	Services          pq.Int64Array `json:"services" gorm:"type:integer[]"`
	Verified          bool          `json:"verified" gorm:"default:false;index"`
	VerificationToken *string       `json:"-" gorm:"uniqueIndex"`
	UnsubscribeToken  string        `json:"-" gorm:"not null;uniqueIndex"`
	CreatedAt         time.Time     `json:"created_at"`
}

// TableName specifies the table name for Subscriber
func (Subscriber) TableName() string {
	return "status_subscribers"
}

// SubscribedTo reports whether the subscriber wants notifications for
// the given service.
func (s *Subscriber) SubscribedTo(serviceID int) bool {
	if len(s.Services) == 0 {
		return true
	}
	for _, id := range s.Services {
		if int(id) == serviceID {
			return true
		}
	}
	return false
}
