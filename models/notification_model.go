package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	EventConfirmation = "confirmation"
	EventCancellation = "cancellation"
	EventReminder     = "reminder"
)

type Notification struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	UserID    uuid.UUID  `gorm:"not null" json:"user_id"`
	EventKind string     `gorm:"size:20;not null" json:"event_kind"`
	ClassID   *uuid.UUID `json:"class_id"`

	Sent   bool       `gorm:"not null;default:false" json:"sent"`
	SentAt *time.Time `json:"sent_at"`

	User  User   `gorm:"foreignkey:UserID" json:"user,omitempty"`
	Class *Class `gorm:"foreignkey:ClassID" json:"class,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

// MarkSent flips the sent flag and timestamp together, exactly once.
// Calling it on an already-sent notification is a no-op.
func (n *Notification) MarkSent(db *gorm.DB) error {
	if n.Sent {
		return nil
	}
	now := time.Now()
	if err := db.Model(n).Updates(map[string]interface{}{"sent": true, "sent_at": now}).Error; err != nil {
		return err
	}
	n.Sent = true
	n.SentAt = &now
	return nil
}
