package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WaitlistEntry is a student's request for a slot (venue, date, hour).
// Unassigned means both ClassID and PairingID are nil; the pairing workflow
// is the only thing that sets them.
type WaitlistEntry struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Description string    `gorm:"size:200" json:"description"`
	VenueID     uuid.UUID `gorm:"not null" json:"venue_id"`
	StudentID   uuid.UUID `gorm:"not null" json:"student_id"`
	Date        time.Time `gorm:"type:date;not null" json:"date"`
	Hour        string    `gorm:"size:5;not null" json:"hour"`

	ClassID   *uuid.UUID `json:"class_id"`
	PairingID *uuid.UUID `json:"pairing_id"`

	Venue   Venue    `gorm:"foreignkey:VenueID" json:"venue,omitempty"`
	Student User     `gorm:"foreignkey:StudentID" json:"student,omitempty"`
	Class   *Class   `gorm:"foreignkey:ClassID;constraint:OnDelete:SET NULL" json:"class,omitempty"`
	Pairing *Pairing `gorm:"foreignkey:PairingID;constraint:OnDelete:SET NULL" json:"pairing,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (w *WaitlistEntry) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

func (w *WaitlistEntry) Unassigned() bool {
	return w.ClassID == nil && w.PairingID == nil
}
