package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Class is one scheduled, priced session led by an instructor. Hour is kept
// as "HH:MM" so slot equality matches waitlist entries exactly.
type Class struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Description  string    `gorm:"size:200" json:"description"`
	InstructorID uuid.UUID `gorm:"not null" json:"instructor_id"`
	Date         time.Time `gorm:"type:date;not null" json:"date"`
	Hour         string    `gorm:"size:5;not null" json:"hour"`
	Confirmed    bool      `gorm:"not null;default:false" json:"confirmed"`
	Notified     bool      `gorm:"not null;default:false" json:"notified"`
	Price        float64   `gorm:"type:numeric(10,2);not null" json:"price"`

	TrainingTypeID *uuid.UUID `json:"training_type_id"`

	Instructor   User          `gorm:"foreignkey:InstructorID" json:"instructor,omitempty"`
	TrainingType *TrainingType `gorm:"foreignkey:TrainingTypeID;constraint:OnDelete:SET NULL" json:"training_type,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Class) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
