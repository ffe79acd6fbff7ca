package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Pairing is the set of students assigned to a class. The 2-4 player bound
// is enforced by the creating workflow, not here.
type Pairing struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Description string    `gorm:"size:200" json:"description"`
	ClassID     uuid.UUID `gorm:"not null" json:"class_id"`

	Class   Class   `gorm:"foreignkey:ClassID;constraint:OnDelete:CASCADE" json:"class,omitempty"`
	Players []*User `gorm:"many2many:pairing_players;" json:"players,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Pairing) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
