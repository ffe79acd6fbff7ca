package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TrainingType struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name        string    `gorm:"size:200;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Category    string    `gorm:"size:20;not null;default:'Mixed'" json:"category"`

	DurationMinutes int `gorm:"not null;default:60" json:"duration_minutes"`
	MinSkillLevel   int `gorm:"not null;default:1" json:"min_skill_level"`
	MaxSkillLevel   int `gorm:"not null;default:9" json:"max_skill_level"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t *TrainingType) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
