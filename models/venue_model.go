package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Venue struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name          string    `gorm:"size:200;not null" json:"name"`
	IndoorCourts  int       `gorm:"not null;default:0" json:"indoor_courts"`
	OutdoorCourts int       `gorm:"not null;default:0" json:"outdoor_courts"`
	Indoor        bool      `gorm:"not null;default:false" json:"indoor"`
	SurfaceType   string    `gorm:"size:30;not null" json:"surface_type"`

	InstructorCount int    `gorm:"not null;default:0" json:"instructor_count"`
	Address         string `gorm:"size:200" json:"address"`
	City            string `gorm:"size:100" json:"city"`
	Province        string `gorm:"size:100" json:"province"`
	Phone           string `gorm:"size:20" json:"phone"`
	Email           string `gorm:"size:255" json:"email"`

	HourlyRate float64 `gorm:"type:numeric(10,2);not null" json:"hourly_rate"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (v *Venue) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// Indoor is derived from the indoor court count, never set by callers.
func (v *Venue) BeforeSave(tx *gorm.DB) error {
	v.Indoor = v.IndoorCourts > 0
	return nil
}
