package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleInstructor = "instructor"
	RoleStudent    = "student"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Username string    `gorm:"size:100;not null;unique" json:"username"`
	Email    string    `gorm:"size:255;not null;unique" json:"email"`
	Password string    `gorm:"not null" json:"-"`
	Role     string    `gorm:"size:20;not null;default:'student'" json:"role"`

	FirstName    string     `gorm:"size:100;not null" json:"first_name"`
	LastName     string     `gorm:"size:100" json:"last_name"`
	BirthDate    *time.Time `gorm:"type:date" json:"birth_date"`
	PlayingSide  string     `gorm:"size:10;not null;default:'Drive'" json:"playing_side"`
	DominantHand string     `gorm:"size:1;not null;default:'R'" json:"dominant_hand"`
	Phone        string     `gorm:"size:20" json:"phone"`
	SkillLevel   int        `gorm:"not null;default:1" json:"skill_level"`

	Address  string `gorm:"size:200" json:"address"`
	City     string `gorm:"size:100" json:"city"`
	Province string `gorm:"size:100" json:"province"`
	Country  string `gorm:"size:100" json:"country"`

	ResetPasswordToken          *string    `gorm:"size:255;unique" json:"-"`
	ResetPasswordTokenExpiresAt *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
