package models

import (
	"time"

	"gorm.io/gorm"
)

type Barber struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	Name           string   `gorm:"size:100;not null" json:"name"`
	Phone          string   `gorm:"size:20" json:"phone"`
	CommissionRate *float64 `json:"commission_rate"`
	Active         bool     `gorm:"default:true" json:"active"`
	AvatarURL      string   `gorm:"size:255" json:"avatar_url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Barber) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = newID()
	}
	return nil
}
