package models

import (
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	Name        string   `gorm:"size:100;not null" json:"name"`
	Description string   `gorm:"size:255" json:"description"`
	Price       float64  `json:"price"`
	Cost        *float64 `json:"cost"`
	Stock       int      `json:"stock"`
	MinStock    int      `json:"min_stock"`
	Active      bool     `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = newID()
	}
	return nil
}
