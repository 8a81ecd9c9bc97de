package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	SaleItemService = "service"
	SaleItemProduct = "product"
)

const (
	PaymentMethodCash = "cash"
	PaymentMethodCard = "card"
	PaymentMethodPix  = "pix"
)

const (
	SalePaymentPending   = "pending"
	SalePaymentCompleted = "completed"
)

type Sale struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	ClientID *string `gorm:"size:36" json:"client_id"`
	Client   *Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"client,omitempty"`

	BarberID *string `gorm:"size:36" json:"barber_id"`
	Barber   *Barber `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"barber,omitempty"`

	Total         float64 `json:"total"`
	Discount      float64 `json:"discount"`
	PaymentMethod string  `gorm:"size:20" json:"payment_method"`
	PaymentStatus string  `gorm:"size:20" json:"payment_status"`

	Notes string `gorm:"size:255" json:"notes"`

	Items []SaleItem `gorm:"foreignKey:SaleID" json:"sale_items,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = newID()
	}
	return nil
}

type SaleItem struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	SaleID string `gorm:"size:36;index" json:"sale_id"`

	ItemType string `gorm:"size:20;not null" json:"item_type"`

	ServiceID *string  `gorm:"size:36" json:"service_id"`
	Service   *Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service,omitempty"`

	ProductID *string  `gorm:"size:36" json:"product_id"`
	Product   *Product `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"product,omitempty"`

	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	TotalPrice float64 `json:"total_price"`

	CreatedAt time.Time `json:"created_at"`
}

func (i *SaleItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = newID()
	}
	return nil
}
