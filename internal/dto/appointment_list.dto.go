package dto

import "time"

type AppointmentListDTO struct {
	ID              string    `json:"id"`
	AppointmentDate time.Time `json:"appointment_date"`
	Status          string    `json:"status"`
	PaymentStatus   string    `json:"payment_status"`
	ClientName      string    `json:"client_name"`
	BarberName      string    `json:"barber_name"`
	ServiceName     string    `json:"service_name"`
	ServicePrice    float64   `json:"service_price"`
	Notes           string    `json:"notes,omitempty"`
}
