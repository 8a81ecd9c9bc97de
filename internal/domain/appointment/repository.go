package appointment

import (
	"context"
	"time"

	"github.com/barbererp/backend/internal/models"
)

type Repository interface {
	// -------- Catalog --------
	GetService(
		ctx context.Context,
		id string,
	) (*models.Service, error)

	GetBarber(
		ctx context.Context,
		id string,
	) (*models.Barber, error)

	// -------- Appointment (create) --------
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Appointment (read) --------
	GetAppointment(
		ctx context.Context,
		appointmentID string,
	) (*models.Appointment, error)

	GetClientAppointment(
		ctx context.Context,
		clientID string,
		appointmentID string,
	) (*models.Appointment, error)

	ListPendingForClient(
		ctx context.Context,
		clientID string,
	) ([]models.Appointment, error)

	ListAppointmentsForPeriod(
		ctx context.Context,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	// -------- Appointment (state change) --------
	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Payment confirmation --------
	// PayAppointment grava venda, item da venda e o novo
	// payment_status numa única transação.
	PayAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) (*models.Sale, error)
}
