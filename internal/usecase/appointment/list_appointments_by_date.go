package appointment

import (
	"context"
	"time"

	domain "github.com/barbererp/backend/internal/domain/appointment"
	"github.com/barbererp/backend/internal/dto"
	"github.com/barbererp/backend/internal/models"
	"github.com/barbererp/backend/internal/timezone"
)

type ListAppointmentsByDate struct {
	repo domain.Repository
}

func NewListAppointmentsByDate(
	repo domain.Repository,
) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{
		repo: repo,
	}
}

func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	date time.Time,
) ([]dto.AppointmentListDTO, error) {

	loc := timezone.Location("")

	start := time.Date(
		date.Year(),
		date.Month(),
		date.Day(),
		0, 0, 0, 0,
		loc,
	)
	end := start.Add(24 * time.Hour)

	appointments, err := uc.repo.ListAppointmentsForPeriod(ctx, start, end)
	if err != nil {
		return nil, err
	}

	return toListDTOs(appointments), nil
}

func toListDTOs(appointments []models.Appointment) []dto.AppointmentListDTO {
	out := make([]dto.AppointmentListDTO, 0, len(appointments))
	for _, ap := range appointments {
		item := dto.AppointmentListDTO{
			ID:              ap.ID,
			AppointmentDate: ap.AppointmentDate,
			Status:          ap.Status,
			PaymentStatus:   ap.PaymentStatus,
			Notes:           ap.Notes,
		}
		if ap.Client != nil {
			item.ClientName = ap.Client.Name
		}
		if ap.Barber != nil {
			item.BarberName = ap.Barber.Name
		}
		if ap.Service != nil {
			item.ServiceName = ap.Service.Name
			item.ServicePrice = ap.Service.Price
		}
		out = append(out, item)
	}
	return out
}
