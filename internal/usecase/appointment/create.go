package appointment

import (
	"context"
	"time"

	"github.com/barbererp/backend/internal/audit"
	domain "github.com/barbererp/backend/internal/domain/appointment"
	"github.com/barbererp/backend/internal/httperr"
	"github.com/barbererp/backend/internal/models"
	"github.com/barbererp/backend/internal/realtime"
	"github.com/barbererp/backend/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	ClientID  string
	BarberID  string
	ServiceID string

	Date  string
	Time  string
	Notes string
}

// ======================================================
// USE CASE
// ======================================================

// CreateAppointment é a criação pela tela administrativa: o
// atendente escolhe cliente, serviço, barbeiro e horário de uma vez,
// sem passar pelo wizard.
type CreateAppointment struct {
	repo  domain.Repository
	bus   *realtime.Bus
	audit *audit.Dispatcher
}

func NewCreateAppointment(
	repo domain.Repository,
	bus *realtime.Bus,
	audit *audit.Dispatcher,
) *CreateAppointment {
	return &CreateAppointment{
		repo:  repo,
		bus:   bus,
		audit: audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	actorID string,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// 1️⃣ Data / hora no fuso da barbearia
	// --------------------------------------------------
	start, err := time.ParseInLocation(
		"2006-01-02 15:04",
		in.Date+" "+in.Time,
		timezone.Location(""),
	)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	// --------------------------------------------------
	// 2️⃣ Serviço
	// --------------------------------------------------
	service, err := uc.repo.GetService(ctx, in.ServiceID)
	if err != nil {
		return nil, httperr.ErrBusiness("service_not_found")
	}
	if !service.Active {
		return nil, httperr.ErrBusiness("inactive_service")
	}

	// --------------------------------------------------
	// 3️⃣ Barbeiro
	// --------------------------------------------------
	barber, err := uc.repo.GetBarber(ctx, in.BarberID)
	if err != nil {
		return nil, httperr.ErrBusiness("barber_not_found")
	}
	if !barber.Active {
		return nil, httperr.ErrBusiness("inactive_barber")
	}

	// --------------------------------------------------
	// 4️⃣ Criação (status centralizado)
	// --------------------------------------------------
	clientID := in.ClientID
	ap := &models.Appointment{
		ClientID:        &clientID,
		BarberID:        &barber.ID,
		ServiceID:       &service.ID,
		AppointmentDate: start,
		Status:          string(domain.InitialStatus()),
		PaymentStatus:   string(domain.InitialPaymentStatus()),
		Notes:           in.Notes,
	}

	if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	ap.Barber = barber
	ap.Service = service

	uc.bus.PublishRow(ctx, "appointments", realtime.KindInsert, clientID, ap)

	uc.audit.Dispatch(audit.Event{
		UserID:   &actorID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
