package booking

import (
	"context"

	"github.com/barbererp/backend/internal/audit"
	domain "github.com/barbererp/backend/internal/domain/appointment"
	bookingdomain "github.com/barbererp/backend/internal/domain/booking"
	"github.com/barbererp/backend/internal/models"
	"github.com/barbererp/backend/internal/realtime"
	"github.com/barbererp/backend/internal/timezone"
)

// ======================================================
// USE CASE
// ======================================================

type SubmitBooking struct {
	repo  domain.Repository
	bus   *realtime.Bus
	audit *audit.Dispatcher
}

func NewSubmitBooking(
	repo domain.Repository,
	bus *realtime.Bus,
	audit *audit.Dispatcher,
) *SubmitBooking {
	return &SubmitBooking{
		repo:  repo,
		bus:   bus,
		audit: audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *SubmitBooking) Execute(
	ctx context.Context,
	d *bookingdomain.Draft,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// 1️⃣ Validação local: nenhuma escrita sai com campo faltando
	// --------------------------------------------------
	if err := d.EnsureComplete(); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2️⃣ Data + horário num único timestamp
	// --------------------------------------------------
	start, err := d.StartTime(timezone.Location(""))
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 3️⃣ Única tentativa de escrita por submit; em erro o
	//     rascunho permanece no passo confirm
	// --------------------------------------------------
	clientID := d.ClientID
	ap := &models.Appointment{
		ClientID:        &clientID,
		BarberID:        &d.Barber.ID,
		ServiceID:       &d.Service.ID,
		AppointmentDate: start,
		Status:          string(domain.InitialStatus()),
		PaymentStatus:   string(domain.InitialPaymentStatus()),
	}

	if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	ap.Barber = d.Barber
	ap.Service = d.Service

	// --------------------------------------------------
	// 4️⃣ Push update: o feed do cliente recebe o insert
	// --------------------------------------------------
	uc.bus.PublishRow(ctx, "appointments", realtime.KindInsert, clientID, ap)

	uc.audit.Dispatch(audit.Event{
		UserID:   &clientID,
		Action:   "appointment_booked",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	d.Succeed()
	return ap, nil
}
