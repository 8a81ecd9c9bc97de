package appointment

import (
	"context"

	"github.com/barbererp/backend/internal/audit"
	domain "github.com/barbererp/backend/internal/domain/appointment"
	"github.com/barbererp/backend/internal/httperr"
	"github.com/barbererp/backend/internal/models"
	"github.com/barbererp/backend/internal/realtime"
)

type CompleteAppointment struct {
	repo  domain.Repository
	bus   *realtime.Bus
	audit *audit.Dispatcher
}

func NewCompleteAppointment(
	repo domain.Repository,
	bus *realtime.Bus,
	audit *audit.Dispatcher,
) *CompleteAppointment {
	return &CompleteAppointment{
		repo:  repo,
		bus:   bus,
		audit: audit,
	}
}

func (uc *CompleteAppointment) Execute(
	ctx context.Context,
	actorID string,
	appointmentID string,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	if err := domain.Complete(ap); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	clientID := ""
	if ap.ClientID != nil {
		clientID = *ap.ClientID
	}
	uc.bus.PublishRow(ctx, "appointments", realtime.KindUpdate, clientID, ap)

	uc.audit.Dispatch(audit.Event{
		UserID:   &actorID,
		Action:   "appointment_completed",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
