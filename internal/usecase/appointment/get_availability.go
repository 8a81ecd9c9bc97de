package appointment

import (
	"context"

	domain "github.com/barbererp/backend/internal/domain/appointment"
	"github.com/barbererp/backend/internal/domain/booking"
	"github.com/barbererp/backend/internal/httperr"
)

// GetAvailability devolve a grade de horários para um serviço. A
// grade é a janela fixa de expediente recortada pela duração do
// serviço; não checa conflito com agendamentos existentes.
type GetAvailability struct {
	repo domain.Repository
}

func NewGetAvailability(repo domain.Repository) *GetAvailability {
	return &GetAvailability{repo: repo}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	serviceID string,
) ([]string, error) {

	service, err := uc.repo.GetService(ctx, serviceID)
	if err != nil {
		return nil, httperr.ErrBusiness("service_not_found")
	}

	return booking.Slots(service.DurationMinutes), nil
}
