package payment

import (
	"context"

	"github.com/barbererp/backend/internal/audit"
	domain "github.com/barbererp/backend/internal/domain/appointment"
	"github.com/barbererp/backend/internal/models"
	paymentflow "github.com/barbererp/backend/internal/payment"
	"github.com/barbererp/backend/internal/realtime"
)

// ======================================================
// USE CASE
// ======================================================

type ConfirmPayment struct {
	repo  domain.Repository
	bus   *realtime.Bus
	audit *audit.Dispatcher
}

func NewConfirmPayment(
	repo domain.Repository,
	bus *realtime.Bus,
	audit *audit.Dispatcher,
) *ConfirmPayment {
	return &ConfirmPayment{
		repo:  repo,
		bus:   bus,
		audit: audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

// Execute registra venda + item + baixa do agendamento, nesta
// ordem, numa transação; só então o fluxo avança para confirmed.
func (uc *ConfirmPayment) Execute(
	ctx context.Context,
	orch *paymentflow.Orchestrator,
) (*models.Sale, error) {

	if err := orch.CanConfirm(); err != nil {
		return nil, err
	}

	ap := orch.Appointment()

	sale, err := uc.repo.PayAppointment(ctx, ap)
	if err != nil {
		// escritas posteriores não são tentadas; o diálogo
		// permanece aberto exibindo o código
		return nil, err
	}

	// o status em memória ainda é pending aqui; estes passos só
	// falham se CanConfirm deixar de preceder as escritas
	if err := domain.MarkPaid(ap); err != nil {
		return nil, err
	}
	if err := orch.Confirm(); err != nil {
		return nil, err
	}

	// o push update com payment_status=paid remove o item da
	// lista de pendentes do cliente
	clientID := ""
	if ap.ClientID != nil {
		clientID = *ap.ClientID
	}
	uc.bus.PublishRow(ctx, "appointments", realtime.KindUpdate, clientID, ap)
	uc.bus.PublishRow(ctx, "sales", realtime.KindInsert, "", sale)

	uc.audit.Dispatch(audit.Event{
		UserID:   ap.ClientID,
		Action:   "payment_confirmed",
		Entity:   "sale",
		EntityID: &sale.ID,
		Metadata: map[string]any{"appointment_id": ap.ID, "total": sale.Total},
	})

	return sale, nil
}
