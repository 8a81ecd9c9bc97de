package payment

import (
	domain "github.com/barbererp/backend/internal/domain/appointment"
	"github.com/barbererp/backend/internal/httperr"
	"github.com/barbererp/backend/internal/models"
)

// ======================================================
// Payment flow state machine
// ======================================================

type State string

const (
	StateIdle           State = "idle"
	StateRequestingCode State = "requesting_code"
	StateShowingCode    State = "showing_code"
	StateConfirmed      State = "confirmed"
)

// Orchestrator conduz o fluxo de pagamento de um agendamento:
// idle → requesting_code → showing_code → confirmed. A confirmação
// é sempre uma ação explícita do usuário; não há callback da rede
// de pagamento.
type Orchestrator struct {
	state       State
	appointment *models.Appointment
	code        *PixCode
}

func NewOrchestrator() *Orchestrator {
	return &Orchestrator{state: StateIdle}
}

func (o *Orchestrator) State() State {
	return o.state
}

func (o *Orchestrator) Appointment() *models.Appointment {
	return o.appointment
}

func (o *Orchestrator) Code() *PixCode {
	return o.code
}

// Start seleciona o agendamento pendente e dispara o pedido de
// código de pagamento.
func (o *Orchestrator) Start(ap *models.Appointment) error {
	if o.state != StateIdle {
		return httperr.ErrBusiness("payment_in_progress")
	}
	if ap == nil || ap.Service == nil {
		return httperr.ErrBusiness("invalid_appointment")
	}
	if err := domain.CanPay(domain.PaymentStatus(ap.PaymentStatus)); err != nil {
		return err
	}

	o.appointment = ap
	o.state = StateRequestingCode
	return nil
}

// AttachCode registra o código recebido e passa a exibi-lo.
func (o *Orchestrator) AttachCode(code *PixCode) error {
	if o.state != StateRequestingCode {
		return httperr.ErrBusiness("invalid_payment_state")
	}
	if code == nil || code.CopiaECola == "" {
		return httperr.ErrBusiness("pix_unavailable")
	}

	o.code = code
	o.state = StateShowingCode
	return nil
}

// Fail volta ao estado inicial após falha no pedido do código;
// o retry é sempre iniciado pelo usuário.
func (o *Orchestrator) Fail() {
	if o.state == StateRequestingCode {
		o.appointment = nil
		o.code = nil
		o.state = StateIdle
	}
}

// CanConfirm valida a confirmação antes de qualquer escrita; em
// falha das escritas o fluxo permanece exibindo o código.
func (o *Orchestrator) CanConfirm() error {
	if o.state != StateShowingCode {
		return httperr.ErrBusiness("invalid_payment_state")
	}
	return nil
}

// Confirm só avança a partir da exibição do código, por ação
// explícita do usuário, depois das escritas concluídas.
func (o *Orchestrator) Confirm() error {
	if err := o.CanConfirm(); err != nil {
		return err
	}

	o.state = StateConfirmed
	return nil
}

// Reset fecha o diálogo e descarta o fluxo.
func (o *Orchestrator) Reset() {
	o.appointment = nil
	o.code = nil
	o.state = StateIdle
}
