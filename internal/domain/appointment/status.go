package appointment

import "github.com/barbererp/backend/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

// ===============================
// Validations
// ===============================

// CanCancel define se um agendamento pode ser cancelado
func CanCancel(current Status) error {
	if current != StatusScheduled {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// CanComplete define se um agendamento pode ser concluído
func CanComplete(current Status) error {
	if current != StatusScheduled {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// CanPay define se um agendamento ainda aceita pagamento
func CanPay(current PaymentStatus) error {
	if current == PaymentPaid {
		return httperr.ErrBusiness("already_paid")
	}
	return nil
}

func InitialStatus() Status {
	return StatusScheduled
}

func InitialPaymentStatus() PaymentStatus {
	return PaymentPending
}
