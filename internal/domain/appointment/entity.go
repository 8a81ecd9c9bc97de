package appointment

import (
	"github.com/barbererp/backend/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Cancel(ap *models.Appointment) error {
	if err := CanCancel(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCancelled)
	return nil
}

func Complete(ap *models.Appointment) error {
	if err := CanComplete(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCompleted)
	return nil
}

// MarkPaid é a transição disparada pela confirmação de pagamento;
// um agendamento pago sai definitivamente da lista de pendentes.
func MarkPaid(ap *models.Appointment) error {
	if err := CanPay(PaymentStatus(ap.PaymentStatus)); err != nil {
		return err
	}

	ap.PaymentStatus = string(PaymentPaid)
	return nil
}
