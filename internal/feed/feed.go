package feed

import (
	domain "github.com/barbererp/backend/internal/domain/appointment"
	"github.com/barbererp/backend/internal/models"
)

// ======================================================
// Events
// ======================================================

type EventKind string

const (
	EventInsert EventKind = "insert"
	EventUpdate EventKind = "update"
	EventDelete EventKind = "delete"
)

type Event struct {
	Kind EventKind
	New  *models.Appointment
	// OldID identifica a linha removida em eventos delete.
	OldID string
}

// ======================================================
// Feed
// ======================================================

// Feed mantém a lista viva de agendamentos pendentes de um cliente.
// Os eventos chegam de uma única goroutine de assinatura, na ordem
// de chegada; não há acesso concorrente.
type Feed struct {
	items []models.Appointment
	// paid guarda os ids já pagos: uma vez removido por pagamento,
	// o agendamento nunca volta à lista desta assinatura.
	paid map[string]struct{}
}

// New monta o feed a partir da carga inicial, já excluindo
// agendamentos pagos.
func New(initial []models.Appointment) *Feed {
	f := &Feed{paid: make(map[string]struct{})}
	for _, ap := range initial {
		if ap.PaymentStatus == string(domain.PaymentPaid) {
			f.paid[ap.ID] = struct{}{}
			continue
		}
		f.items = append(f.items, ap)
	}
	return f
}

// Apply aplica um evento e devolve, quando o pagamento de um item
// foi confirmado em outro lugar, o agendamento removido (para
// notificar o usuário).
func (f *Feed) Apply(ev Event) (removedPaid *models.Appointment) {
	switch ev.Kind {
	case EventInsert:
		if ev.New == nil {
			return nil
		}
		if _, done := f.paid[ev.New.ID]; done {
			return nil
		}
		if idx := f.indexOf(ev.New.ID); idx >= 0 {
			// janela de duplicidade entre escrita local e push:
			// casa por identidade, sem segunda entrada
			f.items[idx] = *ev.New
			return nil
		}
		f.items = append([]models.Appointment{*ev.New}, f.items...)

	case EventUpdate:
		if ev.New == nil {
			return nil
		}
		if ev.New.PaymentStatus == string(domain.PaymentPaid) {
			removed := f.remove(ev.New.ID)
			f.paid[ev.New.ID] = struct{}{}
			return removed
		}
		if idx := f.indexOf(ev.New.ID); idx >= 0 {
			f.items[idx] = *ev.New
		}

	case EventDelete:
		f.remove(ev.OldID)
	}

	return nil
}

// Items devolve uma cópia da lista visível.
func (f *Feed) Items() []models.Appointment {
	out := make([]models.Appointment, len(f.items))
	copy(out, f.items)
	return out
}

func (f *Feed) Len() int {
	return len(f.items)
}

func (f *Feed) indexOf(id string) int {
	for i := range f.items {
		if f.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (f *Feed) remove(id string) *models.Appointment {
	idx := f.indexOf(id)
	if idx < 0 {
		return nil
	}
	removed := f.items[idx]
	f.items = append(f.items[:idx], f.items[idx+1:]...)
	return &removed
}
