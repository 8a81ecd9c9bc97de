package booking

import (
	"time"

	"github.com/barbererp/backend/internal/httperr"
	"github.com/barbererp/backend/internal/models"
)

// ======================================================
// Booking Steps
// ======================================================

type Step string

const (
	StepService Step = "service"
	StepBarber  Step = "barber"
	StepDate    Step = "date"
	StepTime    Step = "time"
	StepConfirm Step = "confirm"
	StepSuccess Step = "success"
)

// MaxAdvanceDays limita a data do agendamento a [hoje, hoje+60].
const MaxAdvanceDays = 60

// ======================================================
// Draft
// ======================================================

// Draft é o rascunho do agendamento em andamento: pertence a um
// único cliente (fixado na criação) e só vira escrita no banco
// no submit do passo confirm.
type Draft struct {
	ClientID string

	Step    Step
	Service *models.Service
	Barber  *models.Barber
	Date    time.Time
	Time    string
}

func NewDraft(clientID string) *Draft {
	return &Draft{
		ClientID: clientID,
		Step:     StepService,
	}
}

// Reset descarta todas as seleções e volta ao passo inicial.
func (d *Draft) Reset() {
	*d = Draft{
		ClientID: d.ClientID,
		Step:     StepService,
	}
}

// ======================================================
// Transitions
// ======================================================

func (d *Draft) SelectService(s *models.Service) error {
	if d.Step != StepService {
		return httperr.ErrBusiness("invalid_step")
	}
	if s == nil || !s.Active {
		return httperr.ErrBusiness("inactive_service")
	}

	d.Service = s
	d.Step = StepBarber
	return nil
}

func (d *Draft) SelectBarber(b *models.Barber) error {
	if d.Step != StepBarber {
		return httperr.ErrBusiness("invalid_step")
	}
	if b == nil || !b.Active {
		return httperr.ErrBusiness("inactive_barber")
	}

	d.Barber = b
	d.Step = StepDate
	return nil
}

func (d *Draft) SelectDate(date time.Time, now time.Time) error {
	if d.Step != StepDate {
		return httperr.ErrBusiness("invalid_step")
	}

	today := startOfDay(now)
	day := startOfDay(date)

	if day.Before(today) || day.After(today.AddDate(0, 0, MaxAdvanceDays)) {
		return httperr.ErrBusiness("date_out_of_range")
	}

	d.Date = day
	d.Step = StepTime
	return nil
}

func (d *Draft) SelectTime(slot string) error {
	if d.Step != StepTime {
		return httperr.ErrBusiness("invalid_step")
	}

	valid := false
	for _, s := range d.AvailableTimes() {
		if s == slot {
			valid = true
			break
		}
	}
	if !valid {
		return httperr.ErrBusiness("invalid_slot")
	}

	d.Time = slot
	d.Step = StepConfirm
	return nil
}

// Back volta um passo; não existe em service nem em success.
func (d *Draft) Back() error {
	switch d.Step {
	case StepBarber:
		d.Step = StepService
	case StepDate:
		d.Step = StepBarber
	case StepTime:
		d.Step = StepDate
	case StepConfirm:
		d.Step = StepTime
	default:
		return httperr.ErrBusiness("cannot_go_back")
	}
	return nil
}

// Succeed marca o rascunho como concluído após a persistência.
func (d *Draft) Succeed() {
	d.Step = StepSuccess
}

// ======================================================
// Queries
// ======================================================

// AvailableTimes recalcula a grade a partir da duração do serviço
// selecionado; nunca serve horários de um serviço anterior.
func (d *Draft) AvailableTimes() []string {
	if d.Service == nil {
		return nil
	}
	return Slots(d.Service.DurationMinutes)
}

// EnsureComplete bloqueia o submit com qualquer campo ausente,
// antes de qualquer chamada de rede.
func (d *Draft) EnsureComplete() error {
	if d.Step != StepConfirm {
		return httperr.ErrBusiness("invalid_step")
	}
	if d.Service == nil || d.Barber == nil || d.Date.IsZero() || d.Time == "" {
		return httperr.ErrBusiness("incomplete_booking")
	}
	return nil
}

// StartTime combina data + horário escolhidos num único timestamp.
func (d *Draft) StartTime(loc *time.Location) (time.Time, error) {
	t, err := time.Parse("15:04", d.Time)
	if err != nil {
		return time.Time{}, httperr.ErrBusiness("invalid_slot")
	}

	return time.Date(
		d.Date.Year(), d.Date.Month(), d.Date.Day(),
		t.Hour(), t.Minute(), 0, 0,
		loc,
	), nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
