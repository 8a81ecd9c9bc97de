package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookingdomain "github.com/barbererp/backend/internal/domain/booking"
	"github.com/barbererp/backend/internal/httperr"
	"github.com/barbererp/backend/internal/models"
)

// ======================================================
// Fake repository
// ======================================================

type fakeRepo struct {
	created []*models.Appointment
	fail    error
}

func (r *fakeRepo) GetService(ctx context.Context, id string) (*models.Service, error) {
	return nil, errors.New("not used")
}

func (r *fakeRepo) GetBarber(ctx context.Context, id string) (*models.Barber, error) {
	return nil, errors.New("not used")
}

func (r *fakeRepo) CreateAppointment(ctx context.Context, ap *models.Appointment) error {
	if r.fail != nil {
		return r.fail
	}
	ap.ID = "ap-1"
	r.created = append(r.created, ap)
	return nil
}

func (r *fakeRepo) GetAppointment(ctx context.Context, id string) (*models.Appointment, error) {
	return nil, errors.New("not used")
}

func (r *fakeRepo) GetClientAppointment(ctx context.Context, clientID, id string) (*models.Appointment, error) {
	return nil, errors.New("not used")
}

func (r *fakeRepo) ListPendingForClient(ctx context.Context, clientID string) ([]models.Appointment, error) {
	return nil, nil
}

func (r *fakeRepo) ListAppointmentsForPeriod(ctx context.Context, start, end time.Time) ([]models.Appointment, error) {
	return nil, nil
}

func (r *fakeRepo) UpdateAppointment(ctx context.Context, ap *models.Appointment) error {
	return nil
}

func (r *fakeRepo) PayAppointment(ctx context.Context, ap *models.Appointment) (*models.Sale, error) {
	return nil, errors.New("not used")
}

// ======================================================
// Helpers
// ======================================================

func confirmReadyDraft(t *testing.T) *bookingdomain.Draft {
	t.Helper()

	now := time.Now()

	d := bookingdomain.NewDraft("client-1")
	require.NoError(t, d.SelectService(&models.Service{
		ID: "svc-1", Name: "Corte", Price: 50, DurationMinutes: 45, Active: true,
	}))
	require.NoError(t, d.SelectBarber(&models.Barber{ID: "brb-1", Name: "João", Active: true}))
	require.NoError(t, d.SelectDate(now.AddDate(0, 0, 3), now))
	require.NoError(t, d.SelectTime("10:45"))
	return d
}

// ======================================================
// Tests
// ======================================================

func TestSubmitCreatesAppointmentAndAdvancesDraft(t *testing.T) {
	repo := &fakeRepo{}
	uc := NewSubmitBooking(repo, nil, nil)

	d := confirmReadyDraft(t)

	ap, err := uc.Execute(context.Background(), d)
	require.NoError(t, err)

	require.Len(t, repo.created, 1)
	assert.Equal(t, "ap-1", ap.ID)
	assert.Equal(t, "client-1", *ap.ClientID)
	assert.Equal(t, "brb-1", *ap.BarberID)
	assert.Equal(t, "svc-1", *ap.ServiceID)
	assert.Equal(t, "scheduled", ap.Status)
	assert.Equal(t, "pending", ap.PaymentStatus)

	assert.Equal(t, 10, ap.AppointmentDate.Hour())
	assert.Equal(t, 45, ap.AppointmentDate.Minute())

	assert.Equal(t, bookingdomain.StepSuccess, d.Step)
}

func TestSubmitRejectsIncompleteDraft(t *testing.T) {
	repo := &fakeRepo{}
	uc := NewSubmitBooking(repo, nil, nil)

	d := bookingdomain.NewDraft("client-1")

	_, err := uc.Execute(context.Background(), d)
	assert.True(t, httperr.IsBusiness(err, "invalid_step"))
	assert.Empty(t, repo.created)
}

func TestSubmitFailureKeepsDraftOnConfirmStep(t *testing.T) {
	repo := &fakeRepo{fail: errors.New("db down")}
	uc := NewSubmitBooking(repo, nil, nil)

	d := confirmReadyDraft(t)

	_, err := uc.Execute(context.Background(), d)
	require.Error(t, err)

	// o rascunho não avança; o cliente decide se tenta de novo
	assert.Equal(t, bookingdomain.StepConfirm, d.Step)
	assert.NotNil(t, d.Service)
	assert.NotNil(t, d.Barber)
}
