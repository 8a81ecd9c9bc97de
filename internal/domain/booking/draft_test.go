package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barbererp/backend/internal/httperr"
	"github.com/barbererp/backend/internal/models"
)

func activeService() *models.Service {
	return &models.Service{
		ID:              "svc-1",
		Name:            "Corte",
		Price:           50,
		DurationMinutes: 45,
		Active:          true,
	}
}

func activeBarber() *models.Barber {
	return &models.Barber{ID: "brb-1", Name: "João", Active: true}
}

func confirmReadyDraft(t *testing.T, now time.Time) *Draft {
	t.Helper()

	d := NewDraft("client-1")
	require.NoError(t, d.SelectService(activeService()))
	require.NoError(t, d.SelectBarber(activeBarber()))
	require.NoError(t, d.SelectDate(now.AddDate(0, 0, 7), now))
	require.NoError(t, d.SelectTime("09:45"))
	return d
}

// ======================================================
// Passos
// ======================================================

func TestDraftHappyPath(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	d := confirmReadyDraft(t, now)

	assert.Equal(t, StepConfirm, d.Step)
	require.NoError(t, d.EnsureComplete())
}

func TestDraftRejectsOutOfOrderSelection(t *testing.T) {
	d := NewDraft("client-1")

	err := d.SelectBarber(activeBarber())
	assert.True(t, httperr.IsBusiness(err, "invalid_step"))

	err = d.SelectTime("09:00")
	assert.True(t, httperr.IsBusiness(err, "invalid_step"))
}

func TestDraftRejectsInactiveCatalogEntries(t *testing.T) {
	d := NewDraft("client-1")

	svc := activeService()
	svc.Active = false
	err := d.SelectService(svc)
	assert.True(t, httperr.IsBusiness(err, "inactive_service"))

	require.NoError(t, d.SelectService(activeService()))

	brb := activeBarber()
	brb.Active = false
	err = d.SelectBarber(brb)
	assert.True(t, httperr.IsBusiness(err, "inactive_barber"))
}

// ======================================================
// Janela de datas
// ======================================================

func TestDraftDateWindow(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	setup := func(t *testing.T) *Draft {
		d := NewDraft("client-1")
		require.NoError(t, d.SelectService(activeService()))
		require.NoError(t, d.SelectBarber(activeBarber()))
		return d
	}

	t.Run("hoje é aceito", func(t *testing.T) {
		d := setup(t)
		assert.NoError(t, d.SelectDate(now, now))
	})

	t.Run("limite de 60 dias é aceito", func(t *testing.T) {
		d := setup(t)
		assert.NoError(t, d.SelectDate(now.AddDate(0, 0, MaxAdvanceDays), now))
	})

	t.Run("ontem é rejeitado", func(t *testing.T) {
		d := setup(t)
		err := d.SelectDate(now.AddDate(0, 0, -1), now)
		assert.True(t, httperr.IsBusiness(err, "date_out_of_range"))
	})

	t.Run("61 dias é rejeitado", func(t *testing.T) {
		d := setup(t)
		err := d.SelectDate(now.AddDate(0, 0, MaxAdvanceDays+1), now)
		assert.True(t, httperr.IsBusiness(err, "date_out_of_range"))
	})
}

// ======================================================
// Horários
// ======================================================

func TestDraftRejectsSlotOutsideGrid(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	d := NewDraft("client-1")
	require.NoError(t, d.SelectService(activeService()))
	require.NoError(t, d.SelectBarber(activeBarber()))
	require.NoError(t, d.SelectDate(now.AddDate(0, 0, 1), now))

	err := d.SelectTime("09:15")
	assert.True(t, httperr.IsBusiness(err, "invalid_slot"))

	err = d.SelectTime("18:00")
	assert.True(t, httperr.IsBusiness(err, "invalid_slot"))
}

func TestDraftTimesFollowSelectedService(t *testing.T) {
	d := NewDraft("client-1")

	assert.Nil(t, d.AvailableTimes())

	require.NoError(t, d.SelectService(activeService()))
	assert.Contains(t, d.AvailableTimes(), "09:45")
}

// ======================================================
// Back / Reset
// ======================================================

func TestDraftBackWalksOneStepAtATime(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	d := confirmReadyDraft(t, now)

	require.NoError(t, d.Back())
	assert.Equal(t, StepTime, d.Step)

	require.NoError(t, d.Back())
	assert.Equal(t, StepDate, d.Step)

	require.NoError(t, d.Back())
	assert.Equal(t, StepBarber, d.Step)

	require.NoError(t, d.Back())
	assert.Equal(t, StepService, d.Step)

	err := d.Back()
	assert.True(t, httperr.IsBusiness(err, "cannot_go_back"))
}

func TestDraftCannotGoBackAfterSuccess(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	d := confirmReadyDraft(t, now)

	d.Succeed()

	err := d.Back()
	assert.True(t, httperr.IsBusiness(err, "cannot_go_back"))
}

func TestDraftResetClearsEverything(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	d := confirmReadyDraft(t, now)

	d.Reset()

	assert.Equal(t, StepService, d.Step)
	assert.Nil(t, d.Service)
	assert.Nil(t, d.Barber)
	assert.True(t, d.Date.IsZero())
	assert.Empty(t, d.Time)
	assert.Equal(t, "client-1", d.ClientID)
}

// ======================================================
// Submit guard
// ======================================================

func TestEnsureCompleteRejectsWrongStep(t *testing.T) {
	d := NewDraft("client-1")
	err := d.EnsureComplete()
	assert.True(t, httperr.IsBusiness(err, "invalid_step"))
}

func TestEnsureCompleteRejectsMissingField(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	d := confirmReadyDraft(t, now)

	// estado corrompido manualmente: o guard ainda segura o submit
	d.Time = ""
	err := d.EnsureComplete()
	assert.True(t, httperr.IsBusiness(err, "incomplete_booking"))
}

func TestStartTimeCombinesDateAndSlot(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	d := confirmReadyDraft(t, now)

	start, err := d.StartTime(time.UTC)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 3, 17, 9, 45, 0, 0, time.UTC), start)
}
