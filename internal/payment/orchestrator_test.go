package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barbererp/backend/internal/httperr"
	"github.com/barbererp/backend/internal/models"
)

func pendingAppointment() *models.Appointment {
	return &models.Appointment{
		ID:            "ap-1",
		Status:        "scheduled",
		PaymentStatus: "pending",
		Service:       &models.Service{ID: "svc-1", Name: "Corte", Price: 50},
	}
}

func pixCode() *PixCode {
	return &PixCode{QRCodeBase64: "img", CopiaECola: "000201..."}
}

func TestOrchestratorHappyPath(t *testing.T) {
	o := NewOrchestrator()
	require.Equal(t, StateIdle, o.State())

	require.NoError(t, o.Start(pendingAppointment()))
	assert.Equal(t, StateRequestingCode, o.State())

	require.NoError(t, o.AttachCode(pixCode()))
	assert.Equal(t, StateShowingCode, o.State())

	require.NoError(t, o.Confirm())
	assert.Equal(t, StateConfirmed, o.State())
}

func TestStartRejectsPaidAppointment(t *testing.T) {
	o := NewOrchestrator()

	ap := pendingAppointment()
	ap.PaymentStatus = "paid"

	err := o.Start(ap)
	assert.True(t, httperr.IsBusiness(err, "already_paid"))
	assert.Equal(t, StateIdle, o.State())
}

func TestStartRejectsSecondFlow(t *testing.T) {
	o := NewOrchestrator()
	require.NoError(t, o.Start(pendingAppointment()))

	err := o.Start(pendingAppointment())
	assert.True(t, httperr.IsBusiness(err, "payment_in_progress"))
}

func TestAttachCodeRequiresRequestingState(t *testing.T) {
	o := NewOrchestrator()

	err := o.AttachCode(pixCode())
	assert.True(t, httperr.IsBusiness(err, "invalid_payment_state"))
}

func TestAttachCodeRejectsEmptyCode(t *testing.T) {
	o := NewOrchestrator()
	require.NoError(t, o.Start(pendingAppointment()))

	err := o.AttachCode(&PixCode{})
	assert.True(t, httperr.IsBusiness(err, "pix_unavailable"))
}

func TestFailReturnsToIdleOnlyWhileRequesting(t *testing.T) {
	o := NewOrchestrator()
	require.NoError(t, o.Start(pendingAppointment()))

	o.Fail()
	assert.Equal(t, StateIdle, o.State())
	assert.Nil(t, o.Appointment())

	// retry é uma nova ação do usuário
	require.NoError(t, o.Start(pendingAppointment()))
	require.NoError(t, o.AttachCode(pixCode()))

	// Fail fora de requesting_code não derruba o código exibido
	o.Fail()
	assert.Equal(t, StateShowingCode, o.State())
}

func TestConfirmRequiresShowingCode(t *testing.T) {
	o := NewOrchestrator()

	err := o.Confirm()
	assert.True(t, httperr.IsBusiness(err, "invalid_payment_state"))

	require.NoError(t, o.Start(pendingAppointment()))
	err = o.Confirm()
	assert.True(t, httperr.IsBusiness(err, "invalid_payment_state"))
}

func TestResetClearsFlow(t *testing.T) {
	o := NewOrchestrator()
	require.NoError(t, o.Start(pendingAppointment()))
	require.NoError(t, o.AttachCode(pixCode()))

	o.Reset()

	assert.Equal(t, StateIdle, o.State())
	assert.Nil(t, o.Appointment())
	assert.Nil(t, o.Code())
}
