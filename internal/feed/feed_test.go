package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barbererp/backend/internal/models"
)

func pending(id string) models.Appointment {
	return models.Appointment{
		ID:            id,
		Status:        "scheduled",
		PaymentStatus: "pending",
	}
}

func paid(id string) models.Appointment {
	ap := pending(id)
	ap.PaymentStatus = "paid"
	return ap
}

// ======================================================
// Carga inicial
// ======================================================

func TestNewFiltersPaidAppointments(t *testing.T) {
	f := New([]models.Appointment{pending("a"), paid("b"), pending("c")})

	require.Equal(t, 2, f.Len())
	items := f.Items()
	assert.Equal(t, "a", items[0].ID)
	assert.Equal(t, "c", items[1].ID)
}

// ======================================================
// Insert
// ======================================================

func TestInsertPrepends(t *testing.T) {
	f := New([]models.Appointment{pending("a")})

	ap := pending("b")
	f.Apply(Event{Kind: EventInsert, New: &ap})

	items := f.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "b", items[0].ID)
}

func TestInsertIsIdempotentById(t *testing.T) {
	f := New(nil)

	ap := pending("a")
	f.Apply(Event{Kind: EventInsert, New: &ap})

	// janela entre a escrita local e o push: o mesmo registro
	// chega de novo pelo canal
	dup := pending("a")
	dup.Notes = "atualizado"
	f.Apply(Event{Kind: EventInsert, New: &dup})

	items := f.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "atualizado", items[0].Notes)
}

// ======================================================
// Update
// ======================================================

func TestUpdateMergesInPlace(t *testing.T) {
	f := New([]models.Appointment{pending("a"), pending("b")})

	upd := pending("b")
	upd.Status = "cancelled"
	removed := f.Apply(Event{Kind: EventUpdate, New: &upd})

	assert.Nil(t, removed)
	items := f.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "cancelled", items[1].Status)
}

func TestUpdatePaidRemovesAndNotifies(t *testing.T) {
	f := New([]models.Appointment{pending("a"), pending("b")})

	removed := f.Apply(Event{Kind: EventUpdate, New: func() *models.Appointment {
		ap := paid("a")
		return &ap
	}()})

	require.NotNil(t, removed)
	assert.Equal(t, "a", removed.ID)
	assert.Equal(t, 1, f.Len())
}

func TestPaidAppointmentNeverComesBack(t *testing.T) {
	f := New([]models.Appointment{pending("a")})

	ap := paid("a")
	f.Apply(Event{Kind: EventUpdate, New: &ap})
	require.Equal(t, 0, f.Len())

	// evento atrasado reinserindo o mesmo registro
	late := pending("a")
	f.Apply(Event{Kind: EventInsert, New: &late})
	assert.Equal(t, 0, f.Len())
}

func TestUpdateForUnknownIdIsNoOp(t *testing.T) {
	f := New([]models.Appointment{pending("a")})

	upd := pending("x")
	removed := f.Apply(Event{Kind: EventUpdate, New: &upd})

	assert.Nil(t, removed)
	assert.Equal(t, 1, f.Len())
}

// ======================================================
// Delete
// ======================================================

func TestDeleteRemovesById(t *testing.T) {
	f := New([]models.Appointment{pending("a"), pending("b")})

	f.Apply(Event{Kind: EventDelete, OldID: "a"})

	items := f.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "b", items[0].ID)
}

func TestDeleteForUnknownIdIsNoOp(t *testing.T) {
	f := New([]models.Appointment{pending("a")})

	f.Apply(Event{Kind: EventDelete, OldID: "missing"})

	assert.Equal(t, 1, f.Len())
}

// ======================================================
// Items
// ======================================================

func TestItemsReturnsACopy(t *testing.T) {
	f := New([]models.Appointment{pending("a")})

	items := f.Items()
	items[0].ID = "mutated"

	assert.Equal(t, "a", f.Items()[0].ID)
}
