package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/barbererp/backend/internal/models"
)

func newMockRepo(t *testing.T) (*AppointmentGormRepository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn: sqlDB,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewAppointmentGormRepository(gdb), mock
}

func paidReadyAppointment() *models.Appointment {
	clientID := "client-1"
	barberID := "brb-1"
	serviceID := "svc-1"

	return &models.Appointment{
		ID:            "ap-1",
		ClientID:      &clientID,
		BarberID:      &barberID,
		ServiceID:     &serviceID,
		Status:        "scheduled",
		PaymentStatus: "pending",
		Service:       &models.Service{ID: serviceID, Name: "Corte", Price: 50},
	}
}

// ======================================================
// PayAppointment
// ======================================================

func TestPayAppointmentWritesInOrder(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "sales"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "sale_items"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "appointments" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	sale, err := repo.PayAppointment(context.Background(), paidReadyAppointment())
	require.NoError(t, err)

	assert.Equal(t, float64(50), sale.Total)
	assert.Equal(t, models.PaymentMethodPix, sale.PaymentMethod)
	assert.Equal(t, models.SalePaymentCompleted, sale.PaymentStatus)

	require.Len(t, sale.Items, 1)
	assert.Equal(t, models.SaleItemService, sale.Items[0].ItemType)
	assert.Equal(t, 1, sale.Items[0].Quantity)
	assert.Equal(t, float64(50), sale.Items[0].UnitPrice)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPayAppointmentRollsBackWhenSaleFails(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "sales"`).
		WillReturnError(errors.New("insert failed"))
	mock.ExpectRollback()

	_, err := repo.PayAppointment(context.Background(), paidReadyAppointment())
	require.Error(t, err)

	// nada além da venda foi tentado
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPayAppointmentRollsBackWhenItemFails(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "sales"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "sale_items"`).
		WillReturnError(errors.New("insert failed"))
	mock.ExpectRollback()

	_, err := repo.PayAppointment(context.Background(), paidReadyAppointment())
	require.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPayAppointmentRequiresLoadedService(t *testing.T) {
	repo, _ := newMockRepo(t)

	ap := paidReadyAppointment()
	ap.Service = nil

	_, err := repo.PayAppointment(context.Background(), ap)
	assert.Error(t, err)
}
