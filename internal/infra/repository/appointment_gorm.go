package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/barbererp/backend/internal/domain/appointment"
	"github.com/barbererp/backend/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Catalog
// --------------------------------------------------

func (r *AppointmentGormRepository) GetService(
	ctx context.Context,
	id string,
) (*models.Service, error) {

	var service models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&service).Error; err != nil {
		return nil, err
	}
	return &service, nil
}

func (r *AppointmentGormRepository) GetBarber(
	ctx context.Context,
	id string,
) (*models.Barber, error) {

	var barber models.Barber
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&barber).Error; err != nil {
		return nil, err
	}
	return &barber, nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Create(ap).Error
}

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	appointmentID string,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Barber").
		Preload("Service").
		Where("id = ?", appointmentID).
		First(&ap).Error; err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) GetClientAppointment(
	ctx context.Context,
	clientID string,
	appointmentID string,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Barber").
		Preload("Service").
		Where("id = ? AND client_id = ?", appointmentID, clientID).
		First(&ap).Error; err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) ListPendingForClient(
	ctx context.Context,
	clientID string,
) ([]models.Appointment, error) {

	var appointments []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Barber").
		Preload("Service").
		Where("client_id = ? AND payment_status <> ?", clientID, string(domain.PaymentPaid)).
		Order("appointment_date DESC").
		Find(&appointments).Error; err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *AppointmentGormRepository) ListAppointmentsForPeriod(
	ctx context.Context,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var appointments []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Barber").
		Preload("Service").
		Where("appointment_date >= ? AND appointment_date < ?", start, end).
		Order("appointment_date ASC").
		Find(&appointments).Error; err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Save(ap).Error
}

// --------------------------------------------------
// Payment confirmation
// --------------------------------------------------

// PayAppointment grava a venda, o item da venda e a baixa do
// agendamento numa única transação, nesta ordem.
func (r *AppointmentGormRepository) PayAppointment(
	ctx context.Context,
	ap *models.Appointment,
) (*models.Sale, error) {

	if ap.Service == nil {
		return nil, gorm.ErrRecordNotFound
	}
	total := ap.Service.Price

	sale := models.Sale{
		ClientID:      ap.ClientID,
		BarberID:      ap.BarberID,
		Total:         total,
		Discount:      0,
		PaymentMethod: models.PaymentMethodPix,
		PaymentStatus: models.SalePaymentCompleted,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&sale).Error; err != nil {
			return err
		}

		item := models.SaleItem{
			SaleID:     sale.ID,
			ItemType:   models.SaleItemService,
			ServiceID:  ap.ServiceID,
			Quantity:   1,
			UnitPrice:  total,
			TotalPrice: total,
		}
		if err := tx.Omit(clause.Associations).Create(&item).Error; err != nil {
			return err
		}
		sale.Items = []models.SaleItem{item}

		return tx.Model(&models.Appointment{}).
			Where("id = ?", ap.ID).
			Update("payment_status", string(domain.PaymentPaid)).Error
	})
	if err != nil {
		return nil, err
	}

	return &sale, nil
}
