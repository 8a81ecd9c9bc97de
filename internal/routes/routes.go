package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/barbererp/backend/internal/audit"
	"github.com/barbererp/backend/internal/config"
	"github.com/barbererp/backend/internal/handlers"
	infraRepo "github.com/barbererp/backend/internal/infra/repository"
	"github.com/barbererp/backend/internal/media"
	"github.com/barbererp/backend/internal/middleware"
	"github.com/barbererp/backend/internal/models"
	"github.com/barbererp/backend/internal/payment"
	"github.com/barbererp/backend/internal/realtime"
	ucAppointment "github.com/barbererp/backend/internal/usecase/appointment"
	ucBooking "github.com/barbererp/backend/internal/usecase/booking"
	ucPayment "github.com/barbererp/backend/internal/usecase/payment"
)

type Deps struct {
	DB       *gorm.DB
	Config   *config.Config
	Bus      *realtime.Bus
	Pix      payment.CodeRequester
	Uploader media.Uploader
}

func RegisterRoutes(r *gin.Engine, deps Deps) {
	db := deps.DB
	cfg := deps.Config
	bus := deps.Bus

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	// ======================================================
	// 🧠 USE CASES
	// ======================================================
	createAppointmentUC := ucAppointment.NewCreateAppointment(
		appointmentRepo,
		bus,
		auditDispatcher,
	)

	completeAppointmentUC := ucAppointment.NewCompleteAppointment(
		appointmentRepo,
		bus,
		auditDispatcher,
	)

	cancelAppointmentUC := ucAppointment.NewCancelAppointment(
		appointmentRepo,
		bus,
		auditDispatcher,
	)

	listAppointmentsByDateUC := ucAppointment.NewListAppointmentsByDate(
		appointmentRepo,
	)

	listAppointmentsByMonthUC := ucAppointment.NewListAppointmentsByMonth(
		appointmentRepo,
	)

	availabilityUC := ucAppointment.NewGetAvailability(appointmentRepo)

	submitBookingUC := ucBooking.NewSubmitBooking(
		appointmentRepo,
		bus,
		auditDispatcher,
	)

	confirmPaymentUC := ucPayment.NewConfirmPayment(
		appointmentRepo,
		bus,
		auditDispatcher,
	)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db, deps.Uploader)

	clientHandler := handlers.NewClientHandler(db, bus)
	barberHandler := handlers.NewBarberHandler(db, deps.Uploader)
	serviceHandler := handlers.NewServiceHandler(db)
	productHandler := handlers.NewProductHandler(db)

	appointmentHandler := handlers.NewAppointmentHandler(
		db,
		bus,
		auditDispatcher,
		createAppointmentUC,
		cancelAppointmentUC,
		completeAppointmentUC,
		listAppointmentsByDateUC,
		listAppointmentsByMonthUC,
		availabilityUC,
	)

	bookingHandler := handlers.NewBookingHandler(db, submitBookingUC)
	paymentHandler := handlers.NewPaymentHandler(appointmentRepo, deps.Pix, confirmPaymentUC)
	feedHandler := handlers.NewFeedHandler(appointmentRepo, bus)

	saleHandler := handlers.NewSaleHandler(db, bus, auditDispatcher)
	dashboardHandler := handlers.NewDashboardHandler(db, bus)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// 🔐 API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)
			secured.POST("/me/avatar", meHandler.UploadAvatar)

			secured.POST("/pix", paymentHandler.Pix)

			// ------------------------------
			// ÁREA DO CLIENTE
			// ------------------------------
			client := secured.Group("/me")
			client.Use(middleware.RequireRole(models.RoleClient))
			{
				client.GET("/booking/options", bookingHandler.Options)
				client.GET("/booking", bookingHandler.State)
				client.POST("/booking/service", bookingHandler.SelectService)
				client.POST("/booking/barber", bookingHandler.SelectBarber)
				client.POST("/booking/date", bookingHandler.SelectDate)
				client.GET("/booking/times", bookingHandler.Times)
				client.POST("/booking/time", bookingHandler.SelectTime)
				client.POST("/booking/back", bookingHandler.Back)
				client.POST("/booking/confirm", bookingHandler.Confirm)
				client.DELETE("/booking", bookingHandler.Reset)

				client.GET("/appointments", feedHandler.ListPending)
				client.GET("/appointments/stream", feedHandler.Stream)

				client.POST("/payments", paymentHandler.Start)
				client.GET("/payments", paymentHandler.State)
				client.POST("/payments/confirm", paymentHandler.Confirm)
				client.DELETE("/payments", paymentHandler.Close)
			}

			// ------------------------------
			// TELAS ADMINISTRATIVAS
			// ------------------------------
			staff := secured.Group("/")
			staff.Use(middleware.RequireRole(models.RoleAdmin, models.RoleStaff))
			{
				staff.GET("/clients", clientHandler.List)
				staff.POST("/clients", clientHandler.Create)
				staff.PATCH("/clients/:id", clientHandler.Update)
				staff.DELETE("/clients/:id", clientHandler.Delete)

				staff.GET("/barbers", barberHandler.List)
				staff.POST("/barbers", barberHandler.Create)
				staff.PATCH("/barbers/:id", barberHandler.Update)
				staff.DELETE("/barbers/:id", barberHandler.Delete)
				staff.POST("/barbers/:id/avatar", barberHandler.UploadAvatar)

				staff.GET("/services", serviceHandler.List)
				staff.POST("/services", serviceHandler.Create)
				staff.PATCH("/services/:id", serviceHandler.Update)
				staff.DELETE("/services/:id", serviceHandler.Delete)

				staff.GET("/products", productHandler.List)
				staff.POST("/products", productHandler.Create)
				staff.PATCH("/products/:id", productHandler.Update)
				staff.DELETE("/products/:id", productHandler.Delete)

				// ------------------------------
				// APPOINTMENTS
				// ------------------------------
				staff.POST("/appointments", appointmentHandler.Create)
				staff.GET("/appointments", appointmentHandler.ListByDate)
				staff.GET("/appointments/month", appointmentHandler.ListByMonth)
				staff.GET("/appointments/availability", appointmentHandler.Availability)
				staff.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)
				staff.PATCH("/appointments/:id/complete", appointmentHandler.Complete)
				staff.DELETE("/appointments/:id", appointmentHandler.Delete)

				// ------------------------------
				// CAIXA / RELATÓRIOS
				// ------------------------------
				staff.POST("/sales", saleHandler.Create)
				staff.GET("/sales", saleHandler.List)
				staff.GET("/reports/financial", saleHandler.FinancialReport)

				staff.GET("/dashboard", dashboardHandler.Stats)
				staff.GET("/dashboard/stream", dashboardHandler.Stream)

				staff.GET("/audit-logs", auditLogsHandler.List)
			}
		}
	}
}
