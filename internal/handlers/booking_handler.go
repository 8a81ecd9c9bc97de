package handlers

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/barbererp/backend/internal/domain/booking"
	"github.com/barbererp/backend/internal/httperr"
	"github.com/barbererp/backend/internal/middleware"
	"github.com/barbererp/backend/internal/models"
	"github.com/barbererp/backend/internal/timezone"
	bookinguc "github.com/barbererp/backend/internal/usecase/booking"
)

// ======================================================
// SESSION STORE
// ======================================================

// draftStore guarda o rascunho de agendamento de cada cliente.
// Um cliente tem no máximo um rascunho em andamento; requisições
// do mesmo cliente são serializadas pelo lock da sessão dele. O
// lock do mapa cobre apenas a busca da sessão, nunca a gravação
// do agendamento.
type draftSession struct {
	mu    sync.Mutex
	draft *booking.Draft
}

type draftStore struct {
	mu       sync.Mutex
	sessions map[string]*draftSession
}

func newDraftStore() *draftStore {
	return &draftStore{sessions: make(map[string]*draftSession)}
}

func (s *draftStore) session(clientID string) *draftSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[clientID]
	if !ok {
		sess = &draftSession{draft: booking.NewDraft(clientID)}
		s.sessions[clientID] = sess
	}
	return sess
}

// ======================================================
// HANDLER
// ======================================================

type BookingHandler struct {
	db     *gorm.DB
	submit *bookinguc.SubmitBooking
	store  *draftStore
}

func NewBookingHandler(db *gorm.DB, submit *bookinguc.SubmitBooking) *BookingHandler {
	return &BookingHandler{
		db:     db,
		submit: submit,
		store:  newDraftStore(),
	}
}

// withDraft executa fn segurando o lock da sessão do cliente.
func (h *BookingHandler) withDraft(c *gin.Context, fn func(d *booking.Draft)) {
	clientID := c.MustGet(middleware.ContextUserID).(string)

	sess := h.store.session(clientID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	fn(sess.draft)
}

// ======================================================
// OPTIONS (catálogo do wizard)
// ======================================================

// Options devolve serviços e barbeiros ativos numa única resposta;
// inativos nunca aparecem para o cliente.
func (h *BookingHandler) Options(c *gin.Context) {
	var services []models.Service
	if err := h.db.
		Where("active = ?", true).
		Order("name ASC").
		Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_load_services", "Erro ao carregar serviços.")
		return
	}

	var barbers []models.Barber
	if err := h.db.
		Where("active = ?", true).
		Order("name ASC").
		Find(&barbers).Error; err != nil {
		httperr.Internal(c, "failed_to_load_barbers", "Erro ao carregar barbeiros.")
		return
	}

	c.JSON(200, gin.H{
		"services": services,
		"barbers":  barbers,
	})
}

// ======================================================
// STATE
// ======================================================

func (h *BookingHandler) State(c *gin.Context) {
	h.withDraft(c, func(d *booking.Draft) {
		c.JSON(200, draftResponse(d))
	})
}

func draftResponse(d *booking.Draft) gin.H {
	resp := gin.H{"step": d.Step}

	if d.Service != nil {
		resp["service"] = d.Service
	}
	if d.Barber != nil {
		resp["barber"] = d.Barber
	}
	if !d.Date.IsZero() {
		resp["date"] = d.Date.Format("2006-01-02")
	}
	if d.Time != "" {
		resp["time"] = d.Time
	}
	if d.Step == booking.StepTime {
		resp["available_times"] = d.AvailableTimes()
	}

	return resp
}

// ======================================================
// STEPS
// ======================================================

type selectServiceRequest struct {
	ServiceID string `json:"service_id" binding:"required"`
}

func (h *BookingHandler) SelectService(c *gin.Context) {
	var req selectServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	var service models.Service
	if err := h.db.Where("id = ?", req.ServiceID).First(&service).Error; err != nil {
		httperr.NotFound(c, "service_not_found", "Serviço não encontrado.")
		return
	}

	h.withDraft(c, func(d *booking.Draft) {
		if err := d.SelectService(&service); err != nil {
			httperr.WriteBusiness(c, err)
			return
		}
		c.JSON(200, draftResponse(d))
	})
}

type selectBarberRequest struct {
	BarberID string `json:"barber_id" binding:"required"`
}

func (h *BookingHandler) SelectBarber(c *gin.Context) {
	var req selectBarberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	var barber models.Barber
	if err := h.db.Where("id = ?", req.BarberID).First(&barber).Error; err != nil {
		httperr.NotFound(c, "barber_not_found", "Barbeiro não encontrado.")
		return
	}

	h.withDraft(c, func(d *booking.Draft) {
		if err := d.SelectBarber(&barber); err != nil {
			httperr.WriteBusiness(c, err)
			return
		}
		c.JSON(200, draftResponse(d))
	})
}

type selectDateRequest struct {
	Date string `json:"date" binding:"required"`
}

func (h *BookingHandler) SelectDate(c *gin.Context) {
	var req selectDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	loc := timezone.Location("")
	date, err := time.ParseInLocation("2006-01-02", req.Date, loc)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return
	}

	h.withDraft(c, func(d *booking.Draft) {
		if err := d.SelectDate(date, time.Now().In(loc)); err != nil {
			httperr.WriteBusiness(c, err)
			return
		}
		c.JSON(200, draftResponse(d))
	})
}

func (h *BookingHandler) Times(c *gin.Context) {
	h.withDraft(c, func(d *booking.Draft) {
		c.JSON(200, gin.H{"times": d.AvailableTimes()})
	})
}

type selectTimeRequest struct {
	Time string `json:"time" binding:"required"`
}

func (h *BookingHandler) SelectTime(c *gin.Context) {
	var req selectTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	h.withDraft(c, func(d *booking.Draft) {
		if err := d.SelectTime(req.Time); err != nil {
			httperr.WriteBusiness(c, err)
			return
		}
		c.JSON(200, draftResponse(d))
	})
}

func (h *BookingHandler) Back(c *gin.Context) {
	h.withDraft(c, func(d *booking.Draft) {
		if err := d.Back(); err != nil {
			httperr.WriteBusiness(c, err)
			return
		}
		c.JSON(200, draftResponse(d))
	})
}

// ======================================================
// CONFIRM / RESET
// ======================================================

func (h *BookingHandler) Confirm(c *gin.Context) {
	h.withDraft(c, func(d *booking.Draft) {
		ap, err := h.submit.Execute(c.Request.Context(), d)
		if err != nil {
			// o rascunho permanece no passo confirm; o cliente
			// decide se tenta de novo
			if httperr.WriteBusiness(c, err) {
				return
			}
			httperr.Internal(c, "failed_to_create_appointment", "Erro ao criar agendamento.")
			return
		}

		c.JSON(201, gin.H{
			"step":        d.Step,
			"appointment": ap,
		})
	})
}

// Reset descarta o rascunho atual e começa do zero.
func (h *BookingHandler) Reset(c *gin.Context) {
	h.withDraft(c, func(d *booking.Draft) {
		d.Reset()
		c.JSON(200, draftResponse(d))
	})
}
