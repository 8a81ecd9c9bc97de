package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"

	domain "github.com/barbererp/backend/internal/domain/appointment"
	"github.com/barbererp/backend/internal/httperr"
	"github.com/barbererp/backend/internal/models"
	"github.com/barbererp/backend/internal/realtime"
	"github.com/barbererp/backend/internal/timezone"
)

// ======================================================
// HANDLER
// ======================================================

// eventSource abre assinaturas de mudanças por tabela; em produção
// é o bus do Redis.
type eventSource interface {
	Subscribe(ctx context.Context, table, clientID string) *realtime.Subscription
}

// dashboardTables são as tabelas cuja mudança dispara um refresh
// do painel.
var dashboardTables = []string{"sales", "clients", "appointments"}

type DashboardHandler struct {
	db  *gorm.DB
	bus eventSource
}

func NewDashboardHandler(db *gorm.DB, bus eventSource) *DashboardHandler {
	return &DashboardHandler{db: db, bus: bus}
}

type dashboardStats struct {
	AppointmentsToday int64   `json:"appointments_today"`
	PendingPayments   int64   `json:"pending_payments"`
	RevenueToday      float64 `json:"revenue_today"`
	LowStockProducts  int64   `json:"low_stock_products"`
}

func (h *DashboardHandler) stats() (dashboardStats, error) {
	now := timezone.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := start.Add(24 * time.Hour)

	var s dashboardStats

	if err := h.db.Model(&models.Appointment{}).
		Where("appointment_date >= ? AND appointment_date < ? AND status <> ?",
			start, end, string(domain.StatusCancelled)).
		Count(&s.AppointmentsToday).Error; err != nil {
		return s, err
	}

	if err := h.db.Model(&models.Appointment{}).
		Where("payment_status = ? AND status <> ?",
			string(domain.PaymentPending), string(domain.StatusCancelled)).
		Count(&s.PendingPayments).Error; err != nil {
		return s, err
	}

	if err := h.db.Model(&models.Sale{}).
		Select("COALESCE(SUM(total), 0)").
		Where("created_at >= ? AND created_at < ? AND payment_status = ?",
			start, end, models.SalePaymentCompleted).
		Scan(&s.RevenueToday).Error; err != nil {
		return s, err
	}

	if err := h.db.Model(&models.Product{}).
		Where("active = ? AND stock <= min_stock", true).
		Count(&s.LowStockProducts).Error; err != nil {
		return s, err
	}

	return s, nil
}

// ======================================================
// STATS
// ======================================================

func (h *DashboardHandler) Stats(c *gin.Context) {
	s, err := h.stats()
	if err != nil {
		httperr.Internal(c, "dashboard_failed", "Erro ao montar o painel.")
		return
	}
	c.JSON(200, s)
}

// ======================================================
// STREAM
// ======================================================

// Stream reenvia o painel a cada mudança em vendas, clientes ou
// agendamentos; entre eventos, um refresh periódico cobre mudanças
// que não passam pelo canal.
func (h *DashboardHandler) Stream(c *gin.Context) {
	conn, err := feedUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx := c.Request.Context()

	events := make(chan realtime.Event, 8)
	for _, table := range dashboardTables {
		sub := h.bus.Subscribe(ctx, table, "")
		defer sub.Close()

		go func(sub *realtime.Subscription) {
			for {
				select {
				case ev, ok := <-sub.Events():
					if !ok {
						return
					}
					select {
					case events <- ev:
					case <-ctx.Done():
						return
					}
				case <-ctx.Done():
					return
				}
			}
		}(sub)
	}

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(60 * time.Second)
	defer ticker.Stop()

	if !h.pushStats(conn) {
		return
	}

	for {
		select {
		case <-closed:
			return
		case <-ctx.Done():
			return
		case <-events:
			if !h.pushStats(conn) {
				return
			}
		case <-ticker.C:
			if !h.pushStats(conn) {
				return
			}
		}
	}
}

func (h *DashboardHandler) pushStats(conn *websocket.Conn) bool {
	s, err := h.stats()
	if err != nil {
		return false
	}
	_ = conn.SetWriteDeadline(time.Now().Add(feedWriteWait))
	return conn.WriteJSON(s) == nil
}
