package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/barbererp/backend/internal/audit"
	"github.com/barbererp/backend/internal/httperr"
	"github.com/barbererp/backend/internal/httpresp"
	"github.com/barbererp/backend/internal/middleware"
	"github.com/barbererp/backend/internal/models"
	"github.com/barbererp/backend/internal/realtime"
	"github.com/barbererp/backend/internal/timezone"
)

// ======================================================
// HANDLER
// ======================================================

type SaleHandler struct {
	db    *gorm.DB
	bus   *realtime.Bus
	audit *audit.Dispatcher
}

func NewSaleHandler(db *gorm.DB, bus *realtime.Bus, dispatcher *audit.Dispatcher) *SaleHandler {
	return &SaleHandler{db: db, bus: bus, audit: dispatcher}
}

// ======================================================
// REQUESTS
// ======================================================

type saleItemRequest struct {
	ItemType  string  `json:"item_type" binding:"required"`
	ServiceID *string `json:"service_id"`
	ProductID *string `json:"product_id"`
	Quantity  int     `json:"quantity" binding:"required,gt=0"`
}

type createSaleRequest struct {
	ClientID      *string           `json:"client_id"`
	BarberID      *string           `json:"barber_id"`
	Discount      float64           `json:"discount"`
	PaymentMethod string            `json:"payment_method" binding:"required"`
	Notes         string            `json:"notes"`
	Items         []saleItemRequest `json:"items" binding:"required,min=1"`
}

// ======================================================
// CREATE (caixa)
// ======================================================

// Create fecha uma venda do caixa: resolve preços no servidor,
// baixa o estoque dos produtos e grava venda + itens numa única
// transação.
func (h *SaleHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(string)

	var req createSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	if req.PaymentMethod != models.PaymentMethodCash &&
		req.PaymentMethod != models.PaymentMethodCard &&
		req.PaymentMethod != models.PaymentMethodPix {
		httperr.BadRequest(c, "invalid_payment_method", "Forma de pagamento inválida.")
		return
	}

	var sale models.Sale

	err := h.db.Transaction(func(tx *gorm.DB) error {
		var items []models.SaleItem
		var total float64

		for _, it := range req.Items {
			switch it.ItemType {

			case models.SaleItemService:
				if it.ServiceID == nil {
					return httperr.ErrBusiness("missing_service_id")
				}

				var service models.Service
				if err := tx.Where("id = ? AND active = ?", *it.ServiceID, true).
					First(&service).Error; err != nil {
					return httperr.ErrBusiness("service_not_found")
				}

				lineTotal := service.Price * float64(it.Quantity)
				total += lineTotal
				items = append(items, models.SaleItem{
					ItemType:   models.SaleItemService,
					ServiceID:  it.ServiceID,
					Quantity:   it.Quantity,
					UnitPrice:  service.Price,
					TotalPrice: lineTotal,
				})

			case models.SaleItemProduct:
				if it.ProductID == nil {
					return httperr.ErrBusiness("missing_product_id")
				}

				var product models.Product
				if err := tx.
					Clauses(clause.Locking{Strength: "UPDATE"}).
					Where("id = ? AND active = ?", *it.ProductID, true).
					First(&product).Error; err != nil {
					return httperr.ErrBusiness("product_not_found")
				}

				if product.Stock < it.Quantity {
					return httperr.ErrBusiness("insufficient_stock")
				}

				product.Stock -= it.Quantity
				if err := tx.Save(&product).Error; err != nil {
					return err
				}

				lineTotal := product.Price * float64(it.Quantity)
				total += lineTotal
				items = append(items, models.SaleItem{
					ItemType:   models.SaleItemProduct,
					ProductID:  it.ProductID,
					Quantity:   it.Quantity,
					UnitPrice:  product.Price,
					TotalPrice: lineTotal,
				})

			default:
				return httperr.ErrBusiness("invalid_item_type")
			}
		}

		if req.Discount < 0 || req.Discount > total {
			return httperr.ErrBusiness("invalid_discount")
		}

		sale = models.Sale{
			ClientID:      req.ClientID,
			BarberID:      req.BarberID,
			Total:         total - req.Discount,
			Discount:      req.Discount,
			PaymentMethod: req.PaymentMethod,
			PaymentStatus: models.SalePaymentCompleted,
			Notes:         req.Notes,
		}
		if err := tx.Omit(clause.Associations).Create(&sale).Error; err != nil {
			return err
		}

		for i := range items {
			items[i].SaleID = sale.ID
			if err := tx.Omit(clause.Associations).Create(&items[i]).Error; err != nil {
				return err
			}
		}
		sale.Items = items

		return nil
	})
	if err != nil {
		if httperr.WriteBusiness(c, err) {
			return
		}
		httperr.Internal(c, "failed_to_create_sale", "Erro ao registrar venda.")
		return
	}

	h.bus.PublishRow(c.Request.Context(), "sales", realtime.KindInsert, "", sale)

	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "sale_created",
		Entity:   "sale",
		EntityID: &sale.ID,
		Metadata: map[string]any{"total": sale.Total, "payment_method": sale.PaymentMethod},
	})

	c.JSON(201, sale)
}

// ======================================================
// LIST
// ======================================================

func (h *SaleHandler) List(c *gin.Context) {
	q := h.db.
		Preload("Client").
		Preload("Barber").
		Preload("Items")

	if dateStr := c.Query("date"); dateStr != "" {
		date, err := time.ParseInLocation("2006-01-02", dateStr, timezone.Location(""))
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Data inválida.")
			return
		}
		start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
		q = q.Where("created_at >= ? AND created_at < ?", start, start.Add(24*time.Hour))
	}

	var sales []models.Sale
	if err := q.Order("created_at DESC").Find(&sales).Error; err != nil {
		httperr.Internal(c, "failed_to_list_sales", "Erro ao listar vendas.")
		return
	}

	httpresp.List(c, sales)
}

// ======================================================
// RELATÓRIO FINANCEIRO
// ======================================================

// FinancialReport fecha o mês: faturamento total, descontos e
// quebra por forma de pagamento.
func (h *SaleHandler) FinancialReport(c *gin.Context) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year < 2000 || year > 2100 {
		httperr.BadRequest(c, "invalid_year", "Ano inválido.")
		return
	}

	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		httperr.BadRequest(c, "invalid_month", "Mês inválido.")
		return
	}

	loc := timezone.Location("")
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, 0)

	type methodRow struct {
		PaymentMethod string  `json:"payment_method"`
		Count         int64   `json:"count"`
		Total         float64 `json:"total"`
	}

	var byMethod []methodRow
	if err := h.db.Model(&models.Sale{}).
		Select("payment_method, COUNT(*) AS count, COALESCE(SUM(total), 0) AS total").
		Where("created_at >= ? AND created_at < ? AND payment_status = ?",
			start, end, models.SalePaymentCompleted).
		Group("payment_method").
		Scan(&byMethod).Error; err != nil {

		httperr.Internal(c, "report_failed", "Erro ao gerar relatório.")
		return
	}

	var revenue float64
	var discounts float64
	var count int64
	for _, row := range byMethod {
		revenue += row.Total
		count += row.Count
	}

	h.db.Model(&models.Sale{}).
		Select("COALESCE(SUM(discount), 0)").
		Where("created_at >= ? AND created_at < ? AND payment_status = ?",
			start, end, models.SalePaymentCompleted).
		Scan(&discounts)

	c.JSON(200, gin.H{
		"year":      year,
		"month":     month,
		"revenue":   revenue,
		"discounts": discounts,
		"sales":     count,
		"by_method": byMethod,
	})
}
