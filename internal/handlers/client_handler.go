package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/barbererp/backend/internal/httperr"
	"github.com/barbererp/backend/internal/httpresp"
	"github.com/barbererp/backend/internal/models"
	"github.com/barbererp/backend/internal/realtime"
	"github.com/barbererp/backend/internal/validators"
)

// rowPublisher empurra mudanças de linha para os assinantes; em
// produção é o bus do Redis.
type rowPublisher interface {
	PublishRow(ctx context.Context, table string, kind realtime.Kind, clientID string, row any)
}

type ClientHandler struct {
	db  *gorm.DB
	bus rowPublisher
}

func NewClientHandler(db *gorm.DB, bus rowPublisher) *ClientHandler {
	return &ClientHandler{db: db, bus: bus}
}

// ======================================================
// LIST CLIENTS
// ======================================================
func (h *ClientHandler) List(c *gin.Context) {
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.Session(&gorm.Session{})

	if query != "" {
		like := "%" + query + "%"
		q = q.Where(
			"LOWER(name) LIKE ? OR phone LIKE ? OR LOWER(email) LIKE ?",
			like, like, like,
		)
	}

	var clients []models.Client
	if err := q.
		Order("created_at DESC").
		Find(&clients).Error; err != nil {

		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed_to_list_clients",
		})
		return
	}

	httpresp.List(c, clients)
}

// ======================================================
// CREATE
// ======================================================

type clientRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`
	Email string `json:"email"`
	Notes string `json:"notes"`
}

func (h *ClientHandler) Create(c *gin.Context) {
	var req clientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email != "" && !validators.IsEmailFormatValid(email) {
		httperr.BadRequest(c, "invalid_email", "E-mail inválido.")
		return
	}

	client := models.Client{
		Name:  req.Name,
		Phone: req.Phone,
		Email: email,
		Notes: req.Notes,
	}

	if err := h.db.Create(&client).Error; err != nil {
		httperr.Internal(c, "failed_to_create_client", "Erro ao criar cliente.")
		return
	}

	h.bus.PublishRow(c.Request.Context(), "clients", realtime.KindInsert, "", client)

	c.JSON(http.StatusCreated, client)
}

// ======================================================
// UPDATE
// ======================================================

func (h *ClientHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var client models.Client
	if err := h.db.Where("id = ?", id).First(&client).Error; err != nil {
		httperr.NotFound(c, "client_not_found", "Cliente não encontrado.")
		return
	}

	var req clientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	client.Name = req.Name
	client.Phone = req.Phone
	client.Email = strings.ToLower(strings.TrimSpace(req.Email))
	client.Notes = req.Notes

	if err := h.db.Save(&client).Error; err != nil {
		httperr.Internal(c, "failed_to_update_client", "Erro ao atualizar cliente.")
		return
	}

	h.bus.PublishRow(c.Request.Context(), "clients", realtime.KindUpdate, "", client)

	c.JSON(http.StatusOK, client)
}

// ======================================================
// DELETE
// ======================================================

func (h *ClientHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	var client models.Client
	if err := h.db.Where("id = ?", id).First(&client).Error; err != nil {
		httperr.NotFound(c, "client_not_found", "Cliente não encontrado.")
		return
	}

	if err := h.db.Delete(&client).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_client", "Erro ao remover cliente.")
		return
	}

	h.bus.PublishRow(c.Request.Context(), "clients", realtime.KindDelete, "", client)

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
