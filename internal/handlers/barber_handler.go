package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/barbererp/backend/internal/httperr"
	"github.com/barbererp/backend/internal/media"
	"github.com/barbererp/backend/internal/models"
)

type BarberHandler struct {
	db       *gorm.DB
	uploader media.Uploader
}

func NewBarberHandler(db *gorm.DB, uploader media.Uploader) *BarberHandler {
	return &BarberHandler{db: db, uploader: uploader}
}

// ======================================================
// LIST
// ======================================================

func (h *BarberHandler) List(c *gin.Context) {
	q := h.db.Session(&gorm.Session{})

	// por padrão a tela administrativa vê todos; o wizard do
	// cliente pede apenas os ativos
	if c.Query("active") == "true" {
		q = q.Where("active = ?", true)
	}

	var barbers []models.Barber
	if err := q.Order("name ASC").Find(&barbers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_list_barbers"})
		return
	}

	c.JSON(http.StatusOK, barbers)
}

// ======================================================
// CREATE / UPDATE / DELETE
// ======================================================

type barberRequest struct {
	Name           string   `json:"name" binding:"required"`
	Phone          string   `json:"phone"`
	CommissionRate *float64 `json:"commission_rate"`
	Active         *bool    `json:"active"`
}

func (h *BarberHandler) Create(c *gin.Context) {
	var req barberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	barber := models.Barber{
		Name:           req.Name,
		Phone:          req.Phone,
		CommissionRate: req.CommissionRate,
		Active:         true,
	}
	if req.Active != nil {
		barber.Active = *req.Active
	}

	if err := h.db.Create(&barber).Error; err != nil {
		httperr.Internal(c, "failed_to_create_barber", "Erro ao criar barbeiro.")
		return
	}

	c.JSON(http.StatusCreated, barber)
}

func (h *BarberHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var barber models.Barber
	if err := h.db.Where("id = ?", id).First(&barber).Error; err != nil {
		httperr.NotFound(c, "barber_not_found", "Barbeiro não encontrado.")
		return
	}

	var req barberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	barber.Name = req.Name
	barber.Phone = req.Phone
	barber.CommissionRate = req.CommissionRate
	if req.Active != nil {
		barber.Active = *req.Active
	}

	if err := h.db.Save(&barber).Error; err != nil {
		httperr.Internal(c, "failed_to_update_barber", "Erro ao atualizar barbeiro.")
		return
	}

	c.JSON(http.StatusOK, barber)
}

func (h *BarberHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	var barber models.Barber
	if err := h.db.Where("id = ?", id).First(&barber).Error; err != nil {
		httperr.NotFound(c, "barber_not_found", "Barbeiro não encontrado.")
		return
	}

	// desativar preserva o histórico de agendamentos e vendas
	barber.Active = false
	if err := h.db.Save(&barber).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_barber", "Erro ao remover barbeiro.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"deactivated": true})
}

// ======================================================
// AVATAR
// ======================================================

func (h *BarberHandler) UploadAvatar(c *gin.Context) {
	id := c.Param("id")

	var barber models.Barber
	if err := h.db.Where("id = ?", id).First(&barber).Error; err != nil {
		httperr.NotFound(c, "barber_not_found", "Barbeiro não encontrado.")
		return
	}

	file, err := c.FormFile("avatar")
	if err != nil {
		httperr.BadRequest(c, "missing_file", "Arquivo obrigatório.")
		return
	}

	src, err := file.Open()
	if err != nil {
		httperr.Internal(c, "failed_to_read_file", "Erro ao ler o arquivo.")
		return
	}
	defer src.Close()

	url, err := h.uploader.UploadAvatar(c.Request.Context(), "barber-"+barber.ID, src)
	if err != nil {
		if httperr.WriteBusiness(c, err) {
			return
		}
		httperr.Internal(c, "failed_to_upload_avatar", "Erro ao enviar a imagem.")
		return
	}

	barber.AvatarURL = url
	if err := h.db.Save(&barber).Error; err != nil {
		httperr.Internal(c, "failed_to_save_avatar", "Erro ao salvar a imagem.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"avatar_url": url})
}
