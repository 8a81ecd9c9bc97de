package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/barbererp/backend/internal/httperr"
	"github.com/barbererp/backend/internal/media"
	"github.com/barbererp/backend/internal/middleware"
	"github.com/barbererp/backend/internal/models"
)

type MeHandler struct {
	db       *gorm.DB
	uploader media.Uploader
}

func NewMeHandler(db *gorm.DB, uploader media.Uploader) *MeHandler {
	return &MeHandler{db: db, uploader: uploader}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(string)

	var profile models.Profile
	if err := h.db.Where("id = ?", userID).First(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "profile_not_found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":         profile.ID,
			"name":       profile.FullName,
			"email":      profile.Email,
			"phone":      profile.Phone,
			"role":       profile.Role,
			"avatar_url": profile.AvatarURL,
		},
	})
}

// ======================================================
// AVATAR
// ======================================================

func (h *MeHandler) UploadAvatar(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(string)

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

	url, err := h.uploader.UploadAvatar(c.Request.Context(), userID, src)
	if err != nil {
		if httperr.WriteBusiness(c, err) {
			return
		}
		httperr.Internal(c, "failed_to_upload_avatar", "Erro ao enviar a imagem.")
		return
	}

	if err := h.db.Model(&models.Profile{}).
		Where("id = ?", userID).
		Update("avatar_url", url).Error; err != nil {
		httperr.Internal(c, "failed_to_save_avatar", "Erro ao salvar a imagem.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"avatar_url": url})
}
