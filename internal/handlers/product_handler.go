package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/barbererp/backend/internal/httperr"
	"github.com/barbererp/backend/internal/models"
)

type ProductHandler struct {
	db *gorm.DB
}

func NewProductHandler(db *gorm.DB) *ProductHandler {
	return &ProductHandler{db: db}
}

// ======================================================
// LIST
// ======================================================

func (h *ProductHandler) List(c *gin.Context) {
	q := h.db.Session(&gorm.Session{})

	if c.Query("active") == "true" {
		q = q.Where("active = ?", true)
	}
	if c.Query("low_stock") == "true" {
		q = q.Where("stock <= min_stock")
	}

	var products []models.Product
	if err := q.Order("name ASC").Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_list_products"})
		return
	}

	c.JSON(http.StatusOK, products)
}

// ======================================================
// CREATE / UPDATE / DELETE
// ======================================================

type productRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Price       float64  `json:"price" binding:"required,gt=0"`
	Cost        *float64 `json:"cost"`
	Stock       int      `json:"stock"`
	MinStock    int      `json:"min_stock"`
	Active      *bool    `json:"active"`
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	product := models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Cost:        req.Cost,
		Stock:       req.Stock,
		MinStock:    req.MinStock,
		Active:      true,
	}
	if req.Active != nil {
		product.Active = *req.Active
	}

	if err := h.db.Create(&product).Error; err != nil {
		httperr.Internal(c, "failed_to_create_product", "Erro ao criar produto.")
		return
	}

	c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var product models.Product
	if err := h.db.Where("id = ?", id).First(&product).Error; err != nil {
		httperr.NotFound(c, "product_not_found", "Produto não encontrado.")
		return
	}

	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	product.Name = req.Name
	product.Description = req.Description
	product.Price = req.Price
	product.Cost = req.Cost
	product.Stock = req.Stock
	product.MinStock = req.MinStock
	if req.Active != nil {
		product.Active = *req.Active
	}

	if err := h.db.Save(&product).Error; err != nil {
		httperr.Internal(c, "failed_to_update_product", "Erro ao atualizar produto.")
		return
	}

	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	var product models.Product
	if err := h.db.Where("id = ?", id).First(&product).Error; err != nil {
		httperr.NotFound(c, "product_not_found", "Produto não encontrado.")
		return
	}

	product.Active = false
	if err := h.db.Save(&product).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_product", "Erro ao remover produto.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"deactivated": true})
}
