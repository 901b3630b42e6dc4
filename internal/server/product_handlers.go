package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/storefront-dev/storefront/internal/models"
)

// ProductRequest represents a product create or update request
type ProductRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Price       float64  `json:"price" binding:"gte=0"`
	Currency    string   `json:"currency" binding:"required,len=3"`
	Category    string   `json:"category" binding:"required"`
	ImageURLs   []string `json:"imageUrls" binding:"omitempty,dive,url"`
	Quantity    int      `json:"quantity" binding:"gte=0"`
	Status      string   `json:"status" binding:"omitempty,oneof=ACTIVE INACTIVE"`
}

func (r *ProductRequest) apply(p *models.Product) {
	p.Name = strings.TrimSpace(r.Name)
	p.Description = r.Description
	p.Price = r.Price
	p.Currency = strings.ToUpper(r.Currency)
	p.Category = strings.ToUpper(strings.TrimSpace(r.Category))
	p.ImageURLs = r.ImageURLs
	p.Quantity = r.Quantity
	if r.Status != "" {
		p.Status = r.Status
	} else if p.Status == "" {
		p.Status = "ACTIVE"
	}
}

// @Summary List products
// @Tags products
// @Produce json
// @Param category query string false "Category filter"
// @Success 200 {array} models.Product
// @Router /products [get]
func (s *Server) listProducts(c *gin.Context) {
	query := s.db.Order("created_at DESC")
	if category := strings.TrimSpace(c.Query("category")); category != "" {
		query = query.Where("category = ?", strings.ToUpper(category))
	}

	products := []models.Product{}
	if err := query.Find(&products).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to list products")
		writeError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, products)
}

// @Summary Get product
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} models.Product
// @Failure 404 {object} ErrorResponse
// @Router /products/{id} [get]
func (s *Server) getProduct(c *gin.Context) {
	product, ok := s.findProduct(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, product)
}

// @Summary Create product
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ProductRequest true "Product"
// @Success 201 {object} models.Product
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /products [post]
func (s *Server) createProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	sessionData, _ := GetSessionData(c)

	product := &models.Product{OwnerID: sessionData.UserID}
	req.apply(product)

	if err := s.db.Create(product).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to create product")
		writeError(c, http.StatusInternalServerError, "Failed to create product")
		return
	}

	s.logger.Info().
		Str("product_id", product.ID).
		Str("owner_id", product.OwnerID).
		Msg("Product created")

	c.JSON(http.StatusCreated, product)
}

// @Summary Update product
// @Description Owner or ADMIN only
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Param request body ProductRequest true "Product"
// @Success 200 {object} models.Product
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /products/{id} [put]
func (s *Server) updateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	product, ok := s.findEditableProduct(c)
	if !ok {
		return
	}

	req.apply(product)
	if err := s.db.Save(product).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to update product")
		writeError(c, http.StatusInternalServerError, "Failed to update product")
		return
	}

	c.JSON(http.StatusOK, product)
}

// @Summary Delete product
// @Description Owner or ADMIN only
// @Tags products
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 204
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /products/{id} [delete]
func (s *Server) deleteProduct(c *gin.Context) {
	product, ok := s.findEditableProduct(c)
	if !ok {
		return
	}

	if err := s.db.Delete(product).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to delete product")
		writeError(c, http.StatusInternalServerError, "Failed to delete product")
		return
	}

	sessionData, _ := GetSessionData(c)
	s.logger.Info().
		Str("product_id", product.ID).
		Str("deleted_by", sessionData.UserID).
		Msg("Product deleted")

	c.Status(http.StatusNoContent)
}

func (s *Server) findProduct(c *gin.Context) (*models.Product, bool) {
	var product models.Product
	if err := s.db.Where("id = ?", c.Param("id")).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(c, http.StatusNotFound, "Product not found")
			return nil, false
		}
		s.logger.Error().Err(err).Msg("Failed to find product")
		writeError(c, http.StatusInternalServerError, "Internal server error")
		return nil, false
	}
	return &product, true
}

// findEditableProduct loads the product and checks the caller owns it or is ADMIN
func (s *Server) findEditableProduct(c *gin.Context) (*models.Product, bool) {
	product, ok := s.findProduct(c)
	if !ok {
		return nil, false
	}

	sessionData, _ := GetSessionData(c)
	if product.OwnerID != sessionData.UserID && !hasRole(sessionData.Roles, models.RoleAdmin) {
		writeError(c, http.StatusForbidden, "Only the owner or an administrator can modify this product")
		return nil, false
	}
	return product, true
}
