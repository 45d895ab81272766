package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/davicafu/tiendalab/internal/product/application"
	"github.com/davicafu/tiendalab/internal/product/domain"
	"github.com/davicafu/tiendalab/pkg/utils"
)

// ProductHandler encapsula los endpoints HTTP relacionados con Product
type ProductHandler struct {
	service *application.ProductService
}

// NewProductHandler crea un nuevo ProductHandler
func NewProductHandler(service *application.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

// ---------------- Handlers ----------------

// CreateProduct endpoint POST /products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req struct {
		SellerID    string        `json:"seller_id" binding:"required"`
		Name        string        `json:"name" binding:"required"`
		Description string        `json:"description"`
		Category    string        `json:"category"`
		Stock       int           `json:"stock" binding:"min=0"`
		Price       domain.Price  `json:"price" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	product, err := h.service.CreateProduct(c.Request.Context(),
		req.SellerID, req.Name, req.Description, req.Category, req.Stock, req.Price)
	if err != nil {
		utils.SendInternalServerError(c, err.Error())
		return
	}

	utils.SendSuccess(c, http.StatusCreated, product)
}

// GetProduct endpoint GET /products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.service.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			utils.SendNotFound(c, "product not found")
			return
		}
		utils.SendInternalServerError(c, err.Error())
		return
	}

	// Se responde con el mismo contrato que viaja por las colas: los
	// clientes síncronos (el orquestador de pedidos) esperan el snapshot.
	utils.SendSuccess(c, http.StatusOK, product.Snapshot())
}

// ListProducts endpoint GET /products?seller_id=...
func (h *ProductHandler) ListProducts(c *gin.Context) {
	sellerID := c.Query("seller_id")
	if sellerID == "" {
		utils.SendBadRequest(c, "missing seller_id query param")
		return
	}

	products, err := h.service.ListBySeller(c.Request.Context(), sellerID)
	if err != nil {
		utils.SendInternalServerError(c, err.Error())
		return
	}

	utils.SendSuccess(c, http.StatusOK, products)
}

// UpdateProduct endpoint PUT /products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	product, err := h.service.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			utils.SendNotFound(c, "product not found")
			return
		}
		utils.SendInternalServerError(c, err.Error())
		return
	}

	var req struct {
		Name        *string       `json:"name,omitempty"`
		Description *string       `json:"description,omitempty"`
		Category    *string       `json:"category,omitempty"`
		Stock       *int          `json:"stock,omitempty"`
		Price       *domain.Price `json:"price,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.Price != nil {
		product.Price = *req.Price
	}

	if err := h.service.UpdateProduct(c.Request.Context(), product); err != nil {
		utils.SendInternalServerError(c, err.Error())
		return
	}

	utils.SendSuccess(c, http.StatusOK, product)
}

// DeleteProduct endpoint DELETE /products/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	if err := h.service.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			utils.SendNotFound(c, "product not found")
			return
		}
		utils.SendInternalServerError(c, err.Error())
		return
	}

	c.Status(http.StatusNoContent)
}
