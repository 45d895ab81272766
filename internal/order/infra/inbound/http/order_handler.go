package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/davicafu/tiendalab/internal/order/application"
	"github.com/davicafu/tiendalab/internal/order/domain"
	"github.com/davicafu/tiendalab/pkg/utils"
)

// OrderHandler encapsula los endpoints HTTP relacionados con Order
type OrderHandler struct {
	service *application.OrderService
}

// NewOrderHandler crea un nuevo OrderHandler
func NewOrderHandler(service *application.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// ---------------- Handlers ----------------

// CreateOrder endpoint POST /orders
// El comprador llega identificado en X-User-ID y su token de sesión en
// Authorization; el token se reenvía tal cual al servicio de carritos.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	userID := c.GetHeader("X-User-ID")
	if userID == "" {
		utils.SendBadRequest(c, "missing X-User-ID header")
		return
	}
	token := c.GetHeader("Authorization")

	// El contacto del comprador viaja en la petición: es lo que usarán las
	// colas ORDER_NOTIFICATION.* para dirigirle los correos.
	var req struct {
		Currency        string          `json:"currency,omitempty"`
		Customer        domain.Customer `json:"customer" binding:"required"`
		ShippingAddress domain.Address  `json:"shipping_address" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}
	if req.Customer.Email == "" {
		utils.SendBadRequest(c, "missing customer email")
		return
	}

	order, err := h.service.CreateOrder(c.Request.Context(), userID, token, req.Currency, req.Customer, req.ShippingAddress)
	if err != nil {
		utils.SendBusinessError(c, err)
		return
	}

	utils.SendSuccess(c, http.StatusCreated, order)
}

// GetOrder endpoint GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.SendBadRequest(c, "invalid order id")
		return
	}

	order, err := h.service.GetOrder(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			utils.SendNotFound(c, "order not found")
			return
		}
		utils.SendInternalServerError(c, err.Error())
		return
	}

	utils.SendSuccess(c, http.StatusOK, order)
}

// ListOrders endpoint GET /orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	userID := c.GetHeader("X-User-ID")
	if userID == "" {
		utils.SendBadRequest(c, "missing X-User-ID header")
		return
	}

	orders, err := h.service.ListOrders(c.Request.Context(), userID)
	if err != nil {
		utils.SendInternalServerError(c, err.Error())
		return
	}

	utils.SendSuccess(c, http.StatusOK, orders)
}

// UpdateStatus endpoint PATCH /orders/:id/status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.SendBadRequest(c, "invalid order id")
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	order, err := h.service.UpdateStatus(c.Request.Context(), id, domain.OrderStatus(req.Status))
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			utils.SendNotFound(c, "order not found")
			return
		}
		utils.SendBusinessError(c, err)
		return
	}

	utils.SendSuccess(c, http.StatusOK, order)
}

// CancelOrder endpoint POST /orders/:id/cancel
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.SendBadRequest(c, "invalid order id")
		return
	}

	order, err := h.service.CancelOrder(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			utils.SendNotFound(c, "order not found")
			return
		}
		utils.SendBusinessError(c, err)
		return
	}

	utils.SendSuccess(c, http.StatusOK, order)
}
