package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/davicafu/tiendalab/internal/dashboard/application"
	"github.com/davicafu/tiendalab/internal/dashboard/domain"
	"github.com/davicafu/tiendalab/pkg/utils"
)

// DashboardHandler expone la API de lectura del dashboard de vendedor.
type DashboardHandler struct {
	service *application.QueryService
}

func NewDashboardHandler(service *application.QueryService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// ---------------- Handlers ----------------

// GetProduct endpoint GET /dashboard/products/:id
func (h *DashboardHandler) GetProduct(c *gin.Context) {
	p, err := h.service.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrProjectionNotFound) {
			utils.SendNotFound(c, "product not found")
			return
		}
		utils.SendInternalServerError(c, err.Error())
		return
	}

	utils.SendSuccess(c, http.StatusOK, p)
}

// ListProducts endpoint GET /dashboard/products?seller_id=...
func (h *DashboardHandler) ListProducts(c *gin.Context) {
	sellerID := c.Query("seller_id")
	if sellerID == "" {
		utils.SendBadRequest(c, "missing seller_id query param")
		return
	}

	products, err := h.service.ListProductsBySeller(c.Request.Context(), sellerID)
	if err != nil {
		utils.SendInternalServerError(c, err.Error())
		return
	}

	utils.SendSuccess(c, http.StatusOK, products)
}

// GetOrder endpoint GET /dashboard/orders/:id
func (h *DashboardHandler) GetOrder(c *gin.Context) {
	o, err := h.service.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrProjectionNotFound) {
			utils.SendNotFound(c, "order not found")
			return
		}
		utils.SendInternalServerError(c, err.Error())
		return
	}

	utils.SendSuccess(c, http.StatusOK, o)
}

// ListOrders endpoint GET /dashboard/orders?limit=N
func (h *DashboardHandler) ListOrders(c *gin.Context) {
	limit := parseLimit(c, 50)

	orders, err := h.service.ListOrders(c.Request.Context(), limit)
	if err != nil {
		utils.SendInternalServerError(c, err.Error())
		return
	}

	utils.SendSuccess(c, http.StatusOK, orders)
}

// ListPayments endpoint GET /dashboard/payments?limit=N
func (h *DashboardHandler) ListPayments(c *gin.Context) {
	limit := parseLimit(c, 50)

	payments, err := h.service.ListPayments(c.Request.Context(), limit)
	if err != nil {
		utils.SendInternalServerError(c, err.Error())
		return
	}

	utils.SendSuccess(c, http.StatusOK, payments)
}

// GetDailyVolume endpoint GET /dashboard/analytics/volume?days=N
func (h *DashboardHandler) GetDailyVolume(c *gin.Context) {
	days := 7
	if daysStr := c.Query("days"); daysStr != "" {
		if parsed, err := strconv.Atoi(daysStr); err == nil && parsed > 0 {
			days = parsed
		}
	}

	volumes, err := h.service.GetDailyVolume(c.Request.Context(), days)
	if err != nil {
		if errors.Is(err, domain.ErrAnalyticsUnavailable) {
			utils.SendError(c, http.StatusServiceUnavailable, "analytics store not available")
			return
		}
		utils.SendInternalServerError(c, err.Error())
		return
	}

	utils.SendSuccess(c, http.StatusOK, volumes)
}

func parseLimit(c *gin.Context, fallback int) int {
	limitStr := c.Query("limit")
	if limitStr == "" {
		return fallback
	}
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		return fallback
	}
	return limit
}
