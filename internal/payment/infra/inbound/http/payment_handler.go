package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/davicafu/tiendalab/internal/payment/application"
	"github.com/davicafu/tiendalab/internal/payment/domain"
	"github.com/davicafu/tiendalab/pkg/utils"
)

// PaymentHandler encapsula los endpoints HTTP relacionados con Payment
type PaymentHandler struct {
	service *application.PaymentService
}

func NewPaymentHandler(service *application.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// ---------------- Handlers ----------------

// InitiatePayment endpoint POST /payments
func (h *PaymentHandler) InitiatePayment(c *gin.Context) {
	var req struct {
		OrderID  string          `json:"order_id" binding:"required"`
		UserID   string          `json:"user_id" binding:"required"`
		Customer domain.Customer `json:"customer" binding:"required"`
		Amount   float64         `json:"amount" binding:"required,gt=0"`
		Currency string          `json:"currency" binding:"required"`
		Provider string          `json:"provider"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}
	if req.Customer.Email == "" {
		utils.SendBadRequest(c, "missing customer email")
		return
	}

	payment, err := h.service.InitiatePayment(c.Request.Context(),
		req.OrderID, req.UserID, req.Customer, req.Amount, req.Currency, req.Provider)
	if err != nil {
		utils.SendInternalServerError(c, err.Error())
		return
	}

	utils.SendSuccess(c, http.StatusCreated, payment)
}

// ConfirmPayment endpoint POST /payments/:id/confirm
// Lo invoca el webhook de la pasarela cuando el cobro se completa.
func (h *PaymentHandler) ConfirmPayment(c *gin.Context) {
	var req struct {
		ProviderPaymentID string `json:"provider_payment_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	payment, err := h.service.ConfirmPayment(c.Request.Context(), c.Param("id"), req.ProviderPaymentID)
	if err != nil {
		if errors.Is(err, domain.ErrPaymentNotFound) {
			utils.SendNotFound(c, "payment not found")
			return
		}
		utils.SendInternalServerError(c, err.Error())
		return
	}

	utils.SendSuccess(c, http.StatusOK, payment)
}

// GetPayment endpoint GET /payments/:id
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	payment, err := h.service.GetPayment(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrPaymentNotFound) {
			utils.SendNotFound(c, "payment not found")
			return
		}
		utils.SendInternalServerError(c, err.Error())
		return
	}

	utils.SendSuccess(c, http.StatusOK, payment)
}
