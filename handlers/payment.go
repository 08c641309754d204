package handlers

import (
	"io"
	"net/http"

	"ziyonstar/middleware"
	"ziyonstar/services/booking"
	"ziyonstar/services/payment"
	"ziyonstar/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxWebhookBody = 65536

// PaymentHandler opens payment orders and receives gateway webhooks.
// PaymentService is nil when the gateway is not configured.
type PaymentHandler struct {
	PaymentService payment.PaymentService
	BookingService booking.BookingService
}

func (h *PaymentHandler) available(c *gin.Context) bool {
	if h.PaymentService == nil {
		utils.JSONError(c, getLogger(c), http.StatusServiceUnavailable, "Payments are not configured", "")
		return false
	}
	return true
}

// CreateOrderHandler handles POST /api/payments/order.
func (h *PaymentHandler) CreateOrderHandler(c *gin.Context) {
	if !h.available(c) {
		return
	}
	var input struct {
		BookingID string `json:"bookingId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}
	if !middleware.IsAdmin(c) {
		b, err := h.BookingService.GetBooking(c.Request.Context(), input.BookingID)
		if err != nil {
			respondError(c, "Failed to load booking", err)
			return
		}
		if b.UserID != middleware.Subject(c) {
			forbidden(c)
			return
		}
	}
	order, err := h.PaymentService.CreatePaymentOrder(c.Request.Context(), input.BookingID)
	if err != nil {
		respondError(c, "Failed to create payment order", err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// WebhookHandler handles POST /api/payments/webhook.
func (h *PaymentHandler) WebhookHandler(c *gin.Context) {
	if !h.available(c) {
		return
	}
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		badRequest(c, "failed to read request body")
		return
	}
	if err := h.PaymentService.HandleWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature")); err != nil {
		respondError(c, "Failed to process payment webhook", err)
		return
	}
	getLogger(c).Debug("Payment webhook processed", zap.Int("bytes", len(payload)))
	c.JSON(http.StatusOK, gin.H{"received": true})
}
