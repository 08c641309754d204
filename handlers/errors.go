package handlers

import (
	"errors"
	"net/http"

	"ziyonstar/services/booking"
	"ziyonstar/services/commission"
	"ziyonstar/services/notification"
	"ziyonstar/services/payment"
	"ziyonstar/services/technician"
	"ziyonstar/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, booking.ErrNotFound),
		errors.Is(err, technician.ErrTechnicianNotFound),
		errors.Is(err, commission.ErrCommissionNotFound),
		errors.Is(err, notification.ErrNotificationNotFound),
		errors.Is(err, payment.ErrBookingNotFound):
		return http.StatusNotFound
	case errors.Is(err, booking.ErrValidation),
		errors.Is(err, technician.ErrInvalidTechnician),
		errors.Is(err, commission.ErrInvalidCommission),
		errors.Is(err, payment.ErrNotOnlinePayment),
		errors.Is(err, payment.ErrInvalidAmount),
		errors.Is(err, payment.ErrInvalidSignature):
		return http.StatusBadRequest
	case errors.Is(err, booking.ErrInvalidTransition),
		errors.Is(err, payment.ErrAlreadyPaid):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// respondError writes err as a structured body with the mapped status.
func respondError(c *gin.Context, message string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		getLogger(c).Error(message, zap.Error(err), zap.String("path", c.Request.URL.Path))
		c.JSON(status, utils.ErrorResponse{
			Message: message,
			Details: "An unexpected error occurred. Please try again later.",
		})
		return
	}
	utils.JSONError(c, getLogger(c), status, message, err.Error())
}

func badRequest(c *gin.Context, details string) {
	utils.JSONError(c, getLogger(c), http.StatusBadRequest, "Invalid input", details)
}

func forbidden(c *gin.Context) {
	utils.JSONError(c, getLogger(c), http.StatusForbidden, "Insufficient permissions", "")
}
