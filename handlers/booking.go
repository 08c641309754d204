package handlers

import (
	"net/http"

	"ziyonstar/middleware"
	"ziyonstar/models"
	"ziyonstar/services/booking"
	"ziyonstar/services/wallet"
	"ziyonstar/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes the booking lifecycle over HTTP.
type BookingHandler struct {
	BookingService booking.BookingService
	WalletService  wallet.WalletService
}

// selfOrAdmin reports whether the caller may act on resources owned by id.
func selfOrAdmin(c *gin.Context, id string) bool {
	return middleware.IsAdmin(c) || middleware.Subject(c) == id
}

// visibleTo strips the start-of-work code unless the caller is the customer or an admin.
func visibleTo(c *gin.Context, b *models.Booking) *models.Booking {
	if b == nil || b.OTP == "" || selfOrAdmin(c, b.UserID) {
		return b
	}
	redacted := *b
	redacted.OTP = ""
	return &redacted
}

func visibleListTo(c *gin.Context, bookings []models.Booking) []models.Booking {
	out := make([]models.Booking, len(bookings))
	for i := range bookings {
		out[i] = *visibleTo(c, &bookings[i])
	}
	return out
}

func assignedTechnician(b *models.Booking) string { return b.TechnicianID }

func bookingOwner(b *models.Booking) string { return b.UserID }

// authorize loads the booking and checks the caller is the party owner names.
func (h *BookingHandler) authorize(c *gin.Context, bookingID string, owner func(*models.Booking) string) bool {
	if middleware.IsAdmin(c) {
		return true
	}
	b, err := h.BookingService.GetBooking(c.Request.Context(), bookingID)
	if err != nil {
		respondError(c, "Failed to load booking", err)
		return false
	}
	if id := owner(b); id == "" || id != middleware.Subject(c) {
		forbidden(c)
		return false
	}
	return true
}

// CreateBookingHandler handles POST /api/bookings.
func (h *BookingHandler) CreateBookingHandler(c *gin.Context) {
	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if c.GetString(middleware.CtxRole) == utils.RoleUser {
		req.UserID = middleware.Subject(c)
	}

	b, err := h.BookingService.CreateBooking(c.Request.Context(), req)
	if err != nil {
		respondError(c, "Failed to create booking", err)
		return
	}
	getLogger(c).Info("Booking created",
		zap.String("bookingId", b.ID),
		zap.String("status", string(b.Status)))
	c.JSON(http.StatusCreated, visibleTo(c, b))
}

// ListAllBookingsHandler handles GET /api/bookings.
func (h *BookingHandler) ListAllBookingsHandler(c *gin.Context) {
	bookings, err := h.BookingService.ListAllBookings(c.Request.Context())
	if err != nil {
		respondError(c, "Failed to list bookings", err)
		return
	}
	c.JSON(http.StatusOK, visibleListTo(c, bookings))
}

// GetBookingHandler handles GET /api/bookings/:id.
func (h *BookingHandler) GetBookingHandler(c *gin.Context) {
	b, err := h.BookingService.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, "Failed to load booking", err)
		return
	}
	if !selfOrAdmin(c, b.UserID) && !selfOrAdmin(c, b.TechnicianID) {
		forbidden(c)
		return
	}
	c.JSON(http.StatusOK, visibleTo(c, b))
}

func (h *BookingHandler) ListUserBookingsHandler(c *gin.Context) {
	userID := c.Param("userId")
	if !selfOrAdmin(c, userID) {
		forbidden(c)
		return
	}
	bookings, err := h.BookingService.ListUserBookings(c.Request.Context(), userID)
	if err != nil {
		respondError(c, "Failed to list bookings", err)
		return
	}
	c.JSON(http.StatusOK, visibleListTo(c, bookings))
}

func (h *BookingHandler) ListTechnicianBookingsHandler(c *gin.Context) {
	techID := c.Param("technicianId")
	if !selfOrAdmin(c, techID) {
		forbidden(c)
		return
	}
	bookings, err := h.BookingService.ListTechnicianBookings(c.Request.Context(), techID)
	if err != nil {
		respondError(c, "Failed to list bookings", err)
		return
	}
	c.JSON(http.StatusOK, visibleListTo(c, bookings))
}

// WalletHandler handles GET /api/bookings/technician/:technicianId/wallet.
func (h *BookingHandler) WalletHandler(c *gin.Context) {
	techID := c.Param("technicianId")
	if !selfOrAdmin(c, techID) {
		forbidden(c)
		return
	}
	w, err := h.WalletService.ComputeWallet(c.Request.Context(), techID)
	if err != nil {
		respondError(c, "Failed to compute wallet", err)
		return
	}
	c.JSON(http.StatusOK, w)
}

// RespondHandler handles POST /api/bookings/:id/respond.
func (h *BookingHandler) RespondHandler(c *gin.Context) {
	var input struct {
		Action booking.RespondAction `json:"action" binding:"required"`
		Reason string                `json:"reason"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}
	id := c.Param("id")
	if !h.authorize(c, id, assignedTechnician) {
		return
	}
	b, err := h.BookingService.Respond(c.Request.Context(), id, input.Action, input.Reason)
	if err != nil {
		respondError(c, "Failed to respond to booking", err)
		return
	}
	c.JSON(http.StatusOK, visibleTo(c, b))
}

// UpdateStatusHandler handles POST /api/bookings/:id/status.
func (h *BookingHandler) UpdateStatusHandler(c *gin.Context) {
	var input struct {
		Status models.BookingStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}
	id := c.Param("id")
	if !h.authorizeStatusChange(c, id, input.Status) {
		return
	}
	b, err := h.BookingService.UpdateStatus(c.Request.Context(), id, input.Status)
	if err != nil {
		respondError(c, "Failed to update booking status", err)
		return
	}
	c.JSON(http.StatusOK, visibleTo(c, b))
}

// authorizeStatusChange lets the assigned technician drive progress and the customer only cancel.
func (h *BookingHandler) authorizeStatusChange(c *gin.Context, bookingID string, status models.BookingStatus) bool {
	if middleware.IsAdmin(c) {
		return true
	}
	b, err := h.BookingService.GetBooking(c.Request.Context(), bookingID)
	if err != nil {
		respondError(c, "Failed to load booking", err)
		return false
	}
	subject := middleware.Subject(c)
	switch {
	case b.TechnicianID != "" && subject == b.TechnicianID:
		return true
	case subject == b.UserID && status == models.StatusCancelled:
		return true
	}
	forbidden(c)
	return false
}

// ReassignHandler handles POST /api/bookings/:id/reassign.
func (h *BookingHandler) ReassignHandler(c *gin.Context) {
	id := c.Param("id")
	if !h.authorize(c, id, bookingOwner) {
		return
	}
	b, err := h.BookingService.Reassign(c.Request.Context(), id)
	if err != nil {
		respondError(c, "Failed to reassign booking", err)
		return
	}
	c.JSON(http.StatusOK, visibleTo(c, b))
}

// AssignTechnicianHandler handles POST /api/bookings/:id/assign.
func (h *BookingHandler) AssignTechnicianHandler(c *gin.Context) {
	var input struct {
		TechnicianID string `json:"technicianId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}
	b, err := h.BookingService.AssignTechnician(c.Request.Context(), c.Param("id"), input.TechnicianID)
	if err != nil {
		respondError(c, "Failed to assign technician", err)
		return
	}
	c.JSON(http.StatusOK, visibleTo(c, b))
}

// VerifyOTPHandler handles POST /api/bookings/:id/verify-otp.
func (h *BookingHandler) VerifyOTPHandler(c *gin.Context) {
	var input struct {
		OTP string `json:"otp" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}
	id := c.Param("id")
	if !h.authorize(c, id, assignedTechnician) {
		return
	}
	b, err := h.BookingService.VerifyOTP(c.Request.Context(), id, input.OTP)
	if err != nil {
		respondError(c, "Failed to verify OTP", err)
		return
	}
	c.JSON(http.StatusOK, visibleTo(c, b))
}

// ConfirmPickupHandler handles POST /api/bookings/:id/pickup.
func (h *BookingHandler) ConfirmPickupHandler(c *gin.Context) {
	var input struct {
		Images       []string `json:"images"`
		DeliveryTime string   `json:"deliveryTime"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}
	id := c.Param("id")
	if !h.authorize(c, id, assignedTechnician) {
		return
	}
	b, err := h.BookingService.ConfirmPickup(c.Request.Context(), id, input.Images, input.DeliveryTime)
	if err != nil {
		respondError(c, "Failed to confirm pickup", err)
		return
	}
	c.JSON(http.StatusOK, visibleTo(c, b))
}

// SubmitReviewHandler handles POST /api/bookings/:id/review.
func (h *BookingHandler) SubmitReviewHandler(c *gin.Context) {
	var input struct {
		Rating     int    `json:"rating"`
		ReviewText string `json:"reviewText"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}
	id := c.Param("id")
	if !h.authorize(c, id, bookingOwner) {
		return
	}
	b, review, err := h.BookingService.SubmitReview(c.Request.Context(), id, input.Rating, input.ReviewText)
	if err != nil {
		respondError(c, "Failed to submit review", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": visibleTo(c, b), "review": review})
}
