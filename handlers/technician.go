package handlers

import (
	"net/http"

	"ziyonstar/models"
	"ziyonstar/services/technician"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TechnicianHandler exposes the technician directory.
type TechnicianHandler struct {
	TechnicianService technician.TechnicianService
}

// RegisterTechnicianHandler handles POST /api/technicians/register.
func (h *TechnicianHandler) RegisterTechnicianHandler(c *gin.Context) {
	var reg models.TechnicianRegistration
	if err := c.ShouldBindJSON(&reg); err != nil {
		badRequest(c, err.Error())
		return
	}
	tech, created, err := h.TechnicianService.Register(c.Request.Context(), reg)
	if err != nil {
		respondError(c, "Failed to register technician", err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
		getLogger(c).Info("Technician registered", zap.String("technicianId", tech.ID))
	}
	c.JSON(status, tech)
}

func (h *TechnicianHandler) GetTechnicianHandler(c *gin.Context) {
	tech, err := h.TechnicianService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, "Failed to load technician", err)
		return
	}
	c.JSON(http.StatusOK, tech)
}

// GetByFirebaseUIDHandler handles GET /api/technicians/firebase/:uid.
func (h *TechnicianHandler) GetByFirebaseUIDHandler(c *gin.Context) {
	tech, err := h.TechnicianService.GetByFirebaseUID(c.Request.Context(), c.Param("uid"))
	if err != nil {
		respondError(c, "Failed to load technician", err)
		return
	}
	c.JSON(http.StatusOK, tech)
}

func (h *TechnicianHandler) ListTechniciansHandler(c *gin.Context) {
	techs, err := h.TechnicianService.List(c.Request.Context())
	if err != nil {
		respondError(c, "Failed to list technicians", err)
		return
	}
	c.JSON(http.StatusOK, techs)
}

func (h *TechnicianHandler) DeleteTechnicianHandler(c *gin.Context) {
	if err := h.TechnicianService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, "Failed to delete technician", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Technician deleted"})
}

// UpdateStatusHandler handles PATCH /api/technicians/:id/status (admin approval flow).
func (h *TechnicianHandler) UpdateStatusHandler(c *gin.Context) {
	var input struct {
		Status models.TechnicianStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}
	tech, err := h.TechnicianService.UpdateStatus(c.Request.Context(), c.Param("id"), input.Status)
	if err != nil {
		respondError(c, "Failed to update technician status", err)
		return
	}
	c.JSON(http.StatusOK, tech)
}

func (h *TechnicianHandler) SetOnlineHandler(c *gin.Context) {
	id := c.Param("id")
	if !selfOrAdmin(c, id) {
		forbidden(c)
		return
	}
	var input struct {
		IsOnline bool `json:"isOnline"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}
	tech, err := h.TechnicianService.SetOnline(c.Request.Context(), id, input.IsOnline)
	if err != nil {
		respondError(c, "Failed to update availability", err)
		return
	}
	c.JSON(http.StatusOK, tech)
}

func (h *TechnicianHandler) UpdateFCMTokenHandler(c *gin.Context) {
	id := c.Param("id")
	if !selfOrAdmin(c, id) {
		forbidden(c)
		return
	}
	var input struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := h.TechnicianService.UpdateFCMToken(c.Request.Context(), id, input.Token); err != nil {
		respondError(c, "Failed to update FCM token", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "FCM token updated"})
}

func (h *TechnicianHandler) ListReviewsHandler(c *gin.Context) {
	reviews, err := h.TechnicianService.ListReviews(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, "Failed to list reviews", err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}
