package handlers

import (
	"net/http"

	"ziyonstar/models"
	"ziyonstar/services/commission"

	"github.com/gin-gonic/gin"
)

// CommissionHandler manages the revenue split policies.
type CommissionHandler struct {
	CommissionService commission.CommissionService
}

// UpsertCommissionHandler handles PUT /api/commissions.
func (h *CommissionHandler) UpsertCommissionHandler(c *gin.Context) {
	var input models.CommissionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}
	saved, err := h.CommissionService.Upsert(c.Request.Context(), input)
	if err != nil {
		respondError(c, "Failed to save commission", err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

func (h *CommissionHandler) ListCommissionsHandler(c *gin.Context) {
	list, err := h.CommissionService.List(c.Request.Context())
	if err != nil {
		respondError(c, "Failed to list commissions", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *CommissionHandler) GetCommissionHandler(c *gin.Context) {
	cm, err := h.CommissionService.Get(c.Request.Context(), c.Param("category"))
	if err != nil {
		respondError(c, "Failed to load commission", err)
		return
	}
	c.JSON(http.StatusOK, cm)
}

func (h *CommissionHandler) DeleteCommissionHandler(c *gin.Context) {
	if err := h.CommissionService.Delete(c.Request.Context(), c.Param("category")); err != nil {
		respondError(c, "Failed to delete commission", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Commission deleted"})
}
