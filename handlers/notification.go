package handlers

import (
	"net/http"

	"ziyonstar/middleware"
	"ziyonstar/services/notification"

	"github.com/gin-gonic/gin"
)

// NotificationHandler serves the caller's notification inbox.
type NotificationHandler struct {
	InboxService notification.InboxService
}

// recipient is the token subject; admins may name one with ?recipientId=.
func recipient(c *gin.Context) string {
	if middleware.IsAdmin(c) {
		return c.Query("recipientId")
	}
	return middleware.Subject(c)
}

func (h *NotificationHandler) ListNotificationsHandler(c *gin.Context) {
	id := recipient(c)
	if id == "" {
		badRequest(c, "recipientId is required")
		return
	}
	list, err := h.InboxService.List(c.Request.Context(), id)
	if err != nil {
		respondError(c, "Failed to list notifications", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *NotificationHandler) MarkSeenHandler(c *gin.Context) {
	id := recipient(c)
	if id == "" {
		badRequest(c, "recipientId is required")
		return
	}
	if err := h.InboxService.MarkSeen(c.Request.Context(), id, c.Param("id")); err != nil {
		respondError(c, "Failed to mark notification seen", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as seen"})
}

func (h *NotificationHandler) ClearAllHandler(c *gin.Context) {
	id := recipient(c)
	if id == "" {
		badRequest(c, "recipientId is required")
		return
	}
	n, err := h.InboxService.ClearAll(c.Request.Context(), id)
	if err != nil {
		respondError(c, "Failed to clear notifications", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notifications cleared", "deleted": n})
}

// RegisterTokenHandler handles PUT /api/notifications/token for customer devices.
func (h *NotificationHandler) RegisterTokenHandler(c *gin.Context) {
	var input struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}
	id := recipient(c)
	if id == "" {
		badRequest(c, "recipientId is required")
		return
	}
	if err := h.InboxService.RegisterUserToken(c.Request.Context(), id, input.Token); err != nil {
		respondError(c, "Failed to register token", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "FCM token registered"})
}
