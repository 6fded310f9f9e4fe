package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"grocermart-backend/internal/middleware"
	"grocermart-backend/internal/models"
	"grocermart-backend/internal/services"
)

// NotificationHandlers exposes the per-audience notification endpoints.
// The ledger a request operates on is derived from the session's role,
// never from request input.
type NotificationHandlers struct {
	notifications *services.NotificationService
}

// NewNotificationHandlers creates notification handlers
func NewNotificationHandlers(notifications *services.NotificationService) *NotificationHandlers {
	return &NotificationHandlers{notifications: notifications}
}

// audienceForSession maps the session's role to its ledger and scope
func audienceForSession(session models.Session) (models.AudienceKind, string) {
	switch {
	case session.IsAdmin():
		return models.AudienceAdmin, ""
	case session.IsVendor():
		return models.AudienceVendor, session.VendorID
	default:
		return models.AudienceUser, session.UserID
	}
}

// GetNotifications lists the notifications visible to the session,
// newest first
func (h *NotificationHandlers) GetNotifications(c *gin.Context) {
	session := middleware.SessionFromContext(c)
	kind, scope := audienceForSession(session)

	notifications, err := h.notifications.List(c.Request.Context(), kind, scope)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to get notifications: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    notifications,
	})
}

// GetUnreadCount returns the derived unread badge count for the session
func (h *NotificationHandlers) GetUnreadCount(c *gin.Context) {
	session := middleware.SessionFromContext(c)
	kind, scope := audienceForSession(session)

	count, err := h.notifications.UnreadCount(c.Request.Context(), kind, scope)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to get unread count: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"count": count},
	})
}

// MarkAsRead marks one notification as read
func (h *NotificationHandlers) MarkAsRead(c *gin.Context) {
	session := middleware.SessionFromContext(c)
	kind, _ := audienceForSession(session)

	notificationID := c.Param("id")
	if notificationID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Notification ID is required",
		})
		return
	}

	if err := h.notifications.MarkAsRead(c.Request.Context(), kind, notificationID); err != nil {
		if errors.Is(err, services.ErrNotificationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error":   "Notification not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to mark notification as read: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Notification marked as read",
	})
}

// MarkAllAsRead marks every notification in the session's ledger as read
func (h *NotificationHandlers) MarkAllAsRead(c *gin.Context) {
	session := middleware.SessionFromContext(c)
	kind, _ := audienceForSession(session)

	if err := h.notifications.MarkAllAsRead(c.Request.Context(), kind); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to mark notifications as read: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "All notifications marked as read",
	})
}

// ClearAll irreversibly empties the session's ledger
func (h *NotificationHandlers) ClearAll(c *gin.Context) {
	session := middleware.SessionFromContext(c)
	kind, _ := audienceForSession(session)

	if err := h.notifications.ClearAll(c.Request.Context(), kind); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to clear notifications: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Notifications cleared",
	})
}
