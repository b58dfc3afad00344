package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vendora/backend/internal/application/inbox"
	"github.com/vendora/backend/internal/domain/shared"
	"github.com/vendora/backend/internal/interfaces/http/dto"
)

// NotificationHandler handles notification inbox HTTP requests
type NotificationHandler struct {
	BaseHandler
	inbox *inbox.Service
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(service *inbox.Service) *NotificationHandler {
	return &NotificationHandler{inbox: service}
}

// RegisterRoutes registers notification routes
func (h *NotificationHandler) RegisterRoutes(r *gin.RouterGroup) {
	notifications := r.Group("/notifications")
	{
		notifications.GET("", h.List)
		notifications.GET("/unread-count", h.UnreadCount)
		notifications.POST("/:id/read", h.MarkRead)
	}
}

// List returns the authenticated user's notifications, newest first
func (h *NotificationHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	page, err := h.inbox.List(c.Request.Context(), userID, shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// UnreadCount returns the number of unread notifications
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	count, err := h.inbox.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"unread": count})
}

// MarkRead marks one of the user's notifications as read. Idempotent.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid notification ID")
		return
	}

	notification, err := h.inbox.MarkRead(c.Request.Context(), userID, notificationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, notification)
}
