package handler

import (
	"github.com/gin-gonic/gin"
	notificationapp "github.com/storefront/backend/internal/application/notification"
)

// NotificationHandler serves the caller's inbox
type NotificationHandler struct {
	BaseHandler
	notifier *notificationapp.Notifier
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifier *notificationapp.Notifier) *NotificationHandler {
	return &NotificationHandler{notifier: notifier}
}

// CountData carries a single count
type CountData struct {
	Count int64 `json:"count"`
}

// List godoc
// @Summary      List notifications
// @Description  List the caller's inbox, newest first
// @Tags         notifications
// @Produce      json
// @Param        unread query bool false "Only unread"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]notificationapp.NotificationResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var filter notificationapp.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}
	page, err := h.notifier.List(c.Request.Context(), actor.UserID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, page)
}

// UnreadCount godoc
// @Summary      Count unread notifications
// @Description  Return the number of unread inbox items
// @Tags         notifications
// @Produce      json
// @Success      200 {object} dto.Response{data=CountData}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	count, err := h.notifier.UnreadCount(c.Request.Context(), actor.UserID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, CountData{Count: count})
}

// MarkRead godoc
// @Summary      Mark notification read
// @Description  Mark one of the caller's notifications as read
// @Tags         notifications
// @Produce      json
// @Param        id path int true "Notification ID"
// @Success      204 "No Content"
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	if err := h.notifier.MarkRead(c.Request.Context(), actor.UserID, id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// MarkAllRead godoc
// @Summary      Mark all notifications read
// @Description  Mark every unread notification as read and return how many changed
// @Tags         notifications
// @Produce      json
// @Success      200 {object} dto.Response{data=CountData}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /notifications/read-all [post]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	updated, err := h.notifier.MarkAllRead(c.Request.Context(), actor.UserID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, CountData{Count: updated})
}
