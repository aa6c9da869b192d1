package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/voyago/travel_proposal_app/internal/core/ports/services"
	"github.com/voyago/travel_proposal_app/internal/dto"
	"github.com/voyago/travel_proposal_app/internal/middleware"
)

// NotificationHandler handles in-app notification endpoints.
type NotificationHandler struct {
	notificationService portssvc.NotificationSvcFacade
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(ns portssvc.NotificationSvcFacade) *NotificationHandler {
	return &NotificationHandler{notificationService: ns}
}

// registerNotificationRoutes sets up the notification routes under the
// authenticated group.
func registerNotificationRoutes(rg *gin.RouterGroup, ns portssvc.NotificationSvcFacade) {
	h := NewNotificationHandler(ns)

	notifications := rg.Group("/notifications")
	{
		notifications.GET("", h.ListMyNotifications)
		notifications.POST("/:notificationID/read", h.MarkRead)
		notifications.POST("/read-all", h.MarkAllRead)
	}
}

// ListMyNotifications godoc
// @Summary List my notifications
// @Description Retrieves the caller's notifications, newest first.
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size"
// @Param nextToken query string false "Pagination token"
// @Param unreadOnly query bool false "Only unread"
// @Success 200 {object} dto.ListNotificationsResponse
// @Router /notifications [get]
func (h *NotificationHandler) ListMyNotifications(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	var params dto.ListNotificationsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters"})
		return
	}
	resp, err := h.notificationService.ListMyNotifications(c.Request.Context(), userID, params)
	if err != nil {
		respondServiceError(c, err, "notifications")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// MarkRead godoc
// @Summary Mark notification read
// @Description Marks one of the caller's notifications as read.
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param notificationID path string true "Notification ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse
// @Router /notifications/{notificationID}/read [post]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	if err := h.notificationService.MarkRead(c.Request.Context(), c.Param("notificationID"), userID); err != nil {
		respondServiceError(c, err, "notification")
		return
	}
	c.Status(http.StatusNoContent)
}

// MarkAllRead godoc
// @Summary Mark all notifications read
// @Description Marks all of the caller's notifications as read.
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 204 "No Content"
// @Router /notifications/read-all [post]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	if err := h.notificationService.MarkAllRead(c.Request.Context(), userID); err != nil {
		respondServiceError(c, err, "notifications")
		return
	}
	c.Status(http.StatusNoContent)
}
