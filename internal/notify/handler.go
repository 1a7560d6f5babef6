package notify

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/api"
	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/auth"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// @Summary      My notifications
// @Tags         notifications
// @Security     BearerAuth
// @Produce      json
// @Param        limit query int false "Max rows (default 50)"
// @Success      200 {array} notify.Notification
// @Router       /api/notifications [get]
func (h *Handler) List(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	notifications, err := h.service.List(c.Request.Context(), userID, limit)
	if err != nil {
		api.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, notifications)
}

// @Summary      Unread notification count
// @Tags         notifications
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} notify.UnreadCountResponse
// @Router       /api/notifications/unread-count [get]
func (h *Handler) UnreadCount(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	count, err := h.service.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		api.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, UnreadCountResponse{Count: count})
}

// @Summary      Mark a notification read
// @Tags         notifications
// @Security     BearerAuth
// @Produce      json
// @Param        notificationID path int true "Notification ID"
// @Success      200 {object} api.MessageResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /api/notifications/{notificationID}/read [put]
func (h *Handler) MarkRead(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	notificationID, err := strconv.Atoi(c.Param("notificationID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid notification ID"})
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), userID, notificationID); err != nil {
		api.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Notification marked read"})
}

// @Summary      Mark all notifications read
// @Tags         notifications
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} api.MessageResponse
// @Router       /api/notifications/read-all [put]
func (h *Handler) MarkAllRead(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	if err := h.service.MarkAllRead(c.Request.Context(), userID); err != nil {
		api.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "All notifications marked read"})
}

// @Summary      Register a push subscription
// @Tags         notifications
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body notify.SubscribeRequest true "Subscription"
// @Success      201 {object} notify.PushSubscription
// @Router       /api/notifications/subscribe [post]
func (h *Handler) Subscribe(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	sub, err := h.service.Subscribe(c.Request.Context(), userID, req)
	if err != nil {
		api.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, sub)
}

// @Summary      Remove a push subscription
// @Tags         notifications
// @Security     BearerAuth
// @Produce      json
// @Param        endpoint query string true "Subscription endpoint"
// @Success      200 {object} api.MessageResponse
// @Router       /api/notifications/subscribe [delete]
func (h *Handler) Unsubscribe(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	endpoint := c.Query("endpoint")
	if endpoint == "" {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "endpoint is required"})
		return
	}

	if err := h.service.Unsubscribe(c.Request.Context(), userID, endpoint); err != nil {
		api.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Subscription removed"})
}

// @Summary      Send a WhatsApp message
// @Tags         admin,notifications
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body notify.SendWhatsAppRequest true "Recipient and text"
// @Success      200 {object} api.MessageResponse
// @Failure      503 {object} api.ErrorResponse
// @Router       /api/admin/notifications/whatsapp [post]
func (h *Handler) SendWhatsApp(c *gin.Context) {
	var req SendWhatsAppRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	if err := h.service.SendWhatsApp(c.Request.Context(), req.To, req.Text); err != nil {
		api.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Message sent"})
}
