package payment

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

// @Summary      Purchase a membership plan
// @Description  Charges the card token and assigns the plan on success.
// @Tags         payments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body payment.PurchasePlanRequest true "Plan and card token"
// @Success      201 {object} payment.Payment
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      503 {object} api.ErrorResponse
// @Router       /api/payments/purchase [post]
func (h *Handler) Purchase(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req PurchasePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	pay, err := h.service.PurchasePlan(c.Request.Context(), userID, req)
	if err != nil {
		api.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, pay)
}

// @Summary      My payments
// @Tags         payments
// @Security     BearerAuth
// @Produce      json
// @Success      200 {array} payment.Payment
// @Router       /api/payments [get]
func (h *Handler) MyPayments(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	payments, err := h.service.MyPayments(c.Request.Context(), userID)
	if err != nil {
		api.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, payments)
}

// @Summary      List all payments
// @Tags         admin,payments
// @Security     BearerAuth
// @Produce      json
// @Param        limit query int false "Max rows (default 100)"
// @Success      200 {array} payment.PaymentWithDetails
// @Router       /api/admin/payments [get]
func (h *Handler) ListAll(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	payments, err := h.service.ListAll(c.Request.Context(), limit)
	if err != nil {
		api.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, payments)
}

// @Summary      Refund a payment
// @Tags         admin,payments
// @Security     BearerAuth
// @Produce      json
// @Param        paymentID path int true "Payment ID"
// @Success      200 {object} api.MessageResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      503 {object} api.ErrorResponse
// @Router       /api/admin/payments/{paymentID}/refund [post]
func (h *Handler) Refund(c *gin.Context) {
	paymentID, err := strconv.Atoi(c.Param("paymentID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid payment ID"})
		return
	}

	if err := h.service.Refund(c.Request.Context(), paymentID); err != nil {
		api.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Payment refunded"})
}
