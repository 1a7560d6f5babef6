package checkin

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

// @Summary      Generate a one-time QR code
// @Description  Valid for 5 minutes; suspended accounts are rejected.
// @Tags         checkin
// @Security     BearerAuth
// @Produce      json
// @Success      201 {object} checkin.GenerateResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Router       /api/checkin/generate [post]
func (h *Handler) Generate(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	resp, err := h.service.Generate(c.Request.Context(), userID)
	if err != nil {
		api.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary      QR code status
// @Description  Read-only lookup; never consumes the code.
// @Tags         checkin
// @Produce      json
// @Param        qrCode path string true "One-time QR code"
// @Success      200 {object} checkin.StatusResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /api/checkin/status/{qrCode} [get]
func (h *Handler) Status(c *gin.Context) {
	code := c.Param("qrCode")

	resp, err := h.service.Status(c.Request.Context(), code)
	if err != nil {
		api.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary      Verify a QR code (kiosk)
// @Description  Consumes the code and creates a check-in when the member qualifies.
// @Tags         checkin
// @Accept       json
// @Produce      json
// @Param        request body checkin.VerifyRequest true "Code to redeem"
// @Success      201 {object} checkin.CheckIn
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /api/checkin/verify [post]
func (h *Handler) Verify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	ci, err := h.service.Verify(c.Request.Context(), req.Code)
	if err != nil {
		api.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, ci)
}

// @Summary      Preview a QR code
// @Description  Admin-only: shows the member behind a code without consuming it.
// @Tags         admin,checkin
// @Security     BearerAuth
// @Produce      json
// @Param        qrCode path string true "One-time QR code"
// @Success      200 {object} checkin.Preview
// @Failure      404 {object} api.ErrorResponse
// @Router       /api/admin/checkin/preview/{qrCode} [get]
func (h *Handler) Preview(c *gin.Context) {
	code := c.Param("qrCode")

	preview, err := h.service.Preview(c.Request.Context(), code)
	if err != nil {
		api.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, preview)
}

// @Summary      Approve a QR check-in
// @Description  Admin-only: consumes the code, optionally assigns a locker.
// @Tags         admin,checkin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body checkin.ApproveRequest true "Code and optional locker"
// @Success      201 {object} checkin.CheckIn
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /api/admin/checkin/approve [post]
func (h *Handler) Approve(c *gin.Context) {
	var req ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	ci, err := h.service.Approve(c.Request.Context(), req.Code, req.LockerNumber)
	if err != nil {
		api.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, ci)
}

// @Summary      Check out
// @Description  Completes the caller's active check-in.
// @Tags         checkin
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} checkin.CheckIn
// @Failure      401 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /api/checkin/checkout [post]
func (h *Handler) Checkout(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	ci, err := h.service.Checkout(c.Request.Context(), userID)
	if err != nil {
		api.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, ci)
}

// @Summary      Recent check-ins
// @Description  Admin-only: newest first.
// @Tags         admin,checkin
// @Security     BearerAuth
// @Produce      json
// @Param        limit query int false "Max rows (default 100)"
// @Success      200 {array} checkin.CheckInWithUser
// @Failure      500 {object} api.ErrorResponse
// @Router       /api/admin/checkins [get]
func (h *Handler) ListRecent(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	rows, err := h.service.ListRecent(c.Request.Context(), limit)
	if err != nil {
		api.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, rows)
}
