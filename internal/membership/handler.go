package membership

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

// @Summary      My membership
// @Description  Latest membership with expiry derived from the clock.
// @Tags         membership
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} membership.Membership
// @Failure      401 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /api/membership [get]
func (h *Handler) GetMine(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	m, err := h.service.GetMine(c.Request.Context(), userID)
	if err != nil {
		api.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, m)
}

// @Summary      Assign membership
// @Description  Admin-only: cancels any active membership and starts the new one.
// @Tags         admin,membership
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body membership.AssignRequest true "User and plan"
// @Success      201 {object} membership.Membership
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /api/admin/memberships [post]
func (h *Handler) Assign(c *gin.Context) {
	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	m, err := h.service.Assign(c.Request.Context(), req.UserID, req.PlanID, req.AutoRenew)
	if err != nil {
		api.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, m)
}

// @Summary      Cancel membership
// @Tags         admin,membership
// @Security     BearerAuth
// @Produce      json
// @Param        membershipID path int true "Membership ID"
// @Success      200 {object} api.MessageResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /api/admin/memberships/{membershipID}/cancel [post]
func (h *Handler) Cancel(c *gin.Context) {
	membershipID, err := strconv.Atoi(c.Param("membershipID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid membership ID"})
		return
	}

	if err := h.service.Cancel(c.Request.Context(), membershipID); err != nil {
		api.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Membership cancelled"})
}

// @Summary      Memberships expiring soon
// @Description  Admin-only: active memberships ending within 20 days.
// @Tags         admin,membership
// @Security     BearerAuth
// @Produce      json
// @Success      200 {array} membership.MembershipWithDetails
// @Failure      500 {object} api.ErrorResponse
// @Router       /api/admin/memberships/expiring [get]
func (h *Handler) ListExpiringSoon(c *gin.Context) {
	rows, err := h.service.ListExpiringSoon(c.Request.Context())
	if err != nil {
		api.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, rows)
}
