package feedback

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/api"
	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/auth"
)

type Handler struct {
	repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// @Summary      Submit feedback
// @Tags         feedback
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body feedback.SubmitRequest true "Rating and message"
// @Success      201 {object} feedback.Feedback
// @Failure      400 {object} api.ErrorResponse
// @Router       /api/feedback [post]
func (h *Handler) Submit(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	f, err := h.repo.Create(c.Request.Context(), userID, req.Rating, req.Message)
	if err != nil {
		api.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, f)
}

// @Summary      List feedback
// @Tags         admin,feedback
// @Security     BearerAuth
// @Produce      json
// @Param        limit query int false "Max rows (default 100)"
// @Success      200 {array} feedback.FeedbackWithUser
// @Router       /api/admin/feedback [get]
func (h *Handler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	rows, err := h.repo.List(c.Request.Context(), limit)
	if err != nil {
		api.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, rows)
}
