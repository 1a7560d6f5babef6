package stats

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/api"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// @Summary      Dashboard stats
// @Tags         admin,stats
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} stats.Dashboard
// @Failure      500 {object} api.ErrorResponse
// @Router       /api/admin/stats [get]
func (h *Handler) Dashboard(c *gin.Context) {
	d, err := h.service.Dashboard(c.Request.Context())
	if err != nil {
		api.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, d)
}
