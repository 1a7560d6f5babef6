package upload

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

// @Summary      Upload a file
// @Description  Accepts a base64 data URL; returns the public path.
// @Tags         uploads
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body upload.Request true "Filename and data"
// @Success      201 {object} upload.Response
// @Failure      400 {object} api.ErrorResponse
// @Router       /api/upload [post]
func (h *Handler) Upload(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	url, err := h.service.Save(req.Filename, req.Data)
	if err != nil {
		api.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response{URL: url})
}
