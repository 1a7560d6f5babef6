package promotion

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/api"
)

type Handler struct {
	repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// @Summary      Active promotions
// @Tags         promotions
// @Produce      json
// @Success      200 {array} promotion.Promotion
// @Router       /api/promotions [get]
func (h *Handler) ListActive(c *gin.Context) {
	promotions, err := h.repo.ListActive(c.Request.Context())
	if err != nil {
		api.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, promotions)
}

// @Summary      All promotions
// @Tags         admin,promotions
// @Security     BearerAuth
// @Produce      json
// @Success      200 {array} promotion.Promotion
// @Router       /api/admin/promotions [get]
func (h *Handler) ListAll(c *gin.Context) {
	promotions, err := h.repo.ListAll(c.Request.Context())
	if err != nil {
		api.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, promotions)
}

// @Summary      Create a promotion
// @Tags         admin,promotions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body promotion.UpsertRequest true "Promotion"
// @Success      201 {object} promotion.Promotion
// @Router       /api/admin/promotions [post]
func (h *Handler) Create(c *gin.Context) {
	var req UpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	p, err := h.repo.Create(c.Request.Context(), req)
	if err != nil {
		api.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, p)
}

// @Summary      Update a promotion
// @Tags         admin,promotions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        promotionID path int true "Promotion ID"
// @Param        request body promotion.UpsertRequest true "Promotion"
// @Success      200 {object} promotion.Promotion
// @Failure      404 {object} api.ErrorResponse
// @Router       /api/admin/promotions/{promotionID} [put]
func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("promotionID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid promotion ID"})
		return
	}

	var req UpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	p, err := h.repo.Update(c.Request.Context(), id, req)
	if err != nil {
		api.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// @Summary      Delete a promotion
// @Tags         admin,promotions
// @Security     BearerAuth
// @Produce      json
// @Param        promotionID path int true "Promotion ID"
// @Success      200 {object} api.MessageResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /api/admin/promotions/{promotionID} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("promotionID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid promotion ID"})
		return
	}

	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		api.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Promotion deleted"})
}
