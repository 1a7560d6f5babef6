package activity

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/api"
	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/logger"
)

type Entry struct {
	ID        int       `db:"id" json:"id"`
	UserID    *int      `db:"user_id" json:"user_id,omitempty"`
	Action    string    `db:"action" json:"action"`
	Detail    string    `db:"detail" json:"detail"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Recorder is what other services depend on to write audit entries.
// Recording never fails the calling operation.
type Recorder interface {
	Record(ctx context.Context, userID *int, action, detail string)
}

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Insert(ctx context.Context, userID *int, action, detail string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO activity_logs (user_id, action, detail)
		VALUES ($1, $2, $3)
	`, userID, action, detail)
	return err
}

func (r *Repository) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var entries []Entry
	err := r.db.SelectContext(ctx, &entries, `
		SELECT id, user_id, action, detail, created_at
		FROM activity_logs
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	return entries, err
}

type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Record(ctx context.Context, userID *int, action, detail string) {
	if err := s.repo.Insert(ctx, userID, action, detail); err != nil {
		logger.Error("Failed to record activity", "action", action, "error", err)
	}
}

type Handler struct {
	repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// @Summary      List activity log
// @Description  Admin-only: recent audit entries, newest first
// @Tags         admin,activity
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Max entries (default 100)"
// @Success      200 {array} activity.Entry
// @Failure      401 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /api/admin/activity [get]
func (h *Handler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	entries, err := h.repo.List(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch activity log"})
		return
	}

	c.JSON(http.StatusOK, entries)
}
