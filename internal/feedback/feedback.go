package feedback

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/db"
)

type Feedback struct {
	ID        int       `db:"id" json:"id"`
	UserID    int       `db:"user_id" json:"user_id"`
	Rating    int       `db:"rating" json:"rating"`
	Message   string    `db:"message" json:"message"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type FeedbackWithUser struct {
	Feedback
	UserName  string `db:"user_name" json:"user_name"`
	UserEmail string `db:"user_email" json:"user_email"`
}

type SubmitRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Message string `json:"message" binding:"required"`
}

type Repository struct {
	db *sqlx.DB
}

func NewRepository(database *sqlx.DB) *Repository {
	return &Repository{db: database}
}

func (r *Repository) Create(ctx context.Context, userID, rating int, message string) (*Feedback, error) {
	var f Feedback
	err := r.db.GetContext(ctx, &f, `
		INSERT INTO feedback (user_id, rating, message)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, rating, message, created_at
	`, userID, rating, message)
	if err != nil {
		return nil, db.StoreError(err, "Failed to save feedback")
	}

	return &f, nil
}

func (r *Repository) List(ctx context.Context, limit int) ([]FeedbackWithUser, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var rows []FeedbackWithUser
	err := r.db.SelectContext(ctx, &rows, `
		SELECT
			f.id, f.user_id, f.rating, f.message, f.created_at,
			u.name AS user_name,
			u.email AS user_email
		FROM feedback f
		JOIN users u ON f.user_id = u.id
		ORDER BY f.created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, db.StoreError(err, "Failed to fetch feedback")
	}

	return rows, nil
}
