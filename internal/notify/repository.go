package notify

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrNotificationNotFound = errors.New("notification not found")

type Repository interface {
	Create(ctx context.Context, userID int, title, body string) (*Notification, error)
	ListForUser(ctx context.Context, userID, limit int) ([]Notification, error)
	UnreadCount(ctx context.Context, userID int) (int, error)
	MarkRead(ctx context.Context, userID, notificationID int) error
	MarkAllRead(ctx context.Context, userID int) error

	SaveSubscription(ctx context.Context, userID int, req SubscribeRequest) (*PushSubscription, error)
	DeleteSubscription(ctx context.Context, userID int, endpoint string) error
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, userID int, title, body string) (*Notification, error) {
	var n Notification
	err := r.db.GetContext(ctx, &n, `
		INSERT INTO notifications (user_id, title, body, read)
		VALUES ($1, $2, $3, FALSE)
		RETURNING id, user_id, title, body, read, created_at
	`, userID, title, body)
	if err != nil {
		return nil, err
	}

	return &n, nil
}

func (r *repository) ListForUser(ctx context.Context, userID, limit int) ([]Notification, error) {
	var notifications []Notification
	err := r.db.SelectContext(ctx, &notifications, `
		SELECT id, user_id, title, body, read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	return notifications, err
}

func (r *repository) UnreadCount(ctx context.Context, userID int) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read = FALSE
	`, userID)
	return count, err
}

func (r *repository) MarkRead(ctx context.Context, userID, notificationID int) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE notifications
		SET read = TRUE
		WHERE id = $1 AND user_id = $2
	`, notificationID, userID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotificationNotFound
	}

	return nil
}

func (r *repository) MarkAllRead(ctx context.Context, userID int) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE notifications SET read = TRUE WHERE user_id = $1 AND read = FALSE
	`, userID)
	return err
}

func (r *repository) SaveSubscription(ctx context.Context, userID int, req SubscribeRequest) (*PushSubscription, error) {
	var s PushSubscription
	err := r.db.GetContext(ctx, &s, `
		INSERT INTO push_subscriptions (user_id, endpoint, p256dh, auth)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, endpoint)
		DO UPDATE SET p256dh = EXCLUDED.p256dh, auth = EXCLUDED.auth
		RETURNING id, user_id, endpoint, p256dh, auth, created_at
	`, userID, req.Endpoint, req.P256dh, req.Auth)
	if err != nil {
		return nil, err
	}

	return &s, nil
}

func (r *repository) DeleteSubscription(ctx context.Context, userID int, endpoint string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM push_subscriptions WHERE user_id = $1 AND endpoint = $2
	`, userID, endpoint)
	return err
}
