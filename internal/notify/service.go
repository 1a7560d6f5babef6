package notify

import (
	"context"
	"errors"

	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/api"
	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/db"
)

type Service interface {
	Notify(ctx context.Context, userID int, title, body string) (*Notification, error)
	List(ctx context.Context, userID, limit int) ([]Notification, error)
	UnreadCount(ctx context.Context, userID int) (int, error)
	MarkRead(ctx context.Context, userID, notificationID int) error
	MarkAllRead(ctx context.Context, userID int) error
	Subscribe(ctx context.Context, userID int, req SubscribeRequest) (*PushSubscription, error)
	Unsubscribe(ctx context.Context, userID int, endpoint string) error
	SendWhatsApp(ctx context.Context, to, text string) error
}

type service struct {
	repo     Repository
	whatsapp *WhatsAppSender
}

func NewService(repo Repository, whatsapp *WhatsAppSender) Service {
	return &service{repo: repo, whatsapp: whatsapp}
}

func (s *service) Notify(ctx context.Context, userID int, title, body string) (*Notification, error) {
	n, err := s.repo.Create(ctx, userID, title, body)
	if err != nil {
		return nil, db.StoreError(err, "Failed to create notification")
	}
	return n, nil
}

func (s *service) List(ctx context.Context, userID, limit int) ([]Notification, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	notifications, err := s.repo.ListForUser(ctx, userID, limit)
	if err != nil {
		return nil, db.StoreError(err, "Failed to fetch notifications")
	}
	return notifications, nil
}

func (s *service) UnreadCount(ctx context.Context, userID int) (int, error) {
	count, err := s.repo.UnreadCount(ctx, userID)
	if err != nil {
		return 0, db.StoreError(err, "Failed to count notifications")
	}
	return count, nil
}

func (s *service) MarkRead(ctx context.Context, userID, notificationID int) error {
	if err := s.repo.MarkRead(ctx, userID, notificationID); err != nil {
		if errors.Is(err, ErrNotificationNotFound) {
			return api.NotFound("Notification not found")
		}
		return db.StoreError(err, "Failed to mark notification read")
	}
	return nil
}

func (s *service) MarkAllRead(ctx context.Context, userID int) error {
	if err := s.repo.MarkAllRead(ctx, userID); err != nil {
		return db.StoreError(err, "Failed to mark notifications read")
	}
	return nil
}

func (s *service) Subscribe(ctx context.Context, userID int, req SubscribeRequest) (*PushSubscription, error) {
	sub, err := s.repo.SaveSubscription(ctx, userID, req)
	if err != nil {
		return nil, db.StoreError(err, "Failed to save subscription")
	}
	return sub, nil
}

func (s *service) Unsubscribe(ctx context.Context, userID int, endpoint string) error {
	if err := s.repo.DeleteSubscription(ctx, userID, endpoint); err != nil {
		return db.StoreError(err, "Failed to delete subscription")
	}
	return nil
}

// SendWhatsApp surfaces provider failures as-is to the caller.
func (s *service) SendWhatsApp(ctx context.Context, to, text string) error {
	if !s.whatsapp.Enabled() {
		return api.Unavailable("WhatsApp sending is not configured", nil)
	}
	if err := s.whatsapp.SendText(ctx, to, text); err != nil {
		return api.Unavailable("WhatsApp provider rejected the message", err)
	}
	return nil
}
