package checkin

import (
	"context"
	"time"
)

type Repository interface {
	CreateQR(ctx context.Context, userID int, code string, expiresAt time.Time) (*OneTimeQR, error)
	GetQRByCode(ctx context.Context, code string) (*OneTimeQR, error)
	// MarkUsed flips valid→used atomically; a second caller gets
	// ErrQRAlreadyUsed instead of a second success.
	MarkUsed(ctx context.Context, code string) error
	MarkExpired(ctx context.Context, code string) error

	CreateCheckIn(ctx context.Context, userID int, qrCode string, lockerNumber *string) (*CheckIn, error)
	GetActiveForUser(ctx context.Context, userID int) (*CheckIn, error)
	Complete(ctx context.Context, checkInID int) error
	CompleteStale(ctx context.Context, olderThan time.Duration) (int64, error)
	ListRecent(ctx context.Context, limit int) ([]CheckInWithUser, error)
	CountToday(ctx context.Context) (int, error)
	ListInactiveMembers(ctx context.Context, inactiveFor time.Duration) ([]InactiveMember, error)
}
