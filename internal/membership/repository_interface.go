package membership

import (
	"context"
	"time"
)

type Repository interface {
	// Assign replaces any active membership with the new one inside a
	// single transaction, so at most one active row per user survives.
	Assign(ctx context.Context, userID, planID int, startDate, endDate time.Time, autoRenew bool) (*Membership, error)
	GetActiveForUser(ctx context.Context, userID int) (*Membership, error)
	GetLatestForUser(ctx context.Context, userID int) (*Membership, error)
	HasActive(ctx context.Context, userID int) (bool, error)
	Cancel(ctx context.Context, membershipID int) error
	ListExpiringSoon(ctx context.Context, within time.Duration) ([]MembershipWithDetails, error)
}
