package user

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, name, email, phone, passwordHash, role string, emailVerified bool, permanentQRCode string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id int) (*User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	ListMembers(ctx context.Context) ([]User, error)
	UpdateProfile(ctx context.Context, id int, name, phone string) (*User, error)
	SetActive(ctx context.Context, id int, active bool) error
	SetPassword(ctx context.Context, id int, passwordHash string) error
	Delete(ctx context.Context, id int) error
	RoleOf(ctx context.Context, userID int) (role string, active bool, err error)

	CreateResetToken(ctx context.Context, userID int, token string, expiresAt time.Time) error
	ConsumeResetToken(ctx context.Context, token string) (userID int, err error)
}

// MembershipChecker answers whether a user currently holds an active,
// unexpired membership. Satisfied by membership.Repository.
type MembershipChecker interface {
	HasActive(ctx context.Context, userID int) (bool, error)
}
