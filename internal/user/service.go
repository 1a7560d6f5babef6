package user

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/activity"
	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/api"
	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/auth"
	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/db"
	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/logger"
	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/verification"
)

const resetTokenTTL = time.Hour

// CodeStore issues and consumes email verification codes.
type CodeStore interface {
	Issue(ctx context.Context, email string) (string, error)
	Verify(ctx context.Context, email, code string) error
}

// Mailer is the slice of the email service this package needs.
type Mailer interface {
	SendVerificationCode(ctx context.Context, email, name, code string) error
	SendPasswordReset(ctx context.Context, email, name, token string) error
}

type Service interface {
	SendVerificationCode(ctx context.Context, email, name string) error
	RegisterVerified(ctx context.Context, req VerifiedRegisterRequest) (*User, string, string, error)
	Register(ctx context.Context, req RegisterRequest) (*User, string, string, error)
	Login(ctx context.Context, req LoginRequest) (*User, string, string, error)
	GetByID(ctx context.Context, userID int) (*User, error)
	UpdateProfile(ctx context.Context, userID int, req UpdateProfileRequest) (*User, error)
	RefreshToken(ctx context.Context, refreshToken string) (string, *User, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error

	ListMembers(ctx context.Context) ([]User, error)
	CreateMember(ctx context.Context, req CreateMemberRequest) (*User, error)
	SetMemberActive(ctx context.Context, userID int, active bool) error
	DeleteMember(ctx context.Context, userID int) error
}

type service struct {
	repo        Repository
	codes       CodeStore
	mailer      Mailer
	memberships MembershipChecker
	activity    activity.Recorder
	jwtSecret   string
}

func NewService(repo Repository, codes CodeStore, mailer Mailer, memberships MembershipChecker, recorder activity.Recorder, jwtSecret string) Service {
	return &service{
		repo:        repo,
		codes:       codes,
		mailer:      mailer,
		memberships: memberships,
		activity:    recorder,
		jwtSecret:   jwtSecret,
	}
}

func (s *service) SendVerificationCode(ctx context.Context, email, name string) error {
	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return db.StoreError(err, "Failed to check email")
	}
	if exists {
		return api.Conflict("Email already registered")
	}

	code, err := s.codes.Issue(ctx, email)
	if err != nil {
		return api.Internal("Failed to issue verification code", err)
	}

	if name == "" {
		name = "there"
	}
	if err := s.mailer.SendVerificationCode(ctx, email, name, code); err != nil {
		return api.Internal("Failed to send verification email", err)
	}

	return nil
}

func (s *service) RegisterVerified(ctx context.Context, req VerifiedRegisterRequest) (*User, string, string, error) {
	if err := s.codes.Verify(ctx, req.Email, req.Code); err != nil {
		switch {
		case errors.Is(err, verification.ErrCodeNotFound):
			return nil, "", "", api.Validation("No verification code pending, request a new one")
		case errors.Is(err, verification.ErrCodeMismatch):
			return nil, "", "", api.Validation("Verification code does not match")
		default:
			return nil, "", "", api.Internal("Failed to verify code", err)
		}
	}

	return s.createAndIssueTokens(ctx, req.RegisterRequest, true)
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*User, string, string, error) {
	return s.createAndIssueTokens(ctx, req, false)
}

func (s *service) createAndIssueTokens(ctx context.Context, req RegisterRequest, verified bool) (*User, string, string, error) {
	exists, err := s.repo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, "", "", db.StoreError(err, "Failed to check email")
	}
	if exists {
		return nil, "", "", api.Conflict("Email already registered")
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, "", "", api.Internal("Failed to hash password", err)
	}

	u, err := s.repo.Create(ctx, req.Name, req.Email, req.Phone, passwordHash, RoleMember, verified, uuid.NewString())
	if err != nil {
		return nil, "", "", db.StoreError(err, "Failed to create user")
	}

	accessToken, refreshToken, err := auth.GenerateTokens(u.ID, u.Email, u.Role, s.jwtSecret, s.jwtSecret)
	if err != nil {
		return nil, "", "", api.Internal("Failed to generate tokens", err)
	}

	s.activity.Record(ctx, &u.ID, "register", u.Email)

	return u, accessToken, refreshToken, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*User, string, string, error) {
	u, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, "", "", api.Unauthorized("Invalid email or password")
		}
		return nil, "", "", db.StoreError(err, "Failed to fetch user")
	}

	if !auth.CheckPassword(u.PasswordHash, req.Password) {
		return nil, "", "", api.Unauthorized("Invalid email or password")
	}

	if !u.Active {
		return nil, "", "", api.Forbidden("Account is suspended, contact the front desk")
	}

	accessToken, refreshToken, err := auth.GenerateTokens(u.ID, u.Email, u.Role, s.jwtSecret, s.jwtSecret)
	if err != nil {
		return nil, "", "", api.Internal("Failed to generate tokens", err)
	}

	s.activity.Record(ctx, &u.ID, "login", u.Email)

	return u, accessToken, refreshToken, nil
}

func (s *service) GetByID(ctx context.Context, userID int) (*User, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, api.NotFound("User not found")
		}
		return nil, db.StoreError(err, "Failed to fetch user")
	}
	return u, nil
}

func (s *service) UpdateProfile(ctx context.Context, userID int, req UpdateProfileRequest) (*User, error) {
	u, err := s.repo.UpdateProfile(ctx, userID, req.Name, req.Phone)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, api.NotFound("User not found")
		}
		return nil, db.StoreError(err, "Failed to update profile")
	}
	return u, nil
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (string, *User, error) {
	_, claims, err := auth.RefreshAccessToken(refreshToken, s.jwtSecret, s.jwtSecret)
	if err != nil {
		return "", nil, api.Unauthorized("Invalid or expired refresh token")
	}

	u, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		return "", nil, api.NotFound("User not found")
	}

	newAccessToken, err := auth.GenerateAccessToken(u.ID, u.Email, u.Role, s.jwtSecret)
	if err != nil {
		return "", nil, api.Internal("Failed to generate access token", err)
	}

	return newAccessToken, u, nil
}

// ForgotPassword succeeds silently for unknown emails so the endpoint
// cannot be used to probe which addresses are registered.
func (s *service) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			logger.Debug("Password reset requested for unknown email", "email", email)
			return nil
		}
		return db.StoreError(err, "Failed to fetch user")
	}

	token := uuid.NewString()
	if err := s.repo.CreateResetToken(ctx, u.ID, token, time.Now().Add(resetTokenTTL)); err != nil {
		return db.StoreError(err, "Failed to create reset token")
	}

	if err := s.mailer.SendPasswordReset(ctx, u.Email, u.Name, token); err != nil {
		return api.Internal("Failed to send reset email", err)
	}

	return nil
}

func (s *service) ResetPassword(ctx context.Context, token, newPassword string) error {
	userID, err := s.repo.ConsumeResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, ErrResetTokenInvalid) {
			return api.Validation("Reset token is invalid, expired or already used")
		}
		return db.StoreError(err, "Failed to consume reset token")
	}

	passwordHash, err := auth.HashPassword(newPassword)
	if err != nil {
		return api.Internal("Failed to hash password", err)
	}

	if err := s.repo.SetPassword(ctx, userID, passwordHash); err != nil {
		return db.StoreError(err, "Failed to update password")
	}

	s.activity.Record(ctx, &userID, "password_reset", "")

	return nil
}

func (s *service) ListMembers(ctx context.Context) ([]User, error) {
	users, err := s.repo.ListMembers(ctx)
	if err != nil {
		return nil, db.StoreError(err, "Failed to list members")
	}
	return users, nil
}

func (s *service) CreateMember(ctx context.Context, req CreateMemberRequest) (*User, error) {
	exists, err := s.repo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, db.StoreError(err, "Failed to check email")
	}
	if exists {
		return nil, api.Conflict("Email already registered")
	}

	role := req.Role
	if role == "" {
		role = RoleMember
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, api.Internal("Failed to hash password", err)
	}

	// Admin-created accounts skip email verification.
	u, err := s.repo.Create(ctx, req.Name, req.Email, req.Phone, passwordHash, role, true, uuid.NewString())
	if err != nil {
		return nil, db.StoreError(err, "Failed to create user")
	}

	return u, nil
}

func (s *service) SetMemberActive(ctx context.Context, userID int, active bool) error {
	if err := s.repo.SetActive(ctx, userID, active); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return api.NotFound("User not found")
		}
		return db.StoreError(err, "Failed to update user")
	}

	action := "member_suspended"
	if active {
		action = "member_activated"
	}
	s.activity.Record(ctx, &userID, action, "")

	return nil
}

// DeleteMember refuses to remove a user that still holds an active
// membership; the membership must be cancelled first.
func (s *service) DeleteMember(ctx context.Context, userID int) error {
	hasActive, err := s.memberships.HasActive(ctx, userID)
	if err != nil {
		return db.StoreError(err, "Failed to check memberships")
	}
	if hasActive {
		return api.Conflict("Cannot delete a member with an active membership")
	}

	if err := s.repo.Delete(ctx, userID); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return api.NotFound("User not found")
		}
		return db.StoreError(err, "Failed to delete user")
	}

	s.activity.Record(ctx, nil, "member_deleted", "")

	return nil
}
