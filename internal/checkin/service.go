package checkin

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/activity"
	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/api"
	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/db"
	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/logger"
	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/metrics"
	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/user"
)

// UserSource is the slice of the user repository this package needs.
type UserSource interface {
	FindByID(ctx context.Context, id int) (*user.User, error)
}

// MembershipChecker answers whether a user holds an active membership.
type MembershipChecker interface {
	HasActive(ctx context.Context, userID int) (bool, error)
}

type Service interface {
	Generate(ctx context.Context, userID int) (*GenerateResponse, error)
	Status(ctx context.Context, code string) (*StatusResponse, error)
	Verify(ctx context.Context, code string) (*CheckIn, error)
	Preview(ctx context.Context, code string) (*Preview, error)
	Approve(ctx context.Context, code string, lockerNumber *string) (*CheckIn, error)
	Checkout(ctx context.Context, userID int) (*CheckIn, error)
	ListRecent(ctx context.Context, limit int) ([]CheckInWithUser, error)
}

type service struct {
	repo        Repository
	users       UserSource
	memberships MembershipChecker
	activity    activity.Recorder
}

func NewService(repo Repository, users UserSource, memberships MembershipChecker, recorder activity.Recorder) Service {
	return &service{
		repo:        repo,
		users:       users,
		memberships: memberships,
		activity:    recorder,
	}
}

func (s *service) Generate(ctx context.Context, userID int) (*GenerateResponse, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, api.NotFound("User not found")
		}
		return nil, db.StoreError(err, "Failed to fetch user")
	}

	if !u.Active {
		return nil, api.Forbidden("Account is suspended, contact the front desk")
	}

	qr, err := s.repo.CreateQR(ctx, userID, uuid.NewString(), time.Now().Add(QRValidity))
	if err != nil {
		return nil, db.StoreError(err, "Failed to create QR code")
	}

	metrics.RecordQRGenerated()

	return &GenerateResponse{Code: qr.Code, ExpiresAt: qr.ExpiresAt}, nil
}

// Status is read-only: it never consumes the code, and a used or
// expired code is reported as a state, not raised as an error.
func (s *service) Status(ctx context.Context, code string) (*StatusResponse, error) {
	qr, err := s.repo.GetQRByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrQRNotFound) {
			return nil, api.NotFound("QR code not found")
		}
		return nil, db.StoreError(err, "Failed to fetch QR code")
	}

	switch {
	case qr.Status == QRStatusUsed:
		return &StatusResponse{Code: code, Status: QRStatusUsed, Message: "QR code already used"}, nil
	case qr.Status == QRStatusExpired, time.Now().After(qr.ExpiresAt):
		// The clock wins even when the row still says valid.
		return &StatusResponse{Code: code, Status: QRStatusExpired, Message: "QR code expired"}, nil
	default:
		expiresAt := qr.ExpiresAt
		return &StatusResponse{Code: code, Status: QRStatusValid, Message: "QR code is valid", ExpiresAt: &expiresAt}, nil
	}
}

func (s *service) Verify(ctx context.Context, code string) (*CheckIn, error) {
	return s.consume(ctx, code, nil)
}

func (s *service) Approve(ctx context.Context, code string, lockerNumber *string) (*CheckIn, error) {
	return s.consume(ctx, code, lockerNumber)
}

// consume redeems a one-time code. The conditional update in MarkUsed
// guarantees that N concurrent redemptions of the same code produce
// exactly one check-in; the losers get a conflict. Business-rule
// rejections after the mark still burn the code so it cannot be
// replayed later.
func (s *service) consume(ctx context.Context, code string, lockerNumber *string) (*CheckIn, error) {
	qr, err := s.repo.GetQRByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrQRNotFound) {
			metrics.RecordCheckIn("unknown_code")
			return nil, api.NotFound("QR code not found")
		}
		return nil, db.StoreError(err, "Failed to fetch QR code")
	}

	if qr.Status == QRStatusUsed {
		metrics.RecordCheckIn("already_used")
		return nil, api.Conflict("QR code already used")
	}

	if qr.Status == QRStatusExpired || time.Now().After(qr.ExpiresAt) {
		if err := s.repo.MarkExpired(ctx, code); err != nil {
			logger.Error("Failed to mark QR code expired", "code", code, "error", err)
		}
		metrics.RecordCheckIn("expired")
		return nil, api.Validation("QR code expired, generate a new one")
	}

	if err := s.repo.MarkUsed(ctx, code); err != nil {
		if errors.Is(err, ErrQRAlreadyUsed) {
			// A concurrent redeemer got here first.
			metrics.RecordCheckIn("already_used")
			return nil, api.Conflict("QR code already used")
		}
		return nil, db.StoreError(err, "Failed to redeem QR code")
	}

	u, err := s.users.FindByID(ctx, qr.UserID)
	if err != nil {
		return nil, db.StoreError(err, "Failed to fetch user")
	}

	if !u.Active {
		metrics.RecordCheckIn("suspended")
		return nil, api.Forbidden("Account is suspended, contact the front desk")
	}

	hasActive, err := s.memberships.HasActive(ctx, qr.UserID)
	if err != nil {
		return nil, db.StoreError(err, "Failed to check membership")
	}
	if !hasActive {
		metrics.RecordCheckIn("no_membership")
		return nil, api.Conflict("No active membership on record")
	}

	ci, err := s.repo.CreateCheckIn(ctx, qr.UserID, code, lockerNumber)
	if err != nil {
		return nil, db.StoreError(err, "Failed to create check-in")
	}

	metrics.RecordCheckIn("success")
	s.activity.Record(ctx, &qr.UserID, "check_in", code)

	return ci, nil
}

func (s *service) Preview(ctx context.Context, code string) (*Preview, error) {
	qr, err := s.repo.GetQRByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrQRNotFound) {
			return nil, api.NotFound("QR code not found")
		}
		return nil, db.StoreError(err, "Failed to fetch QR code")
	}

	u, err := s.users.FindByID(ctx, qr.UserID)
	if err != nil {
		return nil, db.StoreError(err, "Failed to fetch user")
	}

	hasActive, err := s.memberships.HasActive(ctx, qr.UserID)
	if err != nil {
		return nil, db.StoreError(err, "Failed to check membership")
	}

	status := qr.Status
	if status == QRStatusValid && time.Now().After(qr.ExpiresAt) {
		status = QRStatusExpired
	}

	return &Preview{
		Code:             qr.Code,
		Status:           status,
		ExpiresAt:        qr.ExpiresAt,
		MemberID:         u.ID,
		MemberName:       u.Name,
		MemberEmail:      u.Email,
		MemberActive:     u.Active,
		MembershipActive: hasActive,
	}, nil
}

func (s *service) Checkout(ctx context.Context, userID int) (*CheckIn, error) {
	ci, err := s.repo.GetActiveForUser(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNoActiveCheckIn) {
			return nil, api.NotFound("No active check-in to complete")
		}
		return nil, db.StoreError(err, "Failed to fetch check-in")
	}

	if err := s.repo.Complete(ctx, ci.ID); err != nil {
		if errors.Is(err, ErrAlreadyCheckedOut) {
			return nil, api.Conflict("Check-in already completed")
		}
		return nil, db.StoreError(err, "Failed to complete check-in")
	}

	s.activity.Record(ctx, &userID, "check_out", ci.QRCode)

	return ci, nil
}

func (s *service) ListRecent(ctx context.Context, limit int) ([]CheckInWithUser, error) {
	rows, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, db.StoreError(err, "Failed to fetch check-ins")
	}
	return rows, nil
}
