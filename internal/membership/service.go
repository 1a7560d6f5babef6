package membership

import (
	"context"
	"errors"
	"time"

	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/api"
	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/db"
	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/metrics"
	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/plan"
)

// PlanSource resolves plan catalog entries. Satisfied by *plan.Repository.
type PlanSource interface {
	GetByID(ctx context.Context, id int) (*plan.Plan, error)
}

type Service interface {
	Assign(ctx context.Context, userID, planID int, autoRenew bool) (*Membership, error)
	GetMine(ctx context.Context, userID int) (*Membership, error)
	Cancel(ctx context.Context, membershipID int) error
	ListExpiringSoon(ctx context.Context) ([]MembershipWithDetails, error)
}

type service struct {
	repo  Repository
	plans PlanSource
}

func NewService(repo Repository, plans PlanSource) Service {
	return &service{repo: repo, plans: plans}
}

func (s *service) Assign(ctx context.Context, userID, planID int, autoRenew bool) (*Membership, error) {
	p, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, plan.ErrPlanNotFound) {
			return nil, api.NotFound("Membership plan not found")
		}
		return nil, db.StoreError(err, "Failed to fetch plan")
	}
	if !p.Active {
		return nil, api.Validation("Membership plan is no longer offered")
	}

	start := time.Now()
	end := start.AddDate(0, p.DurationMonths, 0)

	m, err := s.repo.Assign(ctx, userID, planID, start, end, autoRenew)
	if err != nil {
		return nil, db.StoreError(err, "Failed to assign membership")
	}

	metrics.RecordMembershipAssigned()

	return m, nil
}

func (s *service) GetMine(ctx context.Context, userID int) (*Membership, error) {
	m, err := s.repo.GetLatestForUser(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrMembershipNotFound) {
			return nil, api.NotFound("No membership on record")
		}
		return nil, db.StoreError(err, "Failed to fetch membership")
	}

	// Report derived expiry without waiting for a background flip.
	m.Status = m.EffectiveStatus(time.Now())

	return m, nil
}

func (s *service) Cancel(ctx context.Context, membershipID int) error {
	if err := s.repo.Cancel(ctx, membershipID); err != nil {
		if errors.Is(err, ErrMembershipAlreadyCancelled) {
			return api.Conflict("Membership not found or already cancelled")
		}
		return db.StoreError(err, "Failed to cancel membership")
	}
	return nil
}

func (s *service) ListExpiringSoon(ctx context.Context) ([]MembershipWithDetails, error) {
	rows, err := s.repo.ListExpiringSoon(ctx, ExpiringSoonWindow)
	if err != nil {
		return nil, db.StoreError(err, "Failed to fetch expiring memberships")
	}
	return rows, nil
}
