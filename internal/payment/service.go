package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/activity"
	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/api"
	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/db"
	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/logger"
	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/membership"
	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/metrics"
	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/plan"
)

// PlanSource resolves plan catalog entries. Satisfied by *plan.Repository.
type PlanSource interface {
	GetByID(ctx context.Context, id int) (*plan.Plan, error)
}

// MembershipAssigner grants the purchased plan. Satisfied by membership.Service.
type MembershipAssigner interface {
	Assign(ctx context.Context, userID, planID int, autoRenew bool) (*membership.Membership, error)
}

type Service interface {
	PurchasePlan(ctx context.Context, userID int, req PurchasePlanRequest) (*Payment, error)
	MyPayments(ctx context.Context, userID int) ([]Payment, error)
	ListAll(ctx context.Context, limit int) ([]PaymentWithDetails, error)
	Refund(ctx context.Context, paymentID int) error
}

type service struct {
	repo        Repository
	gateway     Gateway
	plans       PlanSource
	memberships MembershipAssigner
	activity    activity.Recorder
}

func NewService(repo Repository, gateway Gateway, plans PlanSource, memberships MembershipAssigner, recorder activity.Recorder) Service {
	return &service{
		repo:        repo,
		gateway:     gateway,
		plans:       plans,
		memberships: memberships,
		activity:    recorder,
	}
}

// PurchasePlan records a pending payment, charges the card, and on
// success assigns the membership. A declined charge marks the row
// failed and surfaces the gateway's reason; there are no retries.
func (s *service) PurchasePlan(ctx context.Context, userID int, req PurchasePlanRequest) (*Payment, error) {
	p, err := s.plans.GetByID(ctx, req.PlanID)
	if err != nil {
		if errors.Is(err, plan.ErrPlanNotFound) {
			return nil, api.NotFound("Membership plan not found")
		}
		return nil, db.StoreError(err, "Failed to fetch plan")
	}
	if !p.Active {
		return nil, api.Validation("Membership plan is no longer offered")
	}

	planID := p.ID
	pay, err := s.repo.Create(ctx, userID, &planID, int(p.PriceCents), p.Currency)
	if err != nil {
		return nil, db.StoreError(err, "Failed to record payment")
	}

	ref, err := s.gateway.Charge(ctx, p.PriceCents, p.Currency, req.CardToken,
		fmt.Sprintf("Membership plan: %s", p.Name))
	if err != nil {
		var refPtr *string
		if ref != "" {
			refPtr = &ref
		}
		if markErr := s.repo.MarkFailed(ctx, pay.ID, refPtr); markErr != nil {
			logger.Error("Failed to mark payment failed", "payment_id", pay.ID, "error", markErr)
		}
		metrics.RecordPayment("failed")

		if errors.Is(err, ErrChargeDeclined) {
			return nil, api.Validation(err.Error())
		}
		return nil, api.Unavailable("Payment provider is unavailable", err)
	}

	if err := s.repo.MarkCompleted(ctx, pay.ID, ref); err != nil {
		return nil, db.StoreError(err, "Failed to finalize payment")
	}

	if _, err := s.memberships.Assign(ctx, userID, p.ID, false); err != nil {
		// The charge went through; the membership grant must not be
		// silently lost, so surface the failure for manual follow-up.
		logger.Error("Payment completed but membership assignment failed",
			"payment_id", pay.ID, "user_id", userID, "plan_id", p.ID, "error", err)
		return nil, api.Internal("Payment succeeded but membership assignment failed, contact support", err)
	}

	metrics.RecordPayment("completed")
	s.activity.Record(ctx, &userID, "plan_purchased", p.Name)

	return s.repo.GetByID(ctx, pay.ID)
}

func (s *service) MyPayments(ctx context.Context, userID int) ([]Payment, error) {
	payments, err := s.repo.GetUserPayments(ctx, userID)
	if err != nil {
		return nil, db.StoreError(err, "Failed to fetch payments")
	}
	return payments, nil
}

func (s *service) ListAll(ctx context.Context, limit int) ([]PaymentWithDetails, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	payments, err := s.repo.ListAll(ctx, limit)
	if err != nil {
		return nil, db.StoreError(err, "Failed to fetch payments")
	}
	return payments, nil
}

func (s *service) Refund(ctx context.Context, paymentID int) error {
	pay, err := s.repo.GetByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, ErrPaymentNotFound) {
			return api.NotFound("Payment not found")
		}
		return db.StoreError(err, "Failed to fetch payment")
	}

	if pay.Status != StatusCompleted || pay.GatewayRef == nil {
		return api.Conflict("Payment is not refundable")
	}

	if err := s.gateway.Refund(ctx, *pay.GatewayRef, int64(pay.AmountCents)); err != nil {
		return api.Unavailable("Payment provider refused the refund", err)
	}

	if err := s.repo.MarkRefunded(ctx, paymentID); err != nil {
		if errors.Is(err, ErrPaymentNotRefundable) {
			return api.Conflict("Payment is not refundable")
		}
		return db.StoreError(err, "Failed to mark payment refunded")
	}

	metrics.RecordPayment("refunded")
	return nil
}
