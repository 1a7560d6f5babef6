package payment

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/api"
	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/membership"
	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/plan"
)

type MockRepo struct{ mock.Mock }

func (m *MockRepo) Create(ctx context.Context, userID int, planID *int, amountCents int, currency string) (*Payment, error) {
	args := m.Called(ctx, userID, planID, amountCents, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Payment), args.Error(1)
}

func (m *MockRepo) GetByID(ctx context.Context, id int) (*Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Payment), args.Error(1)
}

func (m *MockRepo) MarkCompleted(ctx context.Context, id int, gatewayRef string) error {
	return m.Called(ctx, id, gatewayRef).Error(0)
}

func (m *MockRepo) MarkFailed(ctx context.Context, id int, gatewayRef *string) error {
	return m.Called(ctx, id, gatewayRef).Error(0)
}

func (m *MockRepo) MarkRefunded(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRepo) GetUserPayments(ctx context.Context, userID int) ([]Payment, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Payment), args.Error(1)
}

func (m *MockRepo) ListAll(ctx context.Context, limit int) ([]PaymentWithDetails, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]PaymentWithDetails), args.Error(1)
}

func (m *MockRepo) RevenueThisMonth(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockGateway struct{ mock.Mock }

func (m *MockGateway) Charge(ctx context.Context, amountCents int64, currency, cardToken, description string) (string, error) {
	args := m.Called(ctx, amountCents, currency, cardToken, description)
	return args.String(0), args.Error(1)
}

func (m *MockGateway) Refund(ctx context.Context, chargeRef string, amountCents int64) error {
	return m.Called(ctx, chargeRef, amountCents).Error(0)
}

type MockPlans struct{ mock.Mock }

func (m *MockPlans) GetByID(ctx context.Context, id int) (*plan.Plan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*plan.Plan), args.Error(1)
}

type MockAssigner struct{ mock.Mock }

func (m *MockAssigner) Assign(ctx context.Context, userID, planID int, autoRenew bool) (*membership.Membership, error) {
	args := m.Called(ctx, userID, planID, autoRenew)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*membership.Membership), args.Error(1)
}

type nopRecorder struct{}

func (nopRecorder) Record(ctx context.Context, userID *int, action, detail string) {}

func monthlyPlan() *plan.Plan {
	return &plan.Plan{ID: 2, Name: "Monthly", PriceCents: 150000, Currency: "thb", DurationMonths: 1, Active: true}
}

func kindOf(t *testing.T, err error) api.Kind {
	t.Helper()
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected api error, got %v", err)
	}
	return apiErr.Kind
}

func TestPurchasePlanSuccess(t *testing.T) {
	repo := new(MockRepo)
	gateway := new(MockGateway)
	plans := new(MockPlans)
	assigner := new(MockAssigner)
	svc := NewService(repo, gateway, plans, assigner, nopRecorder{})

	p := monthlyPlan()
	planID := p.ID
	plans.On("GetByID", mock.Anything, 2).Return(p, nil)
	repo.On("Create", mock.Anything, 7, &planID, 150000, "thb").
		Return(&Payment{ID: 11, UserID: 7, Status: StatusPending}, nil)
	gateway.On("Charge", mock.Anything, int64(150000), "thb", "tok_123", mock.Anything).
		Return("chrg_1", nil)
	repo.On("MarkCompleted", mock.Anything, 11, "chrg_1").Return(nil)
	assigner.On("Assign", mock.Anything, 7, 2, false).
		Return(&membership.Membership{ID: 3, UserID: 7, PlanID: 2}, nil)
	ref := "chrg_1"
	repo.On("GetByID", mock.Anything, 11).
		Return(&Payment{ID: 11, UserID: 7, Status: StatusCompleted, GatewayRef: &ref}, nil)

	pay, err := svc.PurchasePlan(context.Background(), 7, PurchasePlanRequest{PlanID: 2, CardToken: "tok_123"})
	assert.NoError(t, err)
	assert.Equal(t, StatusCompleted, pay.Status)
	assigner.AssertExpectations(t)
}

func TestPurchasePlanDeclined(t *testing.T) {
	repo := new(MockRepo)
	gateway := new(MockGateway)
	plans := new(MockPlans)
	assigner := new(MockAssigner)
	svc := NewService(repo, gateway, plans, assigner, nopRecorder{})

	p := monthlyPlan()
	planID := p.ID
	plans.On("GetByID", mock.Anything, 2).Return(p, nil)
	repo.On("Create", mock.Anything, 7, &planID, 150000, "thb").
		Return(&Payment{ID: 11, UserID: 7, Status: StatusPending}, nil)
	gateway.On("Charge", mock.Anything, int64(150000), "thb", "tok_bad", mock.Anything).
		Return("chrg_2", fmt.Errorf("%w: insufficient funds", ErrChargeDeclined))
	ref := "chrg_2"
	repo.On("MarkFailed", mock.Anything, 11, &ref).Return(nil)

	_, err := svc.PurchasePlan(context.Background(), 7, PurchasePlanRequest{PlanID: 2, CardToken: "tok_bad"})
	assert.Equal(t, api.KindValidation, kindOf(t, err))
	assigner.AssertNotCalled(t, "Assign", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	repo.AssertCalled(t, "MarkFailed", mock.Anything, 11, &ref)
}

func TestPurchasePlanInactivePlan(t *testing.T) {
	repo := new(MockRepo)
	gateway := new(MockGateway)
	plans := new(MockPlans)
	assigner := new(MockAssigner)
	svc := NewService(repo, gateway, plans, assigner, nopRecorder{})

	p := monthlyPlan()
	p.Active = false
	plans.On("GetByID", mock.Anything, 2).Return(p, nil)

	_, err := svc.PurchasePlan(context.Background(), 7, PurchasePlanRequest{PlanID: 2, CardToken: "tok_123"})
	assert.Equal(t, api.KindValidation, kindOf(t, err))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRefundNotCompleted(t *testing.T) {
	repo := new(MockRepo)
	gateway := new(MockGateway)
	plans := new(MockPlans)
	assigner := new(MockAssigner)
	svc := NewService(repo, gateway, plans, assigner, nopRecorder{})

	repo.On("GetByID", mock.Anything, 11).Return(&Payment{ID: 11, Status: StatusFailed}, nil)

	err := svc.Refund(context.Background(), 11)
	assert.Equal(t, api.KindConflict, kindOf(t, err))
	gateway.AssertNotCalled(t, "Refund", mock.Anything, mock.Anything, mock.Anything)
}
