package stats

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/db"
)

type Dashboard struct {
	TotalMembers       int `json:"total_members"`
	ActiveMemberships  int `json:"active_memberships"`
	CheckInsToday      int `json:"check_ins_today"`
	ActiveMembersToday int `json:"active_members_today"`
	PendingPtBookings  int `json:"pending_pt_bookings"`
	RevenueCentsMonth  int `json:"revenue_cents_month"`
}

// PtCounter reports pending personal-training bookings. Satisfied by
// the trainer repository.
type PtCounter interface {
	CountPendingBookings(ctx context.Context) (int, error)
}

// RevenueSource reports completed payment totals. Satisfied by the
// payment repository.
type RevenueSource interface {
	RevenueThisMonth(ctx context.Context) (int, error)
}

type Service struct {
	db      *sqlx.DB
	pt      PtCounter
	revenue RevenueSource
}

func NewService(database *sqlx.DB, pt PtCounter, revenue RevenueSource) *Service {
	return &Service{db: database, pt: pt, revenue: revenue}
}

func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	var d Dashboard

	err := s.db.GetContext(ctx, &d.TotalMembers, `
		SELECT COUNT(*) FROM users WHERE role = 'member'
	`)
	if err != nil {
		return nil, db.StoreError(err, "Failed to count members")
	}

	err = s.db.GetContext(ctx, &d.ActiveMemberships, `
		SELECT COUNT(*) FROM memberships WHERE status = 'active' AND end_date >= NOW()
	`)
	if err != nil {
		return nil, db.StoreError(err, "Failed to count memberships")
	}

	err = s.db.GetContext(ctx, &d.CheckInsToday, `
		SELECT COUNT(*) FROM check_ins WHERE check_in_time >= date_trunc('day', NOW())
	`)
	if err != nil {
		return nil, db.StoreError(err, "Failed to count check-ins")
	}

	// A member who checked in twice today still counts once.
	err = s.db.GetContext(ctx, &d.ActiveMembersToday, `
		SELECT COUNT(DISTINCT user_id) FROM check_ins WHERE check_in_time >= date_trunc('day', NOW())
	`)
	if err != nil {
		return nil, db.StoreError(err, "Failed to count active members")
	}

	pending, err := s.pt.CountPendingBookings(ctx)
	if err != nil {
		return nil, db.StoreError(err, "Failed to count PT bookings")
	}
	d.PendingPtBookings = pending

	revenue, err := s.revenue.RevenueThisMonth(ctx)
	if err != nil {
		return nil, db.StoreError(err, "Failed to sum revenue")
	}
	d.RevenueCentsMonth = revenue

	return &d, nil
}
