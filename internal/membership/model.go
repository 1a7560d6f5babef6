package membership

import "time"

type Status string

const (
	StatusActive    Status = "active"
	StatusExpired   Status = "expired"
	StatusCancelled Status = "cancelled"

	// ExpiringSoonWindow is the look-ahead for the renewal nudge list.
	ExpiringSoonWindow = 20 * 24 * time.Hour
)

type Membership struct {
	ID        int       `db:"id" json:"id"`
	UserID    int       `db:"user_id" json:"user_id"`
	PlanID    int       `db:"plan_id" json:"plan_id"`
	StartDate time.Time `db:"start_date" json:"start_date"`
	EndDate   time.Time `db:"end_date" json:"end_date"`
	Status    Status    `db:"status" json:"status"`
	AutoRenew bool      `db:"auto_renew" json:"auto_renew"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// EffectiveStatus derives expiry from the clock instead of relying on a
// background status flip.
func (m *Membership) EffectiveStatus(now time.Time) Status {
	if m.Status == StatusActive && m.EndDate.Before(now) {
		return StatusExpired
	}
	return m.Status
}

type MembershipWithDetails struct {
	Membership
	PlanName  string `db:"plan_name" json:"plan_name"`
	UserName  string `db:"user_name" json:"user_name"`
	UserEmail string `db:"user_email" json:"user_email"`
}

type AssignRequest struct {
	UserID    int  `json:"user_id" binding:"required"`
	PlanID    int  `json:"plan_id" binding:"required"`
	AutoRenew bool `json:"auto_renew"`
}
