package checkin

import "time"

const (
	// QRValidity is the window in which a one-time code can be redeemed.
	QRValidity = 5 * time.Minute

	QRStatusValid   = "valid"
	QRStatusUsed    = "used"
	QRStatusExpired = "expired"

	StatusActive    = "active"
	StatusCompleted = "completed"
)

type OneTimeQR struct {
	ID        int        `db:"id" json:"id"`
	UserID    int        `db:"user_id" json:"user_id"`
	Code      string     `db:"code" json:"code"`
	Status    string     `db:"status" json:"status"`
	ExpiresAt time.Time  `db:"expires_at" json:"expires_at"`
	UsedAt    *time.Time `db:"used_at" json:"used_at,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}

type CheckIn struct {
	ID           int        `db:"id" json:"id"`
	UserID       int        `db:"user_id" json:"user_id"`
	QRCode       string     `db:"qr_code" json:"qr_code"`
	LockerNumber *string    `db:"locker_number" json:"locker_number,omitempty"`
	Status       string     `db:"status" json:"status"`
	CheckInTime  time.Time  `db:"check_in_time" json:"check_in_time"`
	CheckOutTime *time.Time `db:"check_out_time" json:"check_out_time,omitempty"`
}

type CheckInWithUser struct {
	CheckIn
	UserName  string `db:"user_name" json:"user_name"`
	UserEmail string `db:"user_email" json:"user_email"`
}

// StatusResponse is the read-only answer for a code lookup; a used or
// expired code is a soft negative, not an error.
type StatusResponse struct {
	Code      string     `json:"code"`
	Status    string     `json:"status"`
	Message   string     `json:"message"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// Preview shows an admin who is behind a code before consuming it.
type Preview struct {
	Code             string    `json:"code"`
	Status           string    `json:"status"`
	ExpiresAt        time.Time `json:"expires_at"`
	MemberID         int       `json:"member_id"`
	MemberName       string    `json:"member_name"`
	MemberEmail      string    `json:"member_email"`
	MemberActive     bool      `json:"member_active"`
	MembershipActive bool      `json:"membership_active"`
}

type ApproveRequest struct {
	Code         string  `json:"code" binding:"required"`
	LockerNumber *string `json:"locker_number"`
}

type VerifyRequest struct {
	Code string `json:"code" binding:"required"`
}

type GenerateResponse struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

// InactiveMember is a user without a check-in for the inactivity window.
type InactiveMember struct {
	UserID    int        `db:"user_id" json:"user_id"`
	Name      string     `db:"name" json:"name"`
	Email     string     `db:"email" json:"email"`
	LastVisit *time.Time `db:"last_visit" json:"last_visit,omitempty"`
}
