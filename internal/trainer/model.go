package trainer

import "time"

const (
	PtBookingStatusPending   = "pending"
	PtBookingStatusConfirmed = "confirmed"
	PtBookingStatusCompleted = "completed"
	PtBookingStatusCancelled = "cancelled"
)

const (
	PackageStatusActive    = "active"
	PackageStatusCompleted = "completed"
)

const (
	AttendanceStatusPending   = "pending"
	AttendanceStatusConfirmed = "confirmed"
	AttendanceStatusRejected  = "rejected"
)

type PersonalTrainer struct {
	ID        int       `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Bio       string    `db:"bio" json:"bio"`
	Specialty string    `db:"specialty" json:"specialty"`
	PhotoURL  string    `db:"photo_url" json:"photo_url"`
	RateCents int       `db:"rate_cents" json:"rate_cents"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type PtBooking struct {
	ID        int       `db:"id" json:"id"`
	UserID    int       `db:"user_id" json:"user_id"`
	TrainerID int       `db:"trainer_id" json:"trainer_id"`
	StartsAt  time.Time `db:"starts_at" json:"starts_at"`
	Status    string    `db:"status" json:"status"`
	Note      string    `db:"note" json:"note"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type PtBookingWithDetails struct {
	PtBooking
	TrainerName string `db:"trainer_name" json:"trainer_name"`
	UserName    string `db:"user_name" json:"user_name"`
	UserEmail   string `db:"user_email" json:"user_email"`
}

type SessionPackage struct {
	ID                int       `db:"id" json:"id"`
	UserID            int       `db:"user_id" json:"user_id"`
	TrainerID         int       `db:"trainer_id" json:"trainer_id"`
	TotalSessions     int       `db:"total_sessions" json:"total_sessions"`
	RemainingSessions int       `db:"remaining_sessions" json:"remaining_sessions"`
	Status            string    `db:"status" json:"status"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
}

type SessionAttendance struct {
	ID        int       `db:"id" json:"id"`
	PackageID int       `db:"package_id" json:"package_id"`
	Status    string    `db:"status" json:"status"`
	Note      string    `db:"note" json:"note"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type CreateTrainerRequest struct {
	Name      string `json:"name" binding:"required"`
	Bio       string `json:"bio"`
	Specialty string `json:"specialty"`
	PhotoURL  string `json:"photo_url"`
	RateCents int    `json:"rate_cents" binding:"min=0"`
}

type UpdateTrainerRequest struct {
	Name      *string `json:"name"`
	Bio       *string `json:"bio"`
	Specialty *string `json:"specialty"`
	PhotoURL  *string `json:"photo_url"`
	RateCents *int    `json:"rate_cents"`
	Active    *bool   `json:"active"`
}

type BookPtRequest struct {
	TrainerID int    `json:"trainer_id" binding:"required"`
	StartsAt  string `json:"starts_at" binding:"required"`
	Note      string `json:"note"`
}

type CreatePackageRequest struct {
	UserID        int `json:"user_id" binding:"required"`
	TrainerID     int `json:"trainer_id" binding:"required"`
	TotalSessions int `json:"total_sessions" binding:"required,min=1"`
}

type RecordAttendanceRequest struct {
	Note string `json:"note"`
}
