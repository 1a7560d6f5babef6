package class

import "time"

const (
	BookingStatusBooked    = "booked"
	BookingStatusAttended  = "attended"
	BookingStatusCancelled = "cancelled"
)

type GymClass struct {
	ID              int       `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	Description     string    `db:"description" json:"description"`
	TrainerName     string    `db:"trainer_name" json:"trainer_name"`
	StartsAt        time.Time `db:"starts_at" json:"starts_at"`
	DurationMinutes int       `db:"duration_minutes" json:"duration_minutes"`
	MaxCapacity     int       `db:"max_capacity" json:"max_capacity"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

type GymClassWithEnrollment struct {
	GymClass
	BookedCount int  `json:"booked_count"`
	Available   int  `json:"available"`
	IsFull      bool `json:"is_full"`
}

type Booking struct {
	ID        int       `db:"id" json:"id"`
	UserID    int       `db:"user_id" json:"user_id"`
	ClassID   int       `db:"class_id" json:"class_id"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type BookingWithDetails struct {
	Booking
	ClassName     string    `db:"class_name" json:"class_name"`
	ClassStartsAt time.Time `db:"class_starts_at" json:"class_starts_at"`
	UserName      string    `db:"user_name" json:"user_name"`
	UserEmail     string    `db:"user_email" json:"user_email"`
}

type CreateClassRequest struct {
	Name            string `json:"name" binding:"required"`
	Description     string `json:"description"`
	TrainerName     string `json:"trainer_name"`
	StartsAt        string `json:"starts_at" binding:"required"`
	DurationMinutes int    `json:"duration_minutes" binding:"required,min=15"`
	MaxCapacity     int    `json:"max_capacity" binding:"required,min=1"`
}

type UpdateClassRequest struct {
	Name            *string `json:"name"`
	Description     *string `json:"description"`
	TrainerName     *string `json:"trainer_name"`
	StartsAt        *string `json:"starts_at"`
	DurationMinutes *int    `json:"duration_minutes" binding:"omitempty,min=15"`
	MaxCapacity     *int    `json:"max_capacity" binding:"omitempty,min=1"`
}
