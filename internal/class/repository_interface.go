package class

import (
	"context"
	"time"
)

type Repository interface {
	CreateClass(ctx context.Context, name, description, trainerName string, startsAt time.Time, durationMinutes, maxCapacity int) (*GymClass, error)
	GetClassByID(ctx context.Context, id int) (*GymClass, error)
	UpdateClass(ctx context.Context, id int, req UpdateClassRequest, startsAt *time.Time) (*GymClass, error)
	ListClasses(ctx context.Context, onlyUpcoming bool) ([]GymClass, error)
	CountActiveBookings(ctx context.Context, classID int) (int, error)

	CreateBooking(ctx context.Context, userID, classID int) (*Booking, error)
	GetBookingByID(ctx context.Context, id int) (*Booking, error)
	UserHasBooking(ctx context.Context, userID, classID int) (bool, error)
	CancelBooking(ctx context.Context, id int) error
	MarkAttended(ctx context.Context, id int) error
	GetUserBookings(ctx context.Context, userID int) ([]BookingWithDetails, error)
	GetBookingsByClass(ctx context.Context, classID int) ([]BookingWithDetails, error)
}
