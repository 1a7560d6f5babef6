package trainer

import (
	"context"
	"time"
)

type Repository interface {
	CreateTrainer(ctx context.Context, req CreateTrainerRequest) (*PersonalTrainer, error)
	GetTrainerByID(ctx context.Context, id int) (*PersonalTrainer, error)
	ListTrainers(ctx context.Context, onlyActive bool) ([]PersonalTrainer, error)
	UpdateTrainer(ctx context.Context, id int, req UpdateTrainerRequest) (*PersonalTrainer, error)

	CreateBooking(ctx context.Context, userID, trainerID int, startsAt time.Time, note string) (*PtBooking, error)
	GetBookingByID(ctx context.Context, id int) (*PtBooking, error)
	SetBookingStatus(ctx context.Context, id int, from, to string) error
	GetUserBookings(ctx context.Context, userID int) ([]PtBookingWithDetails, error)
	ListBookings(ctx context.Context, status string) ([]PtBookingWithDetails, error)
	CountPendingBookings(ctx context.Context) (int, error)

	CreatePackage(ctx context.Context, userID, trainerID, totalSessions int) (*SessionPackage, error)
	GetPackageByID(ctx context.Context, id int) (*SessionPackage, error)
	GetUserPackages(ctx context.Context, userID int) ([]SessionPackage, error)
	CreateAttendance(ctx context.Context, packageID int, note string) (*SessionAttendance, error)
	GetAttendanceByID(ctx context.Context, id int) (*SessionAttendance, error)
	ConfirmAttendance(ctx context.Context, attendanceID int) (*SessionPackage, error)
	RejectAttendance(ctx context.Context, attendanceID int) error
	ListPendingAttendance(ctx context.Context) ([]SessionAttendance, error)
}
