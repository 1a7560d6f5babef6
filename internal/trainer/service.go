package trainer

import (
	"context"
	"errors"
	"time"

	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/activity"
	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/api"
	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/db"
	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/logger"
	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/metrics"
	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/user"
)

// UserSource resolves the member for confirmation emails.
type UserSource interface {
	FindByID(ctx context.Context, id int) (*user.User, error)
}

// BookingMailer queues a booking confirmation. Satisfied by email.Service.
type BookingMailer interface {
	SendBookingConfirmation(ctx context.Context, email, name, bookingType, details string, when time.Time) error
}

type Service interface {
	CreateTrainer(ctx context.Context, req CreateTrainerRequest) (*PersonalTrainer, error)
	UpdateTrainer(ctx context.Context, id int, req UpdateTrainerRequest) (*PersonalTrainer, error)
	ListTrainers(ctx context.Context, includeInactive bool) ([]PersonalTrainer, error)
	GetTrainer(ctx context.Context, id int) (*PersonalTrainer, error)

	Book(ctx context.Context, userID int, req BookPtRequest) (*PtBooking, error)
	CancelBooking(ctx context.Context, userID, bookingID int) error
	ConfirmBooking(ctx context.Context, bookingID int) error
	CompleteBooking(ctx context.Context, bookingID int) error
	MyBookings(ctx context.Context, userID int) ([]PtBookingWithDetails, error)
	ListBookings(ctx context.Context, status string) ([]PtBookingWithDetails, error)

	CreatePackage(ctx context.Context, req CreatePackageRequest) (*SessionPackage, error)
	MyPackages(ctx context.Context, userID int) ([]SessionPackage, error)
	RecordAttendance(ctx context.Context, userID, packageID int, note string) (*SessionAttendance, error)
	ConfirmAttendance(ctx context.Context, attendanceID int) (*SessionPackage, error)
	RejectAttendance(ctx context.Context, attendanceID int) error
	ListPendingAttendance(ctx context.Context) ([]SessionAttendance, error)
}

type service struct {
	repo     Repository
	users    UserSource
	mailer   BookingMailer
	activity activity.Recorder
}

func NewService(repo Repository, users UserSource, mailer BookingMailer, recorder activity.Recorder) Service {
	return &service{repo: repo, users: users, mailer: mailer, activity: recorder}
}

func (s *service) CreateTrainer(ctx context.Context, req CreateTrainerRequest) (*PersonalTrainer, error) {
	t, err := s.repo.CreateTrainer(ctx, req)
	if err != nil {
		return nil, db.StoreError(err, "Failed to create trainer")
	}
	return t, nil
}

func (s *service) UpdateTrainer(ctx context.Context, id int, req UpdateTrainerRequest) (*PersonalTrainer, error) {
	t, err := s.repo.UpdateTrainer(ctx, id, req)
	if err != nil {
		if errors.Is(err, ErrTrainerNotFound) {
			return nil, api.NotFound("Trainer not found")
		}
		return nil, db.StoreError(err, "Failed to update trainer")
	}
	return t, nil
}

func (s *service) ListTrainers(ctx context.Context, includeInactive bool) ([]PersonalTrainer, error) {
	trainers, err := s.repo.ListTrainers(ctx, !includeInactive)
	if err != nil {
		return nil, db.StoreError(err, "Failed to fetch trainers")
	}
	return trainers, nil
}

func (s *service) GetTrainer(ctx context.Context, id int) (*PersonalTrainer, error) {
	t, err := s.repo.GetTrainerByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrTrainerNotFound) {
			return nil, api.NotFound("Trainer not found")
		}
		return nil, db.StoreError(err, "Failed to fetch trainer")
	}
	return t, nil
}

func (s *service) Book(ctx context.Context, userID int, req BookPtRequest) (*PtBooking, error) {
	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		return nil, api.Validation("starts_at must be RFC3339")
	}
	if startsAt.Before(time.Now()) {
		return nil, api.Validation("Session cannot start in the past")
	}

	t, err := s.repo.GetTrainerByID(ctx, req.TrainerID)
	if err != nil {
		if errors.Is(err, ErrTrainerNotFound) {
			return nil, api.NotFound("Trainer not found")
		}
		return nil, db.StoreError(err, "Failed to fetch trainer")
	}
	if !t.Active {
		return nil, api.Validation("Trainer is not accepting bookings")
	}

	b, err := s.repo.CreateBooking(ctx, userID, req.TrainerID, startsAt, req.Note)
	if err != nil {
		return nil, db.StoreError(err, "Failed to create booking")
	}

	metrics.RecordPtBooking(PtBookingStatusPending)
	s.activity.Record(ctx, &userID, "pt_booked", t.Name)

	// Confirmation email is best effort, the booking stands either way.
	if u, err := s.users.FindByID(ctx, userID); err == nil {
		if err := s.mailer.SendBookingConfirmation(ctx, u.Email, u.Name, "Personal training", t.Name, startsAt); err != nil {
			logger.Error("Failed to queue booking confirmation", "user_id", userID, "error", err)
		}
	}

	return b, nil
}

// CancelBooking is allowed for pending and confirmed bookings;
// completed and cancelled are terminal.
func (s *service) CancelBooking(ctx context.Context, userID, bookingID int) error {
	b, err := s.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, ErrPtBookingNotFound) {
			return api.NotFound("Booking not found")
		}
		return db.StoreError(err, "Failed to fetch booking")
	}

	if b.UserID != userID {
		return api.Forbidden("Not your booking")
	}

	if b.Status != PtBookingStatusPending && b.Status != PtBookingStatusConfirmed {
		return api.Conflict("Booking is no longer cancellable")
	}

	if err := s.repo.SetBookingStatus(ctx, bookingID, b.Status, PtBookingStatusCancelled); err != nil {
		if errors.Is(err, ErrInvalidTransition) {
			return api.Conflict("Booking is no longer cancellable")
		}
		return db.StoreError(err, "Failed to cancel booking")
	}

	metrics.RecordPtBooking(PtBookingStatusCancelled)
	s.activity.Record(ctx, &userID, "pt_booking_cancelled", "")
	return nil
}

func (s *service) ConfirmBooking(ctx context.Context, bookingID int) error {
	if err := s.repo.SetBookingStatus(ctx, bookingID, PtBookingStatusPending, PtBookingStatusConfirmed); err != nil {
		if errors.Is(err, ErrInvalidTransition) {
			return api.Conflict("Booking is not pending")
		}
		return db.StoreError(err, "Failed to confirm booking")
	}
	return nil
}

func (s *service) CompleteBooking(ctx context.Context, bookingID int) error {
	if err := s.repo.SetBookingStatus(ctx, bookingID, PtBookingStatusConfirmed, PtBookingStatusCompleted); err != nil {
		if errors.Is(err, ErrInvalidTransition) {
			return api.Conflict("Booking is not confirmed")
		}
		return db.StoreError(err, "Failed to complete booking")
	}
	return nil
}

func (s *service) MyBookings(ctx context.Context, userID int) ([]PtBookingWithDetails, error) {
	bookings, err := s.repo.GetUserBookings(ctx, userID)
	if err != nil {
		return nil, db.StoreError(err, "Failed to fetch bookings")
	}
	return bookings, nil
}

func (s *service) ListBookings(ctx context.Context, status string) ([]PtBookingWithDetails, error) {
	bookings, err := s.repo.ListBookings(ctx, status)
	if err != nil {
		return nil, db.StoreError(err, "Failed to fetch bookings")
	}
	return bookings, nil
}

func (s *service) CreatePackage(ctx context.Context, req CreatePackageRequest) (*SessionPackage, error) {
	if _, err := s.repo.GetTrainerByID(ctx, req.TrainerID); err != nil {
		if errors.Is(err, ErrTrainerNotFound) {
			return nil, api.NotFound("Trainer not found")
		}
		return nil, db.StoreError(err, "Failed to fetch trainer")
	}

	p, err := s.repo.CreatePackage(ctx, req.UserID, req.TrainerID, req.TotalSessions)
	if err != nil {
		return nil, db.StoreError(err, "Failed to create package")
	}

	return p, nil
}

func (s *service) MyPackages(ctx context.Context, userID int) ([]SessionPackage, error) {
	packages, err := s.repo.GetUserPackages(ctx, userID)
	if err != nil {
		return nil, db.StoreError(err, "Failed to fetch packages")
	}
	return packages, nil
}

// RecordAttendance only creates a pending row. The counter moves on
// admin confirmation, never here.
func (s *service) RecordAttendance(ctx context.Context, userID, packageID int, note string) (*SessionAttendance, error) {
	p, err := s.repo.GetPackageByID(ctx, packageID)
	if err != nil {
		if errors.Is(err, ErrPackageNotFound) {
			return nil, api.NotFound("Package not found")
		}
		return nil, db.StoreError(err, "Failed to fetch package")
	}

	if p.UserID != userID {
		return nil, api.Forbidden("Not your package")
	}
	if p.Status != PackageStatusActive {
		return nil, api.Conflict("Package is completed")
	}

	a, err := s.repo.CreateAttendance(ctx, packageID, note)
	if err != nil {
		return nil, db.StoreError(err, "Failed to record attendance")
	}

	return a, nil
}

func (s *service) ConfirmAttendance(ctx context.Context, attendanceID int) (*SessionPackage, error) {
	p, err := s.repo.ConfirmAttendance(ctx, attendanceID)
	if err != nil {
		switch {
		case errors.Is(err, ErrAttendanceNotPending):
			return nil, api.Conflict("Attendance record is not pending")
		case errors.Is(err, ErrNoSessionsRemaining):
			return nil, api.Conflict("No sessions remaining on package")
		default:
			return nil, db.StoreError(err, "Failed to confirm attendance")
		}
	}
	return p, nil
}

func (s *service) RejectAttendance(ctx context.Context, attendanceID int) error {
	if err := s.repo.RejectAttendance(ctx, attendanceID); err != nil {
		if errors.Is(err, ErrAttendanceNotPending) {
			return api.Conflict("Attendance record is not pending")
		}
		return db.StoreError(err, "Failed to reject attendance")
	}
	return nil
}

func (s *service) ListPendingAttendance(ctx context.Context) ([]SessionAttendance, error) {
	records, err := s.repo.ListPendingAttendance(ctx)
	if err != nil {
		return nil, db.StoreError(err, "Failed to fetch attendance records")
	}
	return records, nil
}
