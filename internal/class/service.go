package class

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

// MembershipChecker answers whether a user holds an active membership.
type MembershipChecker interface {
	HasActive(ctx context.Context, userID int) (bool, error)
}

// UserSource resolves the member for confirmation emails.
type UserSource interface {
	FindByID(ctx context.Context, id int) (*user.User, error)
}

// BookingMailer queues a booking confirmation. Satisfied by email.Service.
type BookingMailer interface {
	SendBookingConfirmation(ctx context.Context, email, name, bookingType, details string, when time.Time) error
}

type Service interface {
	CreateClass(ctx context.Context, req CreateClassRequest) (*GymClass, error)
	UpdateClass(ctx context.Context, id int, req UpdateClassRequest) (*GymClass, error)
	ListClasses(ctx context.Context, onlyUpcoming bool) ([]GymClassWithEnrollment, error)
	GetClass(ctx context.Context, id int) (*GymClassWithEnrollment, error)

	Book(ctx context.Context, userID, classID int) (*Booking, error)
	Cancel(ctx context.Context, userID, bookingID int) error
	MarkAttended(ctx context.Context, bookingID int) error
	MyBookings(ctx context.Context, userID int) ([]BookingWithDetails, error)
	ClassRoster(ctx context.Context, classID int) ([]BookingWithDetails, error)
}

type service struct {
	repo        Repository
	memberships MembershipChecker
	users       UserSource
	mailer      BookingMailer
	activity    activity.Recorder
}

func NewService(repo Repository, memberships MembershipChecker, users UserSource, mailer BookingMailer, recorder activity.Recorder) Service {
	return &service{repo: repo, memberships: memberships, users: users, mailer: mailer, activity: recorder}
}

func (s *service) CreateClass(ctx context.Context, req CreateClassRequest) (*GymClass, error) {
	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		return nil, api.Validation("starts_at must be RFC3339")
	}
	if startsAt.Before(time.Now()) {
		return nil, api.Validation("Class cannot start in the past")
	}

	gc, err := s.repo.CreateClass(ctx, req.Name, req.Description, req.TrainerName, startsAt, req.DurationMinutes, req.MaxCapacity)
	if err != nil {
		return nil, db.StoreError(err, "Failed to create class")
	}

	return gc, nil
}

func (s *service) UpdateClass(ctx context.Context, id int, req UpdateClassRequest) (*GymClass, error) {
	var startsAt *time.Time
	if req.StartsAt != nil {
		parsed, err := time.Parse(time.RFC3339, *req.StartsAt)
		if err != nil {
			return nil, api.Validation("starts_at must be RFC3339")
		}
		if parsed.Before(time.Now()) {
			return nil, api.Validation("Class cannot start in the past")
		}
		startsAt = &parsed
	}

	gc, err := s.repo.UpdateClass(ctx, id, req, startsAt)
	if err != nil {
		if errors.Is(err, ErrClassNotFound) {
			return nil, api.NotFound("Class not found")
		}
		return nil, db.StoreError(err, "Failed to update class")
	}

	return gc, nil
}

func (s *service) ListClasses(ctx context.Context, onlyUpcoming bool) ([]GymClassWithEnrollment, error) {
	classes, err := s.repo.ListClasses(ctx, onlyUpcoming)
	if err != nil {
		return nil, db.StoreError(err, "Failed to fetch classes")
	}

	out := make([]GymClassWithEnrollment, 0, len(classes))
	for _, gc := range classes {
		count, err := s.repo.CountActiveBookings(ctx, gc.ID)
		if err != nil {
			return nil, db.StoreError(err, "Failed to count bookings")
		}
		out = append(out, withEnrollment(gc, count))
	}

	return out, nil
}

func (s *service) GetClass(ctx context.Context, id int) (*GymClassWithEnrollment, error) {
	gc, err := s.repo.GetClassByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrClassNotFound) {
			return nil, api.NotFound("Class not found")
		}
		return nil, db.StoreError(err, "Failed to fetch class")
	}

	count, err := s.repo.CountActiveBookings(ctx, gc.ID)
	if err != nil {
		return nil, db.StoreError(err, "Failed to count bookings")
	}

	enriched := withEnrollment(*gc, count)
	return &enriched, nil
}

// Book enforces the gates in order: class exists, has not started,
// member holds an active membership, no duplicate live booking, and
// the class is not at capacity.
func (s *service) Book(ctx context.Context, userID, classID int) (*Booking, error) {
	gc, err := s.repo.GetClassByID(ctx, classID)
	if err != nil {
		if errors.Is(err, ErrClassNotFound) {
			return nil, api.NotFound("Class not found")
		}
		return nil, db.StoreError(err, "Failed to fetch class")
	}

	if time.Now().After(gc.StartsAt) {
		return nil, api.Validation("Class has already started")
	}

	hasActive, err := s.memberships.HasActive(ctx, userID)
	if err != nil {
		return nil, db.StoreError(err, "Failed to check membership")
	}
	if !hasActive {
		return nil, api.Conflict("No active membership on record")
	}

	already, err := s.repo.UserHasBooking(ctx, userID, classID)
	if err != nil {
		return nil, db.StoreError(err, "Failed to check existing booking")
	}
	if already {
		return nil, api.Conflict("Already booked into this class")
	}

	count, err := s.repo.CountActiveBookings(ctx, classID)
	if err != nil {
		return nil, db.StoreError(err, "Failed to count bookings")
	}
	if count >= gc.MaxCapacity {
		return nil, api.Conflict("Class is full")
	}

	b, err := s.repo.CreateBooking(ctx, userID, classID)
	if err != nil {
		return nil, db.StoreError(err, "Failed to create booking")
	}

	metrics.RecordClassBooking(BookingStatusBooked)
	s.activity.Record(ctx, &userID, "class_booked", gc.Name)

	// Confirmation email is best effort, the booking stands either way.
	if u, err := s.users.FindByID(ctx, userID); err == nil {
		if err := s.mailer.SendBookingConfirmation(ctx, u.Email, u.Name, "Class", gc.Name, gc.StartsAt); err != nil {
			logger.Error("Failed to queue booking confirmation", "user_id", userID, "error", err)
		}
	}

	return b, nil
}

// Cancel is owner-only and terminal: attended or cancelled bookings
// cannot be cancelled again.
func (s *service) Cancel(ctx context.Context, userID, bookingID int) error {
	b, err := s.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			return api.NotFound("Booking not found")
		}
		return db.StoreError(err, "Failed to fetch booking")
	}

	if b.UserID != userID {
		return api.Forbidden("Not your booking")
	}

	if err := s.repo.CancelBooking(ctx, bookingID); err != nil {
		if errors.Is(err, ErrBookingNotFoundOrAlreadyCancelled) {
			return api.Conflict("Booking is no longer cancellable")
		}
		return db.StoreError(err, "Failed to cancel booking")
	}

	metrics.RecordClassBooking(BookingStatusCancelled)
	s.activity.Record(ctx, &userID, "class_booking_cancelled", "")
	return nil
}

func (s *service) MarkAttended(ctx context.Context, bookingID int) error {
	if err := s.repo.MarkAttended(ctx, bookingID); err != nil {
		if errors.Is(err, ErrBookingNotMarkable) {
			return api.Conflict("Booking is not in a markable state")
		}
		return db.StoreError(err, "Failed to mark attendance")
	}
	return nil
}

func (s *service) MyBookings(ctx context.Context, userID int) ([]BookingWithDetails, error) {
	bookings, err := s.repo.GetUserBookings(ctx, userID)
	if err != nil {
		return nil, db.StoreError(err, "Failed to fetch bookings")
	}
	return bookings, nil
}

func (s *service) ClassRoster(ctx context.Context, classID int) ([]BookingWithDetails, error) {
	if _, err := s.repo.GetClassByID(ctx, classID); err != nil {
		if errors.Is(err, ErrClassNotFound) {
			return nil, api.NotFound("Class not found")
		}
		return nil, db.StoreError(err, "Failed to fetch class")
	}

	bookings, err := s.repo.GetBookingsByClass(ctx, classID)
	if err != nil {
		return nil, db.StoreError(err, "Failed to fetch roster")
	}
	return bookings, nil
}

func withEnrollment(gc GymClass, count int) GymClassWithEnrollment {
	available := gc.MaxCapacity - count
	if available < 0 {
		available = 0
	}
	return GymClassWithEnrollment{
		GymClass:    gc,
		BookedCount: count,
		Available:   available,
		IsFull:      count >= gc.MaxCapacity,
	}
}
