package trainer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/api"
	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/user"
)

type MockRepo struct{ mock.Mock }

func (m *MockRepo) CreateTrainer(ctx context.Context, req CreateTrainerRequest) (*PersonalTrainer, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PersonalTrainer), args.Error(1)
}

func (m *MockRepo) GetTrainerByID(ctx context.Context, id int) (*PersonalTrainer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PersonalTrainer), args.Error(1)
}

func (m *MockRepo) ListTrainers(ctx context.Context, onlyActive bool) ([]PersonalTrainer, error) {
	args := m.Called(ctx, onlyActive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]PersonalTrainer), args.Error(1)
}

func (m *MockRepo) UpdateTrainer(ctx context.Context, id int, req UpdateTrainerRequest) (*PersonalTrainer, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PersonalTrainer), args.Error(1)
}

func (m *MockRepo) CreateBooking(ctx context.Context, userID, trainerID int, startsAt time.Time, note string) (*PtBooking, error) {
	args := m.Called(ctx, userID, trainerID, startsAt, note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PtBooking), args.Error(1)
}

func (m *MockRepo) GetBookingByID(ctx context.Context, id int) (*PtBooking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PtBooking), args.Error(1)
}

func (m *MockRepo) SetBookingStatus(ctx context.Context, id int, from, to string) error {
	return m.Called(ctx, id, from, to).Error(0)
}

func (m *MockRepo) GetUserBookings(ctx context.Context, userID int) ([]PtBookingWithDetails, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]PtBookingWithDetails), args.Error(1)
}

func (m *MockRepo) ListBookings(ctx context.Context, status string) ([]PtBookingWithDetails, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]PtBookingWithDetails), args.Error(1)
}

func (m *MockRepo) CountPendingBookings(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockRepo) CreatePackage(ctx context.Context, userID, trainerID, totalSessions int) (*SessionPackage, error) {
	args := m.Called(ctx, userID, trainerID, totalSessions)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*SessionPackage), args.Error(1)
}

func (m *MockRepo) GetPackageByID(ctx context.Context, id int) (*SessionPackage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*SessionPackage), args.Error(1)
}

func (m *MockRepo) GetUserPackages(ctx context.Context, userID int) ([]SessionPackage, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]SessionPackage), args.Error(1)
}

func (m *MockRepo) CreateAttendance(ctx context.Context, packageID int, note string) (*SessionAttendance, error) {
	args := m.Called(ctx, packageID, note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*SessionAttendance), args.Error(1)
}

func (m *MockRepo) GetAttendanceByID(ctx context.Context, id int) (*SessionAttendance, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*SessionAttendance), args.Error(1)
}

func (m *MockRepo) ConfirmAttendance(ctx context.Context, attendanceID int) (*SessionPackage, error) {
	args := m.Called(ctx, attendanceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*SessionPackage), args.Error(1)
}

func (m *MockRepo) RejectAttendance(ctx context.Context, attendanceID int) error {
	return m.Called(ctx, attendanceID).Error(0)
}

func (m *MockRepo) ListPendingAttendance(ctx context.Context) ([]SessionAttendance, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]SessionAttendance), args.Error(1)
}

type nopRecorder struct{}

func (nopRecorder) Record(ctx context.Context, userID *int, action, detail string) {}

type stubUsers struct{}

func (stubUsers) FindByID(ctx context.Context, id int) (*user.User, error) {
	return &user.User{ID: id, Name: "Jo", Email: "jo@example.com", Active: true}, nil
}

type nopMailer struct{}

func (nopMailer) SendBookingConfirmation(ctx context.Context, email, name, bookingType, details string, when time.Time) error {
	return nil
}

func kindOf(t *testing.T, err error) api.Kind {
	t.Helper()
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected api error, got %v", err)
	}
	return apiErr.Kind
}

func TestBookInactiveTrainer(t *testing.T) {
	repo := new(MockRepo)
	svc := NewService(repo, stubUsers{}, nopMailer{}, nopRecorder{})

	repo.On("GetTrainerByID", mock.Anything, 2).
		Return(&PersonalTrainer{ID: 2, Name: "Mike", Active: false}, nil)

	_, err := svc.Book(context.Background(), 7, BookPtRequest{
		TrainerID: 2,
		StartsAt:  time.Now().Add(24 * time.Hour).Format(time.RFC3339),
	})
	assert.Equal(t, api.KindValidation, kindOf(t, err))
	repo.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBookPastStart(t *testing.T) {
	repo := new(MockRepo)
	svc := NewService(repo, stubUsers{}, nopMailer{}, nopRecorder{})

	_, err := svc.Book(context.Background(), 7, BookPtRequest{
		TrainerID: 2,
		StartsAt:  time.Now().Add(-time.Hour).Format(time.RFC3339),
	})
	assert.Equal(t, api.KindValidation, kindOf(t, err))
	repo.AssertNotCalled(t, "GetTrainerByID", mock.Anything, mock.Anything)
}

func TestCancelBookingNotOwner(t *testing.T) {
	repo := new(MockRepo)
	svc := NewService(repo, stubUsers{}, nopMailer{}, nopRecorder{})

	repo.On("GetBookingByID", mock.Anything, 4).
		Return(&PtBooking{ID: 4, UserID: 99, Status: PtBookingStatusPending}, nil)

	err := svc.CancelBooking(context.Background(), 7, 4)
	assert.Equal(t, api.KindForbidden, kindOf(t, err))
	repo.AssertNotCalled(t, "SetBookingStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCancelCompletedBooking(t *testing.T) {
	repo := new(MockRepo)
	svc := NewService(repo, stubUsers{}, nopMailer{}, nopRecorder{})

	repo.On("GetBookingByID", mock.Anything, 4).
		Return(&PtBooking{ID: 4, UserID: 7, Status: PtBookingStatusCompleted}, nil)

	err := svc.CancelBooking(context.Background(), 7, 4)
	assert.Equal(t, api.KindConflict, kindOf(t, err))
}

func TestCancelConfirmedBooking(t *testing.T) {
	repo := new(MockRepo)
	svc := NewService(repo, stubUsers{}, nopMailer{}, nopRecorder{})

	repo.On("GetBookingByID", mock.Anything, 4).
		Return(&PtBooking{ID: 4, UserID: 7, Status: PtBookingStatusConfirmed}, nil)
	repo.On("SetBookingStatus", mock.Anything, 4, PtBookingStatusConfirmed, PtBookingStatusCancelled).
		Return(nil)

	err := svc.CancelBooking(context.Background(), 7, 4)
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestConfirmBookingNotPending(t *testing.T) {
	repo := new(MockRepo)
	svc := NewService(repo, stubUsers{}, nopMailer{}, nopRecorder{})

	repo.On("SetBookingStatus", mock.Anything, 4, PtBookingStatusPending, PtBookingStatusConfirmed).
		Return(ErrInvalidTransition)

	err := svc.ConfirmBooking(context.Background(), 4)
	assert.Equal(t, api.KindConflict, kindOf(t, err))
}

func TestRecordAttendanceCompletedPackage(t *testing.T) {
	repo := new(MockRepo)
	svc := NewService(repo, stubUsers{}, nopMailer{}, nopRecorder{})

	repo.On("GetPackageByID", mock.Anything, 8).
		Return(&SessionPackage{ID: 8, UserID: 7, Status: PackageStatusCompleted}, nil)

	_, err := svc.RecordAttendance(context.Background(), 7, 8, "leg day")
	assert.Equal(t, api.KindConflict, kindOf(t, err))
	repo.AssertNotCalled(t, "CreateAttendance", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecordAttendanceNotOwner(t *testing.T) {
	repo := new(MockRepo)
	svc := NewService(repo, stubUsers{}, nopMailer{}, nopRecorder{})

	repo.On("GetPackageByID", mock.Anything, 8).
		Return(&SessionPackage{ID: 8, UserID: 99, Status: PackageStatusActive}, nil)

	_, err := svc.RecordAttendance(context.Background(), 7, 8, "")
	assert.Equal(t, api.KindForbidden, kindOf(t, err))
}

func TestConfirmAttendanceNoSessions(t *testing.T) {
	repo := new(MockRepo)
	svc := NewService(repo, stubUsers{}, nopMailer{}, nopRecorder{})

	repo.On("ConfirmAttendance", mock.Anything, 3).Return(nil, ErrNoSessionsRemaining)

	_, err := svc.ConfirmAttendance(context.Background(), 3)
	assert.Equal(t, api.KindConflict, kindOf(t, err))
}
