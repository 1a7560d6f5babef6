package checkin

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/api"
	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/user"
)

type MockRepo struct{ mock.Mock }

func (m *MockRepo) CreateQR(ctx context.Context, userID int, code string, expiresAt time.Time) (*OneTimeQR, error) {
	args := m.Called(ctx, userID, code, expiresAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*OneTimeQR), args.Error(1)
}

func (m *MockRepo) GetQRByCode(ctx context.Context, code string) (*OneTimeQR, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*OneTimeQR), args.Error(1)
}

func (m *MockRepo) MarkUsed(ctx context.Context, code string) error {
	return m.Called(ctx, code).Error(0)
}

func (m *MockRepo) MarkExpired(ctx context.Context, code string) error {
	return m.Called(ctx, code).Error(0)
}

func (m *MockRepo) CreateCheckIn(ctx context.Context, userID int, qrCode string, lockerNumber *string) (*CheckIn, error) {
	args := m.Called(ctx, userID, qrCode, lockerNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CheckIn), args.Error(1)
}

func (m *MockRepo) GetActiveForUser(ctx context.Context, userID int) (*CheckIn, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CheckIn), args.Error(1)
}

func (m *MockRepo) Complete(ctx context.Context, checkInID int) error {
	return m.Called(ctx, checkInID).Error(0)
}

func (m *MockRepo) CompleteStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepo) ListRecent(ctx context.Context, limit int) ([]CheckInWithUser, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]CheckInWithUser), args.Error(1)
}

func (m *MockRepo) CountToday(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockRepo) ListInactiveMembers(ctx context.Context, inactiveFor time.Duration) ([]InactiveMember, error) {
	args := m.Called(ctx, inactiveFor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]InactiveMember), args.Error(1)
}

type MockUsers struct{ mock.Mock }

func (m *MockUsers) FindByID(ctx context.Context, id int) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

type MockMemberships struct{ mock.Mock }

func (m *MockMemberships) HasActive(ctx context.Context, userID int) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

type nopRecorder struct{}

func (nopRecorder) Record(ctx context.Context, userID *int, action, detail string) {}

func activeUser(id int) *user.User {
	return &user.User{ID: id, Name: "Jo", Email: "jo@example.com", Active: true}
}

func TestGenerateRejectsSuspendedAccount(t *testing.T) {
	repo := new(MockRepo)
	users := new(MockUsers)
	memberships := new(MockMemberships)
	svc := NewService(repo, users, memberships, nopRecorder{})

	u := activeUser(1)
	u.Active = false
	users.On("FindByID", mock.Anything, 1).Return(u, nil)

	_, err := svc.Generate(context.Background(), 1)
	assert.Error(t, err)

	var apiErr *api.Error
	assert.True(t, errors.As(err, &apiErr))
	assert.Equal(t, api.KindForbidden, apiErr.Kind)
	repo.AssertNotCalled(t, "CreateQR", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestVerifySuccess(t *testing.T) {
	repo := new(MockRepo)
	users := new(MockUsers)
	memberships := new(MockMemberships)
	svc := NewService(repo, users, memberships, nopRecorder{})

	qr := &OneTimeQR{ID: 1, UserID: 7, Code: "abc", Status: QRStatusValid, ExpiresAt: time.Now().Add(time.Minute)}
	repo.On("GetQRByCode", mock.Anything, "abc").Return(qr, nil)
	repo.On("MarkUsed", mock.Anything, "abc").Return(nil)
	users.On("FindByID", mock.Anything, 7).Return(activeUser(7), nil)
	memberships.On("HasActive", mock.Anything, 7).Return(true, nil)
	repo.On("CreateCheckIn", mock.Anything, 7, "abc", (*string)(nil)).
		Return(&CheckIn{ID: 9, UserID: 7, QRCode: "abc", Status: StatusActive}, nil)

	ci, err := svc.Verify(context.Background(), "abc")
	assert.NoError(t, err)
	assert.Equal(t, 9, ci.ID)
	repo.AssertExpectations(t)
}

func TestVerifyExpiredByClock(t *testing.T) {
	repo := new(MockRepo)
	users := new(MockUsers)
	memberships := new(MockMemberships)
	svc := NewService(repo, users, memberships, nopRecorder{})

	// Row still says valid but the wall clock has moved past expiry.
	qr := &OneTimeQR{ID: 1, UserID: 7, Code: "old", Status: QRStatusValid, ExpiresAt: time.Now().Add(-time.Second)}
	repo.On("GetQRByCode", mock.Anything, "old").Return(qr, nil)
	repo.On("MarkExpired", mock.Anything, "old").Return(nil)

	_, err := svc.Verify(context.Background(), "old")
	assert.Error(t, err)

	var apiErr *api.Error
	assert.True(t, errors.As(err, &apiErr))
	assert.Equal(t, api.KindValidation, apiErr.Kind)
	repo.AssertNotCalled(t, "MarkUsed", mock.Anything, mock.Anything)
}

func TestVerifyAlreadyUsed(t *testing.T) {
	repo := new(MockRepo)
	users := new(MockUsers)
	memberships := new(MockMemberships)
	svc := NewService(repo, users, memberships, nopRecorder{})

	qr := &OneTimeQR{ID: 1, UserID: 7, Code: "dup", Status: QRStatusUsed, ExpiresAt: time.Now().Add(time.Minute)}
	repo.On("GetQRByCode", mock.Anything, "dup").Return(qr, nil)

	_, err := svc.Verify(context.Background(), "dup")

	var apiErr *api.Error
	assert.True(t, errors.As(err, &apiErr))
	assert.Equal(t, api.KindConflict, apiErr.Kind)
}

func TestVerifyBurnsCodeWhenMembershipMissing(t *testing.T) {
	repo := new(MockRepo)
	users := new(MockUsers)
	memberships := new(MockMemberships)
	svc := NewService(repo, users, memberships, nopRecorder{})

	qr := &OneTimeQR{ID: 1, UserID: 7, Code: "nomember", Status: QRStatusValid, ExpiresAt: time.Now().Add(time.Minute)}
	repo.On("GetQRByCode", mock.Anything, "nomember").Return(qr, nil)
	repo.On("MarkUsed", mock.Anything, "nomember").Return(nil)
	users.On("FindByID", mock.Anything, 7).Return(activeUser(7), nil)
	memberships.On("HasActive", mock.Anything, 7).Return(false, nil)

	_, err := svc.Verify(context.Background(), "nomember")

	var apiErr *api.Error
	assert.True(t, errors.As(err, &apiErr))
	assert.Equal(t, api.KindConflict, apiErr.Kind)

	// The code is consumed even though the gate rejected the member.
	repo.AssertCalled(t, "MarkUsed", mock.Anything, "nomember")
	repo.AssertNotCalled(t, "CreateCheckIn", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// raceRepo lets MarkUsed succeed exactly once, like the conditional
// UPDATE does against a real database.
type raceRepo struct {
	MockRepo
	mu   sync.Mutex
	used bool
	qr   OneTimeQR
}

func (r *raceRepo) GetQRByCode(ctx context.Context, code string) (*OneTimeQR, error) {
	qr := r.qr
	return &qr, nil
}

func (r *raceRepo) MarkUsed(ctx context.Context, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.used {
		return ErrQRAlreadyUsed
	}
	r.used = true
	return nil
}

func (r *raceRepo) CreateCheckIn(ctx context.Context, userID int, qrCode string, lockerNumber *string) (*CheckIn, error) {
	return &CheckIn{ID: 1, UserID: userID, QRCode: qrCode, Status: StatusActive}, nil
}

func TestConcurrentVerifyRedeemsOnce(t *testing.T) {
	repo := &raceRepo{qr: OneTimeQR{ID: 1, UserID: 7, Code: "race", Status: QRStatusValid, ExpiresAt: time.Now().Add(time.Minute)}}
	users := new(MockUsers)
	memberships := new(MockMemberships)
	users.On("FindByID", mock.Anything, 7).Return(activeUser(7), nil)
	memberships.On("HasActive", mock.Anything, 7).Return(true, nil)

	svc := NewService(repo, users, memberships, nopRecorder{})

	const n = 10
	var wg sync.WaitGroup
	results := make(chan error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Verify(context.Background(), "race")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	successes, conflicts := 0, 0
	for err := range results {
		if err == nil {
			successes++
			continue
		}
		var apiErr *api.Error
		if errors.As(err, &apiErr) && apiErr.Kind == api.KindConflict {
			conflicts++
		}
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, n-1, conflicts)
}

func TestCheckoutNoActiveCheckIn(t *testing.T) {
	repo := new(MockRepo)
	users := new(MockUsers)
	memberships := new(MockMemberships)
	svc := NewService(repo, users, memberships, nopRecorder{})

	repo.On("GetActiveForUser", mock.Anything, 3).Return(nil, ErrNoActiveCheckIn)

	_, err := svc.Checkout(context.Background(), 3)

	var apiErr *api.Error
	assert.True(t, errors.As(err, &apiErr))
	assert.Equal(t, api.KindNotFound, apiErr.Kind)
}
