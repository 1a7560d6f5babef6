package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/api"
	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/auth"
	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/verification"
)

type MockRepo struct{ mock.Mock }

func (m *MockRepo) Create(ctx context.Context, name, email, phone, passwordHash, role string, emailVerified bool, permanentQRCode string) (*User, error) {
	args := m.Called(ctx, name, email, phone, passwordHash, role, emailVerified, permanentQRCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepo) FindByID(ctx context.Context, id int) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepo) ListMembers(ctx context.Context) ([]User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]User), args.Error(1)
}

func (m *MockRepo) UpdateProfile(ctx context.Context, id int, name, phone string) (*User, error) {
	args := m.Called(ctx, id, name, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepo) SetActive(ctx context.Context, id int, active bool) error {
	return m.Called(ctx, id, active).Error(0)
}

func (m *MockRepo) SetPassword(ctx context.Context, id int, passwordHash string) error {
	return m.Called(ctx, id, passwordHash).Error(0)
}

func (m *MockRepo) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRepo) RoleOf(ctx context.Context, userID int) (string, bool, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockRepo) CreateResetToken(ctx context.Context, userID int, token string, expiresAt time.Time) error {
	return m.Called(ctx, userID, token, expiresAt).Error(0)
}

func (m *MockRepo) ConsumeResetToken(ctx context.Context, token string) (int, error) {
	args := m.Called(ctx, token)
	return args.Int(0), args.Error(1)
}

type MockCodes struct{ mock.Mock }

func (m *MockCodes) Issue(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

func (m *MockCodes) Verify(ctx context.Context, email, code string) error {
	return m.Called(ctx, email, code).Error(0)
}

type MockMailer struct{ mock.Mock }

func (m *MockMailer) SendVerificationCode(ctx context.Context, email, name, code string) error {
	return m.Called(ctx, email, name, code).Error(0)
}

func (m *MockMailer) SendPasswordReset(ctx context.Context, email, name, token string) error {
	return m.Called(ctx, email, name, token).Error(0)
}

type MockMemberships struct{ mock.Mock }

func (m *MockMemberships) HasActive(ctx context.Context, userID int) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

type nopRecorder struct{}

func (nopRecorder) Record(ctx context.Context, userID *int, action, detail string) {}

const testSecret = "test-secret"

func newTestService(repo *MockRepo, codes *MockCodes, mailer *MockMailer, memberships *MockMemberships) Service {
	return NewService(repo, codes, mailer, memberships, nopRecorder{}, testSecret)
}

func kindOf(t *testing.T, err error) api.Kind {
	t.Helper()
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected api error, got %v", err)
	}
	return apiErr.Kind
}

func TestLoginSuspendedAccount(t *testing.T) {
	repo := new(MockRepo)
	svc := newTestService(repo, new(MockCodes), new(MockMailer), new(MockMemberships))

	hash, err := auth.HashPassword("hunter22")
	assert.NoError(t, err)

	repo.On("FindByEmail", mock.Anything, "jo@example.com").
		Return(&User{ID: 1, Email: "jo@example.com", PasswordHash: hash, Role: RoleMember, Active: false}, nil)

	_, _, _, err = svc.Login(context.Background(), LoginRequest{Email: "jo@example.com", Password: "hunter22"})
	assert.Equal(t, api.KindForbidden, kindOf(t, err))
}

func TestLoginWrongPassword(t *testing.T) {
	repo := new(MockRepo)
	svc := newTestService(repo, new(MockCodes), new(MockMailer), new(MockMemberships))

	hash, err := auth.HashPassword("hunter22")
	assert.NoError(t, err)

	repo.On("FindByEmail", mock.Anything, "jo@example.com").
		Return(&User{ID: 1, Email: "jo@example.com", PasswordHash: hash, Role: RoleMember, Active: true}, nil)

	_, _, _, err = svc.Login(context.Background(), LoginRequest{Email: "jo@example.com", Password: "wrong"})
	assert.Equal(t, api.KindUnauthorized, kindOf(t, err))
}

func TestLoginUnknownEmailSameError(t *testing.T) {
	repo := new(MockRepo)
	svc := newTestService(repo, new(MockCodes), new(MockMailer), new(MockMemberships))

	repo.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, ErrUserNotFound)

	_, _, _, err := svc.Login(context.Background(), LoginRequest{Email: "ghost@example.com", Password: "whatever"})
	assert.Equal(t, api.KindUnauthorized, kindOf(t, err))
}

func TestSendVerificationCodeTakenEmail(t *testing.T) {
	repo := new(MockRepo)
	codes := new(MockCodes)
	svc := newTestService(repo, codes, new(MockMailer), new(MockMemberships))

	repo.On("EmailExists", mock.Anything, "jo@example.com").Return(true, nil)

	err := svc.SendVerificationCode(context.Background(), "jo@example.com", "Jo")
	assert.Equal(t, api.KindConflict, kindOf(t, err))
	codes.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything)
}

func TestRegisterVerifiedBadCode(t *testing.T) {
	repo := new(MockRepo)
	codes := new(MockCodes)
	svc := newTestService(repo, codes, new(MockMailer), new(MockMemberships))

	codes.On("Verify", mock.Anything, "jo@example.com", "111111").Return(verification.ErrCodeMismatch)

	_, _, _, err := svc.RegisterVerified(context.Background(), VerifiedRegisterRequest{
		RegisterRequest: RegisterRequest{Name: "Jo", Email: "jo@example.com", Password: "hunter22x"},
		Code:            "111111",
	})
	assert.Equal(t, api.KindValidation, kindOf(t, err))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRegisterVerifiedSuccess(t *testing.T) {
	repo := new(MockRepo)
	codes := new(MockCodes)
	svc := newTestService(repo, codes, new(MockMailer), new(MockMemberships))

	codes.On("Verify", mock.Anything, "jo@example.com", "123456").Return(nil)
	repo.On("EmailExists", mock.Anything, "jo@example.com").Return(false, nil)
	repo.On("Create", mock.Anything, "Jo", "jo@example.com", "", mock.Anything, RoleMember, true, mock.Anything).
		Return(&User{ID: 1, Name: "Jo", Email: "jo@example.com", Role: RoleMember, Active: true, EmailVerified: true}, nil)

	u, access, refresh, err := svc.RegisterVerified(context.Background(), VerifiedRegisterRequest{
		RegisterRequest: RegisterRequest{Name: "Jo", Email: "jo@example.com", Password: "hunter22x"},
		Code:            "123456",
	})
	assert.NoError(t, err)
	assert.True(t, u.EmailVerified)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)
}

func TestForgotPasswordUnknownEmailIsSilent(t *testing.T) {
	repo := new(MockRepo)
	mailer := new(MockMailer)
	svc := newTestService(repo, new(MockCodes), mailer, new(MockMemberships))

	repo.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, ErrUserNotFound)

	err := svc.ForgotPassword(context.Background(), "ghost@example.com")
	assert.NoError(t, err)
	repo.AssertNotCalled(t, "CreateResetToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mailer.AssertNotCalled(t, "SendPasswordReset", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestResetPasswordBadToken(t *testing.T) {
	repo := new(MockRepo)
	svc := newTestService(repo, new(MockCodes), new(MockMailer), new(MockMemberships))

	repo.On("ConsumeResetToken", mock.Anything, "stale").Return(0, ErrResetTokenInvalid)

	err := svc.ResetPassword(context.Background(), "stale", "newpassword1")
	assert.Equal(t, api.KindValidation, kindOf(t, err))
}

func TestDeleteMemberWithActiveMembership(t *testing.T) {
	repo := new(MockRepo)
	memberships := new(MockMemberships)
	svc := newTestService(repo, new(MockCodes), new(MockMailer), memberships)

	memberships.On("HasActive", mock.Anything, 3).Return(true, nil)

	err := svc.DeleteMember(context.Background(), 3)
	assert.Equal(t, api.KindConflict, kindOf(t, err))
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
