package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/hinata/kanaflash/internal/errors"
	"github.com/hinata/kanaflash/internal/models"
	"github.com/hinata/kanaflash/internal/security"
	"github.com/hinata/kanaflash/internal/services"
	"github.com/hinata/kanaflash/internal/testutil/mocks"
)

func newAuthService(users *mocks.MockUserRepository) services.AuthService {
	issuer := security.NewTokenIssuer("test-secret", time.Hour)
	return services.NewAuthService(users, issuer, 24*time.Hour)
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
}

func TestRegister(t *testing.T) {
	users := &mocks.MockUserRepository{}
	users.On("GetByEmail", mock.Anything, "hinata@example.com").Return(nil, nil)
	users.On("Create", mock.Anything, mock.AnythingOfType("models.User")).Return(nil)

	svc := newAuthService(users)
	user, err := svc.Register(context.Background(), "  Hinata@Example.com ", "correct horse", "Hinata")
	require.NoError(t, err)

	assert.Equal(t, "hinata@example.com", user.Email)
	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "correct horse", user.PasswordHash)
	assert.True(t, security.CheckPassword("correct horse", user.PasswordHash))
	users.AssertExpectations(t)
}

func TestRegister_InvalidEmail(t *testing.T) {
	svc := newAuthService(&mocks.MockUserRepository{})
	_, err := svc.Register(context.Background(), "not-an-email", "long enough password", "X")
	assertAppErrorCode(t, err, apperrors.ErrCodeValidation)
}

func TestRegister_ShortPassword(t *testing.T) {
	svc := newAuthService(&mocks.MockUserRepository{})
	_, err := svc.Register(context.Background(), "a@example.com", "short", "X")
	assertAppErrorCode(t, err, apperrors.ErrCodeValidation)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	users := &mocks.MockUserRepository{}
	users.On("GetByEmail", mock.Anything, "a@example.com").Return(&models.User{ID: "existing"}, nil)

	svc := newAuthService(users)
	_, err := svc.Register(context.Background(), "a@example.com", "long enough password", "X")
	assertAppErrorCode(t, err, apperrors.ErrCodeConflict)
}

func TestLogin(t *testing.T) {
	hash, err := security.HashPassword("correct horse")
	require.NoError(t, err)

	users := &mocks.MockUserRepository{}
	users.On("GetByEmail", mock.Anything, "a@example.com").
		Return(&models.User{ID: "user-1", Email: "a@example.com", PasswordHash: hash}, nil)
	users.On("CreateSession", mock.Anything, mock.AnythingOfType("models.Session")).Return(nil)

	svc := newAuthService(users)
	result, err := svc.Login(context.Background(), "a@example.com", "correct horse")
	require.NoError(t, err)

	assert.Equal(t, "user-1", result.User.ID)
	require.NotNil(t, result.Session)
	assert.Equal(t, "user-1", result.Session.UserID)
	assert.True(t, result.Session.ExpiresAt.After(time.Now()))
	assert.NotEmpty(t, result.Token)
	users.AssertExpectations(t)
}

func TestLogin_WrongPassword(t *testing.T) {
	hash, err := security.HashPassword("correct horse")
	require.NoError(t, err)

	users := &mocks.MockUserRepository{}
	users.On("GetByEmail", mock.Anything, "a@example.com").
		Return(&models.User{ID: "user-1", PasswordHash: hash}, nil)

	svc := newAuthService(users)
	_, err = svc.Login(context.Background(), "a@example.com", "battery staple")
	assertAppErrorCode(t, err, apperrors.ErrCodeUnauthenticated)
}

func TestLogin_UnknownEmail(t *testing.T) {
	users := &mocks.MockUserRepository{}
	users.On("GetByEmail", mock.Anything, "nobody@example.com").Return(nil, nil)

	svc := newAuthService(users)
	_, err := svc.Login(context.Background(), "nobody@example.com", "whatever password")
	assertAppErrorCode(t, err, apperrors.ErrCodeUnauthenticated)
}

func TestValidateSession(t *testing.T) {
	users := &mocks.MockUserRepository{}
	users.On("GetSession", mock.Anything, "sess-1").
		Return(&models.Session{ID: "sess-1", UserID: "user-1", ExpiresAt: time.Now().Add(time.Hour)}, nil)
	users.On("GetByID", mock.Anything, "user-1").Return(&models.User{ID: "user-1"}, nil)

	svc := newAuthService(users)
	user, err := svc.ValidateSession(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)
}

func TestValidateSession_Expired(t *testing.T) {
	users := &mocks.MockUserRepository{}
	users.On("GetSession", mock.Anything, "sess-1").
		Return(&models.Session{ID: "sess-1", UserID: "user-1", ExpiresAt: time.Now().Add(-time.Minute)}, nil)
	users.On("DeleteSession", mock.Anything, "sess-1").Return(nil)

	svc := newAuthService(users)
	_, err := svc.ValidateSession(context.Background(), "sess-1")
	assertAppErrorCode(t, err, apperrors.ErrCodeUnauthenticated)
	users.AssertCalled(t, "DeleteSession", mock.Anything, "sess-1")
}

func TestValidateToken(t *testing.T) {
	issuer := security.NewTokenIssuer("test-secret", time.Hour)
	token, err := issuer.Issue("user-1")
	require.NoError(t, err)

	users := &mocks.MockUserRepository{}
	users.On("GetByID", mock.Anything, "user-1").Return(&models.User{ID: "user-1"}, nil)

	svc := services.NewAuthService(users, issuer, 24*time.Hour)
	user, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)

	_, err = svc.ValidateToken(context.Background(), "garbage")
	assertAppErrorCode(t, err, apperrors.ErrCodeUnauthenticated)
}
