package services

import (
	"context"
	"strings"
	"time"

	apperrors "github.com/hinata/kanaflash/internal/errors"
	"github.com/hinata/kanaflash/internal/logger"
	"github.com/hinata/kanaflash/internal/models"
	"github.com/hinata/kanaflash/internal/repository"
	"github.com/hinata/kanaflash/internal/security"
)

const minPasswordLength = 8

// LoginResult bundles the cookie session and the bearer token minted at login.
type LoginResult struct {
	User    *models.User    `json:"user"`
	Session *models.Session `json:"-"`
	Token   string          `json:"token"`
}

// AuthService handles accounts, sessions and bearer tokens
type AuthService interface {
	Register(ctx context.Context, email, password, displayName string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	ValidateSession(ctx context.Context, sessionID string) (*models.User, error)
	ValidateToken(ctx context.Context, token string) (*models.User, error)
	Logout(ctx context.Context, sessionID string) error
}

type authService struct {
	users      repository.UserRepository
	issuer     *security.TokenIssuer
	sessionTTL time.Duration
}

// NewAuthService creates a new AuthService
func NewAuthService(users repository.UserRepository, issuer *security.TokenIssuer, sessionTTL time.Duration) AuthService {
	return &authService{users: users, issuer: issuer, sessionTTL: sessionTTL}
}

func (s *authService) Register(ctx context.Context, email, password, displayName string) (*models.User, error) {
	log := logger.FromContext(ctx)

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperrors.NewValidationError("email", "must be a valid email address")
	}
	if len(password) < minPasswordLength {
		return nil, apperrors.NewValidationError("password", "must be at least 8 characters")
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if existing != nil {
		return nil, apperrors.NewConflictError("email already registered")
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := models.User{
		ID:           security.GenerateSessionID(),
		Email:        email,
		PasswordHash: hash,
		DisplayName:  strings.TrimSpace(displayName),
		CreatedAt:    time.Now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		log.Error("failed to create user: %v", err)
		return nil, apperrors.NewInternalError(err)
	}

	log.Info("user registered: %s", email)
	return &user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	log := logger.FromContext(ctx)

	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if user == nil || !security.CheckPassword(password, user.PasswordHash) {
		// Same answer for unknown email and wrong password.
		return nil, apperrors.NewUnauthenticatedError("invalid email or password")
	}

	session := models.Session{
		ID:        security.GenerateSessionID(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(s.sessionTTL),
		CreatedAt: time.Now(),
	}
	if err := s.users.CreateSession(ctx, session); err != nil {
		log.Error("failed to create session: %v", err)
		return nil, apperrors.NewInternalError(err)
	}

	token, err := s.issuer.Issue(user.ID)
	if err != nil {
		log.Error("failed to issue token: %v", err)
		return nil, apperrors.NewInternalError(err)
	}

	log.Info("user logged in: %s", email)
	return &LoginResult{User: user, Session: &session, Token: token}, nil
}

func (s *authService) ValidateSession(ctx context.Context, sessionID string) (*models.User, error) {
	if sessionID == "" {
		return nil, apperrors.NewUnauthenticatedError("")
	}

	session, err := s.users.GetSession(ctx, sessionID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if session == nil {
		return nil, apperrors.NewUnauthenticatedError("session not found")
	}
	if time.Now().After(session.ExpiresAt) {
		_ = s.users.DeleteSession(ctx, sessionID)
		return nil, apperrors.NewUnauthenticatedError("session expired")
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if user == nil {
		return nil, apperrors.NewUnauthenticatedError("user no longer exists")
	}
	return user, nil
}

func (s *authService) ValidateToken(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.issuer.Verify(token)
	if err != nil {
		return nil, apperrors.NewUnauthenticatedError("invalid token")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if user == nil {
		return nil, apperrors.NewUnauthenticatedError("user no longer exists")
	}
	return user, nil
}

func (s *authService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.users.DeleteSession(ctx, sessionID); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}
