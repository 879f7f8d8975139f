package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/hinata/kanaflash/internal/logger"
	"github.com/hinata/kanaflash/internal/models"
	"github.com/hinata/kanaflash/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository implementation
func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user models.User) error {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("creating user: email=%s", user.Email)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO users (id, email, password_hash, display_name)
VALUES (?, ?, ?, ?)
`, user.ID, user.Email, user.PasswordHash, user.DisplayName)
	if err != nil {
		log.Error("failed to create user: %v", err)
	}
	return err
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getUser(ctx, `WHERE id = ?`, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getUser(ctx, `WHERE email = ?`, email)
}

func (r *userRepository) getUser(ctx context.Context, where string, arg any) (*models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")

	var u models.User
	err := r.db.QueryRowContext(ctx, `
SELECT id, email, password_hash, display_name, created_at
FROM users
`+where, arg).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get user: %v", err)
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) CreateSession(ctx context.Context, session models.Session) error {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("creating auth session: user_id=%s", session.UserID)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO auth_sessions (id, user_id, expires_at)
VALUES (?, ?, ?)
`, session.ID, session.UserID, session.ExpiresAt)
	if err != nil {
		log.Error("failed to create auth session: %v", err)
	}
	return err
}

func (r *userRepository) GetSession(ctx context.Context, id string) (*models.Session, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")

	var s models.Session
	err := r.db.QueryRowContext(ctx, `
SELECT id, user_id, expires_at, created_at
FROM auth_sessions
WHERE id = ?
`, id).Scan(&s.ID, &s.UserID, &s.ExpiresAt, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get auth session: %v", err)
		return nil, err
	}
	return &s, nil
}

func (r *userRepository) DeleteSession(ctx context.Context, id string) error {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("deleting auth session: id=%s", id)

	_, err := r.db.ExecContext(ctx, `DELETE FROM auth_sessions WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to delete auth session: %v", err)
	}
	return err
}

func (r *userRepository) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")

	res, err := r.db.ExecContext(ctx, `DELETE FROM auth_sessions WHERE expires_at <= ?`, now)
	if err != nil {
		log.Error("failed to purge expired sessions: %v", err)
		return 0, err
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		log.Info("purged %d expired auth sessions", n)
	}
	return n, nil
}
