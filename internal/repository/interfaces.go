package repository

import (
	"context"
	"time"

	"github.com/hinata/kanaflash/internal/models"
)

// CharacterRepository handles the kana catalog
type CharacterRepository interface {
	FetchCatalog(ctx context.Context, kanaType models.KanaType) ([]models.Character, error)
	Get(ctx context.Context, id int64) (*models.Character, error)
}

// AccuracyRepository handles per-user, per-character accuracy records
type AccuracyRepository interface {
	FetchAccuracy(ctx context.Context, userID string, characterIDs []int64) (map[int64]models.AccuracyRecord, error)
	// Upsert increments attempts (and correct_attempts when correct) for the
	// (user, character) pair, creating the record from a zero baseline if
	// absent. The increment is atomic per pair.
	Upsert(ctx context.Context, userID string, characterID int64, correct bool) (models.AccuracyRecord, error)
}

// UserRepository handles accounts and auth sessions
type UserRepository interface {
	Create(ctx context.Context, user models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	CreateSession(ctx context.Context, session models.Session) error
	GetSession(ctx context.Context, id string) (*models.Session, error)
	DeleteSession(ctx context.Context, id string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

// StatsRepository handles dashboard aggregates
type StatsRepository interface {
	CharacterStats(ctx context.Context, userID string, kanaType models.KanaType) ([]models.CharacterStat, error)
	Summary(ctx context.Context, userID string, kanaType models.KanaType) (*models.SummaryStat, error)
}
