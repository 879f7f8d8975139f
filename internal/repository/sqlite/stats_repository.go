package sqlite

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"

	"github.com/hinata/kanaflash/internal/logger"
	"github.com/hinata/kanaflash/internal/models"
	"github.com/hinata/kanaflash/internal/repository"
)

// Accuracy thresholds for the dashboard summary buckets.
const (
	masteredAccuracy   = 0.9
	strugglingAccuracy = 0.5
	minRatedAttempts   = 3
)

type statsRepository struct {
	db *sql.DB
}

// NewStatsRepository creates a new StatsRepository implementation
func NewStatsRepository(db *sql.DB) repository.StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) CharacterStats(ctx context.Context, userID string, kanaType models.KanaType) ([]models.CharacterStat, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")
	log.Debug("fetching character stats: user_id=%s, kana_type=%s", userID, kanaType)

	query := sqlBuilder.Select(
		"c.id", "c.kana_type", "c.glyph", "c.romaji",
		"COALESCE(a.attempts, 0)", "COALESCE(a.correct_attempts, 0)", "COALESCE(a.accuracy, 0)",
	).
		From("characters c").
		LeftJoin("accuracy_records a ON a.character_id = c.id AND a.user_id = ?", userID).
		OrderBy("c.kana_type", "c.sort_order", "c.id")
	if kanaType != "" {
		query = query.Where(squirrel.Eq{"c.kana_type": kanaType})
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build character stats query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to query character stats: %v", err)
		return nil, err
	}
	defer rows.Close()

	var stats []models.CharacterStat
	for rows.Next() {
		var s models.CharacterStat
		if err := rows.Scan(&s.CharacterID, &s.KanaType, &s.Glyph, &s.Romaji, &s.Attempts, &s.CorrectAttempts, &s.Accuracy); err != nil {
			log.Error("failed to scan character stat row: %v", err)
			return nil, err
		}
		stats = append(stats, s)
	}
	log.Debug("found %d character stat rows", len(stats))
	return stats, rows.Err()
}

func (r *statsRepository) Summary(ctx context.Context, userID string, kanaType models.KanaType) (*models.SummaryStat, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")
	log.Debug("fetching summary stats: user_id=%s, kana_type=%s", userID, kanaType)

	query := sqlBuilder.Select(
		"COUNT(a.id)",
		"COUNT(c.id)",
		"COALESCE(SUM(a.attempts), 0)",
		"COALESCE(SUM(a.correct_attempts), 0)",
		"COALESCE(SUM(CASE WHEN a.attempts >= ? AND a.accuracy >= ? THEN 1 ELSE 0 END), 0)",
		"COALESCE(SUM(CASE WHEN a.attempts >= ? AND a.accuracy < ? THEN 1 ELSE 0 END), 0)",
	).
		From("characters c").
		LeftJoin("accuracy_records a ON a.character_id = c.id AND a.user_id = ?", userID)
	if kanaType != "" {
		query = query.Where(squirrel.Eq{"c.kana_type": kanaType})
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build summary query: %v", err)
		return nil, err
	}
	// The CASE placeholders precede the join argument in squirrel's ordering.
	args = append([]any{minRatedAttempts, masteredAccuracy, minRatedAttempts, strugglingAccuracy}, args...)

	var s models.SummaryStat
	err = r.db.QueryRowContext(ctx, sqlStr, args...).Scan(
		&s.CharactersSeen, &s.CharactersTotal, &s.TotalAttempts, &s.TotalCorrect,
		&s.CharactersMastered, &s.CharactersStruggling,
	)
	if err != nil {
		log.Error("failed to query summary stats: %v", err)
		return nil, err
	}
	if s.TotalAttempts > 0 {
		s.OverallAccuracy = float64(s.TotalCorrect) / float64(s.TotalAttempts)
	}
	return &s, nil
}
