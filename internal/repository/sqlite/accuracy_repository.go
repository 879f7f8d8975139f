package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/hinata/kanaflash/internal/logger"
	"github.com/hinata/kanaflash/internal/models"
	"github.com/hinata/kanaflash/internal/repository"
)

type accuracyRepository struct {
	db *sql.DB
}

// NewAccuracyRepository creates a new AccuracyRepository implementation
func NewAccuracyRepository(db *sql.DB) repository.AccuracyRepository {
	return &accuracyRepository{db: db}
}

func (r *accuracyRepository) FetchAccuracy(ctx context.Context, userID string, characterIDs []int64) (map[int64]models.AccuracyRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("accuracy_repo")
	log.Debug("fetching accuracy: user_id=%s, characters=%d", userID, len(characterIDs))

	records := make(map[int64]models.AccuracyRecord, len(characterIDs))
	if len(characterIDs) == 0 {
		return records, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(characterIDs)), ",")
	args := make([]any, 0, len(characterIDs)+1)
	args = append(args, userID)
	for _, id := range characterIDs {
		args = append(args, id)
	}

	// Stored values are returned verbatim; no repair of inconsistent triples.
	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, character_id, attempts, correct_attempts, accuracy, updated_at
FROM accuracy_records
WHERE user_id = ? AND character_id IN (`+placeholders+`)
`, args...)
	if err != nil {
		log.Error("failed to query accuracy records: %v", err)
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var rec models.AccuracyRecord
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.CharacterID, &rec.Attempts, &rec.CorrectAttempts, &rec.Accuracy, &rec.UpdatedAt); err != nil {
			log.Error("failed to scan accuracy row: %v", err)
			return nil, err
		}
		records[rec.CharacterID] = rec
	}
	log.Debug("found %d accuracy records", len(records))
	return records, rows.Err()
}

func (r *accuracyRepository) Upsert(ctx context.Context, userID string, characterID int64, correct bool) (models.AccuracyRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("accuracy_repo")
	log.Debug("upserting accuracy: user_id=%s, character_id=%d, correct=%t", userID, characterID, correct)

	inc := 0
	if correct {
		inc = 1
	}

	// Single statement so concurrent submissions for the same pair never
	// lose an increment.
	var rec models.AccuracyRecord
	err := r.db.QueryRowContext(ctx, `
INSERT INTO accuracy_records (user_id, character_id, attempts, correct_attempts, accuracy)
VALUES (?, ?, 1, ?, ?)
ON CONFLICT (user_id, character_id) DO UPDATE SET
    attempts = accuracy_records.attempts + 1,
    correct_attempts = accuracy_records.correct_attempts + excluded.correct_attempts,
    accuracy = CAST(accuracy_records.correct_attempts + excluded.correct_attempts AS REAL) / (accuracy_records.attempts + 1),
    updated_at = CURRENT_TIMESTAMP
RETURNING id, user_id, character_id, attempts, correct_attempts, accuracy, updated_at
`, userID, characterID, inc, float64(inc)).
		Scan(&rec.ID, &rec.UserID, &rec.CharacterID, &rec.Attempts, &rec.CorrectAttempts, &rec.Accuracy, &rec.UpdatedAt)
	if err != nil {
		log.Error("failed to upsert accuracy record: %v", err)
		return models.AccuracyRecord{}, err
	}
	log.Debug("accuracy updated: attempts=%d, correct=%d", rec.Attempts, rec.CorrectAttempts)
	return rec, nil
}
