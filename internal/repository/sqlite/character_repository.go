package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"

	"github.com/hinata/kanaflash/internal/logger"
	"github.com/hinata/kanaflash/internal/models"
	"github.com/hinata/kanaflash/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

type characterRepository struct {
	db *sql.DB
}

// NewCharacterRepository creates a new CharacterRepository implementation
func NewCharacterRepository(db *sql.DB) repository.CharacterRepository {
	return &characterRepository{db: db}
}

func (r *characterRepository) FetchCatalog(ctx context.Context, kanaType models.KanaType) ([]models.Character, error) {
	log := logger.FromContext(ctx).WithPrefix("character_repo")
	log.Debug("fetching catalog: kana_type=%s", kanaType)

	query := sqlBuilder.Select("id", "kana_type", "glyph", "romaji", "sort_order").
		From("characters").
		OrderBy("sort_order", "id")
	if kanaType != "" {
		query = query.Where(squirrel.Eq{"kana_type": kanaType})
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build catalog query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to query catalog: %v", err)
		return nil, err
	}
	defer rows.Close()

	var chars []models.Character
	for rows.Next() {
		var c models.Character
		if err := rows.Scan(&c.ID, &c.KanaType, &c.Glyph, &c.Romaji, &c.SortOrder); err != nil {
			log.Error("failed to scan character row: %v", err)
			return nil, err
		}
		chars = append(chars, c)
	}
	log.Debug("catalog loaded: %d characters", len(chars))
	return chars, rows.Err()
}

func (r *characterRepository) Get(ctx context.Context, id int64) (*models.Character, error) {
	log := logger.FromContext(ctx).WithPrefix("character_repo")
	log.Debug("getting character: id=%d", id)

	var c models.Character
	err := r.db.QueryRowContext(ctx, `
SELECT id, kana_type, glyph, romaji, sort_order
FROM characters
WHERE id = ?
`, id).Scan(&c.ID, &c.KanaType, &c.Glyph, &c.Romaji, &c.SortOrder)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("character not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get character: %v", err)
		return nil, err
	}
	return &c, nil
}
