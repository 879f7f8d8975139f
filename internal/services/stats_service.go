package services

import (
	"context"

	apperrors "github.com/hinata/kanaflash/internal/errors"
	"github.com/hinata/kanaflash/internal/logger"
	"github.com/hinata/kanaflash/internal/models"
	"github.com/hinata/kanaflash/internal/repository"
)

// Dashboard is the progress view for one learner: summary aggregates plus
// one row per character.
type Dashboard struct {
	Summary    *models.SummaryStat    `json:"summary"`
	Characters []models.CharacterStat `json:"characters"`
}

// StatsService handles the progress dashboard
type StatsService interface {
	Dashboard(ctx context.Context, userID string, kanaType models.KanaType) (*Dashboard, error)
}

type statsService struct {
	stats repository.StatsRepository
}

// NewStatsService creates a new StatsService
func NewStatsService(stats repository.StatsRepository) StatsService {
	return &statsService{stats: stats}
}

func (s *statsService) Dashboard(ctx context.Context, userID string, kanaType models.KanaType) (*Dashboard, error) {
	log := logger.FromContext(ctx)
	log.Debug("building dashboard: user_id=%s, kana_type=%s", userID, kanaType)

	if userID == "" {
		return nil, apperrors.NewUnauthenticatedError("")
	}
	if kanaType != "" && !kanaType.Valid() {
		return nil, apperrors.NewValidationError("kana_type", "must be hiragana or katakana")
	}

	summary, err := s.stats.Summary(ctx, userID, kanaType)
	if err != nil {
		log.Error("failed to load summary stats: %v", err)
		return nil, apperrors.NewInternalError(err)
	}

	characters, err := s.stats.CharacterStats(ctx, userID, kanaType)
	if err != nil {
		log.Error("failed to load character stats: %v", err)
		return nil, apperrors.NewInternalError(err)
	}

	return &Dashboard{Summary: summary, Characters: characters}, nil
}
