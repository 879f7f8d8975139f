package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/hinata/kanaflash/internal/models"
)

// MockStatsRepository is a mock implementation of repository.StatsRepository
type MockStatsRepository struct {
	mock.Mock
}

func (m *MockStatsRepository) CharacterStats(ctx context.Context, userID string, kanaType models.KanaType) ([]models.CharacterStat, error) {
	args := m.Called(ctx, userID, kanaType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CharacterStat), args.Error(1)
}

func (m *MockStatsRepository) Summary(ctx context.Context, userID string, kanaType models.KanaType) (*models.SummaryStat, error) {
	args := m.Called(ctx, userID, kanaType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SummaryStat), args.Error(1)
}
