package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/hinata/kanaflash/internal/models"
)

// MockAccuracyRepository is a mock implementation of repository.AccuracyRepository
type MockAccuracyRepository struct {
	mock.Mock
}

func (m *MockAccuracyRepository) FetchAccuracy(ctx context.Context, userID string, characterIDs []int64) (map[int64]models.AccuracyRecord, error) {
	args := m.Called(ctx, userID, characterIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]models.AccuracyRecord), args.Error(1)
}

func (m *MockAccuracyRepository) Upsert(ctx context.Context, userID string, characterID int64, correct bool) (models.AccuracyRecord, error) {
	args := m.Called(ctx, userID, characterID, correct)
	return args.Get(0).(models.AccuracyRecord), args.Error(1)
}
