package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/hinata/kanaflash/internal/models"
)

// MockCharacterRepository is a mock implementation of repository.CharacterRepository
type MockCharacterRepository struct {
	mock.Mock
}

func (m *MockCharacterRepository) FetchCatalog(ctx context.Context, kanaType models.KanaType) ([]models.Character, error) {
	args := m.Called(ctx, kanaType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Character), args.Error(1)
}

func (m *MockCharacterRepository) Get(ctx context.Context, id int64) (*models.Character, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Character), args.Error(1)
}
