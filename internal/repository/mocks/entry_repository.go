package mocks

import (
	"context"

	"github.com/honeynil/FinanceService/internal/models"
	"github.com/stretchr/testify/mock"
)

type MockEntryRepository struct {
	mock.Mock
}

func (m *MockEntryRepository) Insert(ctx context.Context, entry *models.Entry) (*models.Entry, error) {
	args := m.Called(ctx, entry)
	stored, _ := args.Get(0).(*models.Entry)
	return stored, args.Error(1)
}

func (m *MockEntryRepository) Overwrite(ctx context.Context, entry *models.Entry) (*models.Entry, error) {
	args := m.Called(ctx, entry)
	stored, _ := args.Get(0).(*models.Entry)
	return stored, args.Error(1)
}

func (m *MockEntryRepository) Remove(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockEntryRepository) FindByID(ctx context.Context, id int64) (*models.Entry, error) {
	args := m.Called(ctx, id)
	entry, _ := args.Get(0).(*models.Entry)
	return entry, args.Error(1)
}

func (m *MockEntryRepository) FindByFilter(ctx context.Context, filter models.EntryFilter) ([]models.Entry, error) {
	args := m.Called(ctx, filter)
	entries, _ := args.Get(0).([]models.Entry)
	return entries, args.Error(1)
}
