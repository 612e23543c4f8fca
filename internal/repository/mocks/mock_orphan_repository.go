package mocks

import (
	"context"

	"attachapi/internal/model"
	"attachapi/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockOrphanRepository struct {
	mock.Mock
}

func (m *MockOrphanRepository) Record(ctx context.Context, o model.OrphanedObject) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrphanRepository) List(ctx context.Context, limit int) ([]model.OrphanedObject, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.OrphanedObject), args.Error(1)
}

func (m *MockOrphanRepository) Delete(ctx context.Context, storageKey string) error {
	args := m.Called(ctx, storageKey)
	return args.Error(0)
}

var _ repository.OrphanRepository = (*MockOrphanRepository)(nil)
