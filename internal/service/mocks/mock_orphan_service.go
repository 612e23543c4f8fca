package mocks

import (
	"context"

	"attachapi/internal/model"
	"attachapi/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockOrphanService struct {
	mock.Mock
}

func (m *MockOrphanService) List(ctx context.Context, limit int) ([]model.OrphanedObject, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.OrphanedObject), args.Error(1)
}

func (m *MockOrphanService) Reconcile(ctx context.Context, limit int) (*service.ReconcileResult, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ReconcileResult), args.Error(1)
}

var _ service.OrphanService = (*MockOrphanService)(nil)
