package mocks

import (
	"context"

	"attachapi/internal/model"
	"attachapi/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockParentRepository struct {
	mock.Mock
}

func (m *MockParentRepository) Create(ctx context.Context, rec *model.ParentRecord) (*model.ParentRecord, error) {
	args := m.Called(ctx, rec)
	if f, ok := args.Get(0).(func(context.Context, *model.ParentRecord) *model.ParentRecord); ok {
		return f(ctx, rec), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ParentRecord), args.Error(1)
}

func (m *MockParentRepository) FindByID(ctx context.Context, id string) (*model.ParentRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ParentRecord), args.Error(1)
}

func (m *MockParentRepository) List(ctx context.Context, kind model.ParentKind, pq repository.PageQuery) (*repository.PageResult[model.ParentRecord], error) {
	args := m.Called(ctx, kind, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.ParentRecord]), args.Error(1)
}

func (m *MockParentRepository) UpdateAttachments(ctx context.Context, id string, atts []model.Attachment, status model.Status) (*model.ParentRecord, error) {
	args := m.Called(ctx, id, atts, status)
	if f, ok := args.Get(0).(func(context.Context, string, []model.Attachment, model.Status) *model.ParentRecord); ok {
		return f(ctx, id, atts, status), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ParentRecord), args.Error(1)
}

func (m *MockParentRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var _ repository.ParentRepository = (*MockParentRepository)(nil)
