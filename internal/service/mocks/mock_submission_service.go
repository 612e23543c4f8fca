package mocks

import (
	"context"

	"attachapi/internal/deletion"
	"attachapi/internal/model"
	"attachapi/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockSubmissionService struct {
	mock.Mock
}

func (m *MockSubmissionService) Kind() model.ParentKind {
	args := m.Called()
	return args.Get(0).(model.ParentKind)
}

func (m *MockSubmissionService) Submit(ctx context.Context, in service.SubmitInput) (*model.ParentRecord, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ParentRecord), args.Error(1)
}

func (m *MockSubmissionService) Get(ctx context.Context, id string) (*model.ParentRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ParentRecord), args.Error(1)
}

func (m *MockSubmissionService) List(ctx context.Context, limit, offset int) (*service.ParentListResult, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ParentListResult), args.Error(1)
}

func (m *MockSubmissionService) Delete(ctx context.Context, id string) (*deletion.BatchReport, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*deletion.BatchReport), args.Error(1)
}

func (m *MockSubmissionService) ReplaceAttachments(ctx context.Context, id string, in service.ReplaceInput) (*model.ParentRecord, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ParentRecord), args.Error(1)
}

var _ service.SubmissionService = (*MockSubmissionService)(nil)
