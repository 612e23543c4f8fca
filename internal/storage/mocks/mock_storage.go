package mocks

import (
	"context"

	"attachapi/internal/storage"

	"github.com/stretchr/testify/mock"
)

type MockClient struct {
	mock.Mock
}

func (m *MockClient) Upload(ctx context.Context, req storage.UploadRequest) (storage.StoredObject, error) {
	args := m.Called(ctx, req)
	if f, ok := args.Get(0).(func(context.Context, storage.UploadRequest) storage.StoredObject); ok {
		return f(ctx, req), args.Error(1)
	}
	return args.Get(0).(storage.StoredObject), args.Error(1)
}

func (m *MockClient) DestroyOne(ctx context.Context, key string, rt storage.ResourceType) (bool, error) {
	args := m.Called(ctx, key, rt)
	return args.Bool(0), args.Error(1)
}

func (m *MockClient) DestroyMany(ctx context.Context, keys []string, rt storage.ResourceType) (storage.DeletionReport, error) {
	args := m.Called(ctx, keys, rt)
	return args.Get(0).(storage.DeletionReport), args.Error(1)
}

func (m *MockClient) DestroyByPrefix(ctx context.Context, prefix string, rt storage.ResourceType, at storage.AccessType) (storage.DeletionReport, error) {
	args := m.Called(ctx, prefix, rt, at)
	return args.Get(0).(storage.DeletionReport), args.Error(1)
}

var _ storage.Client = (*MockClient)(nil)
