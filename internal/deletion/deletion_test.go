package deletion

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"attachapi/internal/apperr"
	"attachapi/internal/storage"
	storeMocks "attachapi/internal/storage/mocks"
)

func TestDefaultStrategies(t *testing.T) {
	s := DefaultStrategies()

	require.Len(t, s, 16)
	assert.Equal(t, "destroy:image", s[0].String())
	assert.Equal(t, "destroy:raw", s[1].String())
	assert.Equal(t, "destroy:video", s[2].String())
	assert.Equal(t, "destroy:generic", s[3].String())
	assert.Equal(t, "prefix:image/upload", s[4].String())
	assert.Equal(t, "prefix:image/private", s[5].String())
	assert.Equal(t, "prefix:generic/authenticated", s[15].String())
}

func TestDeleter_Delete(t *testing.T) {
	ctx := context.Background()
	const key = "reviews/u1/p1/1700000000000_a.pdf"

	tests := []struct {
		name         string
		setup        func(s *storeMocks.MemoryStore)
		wantOK       bool
		wantAbsent   bool
		wantStrategy string
	}{
		{
			name:         "category match on first try",
			setup:        func(s *storeMocks.MemoryStore) { s.Put(key, storage.ResourceImage, storage.AccessPublic) },
			wantOK:       true,
			wantStrategy: "destroy:image",
		},
		{
			name:         "category mismatch falls through to raw",
			setup:        func(s *storeMocks.MemoryStore) { s.Put(key, storage.ResourceRaw, storage.AccessPublic) },
			wantOK:       true,
			wantStrategy: "destroy:raw",
		},
		{
			name:         "restricted object needs prefix escalation",
			setup:        func(s *storeMocks.MemoryStore) { s.Put(key, storage.ResourceVideo, storage.AccessRestricted) },
			wantOK:       true,
			wantStrategy: "prefix:video/private",
		},
		{
			name:       "missing everywhere is a no-op success",
			setup:      func(s *storeMocks.MemoryStore) {},
			wantOK:     true,
			wantAbsent: true,
		},
		{
			name: "store errors everywhere fail the outcome",
			setup: func(s *storeMocks.MemoryStore) {
				s.Put(key, storage.ResourceGeneric, storage.AccessAuthenticated)
				s.DestroyOneFunc = func(string, storage.ResourceType) error { return errors.New("503") }
				s.PrefixFunc = func(string, storage.ResourceType, storage.AccessType) error { return errors.New("503") }
			},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := storeMocks.NewMemoryStore()
			tt.setup(store)
			d := NewDeleter(store, nil)

			out := d.Delete(ctx, key)

			assert.Equal(t, key, out.StorageKey)
			assert.Equal(t, tt.wantOK, out.Succeeded)
			assert.Equal(t, tt.wantAbsent, out.AlreadyAbsent)
			if tt.wantStrategy != "" {
				assert.Equal(t, tt.wantStrategy, out.Strategy.String())
			}
			if tt.wantOK {
				assert.NoError(t, out.Err)
				assert.False(t, store.Has(key))
			} else {
				assert.Equal(t, apperr.KindStore, apperr.KindOf(out.Err))
				assert.True(t, store.Has(key))
				assert.Equal(t, 4, store.DestroyOneCalls)
				assert.Equal(t, 12, store.PrefixCalls)
			}
		})
	}
}

func TestDeleter_ExhaustiveFallback(t *testing.T) {
	ctx := context.Background()
	const key = "applications/u1/p1/1700000000000_cv.docx"
	strategies := DefaultStrategies()

	// Every strategy but the last errors out; the last one finds the object.
	store := storeMocks.NewMemoryStore()
	store.Put(key, storage.ResourceGeneric, storage.AccessAuthenticated)
	store.DestroyOneFunc = func(string, storage.ResourceType) error { return errors.New("timeout") }
	store.PrefixFunc = func(_ string, rt storage.ResourceType, at storage.AccessType) error {
		if rt == storage.ResourceGeneric && at == storage.AccessAuthenticated {
			return nil
		}
		return errors.New("rate limited")
	}

	out := NewDeleter(store, nil).Delete(ctx, key)

	assert.True(t, out.Succeeded)
	assert.Equal(t, strategies[len(strategies)-1], out.Strategy)
	assert.False(t, store.Has(key))
}

func TestDeleter_Idempotent(t *testing.T) {
	ctx := context.Background()
	const key = "reviews/u1/p1/1700000000000_a.png"

	store := storeMocks.NewMemoryStore()
	store.Put(key, storage.ResourceImage, storage.AccessPublic)
	d := NewDeleter(store, nil)

	first := d.Delete(ctx, key)
	second := d.Delete(ctx, key)

	assert.True(t, first.Succeeded)
	assert.False(t, first.AlreadyAbsent)
	assert.True(t, second.Succeeded)
	assert.True(t, second.AlreadyAbsent)
	assert.NoError(t, second.Err)
	assert.Equal(t, StrategyNone, second.Strategy.Kind)
}

func TestDeleter_StopsAtFirstSuccess(t *testing.T) {
	ctx := context.Background()
	mStore := new(storeMocks.MockClient)

	mStore.On("DestroyOne", ctx, "k", storage.ResourceImage).Return(false, nil).Once()
	mStore.On("DestroyOne", ctx, "k", storage.ResourceRaw).Return(true, nil).Once()

	out := NewDeleter(mStore, nil).Delete(ctx, "k")

	assert.True(t, out.Succeeded)
	assert.Equal(t, Strategy{Kind: StrategyDestroy, Resource: storage.ResourceRaw}, out.Strategy)
	mStore.AssertExpectations(t)
	mStore.AssertNotCalled(t, "DestroyOne", ctx, "k", storage.ResourceVideo)
	mStore.AssertNotCalled(t, "DestroyByPrefix", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleter_PrefixReportMustContainKey(t *testing.T) {
	ctx := context.Background()
	mStore := new(storeMocks.MockClient)
	only := Strategy{Kind: StrategyPrefix, Resource: storage.ResourceRaw, Access: storage.AccessPublic}

	mStore.On("DestroyByPrefix", ctx, "k", storage.ResourceRaw, storage.AccessPublic).
		Return(storage.DeletionReport{Deleted: []string{"k-other"}}, nil).Once()

	out := NewDeleter(mStore, nil, WithStrategies([]Strategy{only})).Delete(ctx, "k")

	assert.True(t, out.AlreadyAbsent)
	mStore.AssertExpectations(t)
}

func TestCoordinator_DeleteAll_PartialFailure(t *testing.T) {
	ctx := context.Background()
	keys := []string{"ns/o/p/1_a.png", "ns/o/p/2_b.png", "ns/o/p/3_c.png", "ns/o/p/4_d.pdf", "ns/o/p/5_e.bin"}

	store := storeMocks.NewMemoryStore()
	for _, k := range keys[:3] {
		store.Put(k, storage.ResourceImage, storage.AccessPublic)
	}
	// Reachable only through escalation: the bulk API declines it.
	store.Put(keys[3], storage.ResourceRaw, storage.AccessPublic)
	store.DeclineManyFunc = func(key string, _ storage.ResourceType) bool { return key == keys[3] }
	// Never deletable.
	store.Put(keys[4], storage.ResourceGeneric, storage.AccessRestricted)
	store.DestroyOneFunc = func(key string, _ storage.ResourceType) error {
		if key == keys[4] {
			return errors.New("forbidden")
		}
		return nil
	}
	store.PrefixFunc = func(prefix string, _ storage.ResourceType, _ storage.AccessType) error {
		if prefix == keys[4] {
			return errors.New("forbidden")
		}
		return nil
	}

	c := NewCoordinator(store, NewDeleter(store, nil), nil, nil)
	report := c.DeleteAll(ctx, keys)

	assert.Len(t, report.Deleted, 4)
	assert.ElementsMatch(t, keys[:4], report.Deleted)
	assert.Equal(t, []string{keys[4]}, report.Failed)
	assert.Error(t, report.Errors[keys[4]])
	assert.Equal(t, apperr.KindPartialDeletion, apperr.KindOf(report.Err()))
	assert.Equal(t, len(storage.ResourceTypes), store.DestroyManyCalls)
}

func TestCoordinator_DeleteAll_BulkPassesShrink(t *testing.T) {
	ctx := context.Background()
	mStore := new(storeMocks.MockClient)

	mStore.On("DestroyMany", ctx, []string{"a", "b", "c"}, storage.ResourceImage).
		Return(storage.DeletionReport{Deleted: []string{"a"}, NotFound: []string{"b", "c"}}, nil).Once()
	mStore.On("DestroyMany", ctx, []string{"b", "c"}, storage.ResourceRaw).
		Return(storage.DeletionReport{}, apperr.Store("storage.destroy_many", "", errors.New("throttled"))).Once()
	mStore.On("DestroyMany", ctx, []string{"b", "c"}, storage.ResourceVideo).
		Return(storage.DeletionReport{Deleted: []string{"b", "c"}}, nil).Once()

	c := NewCoordinator(mStore, NewDeleter(mStore, nil), nil, nil)
	report := c.DeleteAll(ctx, []string{"a", "b", "", "a", "c"})

	assert.Equal(t, []string{"a", "b", "c"}, report.Deleted)
	assert.Empty(t, report.Failed)
	assert.NoError(t, report.Err())
	mStore.AssertExpectations(t)
	mStore.AssertNotCalled(t, "DestroyMany", ctx, mock.Anything, storage.ResourceGeneric)
	mStore.AssertNotCalled(t, "DestroyOne", mock.Anything, mock.Anything, mock.Anything)
}

func TestCoordinator_DeleteAll_Empty(t *testing.T) {
	mStore := new(storeMocks.MockClient)
	report := NewCoordinator(mStore, NewDeleter(mStore, nil), nil, nil).DeleteAll(context.Background(), nil)

	assert.Empty(t, report.Deleted)
	assert.Empty(t, report.Failed)
	mStore.AssertNotCalled(t, "DestroyMany", mock.Anything, mock.Anything, mock.Anything)
}
