package mocks

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"attachapi/internal/apperr"
	"attachapi/internal/storage"
)

type location struct {
	rt storage.ResourceType
	at storage.AccessType
}

// MemoryStore is an in-memory storage.Client that files objects by resource and access
// type the way the remote store does. Optional hooks inject failures per call.
type MemoryStore struct {
	mu      sync.Mutex
	objects map[location]map[string]uint64
	clock   time.Time

	// ClassifyFunc overrides content sniffing for uploads.
	ClassifyFunc func(req storage.UploadRequest) storage.ResourceType
	// UploadFunc may return an error to fail an upload before anything is stored.
	UploadFunc func(req storage.UploadRequest) error
	// DestroyOneFunc may return an error for a single-delete attempt.
	DestroyOneFunc func(key string, rt storage.ResourceType) error
	// DeclineManyFunc makes the bulk delete silently skip a key.
	DeclineManyFunc func(key string, rt storage.ResourceType) bool
	// PrefixFunc may return an error for a prefix-delete attempt.
	PrefixFunc func(prefix string, rt storage.ResourceType, at storage.AccessType) error

	Uploads          int
	DestroyOneCalls  int
	DestroyManyCalls int
	PrefixCalls      int
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		objects: make(map[location]map[string]uint64),
		clock:   time.UnixMilli(1_700_000_000_000),
	}
}

// Put seeds an object directly.
func (s *MemoryStore) Put(key string, rt storage.ResourceType, at storage.AccessType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(location{rt, at}, key, 1)
}

func (s *MemoryStore) put(loc location, key string, size uint64) {
	if s.objects[loc] == nil {
		s.objects[loc] = make(map[string]uint64)
	}
	s.objects[loc][key] = size
}

// Has reports whether key exists under any resource or access type.
func (s *MemoryStore) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, objs := range s.objects {
		if _, ok := objs[key]; ok {
			return true
		}
	}
	return false
}

// Keys returns every stored key with the given prefix, sorted.
func (s *MemoryStore) Keys(prefix string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, objs := range s.objects {
		for k := range objs {
			if strings.HasPrefix(k, prefix) {
				out = append(out, k)
			}
		}
	}
	sort.Strings(out)
	return out
}

func (s *MemoryStore) Upload(_ context.Context, req storage.UploadRequest) (storage.StoredObject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Uploads++

	at := req.At
	if at.IsZero() {
		s.clock = s.clock.Add(time.Millisecond)
		at = s.clock
	}
	key, err := storage.BuildKey(req.Namespace, req.OwnerID, req.ParentID, at, req.OriginalName)
	if err != nil {
		return storage.StoredObject{}, apperr.Upload("storage.upload", "", err)
	}
	if s.UploadFunc != nil {
		if err := s.UploadFunc(req); err != nil {
			return storage.StoredObject{}, apperr.Upload("storage.upload", key, err)
		}
	}

	rt := storage.Classify(req.Body)
	if s.ClassifyFunc != nil {
		rt = s.ClassifyFunc(req)
	}
	size := uint64(len(req.Body))
	s.put(location{rt, storage.AccessPublic}, key, size)

	return storage.StoredObject{
		URL:          fmt.Sprintf("memory://%s/%s", rt, key),
		StorageKey:   key,
		Filename:     path.Base(key),
		SizeBytes:    size,
		MIMEType:     storage.MIMEFromExtension(req.OriginalName),
		ResourceType: rt,
	}, nil
}

func (s *MemoryStore) DestroyOne(_ context.Context, key string, rt storage.ResourceType) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.DestroyOneCalls++

	if s.DestroyOneFunc != nil {
		if err := s.DestroyOneFunc(key, rt); err != nil {
			return false, apperr.Store("storage.destroy_one", key, err)
		}
	}
	objs := s.objects[location{rt, storage.AccessPublic}]
	if _, ok := objs[key]; !ok {
		return false, nil
	}
	delete(objs, key)
	return true, nil
}

func (s *MemoryStore) DestroyMany(_ context.Context, keys []string, rt storage.ResourceType) (storage.DeletionReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.DestroyManyCalls++

	report := storage.DeletionReport{Failed: make(map[string]error)}
	objs := s.objects[location{rt, storage.AccessPublic}]
	for _, key := range keys {
		_, ok := objs[key]
		if !ok || (s.DeclineManyFunc != nil && s.DeclineManyFunc(key, rt)) {
			report.NotFound = append(report.NotFound, key)
			continue
		}
		delete(objs, key)
		report.Deleted = append(report.Deleted, key)
	}
	return report, nil
}

func (s *MemoryStore) DestroyByPrefix(_ context.Context, prefix string, rt storage.ResourceType, at storage.AccessType) (storage.DeletionReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.PrefixCalls++

	report := storage.DeletionReport{Failed: make(map[string]error)}
	if s.PrefixFunc != nil {
		if err := s.PrefixFunc(prefix, rt, at); err != nil {
			return report, apperr.Store("storage.destroy_by_prefix", prefix, err)
		}
	}
	objs := s.objects[location{rt, at}]
	for key := range objs {
		if strings.HasPrefix(key, prefix) {
			delete(objs, key)
			report.Deleted = append(report.Deleted, key)
		}
	}
	sort.Strings(report.Deleted)
	return report, nil
}

var _ storage.Client = (*MemoryStore)(nil)
