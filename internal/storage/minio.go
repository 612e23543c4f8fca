package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"attachapi/internal/apperr"
	"attachapi/internal/config"
)

// objectAPI is the part of *minio.Client the store uses after construction.
type objectAPI interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
	RemoveObjects(ctx context.Context, bucketName string, objectsCh <-chan minio.ObjectInfo, opts minio.RemoveObjectsOptions) <-chan minio.RemoveObjectError
	ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
}

var _ objectAPI = (*minio.Client)(nil)

// minioStore implements Client on an S3-compatible backend (MinIO, AWS S3, etc.).
// Each resource type maps to its own bucket and each access type to a top-level
// path segment inside it. It is safe for concurrent use by multiple goroutines.
type minioStore struct {
	client    objectAPI
	buckets   map[ResourceType]string
	publicURL string
	timeout   time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

// NewMinIO creates a store client backed by MinIO.
// It validates connectivity and ensures one bucket per resource type exists.
func NewMinIO(cfg config.StoreConfig, logger *zap.Logger) (Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("store endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("store credentials are required")
	}
	if cfg.BucketPrefix == "" {
		return nil, fmt.Errorf("store bucket prefix is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:     credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:    cfg.UseSSL,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	publicURL := cfg.PublicURL
	if publicURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		publicURL = scheme + "://" + cfg.Endpoint
	}

	ms := &minioStore{
		client:    cli,
		buckets:   make(map[ResourceType]string, len(ResourceTypes)),
		publicURL: strings.TrimSuffix(publicURL, "/"),
		timeout:   cfg.Timeout(),
		logger:    logger,
		now:       time.Now,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, rt := range ResourceTypes {
		bucket := cfg.BucketPrefix + "-" + rt.String()
		ms.buckets[rt] = bucket

		exists, err := cli.BucketExists(ctx, bucket)
		if err != nil {
			return nil, fmt.Errorf("check bucket %s existence: %w", bucket, err)
		}
		if !exists {
			if err := cli.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
				return nil, fmt.Errorf("create bucket %s: %w", bucket, err)
			}
			logger.Info("created store bucket", zap.String("bucket", bucket))
		}
	}

	return ms, nil
}

func (m *minioStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if m.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, m.timeout)
}

// Upload streams the body from memory; nothing touches local disk.
func (m *minioStore) Upload(ctx context.Context, req UploadRequest) (StoredObject, error) {
	at := req.At
	if at.IsZero() {
		at = m.now()
	}
	key, err := BuildKey(req.Namespace, req.OwnerID, req.ParentID, at, req.OriginalName)
	if err != nil {
		return StoredObject{}, apperr.Upload("storage.upload", "", err)
	}

	rt := Classify(req.Body)
	mimeType := MIMEFromExtension(req.OriginalName)

	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	info, err := m.client.PutObject(ctx, m.buckets[rt], AccessPublic.objectName(key), bytes.NewReader(req.Body), int64(len(req.Body)), minio.PutObjectOptions{
		ContentType: mimeType,
		UserMetadata: map[string]string{
			"original-filename": url.QueryEscape(req.OriginalName),
			"declared-type":     url.QueryEscape(req.DeclaredMIME),
			"owner-id":          req.OwnerID,
			"parent-id":         req.ParentID,
			"sequence":          strconv.Itoa(req.Sequence),
		},
	})
	if err != nil {
		return StoredObject{}, apperr.Upload("storage.upload", key, err)
	}

	return StoredObject{
		URL:          m.objectURL(rt, AccessPublic, key),
		StorageKey:   key,
		Filename:     path.Base(key),
		SizeBytes:    uint64(info.Size),
		MIMEType:     mimeType,
		ResourceType: rt,
	}, nil
}

func (m *minioStore) DestroyOne(ctx context.Context, key string, rt ResourceType) (bool, error) {
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	bucket, obj := m.buckets[rt], AccessPublic.objectName(key)
	if _, err := m.client.StatObject(ctx, bucket, obj, minio.StatObjectOptions{}); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, apperr.Store("storage.destroy_one", key, err)
	}
	if err := m.client.RemoveObject(ctx, bucket, obj, minio.RemoveObjectOptions{}); err != nil {
		return false, apperr.Store("storage.destroy_one", key, err)
	}
	return true, nil
}

// DestroyMany stats each key first because S3 deletes of missing keys succeed silently,
// and callers need to know what was actually removed.
func (m *minioStore) DestroyMany(ctx context.Context, keys []string, rt ResourceType) (DeletionReport, error) {
	report := DeletionReport{Failed: make(map[string]error)}
	if len(keys) == 0 {
		return report, nil
	}

	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	bucket := m.buckets[rt]
	objectsCh := make(chan minio.ObjectInfo, len(keys))
	pending := make([]string, 0, len(keys))
	for _, key := range keys {
		obj := AccessPublic.objectName(key)
		if _, err := m.client.StatObject(ctx, bucket, obj, minio.StatObjectOptions{}); err != nil {
			if isNotFound(err) {
				report.NotFound = append(report.NotFound, key)
			} else {
				report.Failed[key] = err
			}
			continue
		}
		objectsCh <- minio.ObjectInfo{Key: obj}
		pending = append(pending, key)
	}
	close(objectsCh)

	m.removeAll(ctx, bucket, AccessPublic, objectsCh, pending, &report)

	if len(report.Failed) == len(keys) {
		return report, apperr.Store("storage.destroy_many", "", fmt.Errorf("all %d deletions failed in %s", len(keys), bucket))
	}
	return report, nil
}

func (m *minioStore) DestroyByPrefix(ctx context.Context, prefix string, rt ResourceType, at AccessType) (DeletionReport, error) {
	report := DeletionReport{Failed: make(map[string]error)}
	if strings.TrimSpace(prefix) == "" {
		return report, apperr.Store("storage.destroy_by_prefix", "", fmt.Errorf("empty prefix"))
	}

	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	bucket := m.buckets[rt]
	var listed []string
	for obj := range m.client.ListObjects(ctx, bucket, minio.ListObjectsOptions{
		Prefix:    at.objectName(prefix),
		Recursive: true,
	}) {
		if obj.Err != nil {
			return report, apperr.Store("storage.destroy_by_prefix", prefix, obj.Err)
		}
		listed = append(listed, strings.TrimPrefix(obj.Key, at.String()+"/"))
	}
	if len(listed) == 0 {
		return report, nil
	}

	objectsCh := make(chan minio.ObjectInfo, len(listed))
	for _, key := range listed {
		objectsCh <- minio.ObjectInfo{Key: at.objectName(key)}
	}
	close(objectsCh)

	m.removeAll(ctx, bucket, at, objectsCh, listed, &report)
	return report, nil
}

// removeAll drains RemoveObjects and sorts pending keys into Deleted or Failed.
func (m *minioStore) removeAll(ctx context.Context, bucket string, at AccessType, objectsCh <-chan minio.ObjectInfo, pending []string, report *DeletionReport) {
	for rerr := range m.client.RemoveObjects(ctx, bucket, objectsCh, minio.RemoveObjectsOptions{}) {
		if rerr.Err != nil {
			key := strings.TrimPrefix(rerr.ObjectName, at.String()+"/")
			report.Failed[key] = rerr.Err
			m.logger.Warn("store bulk delete failed for object",
				zap.String("bucket", bucket),
				zap.String("storage_key", key),
				zap.Error(rerr.Err),
			)
		}
	}
	for _, key := range pending {
		if _, failed := report.Failed[key]; !failed {
			report.Deleted = append(report.Deleted, key)
		}
	}
}

func (m *minioStore) objectURL(rt ResourceType, at AccessType, key string) string {
	return m.publicURL + "/" + m.buckets[rt] + "/" + at.objectName(key)
}

func isNotFound(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound
}
