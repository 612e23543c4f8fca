package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"attachapi/internal/apperr"
	"attachapi/internal/deletion"
	"attachapi/internal/metrics"
	"attachapi/internal/model"
	"attachapi/internal/policy"
	"attachapi/internal/repository"
	"attachapi/internal/storage"
)

var (
	ErrIDRequired    = errors.New("id is required")
	ErrNotFound      = errors.New("record not found")
	ErrOwnerRequired = errors.New("owner id is required")
	// ErrUnknownAttachment is returned when a keep-set names a key the record does not own.
	ErrUnknownAttachment = errors.New("keep references an attachment not on this record")
)

// Orphan reasons recorded in the dead-letter table.
const (
	ReasonRollback     = "rollback"
	ReasonDeleteParent = "delete_parent"
	ReasonSuperseded   = "superseded"
	ReasonReconcile    = "reconcile"
)

// FileInput is one submitted file, already read into memory.
type FileInput struct {
	Name string
	// MIMEType is the client-declared type. It is validated but never trusted for storage.
	MIMEType string
	Data     []byte
}

func (f FileInput) meta() policy.FileMeta {
	return policy.FileMeta{Name: f.Name, MIMEType: f.MIMEType, Size: int64(len(f.Data))}
}

// SubmitInput carries a new parent record and its files.
type SubmitInput struct {
	OwnerID string
	Fields  map[string]string
	Files   []FileInput
}

// ReplaceInput describes an attachment edit: Keep lists the storage keys that survive, Files are added.
type ReplaceInput struct {
	Keep  []string
	Files []FileInput
}

// ParentListResult is the service-level DTO for paginated parent records.
type ParentListResult struct {
	Items []model.ParentRecord `json:"data"`
	Total int                  `json:"total"`
}

// BatchDeleter removes a set of stored objects and reports per-key results.
type BatchDeleter interface {
	DeleteAll(ctx context.Context, keys []string) deletion.BatchReport
}

// SubmissionService drives the draft, upload, finalize-or-rollback lifecycle for one parent kind.
type SubmissionService interface {
	// Kind is the parent kind this service owns.
	Kind() model.ParentKind

	// Submit validates the files, creates a pending draft, uploads every file in order and
	// activates the record. Any upload failure rolls back all uploaded objects and the draft.
	// Store failures carry an apperr kind. A failure to create the draft happens before any
	// store call and is returned as the wrapped repository error, with no apperr kind.
	Submit(ctx context.Context, in SubmitInput) (*model.ParentRecord, error)

	// Get returns an active record by ID.
	Get(ctx context.Context, id string) (*model.ParentRecord, error)

	// List returns active records using limit/offset and a total count.
	List(ctx context.Context, limit, offset int) (*ParentListResult, error)

	// Delete removes a record and its stored objects. Objects that could not be deleted are
	// returned in the report and dead-lettered; they never block the record deletion.
	Delete(ctx context.Context, id string) (*deletion.BatchReport, error)

	// ReplaceAttachments uploads new files first, persists the new list, then deletes superseded objects.
	ReplaceAttachments(ctx context.Context, id string, in ReplaceInput) (*model.ParentRecord, error)
}

// Deps are the collaborators shared by every SubmissionService.
type Deps struct {
	Store   storage.Client
	Parents repository.ParentRepository
	Orphans repository.OrphanRepository
	Batch   BatchDeleter
	Logger  *zap.Logger
	Metrics *metrics.Metrics
}

type submissionService struct {
	kind    model.ParentKind
	policy  policy.Policy
	store   storage.Client
	parents repository.ParentRepository
	orphans repository.OrphanRepository
	batch   BatchDeleter
	logger  *zap.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
	now     func() time.Time
}

// NewSubmissionService constructs a SubmissionService for kind, enforcing pol on every submission.
func NewSubmissionService(kind model.ParentKind, pol policy.Policy, deps Deps) SubmissionService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &submissionService{
		kind:    kind,
		policy:  pol,
		store:   deps.Store,
		parents: deps.Parents,
		orphans: deps.Orphans,
		batch:   deps.Batch,
		logger:  logger.With(zap.String("parent_kind", string(kind))),
		metrics: deps.Metrics,
		tracer:  otel.Tracer("attachapi/service"),
		now:     time.Now,
	}
}

func (s *submissionService) Kind() model.ParentKind { return s.kind }

func (s *submissionService) Submit(ctx context.Context, in SubmitInput) (rec *model.ParentRecord, err error) {
	ctx, span := s.tracer.Start(ctx, "SubmissionService.Submit", trace.WithAttributes(
		attribute.String("parent.kind", string(s.kind)),
		attribute.Int("attachments.count", len(in.Files)),
	))
	defer func() { endSpan(span, err) }()

	if in.OwnerID == "" {
		return nil, apperr.Validation("service.submit", ErrOwnerRequired)
	}
	if err := policy.Validate(metas(in.Files), s.policy); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	draft, err := s.parents.Create(ctx, &model.ParentRecord{
		ID:          uuid.New().String(),
		Kind:        s.kind,
		OwnerID:     in.OwnerID,
		Status:      model.StatusPending,
		Fields:      in.Fields,
		Attachments: []model.Attachment{},
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, fmt.Errorf("create draft: %w", err)
	}
	span.SetAttributes(attribute.String("parent.id", draft.ID))

	clock := &keyClock{now: s.now}
	atts, err := s.uploadAll(ctx, draft, in.Files, clock)
	if err != nil {
		return nil, s.rollback(ctx, draft, model.StorageKeys(atts), err)
	}

	final, err := s.parents.UpdateAttachments(ctx, draft.ID, atts, model.StatusActive)
	if err != nil {
		return nil, s.rollback(ctx, draft, model.StorageKeys(atts), fmt.Errorf("finalize: %w", err))
	}

	s.logger.Info("submission finalized",
		zap.String("parent_id", final.ID),
		zap.Int("attachments", len(final.Attachments)),
	)
	return final, nil
}

// uploadAll uploads files strictly in order and stops at the first failure. The returned
// attachments are the ones the store accepted, also on error.
func (s *submissionService) uploadAll(ctx context.Context, rec *model.ParentRecord, files []FileInput, clock *keyClock) ([]model.Attachment, error) {
	ns := s.kind.Namespace()
	atts := make([]model.Attachment, 0, len(files))
	for i, f := range files {
		at := clock.next()
		obj, err := s.store.Upload(ctx, storage.UploadRequest{
			Namespace:    ns,
			OwnerID:      rec.OwnerID,
			ParentID:     rec.ID,
			OriginalName: f.Name,
			DeclaredMIME: f.MIMEType,
			Body:         f.Data,
			Sequence:     i,
			At:           at,
		})
		s.metrics.RecordUpload(ns, obj.SizeBytes, err)
		if err != nil {
			s.logger.Warn("attachment upload failed",
				zap.String("parent_id", rec.ID),
				zap.Int("sequence", i),
				zap.String("original_name", f.Name),
				zap.Error(err),
			)
			return atts, fmt.Errorf("upload %q: %w", f.Name, err)
		}
		atts = append(atts, model.Attachment{
			URL:          obj.URL,
			StorageKey:   obj.StorageKey,
			Filename:     obj.Filename,
			OriginalName: f.Name,
			MIMEType:     obj.MIMEType,
			SizeBytes:    obj.SizeBytes,
			UploadedAt:   at,
		})
	}
	return atts, nil
}

// rollback deletes every uploaded key and the draft, then returns cause as an upload error.
// A draft that cannot be deleted is joined into the returned error, since it stays pending.
// It runs on a context detached from cancellation so a dropped client cannot stop the cleanup.
func (s *submissionService) rollback(ctx context.Context, draft *model.ParentRecord, keys []string, cause error) error {
	ctx = context.WithoutCancel(ctx)

	report := s.batch.DeleteAll(ctx, keys)
	s.recordOrphans(ctx, draft.ID, report, ReasonRollback)

	if err := s.parents.Delete(ctx, draft.ID); err != nil {
		s.logger.Error("draft delete failed during rollback",
			zap.String("parent_id", draft.ID),
			zap.Error(err),
		)
		cause = errors.Join(cause, fmt.Errorf("delete draft %s: %w", draft.ID, err))
	}
	s.metrics.RecordRollback(s.kind.Namespace())

	s.logger.Warn("submission rolled back",
		zap.String("parent_id", draft.ID),
		zap.Int("uploaded", len(keys)),
		zap.Int("deleted", len(report.Deleted)),
		zap.Int("orphaned", len(report.Failed)),
		zap.Error(cause),
	)
	return apperr.Upload("service.submit", "", cause)
}

func (s *submissionService) Get(ctx context.Context, id string) (*model.ParentRecord, error) {
	rec, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.Status != model.StatusActive {
		return nil, ErrNotFound
	}
	return rec, nil
}

// find loads a record of this service's kind regardless of status.
func (s *submissionService) find(ctx context.Context, id string) (*model.ParentRecord, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	rec, err := s.parents.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if rec.Kind != s.kind {
		return nil, ErrNotFound
	}
	return rec, nil
}

// List returns paginated records without exposing repository types.
func (s *submissionService) List(ctx context.Context, limit, offset int) (*ParentListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.parents.List(ctx, s.kind, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &ParentListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *submissionService) Delete(ctx context.Context, id string) (report *deletion.BatchReport, err error) {
	ctx, span := s.tracer.Start(ctx, "SubmissionService.Delete", trace.WithAttributes(
		attribute.String("parent.kind", string(s.kind)),
		attribute.String("parent.id", id),
	))
	defer func() { endSpan(span, err) }()

	rec, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	res := s.batch.DeleteAll(ctx, model.StorageKeys(rec.Attachments))
	s.recordOrphans(ctx, rec.ID, res, ReasonDeleteParent)

	// The row goes even when some objects survived; they are dead-lettered above.
	if err := s.parents.Delete(ctx, rec.ID); err != nil {
		return nil, fmt.Errorf("delete record: %w", err)
	}

	s.logger.Info("record deleted",
		zap.String("parent_id", rec.ID),
		zap.Int("deleted", len(res.Deleted)),
		zap.Int("failed", len(res.Failed)),
	)
	return &res, nil
}

func (s *submissionService) ReplaceAttachments(ctx context.Context, id string, in ReplaceInput) (rec *model.ParentRecord, err error) {
	ctx, span := s.tracer.Start(ctx, "SubmissionService.ReplaceAttachments", trace.WithAttributes(
		attribute.String("parent.kind", string(s.kind)),
		attribute.String("parent.id", id),
		attribute.Int("attachments.new", len(in.Files)),
	))
	defer func() { endSpan(span, err) }()

	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	kept, superseded, err := splitKeep(current.Attachments, in.Keep)
	if err != nil {
		return nil, err
	}

	all := make([]policy.FileMeta, 0, len(kept)+len(in.Files))
	for _, a := range kept {
		all = append(all, policy.FileMeta{Name: a.OriginalName, MIMEType: a.MIMEType, Size: int64(a.SizeBytes)})
	}
	all = append(all, metas(in.Files)...)
	if err := policy.Validate(all, s.policy); err != nil {
		return nil, err
	}

	clock := &keyClock{now: s.now}
	for _, a := range current.Attachments {
		if a.UploadedAt.After(clock.last) {
			clock.last = a.UploadedAt
		}
	}

	added, err := s.uploadAll(ctx, current, in.Files, clock)
	if err != nil {
		return nil, s.discardReplacements(ctx, current.ID, added, err)
	}

	next := append(slices.Clip(kept), added...)
	updated, err := s.parents.UpdateAttachments(ctx, current.ID, next, current.Status)
	if err != nil {
		return nil, s.discardReplacements(ctx, current.ID, added, fmt.Errorf("persist attachments: %w", err))
	}

	if len(superseded) > 0 {
		res := s.batch.DeleteAll(ctx, model.StorageKeys(superseded))
		s.recordOrphans(ctx, current.ID, res, ReasonSuperseded)
	}

	s.logger.Info("attachments replaced",
		zap.String("parent_id", current.ID),
		zap.Int("kept", len(kept)),
		zap.Int("added", len(added)),
		zap.Int("superseded", len(superseded)),
	)
	return updated, nil
}

// discardReplacements removes freshly uploaded objects after a failed edit. The record and its
// existing objects are left as they were.
func (s *submissionService) discardReplacements(ctx context.Context, parentID string, added []model.Attachment, cause error) error {
	ctx = context.WithoutCancel(ctx)
	if len(added) > 0 {
		res := s.batch.DeleteAll(ctx, model.StorageKeys(added))
		s.recordOrphans(ctx, parentID, res, ReasonRollback)
	}
	s.metrics.RecordRollback(s.kind.Namespace())
	s.logger.Warn("attachment replacement rolled back",
		zap.String("parent_id", parentID),
		zap.Int("uploaded", len(added)),
		zap.Error(cause),
	)
	return apperr.Upload("service.replace_attachments", "", cause)
}

// recordOrphans dead-letters the keys a batch deletion could not remove.
func (s *submissionService) recordOrphans(ctx context.Context, parentID string, report deletion.BatchReport, reason string) {
	if len(report.Failed) == 0 {
		return
	}
	for _, key := range report.Failed {
		reasonText := reason
		if e := report.Errors[key]; e != nil {
			reasonText = reason + ": " + e.Error()
		}
		if err := s.orphans.Record(ctx, model.OrphanedObject{StorageKey: key, ParentID: parentID, Reason: reasonText}); err != nil {
			s.logger.Error("orphan record failed", zap.String("storage_key", key), zap.Error(err))
		}
	}
	s.metrics.RecordOrphans(len(report.Failed))
	s.logger.Warn("objects left orphaned",
		zap.String("parent_id", parentID),
		zap.Strings("storage_keys", report.Failed),
		zap.String("reason", reason),
		zap.Error(report.Err()),
	)
}

// splitKeep partitions atts by the keep-set, preserving order.
func splitKeep(atts []model.Attachment, keep []string) (kept, superseded []model.Attachment, err error) {
	want := make(map[string]struct{}, len(keep))
	for _, k := range keep {
		want[k] = struct{}{}
	}
	for _, a := range atts {
		if _, ok := want[a.StorageKey]; ok {
			kept = append(kept, a)
			delete(want, a.StorageKey)
			continue
		}
		superseded = append(superseded, a)
	}
	if len(want) > 0 {
		return nil, nil, apperr.Validation("service.replace_attachments", ErrUnknownAttachment)
	}
	return kept, superseded, nil
}

func metas(files []FileInput) []policy.FileMeta {
	out := make([]policy.FileMeta, 0, len(files))
	for _, f := range files {
		out = append(out, f.meta())
	}
	return out
}

// keyClock hands out strictly increasing millisecond timestamps for key derivation, so two
// files with the same sanitized name never collide under one parent.
type keyClock struct {
	now  func() time.Time
	last time.Time
}

func (c *keyClock) next() time.Time {
	t := c.now().UTC().Truncate(time.Millisecond)
	if !t.After(c.last) {
		t = c.last.Add(time.Millisecond)
	}
	c.last = t
	return t
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
