package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"attachapi/internal/model"
	"attachapi/internal/repository"
)

const defaultOrphanBatch = 100

// ReconcileResult reports one reconciliation pass over the dead-letter table.
type ReconcileResult struct {
	Attempted int      `json:"attempted"`
	Deleted   []string `json:"deleted"`
	Failed    []string `json:"failed"`
}

// OrphanService exposes objects no deletion strategy could remove and lets an operator retry them.
// Nothing here runs on a schedule.
type OrphanService interface {
	// List returns up to limit dead-lettered objects, oldest first.
	List(ctx context.Context, limit int) ([]model.OrphanedObject, error)

	// Reconcile retries deletion of up to limit orphans. Deleted keys leave the table; failed
	// keys stay with their attempt count bumped.
	Reconcile(ctx context.Context, limit int) (*ReconcileResult, error)
}

type orphanService struct {
	orphans repository.OrphanRepository
	batch   BatchDeleter
	logger  *zap.Logger
}

// NewOrphanService constructs a new OrphanService.
func NewOrphanService(orphans repository.OrphanRepository, batch BatchDeleter, logger *zap.Logger) OrphanService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &orphanService{orphans: orphans, batch: batch, logger: logger}
}

func (s *orphanService) List(ctx context.Context, limit int) ([]model.OrphanedObject, error) {
	if limit <= 0 {
		limit = defaultOrphanBatch
	}
	return s.orphans.List(ctx, limit)
}

func (s *orphanService) Reconcile(ctx context.Context, limit int) (*ReconcileResult, error) {
	items, err := s.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list orphans: %w", err)
	}

	res := &ReconcileResult{Attempted: len(items), Deleted: []string{}, Failed: []string{}}
	if len(items) == 0 {
		return res, nil
	}

	byKey := make(map[string]model.OrphanedObject, len(items))
	keys := make([]string, 0, len(items))
	for _, o := range items {
		byKey[o.StorageKey] = o
		keys = append(keys, o.StorageKey)
	}

	report := s.batch.DeleteAll(ctx, keys)
	for _, key := range report.Deleted {
		if err := s.orphans.Delete(ctx, key); err != nil {
			return nil, fmt.Errorf("forget orphan %s: %w", key, err)
		}
		res.Deleted = append(res.Deleted, key)
	}
	for _, key := range report.Failed {
		o := byKey[key]
		o.Reason = ReasonReconcile
		if e := report.Errors[key]; e != nil {
			o.Reason = ReasonReconcile + ": " + e.Error()
		}
		if err := s.orphans.Record(ctx, o); err != nil {
			return nil, fmt.Errorf("record orphan %s: %w", key, err)
		}
		res.Failed = append(res.Failed, key)
	}

	s.logger.Info("orphan reconciliation finished",
		zap.Int("attempted", res.Attempted),
		zap.Int("deleted", len(res.Deleted)),
		zap.Int("failed", len(res.Failed)),
	)
	return res, nil
}
