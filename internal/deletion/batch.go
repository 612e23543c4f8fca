package deletion

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"attachapi/internal/apperr"
	"attachapi/internal/metrics"
	"attachapi/internal/storage"
)

// BatchReport aggregates a batch deletion. Failed keys are data, not an error.
type BatchReport struct {
	Deleted []string         `json:"deleted"`
	Failed  []string         `json:"failed"`
	Errors  map[string]error `json:"-"`
}

// Err returns a partial-deletion error when some keys survived, nil otherwise.
func (r BatchReport) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	errs := make([]error, 0, len(r.Failed))
	for _, k := range r.Failed {
		if err := r.Errors[k]; err != nil {
			errs = append(errs, err)
		}
	}
	return apperr.PartialDeletion("deletion.delete_all", r.Failed, errors.Join(errs...))
}

// Coordinator deletes sets of objects: bulk passes first, then one-by-one escalation for
// whatever the bulk passes left behind.
type Coordinator struct {
	client  storage.Client
	deleter *Deleter
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewCoordinator constructs a Coordinator. deleter handles the stragglers.
func NewCoordinator(client storage.Client, deleter *Deleter, logger *zap.Logger, m *metrics.Metrics) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{client: client, deleter: deleter, logger: logger, metrics: m}
}

// DeleteAll removes keys from the store. Stragglers are deleted sequentially, never in
// parallel, to stay inside the store's administrative rate limits.
func (c *Coordinator) DeleteAll(ctx context.Context, keys []string) BatchReport {
	report := BatchReport{Deleted: []string{}, Failed: []string{}, Errors: map[string]error{}}
	remaining := dedupe(keys)
	if len(remaining) == 0 {
		return report
	}

	for _, rt := range storage.ResourceTypes {
		if len(remaining) == 0 {
			break
		}
		res, err := c.client.DestroyMany(ctx, remaining, rt)
		if err != nil {
			c.logger.Warn("bulk delete pass failed",
				zap.String("resource_type", rt.String()),
				zap.Int("keys", len(remaining)),
				zap.Error(err),
			)
		}
		if len(res.Deleted) == 0 {
			continue
		}
		gone := make(map[string]struct{}, len(res.Deleted))
		for _, k := range res.Deleted {
			gone[k] = struct{}{}
		}
		next := remaining[:0:0]
		for _, k := range remaining {
			if _, ok := gone[k]; ok {
				report.Deleted = append(report.Deleted, k)
				continue
			}
			next = append(next, k)
		}
		c.metrics.RecordBulkDeleted(rt.String(), len(remaining)-len(next))
		remaining = next
	}

	for _, key := range remaining {
		out := c.deleter.Delete(ctx, key)
		if out.Succeeded {
			report.Deleted = append(report.Deleted, key)
			continue
		}
		report.Failed = append(report.Failed, key)
		report.Errors[key] = out.Err
	}

	c.logger.Info("batch deletion finished",
		zap.Int("requested", len(keys)),
		zap.Int("deleted", len(report.Deleted)),
		zap.Int("failed", len(report.Failed)),
	)
	return report
}

// dedupe drops blank and repeated keys, keeping first-seen order.
func dedupe(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if strings.TrimSpace(k) == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
