package deletion

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"attachapi/internal/apperr"
	"attachapi/internal/metrics"
	"attachapi/internal/storage"
)

// Outcome is the result of deleting one stored object.
type Outcome struct {
	StorageKey string
	Succeeded  bool
	// AlreadyAbsent is set when every strategy reported "not found" without error.
	AlreadyAbsent bool
	Strategy      Strategy
	Err           error
}

// Deleter deletes a single object, escalating through its strategies until one succeeds.
type Deleter struct {
	client     storage.Client
	strategies []Strategy
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

// Option customizes a Deleter.
type Option func(*Deleter)

// WithStrategies replaces the default escalation order.
func WithStrategies(s []Strategy) Option {
	return func(d *Deleter) { d.strategies = s }
}

// WithMetrics records outcomes on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Deleter) { d.metrics = m }
}

// NewDeleter constructs a Deleter over client.
func NewDeleter(client storage.Client, logger *zap.Logger, opts ...Option) *Deleter {
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Deleter{client: client, strategies: DefaultStrategies(), logger: logger}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Delete tries each strategy in order and stops at the first success. Strategy errors do not
// stop the escalation. The result is always reported, never retried beyond the strategy list.
func (d *Deleter) Delete(ctx context.Context, key string) Outcome {
	var errs []error
	for _, s := range d.strategies {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		ok, err := s.apply(ctx, d.client, key)
		if err != nil {
			d.logger.Debug("deletion strategy failed",
				zap.String("storage_key", key),
				zap.String("strategy", s.String()),
				zap.Error(err),
			)
			errs = append(errs, fmt.Errorf("%s: %w", s, err))
			continue
		}
		if ok {
			d.logger.Info("object deleted",
				zap.String("storage_key", key),
				zap.String("strategy", s.String()),
			)
			d.metrics.RecordDeletion(s.String(), "deleted")
			return Outcome{StorageKey: key, Succeeded: true, Strategy: s}
		}
	}

	if len(errs) == 0 {
		d.logger.Info("object already absent", zap.String("storage_key", key))
		d.metrics.RecordDeletion(Strategy{}.String(), "absent")
		return Outcome{StorageKey: key, Succeeded: true, AlreadyAbsent: true}
	}

	err := apperr.Store("deletion.delete", key, errors.Join(errs...))
	d.logger.Error("object deletion exhausted all strategies",
		zap.String("storage_key", key),
		zap.Int("strategies", len(d.strategies)),
		zap.Error(err),
	)
	d.metrics.RecordDeletion(Strategy{}.String(), "failed")
	return Outcome{StorageKey: key, Err: err}
}
