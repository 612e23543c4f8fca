// Package metrics holds the Prometheus collectors for the attachment lifecycle.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "attachapi"

// Metrics holds all attachment lifecycle metrics.
type Metrics struct {
	UploadsTotal     *prometheus.CounterVec
	UploadBytes      *prometheus.HistogramVec
	DeletionsTotal   *prometheus.CounterVec
	BulkDeletedTotal *prometheus.CounterVec
	RollbacksTotal   *prometheus.CounterVec
	OrphansTotal     prometheus.Counter
}

// NewWithRegistry creates and registers all metrics with registerer.
func NewWithRegistry(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)

	return &Metrics{
		UploadsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_total",
			Help:      "Attachment uploads by namespace and result.",
		}, []string{"namespace", "result"}),
		UploadBytes: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upload_bytes",
			Help:      "Size of accepted attachment uploads.",
			Buckets:   prometheus.ExponentialBuckets(16*1024, 4, 8),
		}, []string{"namespace"}),
		DeletionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resilient_deletions_total",
			Help:      "Single-object deletions by the strategy that ended them and result.",
		}, []string{"strategy", "result"}),
		BulkDeletedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bulk_deleted_objects_total",
			Help:      "Objects removed by bulk delete passes, by resource type.",
		}, []string{"resource_type"}),
		RollbacksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submission_rollbacks_total",
			Help:      "Submissions rolled back after a failed upload or finalize.",
		}, []string{"namespace"}),
		OrphansTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orphaned_objects_total",
			Help:      "Objects that exhausted every deletion strategy.",
		}),
	}
}

// RecordUpload counts one upload attempt.
func (m *Metrics) RecordUpload(ns string, size uint64, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.UploadsTotal.WithLabelValues(ns, "error").Inc()
		return
	}
	m.UploadsTotal.WithLabelValues(ns, "success").Inc()
	m.UploadBytes.WithLabelValues(ns).Observe(float64(size))
}

// RecordDeletion counts one resilient deletion outcome.
func (m *Metrics) RecordDeletion(strategy, result string) {
	if m == nil {
		return
	}
	m.DeletionsTotal.WithLabelValues(strategy, result).Inc()
}

// RecordBulkDeleted counts objects removed in a bulk pass.
func (m *Metrics) RecordBulkDeleted(resourceType string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.BulkDeletedTotal.WithLabelValues(resourceType).Add(float64(n))
}

// RecordRollback counts one rolled back submission.
func (m *Metrics) RecordRollback(ns string) {
	if m == nil {
		return
	}
	m.RollbacksTotal.WithLabelValues(ns).Inc()
}

// RecordOrphans counts keys handed to the dead-letter table.
func (m *Metrics) RecordOrphans(n int) {
	if m == nil || n == 0 {
		return
	}
	m.OrphansTotal.Add(float64(n))
}
