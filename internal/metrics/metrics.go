// Package metrics holds the prometheus collectors of the reconciler passes.
package metrics

import (
	"context"
	"errors"
	"time"

	customError "github.com/segyhp/equipment-lease/pkg/errors"

	"github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
)

// Reconciler passes
const (
	PassGenerateInvoices = "generate_invoices"
	PassSyncStatus       = "sync_status"
	PassMarkOverdue      = "mark_overdue"
)

// Row outcomes
const (
	RowInvoiced  = "invoiced"
	RowSynced    = "synced"
	RowLostClaim = "lost_claim"
	RowFailed    = "failed"
)

// Error classes
const (
	ErrorTypeDeadlineExceeded = "deadline_exceeded"
	ErrorTypeBusinessRule     = "business_rule"
	ErrorTypeDB               = "db"
	ErrorTypeUnknown          = "unknown"
)

// ReconcilerMetrics counts reconciler work. A nil *ReconcilerMetrics is a
// valid no-op.
type ReconcilerMetrics struct {
	runs            *prometheus.CounterVec
	runDuration     *prometheus.HistogramVec
	rows            *prometheus.CounterVec
	contractSkipped *prometheus.CounterVec
	errors          *prometheus.CounterVec
}

// NewReconcilerMetrics creates the collectors and registers them on registerer
func NewReconcilerMetrics(registerer prometheus.Registerer) *ReconcilerMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	m := &ReconcilerMetrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lease_reconciler_runs_total",
			Help: "Reconciler pass runs by outcome.",
		}, []string{"pass", "outcome"}),
		runDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lease_reconciler_run_duration_seconds",
			Help:    "Duration of reconciler passes.",
			Buckets: prometheus.DefBuckets,
		}, []string{"pass"}),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lease_reconciler_rows_total",
			Help: "Schedule rows handled by the reconciler by result.",
		}, []string{"pass", "result"}),
		contractSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lease_reconciler_contracts_skipped_total",
			Help: "Contracts skipped because another operation held their lock.",
		}, []string{"pass"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lease_reconciler_errors_total",
			Help: "Reconciler errors by class.",
		}, []string{"pass", "type"}),
	}

	registerer.MustRegister(m.runs, m.runDuration, m.rows, m.contractSkipped, m.errors)
	return m
}

// ObserveRun records one finished pass
func (m *ReconcilerMetrics) ObserveRun(pass string, started time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.runs.WithLabelValues(pass, outcome).Inc()
	m.runDuration.WithLabelValues(pass).Observe(time.Since(started).Seconds())
}

func (m *ReconcilerMetrics) AddRows(pass, result string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.rows.WithLabelValues(pass, result).Add(float64(n))
}

func (m *ReconcilerMetrics) IncSkipped(pass string) {
	if m == nil {
		return
	}
	m.contractSkipped.WithLabelValues(pass).Inc()
}

func (m *ReconcilerMetrics) IncError(pass string, err error) {
	if m == nil || err == nil {
		return
	}
	m.errors.WithLabelValues(pass, ClassifyError(err)).Inc()
}

// ClassifyError maps an error to a low-cardinality label
func ClassifyError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.DeadlineExceeded):
		return ErrorTypeDeadlineExceeded
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return ErrorTypeDB
	}
	if be, ok := customError.AsBusinessError(err); ok {
		if be.Code == customError.ErrCodeDatabaseError {
			return ErrorTypeDB
		}
		return ErrorTypeBusinessRule
	}
	return ErrorTypeUnknown
}
