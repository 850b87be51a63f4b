// Package telemetry exposes the Prometheus metrics the engine, reconciler,
// and HTTP layer record against, adapted from the project's existing
// src/metrics package. The runtime-introspection gauges (goroutine count,
// GC pauses, CPU-core estimates) that package carried are dropped here —
// they describe the Go process, not the ledger — in favor of the business
// metrics spec §4.F and §5 actually call for.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPDuration buckets request latency by method, route, and status.
	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status_code"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status_code"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being served",
		},
	)
)

var (
	// BankingOperationsTotal counts deposit/withdraw/transfer outcomes.
	// operation: deposit, withdraw, transfer. status: success, error.
	BankingOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "banking_operations_total",
			Help: "Total number of banking operations by outcome",
		},
		[]string{"operation", "status"},
	)

	// OperationRetriesTotal counts version-conflict retries taken before an
	// operation either succeeded or exhausted its attempt budget (spec §5).
	OperationRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "banking_operation_retries_total",
			Help: "Total number of optimistic-concurrency retries taken",
		},
		[]string{"operation"},
	)

	// EngineErrorsTotal counts operations that failed, by stable error code.
	EngineErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "banking_engine_errors_total",
			Help: "Total number of operations rejected by engine error code",
		},
		[]string{"operation", "code"},
	)

	TransferAmountCents = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "transfer_amount_cents",
			Help:    "Distribution of transfer amounts in cents",
			Buckets: []float64{100, 500, 1000, 5000, 10000, 50000, 100000, 500000, 1000000},
		},
	)

	// ReconciliationMismatchesTotal counts accounts whose cached balance
	// disagreed with the ledger-derived sum (spec §4.F).
	ReconciliationMismatchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ledger_reconciliation_mismatches_total",
			Help: "Total number of accounts found with a cached/ledger balance mismatch",
		},
	)

	// BulkRowsProcessedTotal counts CSV bulk-operation rows by outcome.
	BulkRowsProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bulk_rows_processed_total",
			Help: "Total number of CSV bulk-operation rows processed",
		},
		[]string{"status"},
	)
)

// RecordOperation records the terminal outcome of a Deposit/Withdraw/Transfer
// call: status is "success" or "error".
func RecordOperation(operation, status string) {
	BankingOperationsTotal.WithLabelValues(operation, status).Inc()
}

// RecordRetry records one version-conflict retry taken for operation.
func RecordRetry(operation string) {
	OperationRetriesTotal.WithLabelValues(operation).Inc()
}

// RecordEngineError records an operation's rejection under its stable code.
func RecordEngineError(operation, code string) {
	EngineErrorsTotal.WithLabelValues(operation, code).Inc()
}

// RecordReconciliationMismatch records one detected balance mismatch.
func RecordReconciliationMismatch() {
	ReconciliationMismatchesTotal.Inc()
}

// RecordBulkRow records one processed CSV bulk-operation row: status is
// "success" or "failed".
func RecordBulkRow(status string) {
	BulkRowsProcessedTotal.WithLabelValues(status).Inc()
}
