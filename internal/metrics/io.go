// SPDX-License-Identifier: MIT

// Package metrics exposes Prometheus collectors for the I/O helpers.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const operationsMetric = "mlkit_io_operations_total"

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

var (
	ioOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: operationsMetric,
		Help: "Helper operations by name and outcome",
	}, []string{"op", "outcome"}) // outcome=success|failure

	ioErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mlkit_io_errors_total",
		Help: "Failed helper operations by name and error kind",
	}, []string{"op", "kind"})

	ioBytesWrittenTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mlkit_io_bytes_written_total",
		Help: "Bytes written to disk by helper operations",
	}, []string{"op"})

	ioBytesReadTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mlkit_io_bytes_read_total",
		Help: "Bytes read from disk by helper operations",
	}, []string{"op"})
)

// RecordOperation counts one successful operation.
func RecordOperation(op string) {
	ioOperationsTotal.WithLabelValues(op, OutcomeSuccess).Inc()
}

// RecordFailure counts one failed operation together with its error kind.
func RecordFailure(op, kind string) {
	ioOperationsTotal.WithLabelValues(op, OutcomeFailure).Inc()
	ioErrorsTotal.WithLabelValues(op, kind).Inc()
}

// AddBytesWritten records n bytes written by op.
func AddBytesWritten(op string, n int64) {
	if n <= 0 {
		return
	}
	ioBytesWrittenTotal.WithLabelValues(op).Add(float64(n))
}

// AddBytesRead records n bytes read by op.
func AddBytesRead(op string, n int64) {
	if n <= 0 {
		return
	}
	ioBytesReadTotal.WithLabelValues(op).Add(float64(n))
}
