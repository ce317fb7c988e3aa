// Package metrics exposes Prometheus counters for the ingest pipeline and
// the outbound summary requests.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// UploadsTotal counts file uploads by result (accepted, rejected)
	UploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tasklens",
		Name:      "uploads_total",
		Help:      "Number of uploaded files by result.",
	}, []string{"result"})

	// RowsIngestedTotal counts rows kept after normalization
	RowsIngestedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tasklens",
		Name:      "rows_ingested_total",
		Help:      "Number of CSV rows normalized into the dataset.",
	})

	// RowsDroppedTotal counts rows dropped during normalization by reason
	RowsDroppedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tasklens",
		Name:      "rows_dropped_total",
		Help:      "Number of CSV rows dropped during normalization by reason.",
	}, []string{"reason"})

	// SummaryRequestsTotal counts outbound summary requests by outcome
	SummaryRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tasklens",
		Name:      "summary_requests_total",
		Help:      "Number of summary API requests by outcome (ok, error).",
	}, []string{"outcome"})

	// ExportsTotal counts exports by format
	ExportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tasklens",
		Name:      "exports_total",
		Help:      "Number of dataset exports by format.",
	}, []string{"format"})
)
