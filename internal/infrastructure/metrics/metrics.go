// Package metrics provides Prometheus metrics for the CareTriage stub service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts HTTP requests by route and outcome.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "caretriage",
			Subsystem: "stub",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// RequestDuration tracks HTTP request latency.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "caretriage",
			Subsystem: "stub",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "endpoint", "status"},
	)

	// ChatTurnsTotal counts processed chat turns across REST and websocket.
	ChatTurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "caretriage",
			Subsystem: "stub",
			Name:      "chat_turns_total",
			Help:      "Total chat turns processed",
		},
		[]string{"transport"},
	)

	// RiskAssessmentsTotal counts risk evaluations by resulting level.
	RiskAssessmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "caretriage",
			Subsystem: "stub",
			Name:      "risk_assessments_total",
			Help:      "Total risk assessments by level",
		},
		[]string{"risk_level"},
	)

	// EscalationsTotal counts assessments that required escalation.
	EscalationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "caretriage",
			Subsystem: "stub",
			Name:      "escalations_total",
			Help:      "Total assessments flagged for escalation",
		},
	)

	// ReportsGeneratedTotal counts generated reports by audience.
	ReportsGeneratedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "caretriage",
			Subsystem: "stub",
			Name:      "reports_generated_total",
			Help:      "Total reports generated",
		},
		[]string{"report_type"},
	)

	// KnowledgeSearchesTotal counts knowledge base queries.
	KnowledgeSearchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "caretriage",
			Subsystem: "stub",
			Name:      "knowledge_searches_total",
			Help:      "Total knowledge base searches",
		},
	)

	// KnowledgeDocuments tracks the number of indexed documents.
	KnowledgeDocuments = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "caretriage",
			Subsystem: "stub",
			Name:      "knowledge_documents",
			Help:      "Number of documents in the knowledge index",
		},
	)

	// KnowledgeChunks tracks the number of indexed chunks.
	KnowledgeChunks = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "caretriage",
			Subsystem: "stub",
			Name:      "knowledge_chunks",
			Help:      "Number of chunks in the knowledge index",
		},
	)

	// WebsocketConnections tracks currently open chat websockets.
	WebsocketConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "caretriage",
			Subsystem: "stub",
			Name:      "websocket_connections",
			Help:      "Number of open chat websocket connections",
		},
	)
)

// RecordRequest records one completed HTTP request.
func RecordRequest(method, endpoint, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint, status).Observe(durationSec)
}

// RecordChatTurn records a processed chat turn on the given transport.
func RecordChatTurn(transport string) {
	ChatTurnsTotal.WithLabelValues(transport).Inc()
}

// RecordRiskAssessment records a risk evaluation outcome.
func RecordRiskAssessment(level string, escalated bool) {
	RiskAssessmentsTotal.WithLabelValues(level).Inc()
	if escalated {
		EscalationsTotal.Inc()
	}
}

// RecordReport records a generated report by audience.
func RecordReport(reportType string) {
	ReportsGeneratedTotal.WithLabelValues(reportType).Inc()
}

// RecordKnowledgeSearch records one knowledge base query.
func RecordKnowledgeSearch() {
	KnowledgeSearchesTotal.Inc()
}

// SetKnowledgeIndexSize updates the index size gauges after an ingest.
func SetKnowledgeIndexSize(documents, chunks int) {
	KnowledgeDocuments.Set(float64(documents))
	KnowledgeChunks.Set(float64(chunks))
}
