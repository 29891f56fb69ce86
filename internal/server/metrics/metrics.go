// Package metrics defines the Prometheus metrics of the server.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the server collectors. A nil *Metrics records nothing.
type Metrics struct {
	RPCRequests     *prometheus.CounterVec
	RPCDuration     *prometheus.HistogramVec
	ImportedRecords *prometheus.CounterVec
	EvidenceUploads *prometheus.CounterVec
	Downloads       *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RPCRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "auditdesk_rpc_requests_total",
			Help: "Total gRPC requests by method and status code",
		}, []string{"method", "code"}),
		RPCDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "auditdesk_rpc_duration_seconds",
			Help:    "gRPC request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
		ImportedRecords: f.NewCounterVec(prometheus.CounterOpts{
			Name: "auditdesk_imported_records_total",
			Help: "Records created by register imports",
		}, []string{"category"}),
		EvidenceUploads: f.NewCounterVec(prometheus.CounterOpts{
			Name: "auditdesk_evidence_uploads_total",
			Help: "Evidence uploads by result",
		}, []string{"result"}),
		Downloads: f.NewCounterVec(prometheus.CounterOpts{
			Name: "auditdesk_evidence_downloads_total",
			Help: "Evidence downloads by HTTP status",
		}, []string{"status"}),
	}
}

func (m *Metrics) ObserveRPC(method, code string, d time.Duration) {
	if m == nil {
		return
	}
	m.RPCRequests.WithLabelValues(method, code).Inc()
	m.RPCDuration.WithLabelValues(method).Observe(d.Seconds())
}

func (m *Metrics) AddImported(category string, n int) {
	if m == nil {
		return
	}
	m.ImportedRecords.WithLabelValues(category).Add(float64(n))
}

func (m *Metrics) EvidenceUpload(ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "error"
	}
	m.EvidenceUploads.WithLabelValues(result).Inc()
}

func (m *Metrics) Download(status string) {
	if m == nil {
		return
	}
	m.Downloads.WithLabelValues(status).Inc()
}
