package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "speechrelay"

var (
	transcriptionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transcriptions_total",
		Help:      "Resolved transcription sessions by resolution path.",
	}, []string{"resolution"})

	transcriptionRejectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transcription_rejections_total",
		Help:      "Transcription requests rejected before a session started.",
	}, []string{"reason"})

	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_sessions",
		Help:      "Transcription sessions currently streaming.",
	})

	transcriptionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "transcription_duration_seconds",
		Help:      "Wall time from session start to resolution.",
		Buckets:   []float64{1, 2.5, 5, 10, 20, 30, 60, 90, 120, 180},
	})

	vendorRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "vendor_requests_total",
		Help:      "Calls to external AI services.",
	}, []string{"service", "status"})
)

const (
	RejectionTooLong     = "too_long"
	RejectionUnsupported = "unsupported"
	RejectionEngineStart = "engine_start"
)

func SessionStarted() {
	activeSessions.Inc()
}

// SessionAborted undoes SessionStarted for a session whose engine never started.
func SessionAborted() {
	activeSessions.Dec()
}

func SessionResolved(resolution string, elapsed time.Duration) {
	activeSessions.Dec()
	transcriptionsTotal.WithLabelValues(resolution).Inc()
	transcriptionDuration.Observe(elapsed.Seconds())
}

func TranscriptionRejected(reason string) {
	transcriptionRejectionsTotal.WithLabelValues(reason).Inc()
}

// VendorRequest records the result of a call to service; err == nil counts as "ok".
func VendorRequest(service string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	vendorRequestsTotal.WithLabelValues(service, status).Inc()
}
