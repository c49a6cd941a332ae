package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// UploadMetrics records metadata for personalization file uploads.
type UploadMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
	bytes    *prometheus.HistogramVec
}

// NewUploadMetrics registers the upload metrics on the provided registerer.
func NewUploadMetrics(reg prometheus.Registerer) *UploadMetrics {
	if reg == nil {
		return &UploadMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "upload_duration_seconds",
		Help:    "Duration of personalization uploads in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"mime_group"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "upload_success",
		Help: "Successful personalization uploads.",
	}, []string{"mime_group"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "upload_failure",
		Help: "Failed personalization uploads.",
	}, []string{"mime_group"})
	bytes := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "upload_size_bytes",
		Help:    "Size of uploaded personalization files in bytes.",
		Buckets: prometheus.ExponentialBuckets(1024, 4, 10),
	}, []string{"mime_group"})
	reg.MustRegister(duration, success, failure, bytes)
	return &UploadMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
		bytes:    bytes,
	}
}

// ObserveDuration records the duration for an upload in the given mime group.
func (u *UploadMetrics) ObserveDuration(mimeGroup string, duration time.Duration) {
	if u == nil || u.duration == nil {
		return
	}
	u.duration.WithLabelValues(normalizeLabel(mimeGroup)).Observe(duration.Seconds())
}

// ObserveSize records the byte size of an accepted upload.
func (u *UploadMetrics) ObserveSize(mimeGroup string, sizeBytes int64) {
	if u == nil || u.bytes == nil {
		return
	}
	u.bytes.WithLabelValues(normalizeLabel(mimeGroup)).Observe(float64(sizeBytes))
}

// IncSuccess increments the success counter for the mime group.
func (u *UploadMetrics) IncSuccess(mimeGroup string) {
	if u == nil || u.success == nil {
		return
	}
	u.success.WithLabelValues(normalizeLabel(mimeGroup)).Inc()
}

// IncFailure increments the failure counter for the mime group.
func (u *UploadMetrics) IncFailure(mimeGroup string) {
	if u == nil || u.failure == nil {
		return
	}
	u.failure.WithLabelValues(normalizeLabel(mimeGroup)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
