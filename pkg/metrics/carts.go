package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CartMetrics records cart attachment outcomes.
type CartMetrics struct {
	added    *prometheus.CounterVec
	rejected *prometheus.CounterVec
	total    *prometheus.HistogramVec
}

// NewCartMetrics registers the cart metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	added := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_items_added",
		Help: "Cart lines accepted, split by personalized or plain.",
	}, []string{"personalized"})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_items_rejected",
		Help: "Cart lines rejected, split by rejection reason.",
	}, []string{"reason"})
	total := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cart_personalization_total_cents",
		Help:    "Computed personalization totals in minor units.",
		Buckets: prometheus.ExponentialBuckets(50, 2, 12),
	}, []string{"personalized"})
	reg.MustRegister(added, rejected, total)
	return &CartMetrics{
		added:    added,
		rejected: rejected,
		total:    total,
	}
}

// IncAdded increments the accepted-line counter.
func (c *CartMetrics) IncAdded(personalized bool) {
	if c == nil || c.added == nil {
		return
	}
	c.added.WithLabelValues(boolLabel(personalized)).Inc()
}

// IncRejected increments the rejected-line counter for the given reason.
func (c *CartMetrics) IncRejected(reason string) {
	if c == nil || c.rejected == nil {
		return
	}
	c.rejected.WithLabelValues(normalizeLabel(reason)).Inc()
}

// ObserveTotal records the computed personalization total for an accepted line.
func (c *CartMetrics) ObserveTotal(personalized bool, totalCents int64) {
	if c == nil || c.total == nil {
		return
	}
	c.total.WithLabelValues(boolLabel(personalized)).Observe(float64(totalCents))
}

func boolLabel(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
