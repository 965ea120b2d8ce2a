// Package metrics collects and exposes Prometheus metrics for the
// warden server.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"go.avresk.dev/warden/wardenhash"
)

// Collector records authentication metrics.
type Collector struct {
	login        *prometheus.CounterVec
	signup       *prometheus.CounterVec
	hashDuration prometheus.Histogram
}

// NewCollector creates a new Collector and registers its metrics with the
// given registry.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		login: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "warden_login_total",
			Help: "Total number of login attempts by outcome.",
		}, []string{"outcome"}),
		signup: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "warden_signup_total",
			Help: "Total number of signup attempts by outcome.",
		}, []string{"outcome"}),
		hashDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "warden_password_hash_seconds",
			Help:    "Time spent deriving password digests.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.login,
		c.signup,
		c.hashDuration,
	)

	return c
}

// RecordLogin records the outcome of a login attempt.
func (c *Collector) RecordLogin(outcome string) {
	c.login.WithLabelValues(outcome).Inc()
}

// RecordSignup records the outcome of a signup attempt.
func (c *Collector) RecordSignup(outcome string) {
	c.signup.WithLabelValues(outcome).Inc()
}

// RecordHashDuration records how long a password digest derivation took.
func (c *Collector) RecordHashDuration(d time.Duration) {
	c.hashDuration.Observe(d.Seconds())
}

// InstrumentHasher wraps a hasher so every digest derivation is timed.
func (c *Collector) InstrumentHasher(h wardenhash.Hasher) wardenhash.Hasher {
	return &instrumentedHasher{hasher: h, collector: c}
}

type instrumentedHasher struct {
	hasher    wardenhash.Hasher
	collector *Collector
}

func (h *instrumentedHasher) GenerateSalt() (wardenhash.Salt, error) {
	return h.hasher.GenerateSalt()
}

func (h *instrumentedHasher) Hash(
	password string,
	salt wardenhash.Salt,
) (wardenhash.Digest, error) {
	start := time.Now()
	digest, err := h.hasher.Hash(password, salt)
	h.collector.RecordHashDuration(time.Since(start))

	return digest, err
}

// Handler returns an HTTP handler serving the Prometheus scrape endpoint.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
