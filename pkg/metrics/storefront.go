package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "storefront"

// Storefront records cart activity, remote catalog fetches, storage write
// failures and HTTP traffic. A nil *Storefront is a valid no-op recorder.
type Storefront struct {
	cartMutations *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	fetchFailures *prometheus.CounterVec
	writeFailures *prometheus.CounterVec
	events        *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	httpDurations *prometheus.HistogramVec
}

// NewStorefront registers the storefront metrics on the provided registerer.
func NewStorefront(reg prometheus.Registerer) *Storefront {
	if reg == nil {
		return &Storefront{}
	}
	s := &Storefront{
		cartMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_mutations_total",
			Help:      "Cart mutations by operation.",
		}, []string{"op"}),
		fetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "remote_fetch_duration_seconds",
			Help:      "Duration of remote product fetches in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
		fetchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "remote_fetch_failures_total",
			Help:      "Failed remote product fetches.",
		}, []string{"endpoint"}),
		writeFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "storage_write_failures_total",
			Help:      "Persisted snapshot writes that failed, by storage key.",
		}, []string{"key"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Change events handed to the publisher, by type and outcome.",
		}, []string{"type", "outcome"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method and status.",
		}, []string{"method", "status"}),
		httpDurations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}
	reg.MustRegister(s.cartMutations, s.fetchDuration, s.fetchFailures, s.writeFailures, s.events, s.httpRequests, s.httpDurations)
	return s
}

func (s *Storefront) IncCartMutation(op string) {
	if s == nil || s.cartMutations == nil {
		return
	}
	s.cartMutations.WithLabelValues(normalizeLabel(op)).Inc()
}

// ObserveRemoteFetch records one remote call; failed calls also bump the failure counter.
func (s *Storefront) ObserveRemoteFetch(endpoint string, duration time.Duration, err error) {
	if s == nil || s.fetchDuration == nil {
		return
	}
	endpoint = normalizeLabel(endpoint)
	s.fetchDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
	if err != nil {
		s.fetchFailures.WithLabelValues(endpoint).Inc()
	}
}

func (s *Storefront) IncWriteFailure(key string) {
	if s == nil || s.writeFailures == nil {
		return
	}
	s.writeFailures.WithLabelValues(normalizeLabel(key)).Inc()
}

func (s *Storefront) IncEvent(eventType string, err error) {
	if s == nil || s.events == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	s.events.WithLabelValues(normalizeLabel(eventType), outcome).Inc()
}

func (s *Storefront) ObserveHTTP(method string, status int, duration time.Duration) {
	if s == nil || s.httpRequests == nil {
		return
	}
	s.httpRequests.WithLabelValues(normalizeLabel(method), strconv.Itoa(status)).Inc()
	s.httpDurations.WithLabelValues(normalizeLabel(method)).Observe(duration.Seconds())
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
