package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "kioskarr"

// Metrics groups the Prometheus collectors of the kiosk client
type Metrics struct {
	APIRequests      *prometheus.CounterVec
	APIDuration      *prometheus.HistogramVec
	ForcedLogouts    prometheus.Counter
	RequestsByStatus *prometheus.GaugeVec
}

// New creates the collectors and registers them on reg.
// A nil registerer leaves them unregistered, which is what most tests want.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		APIRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Kiosk API calls by route, method and response code.",
		}, []string{"route", "method", "code"}),
		APIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "Duration of kiosk API calls, retries included.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		ForcedLogouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "forced_logouts_total",
			Help:      "Sessions ended because the API rejected the bearer token.",
		}),
		RequestsByStatus: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "requests",
			Help:      "Media requests in the last fetched list, by status.",
		}, []string{"status"}),
	}

	if reg != nil {
		reg.MustRegister(m.APIRequests, m.APIDuration, m.ForcedLogouts, m.RequestsByStatus)
	}
	return m
}

// NewRegistry creates the per-app registry with the Go and process collectors
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}
