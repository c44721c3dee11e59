package observability

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

const namespace = "staffreviews"

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace, Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	StorageOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "storage_operations_total", Help: "SQL statements by operation and outcome."},
		[]string{"op", "outcome"}, // outcome: ok|error
	)
	StorageLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace, Name: "storage_operation_duration_seconds",
			Help:    "SQL statement duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)
	IdentityMapLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "identity_map_lookups_total", Help: "Identity map hits/misses."},
		[]string{"result"}, // result: hit|miss
	)
	IdentityMapSize = prometheus.NewGauge(
		prometheus.GaugeOpts{Namespace: namespace, Name: "identity_map_entries", Help: "Reviews currently held by the identity map."},
	)
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "cache_events_total", Help: "Cache hits/misses/sets/dels."},
		[]string{"cache", "event"}, // event: hit|miss|set|del
	)
)

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		HTTPRequests, HTTPLatency,
		StorageOps, StorageLatency,
		IdentityMapLookups, IdentityMapSize,
		CacheEvents,
	)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// NewMetricsServer returns the /metrics server, or nil when addr is empty.
func NewMetricsServer(addr string, reg *prometheus.Registry) *http.Server {
	if addr == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", MetricsHandler(reg))
	log.Info().Str("addr", addr).Msg("metrics server configured")
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveStorage(op string, err error, dur time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	StorageOps.WithLabelValues(op, outcome).Inc()
	StorageLatency.WithLabelValues(op).Observe(dur.Seconds())
}

func ObserveIdentityMap(hit bool) {
	if hit {
		IdentityMapLookups.WithLabelValues("hit").Inc()
		return
	}
	IdentityMapLookups.WithLabelValues("miss").Inc()
}

func SetIdentityMapSize(n int) { IdentityMapSize.Set(float64(n)) }

func ObserveCache(cache, event string) { // event: hit|miss|set|del
	CacheEvents.WithLabelValues(cache, event).Inc()
}

func LabelErr(err error) string {
	if err == nil {
		return "none"
	}
	return fmt.Sprintf("%T", err)
}
