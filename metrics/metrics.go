// Package metrics exposes Prometheus counters for the web api.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hyle-org/noir-verifier/decoder"
	"github.com/hyle-org/noir-verifier/verifier"
)

const namespace = "noir_verifier"

type Metrics struct {
	registry        *prometheus.Registry
	requestCounter  *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	verifications   *prometheus.CounterVec
	decodeFailures  *prometheus.CounterVec
}

// New registers the collectors on a private registry so several routers can
// coexist in one process.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		requestCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "api",
				Name:      "requests_total",
				Help:      "Total number of API requests",
			},
			[]string{"method", "path", "status"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "api",
				Name:      "request_duration_seconds",
				Help:      "API request duration in seconds",
				Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10, 30, 60},
			},
			[]string{"method", "path"},
		),
		verifications: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "verifications_total",
				Help:      "Proof verifications by outcome",
			},
			[]string{"outcome"},
		),
		decodeFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "decode_failures_total",
				Help:      "Public input decode failures by HyleOutput field",
			},
			[]string{"field"},
		),
	}
}

func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.requestCounter.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveVerification(err error) {
	switch {
	case err == nil:
		m.verifications.WithLabelValues("ok").Inc()
	case errors.Is(err, verifier.ErrProofInvalid):
		m.verifications.WithLabelValues("invalid").Inc()
	default:
		m.verifications.WithLabelValues("error").Inc()
	}
	m.ObserveDecodeFailure(err)
}

// ObserveDecodeFailure counts err against the top level field it was raised
// for. Errors that are not decode errors are ignored.
func (m *Metrics) ObserveDecodeFailure(err error) {
	var de *decoder.DecodeError
	if !errors.As(err, &de) {
		return
	}
	m.decodeFailures.WithLabelValues(topLevelField(de.Field)).Inc()
}

// topLevelField maps "payloads[0].size" or "identity[3]" to the record field
// to keep label cardinality bounded.
func topLevelField(name string) string {
	if i := strings.IndexAny(name, "[."); i >= 0 {
		return name[:i]
	}
	return name
}
