package nearby

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/nearby/internal/domain"
)

// Operation outcomes as reported in the "outcome" label.
const (
	outcomeOK                  = "ok"
	outcomeServiceNotFound     = "service_not_found"
	outcomeSessionNotFound     = "session_not_found"
	outcomeLocationUnavailable = "location_unavailable"
	outcomeInvalidInput        = "invalid_input"
	outcomeCatalogUnavailable  = "catalog_unavailable"
	outcomeError               = "error"
)

// outcomeOf maps an operation error to its outcome label.
func outcomeOf(err error) string {
	switch {
	case err == nil:
		return outcomeOK
	case errors.Is(err, domain.ErrServiceNotFound):
		return outcomeServiceNotFound
	case errors.Is(err, domain.ErrSessionNotFound):
		return outcomeSessionNotFound
	case errors.Is(err, domain.ErrLocationUnavailable):
		return outcomeLocationUnavailable
	case errors.Is(err, domain.ErrInvalidInput):
		return outcomeInvalidInput
	case errors.Is(err, domain.ErrCatalogUnavailable):
		return outcomeCatalogUnavailable
	default:
		return outcomeError
	}
}

// expected reports whether an outcome is a normal answer to a caller's
// request rather than a fault of the SDK or its backends.
func expected(outcome string) bool {
	switch outcome {
	case outcomeServiceNotFound, outcomeSessionNotFound, outcomeLocationUnavailable, outcomeInvalidInput:
		return true
	}
	return false
}

type sdkMetrics struct {
	calls    *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	listings *prometheus.HistogramVec
}

func newSDKMetrics(reg prometheus.Registerer) (*sdkMetrics, error) {
	m := &sdkMetrics{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nearby",
			Subsystem: "sdk",
			Name:      "operations_total",
			Help:      "SDK operations by name and outcome.",
		}, []string{"operation", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "nearby",
			Subsystem: "sdk",
			Name:      "operation_duration_seconds",
			Help:      "SDK operation duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		listings: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "nearby",
			Subsystem: "sdk",
			Name:      "listings_returned",
			Help:      "Listings returned per search, split by whether a user location was applied.",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250},
		}, []string{"located"}),
	}
	if err := registerOrReuse(reg, &m.calls); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.latency); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.listings); err != nil {
		return nil, err
	}
	return m, nil
}

// registerOrReuse registers a collector, or adopts the one already present
// so several clients can share a registry.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	err := reg.Register(*c)
	if err == nil {
		return nil
	}
	var are prometheus.AlreadyRegisteredError
	if !errors.As(err, &are) {
		return fmt.Errorf("nearby: register metric: %w", err)
	}
	existing, ok := are.ExistingCollector.(T)
	if !ok {
		return fmt.Errorf("nearby: metric already registered with incompatible type: %T", are.ExistingCollector)
	}
	*c = existing
	return nil
}

// observer reports SDK calls to slog and prometheus. A nil observer is a no-op.
type observer struct {
	logger  *slog.Logger
	metrics *sdkMetrics
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	o := &observer{logger: logger}
	if reg != nil {
		m, err := newSDKMetrics(reg)
		if err != nil {
			return nil, err
		}
		o.metrics = m
	}
	return o, nil
}

func (o *observer) observe(op string, start time.Time, err error) {
	if o == nil {
		return
	}
	dur := time.Since(start)
	outcome := outcomeOf(err)

	if o.metrics != nil {
		o.metrics.calls.WithLabelValues(op, outcome).Inc()
		o.metrics.latency.WithLabelValues(op).Observe(dur.Seconds())
	}

	if o.logger == nil {
		return
	}
	switch {
	case err == nil:
		o.logger.Debug("operation completed", "op", op, "duration", dur)
	case expected(outcome):
		o.logger.Debug("operation declined", "op", op, "outcome", outcome, "duration", dur, "error", err)
	default:
		o.logger.Warn("operation failed", "op", op, "outcome", outcome, "duration", dur, "error", err)
	}
}

// searched records the size of a search result.
func (o *observer) searched(n int, located bool) {
	if o == nil || o.metrics == nil {
		return
	}
	label := "false"
	if located {
		label = "true"
	}
	o.metrics.listings.WithLabelValues(label).Observe(float64(n))
}
