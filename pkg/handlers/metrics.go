// pkg/handlers/metrics.go
package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/fyrsmithlabs/logtree/pkg/logging"
)

// InstrumentationName is the name used for OTEL instrumentation.
const InstrumentationName = "github.com/fyrsmithlabs/logtree/pkg/handlers"

// Metrics records handler activity.
type Metrics interface {
	// RecordHandled counts one handled record and its handling time. err is the
	// handler's result.
	RecordHandled(handler string, level logging.Level, d time.Duration, err error)
	// RecordDropped counts one record dropped by a wrapper for reason.
	RecordDropped(handler string, level logging.Level, reason string)
}

// InstrumentedHandler measures another handler.
type InstrumentedHandler struct {
	name    string
	next    logging.Handler
	metrics Metrics
}

// NewInstrumented wraps next so every call is reported to m under name.
func NewInstrumented(name string, next logging.Handler, m Metrics) *InstrumentedHandler {
	return &InstrumentedHandler{name: name, next: next, metrics: m}
}

// Handle implements logging.Handler.
func (h *InstrumentedHandler) Handle(r *logging.Record) error {
	start := time.Now()
	err := h.next.Handle(r)
	h.metrics.RecordHandled(h.name, r.Level, time.Since(start), err)
	return err
}

// Unwrap returns the wrapped handler.
func (h *InstrumentedHandler) Unwrap() logging.Handler {
	return h.next
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// PrometheusMetrics implements Metrics with Prometheus collectors.
type PrometheusMetrics struct {
	records  *prometheus.CounterVec
	duration *prometheus.HistogramVec
	dropped  *prometheus.CounterVec
}

// NewPrometheusMetrics registers the handler collectors with reg, or with the
// default registerer when reg is nil. Collectors already registered are reused.
func NewPrometheusMetrics(reg prometheus.Registerer) (*PrometheusMetrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	records := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "logtree",
			Subsystem: "handler",
			Name:      "records_total",
			Help:      "Total number of records passed to handlers",
		},
		[]string{"handler", "level", "result"},
	)
	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "logtree",
			Subsystem: "handler",
			Name:      "duration_seconds",
			Help:      "Time spent in handlers in seconds",
			Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05, .1},
		},
		[]string{"handler"},
	)
	dropped := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "logtree",
			Subsystem: "handler",
			Name:      "dropped_total",
			Help:      "Total number of records dropped by sampling or rate limiting",
		},
		[]string{"handler", "level", "reason"},
	)

	var err error
	m := &PrometheusMetrics{}
	if m.records, err = register(reg, records); err != nil {
		return nil, err
	}
	if m.duration, err = register(reg, duration); err != nil {
		return nil, err
	}
	if m.dropped, err = register(reg, dropped); err != nil {
		return nil, err
	}
	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, fmt.Errorf("failed to register handler metrics: %w", err)
	}
	return c, nil
}

// RecordHandled implements Metrics.
func (m *PrometheusMetrics) RecordHandled(handler string, level logging.Level, d time.Duration, err error) {
	m.records.WithLabelValues(handler, logging.LevelName(level), result(err)).Inc()
	m.duration.WithLabelValues(handler).Observe(d.Seconds())
}

// RecordDropped implements Metrics.
func (m *PrometheusMetrics) RecordDropped(handler string, level logging.Level, reason string) {
	m.dropped.WithLabelValues(handler, logging.LevelName(level), reason).Inc()
}

// OTelMetrics implements Metrics with OpenTelemetry instruments.
type OTelMetrics struct {
	records  metric.Int64Counter
	duration metric.Float64Histogram
	dropped  metric.Int64Counter
}

// NewOTelMetrics creates the instruments on meter.
// If meter is nil, uses the global meter provider.
func NewOTelMetrics(meter metric.Meter) (*OTelMetrics, error) {
	if meter == nil {
		meter = otel.Meter(InstrumentationName)
	}

	m := &OTelMetrics{}
	var err error

	m.records, err = meter.Int64Counter(
		"logtree.handler.records",
		metric.WithDescription("Total number of records passed to handlers"),
		metric.WithUnit("{record}"),
	)
	if err != nil {
		return nil, err
	}

	m.duration, err = meter.Float64Histogram(
		"logtree.handler.duration",
		metric.WithDescription("Time spent in handlers in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	m.dropped, err = meter.Int64Counter(
		"logtree.handler.dropped",
		metric.WithDescription("Total number of records dropped by sampling or rate limiting"),
		metric.WithUnit("{record}"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordHandled implements Metrics.
func (m *OTelMetrics) RecordHandled(handler string, level logging.Level, d time.Duration, err error) {
	ctx := context.Background()
	m.records.Add(ctx, 1, metric.WithAttributes(
		attribute.String("handler", handler),
		attribute.String("level", logging.LevelName(level)),
		attribute.String("result", result(err)),
	))
	m.duration.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.String("handler", handler)))
}

// RecordDropped implements Metrics.
func (m *OTelMetrics) RecordDropped(handler string, level logging.Level, reason string) {
	m.dropped.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("handler", handler),
		attribute.String("level", logging.LevelName(level)),
		attribute.String("reason", reason),
	))
}
