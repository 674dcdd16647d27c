// Copyright (c) 2023-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	MetricsNamespace         = "ragserver"
	MetricsSubsystemHTTP     = "http"
	MetricsSubsystemPipeline = "pipeline"
)

// Pipeline stage label values.
const (
	StageSearch   = "search"
	StageExtract  = "extract"
	StageGenerate = "generate"
)

type Metrics interface {
	GetRegistry() *prometheus.Registry

	ObserveAPIEndpointDuration(handler, method, statusCode string, elapsed float64)

	IncrementHTTPRequests()
	IncrementHTTPErrors()

	ObserveStageDuration(stage string, elapsed float64)
	IncrementStageDegraded(stage string)
}

// metrics used to instrumentate metrics in prometheus.
type metrics struct {
	registry *prometheus.Registry

	apiTime *prometheus.HistogramVec

	httpRequestsTotal prometheus.Counter
	httpErrorsTotal   prometheus.Counter

	stageTime          *prometheus.HistogramVec
	stageDegradedTotal *prometheus.CounterVec
}

// NewMetrics Factory method to create a new metrics collector.
func NewMetrics() Metrics {
	m := &metrics{}

	m.registry = prometheus.NewRegistry()
	options := collectors.ProcessCollectorOpts{
		Namespace: MetricsNamespace,
	}
	m.registry.MustRegister(collectors.NewProcessCollector(options))
	m.registry.MustRegister(collectors.NewGoCollector())

	m.apiTime = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: MetricsNamespace,
		Subsystem: MetricsSubsystemHTTP,
		Name:      "api_time_seconds",
		Help:      "Time to execute the api handler",
	}, []string{"handler", "method", "status_code"})
	m.registry.MustRegister(m.apiTime)

	m.httpRequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Subsystem: MetricsSubsystemHTTP,
		Name:      "requests_total",
		Help:      "The total number of http API requests.",
	})
	m.registry.MustRegister(m.httpRequestsTotal)

	m.httpErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Subsystem: MetricsSubsystemHTTP,
		Name:      "errors_total",
		Help:      "The total number of http API errors.",
	})
	m.registry.MustRegister(m.httpErrorsTotal)

	m.stageTime = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: MetricsNamespace,
		Subsystem: MetricsSubsystemPipeline,
		Name:      "stage_time_seconds",
		Help:      "Time to execute each pipeline stage",
	}, []string{"stage"})
	m.registry.MustRegister(m.stageTime)

	m.stageDegradedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Subsystem: MetricsSubsystemPipeline,
		Name:      "stage_degraded_total",
		Help:      "The total number of pipeline stages that degraded to a fallback output.",
	}, []string{"stage"})
	m.registry.MustRegister(m.stageDegradedTotal)

	return m
}

func (m *metrics) GetRegistry() *prometheus.Registry {
	return m.registry
}

func (m *metrics) ObserveAPIEndpointDuration(handler, method, statusCode string, elapsed float64) {
	m.apiTime.With(prometheus.Labels{
		"handler":     handler,
		"method":      method,
		"status_code": statusCode,
	}).Observe(elapsed)
}

func (m *metrics) IncrementHTTPRequests() {
	m.httpRequestsTotal.Inc()
}

func (m *metrics) IncrementHTTPErrors() {
	m.httpErrorsTotal.Inc()
}

func (m *metrics) ObserveStageDuration(stage string, elapsed float64) {
	m.stageTime.With(prometheus.Labels{"stage": stage}).Observe(elapsed)
}

func (m *metrics) IncrementStageDegraded(stage string) {
	m.stageDegradedTotal.With(prometheus.Labels{"stage": stage}).Inc()
}
