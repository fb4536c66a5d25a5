// Package prom registers and serves the process metrics.
package prom

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	xhttp "github.com/sarmadgill/pump-ledger/pkg/http"
)

const (
	MetricMutationsTotal          = "mutations_total"            // labels: op, outcome
	MetricMutationDurationSeconds = "mutation_duration_seconds"  // labels: op
	MetricReadingsTotal           = "readings_total"             // labels: result
	MetricReportCacheTotal        = "report_cache_lookups_total" // labels: result
)

var createLock = &sync.Mutex{}
var namespace = "none"

var MetricSystemEnabled = false

var counterVecs = make(map[string]*prometheus.CounterVec)
var histogramVecs = make(map[string]*prometheus.HistogramVec)

var defaultLabels prometheus.Labels

// Create registers the metric families. Namespace is the prom
// namespace, host/env become constant labels.
func Create(host string, env string, nameSpace string) error {
	defaultLabels = prometheus.Labels{"env": env, "instance": host}
	namespace = nameSpace
	MetricSystemEnabled = true

	var err error
	hasError := func(e error) {
		if err == nil && e != nil {
			err = e
		}
	}

	hasError(createCounterVec(MetricMutationsTotal, []string{"op", "outcome"}))
	hasError(createCounterVec(MetricReadingsTotal, []string{"result"}))
	hasError(createCounterVec(MetricReportCacheTotal, []string{"result"}))
	hasError(createHistogramVec(MetricMutationDurationSeconds, []string{"op"}))

	return err
}

func createCounterVec(name string, labels []string) error {
	createLock.Lock()
	defer createLock.Unlock()
	if _, ok := counterVecs[name]; ok {
		return nil
	}
	c := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   namespace,
		Name:        name,
		ConstLabels: defaultLabels,
	}, labels)
	if err := prometheus.Register(c); err != nil {
		return err
	}
	counterVecs[name] = c
	return nil
}

func createHistogramVec(name string, labels []string) error {
	createLock.Lock()
	defer createLock.Unlock()
	if _, ok := histogramVecs[name]; ok {
		return nil
	}
	h := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   namespace,
		Name:        name,
		ConstLabels: defaultLabels,
		Buckets:     prometheus.DefBuckets,
	}, labels)
	if err := prometheus.Register(h); err != nil {
		return err
	}
	histogramVecs[name] = h
	return nil
}

func IncCounter(name string, labels ...string) {
	if !MetricSystemEnabled {
		return
	}
	if c, ok := counterVecs[name]; ok {
		c.WithLabelValues(labels...).Inc()
	}
}

func ObserveHistogram(name string, value float64, labels ...string) {
	if !MetricSystemEnabled {
		return
	}
	if h, ok := histogramVecs[name]; ok {
		h.WithLabelValues(labels...).Observe(value)
	}
}

// Handler adapts the promhttp handler for the fasthttp server.
func Handler() xhttp.RequestHandler {
	return fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
}
