// Package metrics records the outcome of item loads as Prometheus metrics.
package metrics

import (
	"context"
	"time"

	itemservice "github.com/karupanerura/item-service"
	"github.com/prometheus/client_golang/prometheus"
)

// Result label values.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Collector provides item load metrics collection.
type Collector struct {
	registry *prometheus.Registry

	loadsTotal   *prometheus.CounterVec
	loadLatency  *prometheus.HistogramVec
	items        *prometheus.GaugeVec
	cacheErrors  *prometheus.CounterVec
	backgroundTs *prometheus.GaugeVec
}

// NewCollector creates a new collector registering its metrics to a new registry.
func NewCollector(namespace string) *Collector {
	if namespace == "" {
		namespace = "items"
	}

	c := &Collector{
		registry: prometheus.NewRegistry(),
	}

	c.loadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "load",
			Name:      "total",
			Help:      "Total number of item loads",
		},
		[]string{"list", "result"},
	)
	c.loadLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "load",
			Name:      "duration_seconds",
			Help:      "Time taken to load a list of items",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
		},
		[]string{"list", "result"},
	)
	c.items = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "load",
			Name:      "items",
			Help:      "Number of items of the last successful load",
		},
		[]string{"list"},
	)
	c.cacheErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "errors_total",
			Help:      "Total number of swallowed cache errors",
		},
		[]string{"list"},
	)
	c.backgroundTs = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "refresh",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful background refresh",
		},
		[]string{"list"},
	)

	c.registry.MustRegister(
		c.loadsTotal,
		c.loadLatency,
		c.items,
		c.cacheErrors,
		c.backgroundTs,
	)
	return c
}

// Registry returns the registry holding the metrics of the collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordLoad records a finished load of the named list.
func (c *Collector) RecordLoad(list string, duration time.Duration, items int, err error) {
	result := ResultSuccess
	if err != nil {
		result = ResultFailure
	}
	c.loadsTotal.WithLabelValues(list, result).Inc()
	c.loadLatency.WithLabelValues(list, result).Observe(duration.Seconds())
	if err == nil {
		c.items.WithLabelValues(list).Set(float64(items))
	}
}

// RecordCacheError records a cache error of the named list that did not fail a load.
func (c *Collector) RecordCacheError(list string) {
	c.cacheErrors.WithLabelValues(list).Inc()
}

// RecordRefresh records a successful background refresh of the named list.
func (c *Collector) RecordRefresh(list string, at time.Time) {
	c.backgroundTs.WithLabelValues(list).Set(float64(at.Unix()))
}

// Instrument returns a service that records every load of svc under the given list name.
// The result of svc is returned unchanged.
func (c *Collector) Instrument(list string, svc itemservice.ItemService) itemservice.ItemService {
	return itemservice.ItemServiceFunc(func(ctx context.Context) ([]itemservice.ItemView, error) {
		start := time.Now()
		items, err := svc.LoadItems(ctx)
		c.RecordLoad(list, time.Since(start), len(items), err)
		return items, err
	})
}

// InstrumentLoader is the itemservice.Loader version of Collector.Instrument.
func InstrumentLoader[T any](c *Collector, list string, loader itemservice.Loader[T]) itemservice.Loader[T] {
	return itemservice.LoaderFunc[T](func(ctx context.Context) ([]T, error) {
		start := time.Now()
		items, err := loader.Load(ctx)
		c.RecordLoad(list, time.Since(start), len(items), err)
		return items, err
	})
}
