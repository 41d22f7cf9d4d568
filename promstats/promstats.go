// Package promstats exports store metrics to Prometheus.
package promstats

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	memopt "github.com/romanmarkunas-com/0010-memory-optimization"
)

const namespace = "memopt"

// Collector implements memopt.MetricsCollector on Prometheus metrics and
// publishes store statistics as gauges.
type Collector struct {
	opLatency *prometheus.HistogramVec
	lookups   *prometheus.CounterVec

	records      prometheus.Gauge
	users        prometheus.Gauge
	pooledValues prometheus.Gauge
	pooledBytes  prometheus.Gauge
	poolCapacity prometheus.Gauge
	slabs        prometheus.Gauge
	slabBytes    prometheus.Gauge
	freeRuns     prometheus.Gauge
	memoryUsed   prometheus.Gauge
	memoryPeak   prometheus.Gauge
}

var _ memopt.MetricsCollector = (*Collector)(nil)

// New creates a Collector and registers its metrics with reg. A nil reg
// uses the default registerer.
func New(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: name, Help: help})
	}

	c := &Collector{
		opLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_latency_seconds",
			Help:      "Latency of store operations",
			Buckets:   prometheus.ExponentialBuckets(1e-7, 4, 10),
		}, []string{"op", "status"}),
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookups_total",
			Help:      "Lookups by id or user",
		}, []string{"result"}),
		records:      gauge("records", "Stored records"),
		users:        gauge("users", "Distinct users with at least one record"),
		pooledValues: gauge("pooled_values", "Distinct values held by the pool"),
		pooledBytes:  gauge("pooled_bytes", "Content bytes held by the pool"),
		poolCapacity: gauge("pool_capacity_slots", "Slots in the pool table"),
		slabs:        gauge("slabs", "Allocated record slabs"),
		slabBytes:    gauge("slab_bytes", "Bytes held by record slabs"),
		freeRuns:     gauge("slab_free_runs", "Free runs across all slabs"),
		memoryUsed:   gauge("memory_used_bytes", "Bytes charged against the memory limit"),
		memoryPeak:   gauge("memory_peak_bytes", "Highest memory_used_bytes observed"),
	}

	for _, m := range []prometheus.Collector{
		c.opLatency, c.lookups,
		c.records, c.users, c.pooledValues, c.pooledBytes, c.poolCapacity,
		c.slabs, c.slabBytes, c.freeRuns, c.memoryUsed, c.memoryPeak,
	} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Collector) observe(op string, d time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	c.opLatency.WithLabelValues(op, status).Observe(d.Seconds())
}

// RecordInsert implements memopt.MetricsCollector.
func (c *Collector) RecordInsert(d time.Duration, err error) { c.observe("insert", d, err) }

// RecordDelete implements memopt.MetricsCollector.
func (c *Collector) RecordDelete(d time.Duration, err error) { c.observe("delete", d, err) }

// RecordUpdate implements memopt.MetricsCollector.
func (c *Collector) RecordUpdate(d time.Duration, err error) { c.observe("update", d, err) }

// RecordLookup implements memopt.MetricsCollector.
func (c *Collector) RecordLookup(found bool) {
	result := "hit"
	if !found {
		result = "miss"
	}
	c.lookups.WithLabelValues(result).Inc()
}

// Observe publishes a stats snapshot.
func (c *Collector) Observe(st memopt.Stats) {
	c.records.Set(float64(st.Records))
	c.users.Set(float64(st.Users))
	c.pooledValues.Set(float64(st.PooledValues))
	c.pooledBytes.Set(float64(st.PooledBytes))
	c.poolCapacity.Set(float64(st.PoolCapacity))
	c.slabs.Set(float64(st.Slabs))
	c.slabBytes.Set(float64(st.SlabBytes))
	c.freeRuns.Set(float64(st.FreeRuns))
	c.memoryUsed.Set(float64(st.MemoryUsed))
	c.memoryPeak.Set(float64(st.MemoryPeak))
}
