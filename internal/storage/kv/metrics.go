package kv

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts and times bucket operations.
type Metrics struct {
	ops      *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the bucket collectors and registers them on reg.
// Collectors already registered on reg are reused.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	ops, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pagestore",
		Subsystem: "kv",
		Name:      "operations_total",
		Help:      "Bucket operations by result (ok, miss, error).",
	}, []string{"bucket", "op", "result"}))
	if err != nil {
		return nil, err
	}

	duration, err := register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "pagestore",
		Subsystem: "kv",
		Name:      "operation_duration_seconds",
		Help:      "Bucket operation latency.",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
	}, []string{"bucket", "op"}))
	if err != nil {
		return nil, err
	}

	return &Metrics{ops: ops, duration: duration}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		var zero C
		return zero, err
	}
	return c, nil
}

// Instrument wraps b so every operation is recorded in m.
func Instrument(b Bucket, m *Metrics) Bucket {
	return &instrumentedBucket{Bucket: b, m: m}
}

type instrumentedBucket struct {
	Bucket
	m *Metrics
}

func (b *instrumentedBucket) observe(op string, start time.Time, result string) {
	name := b.Bucket.Name()
	b.m.ops.WithLabelValues(name, op, result).Inc()
	b.m.duration.WithLabelValues(name, op).Observe(time.Since(start).Seconds())
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (b *instrumentedBucket) Get(key string) (string, bool, error) {
	start := time.Now()
	value, ok, err := b.Bucket.Get(key)
	res := result(err)
	if err == nil && !ok {
		res = "miss"
	}
	b.observe("get", start, res)
	return value, ok, err
}

func (b *instrumentedBucket) Set(key, value string) error {
	start := time.Now()
	err := b.Bucket.Set(key, value)
	b.observe("set", start, result(err))
	return err
}

func (b *instrumentedBucket) Delete(key string) (bool, error) {
	start := time.Now()
	existed, err := b.Bucket.Delete(key)
	res := result(err)
	if err == nil && !existed {
		res = "miss"
	}
	b.observe("delete", start, res)
	return existed, err
}

func (b *instrumentedBucket) Keys() ([]string, error) {
	start := time.Now()
	keys, err := b.Bucket.Keys()
	b.observe("keys", start, result(err))
	return keys, err
}

func (b *instrumentedBucket) Clear() error {
	start := time.Now()
	err := b.Bucket.Clear()
	b.observe("clear", start, result(err))
	return err
}
