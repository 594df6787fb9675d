// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	initOnce sync.Once

	recordsGeneratedCounter   *prometheus.CounterVec
	validationFailuresCounter *prometheus.CounterVec
	generationDurationMetric  prometheus.Histogram
	providerFallbacksCounter  prometheus.Counter
	patternReloadsCounter     prometheus.Counter
)

// Init registers metrics on the default Prometheus registry exactly once.
func Init() {
	initOnce.Do(func() {
		recordsGeneratedCounter = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "records_generated_total",
				Help: "Total number of log records generated, by pattern and generator type.",
			},
			[]string{"pattern", "generator"},
		)

		validationFailuresCounter = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "validation_failures_total",
				Help: "Total number of record validation failures by validator kind.",
			},
			[]string{"kind"},
		)

		generationDurationMetric = prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "generation_duration_seconds",
				Help:    "Duration of validate-and-serialize calls in seconds.",
				Buckets: prometheus.DefBuckets,
			},
		)

		providerFallbacksCounter = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "provider_fallbacks_total",
				Help: "Total number of value resolutions that fell back to the literal spec.",
			},
		)

		patternReloadsCounter = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "pattern_reloads_total",
				Help: "Total number of pattern directory reloads.",
			},
		)

		prometheus.MustRegister(
			recordsGeneratedCounter,
			validationFailuresCounter,
			generationDurationMetric,
			providerFallbacksCounter,
			patternReloadsCounter,
		)

		// Ensure failure kinds are visible at /metrics before the
		// first increment.
		for _, kind := range []string{"descriptor", "schema", "security", "generator"} {
			validationFailuresCounter.WithLabelValues(kind)
		}
	})
}

func IncRecordGenerated(pattern, generator string) {
	Init()
	recordsGeneratedCounter.WithLabelValues(pattern, generator).Inc()
}

func IncValidationFailure(kind string) {
	Init()
	validationFailuresCounter.WithLabelValues(kind).Inc()
}

func ObserveGenerationDuration(d time.Duration) {
	Init()
	generationDurationMetric.Observe(d.Seconds())
}

func IncProviderFallback() {
	Init()
	providerFallbacksCounter.Inc()
}

func IncPatternReload() {
	Init()
	patternReloadsCounter.Inc()
}
