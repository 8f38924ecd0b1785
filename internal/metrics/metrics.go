// Package metrics exposes prometheus metrics for ontology translation and
// flat model operations. A nil *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"ontoserver/internal/domain"
)

const namespace = "ontoserver"

// Metrics holds the collectors recorded by the service layer
type Metrics struct {
	// Translation runs by operation (import, export, build, load, save) and result
	translations *prometheus.CounterVec
	// Translation latency by operation
	translationDuration *prometheus.HistogramVec

	// Flat model CRUD by entity kind, operation and result
	operations *prometheus.CounterVec

	// Entities in the flat model store by kind
	entities *prometheus.GaugeVec

	// Axioms in the live formal model
	axioms prometheus.Gauge
}

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		translations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "translate",
			Name:      "runs_total",
			Help:      "Total number of translation runs",
		}, []string{"operation", "result"}),

		translationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "translate",
			Name:      "duration_seconds",
			Help:      "Translation duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		}, []string{"operation"}),

		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Total number of flat model operations",
		}, []string{"kind", "operation", "result"}),

		entities: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "entities",
			Help:      "Number of entities in the flat model store",
		}, []string{"kind"}),

		axioms: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "model",
			Name:      "axioms",
			Help:      "Number of axioms in the live formal model",
		}),
	}

	for _, c := range []prometheus.Collector{
		m.translations, m.translationDuration, m.operations, m.entities, m.axioms,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Result labels an outcome by its error class
func Result(err error) string {
	if err == nil {
		return "ok"
	}
	if class, ok := domain.Classify(err); ok {
		return class.String()
	}
	return "error"
}

// ObserveTranslation records one translation run started at start
func (m *Metrics) ObserveTranslation(operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.translations.WithLabelValues(operation, Result(err)).Inc()
	m.translationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// RecordOperation counts one flat model operation
func (m *Metrics) RecordOperation(kind domain.EntityKind, operation string, err error) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(string(kind), operation, Result(err)).Inc()
}

// SetEntityCounts updates the per-kind entity gauges
func (m *Metrics) SetEntityCounts(counts map[domain.EntityKind]int) {
	if m == nil {
		return
	}
	for _, kind := range domain.Kinds {
		m.entities.WithLabelValues(string(kind)).Set(float64(counts[kind]))
	}
}

// SetAxiomCount updates the live model axiom gauge
func (m *Metrics) SetAxiomCount(n int) {
	if m == nil {
		return
	}
	m.axioms.Set(float64(n))
}
