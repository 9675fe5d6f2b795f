package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// EntityMetrics tracks dashboard store mutations and live record counts.
type EntityMetrics struct {
	mutations *prometheus.CounterVec
	records   *prometheus.GaugeVec
}

// NewEntityMetrics registers the entity metrics on the provided registerer.
func NewEntityMetrics(reg prometheus.Registerer) *EntityMetrics {
	if reg == nil {
		return &EntityMetrics{}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "entity_mutations_total",
		Help: "Mutations applied to dashboard entity stores.",
	}, []string{"entity", "op"})
	records := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "entity_records",
		Help: "Records currently held by each entity store.",
	}, []string{"entity"})
	reg.MustRegister(mutations, records)
	return &EntityMetrics{
		mutations: mutations,
		records:   records,
	}
}

// Mutation counts one add/edit/delete style operation on the named entity.
func (m *EntityMetrics) Mutation(entity, op string) {
	if m == nil || m.mutations == nil {
		return
	}
	m.mutations.WithLabelValues(normalizeLabel(entity), normalizeLabel(op)).Inc()
}

// Records sets the current size of the named entity store.
func (m *EntityMetrics) Records(entity string, count int) {
	if m == nil || m.records == nil {
		return
	}
	m.records.WithLabelValues(normalizeLabel(entity)).Set(float64(count))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
