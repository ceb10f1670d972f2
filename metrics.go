package warehouse

import "github.com/prometheus/client_golang/prometheus"

// MetricsRecorder publishes gauges describing the live state of a
// Storage: entity count, archetype count, and whether it is locked.
// It is optional — nothing in this package requires one, and a nil
// *MetricsRecorder is safe to call Observe on.
type MetricsRecorder struct {
	entities   prometheus.Gauge
	archetypes prometheus.Gauge
	locked     prometheus.Gauge
}

// NewMetricsRecorder builds a MetricsRecorder and registers its gauges
// against reg.
func NewMetricsRecorder(reg prometheus.Registerer) *MetricsRecorder {
	m := &MetricsRecorder{
		entities: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "warehouse",
			Name:      "entities",
			Help:      "Number of live entities across every archetype in a storage.",
		}),
		archetypes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "warehouse",
			Name:      "archetypes",
			Help:      "Number of distinct archetypes a storage has created.",
		}),
		locked: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "warehouse",
			Name:      "storage_locked",
			Help:      "1 if a storage currently has an outstanding lock, 0 otherwise.",
		}),
	}
	reg.MustRegister(m.entities, m.archetypes, m.locked)
	return m
}

// Observe snapshots sto's current entity count, archetype count, and
// lock state into the recorder's gauges.
func (m *MetricsRecorder) Observe(sto Storage) {
	if m == nil || sto == nil {
		return
	}
	archetypes := sto.Archetypes()
	m.archetypes.Set(float64(len(archetypes)))

	total := 0
	for _, a := range archetypes {
		total += a.Table().Length()
	}
	m.entities.Set(float64(total))

	if sto.Locked() {
		m.locked.Set(1)
	} else {
		m.locked.Set(0)
	}
}
