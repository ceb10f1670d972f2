package warehouse

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/archtable/warehouse/table"
)

func TestMetricsRecorderObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	recorder := NewMetricsRecorder(reg)

	schema := table.Factory.NewSchema()
	storage := Factory.NewStorage(schema)
	posComp := FactoryNewComponent[Position]()
	velComp := FactoryNewComponent[Velocity]()

	if _, err := storage.NewEntities(4, posComp); err != nil {
		t.Fatalf("NewEntities failed: %v", err)
	}
	if _, err := storage.NewEntities(3, posComp, velComp); err != nil {
		t.Fatalf("NewEntities failed: %v", err)
	}

	recorder.Observe(storage)

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}

	values := make(map[string]float64)
	for _, mf := range metrics {
		values[mf.GetName()] = mf.GetMetric()[0].GetGauge().GetValue()
	}

	if got := values["warehouse_entities"]; got != 7 {
		t.Errorf("warehouse_entities = %v, want 7", got)
	}
	if got := values["warehouse_archetypes"]; got != 2 {
		t.Errorf("warehouse_archetypes = %v, want 2", got)
	}
	if got := values["warehouse_storage_locked"]; got != 0 {
		t.Errorf("warehouse_storage_locked = %v, want 0", got)
	}

	storage.AddLock()
	recorder.Observe(storage)
	metrics, _ = reg.Gather()
	for _, mf := range metrics {
		if mf.GetName() == "warehouse_storage_locked" {
			if got := mf.GetMetric()[0].GetGauge().GetValue(); got != 1 {
				t.Errorf("warehouse_storage_locked after AddLock = %v, want 1", got)
			}
		}
	}
}

func TestMetricsRecorderNilSafe(t *testing.T) {
	var recorder *MetricsRecorder
	schema := table.Factory.NewSchema()
	storage := Factory.NewStorage(schema)

	// Must not panic.
	recorder.Observe(storage)
}
