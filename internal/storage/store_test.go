package storage

import (
	"testing"

	"github.com/beautiful-code/crucible/internal/analysis"
	"github.com/beautiful-code/crucible/internal/fabric"
	"github.com/beautiful-code/crucible/internal/library"
)

func sampleHistory() *analysis.History {
	hist := analysis.NewHistory(4)
	hist.Record(analysis.Sample{Age: 1000, SimTime: 0.05, MaxSpeed: 0.5, MaxStrain: 0.2, Altitude: 1.0})
	hist.Record(analysis.Sample{Age: 2000, SimTime: 0.10, MaxSpeed: 1e-7, MaxStrain: 0.1, Altitude: 0.5})
	return hist
}

func sampleBrick() *library.BakedBrick {
	return &library.BakedBrick{
		ID:   library.NewBakedBrickID(),
		Name: "single-right",
		Joints: []fabric.Vector3{
			{X: 1, Y: 0, Z: 0},
			{X: -1, Y: 0, Z: 0},
		},
		Intervals: []library.BakedInterval{
			{Alpha: 0, Omega: 1, Role: fabric.Push, Ideal: 2.0, Strain: -0.01},
		},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	brick := sampleBrick()
	runID, err := st.Save("single-right", brick, sampleHistory())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Fatal("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Prototype != "single-right" {
		t.Errorf("expected prototype 'single-right', got %q", meta.Prototype)
	}
	if meta.BrickID != brick.ID.String() {
		t.Errorf("expected brick id %s, got %s", brick.ID, meta.BrickID)
	}
	if meta.FinalAge != 2000 {
		t.Errorf("expected final age 2000, got %d", meta.FinalAge)
	}

	loaded, err := st.LoadBrick(runID)
	if err != nil {
		t.Fatalf("load brick failed: %v", err)
	}
	if loaded.Name != brick.Name || len(loaded.Intervals) != 1 {
		t.Errorf("brick did not round-trip: %+v", loaded)
	}

	hist, err := st.LoadHistory(runID)
	if err != nil {
		t.Fatalf("load history failed: %v", err)
	}
	if len(hist.Samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(hist.Samples))
	}
	if hist.Samples[1].Age != 2000 {
		t.Errorf("expected sample age 2000, got %d", hist.Samples[1].Age)
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected empty store, got %d runs", len(runs))
	}

	if _, err := st.Save("single-right", nil, sampleHistory()); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 run, got %d", len(runs))
	}
}

func TestStoreListMissingDir(t *testing.T) {
	st := New("/nonexistent/crucible-store")
	runs, err := st.List()
	if err != nil {
		t.Fatalf("expected missing dir to list as empty, got %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}
