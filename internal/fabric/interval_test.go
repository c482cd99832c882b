package fabric

import (
	"testing"

	"github.com/beautiful-code/crucible/internal/physics"
)

func TestIntervalRampAdvancesLinearly(t *testing.T) {
	f := New(1)
	a := f.AddJoint(Vector3{X: 0, Y: 0, Z: 0})
	b := f.AddJoint(Vector3{X: 1, Y: 0, Z: 0})
	id := f.AddIntervalRamped(a, b, Pull, 1.0, 2.0, 1.0, 100)

	if !f.Intervals[id].RampActive() {
		t.Fatal("expected active ramp")
	}

	if err := f.Iterate(physics.Viewing, 50); err != nil {
		t.Fatalf("iterate failed: %v", err)
	}
	if !approxEqual(f.Intervals[id].Ideal, 1.5, 1e-4) {
		t.Errorf("expected ideal 1.5 halfway through ramp, got %f", f.Intervals[id].Ideal)
	}

	if err := f.Iterate(physics.Viewing, 50); err != nil {
		t.Fatalf("iterate failed: %v", err)
	}
	if f.Intervals[id].Ideal != 2.0 {
		t.Errorf("expected ideal frozen at 2.0, got %f", f.Intervals[id].Ideal)
	}
	if f.Intervals[id].RampActive() {
		t.Error("ramp should be frozen after countdown expires")
	}

	// Further iteration must not move the frozen ideal.
	if err := f.Iterate(physics.Viewing, 100); err != nil {
		t.Fatalf("iterate failed: %v", err)
	}
	if f.Intervals[id].Ideal != 2.0 {
		t.Errorf("frozen ideal drifted to %f", f.Intervals[id].Ideal)
	}
}

func TestStartRampZeroStepsSnapsToTarget(t *testing.T) {
	iv := NewInterval(0, 1, Pull, 1.0, 1.0, 0)
	iv.StartRamp(3.0, 0)
	if iv.Ideal != 3.0 {
		t.Errorf("expected immediate snap to 3.0, got %f", iv.Ideal)
	}
	if iv.RampActive() {
		t.Error("zero-step ramp should not be active")
	}
}

func TestRemoveIntervalLeavesJointsAlive(t *testing.T) {
	f := New(1)
	a := f.AddJoint(Vector3{X: 0, Y: 0, Z: 0})
	b := f.AddJoint(Vector3{X: 2, Y: 0, Z: 0})
	id := f.AddInterval(a, b, Pull, 1.0, 1.0)

	f.RemoveInterval(id)
	if f.IntervalLive(id) {
		t.Error("removed interval still reported live")
	}
	if len(f.Joints) != 2 {
		t.Errorf("expected joints to survive removal, have %d", len(f.Joints))
	}

	// The now-unreferenced joints are inert: iteration must not move them.
	before := f.Joints[a].Position
	if err := f.Iterate(physics.Construction, 100); err != nil {
		t.Fatalf("iterate failed: %v", err)
	}
	if f.Joints[a].Position != before {
		t.Errorf("inert joint moved: %v -> %v", before, f.Joints[a].Position)
	}
}

func TestRemovedIntervalPanicsOnSecondRemove(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on double remove")
		}
	}()
	f := New(1)
	a := f.AddJoint(Vector3{X: 0, Y: 0, Z: 0})
	b := f.AddJoint(Vector3{X: 1, Y: 0, Z: 0})
	id := f.AddInterval(a, b, Pull, 1.0, 1.0)
	f.RemoveInterval(id)
	f.RemoveInterval(id)
}
