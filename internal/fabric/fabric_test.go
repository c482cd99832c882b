package fabric

import (
	"math"
	"testing"

	"github.com/beautiful-code/crucible/internal/physics"
)

func approxEqual(a, b, tol float32) bool {
	return float32(math.Abs(float64(a-b))) <= tol
}

func TestPullRelaxation(t *testing.T) {
	f := New(1)
	a := f.AddJoint(Vector3{X: 0, Y: 0, Z: 0})
	b := f.AddJoint(Vector3{X: 2, Y: 0, Z: 0})
	f.AddInterval(a, b, Pull, 1.0, 1.0)

	profile := physics.Construction.WithDrag(0.1)
	if err := f.Iterate(profile, 20000); err != nil {
		t.Fatalf("iterate failed: %v", err)
	}

	sep := f.Joints[b].Position.Sub(f.Joints[a].Position)
	_, length := sep.Normalize()
	if !approxEqual(length, 1.0, 0.02) {
		t.Errorf("expected separation near 1.0, got %f", length)
	}

	mid := f.Joints[a].Position.Add(f.Joints[b].Position).Scale(0.5)
	if !approxEqual(mid.X, 1.0, 1e-3) {
		t.Errorf("centroid drifted: mid.X = %f", mid.X)
	}
}

func TestPushCompression(t *testing.T) {
	f := New(1)
	a := f.AddJoint(Vector3{X: 0, Y: 0, Z: 0})
	b := f.AddJoint(Vector3{X: 0.5, Y: 0, Z: 0})
	f.AddInterval(a, b, Push, 1.0, 1.0)

	profile := physics.Construction.WithDrag(0.1)
	if err := f.Iterate(profile, 20000); err != nil {
		t.Fatalf("iterate failed: %v", err)
	}

	sep := f.Joints[b].Position.Sub(f.Joints[a].Position)
	_, length := sep.Normalize()
	if !approxEqual(length, 1.0, 0.02) {
		t.Errorf("expected separation near 1.0, got %f", length)
	}
}

func TestPushForbiddenTension(t *testing.T) {
	f := New(1)
	a := f.AddJoint(Vector3{X: 0, Y: 0, Z: 0})
	b := f.AddJoint(Vector3{X: 2, Y: 0, Z: 0})
	f.AddInterval(a, b, Push, 1.0, 1.0)

	profile := physics.Construction.WithDrag(0.1)
	before := f.Joints[b].Position
	if err := f.Iterate(profile, 100); err != nil {
		t.Fatalf("iterate failed: %v", err)
	}
	after := f.Joints[b].Position
	if !approxEqual(before.X, after.X, 1e-6) {
		t.Errorf("push interval moved joint under tension: %v -> %v", before, after)
	}
}

func TestFreeFall(t *testing.T) {
	f := New(1)
	f.AddJoint(Vector3{X: 0, Y: 1, Z: 0})

	profile := physics.PhysicsTest.WithDrag(0)
	dt := float64(SubStepDuration)

	prevEnergy := math.MaxFloat64
	contact := false
	for step := 0; step < 200000; step++ {
		if err := f.Iterate(profile, 1); err != nil {
			t.Fatalf("iterate failed at step %d: %v", step, err)
		}
		simT := dt * float64(step+1)
		y := float64(f.Joints[0].Position.Y)
		if !contact {
			expected := 1 - 0.5*9.8*simT*simT
			if expected > 0.05 && math.Abs(y-expected) > 0.01*math.Abs(expected) {
				t.Fatalf("trajectory deviates at t=%.4f: got %f want %f", simT, y, expected)
			}
			if y < 0.01 {
				contact = true
			}
		} else {
			// Specific mechanical energy dissipates monotonically: the
			// integrator loses 0.5*(g*dt)^2 per step in flight and each
			// bounce scales velocity down by the restitution factor. The
			// energy is summed in float64: a float32 v.Dot(v) near 19.6
			// rounds in steps of about 2e-6, coarser than the tolerance.
			v := f.Joints[0].Velocity
			vx, vy, vz := float64(v.X), float64(v.Y), float64(v.Z)
			energy := 0.5*(vx*vx+vy*vy+vz*vz) + 9.8*y
			if energy > prevEnergy+1e-6 {
				t.Fatalf("mechanical energy increased after contact at t=%.4f: %f -> %f", simT, prevEnergy, energy)
			}
			prevEnergy = energy
		}
	}
}

func TestSurfaceFrozenLatches(t *testing.T) {
	f := New(1)
	f.AddJoint(Vector3{X: 0, Y: 0.001, Z: 0})

	profile := physics.PhysicsTest.WithDrag(0)
	profile.Surface = physics.SurfaceFrozen

	latchedAt := -1
	for step := 0; step < 1000; step++ {
		if err := f.Iterate(profile, 1); err != nil {
			t.Fatalf("iterate failed: %v", err)
		}
		if f.Joints[0].TouchedFrozenSurface() {
			latchedAt = step
			break
		}
	}
	if latchedAt < 0 {
		t.Fatal("joint never latched to frozen surface")
	}
	frozenPos := f.Joints[0].Position
	for step := 0; step < 100; step++ {
		if err := f.Iterate(profile, 1); err != nil {
			t.Fatalf("iterate failed: %v", err)
		}
		if f.Joints[0].Position != frozenPos {
			t.Fatalf("frozen joint moved: %v -> %v", frozenPos, f.Joints[0].Position)
		}
	}
}

func TestAgeIsMonotone(t *testing.T) {
	f := New(1)
	f.AddJoint(Vector3{})
	start := f.Age
	if err := f.Iterate(physics.Viewing, 500); err != nil {
		t.Fatalf("iterate failed: %v", err)
	}
	if f.Age != start+500 {
		t.Errorf("age increased by %d, want 500", f.Age-start)
	}
}

func TestUnstableStructureHalts(t *testing.T) {
	f := New(1)
	a := f.AddJoint(Vector3{X: 0, Y: 0, Z: 0})
	b := f.AddJoint(Vector3{X: 10, Y: 0, Z: 0})
	f.AddInterval(a, b, Pull, 1.0, 50.0)

	profile := physics.Construction.WithDrag(0)
	err := f.Iterate(profile, 1000)
	if err == nil {
		t.Fatal("expected unstable structure error")
	}
	var unstable UnstableStructureError
	if !asUnstable(err, &unstable) {
		t.Fatalf("expected UnstableStructureError, got %v", err)
	}
}

func asUnstable(err error, target *UnstableStructureError) bool {
	u, ok := err.(UnstableStructureError)
	if ok {
		*target = u
	}
	return ok
}

func TestBadJointIndexPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on bad joint index")
		}
	}()
	f := New(1)
	f.AddJoint(Vector3{})
	f.AddInterval(0, 5, Pull, 1.0, 1.0)
}

func TestZeroLengthIntervalHarmless(t *testing.T) {
	f := New(1)
	a := f.AddJoint(Vector3{X: 1, Y: 1, Z: 1})
	b := f.AddJoint(Vector3{X: 1, Y: 1, Z: 1})
	f.AddInterval(a, b, Pull, 1.0, 1.0)

	if err := f.Iterate(physics.Construction.WithDrag(0.1), 10); err != nil {
		t.Fatalf("iterate failed: %v", err)
	}
	if !f.Finite() {
		t.Fatal("zero-length interval produced non-finite joint")
	}
}
