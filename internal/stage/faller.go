package stage

import (
	"github.com/beautiful-code/crucible/internal/fabric"
	"github.com/beautiful-code/crucible/internal/physics"
	"github.com/beautiful-code/crucible/internal/progress"
)

// FallerConfig bundles the tunables a Crucible supplies when entering the
// free-fall stage.
type FallerConfig struct {
	Fabric   *fabric.Fabric
	Surface  physics.SurfaceMode
	Duration float64 // simulated seconds
}

// Faller switches to the PhysicsTest profile with minimal drag and runs
// for a scripted duration, letting the structure free-fall and strike
// the surface.
type Faller struct {
	cfg      FallerConfig
	progress progress.Progress
	profile  physics.Profile
}

// NewFaller starts the fall countdown.
func NewFaller(cfg FallerConfig) *Faller {
	f := &Faller{cfg: cfg}
	f.profile = physics.PhysicsTest.WithDrag(1e-4)
	f.profile.Surface = cfg.Surface
	f.progress.Start(cfg.Duration)
	return f
}

// Iterate implements Controller.
func (f *Faller) Iterate(nominalSubSteps int) Outcome {
	if !f.progress.IsBusy() {
		return doneOutcome()
	}
	if err := f.cfg.Fabric.Iterate(f.profile, nominalSubSteps); err != nil {
		return failedOutcome(UnstableStructure, "fall unstable: %v", err)
	}
	f.progress.Decrement(float64(nominalSubSteps) * float64(fabric.SubStepDuration))
	if !f.progress.IsBusy() {
		return doneOutcome()
	}
	return continueOutcome()
}
