package stage

import (
	"github.com/beautiful-code/crucible/internal/fabric"
	"github.com/beautiful-code/crucible/internal/physics"
	"github.com/beautiful-code/crucible/internal/progress"
)

// SettlerConfig bundles the tunables a Crucible supplies when entering
// the settle stage after a fall.
type SettlerConfig struct {
	Fabric      *fabric.Fabric
	Surface     physics.SurfaceMode
	InitialDrag float32
	Duration    float64
}

// Settler continues with the PhysicsTest profile under progressively
// increasing drag until its Progress completes. Joints that touch a
// Frozen surface become anchored automatically inside Fabric's own
// surface rule; Settler only supplies the rising drag schedule.
type Settler struct {
	cfg      SettlerConfig
	progress progress.Progress
}

// NewSettler starts the settle countdown.
func NewSettler(cfg SettlerConfig) *Settler {
	s := &Settler{cfg: cfg}
	s.progress.Start(cfg.Duration)
	return s
}

func (s *Settler) currentDrag() float32 {
	nuance := s.progress.Nuance()
	return s.cfg.InitialDrag + (0.5-s.cfg.InitialDrag)*nuance
}

// Iterate implements Controller.
func (s *Settler) Iterate(nominalSubSteps int) Outcome {
	if !s.progress.IsBusy() {
		return doneOutcome()
	}
	profile := physics.PhysicsTest.WithDrag(s.currentDrag())
	profile.Surface = s.cfg.Surface
	if err := s.cfg.Fabric.Iterate(profile, nominalSubSteps); err != nil {
		return failedOutcome(UnstableStructure, "settle unstable: %v", err)
	}
	s.progress.Decrement(float64(nominalSubSteps) * float64(fabric.SubStepDuration))
	if !s.progress.IsBusy() {
		return doneOutcome()
	}
	return continueOutcome()
}
