package stage

import (
	"github.com/beautiful-code/crucible/internal/fabric"
	"github.com/beautiful-code/crucible/internal/physics"
	"github.com/beautiful-code/crucible/internal/progress"
	"github.com/beautiful-code/crucible/internal/radio"
)

// ConvergerConfig bundles the tunables a Crucible supplies when it enters
// the converge stage after pretensing.
type ConvergerConfig struct {
	Fabric      *fabric.Fabric
	InitialDrag float32
	Duration    float64
}

// Converger runs the Pretensing profile with a drag coefficient rising
// linearly from its initial value to 1.0 over the configured duration.
// On completion it zeroes all velocities and broadcasts
// DisableConvergence; the Fabric itself carries no frozen flag, and
// nothing stops a later Iterate on it from moving its joints again.
type Converger struct {
	cfg      ConvergerConfig
	progress progress.Progress
	radio    radio.Radio
	done     bool
}

// NewConverger starts the convergence countdown.
func NewConverger(cfg ConvergerConfig, r radio.Radio) *Converger {
	c := &Converger{cfg: cfg, radio: r}
	c.progress.Start(cfg.Duration)
	return c
}

func (c *Converger) currentDrag() float32 {
	nuance := c.progress.Nuance()
	return c.cfg.InitialDrag + (1-c.cfg.InitialDrag)*nuance
}

// Iterate implements Controller.
func (c *Converger) Iterate(nominalSubSteps int) Outcome {
	if c.done {
		return doneOutcome()
	}
	profile := physics.Pretensing.WithDrag(c.currentDrag())
	if err := c.cfg.Fabric.Iterate(profile, nominalSubSteps); err != nil {
		return failedOutcome(UnstableStructure, "convergence unstable: %v", err)
	}
	c.progress.Decrement(float64(nominalSubSteps) * float64(fabric.SubStepDuration))
	if c.progress.IsBusy() {
		return continueOutcome()
	}
	c.freeze()
	return doneOutcome()
}

func (c *Converger) freeze() {
	for i := range c.cfg.Fabric.Joints {
		c.cfg.Fabric.Joints[i].Velocity = fabric.Vector3{}
	}
	c.done = true
	c.radio.Broadcast(radio.Event{Kind: radio.DisableConvergence})
}
