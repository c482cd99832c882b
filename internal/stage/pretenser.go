package stage

import (
	"github.com/beautiful-code/crucible/internal/fabric"
	"github.com/beautiful-code/crucible/internal/physics"
	"github.com/beautiful-code/crucible/internal/progress"
)

// PretenseSubState tags where a Pretenser is within its internal
// {Start, Slacken, Pretensing, Pretenst} sequence.
type PretenseSubState int

const (
	PretenseStart PretenseSubState = iota
	PretenseSlacken
	PretensingActive
	Pretenst
)

// PretenserConfig bundles the tunables a Crucible supplies when it enters
// Pretensing.
type PretenserConfig struct {
	Fabric         *fabric.Fabric
	TargetAltitude float32
	PretenstTarget float32
	Duration       float64 // simulated seconds
	RampSteps      int
}

// Pretenser centralizes the structure, ramps pull intervals toward their
// target resting tension, and runs the Pretensing profile until its
// Progress expires.
type Pretenser struct {
	cfg      PretenserConfig
	progress progress.Progress
	state    PretenseSubState
	profile  physics.Profile
}

// NewPretenser arms the structure's ramps and centralization immediately
// (the Start/Slacken sub-states), leaving PretensingActive as the steady
// state Iterate advances through.
func NewPretenser(cfg PretenserConfig) *Pretenser {
	p := &Pretenser{cfg: cfg, state: PretenseStart}
	p.profile = physics.Pretensing
	p.profile.Pretenst = cfg.PretenstTarget

	p.cfg.Fabric.Centralize(cfg.TargetAltitude)
	p.state = PretenseSlacken

	for i := range p.cfg.Fabric.Intervals {
		iv := &p.cfg.Fabric.Intervals[i]
		if iv.Role != fabric.Pull {
			continue
		}
		// Measure the span from joint positions rather than trusting the
		// cached CurrentLength, which is stale until the first sub-step.
		span := p.cfg.Fabric.Joints[iv.Omega].Position.Sub(p.cfg.Fabric.Joints[iv.Alpha].Position)
		_, length := span.Normalize()
		target := length / (1 + cfg.PretenstTarget)
		if target <= 0 {
			target = iv.Ideal
		}
		iv.StartRamp(target, cfg.RampSteps)
	}

	p.progress.Start(cfg.Duration)
	p.state = PretensingActive
	return p
}

// SubState reports the Pretenser's current internal state.
func (p *Pretenser) SubState() PretenseSubState { return p.state }

// Iterate implements Controller.
func (p *Pretenser) Iterate(nominalSubSteps int) Outcome {
	if !p.progress.IsBusy() {
		p.state = Pretenst
		return doneOutcome()
	}
	if err := p.cfg.Fabric.Iterate(p.profile, nominalSubSteps); err != nil {
		return failedOutcome(UnstableStructure, "pretensing unstable: %v", err)
	}
	p.progress.Decrement(float64(nominalSubSteps) * float64(fabric.SubStepDuration))
	if !p.progress.IsBusy() {
		p.state = Pretenst
		return doneOutcome()
	}
	return continueOutcome()
}
