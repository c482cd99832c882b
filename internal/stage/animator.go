package stage

import (
	"github.com/beautiful-code/crucible/internal/fabric"
	"github.com/beautiful-code/crucible/internal/physics"
)

// Script is the external build phase's scripted brick-attachment
// sequence. Animator only knows how to drive one to completion one
// sub-step group at a time; constructing an actual script (parsing a
// brick/fabric DSL, attaching bricks along faces) belongs to the build
// phase, not the engine.
type Script interface {
	// Step advances the script by one nominal unit of sub-steps against
	// fab and reports whether the script has finished.
	Step(fab *fabric.Fabric, nominalSubSteps int) (done bool)
}

// NoOpScript is a Script that reports completion on its first Step, used
// when a Crucible enters Building/Shaping with nothing queued.
type NoOpScript struct{}

func (NoOpScript) Step(*fabric.Fabric, int) bool { return true }

// Animator executes a Script's build animation over Construction physics,
// reporting Done when the script signals completion.
type Animator struct {
	fab    *fabric.Fabric
	script Script
}

// NewAnimator pairs a script with the fabric it mutates.
func NewAnimator(fab *fabric.Fabric, script Script) *Animator {
	if script == nil {
		script = NoOpScript{}
	}
	return &Animator{fab: fab, script: script}
}

// Iterate implements Controller.
func (a *Animator) Iterate(nominalSubSteps int) Outcome {
	done := a.script.Step(a.fab, nominalSubSteps)
	if err := a.fab.Iterate(physics.Construction, nominalSubSteps); err != nil {
		return failedOutcome(UnstableStructure, "build animation unstable: %v", err)
	}
	if done {
		return doneOutcome()
	}
	return continueOutcome()
}
