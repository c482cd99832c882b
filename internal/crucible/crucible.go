// Package crucible implements the macro state machine that sequences the
// stage controllers over a single Fabric: Initialization, Building,
// Shaping, Pretensing, Viewing, PhysicsTesting. It is the one component
// a host actually drives, one tick at a time.
package crucible

import (
	"github.com/beautiful-code/crucible/internal/fabric"
	"github.com/beautiful-code/crucible/internal/library"
	"github.com/beautiful-code/crucible/internal/physics"
	"github.com/beautiful-code/crucible/internal/radio"
	"github.com/beautiful-code/crucible/internal/stage"
)

// Stage is the Crucible's current macro state.
type Stage int

const (
	Initialization Stage = iota
	Building
	Shaping
	Pretensing
	Viewing
	PhysicsTesting
)

func (s Stage) String() string {
	switch s {
	case Initialization:
		return "Initialization"
	case Building:
		return "Building"
	case Shaping:
		return "Shaping"
	case Pretensing:
		return "Pretensing"
	case Viewing:
		return "Viewing"
	case PhysicsTesting:
		return "PhysicsTesting"
	default:
		return "Unknown"
	}
}

// targetTimeScale maps a macro stage to its nominal simulated-seconds per
// wall-second multiplier: 5x while constructing and pretensing, frozen
// during Viewing, 1x real time during PhysicsTesting.
func (s Stage) targetTimeScale() float32 {
	switch s {
	case Building, Shaping, Pretensing:
		return 5.0
	case PhysicsTesting:
		return 1.0
	default:
		return 0.0
	}
}

// Config bundles every tunable a Crucible needs to construct its stage
// controllers. BuildScript/ShapeScript are left nil for a design with no
// external build phase wired in, in which case Building/Shaping complete
// immediately via NoOpScript.
type Config struct {
	BuildScript stage.Script
	ShapeScript stage.Script

	TargetAltitude      float32
	PretenstTarget      float32
	PretenseDuration    float64
	PretenseRampSteps   int
	ConvergeInitialDrag float32
	ConvergeDuration    float64
	FallDuration        float64
	Surface             physics.SurfaceMode
	SettleInitialDrag   float32
	SettleDuration      float64
}

// Crucible owns the Fabric, the active PhysicsProfile implied by its
// stage, a BrickLibrary, a Radio, and the current stage with its
// controller(s). Built-in stages that internally sequence more than one
// stage controller (Pretensing drives Pretenser then Converger;
// PhysicsTesting drives Faller then Settler) hold the remainder of that
// sequence in queue.
type Crucible struct {
	fab      *fabric.Fabric
	brickLib library.BrickLibrary
	radio    radio.Radio
	cfg      Config

	curStage Stage
	active   stage.Controller
	queue    []stage.Controller
}

// New constructs a Crucible already past Initialization and into
// Building. Initialization is a momentary stage; its entry is the first
// of the run's StageEntered events.
func New(fab *fabric.Fabric, brickLib library.BrickLibrary, r radio.Radio, cfg Config) *Crucible {
	if r == nil {
		r = radio.NullRadio{}
	}
	c := &Crucible{fab: fab, brickLib: brickLib, radio: r, cfg: cfg, curStage: Initialization}
	c.radio.Broadcast(radio.Event{Kind: radio.StageEntered, Stage: Initialization.String()})
	c.enterStage(Building)
	return c
}

// CurrentStage implements the Host tick introspection point.
func (c *Crucible) CurrentStage() Stage { return c.curStage }

// TargetTimeScale implements the Host tick introspection point.
func (c *Crucible) TargetTimeScale() float32 { return c.curStage.targetTimeScale() }

// Fabric exposes the owned fabric for a host's read-only snapshot.
func (c *Crucible) Fabric() *fabric.Fabric { return c.fab }

// Library exposes the shared read-only brick library for the external
// build phase; the physics inner loop never consults it.
func (c *Crucible) Library() library.BrickLibrary { return c.brickLib }

// Iterate is the Host tick's only mutation entry point: it delegates
// subSteps to the active controller, inspects the outcome, and performs
// whatever transition the outcome implies.
func (c *Crucible) Iterate(subSteps uint32) {
	if c.active == nil {
		return
	}
	outcome := c.active.Iterate(int(subSteps))
	switch outcome.Kind {
	case stage.Continue:
		return
	case stage.Done:
		if len(c.queue) > 0 {
			c.active, c.queue = c.queue[0], c.queue[1:]
			return
		}
		c.advance()
	case stage.Failed:
		c.radio.Broadcast(radio.Event{Kind: radio.Error, ErrorKind: outcome.Failure.String(), Message: outcome.Message})
		c.enterStage(Viewing)
	}
}

// ReportFrame lets a host publish per-frame telemetry (its measured FPS)
// onto the Radio alongside the Iterate call that FPS produced the
// sub-step count for. It is kept separate from Iterate so Iterate's
// signature matches the host-tick's single-argument contract exactly.
func (c *Crucible) ReportFrame(fps float64) {
	c.radio.Broadcast(radio.Event{Kind: radio.UpdateTime, FPS: fps, TimeScale: c.TargetTimeScale()})
}

// RequestPhysicsTesting is the external event that moves a Crucible from
// Viewing into PhysicsTesting. Requesting it from any other stage is a
// StageSequenceViolation, reported on the radio without mutating state.
func (c *Crucible) RequestPhysicsTesting() {
	c.requestTransition(PhysicsTesting)
}

// RequestRebuild is the external event that moves a Crucible from
// Viewing back into Building, reloading the design.
func (c *Crucible) RequestRebuild() {
	c.requestTransition(Building)
}

func (c *Crucible) requestTransition(target Stage) {
	if c.curStage != Viewing {
		c.radio.Broadcast(radio.Event{
			Kind:      radio.Error,
			ErrorKind: "StageSequenceViolation",
			Message:   "cannot enter " + target.String() + " from " + c.curStage.String(),
		})
		return
	}
	c.enterStage(target)
}

// advance implements the state machine's unconditional edges: the
// transitions a controller's own Done outcome triggers without any
// external event.
func (c *Crucible) advance() {
	switch c.curStage {
	case Building:
		c.enterStage(Shaping)
	case Shaping:
		c.radio.Broadcast(radio.Event{Kind: radio.FabricBuilt})
		c.enterStage(Pretensing)
	case Pretensing, PhysicsTesting:
		c.enterStage(Viewing)
	default:
		// Viewing and Initialization have no controller to complete, so
		// advance is never reached from them.
	}
}

// enterStage builds the controller (or controller sequence) for stage,
// swaps it in, and emits the StageEntered event.
func (c *Crucible) enterStage(s Stage) {
	c.curStage = s
	c.queue = nil

	switch s {
	case Building:
		c.active = stage.NewAnimator(c.fab, c.cfg.BuildScript)
	case Shaping:
		c.active = stage.NewAnimator(c.fab, c.cfg.ShapeScript)
	case Pretensing:
		pretenser := stage.NewPretenser(stage.PretenserConfig{
			Fabric:         c.fab,
			TargetAltitude: c.cfg.TargetAltitude,
			PretenstTarget: c.cfg.PretenstTarget,
			Duration:       c.cfg.PretenseDuration,
			RampSteps:      c.cfg.PretenseRampSteps,
		})
		converger := stage.NewConverger(stage.ConvergerConfig{
			Fabric:      c.fab,
			InitialDrag: c.cfg.ConvergeInitialDrag,
			Duration:    c.cfg.ConvergeDuration,
		}, c.radio)
		c.active = pretenser
		c.queue = []stage.Controller{converger}
	case PhysicsTesting:
		faller := stage.NewFaller(stage.FallerConfig{
			Fabric:   c.fab,
			Surface:  c.cfg.Surface,
			Duration: c.cfg.FallDuration,
		})
		settler := stage.NewSettler(stage.SettlerConfig{
			Fabric:      c.fab,
			Surface:     c.cfg.Surface,
			InitialDrag: c.cfg.SettleInitialDrag,
			Duration:    c.cfg.SettleDuration,
		})
		c.active = faller
		c.queue = []stage.Controller{settler}
	case Viewing:
		c.active = nil
	}

	c.radio.Broadcast(radio.Event{Kind: radio.StageEntered, Stage: s.String()})
}
