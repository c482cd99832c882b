package stage

import (
	"math"

	"github.com/beautiful-code/crucible/internal/fabric"
	"github.com/beautiful-code/crucible/internal/physics"
	"github.com/beautiful-code/crucible/internal/progress"
)

// Waveform produces a value in [-1, 1] for a phase in [0, 1).
type Waveform interface {
	Value(phase float32) float32
}

// SineWaveform is a smooth periodic modulation.
type SineWaveform struct{}

func (SineWaveform) Value(phase float32) float32 {
	return float32(math.Sin(2 * math.Pi * float64(phase)))
}

// PulseWaveform is a square wave with the given fraction of its period
// spent at +1 before dropping to -1.
type PulseWaveform struct {
	DutyCycle float32
}

func (p PulseWaveform) Value(phase float32) float32 {
	if phase < p.DutyCycle {
		return 1
	}
	return -1
}

// ActuatorConfig configures one periodic ideal-length modulation over two
// interval sets driven in opposite phase.
type ActuatorConfig struct {
	Fabric    *fabric.Fabric
	Alpha     []int // interval indices modulated in-phase
	Omega     []int // interval indices modulated in opposite phase
	Period    float32
	Amplitude float32
	Waveform  Waveform
	Duration  float64 // 0 means run indefinitely
}

// Actuator modulates designated intervals' ideal lengths by a periodic
// waveform, distributed over an Alpha set and an Omega set in opposite
// phase.
type Actuator struct {
	cfg        ActuatorConfig
	baseIdeals map[int]float32
	elapsed    float32
	progress   *progress.Progress
}

// NewActuator captures the current ideal length of every designated
// interval as the modulation's baseline.
func NewActuator(cfg ActuatorConfig) *Actuator {
	if cfg.Waveform == nil {
		cfg.Waveform = SineWaveform{}
	}
	a := &Actuator{cfg: cfg, baseIdeals: make(map[int]float32)}
	for _, id := range cfg.Alpha {
		a.baseIdeals[id] = cfg.Fabric.Intervals[id].Ideal
	}
	for _, id := range cfg.Omega {
		a.baseIdeals[id] = cfg.Fabric.Intervals[id].Ideal
	}
	if cfg.Duration > 0 {
		a.progress = &progress.Progress{}
		a.progress.Start(cfg.Duration)
	}
	return a
}

// Iterate implements Controller.
func (a *Actuator) Iterate(nominalSubSteps int) Outcome {
	if a.progress != nil && !a.progress.IsBusy() {
		return doneOutcome()
	}

	dt := float32(nominalSubSteps) * fabric.SubStepDuration
	a.elapsed += dt
	phase := float32(0)
	if a.cfg.Period > 0 {
		phase = modf32(a.elapsed/a.cfg.Period, 1)
	}
	alphaFactor := a.cfg.Waveform.Value(phase)
	omegaFactor := a.cfg.Waveform.Value(modf32(phase+0.5, 1))

	for _, id := range a.cfg.Alpha {
		a.setIdeal(id, alphaFactor)
	}
	for _, id := range a.cfg.Omega {
		a.setIdeal(id, omegaFactor)
	}

	if err := a.cfg.Fabric.Iterate(physics.PhysicsTest, nominalSubSteps); err != nil {
		return failedOutcome(UnstableStructure, "actuation unstable: %v", err)
	}

	if a.progress != nil {
		a.progress.Decrement(float64(nominalSubSteps) * fabric.SubStepDuration)
		if !a.progress.IsBusy() {
			return doneOutcome()
		}
	}
	return continueOutcome()
}

func (a *Actuator) setIdeal(intervalID int, factor float32) {
	base := a.baseIdeals[intervalID]
	a.cfg.Fabric.Intervals[intervalID].Ideal = base * (1 + a.cfg.Amplitude*factor)
}

func modf32(x, m float32) float32 {
	r := float32(math.Mod(float64(x), float64(m)))
	if r < 0 {
		r += m
	}
	return r
}
