package fabric

import "github.com/beautiful-code/crucible/internal/physics"

// Interval is a directed (alpha, omega) pair of joint indices carrying a
// role, a preferred length, and a per-interval stiffness coefficient. A
// Push interval is compression-only (it only exerts force while shorter
// than ideal); a Pull interval is tension-only (only while longer than
// ideal).
type Interval struct {
	Alpha, Omega int
	Role         Role
	Ideal        float32
	Stiffness    float32

	// MaterialIndex selects the catalogue entry supplying this interval's
	// linear density for joint mass accumulation.
	MaterialIndex int

	// CurrentLength and Strain are recomputed every sub-step and cached
	// here for snapshot consumers between Iterate calls.
	CurrentLength float32
	Strain        float32

	rampFrom, rampTarget float32
	rampTotalSteps       int
	rampStepsRemaining   int
}

// NewInterval constructs an interval with no active length ramp.
func NewInterval(alpha, omega int, role Role, ideal, stiffness float32, materialIndex int) Interval {
	return Interval{
		Alpha:         alpha,
		Omega:         omega,
		Role:          role,
		Ideal:         ideal,
		Stiffness:     stiffness,
		MaterialIndex: materialIndex,
	}
}

// StartRamp arms a linear ideal-length ramp from the interval's current
// Ideal to target, completing after steps sub-steps.
func (iv *Interval) StartRamp(target float32, steps int) {
	if steps <= 0 {
		iv.Ideal = target
		iv.rampStepsRemaining = 0
		return
	}
	iv.rampFrom = iv.Ideal
	iv.rampTarget = target
	iv.rampTotalSteps = steps
	iv.rampStepsRemaining = steps
}

// RampActive reports whether an ideal-length ramp is still in progress.
func (iv *Interval) RampActive() bool {
	return iv.rampStepsRemaining > 0
}

// advanceRamp linearly advances Ideal one step toward rampTarget, freezing
// it once the countdown reaches zero.
func (iv *Interval) advanceRamp() {
	if iv.rampStepsRemaining <= 0 {
		return
	}
	iv.rampStepsRemaining--
	elapsed := iv.rampTotalSteps - iv.rampStepsRemaining
	nuance := float32(elapsed) / float32(iv.rampTotalSteps)
	iv.Ideal = iv.rampFrom*(1-nuance) + iv.rampTarget*nuance
	if iv.rampStepsRemaining == 0 {
		iv.Ideal = iv.rampTarget
	}
}

// forceAllowed reports whether the interval's role permits exerting force
// at the current strain sign: Push only under compression (negative
// strain), Pull only under tension (positive strain).
func (iv *Interval) forceAllowed() bool {
	switch iv.Role {
	case Push:
		return iv.Strain < 0
	case Pull:
		return iv.Strain > 0
	default:
		return false
	}
}

// iterate runs one sub-step for this interval: ramps its ideal length,
// recomputes current length and strain from joint positions, accumulates
// axial spring force and viscous damping onto its two endpoints, and
// folds half the interval's mass into each endpoint.
func (iv *Interval) iterate(joints []Joint, profile physics.Profile, material Material) {
	iv.advanceRamp()

	alpha := &joints[iv.Alpha]
	omega := &joints[iv.Omega]

	delta := omega.Position.Sub(alpha.Position)
	unit, length := delta.Normalize()
	iv.CurrentLength = length

	if iv.Ideal <= 0 {
		iv.Strain = 0
		return
	}
	iv.Strain = (length - iv.Ideal) / iv.Ideal

	if !iv.forceAllowed() {
		iv.Strain = 0
	} else {
		magnitude := iv.Stiffness * profile.GlobalStiffness * iv.Strain * length
		forceVec := unit.Scale(magnitude)
		alpha.addForce(forceVec)
		omega.addForce(forceVec.Scale(-1))

		relVelocity := omega.Velocity.Sub(alpha.Velocity).Dot(unit)
		dampingMagnitude := profile.Viscosity * relVelocity
		dampingVec := unit.Scale(dampingMagnitude)
		alpha.addForce(dampingVec)
		omega.addForce(dampingVec.Scale(-1))
	}

	halfMass := material.LinearDensity * length / 2
	alpha.addIncidentMass(halfMass)
	omega.addIncidentMass(halfMass)
}
